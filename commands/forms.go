package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(formsCmd)
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Lists the evaluation form links.",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(cfg.FormURLs))
		for name := range cfg.FormURLs {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			fmt.Fprintf(out, "%-8s %s\n", name, cfg.FormURLs[name])
		}
		return nil
	},
}
