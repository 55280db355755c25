package commands

import (
	"coinafrique-scraper/config"
	"coinafrique-scraper/services"
	"coinafrique-scraper/storage"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var summaryOpts struct {
	input    string
	category string
}

func init() {
	f := summaryCmd.Flags()
	f.StringVarP(&summaryOpts.input, "input", "i", "", "CSV export to summarise.")
	f.StringVarP(&summaryOpts.category, "category", "c", "", "Category slug the export belongs to.")
	_ = summaryCmd.MarkFlagRequired("input")
	_ = summaryCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary --input <file.csv> --category <slug>",
	Short: "Prints the city and price summary of a previously exported table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, ok := cfg.Category(summaryOpts.category)
		if !ok {
			return fmt.Errorf("%w %q", config.ErrUnknownCategory, summaryOpts.category)
		}

		f, err := os.Open(summaryOpts.input)
		if err != nil {
			return fmt.Errorf("could not open %s: %w", summaryOpts.input, err)
		}
		defer f.Close()

		t, err := storage.ReadTable(f, cat)
		if err != nil {
			return fmt.Errorf("%s: %w", summaryOpts.input, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, services.DimensionLine(t.Len(), len(t.Columns())))
		services.PrintReport(out, services.GenerateReport(t))
		return nil
	},
}
