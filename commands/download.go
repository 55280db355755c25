package commands

import (
	"coinafrique-scraper/config"
	"coinafrique-scraper/services"
	"coinafrique-scraper/storage"
	"coinafrique-scraper/utils"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var downloadOpts struct {
	category string
	show     int
	report   bool
	noExport bool
}

func init() {
	f := downloadCmd.Flags()
	f.StringVarP(&downloadOpts.category, "category", "c", config.AllCategories, "Category slug whose snapshot to show, or \"all\".")
	f.IntVar(&downloadOpts.show, "show", 20, "Rows of each snapshot to print, 0 for all.")
	f.BoolVar(&downloadOpts.report, "report", false, "Also print the city and price summary of each snapshot.")
	f.BoolVar(&downloadOpts.noExport, "no-export", false, "Do not copy the snapshots to the export directory.")
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download [--category <slug>|all]",
	Short: "Shows the pre-scraped snapshot files and exports them as CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := cfg.Select(downloadOpts.category)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, cat := range categories {
			if cat.SnapshotFile == "" {
				utils.Warn("No snapshot configured for %s", cat.Slug)
				continue
			}

			path := filepath.Join(cfg.SnapshotDir, cat.SnapshotFile)
			snapshot, err := storage.LoadSnapshot(path)
			if err != nil {
				return err
			}

			utils.Section(cat.Label)
			fmt.Fprintln(out, services.DimensionLine(len(snapshot.Rows), len(snapshot.Header)))
			services.PrintRows(out, cat.Label, snapshot.Header, snapshot.Rows, downloadOpts.show)

			if downloadOpts.report {
				t, err := snapshot.Table(cat)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				services.PrintReport(out, services.GenerateReport(t))
			}

			if !downloadOpts.noExport {
				w := storage.NewCSVWriter(filepath.Join(cfg.ExportDir, cat.SnapshotFile))
				if err := w.WriteSnapshot(snapshot); err != nil {
					return err
				}
			}
		}
		return nil
	},
}
