package commands

import (
	"bufio"
	"coinafrique-scraper/config"
	"coinafrique-scraper/models"
	"coinafrique-scraper/services"
	"coinafrique-scraper/storage"
	"coinafrique-scraper/utils"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var scrapeOpts struct {
	pages       []int
	category    string
	show        int
	noExport    bool
	stdout      bool
	postgres    bool
	refresh     bool
	interactive bool
}

func init() {
	f := scrapeCmd.Flags()
	f.IntSliceVarP(&scrapeOpts.pages, "pages", "p", []int{config.MinPages}, "Catalog pages to load per category (2-599). Repeat to run several requests.")
	f.StringVarP(&scrapeOpts.category, "category", "c", config.AllCategories, "Category slug to scrape, or \"all\".")
	f.IntVar(&scrapeOpts.show, "show", 20, "Rows of each table to print, 0 for all.")
	f.BoolVar(&scrapeOpts.noExport, "no-export", false, "Do not write CSV exports.")
	f.BoolVar(&scrapeOpts.stdout, "stdout", false, "Write the CSV export to stdout instead of printing tables. Needs a single category.")
	f.BoolVar(&scrapeOpts.postgres, "pg", false, "Also publish the tables to PostgreSQL.")
	f.BoolVar(&scrapeOpts.refresh, "refresh", false, "Drop cached tables of the selected categories before each request.")
	f.BoolVarP(&scrapeOpts.interactive, "interactive", "i", false, "Read further page counts from stdin.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--pages N]... [--category <slug>|all]",
	Short: "Scrapes catalog pages and prints listings per city and price distributions.",
	Long: `Scrapes catalog pages and prints listings per city and price distributions.

Repeated requests for the same page count are served from memory. With
--interactive, page counts are read from stdin one per line; "refresh" drops
the cached tables of the selected categories, "clear" drops all of them and
"quit" ends the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pageCounts := scrapeOpts.pages
		if scrapeOpts.interactive && !cmd.Flags().Changed("pages") {
			pageCounts = nil
		} else if len(pageCounts) == 0 {
			pageCounts = []int{config.MinPages}
		}
		for _, n := range pageCounts {
			if err := config.ValidatePages(n); err != nil {
				return err
			}
		}

		categories, err := cfg.Select(scrapeOpts.category)
		if err != nil {
			return err
		}
		if scrapeOpts.stdout && len(categories) != 1 {
			return errors.New("--stdout needs a single --category")
		}

		for _, n := range pageCounts {
			if err := scrapeOnce(cmd, categories, n); err != nil {
				return err
			}
		}

		if scrapeOpts.interactive {
			return prompt(cmd, categories)
		}
		return nil
	},
}

func scrapeOnce(cmd *cobra.Command, categories []models.Category, pageCount int) error {
	l := sharedLoader()
	if scrapeOpts.refresh {
		invalidate(categories)
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" loading %d pages for %d categories", pageCount, len(categories))
	release := utils.Hold()
	s.Start()
	started := time.Now()
	tables, err := l.LoadAll(cmd.Context(), categories, pageCount)
	s.Stop()
	release()
	if err != nil {
		return err
	}
	utils.Info("scraping time %.1fs", time.Since(started).Seconds())

	out := cmd.OutOrStdout()
	for _, t := range tables {
		if scrapeOpts.stdout {
			data, name, err := storage.ExportCSV(t)
			if err != nil {
				return err
			}
			utils.Info("%s: %d rows as %s", t.Category.Slug, t.Len(), name)
			if _, err := out.Write(data); err != nil {
				return err
			}
			continue
		}

		utils.Section(t.Category.Label)
		services.PrintListings(out, t, scrapeOpts.show)
		services.PrintReport(out, services.GenerateReport(t))

		if !scrapeOpts.noExport {
			path := filepath.Join(cfg.ExportDir, storage.ExportFilenameFor(t.Category))
			if err := storage.NewCSVWriter(path).Write(t); err != nil {
				return err
			}
		}
	}

	if scrapeOpts.postgres {
		return publish(cmd.Context(), tables, pageCount)
	}
	return nil
}

func invalidate(categories []models.Category) {
	for _, c := range categories {
		pageCache.Invalidate(c.Slug)
	}
}

// prompt serves page counts read line by line until quit or end of input.
// A failed request is reported and the session goes on.
func prompt(cmd *cobra.Command, categories []models.Category) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprintf(cmd.ErrOrStderr(), "pages (%d-%d), refresh, clear or quit> ", config.MinPages, config.MaxPages)
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "quit", "exit":
			return nil
		case "refresh":
			sharedLoader()
			invalidate(categories)
			utils.Info("cached tables dropped for %d categories", len(categories))
		case "clear":
			sharedLoader()
			pageCache.Clear()
			utils.Info("cache cleared")
		default:
			n, err := strconv.Atoi(line)
			if err != nil {
				utils.Warn("not a page count: %q", line)
				continue
			}
			if err := config.ValidatePages(n); err != nil {
				utils.Warn("%v", err)
				continue
			}
			if err := scrapeOnce(cmd, categories, n); err != nil {
				if ctxErr := cmd.Context().Err(); ctxErr != nil {
					return ctxErr
				}
				utils.Error("%v", err)
			}
		}
	}
}

func publish(ctx context.Context, tables []models.Table, pageCount int) error {
	pg, err := storage.NewPostgresWriter(ctx, cfg)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}

	scrapedAt := time.Now()
	for _, t := range tables {
		if err := pg.WriteTable(ctx, t, pageCount, scrapedAt); err != nil {
			return fmt.Errorf("%s: %w", t.Category.Slug, err)
		}
		utils.Success("Saved %d %s listings to PostgreSQL", t.Len(), t.Category.Slug)
	}
	return nil
}
