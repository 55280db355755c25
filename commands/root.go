package commands

import (
	"coinafrique-scraper/cache"
	"coinafrique-scraper/config"
	"coinafrique-scraper/scraper/coinafrique"
	"coinafrique-scraper/utils"
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	configPath string
	logLevel   string

	// One loader and cache per loaded config, shared by every request the
	// process serves.
	pageCache    *cache.Cache
	loader       *coinafrique.Loader
	closeFetcher = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "coinafrique",
	Short:         "coinafrique scrapes animal listings from sn.coinafrique.com and summarises them by city.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		if err := utils.SetLevel(loaded.LogLevel); err != nil {
			return err
		}
		resetLoader()
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error.")
}

// sharedLoader builds the fetcher, cache and loader on first use.
func sharedLoader() *coinafrique.Loader {
	if loader == nil {
		var fetcher coinafrique.Fetcher
		fetcher, closeFetcher = coinafrique.NewFetcher(cfg)
		pageCache = cache.New(cfg.CacheTTL)
		loader = coinafrique.NewLoader(fetcher, pageCache)
	}
	return loader
}

// resetLoader drops cached tables and releases the fetcher.
func resetLoader() {
	closeFetcher()
	closeFetcher = func() {}
	if pageCache != nil {
		pageCache.Clear()
	}
	pageCache = nil
	loader = nil
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	resetLoader()
	if err != nil {
		utils.Error("%v", err)
		os.Exit(1)
	}
}
