package coinafrique

import (
	"coinafrique-scraper/config"
	"coinafrique-scraper/utils"
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders catalog pages in headless Chrome and returns the
// resulting document. Each Fetch opens and closes its own tab.
type BrowserFetcher struct {
	cfg         *config.Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewBrowserFetcher(cfg *config.Config) *BrowserFetcher {
	utils.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		utils.BrowserOpts(cfg.Headless, cfg.UserAgent)...,
	)
	return &BrowserFetcher{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

func (b *BrowserFetcher) Close() {
	utils.Info("Closing browser...")
	b.allocCancel()
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx)
	defer tabCancel()

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	runCtx := tabCtx
	if b.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(tabCtx, b.cfg.RequestTimeout)
		defer cancel()
	}

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		utils.HideWebDriver(),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp failed: %w", err)
	}
	return html, nil
}
