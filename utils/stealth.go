package utils

import (
	"context"
	"math/rand"

	"github.com/chromedp/chromedp"
)

// Desktop browser strings; one is picked per browser session unless the
// config pins a user agent.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// BrowserOpts returns the allocator options for the page-fetching browser.
// An empty userAgent picks one from RandomUserAgent.
func BrowserOpts(headless bool, userAgent string) []chromedp.ExecAllocatorOption {
	if userAgent == "" {
		userAgent = RandomUserAgent()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1366, 900),
		chromedp.UserAgent(userAgent),
	}

	if headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}

	return opts
}

// HideWebDriver clears navigator.webdriver before the page scripts read it.
func HideWebDriver() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.Evaluate(
			`Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`,
			nil,
		).Do(ctx)
	})
}
