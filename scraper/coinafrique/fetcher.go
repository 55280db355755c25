package coinafrique

import (
	"coinafrique-scraper/config"
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Fetcher returns the raw HTML of a catalog page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher issues one plain GET per page. It never retries.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(cfg *config.Config) *HTTPFetcher {
	client := resty.New().
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(0)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode())
	}
	return res.String(), nil
}

// NewFetcher builds the fetcher named by cfg.Fetcher. The returned close
// function releases browser resources and is safe to call for HTTP.
func NewFetcher(cfg *config.Config) (Fetcher, func()) {
	if cfg.Fetcher == config.FetcherBrowser {
		b := NewBrowserFetcher(cfg)
		return b, b.Close
	}
	return NewHTTPFetcher(cfg), func() {}
}
