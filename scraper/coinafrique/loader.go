package coinafrique

import (
	"coinafrique-scraper/cache"
	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidPageCount = errors.New("page count must be at least 1")

// FetchError reports the page whose download aborted a load.
type FetchError struct {
	Category string
	Page     int
	URL      string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s page %d (%s): %v", e.Category, e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Loader walks catalog pages in order and concatenates their listings.
type Loader struct {
	fetcher Fetcher
	cache   *cache.Cache
}

// NewLoader returns a loader; c may be nil to always fetch.
func NewLoader(fetcher Fetcher, c *cache.Cache) *Loader {
	return &Loader{
		fetcher: fetcher,
		cache:   c,
	}
}

// LoadPages fetches pages 1..pageCount of category one after another. The
// first failed fetch aborts the whole load and no partial table is returned.
func (l *Loader) LoadPages(ctx context.Context, category models.Category, pageCount int) (models.Table, error) {
	if pageCount < 1 {
		return models.Table{}, fmt.Errorf("%w, got %d", ErrInvalidPageCount, pageCount)
	}

	key := cache.Key{Category: category.Slug, PageCount: pageCount}
	if l.cache != nil {
		if table, ok := l.cache.Get(key); ok {
			utils.Info("%s: serving %d pages from cache (%d listings)", category.Slug, pageCount, table.Len())
			return table, nil
		}
	}

	utils.Info("%s: loading %d pages", category.Slug, pageCount)

	table := models.Table{Category: category, Listings: []models.Listing{}}
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return models.Table{}, err
		}

		result := l.loadPage(ctx, category, category.Job(pageNum))
		if result.Error != nil {
			utils.Error("%s page %d failed: %v", category.Slug, pageNum, result.Error)
			return models.Table{}, result.Error
		}
		table.Listings = append(table.Listings, result.Listings...)
	}

	utils.Success("%s: %d listings from %d pages", category.Slug, table.Len(), pageCount)

	if l.cache != nil {
		l.cache.Put(key, table)
	}
	return table, nil
}

func (l *Loader) loadPage(ctx context.Context, category models.Category, job models.ScrapeJob) models.ScrapeResult {
	html, err := l.fetcher.Fetch(ctx, job.URL)
	if err != nil {
		return models.ScrapeResult{
			PageNumber: job.PageNumber,
			Error: &FetchError{
				Category: job.Category,
				Page:     job.PageNumber,
				URL:      job.URL,
				Err:      err,
			},
		}
	}

	listings, err := Extract(html, category)
	if err != nil {
		return models.ScrapeResult{
			PageNumber: job.PageNumber,
			Error:      fmt.Errorf("%s page %d: %w", job.Category, job.PageNumber, err),
		}
	}

	utils.Debug("%s page %d: %d listings", job.Category, job.PageNumber, len(listings))
	return models.ScrapeResult{
		PageNumber: job.PageNumber,
		Listings:   listings,
	}
}

// LoadAll loads every category concurrently, one goroutine per category,
// pages within a category still in order. Tables come back in the order of
// categories. A failure in any category cancels the others.
func (l *Loader) LoadAll(ctx context.Context, categories []models.Category, pageCount int) ([]models.Table, error) {
	tables := make([]models.Table, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			table, err := l.LoadPages(gctx, category, pageCount)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
