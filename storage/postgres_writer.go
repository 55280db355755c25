package storage

import (
	"coinafrique-scraper/config"
	"coinafrique-scraper/models"
	"coinafrique-scraper/services"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS listings (
	id BIGSERIAL PRIMARY KEY,
	category TEXT NOT NULL,
	page_count INTEGER NOT NULL,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	price TEXT NOT NULL,
	price_numeric NUMERIC,
	address TEXT NOT NULL,
	city TEXT NOT NULL,
	img_link TEXT NOT NULL,
	scraped_at TIMESTAMPTZ NOT NULL
);

ALTER TABLE listings ALTER COLUMN price_numeric TYPE NUMERIC;

CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category, scraped_at);
CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city);
`

const insertSQL = `
INSERT INTO listings (category, page_count, position, title, price, price_numeric, address, city, img_link, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// PostgresWriter publishes scraped tables. Every call appends a new
// snapshot; nothing is read back.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(ctx context.Context, cfg *config.Config) (*PostgresWriter, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if _, err := w.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// WriteTable inserts every listing of t in one batch, stamped with
// scrapedAt and the page count that produced it.
func (w *PostgresWriter) WriteTable(ctx context.Context, t models.Table, pageCount int, scrapedAt time.Time) error {
	batch := buildBatch(t, pageCount, scrapedAt)
	if batch.Len() == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}
	return nil
}

func buildBatch(t models.Table, pageCount int, scrapedAt time.Time) *pgx.Batch {
	batch := &pgx.Batch{}
	for i, l := range t.Listings {
		var priceNumeric *float64
		if v, ok := services.ParsePrice(l.Price); ok {
			priceNumeric = &v
		}
		batch.Queue(
			insertSQL,
			t.Category.Slug,
			pageCount,
			i,
			l.Title,
			l.Price,
			priceNumeric,
			l.Address,
			services.ExtractCity(l.Address),
			l.ImageURL,
			scrapedAt,
		)
	}
	return batch
}
