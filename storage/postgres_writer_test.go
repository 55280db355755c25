package storage

import (
	"coinafrique-scraper/config"
	"coinafrique-scraper/models"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildBatch(t *testing.T) {
	scrapedAt := time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC)
	batch := buildBatch(sampleTable(), 3, scrapedAt)
	require.Equal(t, 3, batch.Len())

	first := batch.QueuedQueries[0]
	require.Equal(t, insertSQL, first.SQL)
	require.Equal(t, "poules-lapins-et-pigeons", first.Arguments[0])
	require.Equal(t, 3, first.Arguments[1])
	require.Equal(t, 0, first.Arguments[2])
	price, ok := first.Arguments[5].(*float64)
	require.True(t, ok)
	require.Equal(t, 45000.0, *price)
	require.Equal(t, "Almadies", first.Arguments[7])
	require.Equal(t, scrapedAt, first.Arguments[9])

	sentinel := batch.QueuedQueries[1]
	require.Nil(t, sentinel.Arguments[5])
	require.Equal(t, models.CityNotGiven, sentinel.Arguments[7])
}

func TestBuildBatchUnparsablePrice(t *testing.T) {
	table := models.Table{
		Category: models.AutresAnimaux(),
		Listings: []models.Listing{
			{Title: "Taureau", Price: "1e25", Address: "Dakar, Pikine, Sénégal"},
			{Title: "Bélier", Price: "999999999999", Address: "Dakar, Pikine, Sénégal"},
		},
	}
	batch := buildBatch(table, 2, time.Now())
	require.Equal(t, 2, batch.Len())
	require.Nil(t, batch.QueuedQueries[0].Arguments[5])

	price, ok := batch.QueuedQueries[1].Arguments[5].(*float64)
	require.True(t, ok)
	require.Equal(t, 999999999999.0, *price)
}

func TestSchemaHasUnboundedPriceColumn(t *testing.T) {
	require.Contains(t, schemaSQL, "price_numeric NUMERIC,")
	require.NotContains(t, schemaSQL, "NUMERIC(")
}

func TestBuildBatchEmpty(t *testing.T) {
	require.Equal(t, 0, buildBatch(models.Table{Category: models.AutresAnimaux()}, 2, time.Now()).Len())
}

// Runs only when COINAFRIQUE_TEST_PG=1 and DB_* point at a scratch database.
func TestPostgresWriterIntegration(t *testing.T) {
	if os.Getenv("COINAFRIQUE_TEST_PG") != "1" {
		t.Skip("set COINAFRIQUE_TEST_PG=1 to run against a live postgres")
	}

	cfg, err := config.Load("")
	require.NoError(t, err)

	ctx := context.Background()
	w, err := NewPostgresWriter(ctx, cfg)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.EnsureSchema(ctx))
	require.NoError(t, w.WriteTable(ctx, sampleTable(), 3, time.Now()))
}
