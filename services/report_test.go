package services

import (
	"bytes"
	"coinafrique-scraper/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateReport(t *testing.T) {
	tbl := models.Table{
		Category: models.AutresAnimaux(),
		Listings: []models.Listing{
			listing("45000", "Dakar, Almadies, Sénégal"),
			listing(" Prix sur demande ", "Dakar, Almadies, Sénégal"),
			listing("130000", "Thiès, Sénégal"),
			listing("15000", "Sénégal"),
		},
	}

	report := GenerateReport(tbl)
	require.Equal(t, 4, report.Rows)
	require.Equal(t, 4, report.Columns)
	require.Equal(t, 1, report.PriceOnRequest)
	require.Len(t, report.Priced, 2)
	require.Equal(t, 45000.0, report.MinPrice)
	require.Equal(t, 130000.0, report.MaxPrice)
	require.Equal(t, 87500.0, report.AveragePrice)
	require.Equal(t, 3, report.NumClasses)
	require.Equal(t, []CityCount{
		{City: "Almadies", Count: 2},
		{City: "Thiès", Count: 1},
		{City: models.CityNotGiven, Count: 1},
	}, report.Counts)
}

func TestGenerateReportWithoutPrices(t *testing.T) {
	report := GenerateReport(models.Table{
		Category: models.PoulesLapinsPigeons(),
		Listings: []models.Listing{listing(models.PriceOnRequest, "Dakar, Sénégal")},
	})
	require.Empty(t, report.Priced)
	require.Zero(t, report.NumClasses)
	require.Nil(t, report.Distribution)

	var buf bytes.Buffer
	PrintReport(&buf, report)
	out := strings.ToLower(buf.String())
	require.Contains(t, out, "dakar")
	require.NotContains(t, out, "médiane")
}

func TestPrintReport(t *testing.T) {
	report := GenerateReport(models.Table{
		Category: models.PoulesLapinsPigeons(),
		Listings: []models.Listing{
			listing("45000", "Dakar, Almadies, Sénégal"),
			listing("75000", "Dakar, Pikine, Sénégal"),
		},
	})

	var buf bytes.Buffer
	PrintReport(&buf, report)
	out := strings.ToLower(buf.String())

	for _, want := range []string{"almadies", "pikine", "0-60000", "60000-120000", "médiane", "75000"} {
		require.Contains(t, out, want)
	}
}

func TestPrintListingsLimit(t *testing.T) {
	var listings []models.Listing
	for i := 0; i < 5; i++ {
		listings = append(listings, listing("1000", "Dakar, Sénégal"))
	}
	tbl := models.Table{Category: models.AutresAnimaux(), Listings: listings}

	var buf bytes.Buffer
	PrintListings(&buf, tbl, 2)
	out := strings.ToLower(buf.String())

	require.True(t, strings.HasPrefix(out, "data dimension: 5 rows and 4 columns."))
	require.Contains(t, out, "nom")
	require.Contains(t, out, "3 more rows")
}

func TestTruncateText(t *testing.T) {
	require.Equal(t, "court", truncateText("court", 10))
	require.Equal(t, "Pintad...", truncateText("Pintades de race", 9))
	require.Equal(t, "Pi", truncateText("Pintades", 2))
}
