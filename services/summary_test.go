package services

import (
	"coinafrique-scraper/models"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func listing(price, address string) models.Listing {
	return models.Listing{Title: "annonce", Price: price, Address: address, ImageURL: "i.jpg"}
}

func TestExtractCity(t *testing.T) {
	cases := []struct {
		address string
		want    string
	}{
		{"Dakar, Almadies, Sénégal", "Almadies"},
		{"Sénégal", models.CityNotGiven},
		{"", models.CityNotGiven},
		{"Thiès, Sénégal", "Thiès"},
		{"Région, Dakar,  Parcelles Assainies , Sénégal", "Parcelles Assainies"},
		{", Sénégal", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ExtractCity(c.address), "address=%q", c.address)
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		price string
		want  float64
		ok    bool
	}{
		{"45000", 45000, true},
		{"0", 0, true},
		{"12.5", 12.5, true},
		{models.PriceOnRequest, 0, false},
		{" Prix sur demande ", 0, false},
		{"45000CFA", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-100", 0, false},
		{"1e15", 1e15, true},
		{"1e25", 0, false},
		{"12345678901234567890123456", 0, false},
	}
	for _, c := range cases {
		got, ok := ParsePrice(c.price)
		require.Equal(t, c.ok, ok, "price=%q", c.price)
		require.Equal(t, c.want, got, "price=%q", c.price)
	}
}

func TestCountsByCity(t *testing.T) {
	listings := []models.Listing{
		listing("1000", "Dakar, Pikine, Sénégal"),
		listing("2000", "Sénégal"),
		listing("3000", "Dakar, Almadies, Sénégal"),
		listing(models.PriceOnRequest, "Dakar, Almadies, Sénégal"),
		listing("5000", "Thiès, Sénégal"),
		listing("6000", "Dakar, Pikine, Sénégal"),
		listing("7000", "Dakar, Almadies, Sénégal"),
	}

	got := CountsByCity(listings)
	want := []CityCount{
		{City: "Almadies", Count: 3},
		{City: "Pikine", Count: 2},
		{City: models.CityNotGiven, Count: 1},
		{City: "Thiès", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}

	total := 0
	for _, c := range got {
		total += c.Count
	}
	require.Equal(t, len(listings), total)

	require.Equal(t, got, CountsByCity(listings), "ties must resolve the same way every run")
}

func TestCountsByCityEmpty(t *testing.T) {
	got := CountsByCity(nil)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFilterPriced(t *testing.T) {
	listings := []models.Listing{
		listing("45000", "Dakar, Almadies, Sénégal"),
		listing(models.PriceOnRequest, "Dakar, Almadies, Sénégal"),
		listing("80000", "Sénégal"),
		listing("60000", "Thiès, Sénégal"),
		listing("60001", "Dakar, Pikine, Sénégal"),
		listing("0", "Mbour, Sénégal"),
		listing("abc", "Mbour, Sénégal"),
	}

	got := FilterPriced(listings)
	require.Len(t, got, 4)

	require.Equal(t, "Almadies", got[0].City)
	require.Equal(t, 45000.0, got[0].PriceNumeric)
	require.Equal(t, "0-60000", got[0].PriceClass)

	require.Equal(t, "Thiès", got[1].City)
	require.Equal(t, "0-60000", got[1].PriceClass)

	require.Equal(t, "Pikine", got[2].City)
	require.Equal(t, "60000-120000", got[2].PriceClass)

	require.Equal(t, "Mbour", got[3].City)
	require.Equal(t, "0-60000", got[3].PriceClass)

	for _, p := range got {
		require.NotEqual(t, models.CityNotGiven, p.City)
		require.True(t, ClassFor(p.PriceNumeric).Contains(p.PriceNumeric))
		require.Equal(t, ClassFor(p.PriceNumeric).Label(), p.PriceClass)
	}
}

func TestSentinelRowCountedButNotPriced(t *testing.T) {
	listings := []models.Listing{listing(models.PriceOnRequest, "Dakar, Ouakam, Sénégal")}

	require.Empty(t, FilterPriced(listings))
	require.Equal(t, []CityCount{{City: "Ouakam", Count: 1}}, CountsByCity(listings))
}

func TestClassFor(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{0, "0-60000"},
		{1, "0-60000"},
		{60000, "0-60000"},
		{60000.5, "60000-120000"},
		{120000, "60000-120000"},
		{120001, "120000-180000"},
		{1500000, "1440000-1500000"},
		{MaxPrice, "999999999960000-1000000000020000"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ClassFor(c.price).Label(), "price=%v", c.price)
		require.True(t, ClassFor(c.price).Contains(c.price), "price=%v", c.price)
	}
}

func TestHugePricesAreNotClassified(t *testing.T) {
	listings := []models.Listing{
		listing("1e25", "Dakar, Pikine, Sénégal"),
		listing("999999999999999999999999", "Dakar, Pikine, Sénégal"),
		listing("1000000000000000", "Dakar, Pikine, Sénégal"),
	}

	got := FilterPriced(listings)
	require.Len(t, got, 1)
	require.Equal(t, MaxPrice, got[0].PriceNumeric)
	require.True(t, ClassFor(got[0].PriceNumeric).Contains(got[0].PriceNumeric))
	require.Equal(t, 16666666667, NumClasses(got[0].PriceNumeric))

	report := GenerateReport(models.Table{Category: models.AutresAnimaux(), Listings: listings})
	require.Equal(t, 2, report.PriceOnRequest)
	require.Len(t, report.Classes, 1)
}

func TestNumClasses(t *testing.T) {
	require.Equal(t, 1, NumClasses(0))
	require.Equal(t, 1, NumClasses(45000))
	require.Equal(t, 1, NumClasses(60000))
	require.Equal(t, 2, NumClasses(60001))
	require.Equal(t, 25, NumClasses(1500000))
}

func TestClassHistogram(t *testing.T) {
	priced := FilterPriced([]models.Listing{
		listing("130000", "Dakar, Pikine, Sénégal"),
		listing("1000", "Dakar, Pikine, Sénégal"),
		listing("59000", "Dakar, Pikine, Sénégal"),
	})

	got := ClassHistogram(priced)
	want := []ClassCount{
		{Class: PriceClass{Lower: 0, Upper: 60000}, Count: 2},
		{Class: PriceClass{Lower: 120000, Upper: 180000}, Count: 1},
	}
	require.Equal(t, want, got)
}

func TestPriceDistribution(t *testing.T) {
	priced := FilterPriced([]models.Listing{
		listing("10000", "Dakar, Pikine, Sénégal"),
		listing("5000", "Thiès, Sénégal"),
		listing("40000", "Dakar, Pikine, Sénégal"),
		listing("20000", "Dakar, Pikine, Sénégal"),
		listing("30000", "Dakar, Pikine, Sénégal"),
	})

	got := PriceDistribution(priced)
	want := []CityDistribution{
		{City: "Pikine", Count: 4, Min: 10000, Q1: 17500, Median: 25000, Q3: 32500, Max: 40000, Mean: 25000},
		{City: "Thiès", Count: 1, Min: 5000, Q1: 5000, Median: 5000, Q3: 5000, Max: 5000, Mean: 5000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("distribution mismatch (-want +got):\n%s", diff)
	}
}
