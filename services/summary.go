package services

import (
	"cmp"
	"coinafrique-scraper/models"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// PriceClassWidth is the width, in CFA, of each price class.
const PriceClassWidth = 60000

// MaxPrice is the largest price read as a number. Anything above it is
// treated as missing, which keeps every price class within int64 bounds.
const MaxPrice = 1e15

// ExtractCity returns the second-to-last comma separated part of an address,
// or models.CityNotGiven when there is only one part.
func ExtractCity(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return models.CityNotGiven
	}
	return strings.TrimSpace(parts[len(parts)-2])
}

// ParsePrice reads a normalised price. ok is false for the "Prix sur demande"
// sentinel and anything else that is not a finite number in [0, MaxPrice].
func ParsePrice(price string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxPrice {
		return 0, false
	}
	return v, true
}

type CityCount struct {
	City  string
	Count int
}

// CountsByCity counts every listing under its city, listings without a city
// included, largest count first. Equal counts keep first-seen order.
func CountsByCity(listings []models.Listing) []CityCount {
	index := make(map[string]int)
	counts := make([]CityCount, 0)

	for _, l := range listings {
		city := ExtractCity(l.Address)
		i, ok := index[city]
		if !ok {
			i = len(counts)
			index[city] = i
			counts = append(counts, CityCount{City: city})
		}
		counts[i].Count++
	}

	slices.SortStableFunc(counts, func(a, b CityCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return counts
}

type PriceClass struct {
	Lower int64
	Upper int64
}

func (c PriceClass) Label() string {
	return fmt.Sprintf("%d-%d", c.Lower, c.Upper)
}

func (c PriceClass) Contains(price float64) bool {
	return price >= float64(c.Lower) && price <= float64(c.Upper)
}

// ClassFor places price in its right-closed class; 0 falls in the first one.
func ClassFor(price float64) PriceClass {
	idx := int64(0)
	if price > 0 {
		idx = int64(math.Ceil(price/PriceClassWidth)) - 1
	}
	return PriceClass{
		Lower: idx * PriceClassWidth,
		Upper: (idx + 1) * PriceClassWidth,
	}
}

// NumClasses is how many classes it takes to cover [0, max].
func NumClasses(max float64) int {
	n := int(math.Ceil(max / PriceClassWidth))
	if n < 1 {
		return 1
	}
	return n
}

type PricedListing struct {
	models.Listing
	PriceNumeric float64
	City         string
	PriceClass   string
}

// FilterPriced keeps listings that have both a numeric price and a city, in
// input order, and tags each with its price class.
func FilterPriced(listings []models.Listing) []PricedListing {
	priced := make([]PricedListing, 0, len(listings))

	for _, l := range listings {
		price, ok := ParsePrice(l.Price)
		if !ok {
			continue
		}
		city := ExtractCity(l.Address)
		if city == models.CityNotGiven {
			continue
		}
		priced = append(priced, PricedListing{
			Listing:      l,
			PriceNumeric: price,
			City:         city,
			PriceClass:   ClassFor(price).Label(),
		})
	}

	return priced
}

type ClassCount struct {
	Class PriceClass
	Count int
}

// ClassHistogram counts priced listings per occupied class, lowest first.
func ClassHistogram(priced []PricedListing) []ClassCount {
	byLower := make(map[int64]int)
	for _, p := range priced {
		byLower[ClassFor(p.PriceNumeric).Lower]++
	}

	hist := make([]ClassCount, 0, len(byLower))
	for lower, n := range byLower {
		hist = append(hist, ClassCount{
			Class: PriceClass{Lower: lower, Upper: lower + PriceClassWidth},
			Count: n,
		})
	}
	slices.SortFunc(hist, func(a, b ClassCount) int {
		return cmp.Compare(a.Class.Lower, b.Class.Lower)
	})
	return hist
}

// CityDistribution is the five-number summary of one city's prices.
type CityDistribution struct {
	City   string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
}

// PriceDistribution summarises priced listings per city, cities in the order
// they first appear.
func PriceDistribution(priced []PricedListing) []CityDistribution {
	var order []string
	prices := make(map[string][]float64)
	for _, p := range priced {
		if _, ok := prices[p.City]; !ok {
			order = append(order, p.City)
		}
		prices[p.City] = append(prices[p.City], p.PriceNumeric)
	}

	out := make([]CityDistribution, 0, len(order))
	for _, city := range order {
		values := prices[city]
		slices.Sort(values)

		sum := 0.0
		for _, v := range values {
			sum += v
		}
		out = append(out, CityDistribution{
			City:   city,
			Count:  len(values),
			Min:    values[0],
			Q1:     quantile(values, 0.25),
			Median: quantile(values, 0.5),
			Q3:     quantile(values, 0.75),
			Max:    values[len(values)-1],
			Mean:   sum / float64(len(values)),
		})
	}
	return out
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
