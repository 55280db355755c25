package services

import (
	"coinafrique-scraper/models"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Report struct {
	Category       models.Category
	Rows           int
	Columns        int
	PriceOnRequest int
	Counts         []CityCount
	Priced         []PricedListing
	Classes        []ClassCount
	NumClasses     int
	Distribution   []CityDistribution
	MinPrice       float64
	MaxPrice       float64
	AveragePrice   float64
}

// GenerateReport derives the counts and price views for one table.
func GenerateReport(t models.Table) Report {
	report := Report{
		Category: t.Category,
		Rows:     t.Len(),
		Columns:  len(t.Columns()),
		Counts:   CountsByCity(t.Listings),
		Priced:   FilterPriced(t.Listings),
	}

	for _, l := range t.Listings {
		if _, ok := ParsePrice(l.Price); !ok {
			report.PriceOnRequest++
		}
	}

	if len(report.Priced) == 0 {
		return report
	}

	var sum float64
	report.MinPrice = report.Priced[0].PriceNumeric
	for _, p := range report.Priced {
		sum += p.PriceNumeric
		report.MinPrice = min(report.MinPrice, p.PriceNumeric)
		report.MaxPrice = max(report.MaxPrice, p.PriceNumeric)
	}
	report.AveragePrice = sum / float64(len(report.Priced))
	report.NumClasses = NumClasses(report.MaxPrice)
	report.Classes = ClassHistogram(report.Priced)
	report.Distribution = PriceDistribution(report.Priced)

	return report
}

// DimensionLine describes a table's shape.
func DimensionLine(rows, columns int) string {
	return fmt.Sprintf("Data dimension: %d rows and %d columns.", rows, columns)
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// PrintRows renders header and rows, stopping after limit rows when limit > 0.
func PrintRows(w io.Writer, title string, header []string, rows [][]string, limit int) {
	t := newTable(w, title)

	head := table.Row{"#"}
	for _, h := range header {
		head = append(head, h)
	}
	t.AppendHeader(head)

	shown := len(rows)
	if limit > 0 && shown > limit {
		shown = limit
	}
	for i, r := range rows[:shown] {
		row := table.Row{i}
		for _, v := range r {
			row = append(row, truncateText(v, 48))
		}
		t.AppendRow(row)
	}
	if shown < len(rows) {
		t.AppendFooter(table.Row{"", fmt.Sprintf("… %d more rows", len(rows)-shown)})
	}
	t.Render()
}

func ListingRows(listings []models.Listing) [][]string {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{l.Title, l.Price, l.Address, l.ImageURL})
	}
	return rows
}

func PrintListings(w io.Writer, t models.Table, limit int) {
	fmt.Fprintln(w, DimensionLine(t.Len(), len(t.Columns())))
	PrintRows(w, t.Category.Label, t.Columns(), ListingRows(t.Listings), limit)
}

func PrintReport(w io.Writer, report Report) {
	summary := newTable(w, report.Category.Label)
	summary.AppendRows([]table.Row{
		{"Listings", report.Rows},
		{"With numeric price and city", len(report.Priced)},
		{"Without numeric price", report.PriceOnRequest},
		{"Minimum price", fmt.Sprintf("%.0f", report.MinPrice)},
		{"Average price", fmt.Sprintf("%.0f", report.AveragePrice)},
		{"Maximum price", fmt.Sprintf("%.0f", report.MaxPrice)},
		{"Price classes", report.NumClasses},
	})
	summary.Render()

	counts := newTable(w, "Nombre d'articles par ville")
	counts.AppendHeader(table.Row{"Ville", "Nombre"})
	for _, c := range report.Counts {
		counts.AppendRow(table.Row{c.City, c.Count})
	}
	counts.Render()

	if len(report.Distribution) == 0 {
		return
	}

	dist := newTable(w, "Distribution des prix par ville")
	dist.AppendHeader(table.Row{"Ville", "N", "Min", "Q1", "Médiane", "Q3", "Max"})
	for _, d := range report.Distribution {
		dist.AppendRow(table.Row{
			d.City, d.Count,
			fmt.Sprintf("%.0f", d.Min),
			fmt.Sprintf("%.0f", d.Q1),
			fmt.Sprintf("%.0f", d.Median),
			fmt.Sprintf("%.0f", d.Q3),
			fmt.Sprintf("%.0f", d.Max),
		})
	}
	dist.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	dist.Render()

	classes := newTable(w, "Classes de prix")
	classes.AppendHeader(table.Row{"Classe", "Nombre"})
	for _, c := range report.Classes {
		classes.AppendRow(table.Row{c.Class.Label(), c.Count})
	}
	classes.Render()
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
