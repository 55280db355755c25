package models

// Listing is one ad card scraped from a catalog page. Title holds the
// card description; the column it is exported under depends on the category
// ("detail" or "nom").
type Listing struct {
	Title    string
	Price    string
	Address  string
	ImageURL string
}

// Table is the consolidated, page-ordered set of listings for one category.
type Table struct {
	Category Category
	Listings []Listing
}

// Columns returns the export header for the table's category.
func (t Table) Columns() []string {
	return t.Category.Columns()
}

func (t Table) Len() int {
	return len(t.Listings)
}

// Clone returns a copy whose Listings slice does not alias t's.
func (t Table) Clone() Table {
	out := Table{Category: t.Category}
	if t.Listings != nil {
		out.Listings = make([]Listing, len(t.Listings))
		copy(out.Listings, t.Listings)
	}
	return out
}

type ScrapeJob struct {
	Category   string
	URL        string
	PageNumber int
}

type ScrapeResult struct {
	Listings   []Listing
	Error      error
	PageNumber int
}
