package models

import (
	"strconv"
	"strings"
)

const (
	PriceOnRequest = "Prix sur demande"
	CityNotGiven   = "Non renseigné"

	ColumnPrice   = "prix"
	ColumnAddress = "adresse"
	ColumnImage   = "img_link"
)

// Category describes one catalog section: where its pages live and how its
// records are named on export.
type Category struct {
	Slug        string `yaml:"slug"`
	Label       string `yaml:"label"`
	URLTemplate string `yaml:"url_template"`
	TitleColumn string `yaml:"title_column"`

	// KeepRawSentinel keeps the full price text when a card shows
	// "Prix sur demande" instead of collapsing it to the bare phrase.
	// The two live catalogs have always differed here.
	KeepRawSentinel bool `yaml:"keep_raw_sentinel"`

	SnapshotFile string `yaml:"snapshot_file"`
}

// PageURL substitutes page into the {page} placeholder of the template.
func (c Category) PageURL(page int) string {
	return strings.ReplaceAll(c.URLTemplate, "{page}", strconv.Itoa(page))
}

func (c Category) Job(page int) ScrapeJob {
	return ScrapeJob{
		Category:   c.Slug,
		URL:        c.PageURL(page),
		PageNumber: page,
	}
}

func (c Category) Columns() []string {
	title := c.TitleColumn
	if title == "" {
		title = "detail"
	}
	return []string{title, ColumnPrice, ColumnAddress, ColumnImage}
}

func PoulesLapinsPigeons() Category {
	return Category{
		Slug:         "poules-lapins-et-pigeons",
		Label:        "Poules, Lapins, Pigeons",
		URLTemplate:  "https://sn.coinafrique.com/categorie/poules-lapins-et-pigeons?&page={page}",
		TitleColumn:  "detail",
		SnapshotFile: "poules-lapins-et-pigeons-web-scraper.csv",
	}
}

func AutresAnimaux() Category {
	return Category{
		Slug:            "autres-animaux",
		Label:           "Autres animaux",
		URLTemplate:     "https://sn.coinafrique.com/categorie/autres-animaux?&page={page}",
		TitleColumn:     "nom",
		KeepRawSentinel: true,
		SnapshotFile:    "autres-animaux-web-scraper.csv",
	}
}
