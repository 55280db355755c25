package coinafrique

import (
	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// fieldAccessor reads one field from a card. ok is false when the element or
// attribute it needs is absent.
type fieldAccessor func(card *goquery.Selection) (value string, ok bool)

// first walks the selector chain, taking the first match at each step.
func first(sel *goquery.Selection, chain ...string) (*goquery.Selection, bool) {
	for _, s := range chain {
		sel = sel.Find(s).First()
		if sel.Length() == 0 {
			return nil, false
		}
	}
	return sel, true
}

func textOf(chain ...string) fieldAccessor {
	return func(card *goquery.Selection) (string, bool) {
		sel, ok := first(card, chain...)
		if !ok {
			return "", false
		}
		return sel.Text(), true
	}
}

func attrOf(attr string, chain ...string) fieldAccessor {
	return func(card *goquery.Selection) (string, bool) {
		sel, ok := first(card, chain...)
		if !ok {
			return "", false
		}
		return sel.Attr(attr)
	}
}

var (
	descriptionField = textOf(DescriptionSelector, "a")
	priceField       = textOf(PriceSelector, "a")
	locationField    = textOf(LocationSelector, "span")
	imageField       = attrOf("src", ImageSelector)
)

// Extract parses one catalog page and returns its listings in card order.
// Cards missing any field are skipped.
func Extract(html string, category models.Category) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("could not parse page: %w", err)
	}

	cards := doc.Find(CardSelector)
	listings := make([]models.Listing, 0, cards.Length())

	cards.Each(func(i int, card *goquery.Selection) {
		listing, missing := extractCard(card, category)
		if missing != "" {
			utils.Debug("%s: card %d skipped, no %s", category.Slug, i, missing)
			return
		}
		listings = append(listings, listing)
	})

	return listings, nil
}

// extractCard returns the name of the first missing field when the card is
// incomplete.
func extractCard(card *goquery.Selection, category models.Category) (models.Listing, string) {
	title, ok := descriptionField(card)
	if !ok {
		return models.Listing{}, "description"
	}
	rawPrice, ok := priceField(card)
	if !ok {
		return models.Listing{}, "price"
	}
	address, ok := locationField(card)
	if !ok {
		return models.Listing{}, "location"
	}
	image, ok := imageField(card)
	if !ok {
		return models.Listing{}, "image"
	}

	return models.Listing{
		Title:    strings.TrimSpace(title),
		Price:    NormalizePrice(rawPrice, category.KeepRawSentinel),
		Address:  address,
		ImageURL: image,
	}, ""
}

// NormalizePrice turns card price text into the stored price string.
// "45 000 CFA" becomes "45000". Text mentioning "Prix sur demande" becomes
// the bare phrase, or stays untouched when keepRawSentinel is set.
func NormalizePrice(raw string, keepRawSentinel bool) string {
	if strings.Contains(raw, models.PriceOnRequest) {
		if keepRawSentinel {
			return raw
		}
		return models.PriceOnRequest
	}

	price := strings.TrimSpace(raw)
	price = strings.TrimSuffix(price, CurrencySuffix)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, price)
}
