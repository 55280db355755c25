package coinafrique

// CSS selectors for coinafrique catalog pages.
const (
	CardSelector = "div.col.s6.m4.l3"

	DescriptionSelector = "p.ad__card-description"
	PriceSelector       = "p.ad__card-price"
	LocationSelector    = "p.ad__card-location"
	ImageSelector       = "img.ad__card-img"

	CurrencySuffix = "CFA"
)
