package extract

import (
	"github.com/PuerkitoBio/goquery"
)

const (
	maxProducts        = 5
	maxProductNameLen  = 120
	perSelectorSamples = 5
)

var productSelectors = []string{
	".product",
	".product-title",
	".product-name",
	`[class*="product"]`,
	`[id*="product"]`,
}

// Products returns up to five distinct product names, taking the first few
// matches of each product-ish selector in turn.
func Products(doc *goquery.Document) []string {
	products := make([]string, 0, maxProducts)
	seen := make(map[string]bool)

	for _, sel := range productSelectors {
		items := doc.Find(sel)
		if items.Length() > perSelectorSamples {
			items = items.Slice(0, perSelectorSamples)
		}
		items.Each(func(_ int, s *goquery.Selection) {
			if len(products) >= maxProducts {
				return
			}
			name := collapseSpace(textOf(s))
			if name == "" || len(name) > maxProductNameLen || seen[name] {
				return
			}
			seen[name] = true
			products = append(products, name)
		})
		if len(products) >= maxProducts {
			break
		}
	}
	return products
}
