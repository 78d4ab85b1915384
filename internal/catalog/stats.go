package catalog

import (
	"github.com/shopspring/decimal"
)

// Stats summarises the whole collection.
type Stats struct {
	TotalProducts      int             `json:"totalProducts"`
	Sets               int             `json:"sets"`
	IndividualProducts int             `json:"individualProducts"`
	OnSale             int             `json:"onSale"`
	AveragePrice       decimal.Decimal `json:"averagePrice"`
	MinPrice           decimal.Decimal `json:"minPrice"`
	MaxPrice           decimal.Decimal `json:"maxPrice"`
	Categories         int             `json:"categories"`
	AverageRating      decimal.Decimal `json:"averageRating"`
}

// Stats computes collection statistics. Averages are rounded for display:
// price to cents, rating to one decimal. An empty catalog is all zero.
func (c *Catalog) Stats() Stats {
	var s Stats
	s.TotalProducts = len(c.products)
	if s.TotalProducts == 0 {
		return s
	}

	categories := make(map[string]struct{})
	priceSum := decimal.Zero
	ratingSum := decimal.Zero

	for i, p := range c.products {
		price := decimal.NewFromFloat(p.Price)
		if p.IsBundle() {
			s.Sets++
		}
		if p.SalesStatus {
			s.OnSale++
		}
		categories[p.Category] = struct{}{}
		priceSum = priceSum.Add(price)
		ratingSum = ratingSum.Add(decimal.NewFromFloat(p.Rating))

		if i == 0 || price.LessThan(s.MinPrice) {
			s.MinPrice = price
		}
		if i == 0 || price.GreaterThan(s.MaxPrice) {
			s.MaxPrice = price
		}
	}

	n := decimal.NewFromInt(int64(s.TotalProducts))
	s.IndividualProducts = s.TotalProducts - s.Sets
	s.Categories = len(categories)
	s.AveragePrice = priceSum.Div(n).Round(2)
	s.AverageRating = ratingSum.Div(n).Round(1)
	return s
}
