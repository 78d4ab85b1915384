package storefront

import (
	"slices"
	"strings"

	"github.com/dukerupert/vitrine/internal/cart"
	"github.com/dukerupert/vitrine/internal/carousel"
	"github.com/dukerupert/vitrine/internal/catalog"
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/pricing"
)

// View is what a command returns. Only the sections the command touched
// are set.
type View struct {
	Cart     *CartView     `json:"cart,omitempty"`
	Catalog  *catalog.View `json:"catalog,omitempty"`
	Carousel *CarouselView `json:"carousel,omitempty"`

	// Events are the cart changes the command persisted.
	Events []cart.Event `json:"-"`
}

// LineView is one cart line with its key and line total.
type LineView struct {
	Key string `json:"key"`
	domain.CartLine
	LineTotal string `json:"lineTotal"`
}

// CartView is the cart page plus the header badge count.
type CartView struct {
	Lines     []LineView              `json:"lines"`
	Count     int                     `json:"count"`
	Totals    pricing.Totals          `json:"totals"`
	Formatted pricing.FormattedTotals `json:"formatted"`
}

// CarouselView is the visible window of one block's strip.
type CarouselView struct {
	Block   string           `json:"block"`
	State   carousel.State   `json:"state"`
	Visible []domain.Product `json:"visible"`
}

// NewCartView orders lines by key so repeated reads render identically.
func NewCartView(res cart.Result) *CartView {
	lines := make([]LineView, 0, len(res.Cart))
	for key, line := range res.Cart {
		lines = append(lines, LineView{
			Key:       key,
			CartLine:  line,
			LineTotal: pricing.LineTotal(line).StringFixed(2),
		})
	}
	slices.SortFunc(lines, func(a, b LineView) int { return strings.Compare(a.Key, b.Key) })

	return &CartView{
		Lines:     lines,
		Count:     res.Count,
		Totals:    res.Totals,
		Formatted: res.Totals.Formatted(),
	}
}
