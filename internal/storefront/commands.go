// Package storefront turns shopper actions into typed commands and owns
// the per-session state they act on: the cart ledger, the catalog view
// state and the home-page carousels.
package storefront

import (
	"github.com/dukerupert/vitrine/internal/carousel"
	"github.com/dukerupert/vitrine/internal/catalog"
)

// Command is a shopper action. The set is closed.
type Command interface {
	name() string
}

// AddToCart adds a product. With no options selected it uses the simple
// product-id key; with options it uses the variant key and requires all
// three. Quantity is raw form input; empty means one.
type AddToCart struct {
	ProductID string
	Size      string
	Color     string
	Category  string
	Quantity  string
}

// AddRecommended adds one unit from the "may also like" strip.
type AddRecommended struct {
	ProductID string
}

// SetQuantity overwrites a line's quantity from raw input.
type SetQuantity struct {
	Key string
	Raw string
}

type IncrementLine struct{ Key string }
type DecrementLine struct{ Key string }
type RemoveLine struct{ Key string }
type ClearCart struct{}
type Checkout struct{}

// ViewCart reads the cart without changing it.
type ViewCart struct{}

// ChangeFilter replaces the catalog filter.
type ChangeFilter struct{ Filter catalog.Filter }

// ChangeSearch replaces the search query.
type ChangeSearch struct{ Query string }

// ChangeSort selects an ordering. An empty or unknown key is a reset.
type ChangeSort struct{ Key string }

// ChangePage moves to another page without refiltering.
type ChangePage struct{ Page int }

// ViewCatalog reads the catalog view without changing it.
type ViewCatalog struct{}

// CarouselNext and CarouselPrev move the carousel for a named block.
// Measure may be nil, which yields a zero offset.
type CarouselNext struct {
	Block   string
	Measure carousel.Measure
}

type CarouselPrev struct {
	Block   string
	Measure carousel.Measure
}

func (AddToCart) name() string      { return "add" }
func (AddRecommended) name() string { return "add_recommended" }
func (SetQuantity) name() string    { return "set_quantity" }
func (IncrementLine) name() string  { return "increment" }
func (DecrementLine) name() string  { return "decrement" }
func (RemoveLine) name() string     { return "remove" }
func (ClearCart) name() string      { return "clear" }
func (Checkout) name() string       { return "checkout" }
func (ViewCart) name() string       { return "view_cart" }
func (ChangeFilter) name() string   { return "change_filter" }
func (ChangeSearch) name() string   { return "change_search" }
func (ChangeSort) name() string     { return "change_sort" }
func (ChangePage) name() string     { return "change_page" }
func (ViewCatalog) name() string    { return "view_catalog" }
func (CarouselNext) name() string   { return "carousel_next" }
func (CarouselPrev) name() string   { return "carousel_prev" }

// CommandName returns the operation label used in logs, metrics and events.
func CommandName(c Command) string {
	return c.name()
}
