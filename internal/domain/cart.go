package domain

import (
	"maps"
	"strings"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartLineNotFound   = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrVariantIncomplete  = &Error{Code: EINVALID, Message: "Please select size, color, and category."}
	ErrCartSlotNotWritten = &Error{Code: EUNAVAILABLE, Message: "Cart could not be saved"}
	ErrCartSlotNotRead    = &Error{Code: EUNAVAILABLE, Message: "Cart could not be loaded"}
)

// Quantity bounds for a cart line.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// DefaultVariant fills every variant slot for lines added from the
// recommendations strip, where no options are chosen.
const DefaultVariant = "default"

const keySeparator = "_"

// Variant is the set of options selected on the product page.
type Variant struct {
	Size     string
	Color    string
	Category string
}

// Complete reports whether every option has been chosen.
func (v Variant) Complete() bool {
	for _, s := range []string{v.Size, v.Color, v.Category} {
		if s == "" || s == DefaultVariant {
			return false
		}
	}
	return true
}

// SimpleKey is the cart key used by the catalog and home-page add paths.
func SimpleKey(productID string) string {
	return productID
}

// VariantKey builds the composite key productId_size_color_category.
func VariantKey(productID string, v Variant) string {
	return strings.Join([]string{productID, v.Size, v.Color, v.Category}, keySeparator)
}

// DefaultVariantKey is the key used by the "may also like" add path.
func DefaultVariantKey(productID string) string {
	return VariantKey(productID, Variant{Size: DefaultVariant, Color: DefaultVariant, Category: DefaultVariant})
}

// CartLine is one ledger entry: a snapshot of the product's displayable
// fields taken at add time, plus a mutable quantity.
type CartLine struct {
	ProductID   string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	SalesStatus bool    `json:"salesStatus"`

	SelectedSize     string `json:"selectedSize,omitempty"`
	SelectedColor    string `json:"selectedColor,omitempty"`
	SelectedCategory string `json:"selectedCategory,omitempty"`

	Quantity int `json:"quantity"`
}

// Snapshot copies the displayable fields of p into a line with zero quantity.
func Snapshot(p Product) CartLine {
	return CartLine{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Size:        p.Size,
		Color:       p.Color,
		Category:    p.Category,
		Rating:      p.Rating,
		SalesStatus: p.SalesStatus,
	}
}

// WithVariant records the selected options on the line.
func (l CartLine) WithVariant(v Variant) CartLine {
	l.SelectedSize = v.Size
	l.SelectedColor = v.Color
	l.SelectedCategory = v.Category
	return l
}

// Cart maps cart keys to lines. Keys are unique; repeated adds merge.
type Cart map[string]CartLine

// NewCart returns an empty cart.
func NewCart() Cart {
	return Cart{}
}

// Clone returns a shallow copy; CartLine is a value type so lines are independent.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	maps.Copy(out, c)
	return out
}

// ClampQuantity bounds q to [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	return min(max(q, MinQuantity), MaxQuantity)
}
