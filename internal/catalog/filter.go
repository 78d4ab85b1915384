package catalog

import (
	"net/url"
	"strings"

	"github.com/dukerupert/vitrine/internal/domain"
)

// Filter is the URL-driven filter state. Empty fields are wildcards.
// Values are literal: an unknown value simply matches nothing.
type Filter struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Category string `json:"category,omitempty"`
	OnSale   bool   `json:"sales,omitempty"`
}

// FilterFromQuery reads size, color, category and sales ("1" = on sale only).
func FilterFromQuery(v url.Values) Filter {
	return Filter{
		Size:     v.Get("size"),
		Color:    v.Get("color"),
		Category: v.Get("category"),
		OnSale:   v.Get("sales") == "1",
	}
}

// Values encodes the filter back into query parameters.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Size != "" {
		v.Set("size", f.Size)
	}
	if f.Color != "" {
		v.Set("color", f.Color)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.OnSale {
		v.Set("sales", "1")
	}
	return v
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Match applies the AND of all active criteria.
func (f Filter) Match(p domain.Product) bool {
	return (f.Size == "" || p.Size == f.Size) &&
		(f.Color == "" || p.Color == f.Color) &&
		(f.Category == "" || p.Category == f.Category) &&
		(!f.OnSale || p.SalesStatus)
}

// Apply keeps matching products in their input order.
func (f Filter) Apply(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Kind labels the active criteria for metrics, e.g. "color+sales" or "none".
func (f Filter) Kind() string {
	var parts []string
	if f.Size != "" {
		parts = append(parts, "size")
	}
	if f.Color != "" {
		parts = append(parts, "color")
	}
	if f.Category != "" {
		parts = append(parts, "category")
	}
	if f.OnSale {
		parts = append(parts, "sales")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
