package domain

import (
	"slices"
	"strings"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// BundlePrefix marks product identifiers that denote bundles ("sets").
const BundlePrefix = "SET"

// Named blocks a product can belong to. The data source may use others;
// these are the ones the storefront renders.
const (
	BlockSelected    = "Selected Products"
	BlockNewArrivals = "New Products Arrival"
)

// Product is a read-only catalog entry as supplied by the data source.
// Field names follow the data document verbatim.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Size        string   `json:"size"`
	Color       string   `json:"color"`
	Category    string   `json:"category"`
	Rating      float64  `json:"rating"`
	Popularity  float64  `json:"popularity"`
	SalesStatus bool     `json:"salesStatus"`
	Blocks      []string `json:"blocks,omitempty"`
}

// IsBundle reports whether the product is a set.
func (p Product) IsBundle() bool {
	return strings.HasPrefix(p.ID, BundlePrefix)
}

// InBlock reports whether the product belongs to the named block.
func (p Product) InBlock(name string) bool {
	return slices.Contains(p.Blocks, name)
}

// =============================================================================
// PRODUCT DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrNoMatches       = &Error{Code: ENOTFOUND, Message: "No matches"}
)
