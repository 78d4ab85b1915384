// Package catalog is the read side of the storefront: an immutable product
// collection and the filter, search, sort and paginate pipeline over it.
package catalog

import (
	"slices"

	"github.com/dukerupert/vitrine/internal/domain"
)

// Catalog is the product collection in load order. It is never mutated
// after construction and is safe for concurrent use.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// New copies products into a Catalog. Later duplicates of an id are
// reachable by position but Lookup returns the first.
func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: slices.Clone(products),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		if _, seen := c.byID[p.ID]; !seen {
			c.byID[p.ID] = i
		}
	}
	return c
}

// Empty returns a catalog with no products.
func Empty() *Catalog {
	return New(nil)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns a copy of the collection in load order.
func (c *Catalog) Products() []domain.Product {
	return slices.Clone(c.products)
}

// Lookup finds a product by id.
func (c *Catalog) Lookup(id string) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return c.products[i], nil
}

// Block returns the products tagged with the named block, in load order.
func (c *Catalog) Block(name string) []domain.Product {
	out := []domain.Product{}
	for _, p := range c.products {
		if p.InBlock(name) {
			out = append(out, p)
		}
	}
	return out
}

// BestSets returns the bundles.
func (c *Catalog) BestSets() []domain.Product {
	out := []domain.Product{}
	for _, p := range c.products {
		if p.IsBundle() {
			out = append(out, p)
		}
	}
	return out
}
