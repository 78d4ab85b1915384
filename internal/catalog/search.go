package catalog

import (
	"strings"

	"github.com/dukerupert/vitrine/internal/domain"
)

// NormalizeQuery trims and lower-cases a search query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Search keeps products whose lower-cased name contains the normalized
// query. An empty query keeps everything.
func Search(products []domain.Product, query string) []domain.Product {
	q := NormalizeQuery(query)
	if q == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// FirstMatch is the search-on-Enter jump: the first filtered product whose
// name contains the query. An empty query returns nil and no error.
func (c *Catalog) FirstMatch(f Filter, query string) (*domain.Product, error) {
	if NormalizeQuery(query) == "" {
		return nil, nil
	}
	matches := Search(f.Apply(c.products), query)
	if len(matches) == 0 {
		return nil, domain.ErrNoMatches
	}
	p := matches[0]
	return &p, nil
}
