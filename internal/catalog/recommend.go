package catalog

import (
	"math/rand/v2"
	"slices"

	"github.com/dukerupert/vitrine/internal/domain"
)

// RecommendationCount is how many "may also like" products are shown.
const RecommendationCount = 4

// MayAlsoLike picks up to n random products from the new-arrivals block.
// rng makes the draw reproducible in tests; nil uses the global source.
func (c *Catalog) MayAlsoLike(rng *rand.Rand, n int) []domain.Product {
	pool := c.Block(domain.BlockNewArrivals)

	// Fisher-Yates, walking down from the end
	for i := len(pool) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		pool[i], pool[j] = pool[j], pool[i]
	}

	return slices.Clip(pool[:min(n, len(pool))])
}
