package catalog

import (
	"cmp"
	"slices"

	"github.com/dukerupert/vitrine/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects an ordering. The zero value keeps load order.
type SortKey string

const (
	SortNone           SortKey = ""
	SortPriceAsc       SortKey = "price-asc"
	SortPriceDesc      SortKey = "price-desc"
	SortNameAsc        SortKey = "name-asc"
	SortNameDesc       SortKey = "name-desc"
	SortPopularityAsc  SortKey = "popularity-asc"
	SortPopularityDesc SortKey = "popularity-desc"
	SortRatingAsc      SortKey = "rating-asc"
	SortRatingDesc     SortKey = "rating-desc"
)

// SortKeys lists every recognised key except SortNone.
var SortKeys = []SortKey{
	SortPriceAsc, SortPriceDesc,
	SortNameAsc, SortNameDesc,
	SortPopularityAsc, SortPopularityDesc,
	SortRatingAsc, SortRatingDesc,
}

// ParseSortKey reports whether raw names a known ordering. Anything else,
// including the empty string, maps to SortNone with ok=false, which callers
// treat as a sort reset.
func ParseSortKey(raw string) (SortKey, bool) {
	k := SortKey(raw)
	if slices.Contains(SortKeys, k) {
		return k, true
	}
	return SortNone, false
}

// CollationLanguage drives name ordering.
var CollationLanguage = language.English

// Sort returns a sorted copy. Equal elements keep their relative order.
func Sort(products []domain.Product, key SortKey) []domain.Product {
	out := slices.Clone(products)

	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortNameAsc, SortNameDesc:
		// a Collator carries scratch buffers and must not be shared
		col := collate.New(CollationLanguage)
		if key == SortNameAsc {
			slices.SortStableFunc(out, func(a, b domain.Product) int { return col.CompareString(a.Name, b.Name) })
		} else {
			slices.SortStableFunc(out, func(a, b domain.Product) int { return col.CompareString(b.Name, a.Name) })
		}
	case SortPopularityAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Popularity, b.Popularity) })
	case SortPopularityDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Popularity, a.Popularity) })
	case SortRatingAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Rating, b.Rating) })
	case SortRatingDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) })
	}

	return out
}
