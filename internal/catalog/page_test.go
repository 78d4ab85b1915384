package catalog

import (
	"fmt"
	"testing"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/stretchr/testify/assert"
)

func numbered(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = domain.Product{ID: fmt.Sprintf("P%03d", i)}
	}
	return out
}

func TestPaginate_ShoesScenario(t *testing.T) {
	shoes := Filter{Category: "shoes"}.Apply(shoeCatalog().Products())

	p1 := Paginate(shoes, 1)
	assert.Len(t, p1.Items, 12)
	assert.Equal(t, 2, p1.TotalPages)
	assert.Equal(t, "Showing 1–12 of 13 Results", p1.RangeText)
	assert.Equal(t, 1, p1.Start)
	assert.Equal(t, 12, p1.End)

	p2 := Paginate(shoes, 2)
	assert.Len(t, p2.Items, 1)
	assert.Equal(t, shoes[12], p2.Items[0])
	assert.Equal(t, "Showing 13–13 of 13 Results", p2.RangeText)
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, 1)

	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, "Showing 0–0 of 0 Results", p.RangeText)
	assert.False(t, p.Controls.Visible)
	assert.Empty(t, p.Controls.Pages)
}

func TestPaginate_Controls(t *testing.T) {
	products := numbered(30)

	first := Paginate(products, 1)
	assert.True(t, first.Controls.Visible)
	assert.True(t, first.Controls.PrevDisabled)
	assert.False(t, first.Controls.NextDisabled)
	assert.Equal(t, []int{1, 2, 3}, first.Controls.Pages)

	middle := Paginate(products, 2)
	assert.False(t, middle.Controls.PrevDisabled)
	assert.False(t, middle.Controls.NextDisabled)

	last := Paginate(products, 3)
	assert.False(t, last.Controls.PrevDisabled)
	assert.True(t, last.Controls.NextDisabled)
	assert.Equal(t, 3, last.Controls.Current)

	single := Paginate(numbered(12), 1)
	assert.False(t, single.Controls.Visible)
}

func TestPaginate_ClampsPage(t *testing.T) {
	products := numbered(13)

	assert.Equal(t, 1, Paginate(products, 0).Number)
	assert.Equal(t, 1, Paginate(products, -3).Number)
	assert.Equal(t, 2, Paginate(products, 99).Number)
	assert.Len(t, Paginate(products, 99).Items, 1)
}

func TestPaginate_DisjointAndExhaustive(t *testing.T) {
	for n := 0; n <= 40; n++ {
		products := numbered(n)
		total := TotalPages(n)
		assert.Equal(t, (n+11)/12, total)

		seen := map[string]int{}
		for page := 1; page <= total; page++ {
			for _, p := range Paginate(products, page).Items {
				seen[p.ID]++
			}
		}

		assert.Len(t, seen, n, "n=%d", n)
		for id, count := range seen {
			assert.Equal(t, 1, count, "n=%d id=%s", n, id)
		}
	}
}

func TestRangeText(t *testing.T) {
	assert.Equal(t, "Showing 25–30 of 30 Results", RangeText(25, 30, 30))
}
