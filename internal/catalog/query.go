package catalog

import (
	"net/url"
	"strconv"

	"github.com/dukerupert/vitrine/internal/domain"
)

// Query is the complete catalog view state: filters from the URL plus the
// transient search, sort and page.
type Query struct {
	Filter Filter  `json:"filter"`
	Search string  `json:"search,omitempty"`
	Sort   SortKey `json:"sort,omitempty"`
	Page   int     `json:"page"`
}

// QueryFromValues reads filters plus q, sort and page. A sort parameter that
// is present but empty or unknown is a reset: the search is dropped and
// load order restored.
func QueryFromValues(v url.Values) Query {
	q := Query{
		Filter: FilterFromQuery(v),
		Search: v.Get("q"),
		Page:   1,
	}

	if v.Has("sort") {
		key, ok := ParseSortKey(v.Get("sort"))
		if ok {
			q.Sort = key
		} else {
			q.Search = ""
		}
	}

	if raw := v.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Page = n
		}
	}
	return q
}

// Values encodes the query for links.
func (q Query) Values() url.Values {
	v := q.Filter.Values()
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Sort != SortNone {
		v.Set("sort", string(q.Sort))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// View is the derived catalog screen.
type View struct {
	Query Query `json:"query"`
	// Matched counts products passing filters and search, before paging.
	Matched int  `json:"matched"`
	Page    Page `json:"page"`
}

// Ordered runs filter, search and sort without paging.
func (c *Catalog) Ordered(q Query) []domain.Product {
	return Sort(Search(q.Filter.Apply(c.products), q.Search), q.Sort)
}

// Run computes the full view for q. The page number in the returned query
// is the clamped one.
func (c *Catalog) Run(q Query) View {
	ordered := c.Ordered(q)
	page := Paginate(ordered, q.Page)
	q.Page = page.Number
	return View{Query: q, Matched: len(ordered), Page: page}
}
