package catalog

import (
	"fmt"

	"github.com/dukerupert/vitrine/internal/domain"
)

// PageSize is the number of products per catalog page.
const PageSize = 12

// Controls describes the pagination bar.
type Controls struct {
	Visible      bool  `json:"visible"`
	PrevDisabled bool  `json:"prevDisabled"`
	NextDisabled bool  `json:"nextDisabled"`
	Pages        []int `json:"pages"`
	Current      int   `json:"current"`
}

// Page is one window of an ordered product list.
type Page struct {
	Items      []domain.Product `json:"items"`
	Number     int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	// Start and End are 1-based inclusive bounds; both 0 when empty.
	Start     int      `json:"start"`
	End       int      `json:"end"`
	RangeText string   `json:"rangeText"`
	Controls  Controls `json:"controls"`
}

// TotalPages is ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// ClampPage bounds page to [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	return min(max(page, 1), max(1, totalPages))
}

// RangeText renders the "Showing a–b of n Results" line.
func RangeText(start, end, total int) string {
	return fmt.Sprintf("Showing %d–%d of %d Results", start, end, total)
}

// Paginate slices products for page. Out-of-range pages are clamped.
func Paginate(products []domain.Product, page int) Page {
	n := len(products)
	totalPages := TotalPages(n)
	page = ClampPage(page, totalPages)

	lo := min((page-1)*PageSize, n)
	hi := min(lo+PageSize, n)

	start := 0
	if n > 0 {
		start = lo + 1
	}

	items := products[lo:hi:hi]
	if items == nil {
		items = []domain.Product{}
	}

	pages := make([]int, totalPages)
	for i := range pages {
		pages[i] = i + 1
	}

	return Page{
		Items:      items,
		Number:     page,
		TotalPages: totalPages,
		Total:      n,
		Start:      start,
		End:        hi,
		RangeText:  RangeText(start, hi, n),
		Controls: Controls{
			Visible:      totalPages > 1,
			PrevDisabled: page == 1,
			NextDisabled: page >= totalPages,
			Pages:        pages,
			Current:      page,
		},
	}
}
