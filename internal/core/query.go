package core

import (
	"math"
	"strings"
)

// DefaultPageSize is the page size a new session starts with.
const DefaultPageSize = 10

// pageSizes are the selectable page sizes, ascending.
var pageSizes = []int{5, 10, 20, 50}

// PageSizes returns the selectable page sizes, ascending.
func PageSizes() []int {
	out := make([]int, len(pageSizes))
	copy(out, pageSizes)
	return out
}

// PageState is the current page number (1-based) and page size.
type PageState struct {
	CurrentPage int `json:"page"`
	PageSize    int `json:"pageSize"`
}

// DefaultPageState returns page 1 with the default page size.
func DefaultPageState() PageState {
	return PageState{CurrentPage: 1, PageSize: DefaultPageSize}
}

// Query returns the records matching the filter, in table order, and their count.
func Query(t *Table, f FilterState) ([]Record, int) {
	records := t.Records()
	needle := strings.ToLower(f.SearchText)

	results := make([]Record, 0, len(records))
	for _, r := range records {
		if matchesSearch(r, needle) && matchesCategories(r, f) {
			results = append(results, r)
		}
	}
	return results, len(results)
}

// TotalPages returns max(1, ceil(matches/pageSize)).
func TotalPages(matches, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := (matches + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	return total
}

// Paginate returns the slice of results for the current page.
// A page past the end yields an empty slice, never a panic.
func Paginate(results []Record, p PageState) []Record {
	size := p.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	page := p.CurrentPage
	if page < 1 {
		page = 1
	}

	// Compare in pages first; (page-1)*size can overflow for huge pages.
	if page-1 >= (len(results)+size-1)/size {
		return []Record{}
	}
	start := (page - 1) * size
	if start >= len(results) {
		return []Record{}
	}
	end := start + size
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}

// GoToPage moves the current page by delta, clamped to [1, totalPages].
func GoToPage(p PageState, delta, totalPages int) PageState {
	// Clamp before adding so an out-of-range page cannot overflow.
	cur := clamp(p.CurrentPage, 1, totalPages)
	switch {
	case delta > 0 && cur > math.MaxInt-delta:
		cur = totalPages
	case delta < 0 && cur < math.MinInt-delta:
		cur = 1
	default:
		cur += delta
	}
	p.CurrentPage = clamp(cur, 1, totalPages)
	return p
}

// Clamp returns p with its page size normalized and its page number inside
// [1, TotalPages(matches, size)].
func (p PageState) Clamp(matches int) PageState {
	p.PageSize = NormalizePageSize(p.PageSize)
	p.CurrentPage = clamp(p.CurrentPage, 1, TotalPages(matches, p.PageSize))
	return p
}

// NormalizePageSize maps n onto the selectable sizes: the smallest size not
// below n, capped at the largest size.
func NormalizePageSize(n int) int {
	for _, size := range pageSizes {
		if n <= size {
			return size
		}
	}
	return pageSizes[len(pageSizes)-1]
}

// IsPageSize reports whether n is one of the selectable page sizes.
func IsPageSize(n int) bool {
	for _, size := range pageSizes {
		if n == size {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
