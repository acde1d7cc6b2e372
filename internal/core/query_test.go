package core

import (
	"fmt"
	"math"
	"testing"
)

func TestQuery_DefaultFilterReturnsWholeTableInOrder(t *testing.T) {
	tbl := testTable()
	results, n := Query(tbl, DefaultFilterState())

	if n != tbl.Len() {
		t.Fatalf("Query() count = %d, want %d", n, tbl.Len())
	}
	for i, r := range results {
		if r.ID != i {
			t.Errorf("result %d has ID %d, want table order", i, r.ID)
		}
	}
}

func TestQuery_FranceSearch(t *testing.T) {
	f := DefaultFilterState()
	f.SearchText = "france"

	results, n := Query(testTable(), f)

	var got []string
	for _, r := range results {
		got = append(got, r.Partner)
	}
	want := []string{"P1", "P2", "P3", "P6"}
	if n != len(want) {
		t.Fatalf("Query() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Query()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestQuery_PreservesOrderUnderFilter(t *testing.T) {
	f := DefaultFilterState()
	f.Level = "Master"

	results, _ := Query(testTable(), f)
	for i := 1; i < len(results); i++ {
		if results[i].ID <= results[i-1].ID {
			t.Fatalf("results not in table order: %d after %d", results[i].ID, results[i-1].ID)
		}
	}
}

func TestQuery_NoMatches(t *testing.T) {
	f := DefaultFilterState()
	f.SearchText = "zzz-no-such-program"

	results, n := Query(testTable(), f)
	if n != 0 || len(results) != 0 {
		t.Fatalf("Query() = %d results, want 0", n)
	}
	if got := TotalPages(n, DefaultPageSize); got != 1 {
		t.Errorf("TotalPages(0) = %d, want 1", got)
	}
	if got := Paginate(results, DefaultPageState()); len(got) != 0 {
		t.Errorf("Paginate(empty) = %d rows, want 0", len(got))
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		matches, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
		{50, 50, 1},
		{51, 50, 2},
		{7, 0, 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.matches, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.matches, tt.size, got, tt.want)
		}
	}
}

// masterTable builds n Master records followed by a few non-matching rows.
func masterTable(n int) *Table {
	var records []Record
	for i := 0; i < n; i++ {
		records = append(records, Record{University: fmt.Sprintf("U%02d", i), Level: "Master"})
		if i%4 == 0 {
			records = append(records, Record{University: "other", Level: "Bachelor"})
		}
	}
	return NewTable(records)
}

func TestPaginate_TwelveMastersPageSizeFive(t *testing.T) {
	f := DefaultFilterState()
	f.Level = "Master"
	results, n := Query(masterTable(12), f)

	if n != 12 {
		t.Fatalf("Query() count = %d, want 12", n)
	}
	if got := TotalPages(n, 5); got != 3 {
		t.Fatalf("TotalPages() = %d, want 3", got)
	}

	tests := []struct {
		page      int
		wantFirst string
		wantLen   int
	}{
		{1, "U00", 5},
		{2, "U05", 5},
		{3, "U10", 2},
	}
	for _, tt := range tests {
		rows := Paginate(results, PageState{CurrentPage: tt.page, PageSize: 5})
		if len(rows) != tt.wantLen {
			t.Errorf("page %d: %d rows, want %d", tt.page, len(rows), tt.wantLen)
			continue
		}
		if rows[0].University != tt.wantFirst {
			t.Errorf("page %d: first row %s, want %s", tt.page, rows[0].University, tt.wantFirst)
		}
	}
}

func TestPaginate_PagesCoverAllMatches(t *testing.T) {
	for _, total := range []int{0, 1, 4, 5, 9, 23, 50, 51} {
		results, n := Query(masterTable(total), FilterState{Level: "Master"})
		for _, size := range PageSizes() {
			pages := TotalPages(n, size)
			sum := 0
			for p := 1; p <= pages; p++ {
				rows := Paginate(results, PageState{CurrentPage: p, PageSize: size})
				if len(rows) > size {
					t.Errorf("total=%d size=%d page=%d: %d rows exceeds page size", total, size, p, len(rows))
				}
				sum += len(rows)
			}
			if sum != n {
				t.Errorf("total=%d size=%d: pages sum to %d, want %d", total, size, sum, n)
			}
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	results, _ := Query(masterTable(3), DefaultFilterState())

	if rows := Paginate(results, PageState{CurrentPage: 10, PageSize: 5}); len(rows) != 0 {
		t.Errorf("Paginate(page past end) = %d rows, want 0", len(rows))
	}
	if rows := Paginate(results, PageState{CurrentPage: 0, PageSize: 5}); len(rows) == 0 {
		t.Error("Paginate(page 0) returned no rows, want first page")
	}
	if rows := Paginate(nil, PageState{CurrentPage: 1, PageSize: 5}); len(rows) != 0 {
		t.Errorf("Paginate(nil) = %d rows, want 0", len(rows))
	}
}

func TestPaginate_HugePageDoesNotPanic(t *testing.T) {
	results := make([]Record, 12)
	pages := []int{math.MaxInt, math.MaxInt/10 + 2, math.MaxInt / 5}
	for _, page := range pages {
		for _, size := range PageSizes() {
			rows := Paginate(results, PageState{CurrentPage: page, PageSize: size})
			if len(rows) != 0 {
				t.Errorf("Paginate(page %d, size %d) = %d rows, want 0", page, size, len(rows))
			}
		}
	}
}

func TestPageState_ClampHugePage(t *testing.T) {
	p := PageState{CurrentPage: math.MaxInt, PageSize: 10}.Clamp(12)
	if p.CurrentPage != 2 {
		t.Errorf("Clamp() page = %d, want 2", p.CurrentPage)
	}
}

func TestGoToPage(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		delta int
		total int
		want  int
	}{
		{"next", 1, 1, 3, 2},
		{"previous", 2, -1, 3, 1},
		{"previous on first", 1, -1, 3, 1},
		{"next on last", 3, 1, 3, 3},
		{"overshoot", 2, 10, 3, 3},
		{"undershoot", 2, -10, 3, 1},
		{"single page", 1, 1, 1, 1},
		{"huge page next", math.MaxInt, 1, 3, 3},
		{"huge page previous", math.MaxInt, -1, 3, 2},
		{"huge delta", 2, math.MaxInt, 3, 3},
		{"huge negative delta", 2, math.MinInt, 3, 1},
		{"negative page", math.MinInt, -1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GoToPage(PageState{CurrentPage: tt.page, PageSize: 5}, tt.delta, tt.total)
			if got.CurrentPage != tt.want {
				t.Errorf("GoToPage() page = %d, want %d", got.CurrentPage, tt.want)
			}
			if got.PageSize != 5 {
				t.Errorf("GoToPage() changed page size to %d", got.PageSize)
			}
		})
	}
}

func TestGoToPage_IdempotentAtBoundaries(t *testing.T) {
	p := PageState{CurrentPage: 1, PageSize: 10}
	for i := 0; i < 5; i++ {
		p = GoToPage(p, -1, 4)
	}
	if p.CurrentPage != 1 {
		t.Errorf("repeated previous: page = %d, want 1", p.CurrentPage)
	}

	p.CurrentPage = 4
	for i := 0; i < 5; i++ {
		p = GoToPage(p, 1, 4)
	}
	if p.CurrentPage != 4 {
		t.Errorf("repeated next: page = %d, want 4", p.CurrentPage)
	}
}

func TestNormalizePageSize(t *testing.T) {
	tests := []struct{ in, want int }{
		{-3, 5},
		{0, 5},
		{5, 5},
		{6, 10},
		{10, 10},
		{15, 20},
		{20, 20},
		{21, 50},
		{50, 50},
		{500, 50},
	}
	for _, tt := range tests {
		if got := NormalizePageSize(tt.in); got != tt.want {
			t.Errorf("NormalizePageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPageState_Clamp(t *testing.T) {
	tests := []struct {
		name    string
		in      PageState
		matches int
		want    PageState
	}{
		{"in range", PageState{2, 10}, 25, PageState{2, 10}},
		{"past end", PageState{9, 10}, 25, PageState{3, 10}},
		{"zero page", PageState{0, 10}, 25, PageState{1, 10}},
		{"no matches", PageState{4, 10}, 0, PageState{1, 10}},
		{"bad size", PageState{3, 7}, 25, PageState{3, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(tt.matches); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsPageSize(t *testing.T) {
	for _, n := range PageSizes() {
		if !IsPageSize(n) {
			t.Errorf("IsPageSize(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, 3, 7, 25, 100, -5} {
		if IsPageSize(n) {
			t.Errorf("IsPageSize(%d) = true, want false", n)
		}
	}
}
