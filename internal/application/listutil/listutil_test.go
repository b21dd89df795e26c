package listutil

import (
	"net/url"
	"reflect"
	"testing"

	"eventra/internal/domain/event"
)

// TestParsePageParams verifies defaults and clamping.
func TestParsePageParams(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"3", 3},
		{"-1", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		p := ParsePageParams(url.Values{"page": {tt.raw}})
		if p.Page != tt.want || p.PerPage != event.PageSize {
			t.Errorf("page %q: got %+v", tt.raw, p)
		}
	}
}

// TestParseSortParams verifies unknown keys fall back to newest.
func TestParseSortParams(t *testing.T) {
	if s := ParseSortParams(url.Values{"sort": {event.SortPriceLow}}); s.Sort != event.SortPriceLow {
		t.Errorf("sort = %q", s.Sort)
	}
	if s := ParseSortParams(url.Values{"sort": {"DROP TABLE"}}); s.Sort != event.SortNewest {
		t.Errorf("sort = %q, want newest", s.Sort)
	}
}

// TestParseFilterParams verifies "all" and blanks are dropped.
func TestParseFilterParams(t *testing.T) {
	fp := ParseFilterParams(url.Values{"q": {"  jazz "}, "category": {"Music"}, "status": {"all"}, "other": {"x"}})
	if fp.Search != "jazz" {
		t.Errorf("Search = %q", fp.Search)
	}
	want := map[string]string{"category": "music"}
	if !reflect.DeepEqual(fp.Filters, want) {
		t.Errorf("Filters = %v, want %v", fp.Filters, want)
	}
}

// TestParseListParams_PageResetOnFilterChange verifies the page returns to 1
// whenever category or status changes.
func TestParseListParams_PageResetOnFilterChange(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
		want int
	}{
		{"same filters keep page", url.Values{"page": {"4"}, "category": {"music"}, "prev_category": {"music"}}, 4},
		{"category changed", url.Values{"page": {"4"}, "category": {"sports"}, "prev_category": {"music"}}, 1},
		{"status set", url.Values{"page": {"4"}, "status": {"upcoming"}}, 1},
		{"status cleared to all", url.Values{"page": {"2"}, "status": {"all"}, "prev_status": {"ongoing"}}, 1},
		{"all equals none", url.Values{"page": {"2"}, "category": {"all"}}, 2},
		{"search does not reset", url.Values{"page": {"3"}, "q": {"gala"}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseListParams(tt.q).Page; got != tt.want {
				t.Errorf("Page = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestListParams_Query verifies links carry filters and their prev_ markers.
func TestListParams_Query(t *testing.T) {
	p := ParseListParams(url.Values{"category": {"music"}, "prev_category": {"music"}, "sort": {"date"}, "q": {"live"}})
	q := p.WithPage(2).Query()
	if q.Get("page") != "2" || q.Get("category") != "music" || q.Get("prev_category") != "music" ||
		q.Get("sort") != "date" || q.Get("q") != "live" || q.Has("status") {
		t.Errorf("Query = %v", q)
	}
	if ParseListParams(q).Page != 2 {
		t.Error("round-tripped link must keep its page")
	}
}

// TestNewPageInfo verifies clamping.
func TestNewPageInfo(t *testing.T) {
	if p := NewPageInfo(9, 4); p.Page != 4 {
		t.Errorf("Page = %d, want 4", p.Page)
	}
	if p := NewPageInfo(0, 0); p.Page != 1 || p.TotalPages != 1 || p.ShowPagination() {
		t.Errorf("got %+v", p)
	}
}

// TestPageNumbers verifies the 5-button window.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		page, total int
		want        []int
	}{
		{1, 10, []int{1, 2, 3, 4, 5}},
		{3, 10, []int{1, 2, 3, 4, 5}},
		{4, 10, []int{2, 3, 4, 5, 6}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{8, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{2, 3, []int{1, 2, 3}},
		{1, 1, []int{1}},
	}
	for _, tt := range tests {
		p := NewPageInfo(tt.page, tt.total)
		if got := p.PageNumbers(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("page %d of %d: got %v, want %v", tt.page, tt.total, got, tt.want)
		}
	}
}

// TestPageInfo_PrevNext verifies navigation flags.
func TestPageInfo_PrevNext(t *testing.T) {
	first := NewPageInfo(1, 3)
	last := NewPageInfo(3, 3)
	if first.HasPrev() || !first.HasNext() || !last.HasPrev() || last.HasNext() {
		t.Errorf("first=%+v last=%+v", first, last)
	}
}
