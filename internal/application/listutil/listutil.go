package listutil

import (
	"net/url"
	"strconv"
	"strings"

	"eventra/internal/domain/event"
)

// MaxPageButtons bounds the pagination window.
const MaxPageButtons = 5

// Filter keys sent to the API Gateway.
const (
	FilterCategory = "category"
	FilterStatus   = "status"
)

// FilterKeys lists the server-side filters, in the order they are sent.
var FilterKeys = []string{FilterCategory, FilterStatus}

// PageParams carries the requested page.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int
}

// SortParams carries the client-side sort key.
type SortParams struct {
	Sort string // one of the event.Sort constants
}

// FilterParams carries search and server-side filters.
type FilterParams struct {
	Search  string            // client-side substring search
	Filters map[string]string // category and status, absent when "all"
}

// ListParams combines all list view parameters.
type ListParams struct {
	PageParams
	SortParams
	FilterParams
}

// Category returns the category filter, "" for all.
func (p ListParams) Category() string { return p.Filters[FilterCategory] }

// Status returns the status filter, "" for all.
func (p ListParams) Status() string { return p.Filters[FilterStatus] }

// Query renders the params back into URL values for links. The prev_* keys
// record the filters this page was produced with.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	for _, key := range FilterKeys {
		if v := p.Filters[key]; v != "" {
			q.Set(key, v)
			q.Set("prev_"+key, v)
		}
	}
	if p.Search != "" {
		q.Set("q", p.Search)
	}
	if p.Sort != "" && p.Sort != event.SortNewest {
		q.Set("sort", p.Sort)
	}
	return q
}

// WithPage returns a copy pointing at page.
func (p ListParams) WithPage(page int) ListParams {
	p.Page = page
	return p
}

// ParsePageParams extracts page from URL query values.
// POST: Page >= 1; PerPage == event.PageSize
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	return PageParams{Page: page, PerPage: event.PageSize}
}

// ParseSortParams extracts the sort key.
// POST: Sort is a valid key, event.SortNewest when absent or unknown
func ParseSortParams(q url.Values) SortParams {
	s := q.Get("sort")
	if !event.ValidSort(s) {
		s = event.SortNewest
	}
	return SortParams{Sort: s}
}

// ParseFilterParams extracts search and named filters. "all" and blank
// values mean no filter.
// POST: Filters holds only keys from FilterKeys
func ParseFilterParams(q url.Values) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
	}
	for _, key := range FilterKeys {
		if v := normalizeFilter(q.Get(key)); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// ParseListParams parses all list parameters. When category or status differ
// from the prev_category/prev_status the page was rendered with, the page
// resets to 1.
// POST: returns valid ListParams with defaults applied
func ParseListParams(q url.Values) ListParams {
	p := ListParams{
		PageParams:   ParsePageParams(q),
		SortParams:   ParseSortParams(q),
		FilterParams: ParseFilterParams(q),
	}
	if FiltersChanged(q) {
		p.Page = 1
	}
	return p
}

// FiltersChanged reports whether any server-side filter differs from its prev_ value.
func FiltersChanged(q url.Values) bool {
	for _, key := range FilterKeys {
		if normalizeFilter(q.Get(key)) != normalizeFilter(q.Get("prev_"+key)) {
			return true
		}
	}
	return false
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int
	TotalPages int
}

// NewPageInfo clamps page into [1, totalPages].
// POST: 1 <= Page <= TotalPages
func NewPageInfo(page, totalPages int) PageInfo {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{Page: page, TotalPages: totalPages}
}

// PageNumbers returns the page buttons to display: at most MaxPageButtons,
// starting at 1 until the current page passes 3, then centered on it, and
// never beyond TotalPages.
// POST: len(result) == min(TotalPages, MaxPageButtons); values ascend by 1
func (p PageInfo) PageNumbers() []int {
	start := p.Page - MaxPageButtons/2
	if start < 1 {
		start = 1
	}
	end := start + MaxPageButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - MaxPageButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// ShowPagination returns true if there is more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

func normalizeFilter(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "all" {
		return ""
	}
	return v
}
