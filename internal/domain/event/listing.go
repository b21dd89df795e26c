package event

import (
	"sort"
	"strings"
)

// PageSize is the number of events requested per page from the API Gateway.
const PageSize = 12

// Sort keys for the event list.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortDate      = "date"
)

// ValidSort reports whether key is a known sort key.
func ValidSort(key string) bool {
	switch key {
	case SortNewest, SortPriceLow, SortPriceHigh, SortDate:
		return true
	}
	return false
}

// Search filters events by case-insensitive substring match on title,
// description and venue. An empty query returns a copy of the input.
// POST: input slice is not modified
func Search(events []Event, query string) []Event {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Venue), q) {
			out = append(out, e)
		}
	}
	return out
}

// Sorted returns a sorted copy of events. Unknown keys and SortNewest keep the
// original order.
// POST: input slice is not modified
func Sorted(events []Event, key string) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	switch key {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortDate:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	}
	return out
}
