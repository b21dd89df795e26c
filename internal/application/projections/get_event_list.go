package projections

import (
	"context"
	"time"

	"eventra/internal/adapters/api"
	"eventra/internal/application/listutil"
	"eventra/internal/domain/event"
)

// GetEventListQuery carries query parameters.
type GetEventListQuery struct {
	Params     listutil.ListParams
	VisitorKey string
}

// GetEventListResult carries the query result.
type GetEventListResult struct {
	Events   []EventCard
	Page     listutil.PageInfo
	Params   listutil.ListParams
	Fetched  int // events on the page before search
	Searched bool
}

// GetEventListDeps holds dependencies for GetEventList.
type GetEventListDeps struct {
	Events    EventReader
	Favorites FavoriteReader
	Now       func() time.Time
}

// QueryGetEventList fetches one page from the gateway, then searches and sorts
// it locally.
// PRE: Params came from listutil.ParseListParams
// POST: Events is a filtered, sorted copy of the fetched page
// INVARIANT: search and sort never trigger a refetch or change Page
func QueryGetEventList(ctx context.Context, query GetEventListQuery, deps GetEventListDeps) (GetEventListResult, error) {
	p := query.Params
	page, err := deps.Events.ListEvents(ctx, api.ListQuery{
		Page:     p.Page,
		Limit:    p.PerPage,
		Category: p.Category(),
		Status:   p.Status(),
	})
	if err != nil {
		return GetEventListResult{}, err
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	favs := loadFavorites(ctx, deps.Favorites, query.VisitorKey)

	visible := event.Sorted(event.Search(page.Events, p.Search), p.Sort)
	cards := make([]EventCard, 0, len(visible))
	for _, e := range visible {
		cards = append(cards, newEventCard(e, favs, now))
	}

	return GetEventListResult{
		Events:   cards,
		Page:     listutil.NewPageInfo(p.Page, page.TotalPages),
		Params:   p,
		Fetched:  len(page.Events),
		Searched: p.Search != "",
	}, nil
}
