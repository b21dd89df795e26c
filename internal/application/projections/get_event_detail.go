package projections

import (
	"context"
	"time"

	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
)

// GetEventDetailQuery carries query parameters.
type GetEventDetailQuery struct {
	EventID    string
	ImageIndex int
	VisitorKey string
}

// GetEventDetailResult carries everything the detail page derives from one
// event snapshot.
type GetEventDetailResult struct {
	Event         event.Event
	Availability  event.Availability
	Date          event.DateInfo
	Status        string
	Carousel      event.Carousel
	IsFavorite    bool
	GuestSpots    int
	GuestListOpen bool
}

// GetEventDetailDeps holds dependencies for GetEventDetail.
type GetEventDetailDeps struct {
	Events    EventReader
	Favorites FavoriteReader
	Now       func() time.Time
}

// QueryGetEventDetail fetches one event and derives its display state.
// PRE: EventID is non-empty
// POST: Availability is computed once from this snapshot; Carousel has >= 1 image
func QueryGetEventDetail(ctx context.Context, query GetEventDetailQuery, deps GetEventDetailDeps) (GetEventDetailResult, error) {
	e, err := deps.Events.GetEvent(ctx, query.EventID)
	if err != nil {
		return GetEventDetailResult{}, err
	}
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	favs := loadFavorites(ctx, deps.Favorites, query.VisitorKey)
	spots := guestlist.AvailableSpots(e)

	return GetEventDetailResult{
		Event:         e,
		Availability:  e.Availability(),
		Date:          event.NewDateInfo(e.Date, now),
		Status:        e.DisplayStatus(),
		Carousel:      event.NewCarousel(e, query.ImageIndex),
		IsFavorite:    favs.Contains(e.ID),
		GuestSpots:    spots,
		GuestListOpen: spots > 0,
	}, nil
}
