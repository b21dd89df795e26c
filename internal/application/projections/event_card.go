package projections

import (
	"context"
	"log/slog"
	"time"

	"eventra/internal/domain/event"
	"eventra/internal/domain/favorite"
)

// EventCard is one event as shown in a list.
type EventCard struct {
	Event        event.Event
	Availability event.Availability
	Date         event.DateInfo
	Status       string
	Cover        string
	IsFavorite   bool
}

func newEventCard(e event.Event, favs favorite.Set, now time.Time) EventCard {
	return EventCard{
		Event:        e,
		Availability: e.Availability(),
		Date:         event.NewDateInfo(e.Date, now),
		Status:       e.DisplayStatus(),
		Cover:        e.Gallery()[0],
		IsFavorite:   favs.Contains(e.ID),
	}
}

// loadFavorites reads the visitor's set. Read failures degrade to an empty
// set so listing pages still render.
func loadFavorites(ctx context.Context, store FavoriteReader, visitorKey string) favorite.Set {
	if store == nil || visitorKey == "" {
		return favorite.Set{}
	}
	raw, _, err := store.Get(ctx, favorite.Key(visitorKey))
	if err != nil {
		slog.Warn("favorites_read_failed", "error", err)
		return favorite.Set{}
	}
	set, err := favorite.Decode(raw)
	if err != nil {
		slog.Warn("favorites_decode_failed", "error", err)
		return favorite.Set{}
	}
	return set
}
