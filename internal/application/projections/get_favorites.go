package projections

import (
	"context"
	"log/slog"
	"time"

	"eventra/internal/domain/apierror"
)

// GetFavoritesQuery carries query parameters.
type GetFavoritesQuery struct {
	VisitorKey string
}

// GetFavoritesResult carries the query result.
type GetFavoritesResult struct {
	Events  []EventCard
	Missing int // favorited IDs the gateway no longer knows
}

// GetFavoritesDeps holds dependencies for GetFavorites.
type GetFavoritesDeps struct {
	Events    EventReader
	Favorites FavoriteReader
	Now       func() time.Time
}

// QueryGetFavorites fetches every favorited event in the order they were added.
// PRE: VisitorKey may be empty (no favorites)
// POST: events the gateway reports as not found are skipped and counted;
// any other fetch error aborts the query
func QueryGetFavorites(ctx context.Context, query GetFavoritesQuery, deps GetFavoritesDeps) (GetFavoritesResult, error) {
	favs := loadFavorites(ctx, deps.Favorites, query.VisitorKey)
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	result := GetFavoritesResult{Events: make([]EventCard, 0, len(favs))}
	for _, id := range favs {
		e, err := deps.Events.GetEvent(ctx, id)
		if apierror.KindOf(err) == apierror.KindNotFound {
			result.Missing++
			slog.Info("favorite_event_missing", "event_id", id)
			continue
		}
		if err != nil {
			return GetFavoritesResult{}, err
		}
		result.Events = append(result.Events, newEventCard(e, favs, now))
	}
	return result, nil
}
