package projections

import (
	"context"

	"eventra/internal/adapters/api"
	"eventra/internal/domain/event"
)

// EventReader is the read side of the API Gateway.
type EventReader interface {
	GetEvent(ctx context.Context, id string) (event.Event, error)
	ListEvents(ctx context.Context, q api.ListQuery) (api.EventPage, error)
}

// FavoriteReader reads a visitor's stored favorites.
type FavoriteReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}
