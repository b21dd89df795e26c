package orchestrators

import (
	"context"

	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/notification"
	domainOutbox "eventra/internal/domain/outbox"
	"eventra/internal/domain/reservation"
)

// GuestListGateway submits guest-list joins to the API Gateway.
type GuestListGateway interface {
	JoinGuestList(ctx context.Context, p guestlist.Payload) error
}

// ReservationGateway submits reservations to the API Gateway.
type ReservationGateway interface {
	CreateReservation(ctx context.Context, req reservation.Request) (reservation.Record, error)
}

// OutboxWriter persists follow-up actions.
type OutboxWriter interface {
	Save(ctx context.Context, e domainOutbox.Entry) error
}

// LinkOpener hands a composed chat message to the messaging app.
type LinkOpener interface {
	Open(ctx context.Context, msg notification.Message) error
}

// FavoriteStore is the key-value store holding favorites.
type FavoriteStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
