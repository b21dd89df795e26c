// Package api talks to the API Gateway that owns events, reservations and
// guest lists. Responses are normalized into domain types here so nothing
// downstream reads raw or legacy fields.
package api

import (
	"context"

	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/reservation"
)

// DefaultPageLimit is the page size requested from GET /allevents.
const DefaultPageLimit = event.PageSize

// ListQuery selects one page of events. Empty Category or Status means any.
type ListQuery struct {
	Page     int
	Limit    int
	Category string
	Status   string
}

// EventPage is one page of GET /allevents.
type EventPage struct {
	Events     []event.Event
	TotalPages int
}

// Gateway is the set of API Gateway calls the application makes.
// Failures are *apierror.Error values.
type Gateway interface {
	// GetEvent fetches one event.
	// PRE: id is non-empty
	// POST: Returns the normalized event or an apierror of KindNotFound
	GetEvent(ctx context.Context, id string) (event.Event, error)

	// ListEvents fetches one page of events.
	// POST: TotalPages >= 1
	ListEvents(ctx context.Context, q ListQuery) (EventPage, error)

	// CreateReservation books tickets.
	// POST: Returns whatever record fields the API sent back; callers fill defaults
	CreateReservation(ctx context.Context, req reservation.Request) (reservation.Record, error)

	// JoinGuestList adds a group to an event's guest list.
	JoinGuestList(ctx context.Context, p guestlist.Payload) error
}
