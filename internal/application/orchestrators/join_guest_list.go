package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"eventra/internal/adapters/broker"
	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
	domainOutbox "eventra/internal/domain/outbox"
)

// ErrFormInvalid is returned when a submission is stopped before any network call.
var ErrFormInvalid = errors.New("form has validation errors")

// JoinGuestListInput carries the form being submitted and the event snapshot
// it was rendered against.
type JoinGuestListInput struct {
	Form  *guestlist.Form
	Event event.Event
}

// JoinGuestListDeps holds dependencies for JoinGuestList.
type JoinGuestListDeps struct {
	Gateway    GuestListGateway
	Outbox     OutboxWriter
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteJoinGuestList validates the form, submits it and reflects the outcome
// back into the form.
// PRE: input.Form is non-nil and belongs to input.Event
// POST: ErrFormInvalid means no call was made and the form carries errors;
// an API error means the form is Failed with classified errors; nil means
// the form is Success and a guestlist.joined event is queued
func ExecuteJoinGuestList(ctx context.Context, input JoinGuestListInput, deps JoinGuestListDeps) error {
	form := input.Form
	spots := guestlist.AvailableSpots(input.Event)
	payload, ok := form.BeginSubmit(spots)
	if !ok {
		return ErrFormInvalid
	}

	if err := deps.Gateway.JoinGuestList(ctx, payload); err != nil {
		form.Fail(err)
		slog.Warn("guestlist_join_failed", "event_id", payload.EventID, "guests", payload.NumberOfGuests, "error", err)
		return err
	}
	form.Succeed()

	now := deps.Now()
	enqueue(ctx, deps.Outbox, deps.GenerateID(), domainOutbox.ActionBookingEvent, domainOutbox.BookingEventPayload{
		Kind:       broker.QueueGuestListJoined,
		EventID:    payload.EventID,
		EventTitle: input.Event.Title,
		Name:       payload.GuestName,
		Phone:      payload.Phone,
		Quantity:   payload.NumberOfGuests,
		OccurredAt: now.UTC().Format(time.RFC3339),
	}, now)

	slog.Info("guestlist_joined", "event_id", payload.EventID, "guests", payload.NumberOfGuests)
	return nil
}
