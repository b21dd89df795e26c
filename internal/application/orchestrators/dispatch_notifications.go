package orchestrators

import (
	"context"
	"log/slog"

	"eventra/internal/domain/event"
	"eventra/internal/domain/reservation"
)

// DispatchReservationNotifications composes the organizer and customer
// messages for a completed reservation and hands each to opener in turn.
// PRE: rec has been through Record.WithDefaults
// POST: returns how many messages were handed off; failures are logged and
// do not stop the remaining messages
// INVARIANT: never affects the reservation outcome
func DispatchReservationNotifications(ctx context.Context, e event.Event, rec reservation.Record, adminContact string, opener LinkOpener) int {
	if opener == nil {
		return 0
	}
	opened := 0
	for _, msg := range reservation.ComposeMessages(e, rec, adminContact) {
		if err := opener.Open(ctx, msg); err != nil {
			slog.Warn("notification_dispatch_failed", "event_id", e.ID, "recipient", msg.Recipient, "error", err)
			continue
		}
		opened++
	}
	return opened
}
