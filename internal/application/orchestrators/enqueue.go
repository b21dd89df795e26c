package orchestrators

import (
	"context"
	"log/slog"
	"time"

	domainOutbox "eventra/internal/domain/outbox"
)

// enqueue records a follow-up action. Failures are logged and never surface
// to the visitor; the booking itself already succeeded.
func enqueue(ctx context.Context, store OutboxWriter, id, action string, payload any, now time.Time) {
	if store == nil {
		return
	}
	entry, err := domainOutbox.New(id, action, payload, now)
	if err != nil {
		slog.Error("outbox_enqueue_invalid", "action_type", action, "error", err)
		return
	}
	if err := store.Save(ctx, entry); err != nil {
		slog.Error("outbox_enqueue_failed", "entry_id", id, "action_type", action, "error", err)
		return
	}
	slog.Debug("outbox_enqueued", "entry_id", id, "action_type", action)
}
