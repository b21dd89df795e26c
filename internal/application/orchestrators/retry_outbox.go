package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventra/internal/adapters/broker"
	"eventra/internal/adapters/email"
	outboxStore "eventra/internal/adapters/storage/outbox"
	domain "eventra/internal/domain/outbox"
)

// Outbox retry defaults.
const (
	DefaultOutboxBaseDelay = 30 * time.Second
	DefaultOutboxMaxDelay  = time.Hour
	DefaultOutboxBatchSize = 25
)

// ErrTerminalEntry is returned when retrying an entry that is done or failed.
var ErrTerminalEntry = errors.New("outbox entry is in a terminal state")

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload.
	// Returns the provider's reference (e.g. the email message ID) and any error.
	Execute(ctx context.Context, payload string) (string, error)
}

// OutboxProcessor delivers queued follow-up actions with exponential backoff.
type OutboxProcessor struct {
	store     outboxStore.Store
	executors map[string]ActionExecutor
	now       func() time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// ProcessStats summarizes one ProcessPending pass.
type ProcessStats struct {
	Due       int
	Succeeded int
	Failed    int
}

// NewOutboxProcessor creates a new outbox processor.
// PRE: store is non-nil; executors maps action types to executors
func NewOutboxProcessor(store outboxStore.Store, executors map[string]ActionExecutor, now func() time.Time) *OutboxProcessor {
	if now == nil {
		now = time.Now
	}
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		now:       now,
		baseDelay: DefaultOutboxBaseDelay,
		maxDelay:  DefaultOutboxMaxDelay,
		batchSize: DefaultOutboxBatchSize,
	}
}

// ProcessPending attempts every pending entry whose backoff has elapsed.
// PRE: Context is valid
// POST: Attempted entries are saved with their new status
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (ProcessStats, error) {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return ProcessStats{}, fmt.Errorf("list pending outbox entries: %w", err)
	}

	var stats ProcessStats
	now := p.now()
	for _, entry := range entries {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if now.Before(entry.DueAt(p.baseDelay, p.maxDelay)) {
			continue
		}
		stats.Due++
		if err := p.attempt(ctx, &entry); err != nil {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
		if err := p.store.Save(ctx, entry); err != nil {
			slog.Error("outbox_save_failed", "entry_id", entry.ID, "error", err)
		}
	}
	if stats.Due > 0 {
		slog.Info("outbox_pass_complete", "due", stats.Due, "succeeded", stats.Succeeded, "failed", stats.Failed)
	}
	return stats, nil
}

// ProcessSingle attempts one entry immediately, ignoring backoff.
// PRE: entryID is non-empty
// POST: Entry is attempted and saved, or ErrTerminalEntry is returned
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	if entry.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalEntry, entryID)
	}
	attemptErr := p.attempt(ctx, &entry)
	if err := p.store.Save(ctx, entry); err != nil {
		return fmt.Errorf("save outbox entry: %w", err)
	}
	return attemptErr
}

func (p *OutboxProcessor) attempt(ctx context.Context, entry *domain.Entry) error {
	entry.MarkAttempt(p.now())
	executor, ok := p.executors[entry.ActionType]
	if !ok {
		err := fmt.Errorf("no executor registered for action type: %s", entry.ActionType)
		entry.MarkFailed(err)
		slog.Error("outbox_action_unroutable", "entry_id", entry.ID, "action_type", entry.ActionType)
		return err
	}

	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "attempt", entry.Attempts, "status", entry.Status, "error", err)
		return err
	}
	entry.MarkSuccess(externalID)
	slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	return nil
}

// --- Email Executor ---

const confirmationCategory = "reservation_confirmation"

// EmailExecutor sends confirmation emails.
type EmailExecutor struct {
	Sender email.Sender
}

// Execute sends the email described by payload.
// PRE: payload is valid JSON matching domain.EmailPayload
// POST: email accepted by the provider, returns its message ID
// INVARIANT: outbox entry status managed by caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p domain.EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal email payload: %w", err)
	}
	res, err := e.Sender.Send(ctx, email.SendRequest{
		To:       []string{p.To},
		Subject:  p.Subject,
		HTML:     p.HTML,
		Category: confirmationCategory,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// --- Booking Event Executor ---

// BookingEventExecutor publishes booking events to the broker, one queue per kind.
type BookingEventExecutor struct {
	Publisher broker.Publisher
}

// Execute publishes payload to the queue named by its kind.
// PRE: payload is valid JSON matching domain.BookingEventPayload
// POST: message accepted by the broker, returns the queue name
// INVARIANT: outbox entry status managed by caller
func (e *BookingEventExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p domain.BookingEventPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal booking event payload: %w", err)
	}
	if err := e.Publisher.Publish(ctx, p.Kind, []byte(payload)); err != nil {
		return "", err
	}
	return p.Kind, nil
}

// --- Background Worker ---

// StartBackgroundWorker processes pending entries every interval until ctx is
// cancelled. The returned channel closes once the worker has stopped.
// PRE: interval > 0
// POST: exactly one goroutine runs until ctx is done
func StartBackgroundWorker(ctx context.Context, processor *OutboxProcessor, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				passCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
				if _, err := processor.ProcessPending(passCtx); err != nil && !errors.Is(err, context.Canceled) {
					slog.Error("outbox_background_process_failed", "error", err)
				}
				cancel()
			case <-ctx.Done():
				slog.Info("outbox_background_worker_stopped")
				return
			}
		}
	}()
	return done
}
