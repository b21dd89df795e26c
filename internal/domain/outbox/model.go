package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Status constants for the entry lifecycle.
const (
	StatusPending  = "pending"
	StatusRetrying = "retrying"
	StatusDone     = "done"
	StatusFailed   = "failed"
)

// Action types for post-booking follow-ups.
const (
	ActionConfirmationEmail = "confirmation_email"
	ActionBookingEvent      = "booking_event"
)

// DefaultMaxAttempts applies when an entry does not set its own limit.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrMissingCreated  = errors.New("created_at must be set")
)

// Entry is one follow-up action waiting to be delivered to an external system.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON, decoded by the executor for ActionType
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // provider reference once delivered
	ErrorMessage    string
}

// New builds a pending entry with payload marshalled to JSON.
// PRE: actionType is one of the Action constants
// POST: Returns a valid pending entry or a marshal error
func New(id, actionType string, payload any, now time.Time) (Entry, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal %s payload: %w", actionType, err)
	}
	e := Entry{
		ID:          id,
		ActionType:  actionType,
		Payload:     string(b),
		Status:      StatusPending,
		MaxAttempts: DefaultMaxAttempts,
		CreatedAt:   now,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks required fields and defaults MaxAttempts.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return ErrMissingCreated
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry reports whether another attempt is allowed.
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying) && e.Attempts < e.MaxAttempts
}

// IsTerminal reports whether the entry will not be attempted again.
func (e *Entry) IsTerminal() bool {
	return e.Status == StatusDone || e.Status == StatusFailed
}

// DueAt returns when the next attempt may run.
func (e *Entry) DueAt(baseDelay, maxDelay time.Duration) time.Time {
	if e.LastAttemptedAt.IsZero() {
		return e.CreatedAt
	}
	return e.LastAttemptedAt.Add(e.NextRetryDelay(baseDelay, maxDelay))
}

// MarkAttempt records an attempt starting at now.
// POST: Attempts incremented, Status == StatusRetrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess records delivery.
// POST: Status == StatusDone
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records a failed attempt. The entry fails permanently once
// attempts are exhausted.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// NextRetryDelay is 2^attempts * baseDelay, capped at maxDelay.
func (e *Entry) NextRetryDelay(baseDelay, maxDelay time.Duration) time.Duration {
	if e.Attempts >= 30 {
		return maxDelay
	}
	delay := baseDelay * (1 << e.Attempts)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

// EmailPayload is the body of an ActionConfirmationEmail entry.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// BookingEventPayload is the body of an ActionBookingEvent entry.
type BookingEventPayload struct {
	Kind          string  `json:"kind"` // "reservation.confirmed" or "guestlist.joined"
	EventID       string  `json:"event_id"`
	EventTitle    string  `json:"event_title"`
	ReservationID string  `json:"reservation_id,omitempty"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Quantity      int     `json:"quantity"`
	TotalAmount   float64 `json:"total_amount,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}
