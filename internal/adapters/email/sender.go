package email

import (
	"context"
	"time"
)

// SendRequest is one transactional email, such as a booking confirmation.
type SendRequest struct {
	To      []string
	From    string // falls back to the sender's default, e.g. "Eventra <bookings@eventra.app>"
	Subject string
	HTML    string
	ReplyTo string
	// Category labels the message at the provider, e.g. "reservation_confirmation".
	Category string
}

// SendResult is the provider's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
