package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// ErrNoRecipient is returned when a request has no To address.
var ErrNoRecipient = errors.New("email has no recipient")

// ResendSender delivers booking confirmations through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	now    func() time.Time
}

// NewResendSender creates a sender with the given API key and default from address.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from, now: time.Now}
}

// Send submits one confirmation to Resend.
// PRE: req has at least one recipient
// POST: the provider accepted the message; MessageID is its Resend ID
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	params, err := s.buildRequest(req)
	if err != nil {
		return SendResult{}, err
	}
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("confirmation_email_failed", "to_count", len(params.To), "category", req.Category, "error", err)
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}
	slog.Info("confirmation_email_sent", "message_id", sent.Id, "category", req.Category)
	return SendResult{MessageID: sent.Id, SentAt: s.now()}, nil
}

// buildRequest maps a SendRequest onto the Resend payload. Blank recipients
// are dropped and the category becomes a provider tag.
func (s *ResendSender) buildRequest(req SendRequest) (*resend.SendEmailRequest, error) {
	to := make([]string, 0, len(req.To))
	for _, addr := range req.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return nil, ErrNoRecipient
	}
	params := &resend.SendEmailRequest{
		From:    cmpOr(req.From, s.from),
		To:      to,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}
	if req.Category != "" {
		params.Tags = []resend.Tag{{Name: "category", Value: req.Category}}
	}
	return params, nil
}

func cmpOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
