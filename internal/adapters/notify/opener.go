// Package notify hands composed chat messages to the visitor's browser.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"eventra/internal/domain/notification"
)

// Link is a deep link ready to be opened in a new tab.
type Link struct {
	Recipient string
	URL       string
}

// LinkCollector is a per-request opener: it validates each message and keeps
// the resulting deep link for the success page, whose script opens them in
// order.
type LinkCollector struct {
	mu    sync.Mutex
	links []Link
}

// NewLinkCollector creates an empty collector.
func NewLinkCollector() *LinkCollector {
	return &LinkCollector{}
}

// Open records the message's deep link.
// POST: invalid messages are rejected and not recorded
func (c *LinkCollector) Open(_ context.Context, msg notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.links = append(c.links, Link{Recipient: msg.Recipient, URL: msg.DeepLink()})
	c.mu.Unlock()
	slog.Debug("deep_link_ready", "recipient", msg.Recipient)
	return nil
}

// Links returns the collected links in the order they were opened.
func (c *LinkCollector) Links() []Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Link, len(c.links))
	copy(out, c.links)
	return out
}
