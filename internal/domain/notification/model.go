package notification

import (
	"errors"
	"net/url"
	"strings"
)

// Levels for user-facing notices.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Recipients of composed messages.
const (
	RecipientOrganizer = "organizer"
	RecipientCustomer  = "customer"
)

// DefaultAdminContact receives organizer messages when the organizer's number is unknown.
const DefaultAdminContact = "+971500000000"

const deepLinkBase = "https://wa.me/"

// Domain errors.
var (
	ErrNoNumber = errors.New("message has no destination number")
	ErrNoText   = errors.New("message text is empty")
)

// Notice is a transient user-facing notification.
type Notice struct {
	Level string
	Text  string
}

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool { return n.Text == "" }

// Success builds a success notice.
func Success(text string) Notice { return Notice{Level: LevelSuccess, Text: text} }

// Failure builds an error notice.
func Failure(text string) Notice { return Notice{Level: LevelError, Text: text} }

// Message is a prefilled chat message addressed to one contact number.
type Message struct {
	Recipient string
	To        string // normalized, "+" followed by digits
	Text      string
}

// Validate checks that the message can be turned into a deep link.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m Message) Validate() error {
	if m.To == "" || m.To == "+" {
		return ErrNoNumber
	}
	if strings.TrimSpace(m.Text) == "" {
		return ErrNoText
	}
	return nil
}

// DeepLink returns the wa.me link carrying the message text.
func (m Message) DeepLink() string {
	return DeepLink(m.To, m.Text)
}

// NormalizeNumber strips spaces and '+' characters and prefixes a single '+'.
// Blank input yields "".
// POST: result is "" or starts with exactly one '+'
func NormalizeNumber(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '+' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	if cleaned == "" {
		return ""
	}
	return "+" + cleaned
}

// DeepLink builds https://wa.me/{number}?text={encoded}. The path carries the
// number without its '+'; the text is percent-encoded with %20 for spaces.
func DeepLink(number, text string) string {
	n := strings.TrimPrefix(NormalizeNumber(number), "+")
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return deepLinkBase + n + "?text=" + encoded
}
