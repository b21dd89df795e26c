package event

import (
	"errors"
	"time"
)

// Status constants as reported by the API Gateway.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusUnknown   = "unknown"
)

// PlaceholderImage is shown when an event carries no images.
const PlaceholderImage = "/static/img/event-placeholder.svg"

// Domain errors.
var (
	ErrEmptyID = errors.New("event id is required")
)

// Organizer holds the public contact fields of the event organizer.
type Organizer struct {
	Name  string
	Email string
	Phone string
}

// Event is the canonical event record. Legacy API shapes are mapped into this
// struct at the API boundary; nothing downstream reads raw fields.
type Event struct {
	ID               string
	Title            string
	Description      string
	ShortDescription string
	Category         string
	Status           string
	Date             time.Time
	Time             string
	Venue            string
	Location         string
	Capacity         int
	CapacityKnown    bool
	BookedSeats      int
	Price            float64
	Images           []string
	Tags             []string
	Organizer        Organizer
	HosterID         string
	HosterWhatsApp   string // normalized, empty when unknown
}

// Validate checks that the Event has an identifier.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	return nil
}

// DisplayStatus returns the status used for badges.
// INVARIANT: result is one of the four Status constants
func (e Event) DisplayStatus() string {
	switch e.Status {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return e.Status
	}
	return StatusUnknown
}

// Gallery returns the image sequence, or a single placeholder if empty.
// POST: len(result) >= 1
func (e Event) Gallery() []string {
	if len(e.Images) == 0 {
		return []string{PlaceholderImage}
	}
	out := make([]string, len(e.Images))
	copy(out, e.Images)
	return out
}

// Availability derives seat availability from the event's capacity snapshot.
func (e Event) Availability() Availability {
	return ComputeAvailability(e.Capacity, e.BookedSeats)
}

// Summary returns the short description, or the full description if none.
func (e Event) Summary() string {
	if e.ShortDescription != "" {
		return e.ShortDescription
	}
	return e.Description
}
