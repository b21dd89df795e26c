package guestlist

import (
	"fmt"
	"strings"

	"eventra/internal/domain/apierror"
	"eventra/internal/domain/event"
	"eventra/internal/domain/notification"
	"eventra/internal/domain/validation"
)

// Form states.
const (
	StateEditing    = "editing"
	StateSubmitting = "submitting"
	StateSuccess    = "success"
)

// Field names used for touched tracking and blur.
const (
	FieldGuestName      = "guestName"
	FieldPhone          = "phone"
	FieldNumberOfGuests = "numberOfGuests"
)

const (
	// MaxGuests bounds the group size regardless of availability.
	MaxGuests = 10
	// CollapsedVisible is the number of additional-guest fields shown before "show all".
	CollapsedVisible = 3
	// FallbackAvailableSpots is assumed when the event's capacity is unknown.
	FallbackAvailableSpots = 298
)

// MsgJoined is the success notice after joining.
const MsgJoined = "You're on the guest list! See you there."

// Errors holds per-field validation messages. Empty means valid.
type Errors struct {
	GuestName      string
	Phone          string
	NumberOfGuests string
	Additional     []string // aligned with Form.AdditionalGuests
	General        string
}

// Any reports whether any field or banner error is set.
func (e Errors) Any() bool {
	if e.GuestName != "" || e.Phone != "" || e.NumberOfGuests != "" || e.General != "" {
		return true
	}
	for _, a := range e.Additional {
		if a != "" {
			return true
		}
	}
	return false
}

// Touched records which top-level fields have been blurred.
type Touched struct {
	GuestName      bool
	Phone          bool
	NumberOfGuests bool
}

// AdditionalGuest is one extra group member in the submit payload.
type AdditionalGuest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Payload is the POST /guestlist request body.
type Payload struct {
	EventID          string            `json:"eventId"`
	GuestName        string            `json:"guestName"`
	Phone            string            `json:"phone"`
	NumberOfGuests   int               `json:"numberOfGuests"`
	AdditionalGuests []AdditionalGuest `json:"additionalGuests"`
}

// Slot is one additional-guest field as rendered.
type Slot struct {
	Index  int
	Number int // guest number, starting at 2
	Value  string
	Error  string
}

// Form is the guest-list form state.
type Form struct {
	EventID          string
	GuestName        string
	Phone            string
	NumberOfGuests   int
	AdditionalGuests []string
	Errors           Errors
	Touched          Touched
	ShowAll          bool
	State            string
	Notice           notification.Notice
}

// NewForm returns an empty form for a single guest.
// POST: State == StateEditing, NumberOfGuests == 1, no additional guests
func NewForm(eventID string) Form {
	return Form{
		EventID:          eventID,
		NumberOfGuests:   1,
		AdditionalGuests: []string{},
		Errors:           Errors{Additional: []string{}},
		State:            StateEditing,
	}
}

// AvailableSpots returns the spots left for an event, or FallbackAvailableSpots
// when its capacity is unknown.
func AvailableSpots(e event.Event) int {
	if !e.CapacityKnown {
		return FallbackAvailableSpots
	}
	return e.Capacity - e.BookedSeats
}

// SelectableGuests lists the group sizes offered, 1..min(MaxGuests, spots).
func SelectableGuests(availableSpots int) []int {
	n := availableSpots
	if n > MaxGuests {
		n = MaxGuests
	}
	out := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}

// SetNumberOfGuests resizes the additional-guest slots. Previously entered
// names are discarded.
// PRE: none; n is clamped to [1, MaxGuests]
// POST: len(AdditionalGuests) == NumberOfGuests-1, all empty; ShowAll == false
func (f *Form) SetNumberOfGuests(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxGuests {
		n = MaxGuests
	}
	f.NumberOfGuests = n
	f.AdditionalGuests = make([]string, n-1)
	f.Errors.Additional = make([]string, n-1)
	f.Errors.General = ""
	f.Errors.NumberOfGuests = ""
	f.ShowAll = false
}

// VisibleCount returns how many additional-guest fields are shown.
func (f *Form) VisibleCount() int {
	extra := f.NumberOfGuests - 1
	if f.ShowAll || extra <= CollapsedVisible {
		return extra
	}
	return CollapsedVisible
}

// HiddenCount returns how many additional-guest fields are behind "show all".
// POST: result >= 0
func (f *Form) HiddenCount() int {
	hidden := (f.NumberOfGuests - 1) - CollapsedVisible
	if hidden < 0 {
		return 0
	}
	return hidden
}

// VisibleSlots returns the additional-guest fields to render.
func (f *Form) VisibleSlots() []Slot {
	n := f.VisibleCount()
	slots := make([]Slot, 0, n)
	for i := 0; i < n && i < len(f.AdditionalGuests); i++ {
		s := Slot{Index: i, Number: i + 2, Value: f.AdditionalGuests[i]}
		if i < len(f.Errors.Additional) {
			s.Error = f.Errors.Additional[i]
		}
		slots = append(slots, s)
	}
	return slots
}

// SetShowAll expands or collapses the additional-guest disclosure.
func (f *Form) SetShowAll(show bool) {
	f.ShowAll = show
}

// EditGuestName updates the primary name. Its error and the banner are cleared,
// then revalidated only if the field was already touched.
func (f *Form) EditGuestName(v string) {
	f.GuestName = v
	f.Errors.GuestName = ""
	f.Errors.General = ""
	if f.Touched.GuestName {
		f.Errors.GuestName = validation.ValidateGuestName(v)
	}
}

// EditPhone updates the phone number with the same clearing rules as EditGuestName.
func (f *Form) EditPhone(v string) {
	f.Phone = v
	f.Errors.Phone = ""
	f.Errors.General = ""
	if f.Touched.Phone {
		f.Errors.Phone = validation.ValidatePhone(v)
	}
}

// Blur marks a top-level field touched and validates it.
func (f *Form) Blur(field string) {
	switch field {
	case FieldGuestName:
		f.Touched.GuestName = true
		f.Errors.GuestName = validation.ValidateGuestName(f.GuestName)
	case FieldPhone:
		f.Touched.Phone = true
		f.Errors.Phone = validation.ValidatePhone(f.Phone)
	case FieldNumberOfGuests:
		f.Touched.NumberOfGuests = true
	}
}

// EditAdditionalGuest updates slot i and revalidates only that slot.
// PRE: 0 <= i < len(AdditionalGuests); out-of-range edits are ignored
func (f *Form) EditAdditionalGuest(i int, v string) {
	if i < 0 || i >= len(f.AdditionalGuests) {
		return
	}
	f.AdditionalGuests[i] = v
	f.ensureAdditionalErrors()
	f.Errors.Additional[i] = validation.ValidateAdditionalGuest(v, i)
	f.Errors.General = ""
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit(availableSpots int) bool {
	return f.State != StateSubmitting && f.State != StateSuccess && availableSpots > 0
}

// IsOpen reports whether the form is still shown. Success closes it.
func (f *Form) IsOpen() bool {
	return f.State != StateSuccess
}

// BeginSubmit validates every field and checks the group fits the available
// spots. On success the form enters Submitting and the payload is returned.
// PRE: availableSpots from AvailableSpots
// POST: ok == false leaves the form editable with errors and a failure notice;
// ok == true means State == StateSubmitting and no network call has been made yet
func (f *Form) BeginSubmit(availableSpots int) (Payload, bool) {
	if f.State == StateSubmitting || f.State == StateSuccess {
		return Payload{}, false
	}
	f.Touched = Touched{GuestName: true, Phone: true, NumberOfGuests: true}
	f.Errors.Phone = validation.ValidatePhone(f.Phone)
	f.Errors.GuestName = validation.ValidateGuestName(f.GuestName)
	f.ensureAdditionalErrors()
	firstAdditional := ""
	for i, name := range f.AdditionalGuests {
		f.Errors.Additional[i] = validation.ValidateAdditionalGuest(name, i)
		if firstAdditional == "" {
			firstAdditional = f.Errors.Additional[i]
		}
	}

	if first := firstNonEmpty(f.Errors.Phone, f.Errors.GuestName, f.Errors.NumberOfGuests, firstAdditional); first != "" {
		f.Notice = notification.Failure(first)
		return Payload{}, false
	}

	if f.NumberOfGuests > availableSpots {
		f.Errors.NumberOfGuests = spotsMessage(availableSpots)
		f.Notice = notification.Failure(f.Errors.NumberOfGuests)
		return Payload{}, false
	}

	f.State = StateSubmitting
	f.Notice = notification.Notice{}
	return f.payload(), true
}

// Succeed closes the form with a success notice.
// PRE: State == StateSubmitting
func (f *Form) Succeed() {
	f.State = StateSuccess
	f.Errors = Errors{Additional: make([]string, len(f.AdditionalGuests))}
	f.Notice = notification.Success(MsgJoined)
}

// Fail reflects a classified API failure into field and banner errors.
// PRE: State == StateSubmitting
// POST: State == StateEditing; field values are kept for resubmission
func (f *Form) Fail(err error) {
	f.State = StateEditing
	msg := apierror.UserMessage(err)
	switch apierror.KindOf(err) {
	case apierror.KindCapacityConflict:
		f.Errors.NumberOfGuests = msg
	case apierror.KindDuplicateEntry:
		f.Errors.Phone = msg
	}
	f.Errors.General = msg
	f.Notice = notification.Failure(msg)
}

func (f *Form) payload() Payload {
	extras := make([]AdditionalGuest, 0, len(f.AdditionalGuests))
	for _, name := range f.AdditionalGuests {
		if n := strings.TrimSpace(name); n != "" {
			extras = append(extras, AdditionalGuest{Name: n})
		}
	}
	return Payload{
		EventID:          f.EventID,
		GuestName:        strings.TrimSpace(f.GuestName),
		Phone:            strings.TrimSpace(f.Phone),
		NumberOfGuests:   f.NumberOfGuests,
		AdditionalGuests: extras,
	}
}

func (f *Form) ensureAdditionalErrors() {
	if len(f.Errors.Additional) != len(f.AdditionalGuests) {
		errs := make([]string, len(f.AdditionalGuests))
		copy(errs, f.Errors.Additional)
		f.Errors.Additional = errs
	}
}

func spotsMessage(spots int) string {
	switch {
	case spots <= 0:
		return "No spots available for this event"
	case spots == 1:
		return "Only 1 spot available"
	}
	return fmt.Sprintf("Only %d spots available", spots)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
