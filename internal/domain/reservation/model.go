package reservation

import (
	"strings"
	"time"

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

// MaxTicketsPerBooking caps a single reservation.
const MaxTicketsPerBooking = 10

// Messages.
const (
	MsgBooked        = "Reservation confirmed! Check WhatsApp for your booking details."
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgSoldOut       = "No tickets available for this event"
	MsgTicketsBounds = "Please choose a valid number of tickets"
)

// Record status used when the API omits one.
const DefaultStatus = "confirmed"

// Errors holds per-field validation messages.
type Errors struct {
	FullName        string
	Phone           string
	Email           string
	NumberOfTickets string
	General         string
}

// Request is the POST /reservations body.
type Request struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	NumberOfTickets int    `json:"numberOfTickets"`
	Email           string `json:"email,omitempty"`
	EventID         string `json:"eventId"`
	HosterID        string `json:"hosterId"`
}

// Record is the reservation returned by the API Gateway.
type Record struct {
	ID              string
	Status          string
	FullName        string
	Phone           string
	Email           string
	NumberOfTickets int
	TotalAmount     float64
	CreatedAt       time.Time
}

// Form is the reservation form state.
type Form struct {
	EventID         string
	HosterID        string
	Price           float64
	AvailableSeats  int
	FullName        string
	Email           string
	Phone           string
	NumberOfTickets int
	Errors          Errors
	State           string
	Notice          notification.Notice
}

// NewForm starts a reservation for e. Missing capacity data counts as zero seats.
// POST: State == StateEditing, NumberOfTickets == 1
func NewForm(e event.Event) Form {
	avail := 0
	if e.CapacityKnown {
		avail = e.Capacity - e.BookedSeats
	}
	return Form{
		EventID:         e.ID,
		HosterID:        e.HosterID,
		Price:           e.Price,
		AvailableSeats:  avail,
		NumberOfTickets: 1,
		State:           StateEditing,
	}
}

// MaxTickets returns the upper bound of the ticket selector.
// POST: 0 <= result <= MaxTicketsPerBooking
func (f *Form) MaxTickets() int {
	n := f.AvailableSeats
	if n > MaxTicketsPerBooking {
		n = MaxTicketsPerBooking
	}
	if n < 0 {
		return 0
	}
	return n
}

// TicketOptions lists 1..MaxTickets.
func (f *Form) TicketOptions() []int {
	max := f.MaxTickets()
	out := make([]int, 0, max)
	for i := 1; i <= max; i++ {
		out = append(out, i)
	}
	return out
}

// SetTickets clamps n into the ticket domain.
// POST: 1 <= NumberOfTickets and NumberOfTickets <= max(1, MaxTickets())
func (f *Form) SetTickets(n int) {
	max := f.MaxTickets()
	if n > max {
		n = max
	}
	if n < 1 {
		n = 1
	}
	f.NumberOfTickets = n
	f.Errors.NumberOfTickets = ""
}

// Total returns price times tickets.
func (f *Form) Total() float64 {
	return f.Price * float64(f.NumberOfTickets)
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	return f.State != StateSubmitting && f.State != StateSuccess && f.MaxTickets() > 0
}

// SetContact replaces the contact fields, clearing their errors.
func (f *Form) SetContact(fullName, phone, email string) {
	f.FullName, f.Phone, f.Email = fullName, phone, email
	f.Errors = Errors{}
}

// BeginSubmit validates the draft and, if valid, moves to Submitting.
// PRE: none
// POST: ok == false leaves errors and a failure notice; ok == true means
// State == StateSubmitting and req is ready to send
func (f *Form) BeginSubmit() (Request, bool) {
	if !f.CanSubmit() {
		if f.MaxTickets() == 0 {
			f.Errors.General = MsgSoldOut
			f.Notice = notification.Failure(MsgSoldOut)
		}
		return Request{}, false
	}
	f.Errors = Errors{
		FullName: validation.ValidateGuestName(f.FullName),
		Phone:    validation.ValidatePhone(f.Phone),
		Email:    validateEmail(f.Email),
	}
	if f.NumberOfTickets < 1 || f.NumberOfTickets > f.MaxTickets() {
		f.Errors.NumberOfTickets = MsgTicketsBounds
	}
	for _, msg := range []string{f.Errors.FullName, f.Errors.Phone, f.Errors.Email, f.Errors.NumberOfTickets} {
		if msg != "" {
			f.Notice = notification.Failure(msg)
			return Request{}, false
		}
	}

	f.State = StateSubmitting
	f.Notice = notification.Notice{}
	return Request{
		FullName:        strings.TrimSpace(f.FullName),
		Phone:           strings.TrimSpace(f.Phone),
		NumberOfTickets: f.NumberOfTickets,
		Email:           strings.TrimSpace(f.Email),
		EventID:         f.EventID,
		HosterID:        f.HosterID,
	}, true
}

// Succeed completes the reservation, filling absent record fields from the draft.
// PRE: State == StateSubmitting
// POST: State == StateSuccess; returned record has ID, Status and totals set
func (f *Form) Succeed(rec Record, now time.Time) Record {
	f.State = StateSuccess
	f.Notice = notification.Success(MsgBooked)
	return rec.WithDefaults(f, now)
}

// Fail surfaces the server message or a generic fallback.
// POST: State == StateEditing; field values are kept for resubmission
func (f *Form) Fail(err error) {
	f.State = StateEditing
	msg := apierror.ServerMessage(err)
	f.Errors.General = msg
	f.Notice = notification.Failure(msg)
}

// WithDefaults fills fields the API left out.
func (r Record) WithDefaults(f *Form, now time.Time) Record {
	if r.ID == "" {
		r.ID = "N/A"
	}
	if r.Status == "" {
		r.Status = DefaultStatus
	}
	if r.FullName == "" {
		r.FullName = strings.TrimSpace(f.FullName)
	}
	if r.Phone == "" {
		r.Phone = strings.TrimSpace(f.Phone)
	}
	if r.Email == "" {
		r.Email = strings.TrimSpace(f.Email)
	}
	if r.NumberOfTickets == 0 {
		r.NumberOfTickets = f.NumberOfTickets
	}
	if r.TotalAmount == 0 {
		r.TotalAmount = f.Total()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	return r
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") || strings.ContainsAny(email, " \t") {
		return MsgInvalidEmail
	}
	return ""
}
