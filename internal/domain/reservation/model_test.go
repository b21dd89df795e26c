package reservation_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"eventra/internal/domain/apierror"
	"eventra/internal/domain/event"
	"eventra/internal/domain/notification"
	"eventra/internal/domain/reservation"
	"eventra/internal/domain/validation"
)

func testEvent() event.Event {
	return event.Event{
		ID:             "evt-9",
		Title:          "Desert Jazz",
		Date:           time.Date(2025, 11, 21, 20, 0, 0, 0, time.UTC),
		Time:           "8:00 PM",
		Venue:          "Dune Arena",
		Location:       "Dubai",
		Capacity:       100,
		CapacityKnown:  true,
		BookedSeats:    40,
		Price:          150,
		HosterID:       "host-1",
		HosterWhatsApp: "+971 55 000 1111",
	}
}

// TestForm_Total tests price times tickets.
func TestForm_Total(t *testing.T) {
	f := reservation.NewForm(testEvent())
	f.SetTickets(3)
	if got := f.Total(); got != 450 {
		t.Errorf("Total() = %v, want 450", got)
	}
}

// TestForm_TicketDomain tests bounds derived from availability.
func TestForm_TicketDomain(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		booked   int
		known    bool
		wantMax  int
	}{
		{"plenty", 100, 0, true, 10},
		{"few left", 100, 96, true, 4},
		{"sold out", 100, 100, true, 0},
		{"overbooked", 100, 105, true, 0},
		{"unknown capacity", 0, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEvent()
			e.Capacity, e.BookedSeats, e.CapacityKnown = tt.capacity, tt.booked, tt.known
			f := reservation.NewForm(e)
			if got := f.MaxTickets(); got != tt.wantMax {
				t.Errorf("MaxTickets() = %d, want %d", got, tt.wantMax)
			}
			if got := len(f.TicketOptions()); got != tt.wantMax {
				t.Errorf("len(TicketOptions) = %d, want %d", got, tt.wantMax)
			}
			if f.CanSubmit() != (tt.wantMax > 0) {
				t.Errorf("CanSubmit() = %v", f.CanSubmit())
			}
		})
	}
}

// TestForm_SetTicketsClamps tests clamping into 1..max.
func TestForm_SetTicketsClamps(t *testing.T) {
	e := testEvent()
	e.BookedSeats = 97
	f := reservation.NewForm(e)
	f.SetTickets(8)
	if f.NumberOfTickets != 3 {
		t.Errorf("NumberOfTickets = %d, want 3", f.NumberOfTickets)
	}
	f.SetTickets(0)
	if f.NumberOfTickets != 1 {
		t.Errorf("NumberOfTickets = %d, want 1", f.NumberOfTickets)
	}
}

// TestForm_BeginSubmit tests validation and request building.
func TestForm_BeginSubmit(t *testing.T) {
	f := reservation.NewForm(testEvent())
	f.SetContact("L", "abc", "bad@")
	if _, ok := f.BeginSubmit(); ok {
		t.Fatal("expected validation failure")
	}
	if f.Errors.FullName != validation.MsgNameTooShort || f.Errors.Phone != validation.MsgPhoneInvalidFormat || f.Errors.Email != reservation.MsgInvalidEmail {
		t.Errorf("Errors = %+v", f.Errors)
	}
	if f.Notice.Text != validation.MsgNameTooShort {
		t.Errorf("Notice = %q", f.Notice.Text)
	}

	f.SetContact(" Layla Noor ", "+971501234567", "")
	f.SetTickets(2)
	req, ok := f.BeginSubmit()
	if !ok {
		t.Fatalf("unexpected failure: %+v", f.Errors)
	}
	want := reservation.Request{FullName: "Layla Noor", Phone: "+971501234567", NumberOfTickets: 2, EventID: "evt-9", HosterID: "host-1"}
	if req != want {
		t.Errorf("Request = %+v, want %+v", req, want)
	}
	if f.State != reservation.StateSubmitting || f.CanSubmit() {
		t.Error("form must be submitting with the control disabled")
	}
}

// TestForm_BeginSubmitSoldOut tests the sold-out guard.
func TestForm_BeginSubmitSoldOut(t *testing.T) {
	e := testEvent()
	e.BookedSeats = 100
	f := reservation.NewForm(e)
	f.SetContact("Layla", "+971501234567", "")
	if _, ok := f.BeginSubmit(); ok {
		t.Fatal("sold out event must not submit")
	}
	if f.Errors.General != reservation.MsgSoldOut {
		t.Errorf("General = %q", f.Errors.General)
	}
}

// TestForm_Fail tests server message surfacing and return to editing.
func TestForm_Fail(t *testing.T) {
	f := reservation.NewForm(testEvent())
	f.SetContact("Layla", "+971501234567", "")
	f.BeginSubmit()
	f.Fail(apierror.New(500, "Booking window closed"))
	if f.State != reservation.StateEditing || f.Notice.Text != "Booking window closed" {
		t.Errorf("State=%q Notice=%q", f.State, f.Notice.Text)
	}
	if f.FullName != "Layla" {
		t.Errorf("FullName = %q, want kept after failure", f.FullName)
	}
	if !f.CanSubmit() {
		t.Error("failed form must be resubmittable")
	}
}

// TestForm_FailKeepsServerMessage tests client errors show the server's own text.
func TestForm_FailKeepsServerMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid", apierror.New(400, "Email must be valid"), "Email must be valid"},
		{"closed", apierror.New(403, "Reservations closed by organizer"), "Reservations closed by organizer"},
		{"conflict", apierror.New(409, "You already reserved 2 tickets"), "You already reserved 2 tickets"},
		{"no message", apierror.New(409, ""), apierror.MsgServerFail},
		{"network", apierror.Network(errors.New("dial tcp")), apierror.MsgNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := reservation.NewForm(testEvent())
			f.SetContact("Layla", "+971501234567", "")
			f.BeginSubmit()
			f.Fail(tt.err)
			if f.Errors.General != tt.want || f.Notice.Text != tt.want {
				t.Errorf("General=%q Notice=%q, want %q", f.Errors.General, f.Notice.Text, tt.want)
			}
		})
	}
}

// TestForm_SucceedDefaults tests fallback record fields.
func TestForm_SucceedDefaults(t *testing.T) {
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	f := reservation.NewForm(testEvent())
	f.SetContact("Layla", "+971501234567", "layla@example.com")
	f.SetTickets(3)
	f.BeginSubmit()

	rec := f.Succeed(reservation.Record{}, now)
	if rec.ID != "N/A" || rec.Status != reservation.DefaultStatus || rec.TotalAmount != 450 || rec.NumberOfTickets != 3 {
		t.Errorf("record = %+v", rec)
	}
	if !rec.CreatedAt.Equal(now) || rec.Email != "layla@example.com" {
		t.Errorf("record = %+v", rec)
	}
	if f.State != reservation.StateSuccess {
		t.Errorf("State = %q", f.State)
	}

	kept := reservation.Record{ID: "R-1", Status: "pending", TotalAmount: 300}.WithDefaults(&f, now)
	if kept.ID != "R-1" || kept.Status != "pending" || kept.TotalAmount != 300 {
		t.Errorf("server fields overwritten: %+v", kept)
	}
}

// TestComposeMessages tests recipients and content.
func TestComposeMessages(t *testing.T) {
	e := testEvent()
	rec := reservation.Record{ID: "R-77", Status: "confirmed", FullName: "Layla", Phone: "+971 50 123 4567", NumberOfTickets: 3, TotalAmount: 450}

	msgs := reservation.ComposeMessages(e, rec, "+971 4 000 0000")
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	org, cust := msgs[0], msgs[1]
	if org.Recipient != notification.RecipientOrganizer || org.To != "+971550001111" {
		t.Errorf("organizer = %+v", org)
	}
	if cust.Recipient != notification.RecipientCustomer || cust.To != "+971501234567" {
		t.Errorf("customer = %+v", cust)
	}
	for _, want := range []string{"Desert Jazz", "Layla", "R-77", "Tickets: 3", "Total: 450", "Dune Arena, Dubai", "Email: N/A"} {
		if !strings.Contains(org.Text, want) {
			t.Errorf("organizer text missing %q", want)
		}
	}
	for _, want := range []string{"Hi Layla", "Desert Jazz", "R-77", "confirmed"} {
		if !strings.Contains(cust.Text, want) {
			t.Errorf("customer text missing %q", want)
		}
	}
}

// TestComposeMessages_AdminFallback tests the organizer fallback.
func TestComposeMessages_AdminFallback(t *testing.T) {
	e := testEvent()
	e.HosterWhatsApp = ""
	msgs := reservation.ComposeMessages(e, reservation.Record{Phone: "0501234567"}, "+971 4 000 0000")
	if msgs[0].To != "+97140000000" {
		t.Errorf("organizer To = %q, want admin contact", msgs[0].To)
	}
	msgs = reservation.ComposeMessages(e, reservation.Record{Phone: "0501234567"}, "")
	if msgs[0].To != notification.DefaultAdminContact {
		t.Errorf("organizer To = %q, want default admin", msgs[0].To)
	}
}
