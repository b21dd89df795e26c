package orchestrators

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"time"

	"eventra/internal/adapters/broker"
	"eventra/internal/domain/event"
	domainOutbox "eventra/internal/domain/outbox"
	"eventra/internal/domain/reservation"
)

// ReserveTicketsInput carries the form being submitted and the event snapshot
// it was rendered against.
type ReserveTicketsInput struct {
	Form  *reservation.Form
	Event event.Event
}

// ReserveTicketsResult carries the completed reservation.
type ReserveTicketsResult struct {
	Record        reservation.Record
	Notifications int // messages handed to the opener
}

// ReserveTicketsDeps holds dependencies for ReserveTickets.
type ReserveTicketsDeps struct {
	Gateway      ReservationGateway
	Outbox       OutboxWriter
	Opener       LinkOpener
	AdminContact string
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteReserveTickets validates the form, books the tickets and runs the
// post-booking follow-ups.
// PRE: input.Form is non-nil and belongs to input.Event
// POST: on success the form is Success, both chat messages were offered to
// the opener, a reservation.confirmed event is queued, and a confirmation
// email is queued when an email was given
// INVARIANT: follow-up failures never turn a booked reservation into an error
func ExecuteReserveTickets(ctx context.Context, input ReserveTicketsInput, deps ReserveTicketsDeps) (ReserveTicketsResult, error) {
	form := input.Form
	req, ok := form.BeginSubmit()
	if !ok {
		return ReserveTicketsResult{}, ErrFormInvalid
	}

	apiRec, err := deps.Gateway.CreateReservation(ctx, req)
	if err != nil {
		form.Fail(err)
		slog.Warn("reservation_submit_failed", "event_id", req.EventID, "tickets", req.NumberOfTickets, "error", err)
		return ReserveTicketsResult{}, err
	}

	now := deps.Now()
	rec := form.Succeed(apiRec, now)
	slog.Info("reservation_confirmed", "event_id", req.EventID, "reservation_id", rec.ID, "tickets", rec.NumberOfTickets)

	opened := DispatchReservationNotifications(ctx, input.Event, rec, deps.AdminContact, deps.Opener)

	enqueue(ctx, deps.Outbox, deps.GenerateID(), domainOutbox.ActionBookingEvent, domainOutbox.BookingEventPayload{
		Kind:          broker.QueueReservationConfirmed,
		EventID:       req.EventID,
		EventTitle:    input.Event.Title,
		ReservationID: rec.ID,
		Name:          rec.FullName,
		Phone:         rec.Phone,
		Quantity:      rec.NumberOfTickets,
		TotalAmount:   rec.TotalAmount,
		OccurredAt:    now.UTC().Format(time.RFC3339),
	}, now)

	if rec.Email != "" {
		html, err := renderConfirmationEmail(input.Event, rec)
		if err != nil {
			slog.Error("confirmation_email_render_failed", "reservation_id", rec.ID, "error", err)
		} else {
			enqueue(ctx, deps.Outbox, deps.GenerateID(), domainOutbox.ActionConfirmationEmail, domainOutbox.EmailPayload{
				To:      rec.Email,
				Subject: "Your booking for " + input.Event.Title,
				HTML:    html,
			}, now)
		}
	}

	return ReserveTicketsResult{Record: rec, Notifications: opened}, nil
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<p>Hi {{.Record.FullName}},</p>
<p>Your booking for <strong>{{.Event.Title}}</strong> is confirmed.</p>
<table>
<tr><td>Reservation</td><td>{{.Record.ID}}</td></tr>
<tr><td>Date</td><td>{{.When}}</td></tr>
<tr><td>Venue</td><td>{{.Event.Venue}}</td></tr>
<tr><td>Tickets</td><td>{{.Record.NumberOfTickets}}</td></tr>
<tr><td>Total</td><td>{{.Total}}</td></tr>
</table>
<p>Please show this email at the entrance.</p>`))

func renderConfirmationEmail(e event.Event, rec reservation.Record) (string, error) {
	when := event.NewDateInfo(e.Date, e.Date).LongForm
	if e.Time != "" {
		when += " " + e.Time
	}
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		Event  event.Event
		Record reservation.Record
		When   string
		Total  string
	}{e, rec, when, reservation.FormatAmount(rec.TotalAmount)})
	return buf.String(), err
}
