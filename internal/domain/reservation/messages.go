package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventra/internal/domain/event"
	"eventra/internal/domain/notification"
)

// ComposeMessages builds the organizer and customer WhatsApp messages for a
// completed reservation, in that order. The organizer message goes to the
// event's hoster number, or adminContact when that is unknown.
// PRE: rec has been through WithDefaults
// POST: len(result) == 2; each To is normalized
func ComposeMessages(e event.Event, rec Record, adminContact string) []notification.Message {
	organizer := e.HosterWhatsApp
	if organizer == "" {
		organizer = adminContact
	}
	if organizer == "" {
		organizer = notification.DefaultAdminContact
	}
	return []notification.Message{
		{
			Recipient: notification.RecipientOrganizer,
			To:        notification.NormalizeNumber(organizer),
			Text:      organizerText(e, rec),
		},
		{
			Recipient: notification.RecipientCustomer,
			To:        notification.NormalizeNumber(rec.Phone),
			Text:      customerText(e, rec),
		},
	}
}

func organizerText(e event.Event, rec Record) string {
	var b strings.Builder
	b.WriteString("*New Ticket Reservation*\n\n")
	b.WriteString("*Event Details*\n")
	fmt.Fprintf(&b, "Event: %s\n", e.Title)
	fmt.Fprintf(&b, "Date: %s\n", when(e))
	fmt.Fprintf(&b, "Venue: %s\n", where(e))
	fmt.Fprintf(&b, "Category: %s\n\n", orNA(e.Category))
	b.WriteString("*Customer Details*\n")
	fmt.Fprintf(&b, "Name: %s\n", rec.FullName)
	fmt.Fprintf(&b, "Phone: %s\n", notification.NormalizeNumber(rec.Phone))
	fmt.Fprintf(&b, "Email: %s\n\n", orNA(rec.Email))
	b.WriteString("*Reservation Details*\n")
	fmt.Fprintf(&b, "Reservation ID: %s\n", rec.ID)
	fmt.Fprintf(&b, "Tickets: %d\n", rec.NumberOfTickets)
	fmt.Fprintf(&b, "Price per ticket: %s\n", FormatAmount(e.Price))
	fmt.Fprintf(&b, "Total: %s\n", FormatAmount(rec.TotalAmount))
	fmt.Fprintf(&b, "Status: %s\n", rec.Status)
	fmt.Fprintf(&b, "Booked at: %s", rec.CreatedAt.Format(time.RFC1123))
	return b.String()
}

func customerText(e event.Event, rec Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", rec.FullName)
	fmt.Fprintf(&b, "Your booking for *%s* is confirmed.\n\n", e.Title)
	fmt.Fprintf(&b, "Date: %s\n", when(e))
	fmt.Fprintf(&b, "Venue: %s\n", where(e))
	fmt.Fprintf(&b, "Tickets: %d\n", rec.NumberOfTickets)
	fmt.Fprintf(&b, "Total: %s\n", FormatAmount(rec.TotalAmount))
	fmt.Fprintf(&b, "Reservation ID: %s\n\n", rec.ID)
	b.WriteString("Please show this message at the entrance. See you there!")
	return b.String()
}

// FormatAmount renders a currency-less amount without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func when(e event.Event) string {
	info := event.NewDateInfo(e.Date, e.Date)
	switch {
	case info.LongForm == "":
		return orNA(e.Time)
	case e.Time == "":
		return info.LongForm
	}
	return info.LongForm + " at " + e.Time
}

func where(e event.Event) string {
	switch {
	case e.Venue != "" && e.Location != "":
		return e.Venue + ", " + e.Location
	case e.Venue != "":
		return e.Venue
	}
	return orNA(e.Location)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
