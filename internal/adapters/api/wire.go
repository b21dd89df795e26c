package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"eventra/internal/domain/event"
	"eventra/internal/domain/notification"
	"eventra/internal/domain/reservation"
)

// dateLayouts are the date encodings seen from the API, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexNumber accepts a JSON number, a numeric string or null.
type flexNumber struct {
	Value float64
	Valid bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = flexNumber{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = flexNumber{}
			return nil
		}
		*n = flexNumber{Value: v, Valid: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexNumber{Value: v, Valid: true}
	return nil
}

// hosterRef is the hosterId field: either a bare identifier or an embedded
// organizer document.
type hosterRef struct {
	ID       string
	WhatsApp string
	Name     string
	Email    string
	Phone    string
}

func (h *hosterRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*h = hosterRef{}
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &h.ID)
	}
	var doc struct {
		ID             string `json:"_id"`
		AltID          string `json:"id"`
		WhatsAppNumber string `json:"whatsappNumber"`
		WhatsApp       string `json:"whatsapp"`
		Name           string `json:"name"`
		FullName       string `json:"fullName"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*h = hosterRef{
		ID:       firstNonBlank(doc.ID, doc.AltID),
		WhatsApp: firstNonBlank(doc.WhatsAppNumber, doc.WhatsApp),
		Name:     firstNonBlank(doc.Name, doc.FullName),
		Email:    doc.Email,
		Phone:    doc.Phone,
	}
	return nil
}

type organizerDoc struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// eventDoc is every event shape the API has produced.
type eventDoc struct {
	MongoID          string        `json:"_id"`
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	ShortDescription string        `json:"shortDescription"`
	Category         string        `json:"category"`
	Status           string        `json:"status"`
	Date             string        `json:"date"`
	Time             string        `json:"time"`
	Venue            string        `json:"venue"`
	Location         string        `json:"location"`
	Capacity         flexNumber    `json:"capacity"`
	BookedSeats      flexNumber    `json:"bookedSeats"`
	Price            flexNumber    `json:"price"`
	Images           []string      `json:"images"`
	Image            string        `json:"image"`
	Tags             []string      `json:"tags"`
	Organizer        *organizerDoc `json:"organizer"`
	OrganizerName    string        `json:"organizerName"`
	ContactEmail     string        `json:"contactEmail"`
	ContactPhone     string        `json:"contactPhone"`
	Hoster           hosterRef     `json:"hosterId"`
	WhatsAppNumber   string        `json:"whatsappNumber"`
	WhatsApp         string        `json:"whatsapp"`
	HosterWhatsApp   string        `json:"hosterWhatsapp"`
}

// toEvent maps a wire document into the canonical Event.
// POST: BookedSeats >= 0; CapacityKnown reports whether capacity was sent;
// HosterWhatsApp is normalized or empty
func (d eventDoc) toEvent() event.Event {
	e := event.Event{
		ID:               firstNonBlank(d.MongoID, d.ID),
		Title:            firstNonBlank(d.Title, d.Name),
		Description:      d.Description,
		ShortDescription: d.ShortDescription,
		Category:         d.Category,
		Status:           strings.ToLower(strings.TrimSpace(d.Status)),
		Date:             parseDate(d.Date),
		Time:             d.Time,
		Venue:            d.Venue,
		Location:         d.Location,
		Capacity:         int(d.Capacity.Value),
		CapacityKnown:    d.Capacity.Valid,
		BookedSeats:      int(d.BookedSeats.Value),
		Price:            d.Price.Value,
		Images:           compact(d.Images),
		Tags:             compact(d.Tags),
		HosterID:         d.Hoster.ID,
	}
	if len(e.Images) == 0 && strings.TrimSpace(d.Image) != "" {
		e.Images = []string{strings.TrimSpace(d.Image)}
	}
	if e.BookedSeats < 0 {
		e.BookedSeats = 0
	}
	if e.Price < 0 {
		e.Price = 0
	}

	org := event.Organizer{Name: d.OrganizerName, Email: d.ContactEmail, Phone: d.ContactPhone}
	if d.Organizer != nil {
		org.Name = firstNonBlank(d.Organizer.Name, org.Name)
		org.Email = firstNonBlank(d.Organizer.Email, org.Email)
		org.Phone = firstNonBlank(d.Organizer.Phone, org.Phone)
	}
	org.Name = firstNonBlank(org.Name, d.Hoster.Name)
	org.Email = firstNonBlank(org.Email, d.Hoster.Email)
	org.Phone = firstNonBlank(org.Phone, d.Hoster.Phone)
	e.Organizer = org

	e.HosterWhatsApp = notification.NormalizeNumber(firstNonBlank(
		d.Hoster.WhatsApp, d.WhatsAppNumber, d.HosterWhatsApp, d.WhatsApp))
	return e
}

// reservationDoc is the reservation record, nested or inlined.
type reservationDoc struct {
	MongoID         string     `json:"_id"`
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	FullName        string     `json:"fullName"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	NumberOfTickets flexNumber `json:"numberOfTickets"`
	TotalAmount     flexNumber `json:"totalAmount"`
	CreatedAt       string     `json:"createdAt"`
}

func (d reservationDoc) toRecord() reservation.Record {
	return reservation.Record{
		ID:              firstNonBlank(d.MongoID, d.ID),
		Status:          d.Status,
		FullName:        d.FullName,
		Phone:           d.Phone,
		Email:           d.Email,
		NumberOfTickets: int(d.NumberOfTickets.Value),
		TotalAmount:     d.TotalAmount.Value,
		CreatedAt:       parseDate(d.CreatedAt),
	}
}

// decodeEvent accepts {"event": {...}} or a bare event document.
func decodeEvent(body []byte) (event.Event, error) {
	var wrapped struct {
		Event *eventDoc `json:"event"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return event.Event{}, err
	}
	if wrapped.Event != nil {
		return wrapped.Event.toEvent(), nil
	}
	var doc eventDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return event.Event{}, err
	}
	return doc.toEvent(), nil
}

// decodeEventPage reads {"events": [...], "totalPages": n}.
// POST: TotalPages >= 1
func decodeEventPage(body []byte) (EventPage, error) {
	var doc struct {
		Events     []eventDoc `json:"events"`
		TotalPages flexNumber `json:"totalPages"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return EventPage{}, err
	}
	page := EventPage{Events: make([]event.Event, 0, len(doc.Events)), TotalPages: int(doc.TotalPages.Value)}
	for _, d := range doc.Events {
		e := d.toEvent()
		if e.ID == "" {
			continue
		}
		page.Events = append(page.Events, e)
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page, nil
}

// decodeReservation accepts {"reservation": {...}} or the fields inlined.
// An empty body yields an empty record.
func decodeReservation(body []byte) (reservation.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return reservation.Record{}, nil
	}
	var wrapped struct {
		Reservation *reservationDoc `json:"reservation"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return reservation.Record{}, err
	}
	if wrapped.Reservation != nil {
		return wrapped.Reservation.toRecord(), nil
	}
	var doc reservationDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return reservation.Record{}, err
	}
	return doc.toRecord(), nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a failed
// response. Non-JSON bodies yield "".
func errorMessage(body []byte) string {
	var doc struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	if s, ok := doc.Error.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if m, ok := doc.Error.(map[string]any); ok {
		if s, ok := m["message"].(string); ok {
			return s
		}
	}
	return doc.Message
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
