package web

import (
	"errors"
	"net/http"
	"strconv"

	"eventra/internal/adapters/http/middleware"
	"eventra/internal/adapters/notify"
	"eventra/internal/application/orchestrators"
	"eventra/internal/application/projections"
	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/reservation"
)

// Form actions that update the form without submitting it.
const (
	actionResize   = "resize"
	actionShowAll  = "show_all"
	actionShowLess = "show_less"
	actionBlur     = "blur"
)

// successPage is the data for reservation_success.html.
type successPage struct {
	Event  event.Event
	Record reservation.Record
	Links  []notify.Link
}

// loadDetail fetches the event snapshot a form is submitted against.
func loadDetail(w http.ResponseWriter, r *http.Request) (projections.GetEventDetailResult, bool) {
	detail, err := projections.QueryGetEventDetail(r.Context(), projections.GetEventDetailQuery{
		EventID:    r.PathValue("id"),
		VisitorKey: middleware.VisitorKeyFromContext(r.Context()),
	}, projections.GetEventDetailDeps{
		Events:    app.Gateway,
		Favorites: app.Favorites,
		Now:       timeNow,
	})
	if err != nil {
		renderFetchError(w, r, err)
		return projections.GetEventDetailResult{}, false
	}
	return detail, true
}

// handleReservation serves POST /events/{id}/reservations.
func handleReservation(w http.ResponseWriter, r *http.Request) {
	detail, ok := loadDetail(w, r)
	if !ok {
		return
	}

	form := reservation.NewForm(detail.Event)
	tickets, _ := strconv.Atoi(r.PostFormValue("numberOfTickets"))
	form.SetTickets(tickets)
	form.SetContact(r.PostFormValue("fullName"), r.PostFormValue("phone"), r.PostFormValue("email"))

	page := detailPage{
		Detail:      detail,
		Reservation: form,
		GuestList:   guestlist.NewForm(detail.Event.ID),
		Modal:       modalReserve,
	}
	if r.PostFormValue("action") == actionResize {
		renderDetail(w, r, http.StatusOK, page)
		return
	}

	links := notify.NewLinkCollector()
	result, err := orchestrators.ExecuteReserveTickets(r.Context(), orchestrators.ReserveTicketsInput{
		Form:  &form,
		Event: detail.Event,
	}, orchestrators.ReserveTicketsDeps{
		Gateway:      app.Gateway,
		Outbox:       app.Outbox,
		Opener:       links,
		AdminContact: app.AdminContact,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	page.Reservation = form
	switch {
	case errors.Is(err, orchestrators.ErrFormInvalid):
		renderDetail(w, r, http.StatusUnprocessableEntity, page)
		return
	case err != nil:
		renderDetail(w, r, http.StatusOK, page)
		return
	}

	renderTemplate(w, r, http.StatusOK, "reservation_success.html", successPage{
		Event:  detail.Event,
		Record: result.Record,
		Links:  links.Links(),
	})
}

// handleGuestList serves POST /events/{id}/guestlist. The form is rebuilt
// from the posted fields, the requested action is applied, and the page is
// rendered again unless the submission succeeded.
func handleGuestList(w http.ResponseWriter, r *http.Request) {
	detail, ok := loadDetail(w, r)
	if !ok {
		return
	}

	form := restoreGuestListForm(r, detail.Event.ID)
	page := detailPage{
		Detail:      detail,
		Reservation: reservation.NewForm(detail.Event),
		Modal:       modalGuestList,
	}

	switch r.PostFormValue("action") {
	case actionResize:
	case actionShowAll:
		form.SetShowAll(true)
	case actionShowLess:
		form.SetShowAll(false)
	case actionBlur:
		form.Blur(r.PostFormValue("field"))
	default:
		err := orchestrators.ExecuteJoinGuestList(r.Context(), orchestrators.JoinGuestListInput{
			Form:  &form,
			Event: detail.Event,
		}, orchestrators.JoinGuestListDeps{
			Gateway:    app.Gateway,
			Outbox:     app.Outbox,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err == nil {
			http.Redirect(w, r, "/events/"+detail.Event.ID+"?joined=1", http.StatusSeeOther)
			return
		}
		if errors.Is(err, orchestrators.ErrFormInvalid) {
			page.GuestList = form
			renderDetail(w, r, http.StatusUnprocessableEntity, page)
			return
		}
	}
	page.GuestList = form
	renderDetail(w, r, http.StatusOK, page)
}

// restoreGuestListForm replays the posted fields onto a new form. Guest names
// are kept only while the group size is unchanged.
// POST: touched fields are revalidated; untouched fields carry no errors
func restoreGuestListForm(r *http.Request, eventID string) guestlist.Form {
	form := guestlist.NewForm(eventID)
	requested, _ := strconv.Atoi(r.PostFormValue("numberOfGuests"))
	previous, err := strconv.Atoi(r.PostFormValue("prevNumberOfGuests"))
	if err != nil {
		previous = requested
	}

	form.SetNumberOfGuests(previous)
	form.Touched = guestlist.Touched{
		GuestName:      r.PostFormValue("touched_"+guestlist.FieldGuestName) == "1",
		Phone:          r.PostFormValue("touched_"+guestlist.FieldPhone) == "1",
		NumberOfGuests: r.PostFormValue("touched_"+guestlist.FieldNumberOfGuests) == "1",
	}
	form.EditGuestName(r.PostFormValue("guestName"))
	form.EditPhone(r.PostFormValue("phone"))
	for i := range form.AdditionalGuests {
		if v := r.PostFormValue("guest_" + strconv.Itoa(i)); v != "" {
			form.EditAdditionalGuest(i, v)
		}
	}
	form.SetShowAll(r.PostFormValue("showAll") == "1")

	if requested != previous {
		form.SetNumberOfGuests(requested)
		form.Touched.NumberOfGuests = true
	}
	return form
}
