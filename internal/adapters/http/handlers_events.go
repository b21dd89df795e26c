package web

import (
	"net/http"
	"strconv"

	"eventra/internal/adapters/http/middleware"
	"eventra/internal/application/listutil"
	"eventra/internal/application/projections"
	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/reservation"
)

// Filter options offered on the list page. The API Gateway accepts any value.
var (
	eventCategories = []string{"music", "nightlife", "sports", "arts", "food", "business", "community"}
	eventStatuses   = []string{event.StatusUpcoming, event.StatusOngoing, event.StatusCompleted}
	sortOptions     = []sortOption{
		{event.SortNewest, "Newest"},
		{event.SortDate, "Date"},
		{event.SortPriceLow, "Price: low to high"},
		{event.SortPriceHigh, "Price: high to low"},
	}
)

type sortOption struct {
	Key   string
	Label string
}

// listPage is the data for event_list.html.
type listPage struct {
	Result     projections.GetEventListResult
	Categories []string
	Statuses   []string
	Sorts      []sortOption
}

// Modals on the detail page.
const (
	modalReserve   = "reserve"
	modalGuestList = "guestlist"
)

// detailPage is the data for event_detail.html.
type detailPage struct {
	Detail       projections.GetEventDetailResult
	Reservation  reservation.Form
	GuestList    guestlist.Form
	GuestOptions []int
	Modal        string
}

// handleEventList serves GET /.
func handleEventList(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query())
	result, err := projections.QueryGetEventList(r.Context(), projections.GetEventListQuery{
		Params:     params,
		VisitorKey: middleware.VisitorKeyFromContext(r.Context()),
	}, projections.GetEventListDeps{
		Events:    app.Gateway,
		Favorites: app.Favorites,
		Now:       timeNow,
	})
	if err != nil {
		renderFetchError(w, r, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "event_list.html", listPage{
		Result:     result,
		Categories: eventCategories,
		Statuses:   eventStatuses,
		Sorts:      sortOptions,
	})
}

// handleEventDetail serves GET /events/{id}. Query parameters: img selects the
// carousel image, key applies arrow-key navigation, modal opens a form and
// joined shows the guest-list success state.
func handleEventDetail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	img, _ := strconv.Atoi(q.Get("img"))
	modal := q.Get("modal")
	if modal != modalReserve && modal != modalGuestList {
		modal = ""
	}

	detail, err := projections.QueryGetEventDetail(r.Context(), projections.GetEventDetailQuery{
		EventID:    r.PathValue("id"),
		ImageIndex: img,
		VisitorKey: middleware.VisitorKeyFromContext(r.Context()),
	}, projections.GetEventDetailDeps{
		Events:    app.Gateway,
		Favorites: app.Favorites,
		Now:       timeNow,
	})
	if err != nil {
		renderFetchError(w, r, err)
		return
	}
	if key := q.Get("key"); key != "" {
		detail.Carousel = detail.Carousel.HandleKey(key, modal != "")
	}

	gl := guestlist.NewForm(detail.Event.ID)
	if q.Get("joined") == "1" {
		gl.Succeed()
	}
	renderDetail(w, r, http.StatusOK, detailPage{
		Detail:      detail,
		Reservation: reservation.NewForm(detail.Event),
		GuestList:   gl,
		Modal:       modal,
	})
}

func renderDetail(w http.ResponseWriter, r *http.Request, status int, page detailPage) {
	page.GuestOptions = guestlist.SelectableGuests(page.Detail.GuestSpots)
	renderTemplate(w, r, status, "event_detail.html", &page)
}
