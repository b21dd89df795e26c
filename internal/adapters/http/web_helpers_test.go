package web

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"eventra/internal/adapters/api"
	"eventra/internal/adapters/http/middleware"
	"eventra/internal/adapters/http/perf"
	"eventra/internal/adapters/storage"
	"eventra/internal/adapters/storage/kv"
	outboxStore "eventra/internal/adapters/storage/outbox"
	"eventra/internal/application/orchestrators"
	"eventra/internal/domain/apierror"
	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/reservation"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testVisitor = "visitor-key-1"

// fakeGateway is an in-memory API Gateway.
type fakeGateway struct {
	mu         sync.Mutex
	events     map[string]event.Event
	order      []string
	totalPages int
	listErr    error
	joinErr    error
	reserveErr error
	record     reservation.Record
	joined     []guestlist.Payload
	reserved   []reservation.Request
}

func newFakeGateway(events ...event.Event) *fakeGateway {
	g := &fakeGateway{events: map[string]event.Event{}, totalPages: 1}
	for _, e := range events {
		g.events[e.ID] = e
		g.order = append(g.order, e.ID)
	}
	return g
}

// GetEvent returns a stored event.
// PRE: id is non-empty
// POST: Returns the event or a not-found apierror
func (g *fakeGateway) GetEvent(_ context.Context, id string) (event.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.events[id]
	if !ok {
		return event.Event{}, apierror.New(http.StatusNotFound, "Event not found")
	}
	return e, nil
}

// ListEvents returns every stored event as one page.
// PRE: none
// POST: Returns the events in insertion order or listErr
func (g *fakeGateway) ListEvents(_ context.Context, _ api.ListQuery) (api.EventPage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return api.EventPage{}, g.listErr
	}
	page := api.EventPage{TotalPages: g.totalPages}
	for _, id := range g.order {
		page.Events = append(page.Events, g.events[id])
	}
	return page, nil
}

// CreateReservation records the request.
// PRE: req is validated
// POST: Returns record or reserveErr
func (g *fakeGateway) CreateReservation(_ context.Context, req reservation.Request) (reservation.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reserved = append(g.reserved, req)
	return g.record, g.reserveErr
}

// JoinGuestList records the payload.
// PRE: p is validated
// POST: Returns joinErr
func (g *fakeGateway) JoinGuestList(_ context.Context, p guestlist.Payload) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.joined = append(g.joined, p)
	return g.joinErr
}

// fakePinger reports a configurable health.
type fakePinger struct{ err error }

// PingContext returns the configured error.
func (p fakePinger) PingContext(context.Context) error { return p.err }

func testEvent() event.Event {
	return event.Event{
		ID:               "e1",
		Title:            "Rooftop Jazz",
		Description:      "Live **jazz** on the roof.\n<script>alert(1)</script>",
		ShortDescription: "Live jazz",
		Category:         "music",
		Status:           event.StatusUpcoming,
		Date:             fixedTime.AddDate(0, 0, 14),
		Time:             "8:00 PM",
		Venue:            "Skyline",
		Location:         "Dubai",
		Capacity:         100,
		CapacityKnown:    true,
		BookedSeats:      90,
		Price:            25,
		Images:           []string{"https://img.example/1.jpg", "https://img.example/2.jpg", "https://img.example/3.jpg"},
		HosterID:         "h1",
		HosterWhatsApp:   "+971555000111",
	}
}

type testEnv struct {
	gateway *fakeGateway
	kv      *kv.MemoryStore
	outbox  outboxStore.Store
	handler http.Handler
}

// setupTest installs fresh dependencies and returns the router.
func setupTest(t *testing.T, events ...event.Event) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(context.Background(), db); err != nil {
		t.Fatal(err)
	}

	env := &testEnv{
		gateway: newFakeGateway(events...),
		kv:      kv.NewMemoryStore(),
		outbox:  outboxStore.NewSQLiteStore(db),
	}
	app = &Deps{
		Gateway:      env.gateway,
		Favorites:    env.kv,
		Outbox:       env.outbox,
		Processor:    orchestrators.NewOutboxProcessor(env.outbox, nil, func() time.Time { return fixedTime }),
		DB:           fakePinger{},
		Collector:    perf.NewCollector(100),
		AdminContact: "+971500000000",
	}
	prevNow := timeNow
	timeNow = func() time.Time { return fixedTime }
	t.Cleanup(func() { timeNow = prevNow })
	env.handler = newRouter(false)
	return env
}

func (env *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(middleware.ContextWithVisitor(req.Context(), testVisitor))
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	return rr
}

var errBoom = errors.New("boom")
