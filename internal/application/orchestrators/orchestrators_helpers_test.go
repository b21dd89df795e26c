package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/notification"
	domainOutbox "eventra/internal/domain/outbox"
	"eventra/internal/domain/reservation"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// mockGateway implements GuestListGateway and ReservationGateway.
type mockGateway struct {
	err        error
	record     reservation.Record
	joined     []guestlist.Payload
	reserved   []reservation.Request
	callsTotal int
}

// JoinGuestList records the payload.
// PRE: p is a validated payload
// POST: Returns the configured error
func (m *mockGateway) JoinGuestList(_ context.Context, p guestlist.Payload) error {
	m.callsTotal++
	m.joined = append(m.joined, p)
	return m.err
}

// CreateReservation records the request.
// PRE: req is a validated request
// POST: Returns the configured record or error
func (m *mockGateway) CreateReservation(_ context.Context, req reservation.Request) (reservation.Record, error) {
	m.callsTotal++
	m.reserved = append(m.reserved, req)
	if m.err != nil {
		return reservation.Record{}, m.err
	}
	return m.record, nil
}

// mockOutbox implements OutboxWriter and the outbox Store.
type mockOutbox struct {
	mu      sync.Mutex
	entries map[string]domainOutbox.Entry
	order   []string
	saveErr error
}

func newMockOutbox() *mockOutbox {
	return &mockOutbox{entries: map[string]domainOutbox.Entry{}}
}

// Save upserts an entry.
// PRE: e is valid
// POST: entry is stored unless saveErr is set
func (m *mockOutbox) Save(_ context.Context, e domainOutbox.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.entries[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.entries[e.ID] = e
	return nil
}

// GetByID returns a stored entry.
// PRE: id is non-empty
// POST: Returns the entry or an error
func (m *mockOutbox) GetByID(_ context.Context, id string) (domainOutbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domainOutbox.Entry{}, errors.New("not found")
	}
	return e, nil
}

// ListPending returns pending and retrying entries in insertion order.
// PRE: limit > 0
// POST: Returns up to limit entries
func (m *mockOutbox) ListPending(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domainOutbox.Entry
	for _, id := range m.order {
		e := m.entries[id]
		if (e.Status == domainOutbox.StatusPending || e.Status == domainOutbox.StatusRetrying) && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListFailed returns failed entries.
// PRE: limit > 0
// POST: Returns up to limit entries
func (m *mockOutbox) ListFailed(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domainOutbox.Entry
	for _, id := range m.order {
		if e := m.entries[id]; e.Status == domainOutbox.StatusFailed && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

// byAction returns stored entries of one action type in insertion order.
func (m *mockOutbox) byAction(action string) []domainOutbox.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domainOutbox.Entry
	for _, id := range m.order {
		if e := m.entries[id]; e.ActionType == action {
			out = append(out, e)
		}
	}
	return out
}

// mockOpener records opened messages and can fail for one recipient.
type mockOpener struct {
	opened   []notification.Message
	failFor  string
	attempts int
}

// Open records msg unless its recipient is failFor.
// PRE: msg is composed
// POST: Returns an error for failFor
func (m *mockOpener) Open(_ context.Context, msg notification.Message) error {
	m.attempts++
	if msg.Recipient == m.failFor {
		return errors.New("popup blocked")
	}
	m.opened = append(m.opened, msg)
	return nil
}

// mockKV implements FavoriteStore.
type mockKV struct {
	data   map[string]string
	getErr error
	setErr error
}

// Get returns the stored value.
// PRE: key is non-empty
// POST: Returns value and presence
func (m *mockKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores a value.
// PRE: key is non-empty
// POST: value stored unless setErr is set
func (m *mockKV) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}
