package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventra/internal/adapters/http/perf"
	"eventra/internal/domain/apierror"
	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/reservation"
)

const (
	// DefaultTimeout bounds a single API Gateway call.
	DefaultTimeout = 10 * time.Second
	// DefaultSlowUpstream is the threshold above which calls are logged at WARN.
	DefaultSlowUpstream = 500 * time.Millisecond
	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL   string
	http      *http.Client
	collector *perf.Collector
	slow      time.Duration
}

var _ Gateway = (*Client)(nil)

// ClientOptions configures NewClient. Zero values select defaults.
type ClientOptions struct {
	HTTPClient   *http.Client
	Timeout      time.Duration
	Collector    *perf.Collector
	SlowUpstream time.Duration
}

// NewClient creates a client for the gateway at baseURL.
// PRE: baseURL is an absolute URL, e.g. "https://api.example.com/api"
// POST: Returns a client; no network call is made
func NewClient(baseURL string, opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	slow := opts.SlowUpstream
	if slow <= 0 {
		slow = DefaultSlowUpstream
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      hc,
		collector: opts.Collector,
		slow:      slow,
	}
}

// GetEvent fetches GET /events/{id}.
func (c *Client) GetEvent(ctx context.Context, id string) (event.Event, error) {
	if strings.TrimSpace(id) == "" {
		return event.Event{}, apierror.New(http.StatusNotFound, "")
	}
	body, err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), "GET /events/{id}", nil)
	if err != nil {
		return event.Event{}, err
	}
	e, err := decodeEvent(body)
	if err != nil {
		return event.Event{}, malformed("GET /events/{id}", err)
	}
	if e.ID == "" {
		e.ID = id
	}
	return e, nil
}

// ListEvents fetches GET /allevents with page, limit and optional filters.
func (c *Client) ListEvents(ctx context.Context, q ListQuery) (EventPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	body, err := c.do(ctx, http.MethodGet, "/allevents?"+params.Encode(), "GET /allevents", nil)
	if err != nil {
		return EventPage{}, err
	}
	page, err := decodeEventPage(body)
	if err != nil {
		return EventPage{}, malformed("GET /allevents", err)
	}
	return page, nil
}

// CreateReservation posts to /reservations.
func (c *Client) CreateReservation(ctx context.Context, req reservation.Request) (reservation.Record, error) {
	body, err := c.do(ctx, http.MethodPost, "/reservations", "POST /reservations", req)
	if err != nil {
		return reservation.Record{}, err
	}
	rec, err := decodeReservation(body)
	if err != nil {
		// The booking went through; an unreadable record falls back to defaults.
		slog.Warn("reservation_response_unreadable", "event_id", req.EventID, "error", err)
		return reservation.Record{}, nil
	}
	return rec, nil
}

// JoinGuestList posts to /guestlist.
func (c *Client) JoinGuestList(ctx context.Context, p guestlist.Payload) error {
	_, err := c.do(ctx, http.MethodPost, "/guestlist", "POST /guestlist", p)
	return err
}

// do performs one call and returns the body of a 2xx response. Every other
// outcome is an *apierror.Error.
func (c *Client) do(ctx context.Context, method, path, label string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", label, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", label, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(label, start, 0, err)
		return nil, apierror.Network(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(label, start, resp.StatusCode, err)
	if err != nil {
		return nil, apierror.Network(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierror.New(resp.StatusCode, errorMessage(body))
	}
	return body, nil
}

func (c *Client) observe(label string, start time.Time, status int, err error) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	switch {
	case err != nil:
		slog.Error("upstream_failed", "call", label, "status", status, "duration_ms", durationMs, "error", err)
	case status >= 500:
		slog.Error("upstream_error", "call", label, "status", status, "duration_ms", durationMs)
	case elapsed >= c.slow:
		slog.Warn("slow_upstream", "call", label, "status", status, "duration_ms", durationMs)
	default:
		slog.Debug("upstream", "call", label, "status", status, "duration_ms", durationMs)
	}

	c.collector.Record(perf.Entry{
		Kind:       perf.KindUpstream,
		Path:       label,
		StatusCode: status,
		DurationMs: durationMs,
		Timestamp:  start,
	})
}

// malformed reports a 2xx response whose body could not be decoded.
func malformed(label string, err error) error {
	return &apierror.Error{
		Kind:   apierror.KindServer,
		Status: http.StatusBadGateway,
		Err:    fmt.Errorf("decode %s: %w", label, err),
	}
}
