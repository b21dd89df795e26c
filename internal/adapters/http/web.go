package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eventra/internal/adapters/api"
	"eventra/internal/adapters/http/middleware"
	"eventra/internal/adapters/http/perf"
	"eventra/internal/adapters/storage/kv"
	outboxStore "eventra/internal/adapters/storage/outbox"
	"eventra/internal/application/orchestrators"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the handlers need.
type Deps struct {
	Gateway      api.Gateway
	Favorites    kv.Store
	Outbox       outboxStore.Store
	Processor    *orchestrators.OutboxProcessor
	DB           Pinger
	Collector    *perf.Collector
	AdminContact string
	Production   bool
}

// Options tunes the middleware stack.
type Options struct {
	CSRFKey        []byte
	TrustedOrigins []string
	RateLimit      int // requests per minute per client IP; <= 0 disables limiting
	SlowRequest    time.Duration
}

// Global dependencies (set by NewMux)
var app *Deps

// timeNow is a variable for testability.
var timeNow = time.Now

// ErrCSRFKeyLength is returned for a key that is not 32 hex-encoded bytes.
var ErrCSRFKeyLength = errors.New("csrf key must be 64 hex characters (32 bytes)")

// ParseCSRFKey decodes the hex CSRF secret. Outside production an empty key
// is replaced by a random one, so forms do not survive a restart.
// PRE: production keys were already required by config.Load
// POST: Returns a 32-byte key or an error
func ParseCSRFKey(keyHex string) ([]byte, error) {
	if keyHex == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		slog.Warn("csrf_key_random", "hint", "set EVENTRA_CSRF_KEY so form tokens survive restarts")
		return key, nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, ErrCSRFKeyLength
	}
	return key, nil
}

// NewMux wires HTTP handlers for the app. Background sweeps stop with ctx.
// PRE: d.Gateway and d.Favorites are non-nil; opts.CSRFKey is 32 bytes
func NewMux(ctx context.Context, d *Deps, opts Options) http.Handler {
	app = d
	mux := newRouter(d.Production)

	stack := []func(http.Handler) http.Handler{
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, d.Production, opts.TrustedOrigins),
		middleware.Visitor(d.Production),
	}
	if opts.RateLimit > 0 {
		stack = append(stack, middleware.RateLimit(middleware.NewRateLimiter(ctx, opts.RateLimit, time.Minute)))
	}
	stack = append(stack, middleware.Timing(d.Collector, opts.SlowRequest))

	// Timing -> RateLimit -> Visitor -> CSRF -> SecurityHeaders -> mux
	return middleware.Chain(mux, stack...)
}

func newRouter(production bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS())))

	mux.HandleFunc("GET /{$}", handleEventList)
	mux.HandleFunc("GET /events/{id}", handleEventDetail)
	mux.HandleFunc("POST /events/{id}/reservations", handleReservation)
	mux.HandleFunc("POST /events/{id}/guestlist", handleGuestList)
	mux.HandleFunc("POST /events/{id}/favorite", handleToggleFavorite)
	mux.HandleFunc("GET /favorites", handleFavorites)
	mux.HandleFunc("POST /share", handleShare)
	mux.HandleFunc("GET /healthz", handleHealth)

	if !production {
		mux.HandleFunc("GET /debug/perf", handlePerf)
		mux.HandleFunc("GET /debug/outbox", handleOutboxList)
		mux.HandleFunc("POST /debug/outbox/{id}/retry", handleOutboxRetry)
	}
	return mux
}
