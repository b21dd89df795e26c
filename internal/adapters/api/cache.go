package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"eventra/internal/domain/event"
	"eventra/internal/domain/guestlist"
	"eventra/internal/domain/reservation"
)

// DefaultCacheTTL applies when NewCachedGateway is given a non-positive TTL.
const DefaultCacheTTL = 30 * time.Second

// Cache stores serialized gateway responses.
type Cache interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisCache implements Cache with redis.
type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisCache creates a cache whose keys all start with prefix.
func NewRedisCache(rdb redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

// Get reads a key; redis.Nil is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set writes a key with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes keys.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

// CachedGateway is a read-through cache in front of a Gateway. Event detail
// and list pages are cached for ttl; a successful reservation or guest-list
// join evicts that event. Cache failures are logged and never fail a call.
type CachedGateway struct {
	next  Gateway
	cache Cache
	ttl   time.Duration
}

var _ Gateway = (*CachedGateway)(nil)

// NewCachedGateway wraps next with cache.
// PRE: next and cache are non-nil
func NewCachedGateway(next Gateway, cache Cache, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedGateway{next: next, cache: cache, ttl: ttl}
}

// GetEvent serves from cache, falling back to the gateway.
func (g *CachedGateway) GetEvent(ctx context.Context, id string) (event.Event, error) {
	key := eventKey(id)
	var e event.Event
	if g.load(ctx, key, &e) {
		return e, nil
	}
	e, err := g.next.GetEvent(ctx, id)
	if err != nil {
		return event.Event{}, err
	}
	g.store(ctx, key, e)
	return e, nil
}

// ListEvents serves from cache, falling back to the gateway.
func (g *CachedGateway) ListEvents(ctx context.Context, q ListQuery) (EventPage, error) {
	key := listKey(q)
	var page EventPage
	if g.load(ctx, key, &page) {
		return page, nil
	}
	page, err := g.next.ListEvents(ctx, q)
	if err != nil {
		return EventPage{}, err
	}
	g.store(ctx, key, page)
	return page, nil
}

// CreateReservation delegates and evicts the event on success.
func (g *CachedGateway) CreateReservation(ctx context.Context, req reservation.Request) (reservation.Record, error) {
	rec, err := g.next.CreateReservation(ctx, req)
	if err == nil {
		g.Invalidate(ctx, req.EventID)
	}
	return rec, err
}

// JoinGuestList delegates and evicts the event on success.
func (g *CachedGateway) JoinGuestList(ctx context.Context, p guestlist.Payload) error {
	err := g.next.JoinGuestList(ctx, p)
	if err == nil {
		g.Invalidate(ctx, p.EventID)
	}
	return err
}

// Invalidate evicts the cached detail of one event.
func (g *CachedGateway) Invalidate(ctx context.Context, eventID string) {
	if err := g.cache.Delete(ctx, eventKey(eventID)); err != nil {
		slog.Warn("cache_invalidate_failed", "event_id", eventID, "error", err)
	}
}

func (g *CachedGateway) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache_get_failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("cache_decode_failed", "key", key, "error", err)
		return false
	}
	slog.Debug("cache_hit", "key", key)
	return true
}

func (g *CachedGateway) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache_encode_failed", "key", key, "error", err)
		return
	}
	if err := g.cache.Set(ctx, key, raw, g.ttl); err != nil {
		slog.Warn("cache_set_failed", "key", key, "error", err)
	}
}

func eventKey(id string) string {
	return "event:" + id
}

func listKey(q ListQuery) string {
	return fmt.Sprintf("events:p%d:l%d:c=%s:s=%s", q.Page, q.Limit, q.Category, q.Status)
}
