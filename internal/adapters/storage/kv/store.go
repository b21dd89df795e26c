package kv

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned for operations on a blank key.
var ErrEmptyKey = errors.New("key is required")

// Store is a string key-value store. It backs visitor favorites.
type Store interface {
	// Get returns the value stored under key.
	// PRE: key is non-empty
	// POST: found is false and err is nil when the key is absent
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	// PRE: key is non-empty
	// POST: a later Get returns value
	Set(ctx context.Context, key, value string) error
}
