package favorite

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// KeyPrefix namespaces a visitor's favorites in the key-value store.
const KeyPrefix = "favorites"

// ErrEmptyEventID is returned when toggling without an event.
var ErrEmptyEventID = errors.New("event id is required")

// Set is an ordered set of favorited event IDs.
type Set []string

// Key returns the storage key for a visitor's favorites.
// PRE: visitorKey is an opaque, non-empty visitor identifier
func Key(visitorKey string) string {
	if visitorKey == "" {
		return KeyPrefix
	}
	return KeyPrefix + ":" + visitorKey
}

// VisitorKey derives the opaque storage identifier for a visitor cookie value,
// so raw cookie values never appear in the key-value store.
// POST: result is 64 hex characters, or "" for an empty id
func VisitorKey(visitorID string) string {
	if visitorID == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(visitorID))
	return hex.EncodeToString(sum[:])
}

// Contains reports membership.
func (s Set) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle returns a new set with id added at the end, or removed if present.
// POST: receiver is not modified; order of other IDs is preserved
func (s Set) Toggle(id string) Set {
	out := make(Set, 0, len(s)+1)
	removed := false
	for _, v := range s {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if !removed {
		out = append(out, id)
	}
	return out
}

// Decode parses the stored JSON array. Blank input is an empty set.
func Decode(raw string) (Set, error) {
	if raw == "" {
		return Set{}, nil
	}
	var s Set
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	if s == nil {
		s = Set{}
	}
	return s, nil
}

// Encode renders the set as a JSON array.
func (s Set) Encode() string {
	if s == nil {
		return "[]"
	}
	b, _ := json.Marshal([]string(s))
	return string(b)
}
