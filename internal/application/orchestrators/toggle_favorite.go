package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"eventra/internal/domain/favorite"
)

// ErrNoVisitor is returned when a favorite is toggled without a visitor identity.
var ErrNoVisitor = errors.New("visitor identity is required")

// ToggleFavoriteInput carries input for ToggleFavorite.
type ToggleFavoriteInput struct {
	VisitorKey string
	EventID    string
}

// ToggleFavoriteResult carries the new membership.
type ToggleFavoriteResult struct {
	IsFavorite bool
	Favorites  favorite.Set
}

// ToggleFavoriteDeps holds dependencies for ToggleFavorite.
type ToggleFavoriteDeps struct {
	Store FavoriteStore
}

// ExecuteToggleFavorite adds or removes one event from the visitor's favorites.
// PRE: VisitorKey and EventID are non-empty
// POST: the stored set is rewritten whole; last write wins
func ExecuteToggleFavorite(ctx context.Context, input ToggleFavoriteInput, deps ToggleFavoriteDeps) (ToggleFavoriteResult, error) {
	if input.VisitorKey == "" {
		return ToggleFavoriteResult{}, ErrNoVisitor
	}
	if input.EventID == "" {
		return ToggleFavoriteResult{}, favorite.ErrEmptyEventID
	}
	key := favorite.Key(input.VisitorKey)

	raw, _, err := deps.Store.Get(ctx, key)
	if err != nil {
		return ToggleFavoriteResult{}, fmt.Errorf("read favorites: %w", err)
	}
	current, err := favorite.Decode(raw)
	if err != nil {
		// A corrupt value is replaced rather than locking the visitor out.
		slog.Warn("favorites_reset", "error", err)
		current = favorite.Set{}
	}

	next := current.Toggle(input.EventID)
	if err := deps.Store.Set(ctx, key, next.Encode()); err != nil {
		return ToggleFavoriteResult{}, fmt.Errorf("write favorites: %w", err)
	}
	isFav := next.Contains(input.EventID)
	slog.Info("favorite_toggled", "event_id", input.EventID, "is_favorite", isFav)
	return ToggleFavoriteResult{IsFavorite: isFav, Favorites: next}, nil
}
