package outbox

import (
	"context"

	domain "eventra/internal/domain/outbox"
)

// Store persists follow-up actions for the outbox worker.
type Store interface {
	// GetByID retrieves an entry.
	// PRE: id is non-empty
	// POST: Returns the entry or sql.ErrNoRows
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save inserts or updates an entry.
	// PRE: e has been validated
	// POST: Entry is persisted
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns entries still to be delivered, oldest first.
	// PRE: limit > 0
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListFailed returns permanently failed entries, most recent attempt first.
	// PRE: limit > 0
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
}
