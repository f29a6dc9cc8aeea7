package store

import (
	"context"

	"github.com/phrazzld/enlearn/internal/domain"
)

// EntryStore loads and saves the whole vocabulary collection.
type EntryStore interface {
	// Load returns every entry, repairing records with missing fields and
	// persisting that repair before returning. A missing collection is
	// empty, not an error. Unparseable data yields an error matching
	// ErrCorruptedStorage.
	Load(ctx context.Context) ([]*domain.Entry, error)

	// Save replaces the persisted collection with entries. It is atomic:
	// on failure the previous collection is left untouched.
	Save(ctx context.Context, entries []*domain.Entry) error

	// Location describes where the collection lives, for display.
	Location() string
}
