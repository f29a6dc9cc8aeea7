package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/platform/logger"
)

// UpdateFn mutates a freshly loaded collection and returns the collection to
// persist. Returning an error aborts the update without saving.
type UpdateFn func(entries []*domain.Entry) ([]*domain.Entry, error)

// Collection serializes load-mutate-save cycles against an EntryStore so that
// at most one writer in this process touches the collection at a time.
// Writers in other processes are not coordinated: the last save wins.
type Collection struct {
	store EntryStore
	mu    sync.Mutex
}

// NewCollection wraps store.
func NewCollection(store EntryStore) *Collection {
	if store == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("store cannot be nil")
	}
	return &Collection{store: store}
}

// Location returns the location of the underlying store.
func (c *Collection) Location() string {
	return c.store.Location()
}

// View loads the collection and passes it to fn. Loading may write back a
// repair, so View holds the writer lock too.
func (c *Collection) View(ctx context.Context, fn func(entries []*domain.Entry) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(entries)
}

// Update loads the collection, applies fn and saves the result.
func (c *Collection) Update(ctx context.Context, fn UpdateFn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := logger.FromContext(ctx)

	entries, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(entries)
	if err != nil {
		log.Debug("collection update aborted", slog.String("error", err.Error()))
		return err
	}

	if err := c.store.Save(ctx, updated); err != nil {
		log.Error("failed to save collection",
			slog.String("location", c.store.Location()),
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("collection saved",
		slog.String("location", c.store.Location()),
		slog.Int("entry_count", len(updated)))
	return nil
}

// Hydrate repairs records in place and converts them to entries. The boolean
// reports whether any record was repaired and must be written back.
func Hydrate(records []domain.Record, now func() time.Time) ([]*domain.Entry, bool) {
	changed := domain.NormalizeRecords(records, now())
	return domain.EntriesFromRecords(records), changed
}
