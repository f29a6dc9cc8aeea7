// Package vocabulary manages the collection of vocabulary entries: listing,
// adding, deleting, importing and exporting.
package vocabulary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/domain/srs"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/service"
	"github.com/phrazzld/enlearn/internal/store"
)

// AddInput holds the user supplied fields of a new entry.
type AddInput struct {
	Word       string
	Definition string
	Context    string
}

// Listing is the display view of the collection.
type Listing struct {
	// Entries in display order, truncated to the requested limit.
	Entries []*domain.Entry
	// Total is the size of the whole collection.
	Total int
	// Due is the number of entries due today.
	Due int
	// Location is where the collection is stored.
	Location string
}

// Service provides operations on the vocabulary collection.
type Service interface {
	// List returns entries in display order. A non-positive limit returns all entries.
	List(ctx context.Context, limit int) (*Listing, error)

	// Add creates and persists a new entry.
	//
	// Returns:
	//   - (*domain.Entry, nil): The stored entry
	//   - (nil, error matching domain.ErrValidation): If word or definition is empty
	//   - (nil, error): Any storage failure
	Add(ctx context.Context, input AddInput) (*domain.Entry, error)

	// Delete removes the entry with id, or returns domain.ErrEntryNotFound.
	Delete(ctx context.Context, id string) error

	// Import appends a batch of new entries with a single save and returns
	// the number added.
	Import(ctx context.Context, entries []*domain.Entry) (int, error)

	// Export writes the whole collection in the canonical JSON format and
	// returns the number of entries written.
	Export(ctx context.Context, w io.Writer) (int, error)

	// DueCount returns the number of entries due today.
	DueCount(ctx context.Context) (int, error)
}

// expected errors are returned to callers unwrapped.
var expected = []error{
	domain.ErrValidation,
	domain.ErrEntryNotFound,
	store.ErrCorruptedStorage,
	context.Canceled,
	context.DeadlineExceeded,
}

// Option configures the service.
type Option func(*serviceImpl)

// WithClock overrides the clock used for creation and due dates.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	collection *store.Collection
	scheduler  srs.Service
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a vocabulary Service.
func NewService(
	collection *store.Collection,
	scheduler srs.Service,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if collection == nil {
		panic("collection cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		collection: collection,
		scheduler:  scheduler,
		logger:     logger.With(slog.String("component", "vocabulary_service")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List implements Service.List.
func (s *serviceImpl) List(ctx context.Context, limit int) (*Listing, error) {
	var listing *Listing
	err := s.collection.View(ctx, func(entries []*domain.Entry) error {
		sorted := s.scheduler.SortEntries(entries)
		if limit > 0 && len(sorted) > limit {
			sorted = sorted[:limit]
		}
		listing = &Listing{
			Entries:  sorted,
			Total:    len(entries),
			Due:      len(s.scheduler.DueEntries(entries, s.now())),
			Location: s.collection.Location(),
		}
		return nil
	})
	if err != nil {
		return nil, service.Wrap("list_entries", "failed to load entries", err, expected...)
	}
	return listing, nil
}

// Add implements Service.Add.
func (s *serviceImpl) Add(ctx context.Context, input AddInput) (*domain.Entry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := domain.NewEntry(input.Word, input.Definition, input.Context, s.now())
	if err != nil {
		log.Debug("rejected new entry", slog.String("error", err.Error()))
		return nil, err
	}

	err = s.collection.Update(ctx, func(entries []*domain.Entry) ([]*domain.Entry, error) {
		return append(entries, entry), nil
	})
	if err != nil {
		return nil, service.Wrap("add_entry", "failed to save entry", err, expected...)
	}

	log.Info("entry added",
		slog.String("entry_id", entry.ID),
		slog.String("word", entry.Word),
		slog.String("next_review", entry.NextReview.String()))
	return entry.Clone(), nil
}

// Delete implements Service.Delete.
func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.collection.Update(ctx, func(entries []*domain.Entry) ([]*domain.Entry, error) {
		_, idx := domain.FindEntry(entries, id)
		if idx < 0 {
			return nil, domain.ErrEntryNotFound
		}
		return slices.Delete(entries, idx, idx+1), nil
	})
	if err != nil {
		return service.Wrap("delete_entry", "failed to delete entry", err, expected...)
	}

	log.Info("entry deleted", slog.String("entry_id", id))
	return nil
}

// Import implements Service.Import.
func (s *serviceImpl) Import(ctx context.Context, batch []*domain.Entry) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	for _, e := range batch {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("entry %q: %w", e.Word, err)
		}
	}

	err := s.collection.Update(ctx, func(entries []*domain.Entry) ([]*domain.Entry, error) {
		for _, e := range batch {
			entries = append(entries, e.Clone())
		}
		return entries, nil
	})
	if err != nil {
		return 0, service.Wrap("import_entries", "failed to save imported entries", err, expected...)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("entries imported", slog.Int("count", len(batch)))
	return len(batch), nil
}

// Export implements Service.Export.
func (s *serviceImpl) Export(ctx context.Context, w io.Writer) (int, error) {
	var count int
	err := s.collection.View(ctx, func(entries []*domain.Entry) error {
		data, err := store.EncodeCollection(entries)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		count = len(entries)
		return nil
	})
	if err != nil {
		return 0, service.Wrap("export_entries", "failed to export entries", err, expected...)
	}
	return count, nil
}

// DueCount implements Service.DueCount.
func (s *serviceImpl) DueCount(ctx context.Context) (int, error) {
	var due int
	err := s.collection.View(ctx, func(entries []*domain.Entry) error {
		due = len(s.scheduler.DueEntries(entries, s.now()))
		return nil
	})
	if err != nil {
		return 0, service.Wrap("due_count", "failed to load entries", err, expected...)
	}
	return due, nil
}
