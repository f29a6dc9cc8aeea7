package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/service/vocabulary"
)

// MockVocabularyService implements vocabulary.Service for testing
type MockVocabularyService struct {
	ListFn     func(ctx context.Context, limit int) (*vocabulary.Listing, error)
	AddFn      func(ctx context.Context, input vocabulary.AddInput) (*domain.Entry, error)
	DeleteFn   func(ctx context.Context, id string) error
	ImportFn   func(ctx context.Context, entries []*domain.Entry) (int, error)
	ExportFn   func(ctx context.Context, w io.Writer) (int, error)
	DueCountFn func(ctx context.Context) (int, error)

	// Default response values
	Listing *vocabulary.Listing
	Entry   *domain.Entry
	Count   int
	Err     error

	mu         sync.Mutex
	ListLimits []int
	Added      []vocabulary.AddInput
	DeletedIDs []string
	Imported   [][]*domain.Entry
}

var _ vocabulary.Service = (*MockVocabularyService)(nil)

// List implements vocabulary.Service
func (m *MockVocabularyService) List(ctx context.Context, limit int) (*vocabulary.Listing, error) {
	m.mu.Lock()
	m.ListLimits = append(m.ListLimits, limit)
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, limit)
	}
	return m.Listing, m.Err
}

// Add implements vocabulary.Service
func (m *MockVocabularyService) Add(ctx context.Context, input vocabulary.AddInput) (*domain.Entry, error) {
	m.mu.Lock()
	m.Added = append(m.Added, input)
	m.mu.Unlock()

	if m.AddFn != nil {
		return m.AddFn(ctx, input)
	}
	return m.Entry, m.Err
}

// Delete implements vocabulary.Service
func (m *MockVocabularyService) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeletedIDs = append(m.DeletedIDs, id)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

// Import implements vocabulary.Service
func (m *MockVocabularyService) Import(ctx context.Context, entries []*domain.Entry) (int, error) {
	m.mu.Lock()
	m.Imported = append(m.Imported, entries)
	m.mu.Unlock()

	if m.ImportFn != nil {
		return m.ImportFn(ctx, entries)
	}
	if m.Err != nil {
		return 0, m.Err
	}
	return len(entries), nil
}

// Export implements vocabulary.Service
func (m *MockVocabularyService) Export(ctx context.Context, w io.Writer) (int, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx, w)
	}
	return m.Count, m.Err
}

// DueCount implements vocabulary.Service
func (m *MockVocabularyService) DueCount(ctx context.Context) (int, error) {
	if m.DueCountFn != nil {
		return m.DueCountFn(ctx)
	}
	return m.Count, m.Err
}
