package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/enlearn/internal/translate"
)

// MockTranslator implements translate.Translator for testing
type MockTranslator struct {
	LookupFn func(ctx context.Context, word string) ([]string, error)

	// Default response values
	Candidates []string
	Err        error

	mu    sync.Mutex
	Words []string
}

var _ translate.Translator = (*MockTranslator)(nil)

// Lookup implements translate.Translator
func (m *MockTranslator) Lookup(ctx context.Context, word string) ([]string, error) {
	m.mu.Lock()
	m.Words = append(m.Words, word)
	m.mu.Unlock()

	if m.LookupFn != nil {
		return m.LookupFn(ctx, word)
	}
	return m.Candidates, m.Err
}

// Calls returns the number of lookups made.
func (m *MockTranslator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Words)
}
