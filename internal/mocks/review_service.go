package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/service/review"
)

// SubmitCall records one call to MockReviewService.Submit.
type SubmitCall struct {
	ID     string
	Answer review.Answer
}

// NextCall records one call to MockReviewService.Next.
type NextCall struct {
	Mode    review.Mode
	Skipped []string
}

// MockReviewService implements review.Service for testing
type MockReviewService struct {
	NextFn   func(ctx context.Context, mode review.Mode, skipped []string) (*review.Card, error)
	DueFn    func(ctx context.Context, limit int) ([]*domain.Entry, error)
	SubmitFn func(ctx context.Context, id string, answer review.Answer) (*review.Outcome, error)
	SkipFn   func(ctx context.Context, id string) error

	// Default response values
	Card       *review.Card
	DueEntries []*domain.Entry
	Outcome    *review.Outcome
	Err        error

	mu          sync.Mutex
	NextCalls   []NextCall
	SubmitCalls []SubmitCall
	SkippedIDs  []string
}

var _ review.Service = (*MockReviewService)(nil)

// Next implements review.Service
func (m *MockReviewService) Next(ctx context.Context, mode review.Mode, skipped []string) (*review.Card, error) {
	m.mu.Lock()
	m.NextCalls = append(m.NextCalls, NextCall{Mode: mode, Skipped: skipped})
	m.mu.Unlock()

	if m.NextFn != nil {
		return m.NextFn(ctx, mode, skipped)
	}
	return m.Card, m.Err
}

// Due implements review.Service
func (m *MockReviewService) Due(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if m.DueFn != nil {
		return m.DueFn(ctx, limit)
	}
	return m.DueEntries, m.Err
}

// Submit implements review.Service
func (m *MockReviewService) Submit(ctx context.Context, id string, answer review.Answer) (*review.Outcome, error) {
	m.mu.Lock()
	m.SubmitCalls = append(m.SubmitCalls, SubmitCall{ID: id, Answer: answer})
	m.mu.Unlock()

	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, id, answer)
	}
	return m.Outcome, m.Err
}

// Skip implements review.Service
func (m *MockReviewService) Skip(ctx context.Context, id string) error {
	m.mu.Lock()
	m.SkippedIDs = append(m.SkippedIDs, id)
	m.mu.Unlock()

	if m.SkipFn != nil {
		return m.SkipFn(ctx, id)
	}
	return m.Err
}
