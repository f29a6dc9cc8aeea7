package srs

import (
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
)

// Service defines the interface for scheduling operations.
// None of the operations perform I/O.
type Service interface {
	// DueEntries returns the entries due on or before asOf, earliest first.
	DueEntries(entries []*domain.Entry, asOf time.Time) []*domain.Entry

	// SortEntries returns the full collection in display order without
	// mutating the input.
	SortEntries(entries []*domain.Entry) []*domain.Entry

	// UpdateReviewState applies a review outcome to entry in place.
	// Callers are expected to pass entries that have been through the
	// normalizer; a nil entry is ignored.
	UpdateReviewState(entry *domain.Entry, remembered bool, today time.Time)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// DueEntries implements Service.
func (s *defaultService) DueEntries(entries []*domain.Entry, asOf time.Time) []*domain.Entry {
	return selectDue(entries, asOf)
}

// SortEntries implements Service.
func (s *defaultService) SortEntries(entries []*domain.Entry) []*domain.Entry {
	return sortForDisplay(entries)
}

// UpdateReviewState implements Service.
func (s *defaultService) UpdateReviewState(entry *domain.Entry, remembered bool, today time.Time) {
	if entry == nil {
		return
	}
	applyOutcome(entry, remembered, today, s.params)
}
