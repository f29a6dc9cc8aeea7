// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method. When the field is
// set it is called; otherwise the mock returns its default response values.
// Calls are recorded so tests can verify what the code under test asked for.
//
// Usage:
//
//	import "github.com/phrazzld/enlearn/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    reviews := &mocks.MockReviewService{
//	        NextFn: func(ctx context.Context, mode review.Mode, skipped []string) (*review.Card, error) {
//	            return nil, review.ErrNoEntriesDue
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks
