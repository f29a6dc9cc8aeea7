package mocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockReviewServiceDue(t *testing.T) {
	t.Parallel()

	t.Run("returns default entries", func(t *testing.T) {
		t.Parallel()
		entries := []*domain.Entry{{ID: "e1", Word: "apple"}}
		m := &mocks.MockReviewService{DueEntries: entries}

		got, err := m.Due(context.Background(), 10)

		require.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("function field takes precedence", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		var gotLimit int
		m := &mocks.MockReviewService{
			DueEntries: []*domain.Entry{{ID: "ignored"}},
			DueFn: func(_ context.Context, limit int) ([]*domain.Entry, error) {
				gotLimit = limit
				return nil, boom
			},
		}

		got, err := m.Due(context.Background(), 3)

		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
		assert.Equal(t, 3, gotLimit)
	})
}
