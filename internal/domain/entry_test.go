package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 5, 22, 30, 0, 0, time.UTC)

	entry, err := NewEntry("  serendipity ", " happy accident ", " found it by serendipity ", now)
	require.NoError(t, err)

	_, err = uuid.Parse(entry.ID)
	assert.NoError(t, err, "id should be a UUID")
	assert.Equal(t, "serendipity", entry.Word)
	assert.Equal(t, "happy accident", entry.Definition)
	assert.Equal(t, "found it by serendipity", entry.Context)
	assert.Equal(t, Date("2024-03-05"), entry.CreatedAt)
	assert.Equal(t, entry.CreatedAt, entry.NextReview, "new entries are due immediately")
	assert.Equal(t, 1, entry.IntervalDays)
	assert.Equal(t, 0, entry.SuccessStreak)
	assert.Equal(t, 0, entry.ReviewCount)
}

func TestNewEntryValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		word       string
		definition string
		wantErr    error
	}{
		{name: "empty word", word: "", definition: "meaning", wantErr: ErrEmptyWord},
		{name: "blank word", word: "   ", definition: "meaning", wantErr: ErrEmptyWord},
		{name: "empty definition", word: "word", definition: "", wantErr: ErrEmptyDefinition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			entry, err := NewEntry(tc.word, tc.definition, "", time.Now())
			assert.Nil(t, entry)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation)

			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestFindEntry(t *testing.T) {
	t.Parallel()
	entries := []*Entry{{ID: "a"}, {ID: "b"}}

	found, idx := FindEntry(entries, "b")
	assert.Same(t, entries[1], found)
	assert.Equal(t, 1, idx)

	found, idx = FindEntry(entries, "missing")
	assert.Nil(t, found)
	assert.Equal(t, -1, idx)
}

func TestDate(t *testing.T) {
	t.Parallel()

	parsed, ok := Date("2024-02-29").Time()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), parsed)

	for _, raw := range []Date{"", "tomorrow", "2024-13-01", "2024-02-30T00:00:00Z"} {
		_, ok := raw.Time()
		assert.False(t, ok, "%q should not parse", raw)
	}

	assert.Equal(t, Date("2024-03-01"), AddDays(time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC), 2))
	// 01:00 at UTC+3 is still the previous day in UTC.
	assert.Equal(t, Date("2024-03-04"), DateOf(time.Date(2024, 3, 5, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))))
}
