package review_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/domain/srs"
	"github.com/phrazzld/enlearn/internal/platform/jsonfile"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/service/review"
	"github.com/phrazzld/enlearn/internal/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const path = "/data/vocab.json"

var today = time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

// seed writes entries with the given next_review dates and returns a
// service over them plus the store for inspection.
func seed(t *testing.T, nextReviews ...string) (review.Service, *jsonfile.Store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	clock := func() time.Time { return today }
	st := jsonfile.NewStore(fs, path, jsonfile.WithClock(clock))

	entries := make([]*domain.Entry, 0, len(nextReviews))
	for i, next := range nextReviews {
		entries = append(entries, &domain.Entry{
			ID:           fmt.Sprintf("e%d", i),
			Word:         fmt.Sprintf("Word%d", i),
			Definition:   fmt.Sprintf("definition %d", i),
			CreatedAt:    "2024-01-01",
			NextReview:   domain.Date(next),
			IntervalDays: 1,
		})
	}
	require.NoError(t, st.Save(context.Background(), entries))

	_, l := logger.NewTestLogger(t)
	svc := review.NewService(store.NewCollection(st), srs.NewDefaultService(), l, review.WithClock(clock))
	return svc, st
}

func load(t *testing.T, st *jsonfile.Store, id string) *domain.Entry {
	t.Helper()
	entries, err := st.Load(context.Background())
	require.NoError(t, err)
	e, _ := domain.FindEntry(entries, id)
	require.NotNil(t, e)
	return e
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, review.ModeWordFirst, review.ParseMode(""))
	assert.Equal(t, review.ModeWordFirst, review.ParseMode("random"))
	assert.Equal(t, review.ModeDefinitionFirst, review.ParseMode("definition-first"))
}

func TestNextReturnsEarliestDue(t *testing.T) {
	t.Parallel()
	svc, _ := seed(t, "2024-03-01", "2024-02-15", "2024-03-06", "2024-02-20")

	card, err := svc.Next(context.Background(), review.ModeWordFirst, nil)

	require.NoError(t, err)
	assert.Equal(t, "e1", card.Entry.ID)
	assert.Equal(t, "Word1", card.Prompt)
	assert.Equal(t, "definition 1", card.Answer)
	assert.Equal(t, 3, card.Remaining, "the entry due tomorrow is not counted")
}

func TestNextDefinitionFirstAndSkipped(t *testing.T) {
	t.Parallel()
	svc, _ := seed(t, "2024-03-01", "2024-02-15")

	card, err := svc.Next(context.Background(), review.ModeDefinitionFirst, []string{"e1"})

	require.NoError(t, err)
	assert.Equal(t, "e0", card.Entry.ID)
	assert.Equal(t, review.ModeDefinitionFirst, card.Mode)
	assert.Equal(t, "definition 0", card.Prompt)
	assert.Equal(t, "Word0", card.Answer)
	assert.Equal(t, 1, card.Remaining)

	_, err = svc.Next(context.Background(), review.ModeWordFirst, []string{"e0", "e1"})
	assert.ErrorIs(t, err, review.ErrNoEntriesDue)
}

func TestNextNothingDue(t *testing.T) {
	t.Parallel()
	svc, _ := seed(t, "2024-03-06")

	_, err := svc.Next(context.Background(), review.ModeWordFirst, nil)

	assert.ErrorIs(t, err, review.ErrNoEntriesDue)
}

func TestDueRespectsLimit(t *testing.T) {
	t.Parallel()
	svc, _ := seed(t, "2024-03-01", "not-a-date", "2024-02-15")

	all, err := svc.Due(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "e2", all[0].ID)
	assert.Equal(t, "e1", all[2].ID, "malformed date sorts as today")

	limited, err := svc.Due(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSubmitPersistsOutcome(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		answer         review.Answer
		wantRemembered bool
		wantInterval   int
		wantNext       domain.Date
	}{
		{
			name:           "remembered",
			answer:         review.Answer{Mode: review.ModeWordFirst, Result: review.ResultRemembered},
			wantRemembered: true,
			wantInterval:   2,
			wantNext:       "2024-03-07",
		},
		{
			name:           "forgotten",
			answer:         review.Answer{Mode: review.ModeWordFirst, Result: review.ResultForgotten},
			wantRemembered: false,
			wantInterval:   1,
			wantNext:       "2024-03-06",
		},
		{
			name:           "typed answer matches case-insensitively",
			answer:         review.Answer{Mode: review.ModeDefinitionFirst, Result: review.ResultForgotten, Typed: " word0 "},
			wantRemembered: true,
			wantInterval:   2,
			wantNext:       "2024-03-07",
		},
		{
			name:           "wrong typed answer overrides result",
			answer:         review.Answer{Mode: review.ModeDefinitionFirst, Result: review.ResultRemembered, Typed: "Word9"},
			wantRemembered: false,
			wantInterval:   1,
			wantNext:       "2024-03-06",
		},
		{
			name:           "typed answer ignored in word-first mode",
			answer:         review.Answer{Mode: review.ModeWordFirst, Result: review.ResultRemembered, Typed: "nope"},
			wantRemembered: true,
			wantInterval:   2,
			wantNext:       "2024-03-07",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, st := seed(t, "2024-03-01")

			outcome, err := svc.Submit(context.Background(), "e0", tc.answer)

			require.NoError(t, err)
			assert.Equal(t, tc.wantRemembered, outcome.Remembered)
			assert.Equal(t, tc.wantInterval, outcome.Entry.IntervalDays)
			assert.Equal(t, tc.wantNext, outcome.Entry.NextReview)
			assert.Equal(t, 1, outcome.Entry.ReviewCount)

			persisted := load(t, st, "e0")
			assert.Equal(t, outcome.Entry, persisted)
		})
	}
}

func TestSubmitUnknownIDChangesNothing(t *testing.T) {
	t.Parallel()
	svc, st := seed(t, "2024-03-01")
	before := load(t, st, "e0")

	_, err := svc.Submit(context.Background(), "gone",
		review.Answer{Mode: review.ModeWordFirst, Result: review.ResultRemembered})

	assert.True(t, errors.Is(err, domain.ErrEntryNotFound))
	assert.Equal(t, before, load(t, st, "e0"))
}

func TestSubmitInvalidAnswer(t *testing.T) {
	t.Parallel()
	svc, st := seed(t, "2024-03-01")

	_, err := svc.Submit(context.Background(), "e0", review.Answer{Mode: review.ModeDefinitionFirst})

	assert.ErrorIs(t, err, review.ErrInvalidAnswer)
	assert.Equal(t, 0, load(t, st, "e0").ReviewCount)
}

func TestSkipNeverMutates(t *testing.T) {
	t.Parallel()
	svc, st := seed(t, "2024-03-01")
	before := load(t, st, "e0")

	require.NoError(t, svc.Skip(context.Background(), "e0"))

	after := load(t, st, "e0")
	assert.Equal(t, before, after)
	assert.Equal(t, 0, after.ReviewCount)

	assert.ErrorIs(t, svc.Skip(context.Background(), "gone"), domain.ErrEntryNotFound)
}

func TestSessionDoublesToCap(t *testing.T) {
	t.Parallel()
	svc, st := seed(t, "2024-03-01")

	var intervals []int
	for range 5 {
		outcome, err := svc.Submit(context.Background(), "e0",
			review.Answer{Mode: review.ModeWordFirst, Result: review.ResultRemembered})
		require.NoError(t, err)
		intervals = append(intervals, outcome.Entry.IntervalDays)
	}

	assert.Equal(t, []int{2, 4, 8, 16, 30}, intervals)
	final := load(t, st, "e0")
	assert.Equal(t, 5, final.SuccessStreak)
	assert.Equal(t, 5, final.ReviewCount)
	assert.Equal(t, domain.Date("2024-04-04"), final.NextReview)
}
