// Package review runs spaced-repetition review sessions over the vocabulary
// collection.
package review

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/domain/srs"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/service"
	"github.com/phrazzld/enlearn/internal/store"
)

// Mode selects which side of an entry is shown first.
type Mode string

// Review modes.
const (
	// ModeWordFirst shows the word and asks for the definition.
	ModeWordFirst Mode = "word-first"
	// ModeDefinitionFirst shows the definition and asks for the word.
	ModeDefinitionFirst Mode = "definition-first"
)

// ParseMode returns the mode named by s, defaulting to ModeWordFirst.
func ParseMode(s string) Mode {
	if Mode(strings.TrimSpace(s)) == ModeDefinitionFirst {
		return ModeDefinitionFirst
	}
	return ModeWordFirst
}

// Result is the self-reported outcome of a review.
type Result string

// Review results.
const (
	ResultRemembered Result = "remembered"
	ResultForgotten  Result = "forgotten"
)

// Answer is what the user submitted for an entry.
type Answer struct {
	Mode   Mode
	Result Result
	// Typed is the word typed in definition-first mode. When non-empty it
	// decides the outcome instead of Result.
	Typed string
}

// Card is the next entry to review, presented for a mode.
type Card struct {
	Entry  *domain.Entry
	Mode   Mode
	Prompt string
	Answer string
	// Remaining counts the due entries not skipped, this one included.
	Remaining int
}

// Outcome is the result of a submitted answer.
type Outcome struct {
	Entry      *domain.Entry
	Remembered bool
}

// Common error types for the review Service.
var (
	// ErrNoEntriesDue indicates that nothing is due for review.
	ErrNoEntriesDue = errors.New("no entries due for review")

	// ErrInvalidAnswer indicates an answer that neither names a known
	// result nor carries a typed word.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// expected errors are returned to callers unwrapped.
var expected = []error{
	ErrNoEntriesDue,
	ErrInvalidAnswer,
	domain.ErrEntryNotFound,
	store.ErrCorruptedStorage,
	context.Canceled,
	context.DeadlineExceeded,
}

// Service provides review session operations.
type Service interface {
	// Next returns the earliest-due entry whose id is not in skipped.
	//
	// Returns:
	//   - (*Card, nil): The entry to review
	//   - (nil, ErrNoEntriesDue): If no unskipped entry is due today
	//   - (nil, error): Any storage failure
	Next(ctx context.Context, mode Mode, skipped []string) (*Card, error)

	// Due returns up to limit due entries, earliest first. A non-positive
	// limit returns all of them.
	Due(ctx context.Context, limit int) ([]*domain.Entry, error)

	// Submit applies a review outcome to the entry with id and persists it.
	// An unknown id returns domain.ErrEntryNotFound and changes nothing.
	Submit(ctx context.Context, id string, answer Answer) (*Outcome, error)

	// Skip records that the entry was passed over. It never changes the
	// entry's schedule or review count.
	Skip(ctx context.Context, id string) error
}

// Option configures the service.
type Option func(*serviceImpl)

// WithClock overrides the clock that defines "today".
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

// NewService creates a review Service.
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
		logger:     logger.With(slog.String("component", "review_service")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next implements Service.Next.
func (s *serviceImpl) Next(ctx context.Context, mode Mode, skipped []string) (*Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card *Card
	err := s.collection.View(ctx, func(entries []*domain.Entry) error {
		var remaining []*domain.Entry
		for _, e := range s.scheduler.DueEntries(entries, s.now()) {
			if !slices.Contains(skipped, e.ID) {
				remaining = append(remaining, e)
			}
		}
		if len(remaining) == 0 {
			return ErrNoEntriesDue
		}
		card = newCard(remaining[0], mode, len(remaining))
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoEntriesDue) {
			log.Debug("no entries due for review", slog.Int("skipped", len(skipped)))
		}
		return nil, service.Wrap("next_entry", "failed to load entries", err, expected...)
	}

	log.Debug("next review entry selected",
		slog.String("entry_id", card.Entry.ID),
		slog.String("mode", string(card.Mode)),
		slog.Int("remaining", card.Remaining))
	return card, nil
}

func newCard(e *domain.Entry, mode Mode, remaining int) *Card {
	mode = ParseMode(string(mode))
	card := &Card{Entry: e, Mode: mode, Remaining: remaining}
	if mode == ModeDefinitionFirst {
		card.Prompt, card.Answer = e.Definition, e.Word
	} else {
		card.Prompt, card.Answer = e.Word, e.Definition
	}
	return card
}

// Due implements Service.Due.
func (s *serviceImpl) Due(ctx context.Context, limit int) ([]*domain.Entry, error) {
	var due []*domain.Entry
	err := s.collection.View(ctx, func(entries []*domain.Entry) error {
		due = s.scheduler.DueEntries(entries, s.now())
		return nil
	})
	if err != nil {
		return nil, service.Wrap("due_entries", "failed to load entries", err, expected...)
	}
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// remembered decides the outcome of answer for entry.
func remembered(entry *domain.Entry, answer Answer) (bool, error) {
	typed := strings.TrimSpace(answer.Typed)
	if ParseMode(string(answer.Mode)) == ModeDefinitionFirst && typed != "" {
		return strings.EqualFold(typed, strings.TrimSpace(entry.Word)), nil
	}
	switch answer.Result {
	case ResultRemembered:
		return true, nil
	case ResultForgotten:
		return false, nil
	default:
		return false, ErrInvalidAnswer
	}
}

// Submit implements Service.Submit.
func (s *serviceImpl) Submit(ctx context.Context, id string, answer Answer) (*Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var outcome *Outcome
	err := s.collection.Update(ctx, func(entries []*domain.Entry) ([]*domain.Entry, error) {
		entry, _ := domain.FindEntry(entries, id)
		if entry == nil {
			log.Warn("entry not found for review", slog.String("entry_id", id))
			return nil, domain.ErrEntryNotFound
		}

		ok, err := remembered(entry, answer)
		if err != nil {
			log.Warn("invalid review answer",
				slog.String("entry_id", id),
				slog.String("result", string(answer.Result)))
			return nil, err
		}

		s.scheduler.UpdateReviewState(entry, ok, s.now())
		outcome = &Outcome{Entry: entry.Clone(), Remembered: ok}
		return entries, nil
	})
	if err != nil {
		return nil, service.Wrap("submit_result", "failed to record review", err, expected...)
	}

	log.Info("review recorded",
		slog.String("entry_id", id),
		slog.Bool("remembered", outcome.Remembered),
		slog.Int("interval_days", outcome.Entry.IntervalDays),
		slog.String("next_review", outcome.Entry.NextReview.String()),
		slog.Int("review_count", outcome.Entry.ReviewCount))
	return outcome, nil
}

// Skip implements Service.Skip.
func (s *serviceImpl) Skip(ctx context.Context, id string) error {
	err := s.collection.View(ctx, func(entries []*domain.Entry) error {
		if entry, _ := domain.FindEntry(entries, id); entry == nil {
			return domain.ErrEntryNotFound
		}
		return nil
	})
	if err != nil {
		return service.Wrap("skip_entry", "failed to load entries", err, expected...)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("review skipped", slog.String("entry_id", id))
	return nil
}
