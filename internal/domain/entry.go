package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults for a brand new entry.
const (
	DefaultIntervalDays  = 1
	DefaultSuccessStreak = 0
	DefaultReviewCount   = 0
)

// Entry is a single vocabulary item and its review schedule.
type Entry struct {
	ID            string `json:"id"`
	Word          string `json:"word"`
	Definition    string `json:"definition"`
	Context       string `json:"context"`
	CreatedAt     Date   `json:"created_at"`
	NextReview    Date   `json:"next_review"`
	IntervalDays  int    `json:"interval_days"`
	SuccessStreak int    `json:"success_streak"`
	ReviewCount   int    `json:"review_count"`

	// wordNotText marks an entry loaded from a record whose word was not a
	// string. Word holds its text form; SortWord orders it as empty.
	wordNotText bool
}

// NewEntry creates an entry that is due for review on the day it is created.
// Word, definition and context are trimmed; an empty word or definition is
// rejected.
func NewEntry(word, definition, context string, now time.Time) (*Entry, error) {
	today := DateOf(now)
	entry := &Entry{
		ID:            uuid.NewString(),
		Word:          strings.TrimSpace(word),
		Definition:    strings.TrimSpace(definition),
		Context:       strings.TrimSpace(context),
		CreatedAt:     today,
		NextReview:    today,
		IntervalDays:  DefaultIntervalDays,
		SuccessStreak: DefaultSuccessStreak,
		ReviewCount:   DefaultReviewCount,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks the fields a user supplies when creating an entry.
// Schedule fields are not checked here: persisted entries with odd values are
// still valid input for the scheduler.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Word) == "" {
		return NewValidationError("word", "cannot be empty", ErrEmptyWord)
	}
	if strings.TrimSpace(e.Definition) == "" {
		return NewValidationError("definition", "cannot be empty", ErrEmptyDefinition)
	}
	return nil
}

// SortWord is the word used as the final display tie-break. A persisted word
// that was not a string sorts as the empty string.
func (e *Entry) SortWord() string {
	if e.wordNotText {
		return ""
	}
	return e.Word
}

// Clone returns a copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// FindEntry returns the entry with the given id and its index, or -1.
func FindEntry(entries []*Entry, id string) (*Entry, int) {
	if id == "" {
		return nil, -1
	}
	for i, entry := range entries {
		if entry.ID == id {
			return entry, i
		}
	}
	return nil, -1
}
