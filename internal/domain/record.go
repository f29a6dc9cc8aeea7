package domain

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Persisted field names.
const (
	FieldID            = "id"
	FieldWord          = "word"
	FieldDefinition    = "definition"
	FieldContext       = "context"
	FieldCreatedAt     = "created_at"
	FieldNextReview    = "next_review"
	FieldIntervalDays  = "interval_days"
	FieldSuccessStreak = "success_streak"
	FieldReviewCount   = "review_count"
)

// Record is a loosely-typed persisted entry as decoded from storage.
// Any field may be missing or hold a value of an unexpected type.
type Record map[string]any

// EntryFromRecord maps a record onto the strict Entry type.
//
// Missing or non-numeric counters fall back to the defaults of a new entry.
// A non-string word keeps its text form but sorts as empty, and dates keep
// their raw text so that malformed values are preserved.
func EntryFromRecord(r Record) *Entry {
	_, wordIsText := r[FieldWord].(string)
	return &Entry{
		ID:            stringValue(r[FieldID]),
		Word:          stringValue(r[FieldWord]),
		Definition:    stringValue(r[FieldDefinition]),
		Context:       stringValue(r[FieldContext]),
		CreatedAt:     Date(stringValue(r[FieldCreatedAt])),
		NextReview:    Date(stringValue(r[FieldNextReview])),
		IntervalDays:  intValue(r, FieldIntervalDays, DefaultIntervalDays),
		SuccessStreak: intValue(r, FieldSuccessStreak, DefaultSuccessStreak),
		ReviewCount:   intValue(r, FieldReviewCount, DefaultReviewCount),
		wordNotText:   r[FieldWord] != nil && !wordIsText,
	}
}

// EntriesFromRecords converts every record.
func EntriesFromRecords(records []Record) []*Entry {
	entries := make([]*Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, EntryFromRecord(r))
	}
	return entries
}

// Record returns the persisted form of the entry.
func (e *Entry) Record() Record {
	return Record{
		FieldID:            e.ID,
		FieldWord:          e.Word,
		FieldDefinition:    e.Definition,
		FieldContext:       e.Context,
		FieldCreatedAt:     string(e.CreatedAt),
		FieldNextReview:    string(e.NextReview),
		FieldIntervalDays:  e.IntervalDays,
		FieldSuccessStreak: e.SuccessStreak,
		FieldReviewCount:   e.ReviewCount,
	}
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

func intValue(r Record, field string, fallback int) int {
	v, ok := r[field]
	if !ok || v == nil {
		return fallback
	}
	// cast treats booleans as 0/1; a boolean counter is corrupt, not numeric.
	if _, isBool := v.(bool); isBool {
		return fallback
	}
	// Numeric strings are read in base 10 so that "010" is ten.
	if s, isString := v.(string); isString {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fallback
		}
		return n
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return fallback
	}
	return n
}
