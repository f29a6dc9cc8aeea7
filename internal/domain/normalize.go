package domain

import (
	"time"

	"github.com/google/uuid"
)

// NormalizeRecords fills in every missing schema field of each record in
// place and reports whether any record was modified.
//
// Defaults: a fresh UUID id, created_at of now's calendar date, interval 1,
// streak 0, an empty context, next_review equal to the record's own
// (possibly just repaired) created_at, and review_count 0. Present fields are
// never rewritten, even when their values are malformed.
func NormalizeRecords(records []Record, now time.Time) bool {
	changed := false
	for _, r := range records {
		if normalizeRecord(r, now) {
			changed = true
		}
	}
	return changed
}

func normalizeRecord(r Record, now time.Time) bool {
	changed := false
	setDefault := func(field string, value func() any) {
		if _, ok := r[field]; ok {
			return
		}
		r[field] = value()
		changed = true
	}

	setDefault(FieldID, func() any { return uuid.NewString() })
	setDefault(FieldCreatedAt, func() any { return string(DateOf(now)) })
	setDefault(FieldIntervalDays, func() any { return DefaultIntervalDays })
	setDefault(FieldSuccessStreak, func() any { return DefaultSuccessStreak })
	setDefault(FieldContext, func() any { return "" })
	setDefault(FieldNextReview, func() any { return r[FieldCreatedAt] })
	setDefault(FieldReviewCount, func() any { return DefaultReviewCount })

	return changed
}
