package srs

import (
	"cmp"
	"slices"
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
)

// clampInterval bounds interval to [params.MinIntervalDays, params.MaxIntervalDays].
func clampInterval(interval int, params *Params) int {
	return max(params.MinIntervalDays, min(params.MaxIntervalDays, interval))
}

// calculateNewInterval determines the interval after a review outcome.
//
// A remembered outcome multiplies the current interval and clamps it to the
// configured limits; the floor also repairs a corrupted zero or negative
// stored interval. A forgotten outcome resets to params.ResetIntervalDays.
func calculateNewInterval(currentInterval int, remembered bool, params *Params) int {
	if !remembered {
		return params.ResetIntervalDays
	}
	// A stored interval at or past the cap would overflow when multiplied.
	if currentInterval >= params.MaxIntervalDays {
		return params.MaxIntervalDays
	}
	return clampInterval(currentInterval*params.SuccessMultiplier, params)
}

// applyOutcome updates the schedule fields of entry in place.
//
// The next review is always scheduled from today using the new interval, and
// the review count grows by one whatever the outcome.
func applyOutcome(entry *domain.Entry, remembered bool, today time.Time, params *Params) {
	if remembered {
		entry.SuccessStreak++
	} else {
		entry.SuccessStreak = 0
	}

	entry.IntervalDays = calculateNewInterval(entry.IntervalDays, remembered, params)
	entry.NextReview = domain.AddDays(today, entry.IntervalDays)
	entry.ReviewCount++
}

// effectiveNextReview returns the day an entry becomes due. Entries with a
// missing or malformed next_review are due on asOf.
func effectiveNextReview(entry *domain.Entry, asOf time.Time) time.Time {
	next, ok := entry.NextReview.Time()
	if !ok {
		return asOf
	}
	return next
}

// selectDue returns the entries due on or before asOf's calendar date,
// earliest first. Equal dates keep their input order.
func selectDue(entries []*domain.Entry, asOf time.Time) []*domain.Entry {
	asOfDay := domain.StartOfDay(asOf)

	type dueEntry struct {
		entry *domain.Entry
		on    time.Time
	}
	due := make([]dueEntry, 0, len(entries))
	for _, entry := range entries {
		on := effectiveNextReview(entry, asOfDay)
		if !on.After(asOfDay) {
			due = append(due, dueEntry{entry: entry, on: on})
		}
	}

	slices.SortStableFunc(due, func(a, b dueEntry) int {
		return a.on.Compare(b.on)
	})

	result := make([]*domain.Entry, len(due))
	for i, d := range due {
		result[i] = d.entry
	}
	return result
}

// sortForDisplay orders a copy of entries by review count ascending, then
// creation date descending (unparseable dates count as the earliest possible
// date), then word ascending (a non-string persisted word sorts as empty).
func sortForDisplay(entries []*domain.Entry) []*domain.Entry {
	sorted := slices.Clone(entries)
	if sorted == nil {
		sorted = []*domain.Entry{}
	}

	slices.SortStableFunc(sorted, func(a, b *domain.Entry) int {
		if c := cmp.Compare(a.ReviewCount, b.ReviewCount); c != 0 {
			return c
		}
		// time.Time{} is the zero value, earlier than any parseable date.
		aCreated, _ := a.CreatedAt.Time()
		bCreated, _ := b.CreatedAt.Time()
		if c := bCreated.Compare(aCreated); c != 0 {
			return c
		}
		return cmp.Compare(a.SortWord(), b.SortWord())
	})

	return sorted
}
