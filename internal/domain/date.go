package domain

import (
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used for every persisted date.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form.
//
// It keeps the raw persisted text so that a malformed value survives a
// load/save round trip unchanged; callers decide how to treat it via Time.
type Date string

// DateOf returns the calendar date of t in UTC.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(DateLayout))
}

// Time parses the date. The boolean is false when the value is empty or not a
// valid calendar date.
func (d Date) Time() (time.Time, bool) {
	if d == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Valid reports whether the date parses.
func (d Date) Valid() bool {
	_, ok := d.Time()
	return ok
}

// AddDays returns the calendar date days after t.
func AddDays(t time.Time, days int) Date {
	return DateOf(StartOfDay(t).AddDate(0, 0, days))
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return string(d)
}

// StartOfDay returns midnight UTC of the calendar day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
