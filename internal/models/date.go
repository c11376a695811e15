// ABOUTME: Calendar-day type used as the schedule key.
// ABOUTME: Provides parsing, day arithmetic, and anchored-week computation.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display format for calendar days.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. Dates compare correctly as strings.
type Date string

// ParseDate validates and normalizes a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of week, 0=Sunday..6=Saturday.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d > other
}

func (d Date) String() string {
	return string(d)
}

// StartOfAnchoredWeek returns the most recent date on or before d whose
// weekday equals anchor.
func StartOfAnchoredWeek(d Date, anchor time.Weekday) Date {
	diff := (int(d.Weekday()) - int(anchor) + 7) % 7
	return d.AddDays(-diff)
}

// WeekDates returns the seven dates of the anchored week containing d.
func WeekDates(d Date, anchor time.Weekday) []Date {
	start := StartOfAnchoredWeek(d, anchor)
	dates := make([]Date, 7)
	for i := range dates {
		dates[i] = start.AddDays(i)
	}
	return dates
}
