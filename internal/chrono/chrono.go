// Package chrono is the calendar arithmetic used by every other part of the
// companion: leap years, day-of-year, week numbering, week ranges, display
// labels and anniversary projection.
//
// All functions are pure. They read the calendar fields of the time.Time they
// are given in that value's own location; there is no implicit "now" and no
// time zone database lookup.
package chrono

import "time"

// Day is the length of a calendar day used for day-difference arithmetic.
const Day = 24 * time.Hour

// MsPerDay is the number of milliseconds in a day.
const MsPerDay = 86_400_000

// StartOfDay truncates t to local midnight using its own calendar fields.
// time.Time.Truncate works on absolute time and would cut at UTC boundaries.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond (23:59:59.999) of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
// Each value is read in its own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the length of month in year.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month normalises to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayOfYear returns the 1-based ordinal of t within its calendar year.
// The count is taken between UTC midnights so that a daylight saving
// transition in t's location cannot add or remove an hour.
func DayOfYear(t time.Time) int {
	y, m, d := t.Date()
	elapsed := utcMidnight(y, m, d).Sub(utcMidnight(y, time.January, 1))
	return int(elapsed/Day) + 1
}

// DaysRemainingInYear returns how many days of t's year follow t.
func DaysRemainingInYear(t time.Time) int {
	return DaysInYear(t.Year()) - DayOfYear(t)
}

func utcMidnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
