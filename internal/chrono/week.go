package chrono

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// WeekScheme selects one of the week-numbering systems.
// The schemes disagree around year boundaries and are never reconciled.
type WeekScheme string

const (
	// SchemeISO numbers Monday-start weeks; week 1 holds the year's first Thursday.
	SchemeISO WeekScheme = "iso"
	// SchemeUS numbers Sunday-start weeks; week 1 holds January 1.
	SchemeUS WeekScheme = "us"
	// SchemeOrdinal chunks the year into 7-day blocks starting on January 1.
	SchemeOrdinal WeekScheme = "ordinal"
)

// ErrUnknownWeekScheme is returned by ParseWeekScheme for unrecognised names.
var ErrUnknownWeekScheme = errors.New("unknown week scheme")

// WeekSchemes lists the supported schemes in display order.
var WeekSchemes = []WeekScheme{SchemeISO, SchemeUS, SchemeOrdinal}

// ParseWeekScheme converts a user supplied name (case-insensitive) to a WeekScheme.
func ParseWeekScheme(name string) (WeekScheme, error) {
	s := WeekScheme(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownWeekScheme, name)
	}
	return s, nil
}

// Valid reports whether s is one of the supported schemes.
func (s WeekScheme) Valid() bool {
	switch s {
	case SchemeISO, SchemeUS, SchemeOrdinal:
		return true
	}
	return false
}

func (s WeekScheme) String() string {
	return string(s)
}

// ISOWeekOf is an ISO-8601 week descriptor. Year is the week-based year and
// may differ from the calendar year of the date it was computed from.
type ISOWeekOf struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// ISOWeek computes the ISO-8601 week of t.
//
// The date is moved to the Thursday of its Monday-start week; the year of that
// Thursday is the week-based year, and the week index is the number of whole
// weeks between it and January 1 of that year.
func ISOWeek(t time.Time) ISOWeekOf {
	y, m, d := t.Date()
	date := utcMidnight(y, m, d)

	day := int(date.Weekday())
	if day == 0 {
		day = 7
	}
	thursday := date.AddDate(0, 0, 4-day)

	yearStart := utcMidnight(thursday.Year(), time.January, 1)
	days := int(thursday.Sub(yearStart) / Day)
	return ISOWeekOf{Year: thursday.Year(), Week: days/7 + 1}
}

// USWeek computes the Sunday-start week of t where week 1 is the week that
// contains January 1, whatever weekday that is.
func USWeek(t time.Time) int {
	jan1 := utcMidnight(t.Year(), time.January, 1)
	sundayIndex := int(jan1.Weekday())
	return (DayOfYear(t)+sundayIndex-1)/7 + 1
}

// OrdinalWeek computes the naive week of t: days 1-7 are week 1, days 8-14
// week 2, and so on, with no weekday alignment.
func OrdinalWeek(t time.Time) int {
	return (DayOfYear(t)-1)/7 + 1
}

// WeekNumber returns t's week number under scheme.
// It panics on a scheme that is not Valid; use ParseWeekScheme on user input.
func WeekNumber(t time.Time, scheme WeekScheme) int {
	switch scheme {
	case SchemeISO:
		return ISOWeek(t).Week
	case SchemeUS:
		return USWeek(t)
	case SchemeOrdinal:
		return OrdinalWeek(t)
	}
	panic(fmt.Sprintf("chrono: %s %q", ErrUnknownWeekScheme, string(scheme)))
}

// WeekRange is a seven-day span from Start (00:00:00.000) to End (23:59:59.999).
type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GetWeekRange returns the week containing t that begins on weekStart.
// It panics when weekStart is outside Sunday..Saturday.
func GetWeekRange(t time.Time, weekStart time.Weekday) WeekRange {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		panic(fmt.Sprintf("chrono: week start day %d out of range", int(weekStart)))
	}

	day := StartOfDay(t)
	weekday := day.Weekday()

	var offset int
	if weekday < weekStart {
		offset = 7 - int(weekStart-weekday)
	} else {
		offset = int(weekday - weekStart)
	}

	start := day.AddDate(0, 0, -offset)
	return WeekRange{
		Start: start,
		End:   EndOfDay(start.AddDate(0, 0, 6)),
	}
}

// Days lists the seven calendar days of the range, each at midnight.
func (r WeekRange) Days() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = r.Start.AddDate(0, 0, i)
	}
	return days
}

// Contains reports whether t lies within the range, bounds included.
func (r WeekRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
