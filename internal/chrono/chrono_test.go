package chrono_test

import (
	"testing"
	"time"
	_ "time/tzdata" // America/New_York for daylight saving cases

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-devotional/internal/chrono"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestIsLeapYear_CenturyRule(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{1900, false},
		{2000, true},
		{2100, false},
		{2004, true},
		{2023, false},
		{2024, true},
		{2400, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, chrono.IsLeapYear(tt.year), "year %d", tt.year)
	}

	assert.Equal(t, 366, chrono.DaysInYear(2000))
	assert.Equal(t, 365, chrono.DaysInYear(1900))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, chrono.DaysInMonth(2024, time.February))
	assert.Equal(t, 28, chrono.DaysInMonth(2025, time.February))
	assert.Equal(t, 31, chrono.DaysInMonth(2025, time.December))
	assert.Equal(t, 30, chrono.DaysInMonth(2025, time.April))
}

func TestDayOfYear_KnownDates(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"Jan 1", date(2026, 1, 1), 1},
		{"Mar 1 common year", date(2023, 3, 1), 60},
		{"Mar 1 leap year", date(2024, 3, 1), 61},
		{"Dec 31 leap year", date(2024, 12, 31), 366},
		{"Time of day ignored", time.Date(2026, 10, 19, 23, 59, 59, 0, time.UTC), 292},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chrono.DayOfYear(tt.in))
		})
	}
}

// Every day of a few years, including a location with daylight saving, must
// satisfy dayOfYear + remaining == length of year and agree with YearDay.
func TestDayOfYear_PlusRemainingIsYearLength(t *testing.T) {
	for _, loc := range []*time.Location{time.UTC, newYork(t)} {
		for _, year := range []int{1900, 2000, 2023, 2024} {
			for d := time.Date(year, 1, 1, 12, 0, 0, 0, loc); d.Year() == year; d = d.AddDate(0, 0, 1) {
				doy := chrono.DayOfYear(d)
				require.Equal(t, d.YearDay(), doy, "%s", d)
				require.Equal(t, chrono.DaysInYear(year), doy+chrono.DaysRemainingInYear(d), "%s", d)
			}
		}
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	loc := newYork(t)
	in := time.Date(2026, 3, 8, 15, 4, 5, 6, loc)

	start := chrono.StartOfDay(in)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, loc), start)

	end := chrono.EndOfDay(in)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, 999*time.Millisecond, time.Duration(end.Nanosecond()))

	assert.True(t, chrono.SameDay(start, end))
	assert.False(t, chrono.SameDay(start, start.AddDate(0, 0, 1)))
}
