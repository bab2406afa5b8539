package chrono_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-devotional/internal/chrono"
)

func TestISOWeek_PriorYear(t *testing.T) {
	// 2021-01-01 is a Friday and belongs to the last ISO week of 2020.
	got := chrono.ISOWeek(date(2021, 1, 1))
	assert.Equal(t, chrono.ISOWeekOf{Year: 2020, Week: 53}, got)
}

func TestISOWeek_FollowingYear(t *testing.T) {
	// 2024-12-31 is a Tuesday; its Thursday is 2025-01-02.
	got := chrono.ISOWeek(date(2024, 12, 31))
	assert.Equal(t, chrono.ISOWeekOf{Year: 2025, Week: 1}, got)
}

func TestISOWeek_MatchesStandardLibrary(t *testing.T) {
	for d := date(1999, 12, 1); d.Before(date(2031, 1, 31)); d = d.AddDate(0, 0, 1) {
		year, week := d.ISOWeek()
		got := chrono.ISOWeek(d)
		require.Equal(t, chrono.ISOWeekOf{Year: year, Week: week}, got, "%s", d.Format(time.DateOnly))
	}
}

func TestUSWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"Jan 1 is always week 1", date(2026, 1, 1), 1},
		{"First Sunday after a Thursday Jan 1", date(2026, 1, 4), 2},
		{"Saturday before it", date(2026, 1, 3), 1},
		{"Mid October", date(2026, 10, 19), 43},
		{"Dec 31 of a leap year starting Monday", date(2024, 12, 31), 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chrono.USWeek(tt.in))
		})
	}
}

func TestOrdinalWeek(t *testing.T) {
	assert.Equal(t, 1, chrono.OrdinalWeek(date(2026, 1, 1)))
	assert.Equal(t, 1, chrono.OrdinalWeek(date(2026, 1, 7)))
	assert.Equal(t, 2, chrono.OrdinalWeek(date(2026, 1, 8)))
	assert.Equal(t, 53, chrono.OrdinalWeek(date(2026, 12, 31)))
}

// The schemes are different numbering systems. Near year boundaries they
// disagree, and nothing in the package tries to reconcile them.
func TestWeekSchemes_DivergeNearYearBoundary(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Time
		iso     int
		us      int
		ordinal int
	}{
		{"Sunday Jan 1 2023", date(2023, 1, 1), 52, 1, 1},
		{"Sunday Jan 2 2022", date(2022, 1, 2), 52, 2, 1},
		{"Sunday Jan 4 2026", date(2026, 1, 4), 1, 2, 1},
		{"Sunday Dec 29 2024", date(2024, 12, 29), 52, 53, 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iso := chrono.WeekNumber(tt.in, chrono.SchemeISO)
			us := chrono.WeekNumber(tt.in, chrono.SchemeUS)
			ordinal := chrono.WeekNumber(tt.in, chrono.SchemeOrdinal)

			assert.Equal(t, tt.iso, iso)
			assert.Equal(t, tt.us, us)
			assert.Equal(t, tt.ordinal, ordinal)
			assert.False(t, iso == us && us == ordinal, "schemes are not required to agree")
		})
	}

	// Jan 1 2023 belongs to ISO year 2022.
	assert.Equal(t, 2022, chrono.ISOWeek(date(2023, 1, 1)).Year)
}

func TestWeekNumber_UnknownSchemePanics(t *testing.T) {
	assert.Panics(t, func() { chrono.WeekNumber(date(2026, 1, 1), chrono.WeekScheme("fortnight")) })
}

func TestParseWeekScheme(t *testing.T) {
	tests := []struct {
		in      string
		want    chrono.WeekScheme
		wantErr bool
	}{
		{"iso", chrono.SchemeISO, false},
		{"ISO", chrono.SchemeISO, false},
		{" us ", chrono.SchemeUS, false},
		{"Ordinal", chrono.SchemeOrdinal, false},
		{"", "", true},
		{"fortnight", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := chrono.ParseWeekScheme(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, chrono.ErrUnknownWeekScheme)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetWeekRange_MondayStartAlwaysMonday(t *testing.T) {
	loc := newYork(t)
	for d := time.Date(2026, 1, 1, 13, 30, 0, 0, loc); d.Year() == 2026; d = d.AddDate(0, 0, 1) {
		r := chrono.GetWeekRange(d, time.Monday)

		require.Equal(t, time.Monday, r.Start.Weekday(), "%s", d)
		require.Equal(t, chrono.StartOfDay(r.Start), r.Start, "start must be midnight")
		require.Equal(t, chrono.EndOfDay(r.Start.AddDate(0, 0, 6)), r.End, "end must be the last instant of day 7")
		require.True(t, r.Contains(d), "%s must lie in its own week", d)
	}
}

func TestGetWeekRange_CustomStartDay(t *testing.T) {
	monday := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		weekStart time.Weekday
		wantStart time.Time
	}{
		{"Sunday start", time.Sunday, date(2026, 10, 18)},
		{"Monday start on a Monday", time.Monday, date(2026, 10, 19)},
		{"Friday start wraps backwards", time.Friday, date(2026, 10, 16)},
		{"Saturday start", time.Saturday, date(2026, 10, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chrono.GetWeekRange(monday, tt.weekStart)
			assert.Equal(t, tt.wantStart, r.Start)
			assert.Equal(t, tt.weekStart, r.Start.Weekday())
			assert.Equal(t, time.Date(tt.wantStart.Year(), tt.wantStart.Month(), tt.wantStart.Day()+6, 23, 59, 59, 999000000, time.UTC), r.End)
		})
	}
}

func TestGetWeekRange_InvalidStartDayPanics(t *testing.T) {
	assert.Panics(t, func() { chrono.GetWeekRange(date(2026, 1, 1), time.Weekday(7)) })
	assert.Panics(t, func() { chrono.GetWeekRange(date(2026, 1, 1), time.Weekday(-1)) })
}

func TestWeekRange_Days(t *testing.T) {
	r := chrono.GetWeekRange(date(2026, 12, 30), time.Friday)
	days := r.Days()

	require.Len(t, days, 7)
	assert.Equal(t, date(2026, 12, 25), days[0])
	assert.Equal(t, date(2026, 12, 31), days[6])
	assert.False(t, r.Contains(date(2027, 1, 1)))
}
