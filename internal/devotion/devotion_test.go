package devotion_test

import (
	"slices"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-devotional/internal/chrono"
	"github.com/tartampluch/go-devotional/internal/config"
	"github.com/tartampluch/go-devotional/internal/devotion"
)

func loadTestPlans(t *testing.T) devotion.Plans {
	t.Helper()
	plans, err := devotion.LoadPlans("testdata/plans.json")
	require.NoError(t, err)
	return plans
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanKey(t *testing.T) {
	key, err := devotion.PlanKey(config.PlanWholeBible)
	require.NoError(t, err)
	assert.Equal(t, "F260_WholeBible", key)

	_, err = devotion.PlanKey("Psalms")
	assert.ErrorIs(t, err, devotion.ErrUnknownPlan)
}

func TestPlans_Lookup(t *testing.T) {
	plans := loadTestPlans(t)

	r, err := plans.Lookup(43, config.PlanNewTestament)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acts 14", "Acts 15", "Acts 16", "Acts 17", "Acts 18"}, r.Plan)
	assert.Equal(t, []string{"Acts 17:24-25"}, r.MemoryVerses)

	tests := []struct {
		name    string
		week    int
		plan    string
		wantErr error
	}{
		{"Unknown plan name", 43, "Psalms", devotion.ErrUnknownPlan},
		{"Plan without data", 43, config.PlanWholeBible, devotion.ErrUnknownPlan},
		{"Missing week", 1, config.PlanNewTestament, devotion.ErrWeekNotFound},
		{"Week zero", 0, config.PlanOldTestament, devotion.ErrWeekNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plans.Lookup(tt.week, tt.plan)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadPlans_Errors(t *testing.T) {
	_, err := devotion.LoadPlans("testdata/missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPlanFile)

	_, err = devotion.DecodePlans(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPlanFile)
}

func TestResolve_CurrentWeek(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) // Monday
	prefs := devotion.Preferences{
		Scheme:        chrono.SchemeUS,
		MeetingDay:    time.Friday,
		ReadingPlan:   config.PlanNewTestament,
		CompletedDays: []string{"2026-10-16", "2026-10-19", "2026-10-01"},
	}

	w := devotion.Resolve(now, prefs, loadTestPlans(t))

	assert.Equal(t, 43, w.Number)
	assert.Equal(t, "Week 43", w.Label)
	assert.Equal(t, date(2026, 10, 16), w.Range.Start)
	assert.Equal(t, chrono.EndOfDay(date(2026, 10, 22)), w.Range.End)

	require.Len(t, w.Days, 7)
	assert.Equal(t, "Fri, Oct 16", w.Days[0].Label)
	assert.True(t, w.Days[0].Completed)
	assert.True(t, w.Days[3].Today)
	assert.True(t, w.Days[3].Completed)
	assert.False(t, w.Days[4].Completed)
	assert.Equal(t, 2, w.CompletedCount, "dates outside the week are ignored")

	require.NotNil(t, w.Reading)
	assert.Equal(t, []string{"Acts 17:24-25"}, w.Reading.MemoryVerses)
}

func TestResolve_Offset(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	prefs := devotion.Preferences{
		Scheme:      chrono.SchemeUS,
		MeetingDay:  time.Friday,
		ReadingPlan: config.PlanNewTestament,
	}

	prefs.WeekOffset = -1
	last := devotion.Resolve(now, prefs, loadTestPlans(t))
	assert.Equal(t, 42, last.Number)
	assert.Equal(t, date(2026, 10, 9), last.Range.Start)
	require.NotNil(t, last.Reading)
	assert.Equal(t, "Acts 9", last.Reading.Plan[0])
	for _, d := range last.Days {
		assert.False(t, d.Today)
	}

	prefs.WeekOffset = 1
	next := devotion.Resolve(now, prefs, loadTestPlans(t))
	assert.Equal(t, 44, next.Number)
	assert.Nil(t, next.Reading, "no data for week 44")
}

func TestResolve_SchemeChangesNumberNotRange(t *testing.T) {
	now := date(2026, 10, 19)
	base := devotion.Preferences{MeetingDay: time.Monday, ReadingPlan: config.PlanNewTestament}

	for scheme, want := range map[chrono.WeekScheme]int{
		chrono.SchemeISO:     43,
		chrono.SchemeUS:      43,
		chrono.SchemeOrdinal: 42,
	} {
		prefs := base
		prefs.Scheme = scheme
		w := devotion.Resolve(now, prefs, nil)
		assert.Equal(t, want, w.Number, scheme)
		assert.Equal(t, date(2026, 10, 19), w.Range.Start, scheme)
		assert.Nil(t, w.Reading)
	}
}

func TestResolve_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, 11, 2, 12, 0, 0, 0, loc)
	w := devotion.Resolve(now, devotion.Preferences{
		Scheme:      chrono.SchemeISO,
		MeetingDay:  time.Friday,
		ReadingPlan: config.PlanNewTestament,
	}, nil)

	for i, d := range w.Days {
		assert.Zero(t, d.Date.Hour(), "day %d at midnight", i)
	}
	assert.Equal(t, time.Date(2026, 10, 30, 0, 0, 0, 0, loc), w.Range.Start)
}

func TestResolve_InvalidMeetingDayPanics(t *testing.T) {
	assert.Panics(t, func() {
		devotion.Resolve(date(2026, 10, 19), devotion.Preferences{Scheme: chrono.SchemeUS, MeetingDay: 7}, nil)
	})
}

func TestPreferencesFrom(t *testing.T) {
	s := config.DefaultSettings()
	s.WeekOffset = -2
	s.CompletedDays = []string{"2026-10-16"}

	p := devotion.PreferencesFrom(s)
	assert.Equal(t, chrono.SchemeUS, p.Scheme)
	assert.Equal(t, time.Friday, p.MeetingDay)
	assert.Equal(t, config.PlanNewTestament, p.ReadingPlan)
	assert.Equal(t, -2, p.WeekOffset)
	assert.Equal(t, []string{"2026-10-16"}, p.CompletedDays)
}

func TestMarkAndUnmarkCompleted(t *testing.T) {
	days := []string{"2026-10-19"}

	days = devotion.MarkCompleted(days, date(2026, 10, 16))
	days = devotion.MarkCompleted(days, date(2026, 10, 19))
	assert.Equal(t, []string{"2026-10-16", "2026-10-19"}, days, "sorted, no duplicates")

	original := slices.Clone(days)
	trimmed := devotion.UnmarkCompleted(days, date(2026, 10, 16))
	assert.Equal(t, []string{"2026-10-19"}, trimmed)
	assert.Equal(t, original, days, "input is not modified")

	assert.Equal(t, []string{"2026-10-19"}, devotion.UnmarkCompleted(trimmed, date(2026, 1, 1)))
}

func TestParseDay(t *testing.T) {
	d, err := devotion.ParseDay("2026-10-19", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, date(2026, 10, 19), d)

	_, err = devotion.ParseDay("10/19/2026", time.UTC)
	assert.Error(t, err)
}

func TestWeekEvent(t *testing.T) {
	w := devotion.Resolve(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), devotion.Preferences{
		Scheme:      chrono.SchemeUS,
		MeetingDay:  time.Friday,
		ReadingPlan: config.PlanNewTestament,
	}, loadTestPlans(t))

	event := devotion.WeekEvent(w, "")

	uid, err := event.Props.Text(config.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "week-20261016@godevotional", uid)

	summary, err := event.Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Week 43: New Testament", summary)

	start := event.Props.Get(config.PropDTStart)
	require.NotNil(t, start)
	assert.Equal(t, "20261016", start.Value)
	assert.Equal(t, ical.ValueDate, start.ValueType())

	end := event.Props.Get(config.PropDTEnd)
	require.NotNil(t, end)
	assert.Equal(t, "20261023", end.Value)

	desc, err := event.Props.Text(config.PropDescription)
	require.NoError(t, err)
	assert.Equal(t, "Acts 14\nActs 15\nActs 16\nActs 17\nActs 18\nActs 17:24-25", desc)

	custom := devotion.WeekEvent(w, "Semaine 43")
	summary, _ = custom.Props.Text(config.PropSummary)
	assert.Equal(t, "Semaine 43", summary)
}
