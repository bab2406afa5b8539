package devotion

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tartampluch/go-devotional/internal/chrono"
	"github.com/tartampluch/go-devotional/internal/config"
)

// Preferences selects which week is shown and how it is numbered.
type Preferences struct {
	Scheme      chrono.WeekScheme
	MeetingDay  time.Weekday
	ReadingPlan string

	// WeekOffset shifts the reference date by whole weeks.
	WeekOffset int

	// CompletedDays are YYYY-MM-DD dates.
	CompletedDays []string
}

// PreferencesFrom extracts the devotional preferences from validated settings.
func PreferencesFrom(s config.Settings) Preferences {
	return Preferences{
		Scheme:        s.Scheme(),
		MeetingDay:    s.WeekStart(),
		ReadingPlan:   s.ReadingPlan,
		WeekOffset:    s.WeekOffset,
		CompletedDays: s.CompletedDays,
	}
}

// Day is one calendar day of a devotional week.
type Day struct {
	Date      time.Time `json:"date"`
	Label     string    `json:"label"`
	Completed bool      `json:"completed"`
	Today     bool      `json:"today"`
}

// Week is the devotional week resolved for a reference date.
type Week struct {
	Number int               `json:"number"`
	Scheme chrono.WeekScheme `json:"scheme"`
	Label  string            `json:"label"`
	Offset int               `json:"offset"`

	Range chrono.WeekRange `json:"range"`
	Days  []Day            `json:"days"`

	Plan string `json:"plan"`

	// Reading is nil when the plan has no entry for Number.
	Reading *Reading `json:"reading,omitempty"`

	CompletedCount int `json:"completed_count"`
}

// Resolve computes the week shown for now. The reference date is now shifted
// by WeekOffset weeks; its week number follows prefs.Scheme and its range
// starts on the meeting day. plans may be nil.
//
// It panics when prefs.Scheme or prefs.MeetingDay is invalid, like the chrono
// functions it calls.
func Resolve(now time.Time, prefs Preferences, plans PlanSource) Week {
	ref := chrono.StartOfDay(now).AddDate(0, 0, 7*prefs.WeekOffset)
	rng := chrono.GetWeekRange(ref, prefs.MeetingDay)

	done := make(map[string]bool, len(prefs.CompletedDays))
	for _, d := range prefs.CompletedDays {
		done[d] = true
	}

	w := Week{
		Number: chrono.WeekNumber(ref, prefs.Scheme),
		Scheme: prefs.Scheme,
		Label:  chrono.FormatWeekLabel(ref, prefs.Scheme),
		Offset: prefs.WeekOffset,
		Range:  rng,
		Plan:   prefs.ReadingPlan,
	}

	for _, d := range rng.Days() {
		day := Day{
			Date:      d,
			Label:     chrono.FormatDowMonDay(d),
			Completed: done[d.Format(config.DateFormatFullDash)],
			Today:     chrono.SameDay(d, now),
		}
		if day.Completed {
			w.CompletedCount++
		}
		w.Days = append(w.Days, day)
	}

	log := slog.With(
		config.LogKeyComponent, config.CompDevotion,
		config.LogKeyWeek, w.Number,
		config.LogKeyPlan, w.Plan,
	)

	if plans != nil {
		r, err := plans.Lookup(w.Number, w.Plan)
		switch {
		case err == nil:
			w.Reading = &r
		case errors.Is(err, ErrWeekNotFound):
			log.Debug(config.MsgPlanMissing)
		default:
			log.Warn(config.ErrPlanLookup, config.LogKeyError, err)
		}
	}

	log.Debug(config.MsgWeekResolved, config.LogKeyScheme, w.Scheme)
	return w
}
