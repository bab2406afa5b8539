package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-devotional/internal/chrono"
	"github.com/tartampluch/go-devotional/internal/config"
)

// SyncConfig contains all parameters required to perform a synchronization.
type SyncConfig struct {
	Source          SourceConfig
	ReminderTrigger string // ISO8601 duration string (e.g., "-P1D")

	// Extra events (the devotional week) are appended to the feed as-is.
	Extra []*ical.Event
}

// Result is the output of one synchronization.
type Result struct {
	ICS         []byte
	People      []Anniversary
	TodayCount  int
	GeneratedAt time.Time
}

// Generator turns the address book into anniversaries and an iCalendar feed.
type Generator struct {
	Clock   Clock
	Fetcher VCardFetcher

	// FormatSummary lets the caller localise birthday summaries.
	FormatSummary func(name string, age int, yearKnown bool) string

	// FormatHalfSummary lets the caller localise half-birthday summaries.
	FormatHalfSummary func(name string) string
}

// RunSync loads the people, projects them against the clock and renders the feed.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) (*Result, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Source.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	people, err := LoadPeople(ctx, g.Fetcher, cfg.Source)
	if err != nil {
		return nil, err
	}

	now := g.Clock.Now()
	res, err := g.Render(now, people, cfg)
	if err != nil {
		return nil, err
	}

	log.Debug(config.MsgSyncDone, config.LogKeyDuration, time.Since(start).Milliseconds())
	return res, nil
}

// Render builds the Result for people at now without touching any source.
func (g *Generator) Render(now time.Time, people []Person, cfg SyncConfig) (*Result, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays follow the local calendar; only DTSTAMP is UTC.
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	anniversaries := Project(now, people)
	today := 0

	for _, p := range people {
		events := g.birthdayEvents(p, cfg.ReminderTrigger, now)
		if half := g.halfBirthdayEvent(p, cfg.ReminderTrigger, now); half != nil {
			events = append(events, half)
		}

		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	for _, a := range anniversaries {
		if a.BirthdayToday {
			today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, a.Name,
				config.LogKeyDOB, a.DateOfBirth.Format(config.DateFormatFullDash))
		}
	}

	for _, e := range cfg.Extra {
		if e.Props.Get(config.PropDTStamp) == nil {
			e.Props.Set(dtStampProp)
		}
		cal.Children = append(cal.Children, e.Component)
	}

	res := &Result{People: anniversaries, TodayCount: today, GeneratedAt: now}

	// An empty VCALENDAR would fail go-ical's encoder; clients still need a valid feed.
	if len(cal.Children) == 0 {
		res.ICS = []byte(config.StubVCalendar)
		g.logSuccess(len(people), today)
		return res, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	res.ICS = buf.Bytes()

	g.logSuccess(len(people), today)
	return res, nil
}

func (g *Generator) logSuccess(found, today int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFound, found),
			slog.Int(config.LogKeyToday, today),
		),
	)
}

// birthdayEvents creates all-day events for the previous, current and next
// year, skipping years before the person was born. Feb 29 is clamped to Feb 28
// in common years.
func (g *Generator) birthdayEvents(p Person, reminderTrigger string, now time.Time) []*ical.Event {
	currentYear := now.Year()
	_, month, day := p.DateOfBirth.Date()

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if p.YearKnown && y < p.DateOfBirth.Year() {
			continue
		}

		age := 0
		if p.YearKnown {
			age = y - p.DateOfBirth.Year()
		}

		summary := fmt.Sprintf(config.FallbackSummary, p.Name)
		if g.FormatSummary != nil {
			summary = g.FormatSummary(p.Name, age, p.YearKnown)
		}

		event := newAllDayEvent(
			fmt.Sprintf(config.FormatUID, p.UID, y, config.ICalDomain),
			summary,
			config.CategoryBirthday,
			chrono.ClampToMonth(y, month, day, now.Location()),
		)
		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events
}

// halfBirthdayEvent creates the single upcoming half-birthday, or nil when it
// would fall before the person is born.
func (g *Generator) halfBirthdayEvent(p Person, reminderTrigger string, now time.Time) *ical.Event {
	half := chrono.NextHalfBirthday(p.DateOfBirth, now)
	if p.YearKnown && !half.After(p.birthInstant(now.Location())) {
		return nil
	}

	summary := fmt.Sprintf(config.FallbackHalfBirthday, p.Name)
	if g.FormatHalfSummary != nil {
		summary = g.FormatHalfSummary(p.Name)
	}

	event := newAllDayEvent(
		fmt.Sprintf(config.FormatHalfUID, p.UID, half.Format(config.DateFormatFullBasic), config.ICalDomain),
		summary,
		config.CategoryHalfBirthday,
		half,
	)
	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, summary)
	}
	return event
}

// newAllDayEvent builds a VEVENT with a DATE-valued DTSTART.
func newAllDayEvent(uid, summary, category string, day time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, category)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(day)
	event.Props.Set(dtStartProp)
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
