package devotion

import (
	"fmt"
	"slices"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-devotional/internal/config"
)

// WeekEvent renders w as an all-day event spanning its seven days. The reading
// and memory verses, when known, go to the description.
func WeekEvent(w Week, summary string) *ical.Event {
	if summary == "" {
		summary = fmt.Sprintf(config.FallbackWeekSummary, w.Label, w.Plan)
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID,
		fmt.Sprintf(config.FormatWeekUID, w.Range.Start.Format(config.DateFormatFullBasic), config.ICalDomain))
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, config.CategoryDevotional)

	start := ical.NewProp(config.PropDTStart)
	start.SetDate(w.Range.Start)
	event.Props.Set(start)

	// DTEND is exclusive for DATE values.
	end := ical.NewProp(config.PropDTEnd)
	end.SetDate(w.Range.Start.AddDate(0, 0, 7))
	event.Props.Set(end)

	if w.Reading != nil {
		lines := append(slices.Clone(w.Reading.Plan), w.Reading.MemoryVerses...)
		event.Props.SetText(config.PropDescription, strings.Join(lines, "\n"))
	}
	return event
}
