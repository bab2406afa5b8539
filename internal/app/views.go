package app

import (
	"time"

	"github.com/tartampluch/go-devotional/internal/chrono"
	"github.com/tartampluch/go-devotional/internal/config"
)

// HeaderView is the calendar header with the figures it is built from.
type HeaderView struct {
	Header        string            `json:"header"`
	Date          string            `json:"date"`
	Label         string            `json:"label"`
	Scheme        chrono.WeekScheme `json:"scheme"`
	Year          int               `json:"year"`
	DayOfYear     int               `json:"day_of_year"`
	DaysRemaining int               `json:"days_remaining"`
	Week          int               `json:"week"`
	ISOWeek       chrono.ISOWeekOf  `json:"iso_week"`

	// Status is the localised sync status, empty outside the server.
	Status string `json:"status,omitempty"`
}

// BuildHeaderView computes the header for now under scheme.
func BuildHeaderView(now time.Time, scheme chrono.WeekScheme) HeaderView {
	return HeaderView{
		Header:        chrono.BuildHeader(now, scheme),
		Date:          now.Format(config.DateFormatFullDash),
		Label:         chrono.FormatDowMonDayYear(now),
		Scheme:        scheme,
		Year:          now.Year(),
		DayOfYear:     chrono.DayOfYear(now),
		DaysRemaining: chrono.DaysRemainingInYear(now),
		Week:          chrono.WeekNumber(now, scheme),
		ISOWeek:       chrono.ISOWeek(now),
	}
}
