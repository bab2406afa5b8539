package chrono

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts rely on Go's fixed English day and month abbreviations.
const (
	LayoutDowMonDay     = "Mon, Jan 2"
	LayoutDowMonDayYear = "Mon, Jan 2, 2006"

	// HeaderSeparator joins the parts of BuildHeader.
	HeaderSeparator = " • "
)

// FormatDowMonDay renders t as "Mon, Oct 19".
func FormatDowMonDay(t time.Time) string {
	return t.Format(LayoutDowMonDay)
}

// FormatDowMonDayYear renders t as "Mon, Oct 19, 2026".
func FormatDowMonDayYear(t time.Time) string {
	return t.Format(LayoutDowMonDayYear)
}

// FormatWeekLabel renders "Week <n>" using scheme.
func FormatWeekLabel(t time.Time, scheme WeekScheme) string {
	return fmt.Sprintf("Week %d", WeekNumber(t, scheme))
}

// BuildHeader composes the one-line date header shown at the top of the
// companion, for example "292/73 • 2026 • Week 43 • Mon, Oct 19".
// The first part is day-of-year over days remaining in the year.
func BuildHeader(t time.Time, scheme WeekScheme) string {
	parts := []string{
		fmt.Sprintf("%d/%d", DayOfYear(t), DaysRemainingInYear(t)),
		strconv.Itoa(t.Year()),
		FormatWeekLabel(t, scheme),
		FormatDowMonDay(t),
	}
	return strings.Join(parts, HeaderSeparator)
}
