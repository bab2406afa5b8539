package devotion

import (
	"slices"
	"time"

	"github.com/tartampluch/go-devotional/internal/config"
)

// MarkCompleted returns days with day added, sorted and without duplicates.
func MarkCompleted(days []string, day time.Time) []string {
	out := append(slices.Clone(days), day.Format(config.DateFormatFullDash))
	slices.Sort(out)
	return slices.Compact(out)
}

// UnmarkCompleted returns days without day.
func UnmarkCompleted(days []string, day time.Time) []string {
	key := day.Format(config.DateFormatFullDash)
	return slices.DeleteFunc(slices.Clone(days), func(d string) bool { return d == key })
}

// ParseDay parses a YYYY-MM-DD date at midnight in loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(config.DateFormatFullDash, value, loc)
}
