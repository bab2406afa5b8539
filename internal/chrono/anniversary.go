package chrono

import (
	"math"
	"time"
)

// MeanGregorianYear is the average length of a Gregorian year in days.
const MeanGregorianYear = 365.2425

// DefaultAgePrecision is the number of decimals AgeInYears callers use by default.
const DefaultAgePrecision = 2

// ClampToMonth builds midnight of year/month/day in loc, pulling day back to the
// month's last day when it would overflow (Feb 29 becomes Feb 28 in common years).
// time.Date alone would roll the overflow into the next month.
func ClampToMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// AddMonthsClamped moves base by months, carrying whole years and clamping the
// day to the length of the resulting month. The result is at midnight.
func AddMonthsClamped(base time.Time, months int) time.Time {
	y, m, d := base.Date()
	total := int(m) - 1 + months
	year := y + floorDiv(total, 12)
	month := time.Month(total-floorDiv(total, 12)*12) + 1
	return ClampToMonth(year, month, d, base.Location())
}

// DaysUntil counts calendar days from from to target: positive when target is
// later, negative when earlier. Both are truncated to local midnight in from's
// location, and the quotient is rounded so a daylight saving hour cannot turn
// 1 day into 0.
func DaysUntil(target, from time.Time) int {
	a := StartOfDay(from)
	b := StartOfDay(target.In(from.Location()))
	return int(math.Round(float64(b.Sub(a)) / float64(Day)))
}

// AgeInYears returns the time elapsed between dob and on in mean Gregorian
// years (365.2425 days), rounded to precision decimals.
//
// This is a smooth fraction, not a years/months/days reckoning: someone born
// exactly one calendar year ago is 1.00 only when that year was of average
// length, and a few hours either side of a birthday is visible in the decimals.
func AgeInYears(dob, on time.Time, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	yearMs := MeanGregorianYear * MsPerDay
	years := float64(on.Sub(dob).Milliseconds()) / yearMs

	scale := math.Pow10(precision)
	return math.Round(years*scale) / scale
}

// NextBirthday returns the first anniversary of dob's month and day that is
// strictly after on's calendar date. Today's birthday is not "next".
// The result is midnight in on's location.
func NextBirthday(dob, on time.Time) time.Time {
	today := StartOfDay(on)
	_, month, day := dob.Date()

	candidate := ClampToMonth(today.Year(), month, day, today.Location())
	if candidate.After(today) {
		return candidate
	}
	return ClampToMonth(today.Year()+1, month, day, today.Location())
}

// NextHalfBirthday returns the first date strictly after on's calendar date
// that lies six months after one of dob's (clamped) anniversaries.
//
// A half-birthday can fall in the year after the birthday it belongs to, so the
// previous year's anniversary is tried before the current and next ones.
func NextHalfBirthday(dob, on time.Time) time.Time {
	today := StartOfDay(on)
	_, month, day := dob.Date()

	var half time.Time
	for y := today.Year() - 1; y <= today.Year()+1; y++ {
		birthday := ClampToMonth(y, month, day, today.Location())
		half = AddMonthsClamped(birthday, 6)
		if half.After(today) {
			break
		}
	}
	return half
}

// FormatNextBirthday renders NextBirthday as "Wed, Sep 2, 2026".
func FormatNextBirthday(dob, on time.Time) string {
	return FormatDowMonDayYear(NextBirthday(dob, on))
}

// FormatHalfBirthday renders NextHalfBirthday as "Tue, Mar 2, 2027".
func FormatHalfBirthday(dob, on time.Time) string {
	return FormatDowMonDayYear(NextHalfBirthday(dob, on))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
