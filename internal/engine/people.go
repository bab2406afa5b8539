package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-devotional/internal/chrono"
	"github.com/tartampluch/go-devotional/internal/config"
)

// Person is one entry of the address book.
type Person struct {
	// UID is the vCard UID, or a stable hash of name and birth date.
	UID string

	Name string

	// DateOfBirth is the parsed BDAY value.
	DateOfBirth time.Time

	// YearKnown is false for --MM-DD birthdays.
	YearKnown bool

	// Color is the optional X-COLOR used by display layers.
	Color string
}

// Anniversary is a Person projected against a reference date.
type Anniversary struct {
	UID               string    `json:"uid"`
	Name              string    `json:"name"`
	Color             string    `json:"color,omitempty"`
	DateOfBirth       time.Time `json:"date_of_birth"`
	YearKnown         bool      `json:"year_known"`
	BirthdayToday     bool      `json:"birthday_today"`
	NextBirthday      time.Time `json:"next_birthday"`
	NextHalfBirthday  time.Time `json:"next_half_birthday"`
	DaysUntilBirthday int       `json:"days_until_birthday"`

	// AgeNext is the age turned on NextBirthday. Zero when the year is unknown.
	AgeNext int `json:"age_next"`

	// AgeYears is the fractional age in mean Gregorian years. Zero when the year is unknown.
	AgeYears float64 `json:"age_years"`
}

// SourceConfig locates the address book.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string
	WebURL    string
	WebUser   string
	WebPass   string
}

// LoadPeople opens the configured source and decodes every person with a birthday.
func LoadPeople(ctx context.Context, fetcher VCardFetcher, src SourceConfig) ([]Person, error) {
	reader, err := acquireStream(ctx, fetcher, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodePeople(ctx, reader)
}

// acquireStream opens the appropriate data source based on configuration.
func acquireStream(ctx context.Context, fetcher VCardFetcher, src SourceConfig) (io.ReadCloser, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(src.LocalPath)
	case config.SourceModeWeb:
		if src.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return fetcher.Fetch(ctx, src.WebURL, src.WebUser, src.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

// DecodePeople reads vCards from r. Malformed cards and unparsable dates are
// logged and skipped; cards without BDAY are ignored.
func DecodePeople(ctx context.Context, r io.Reader) ([]Person, error) {
	decoder := vcard.NewDecoder(r)
	var people []Person
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			// Stop at the first syntax error: a failing reader would repeat it forever.
			break
		}
		total++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		dob, yearKnown, err := ParseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Name(); n != nil {
			name = strings.TrimSpace(n.GivenName + " " + n.FamilyName)
		}

		p := Person{
			Name:        name,
			DateOfBirth: dob,
			YearKnown:   yearKnown,
			UID:         card.Value(config.VCardUID),
			Color:       card.Value(config.VCardColor),
		}
		if p.UID == "" {
			p.UID = personHash(name, dob)
		}
		people = append(people, p)
	}

	slog.Debug(config.MsgBookDecoded,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyTotal, total,
		config.LogKeyFound, len(people))
	return people, nil
}

// personHash derives a UID that stays stable across refreshes.
func personHash(name string, dob time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, name, dob.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// Project computes each person's anniversaries relative to now and returns
// them ordered by next birthday, then name.
func Project(now time.Time, people []Person) []Anniversary {
	out := make([]Anniversary, 0, len(people))
	for _, p := range people {
		out = append(out, project(now, p))
	}

	slices.SortFunc(out, func(a, b Anniversary) int {
		if c := a.NextBirthday.Compare(b.NextBirthday); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func project(now time.Time, p Person) Anniversary {
	_, month, day := p.DateOfBirth.Date()
	thisYear := chrono.ClampToMonth(now.Year(), month, day, now.Location())
	next := chrono.NextBirthday(p.DateOfBirth, now)

	a := Anniversary{
		UID:               p.UID,
		Name:              p.Name,
		Color:             p.Color,
		DateOfBirth:       p.DateOfBirth,
		YearKnown:         p.YearKnown,
		BirthdayToday:     chrono.SameDay(thisYear, now) && (!p.YearKnown || p.DateOfBirth.Year() <= now.Year()),
		NextBirthday:      next,
		NextHalfBirthday:  chrono.NextHalfBirthday(p.DateOfBirth, now),
		DaysUntilBirthday: chrono.DaysUntil(next, now),
	}
	if p.YearKnown {
		a.AgeNext = next.Year() - p.DateOfBirth.Year()
		a.AgeYears = chrono.AgeInYears(p.birthInstant(now.Location()), now, chrono.DefaultAgePrecision)
	}
	return a
}

// birthInstant places the birth date at midnight in loc so that fractional
// ages are measured between local days, like the other projections.
func (p Person) birthInstant(loc *time.Location) time.Time {
	y, m, d := p.DateOfBirth.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate handles the BDAY formats seen in address books, plus the
// MM/DD/YYYY form used in hand-written lists.
func ParseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
		config.DateFormatUS,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (year unknown) are anchored on a leap year so --02-29 survives.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
