package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/tartampluch/go-devotional/internal/chrono"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings wraps every validation failure reported by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the user's persisted preferences.
type Settings struct {
	// WeekScheme selects the week numbering (iso, us, ordinal).
	WeekScheme string `yaml:"week_scheme"`

	// MeetingDay is the weekday the devotional week starts on (0 = Sunday).
	MeetingDay int `yaml:"meeting_day"`

	// ReadingPlan is one of ReadingPlans.
	ReadingPlan string `yaml:"reading_plan"`

	// PlanFile points to the JSON reading plan data. Optional.
	PlanFile string `yaml:"plan_file,omitempty"`

	// WeekOffset shifts the displayed week: 0 = this week, -1 = last week.
	WeekOffset int `yaml:"week_offset"`

	// CompletedDays are ISO dates (YYYY-MM-DD) the user marked as read.
	CompletedDays []string `yaml:"completed_days"`

	Language string           `yaml:"language"`
	Source   SourceSettings   `yaml:"source"`
	Server   ServerSettings   `yaml:"server"`
	Reminder ReminderSettings `yaml:"reminder"`
}

// SourceSettings locates the vCard address book holding the people.
type SourceSettings struct {
	Mode      string `yaml:"mode"`
	LocalPath string `yaml:"local_path,omitempty"`
	WebURL    string `yaml:"web_url,omitempty"`
	WebUser   string `yaml:"web_user,omitempty"`
}

// ServerSettings configures the feed server and its refresh worker.
type ServerSettings struct {
	Port           string `yaml:"port"`
	RefreshMinutes int    `yaml:"refresh_minutes"`
}

// ReminderSettings describes the optional VALARM added to anniversary events.
type ReminderSettings struct {
	Enabled   bool   `yaml:"enabled"`
	Value     int    `yaml:"value"`
	Unit      string `yaml:"unit"`
	Direction string `yaml:"direction"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		WeekScheme:    DefaultWeekScheme,
		MeetingDay:    DefaultMeetingDay,
		ReadingPlan:   DefaultReadingPlan,
		CompletedDays: []string{},
		Language:      DefaultLanguage,
		Source: SourceSettings{
			Mode: SourceModeLocal,
		},
		Server: ServerSettings{
			Port:           DefaultPort,
			RefreshMinutes: DefaultRefreshMin,
		},
		Reminder: ReminderSettings{
			Value:     DefaultReminderValue,
			Unit:      UnitDays,
			Direction: DirBefore,
		},
	}
}

// DefaultSettingsPath returns <UserConfigDir>/<AppID>/settings.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// LoadSettings reads the YAML file at path on top of DefaultSettings.
// A missing file is not an error: the defaults are returned.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug(MsgSettingsNew, LogKeyComponent, CompConfig, LogKeyPath, path)
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	if s.CompletedDays == nil {
		s.CompletedDays = []string{}
	}
	return s, nil
}

// SaveSettings writes s to path, creating the directory if needed.
// The file is written to a sibling temp file first and renamed into place.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}

	slog.Debug(MsgSettingsSaved, LogKeyComponent, CompConfig, LogKeyPath, path)
	return nil
}

// ApplyEnv overrides fields from environment variables (see EnvPort, EnvScheme).
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EnvPort); v != "" {
		s.Server.Port = v
		slog.Debug(MsgEnvOverride, LogKeyComponent, CompConfig, LogKeyEnv, EnvPort)
	}
	if v := os.Getenv(EnvScheme); v != "" {
		s.WeekScheme = v
		slog.Debug(MsgEnvOverride, LogKeyComponent, CompConfig, LogKeyEnv, EnvScheme)
	}
}

// Scheme returns the parsed week scheme. Call Validate first.
func (s Settings) Scheme() chrono.WeekScheme {
	scheme, err := chrono.ParseWeekScheme(s.WeekScheme)
	if err != nil {
		return chrono.WeekScheme(DefaultWeekScheme)
	}
	return scheme
}

// WeekStart returns MeetingDay as a time.Weekday.
func (s Settings) WeekStart() time.Weekday {
	return time.Weekday(s.MeetingDay)
}

// Validate checks every field and returns all violations joined together.
func (s Settings) Validate() error {
	var errs []error

	if _, err := chrono.ParseWeekScheme(s.WeekScheme); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ErrWeekScheme, err))
	}
	if s.MeetingDay < MinWeekday || s.MeetingDay > MaxWeekday {
		errs = append(errs, fmt.Errorf("%s: %d", ErrMeetingDay, s.MeetingDay))
	}
	if !slices.Contains(ReadingPlans, s.ReadingPlan) {
		errs = append(errs, fmt.Errorf("%s: %q", ErrReadingPlan, s.ReadingPlan))
	}
	for _, day := range s.CompletedDays {
		if _, err := time.Parse(DateFormatFullDash, day); err != nil {
			errs = append(errs, fmt.Errorf("%s: %q", ErrCompletedDay, day))
		}
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		errs = append(errs, fmt.Errorf("%s: %q", ErrLanguage, s.Language))
	}
	if s.Source.Mode != SourceModeLocal && s.Source.Mode != SourceModeWeb {
		errs = append(errs, fmt.Errorf("%s: %q", ErrModeUnsupport, s.Source.Mode))
	}
	if err := ValidatePort(s.Server.Port); err != nil {
		errs = append(errs, err)
	}
	if s.Server.RefreshMinutes <= 0 {
		errs = append(errs, errors.New(ErrRefreshInterval))
	}
	if s.Reminder.Enabled {
		switch s.Reminder.Unit {
		case UnitDays, UnitHours, UnitMinutes:
		default:
			errs = append(errs, fmt.Errorf("%s: %q", ErrReminderUnit, s.Reminder.Unit))
		}
		if s.Reminder.Direction != DirBefore && s.Reminder.Direction != DirAfter {
			errs = append(errs, fmt.Errorf("%s: %q", ErrReminderDir, s.Reminder.Direction))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}

// ValidatePort checks that port is a number in MinPort..MaxPort.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
