package app

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-devotional/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// NewBundle loads every embedded locales/active.<lang>.json file and returns
// the bundle with the language codes it found.
func NewBundle() (*i18n.Bundle, []string) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return bundle, nil
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	return bundle, detectedLangs
}

// Translator localises event summaries and status lines. A nil Localizer
// falls back to the English format strings in config.
type Translator struct {
	Localizer *i18n.Localizer
}

// NewTranslator returns a Translator for lang.
func NewTranslator(bundle *i18n.Bundle, lang string) Translator {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	return Translator{Localizer: i18n.NewLocalizer(bundle, lang)}
}

// localize translates key, or returns "" when the key cannot be rendered.
func (t Translator) localize(lc *i18n.LocalizeConfig) string {
	if t.Localizer == nil {
		return ""
	}
	msg, err := t.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return ""
	}
	return msg
}

// BirthdaySummary formats the summary of a birthday event.
// Age 0 is the day of birth.
func (t Translator) BirthdaySummary(name string, age int, yearKnown bool) string {
	switch {
	case !yearKnown:
		if msg := t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtSummary,
			TemplateData: map[string]any{"Name": name},
		}); msg != "" {
			return msg
		}
		return fmt.Sprintf(config.FallbackSummary, name)

	case age == 0:
		if msg := t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtSummaryBirth,
			TemplateData: map[string]any{"Name": name},
		}); msg != "" {
			return msg
		}
		return fmt.Sprintf(config.FallbackSummaryBirth, name)

	default:
		if msg := t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtSummaryAge,
			TemplateData: map[string]any{"Name": name, "Age": age},
		}); msg != "" {
			return msg
		}
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
}

// HalfBirthdaySummary formats the summary of a half-birthday event.
func (t Translator) HalfBirthdaySummary(name string) string {
	if msg := t.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyEvtHalfBirthday,
		TemplateData: map[string]any{"Name": name},
	}); msg != "" {
		return msg
	}
	return fmt.Sprintf(config.FallbackHalfBirthday, name)
}

// WeekSummary formats the summary of the devotional week event, or returns
// "" so that devotion.WeekEvent applies its default.
func (t Translator) WeekSummary(week int, plan string) string {
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyEvtWeekSummary,
		TemplateData: map[string]any{"Week": week, "Plan": plan},
	})
}

// Status describes today's birthdays; a negative count means the last sync failed.
func (t Translator) Status(count int) string {
	switch {
	case count < 0:
		if msg := t.localize(&i18n.LocalizeConfig{MessageID: config.TKeyStatusSyncError}); msg != "" {
			return msg
		}
		return config.FallbackStatusError

	case count == 0:
		if msg := t.localize(&i18n.LocalizeConfig{MessageID: config.TKeyStatusTodayZero}); msg != "" {
			return msg
		}
		return fmt.Sprintf(config.FallbackStatusToday, 0)

	default:
		if msg := t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyStatusToday,
			TemplateData: map[string]any{"Count": count},
			PluralCount:  count,
		}); msg != "" {
			return msg
		}
		return fmt.Sprintf(config.FallbackStatusToday, count)
	}
}
