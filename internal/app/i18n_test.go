package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-devotional/internal/chrono"
	"github.com/tartampluch/go-devotional/internal/config"
)

var translationKeys = []string{
	config.TKeyEvtSummary,
	config.TKeyEvtSummaryAge,
	config.TKeyEvtSummaryBirth,
	config.TKeyEvtHalfBirthday,
	config.TKeyEvtWeekSummary,
	config.TKeyStatusToday,
	config.TKeyStatusTodayZero,
	config.TKeyStatusSyncError,
}

// TestI18nIntegrity ensures every translation key exists in every embedded
// locale, and that no locale carries keys the code never asks for.
func TestI18nIntegrity(t *testing.T) {
	_, langs := NewBundle()
	assert.ElementsMatch(t, config.SupportedLanguages, langs)

	for _, lang := range langs {
		t.Run(lang, func(t *testing.T) {
			content, err := localeFS.ReadFile("locales/active." + lang + ".json")
			require.NoError(t, err)

			var messages map[string]any
			require.NoError(t, json.Unmarshal(content, &messages), "JSON must be valid")

			for _, key := range translationKeys {
				assert.Containsf(t, messages, key, "key %q missing in %s", key, lang)
			}
			assert.Len(t, messages, len(translationKeys), "orphan keys in %s", lang)
		})
	}
}

func TestTranslator(t *testing.T) {
	bundle, _ := NewBundle()

	tests := []struct {
		lang     string
		age      string
		birth    string
		unknown  string
		half     string
		week     string
		none     string
		one      string
		many     string
		syncFail string
	}{
		{
			lang: "en", age: "Birthday: Ada (36)", birth: "Birthday: Ada (birth)", unknown: "Birthday: Ada",
			half: "Half-birthday: Ada", week: "Week 43: New Testament",
			none: "No birthdays today", one: "1 birthday today", many: "3 birthdays today", syncFail: "Sync error",
		},
		{
			lang: "fr", age: "Anniversaire : Ada (36 ans)", birth: "Naissance : Ada", unknown: "Anniversaire : Ada",
			half: "Demi-anniversaire : Ada", week: "Semaine 43 : New Testament",
			none: "Aucun anniversaire aujourd'hui", one: "1 anniversaire aujourd'hui", many: "3 anniversaires aujourd'hui",
			syncFail: "Erreur de synchronisation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			tr := NewTranslator(bundle, tt.lang)
			assert.Equal(t, tt.age, tr.BirthdaySummary("Ada", 36, true))
			assert.Equal(t, tt.birth, tr.BirthdaySummary("Ada", 0, true))
			assert.Equal(t, tt.unknown, tr.BirthdaySummary("Ada", 0, false))
			assert.Equal(t, tt.half, tr.HalfBirthdaySummary("Ada"))
			assert.Equal(t, tt.week, tr.WeekSummary(43, config.PlanNewTestament))
			assert.Equal(t, tt.none, tr.Status(0))
			assert.Equal(t, tt.one, tr.Status(1))
			assert.Equal(t, tt.many, tr.Status(3))
			assert.Equal(t, tt.syncFail, tr.Status(-1))
		})
	}
}

func TestTranslator_Fallbacks(t *testing.T) {
	var tr Translator

	assert.Equal(t, "Birthday: Ada (36)", tr.BirthdaySummary("Ada", 36, true))
	assert.Equal(t, "Birthday: Ada (birth)", tr.BirthdaySummary("Ada", 0, true))
	assert.Equal(t, "Birthday: Ada", tr.BirthdaySummary("Ada", 0, false))
	assert.Equal(t, "Half-birthday: Ada", tr.HalfBirthdaySummary("Ada"))
	assert.Empty(t, tr.WeekSummary(43, config.PlanNewTestament))
	assert.Equal(t, "2 birthday(s) today", tr.Status(2))
	assert.Equal(t, config.FallbackStatusError, tr.Status(-1))
}

func TestTranslator_UnknownLanguageUsesEnglish(t *testing.T) {
	bundle, _ := NewBundle()
	tr := NewTranslator(bundle, "de")
	assert.Equal(t, "Half-birthday: Ada", tr.HalfBirthdaySummary("Ada"))
}

func TestBuildHeaderView(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	v := BuildHeaderView(now, chrono.SchemeISO)
	assert.Equal(t, "292/73 • 2026 • Week 43 • Mon, Oct 19", v.Header)
	assert.Equal(t, "2026-10-19", v.Date)
	assert.Equal(t, "Mon, Oct 19, 2026", v.Label)
	assert.Equal(t, 292, v.DayOfYear)
	assert.Equal(t, 73, v.DaysRemaining)
	assert.Equal(t, chrono.ISOWeekOf{Year: 2026, Week: 43}, v.ISOWeek)

	ordinal := BuildHeaderView(now, chrono.SchemeOrdinal)
	assert.Equal(t, 42, ordinal.Week)
	assert.Equal(t, v.ISOWeek, ordinal.ISOWeek, "ISO week is always reported")
}
