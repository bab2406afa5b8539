// Package app runs the companion: it keeps the feed server fed from a
// background worker and applies settings changes as they happen.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/emersion/go-ical"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-devotional/internal/config"
	"github.com/tartampluch/go-devotional/internal/devotion"
	"github.com/tartampluch/go-devotional/internal/engine"
	"github.com/tartampluch/go-devotional/internal/server"
	"github.com/zalando/go-keyring"
	"golang.org/x/sync/errgroup"
)

// Companion wires settings, the generators and the feed server together.
type Companion struct {
	SettingsPath string
	Server       *server.FeedServer // nil for one-shot CLI commands
	Fetcher      engine.VCardFetcher
	Clock        engine.Clock

	bundle *i18n.Bundle

	mu       sync.RWMutex
	settings config.Settings
	plans    devotion.PlanSource
	tr       Translator
	last     server.Snapshot

	configChan chan struct{}
}

// New constructs the companion from validated settings.
func New(settings config.Settings, settingsPath string, srv *server.FeedServer, fetcher engine.VCardFetcher) *Companion {
	bundle, _ := NewBundle()

	c := &Companion{
		SettingsPath: settingsPath,
		Server:       srv,
		Fetcher:      fetcher,
		Clock:        engine.RealClock{},
		bundle:       bundle,
		configChan:   make(chan struct{}, config.ChannelBufferSize),
	}
	c.apply(settings)
	return c
}

// apply installs s together with the plan data and translator it selects.
func (c *Companion) apply(s config.Settings) {
	plans := LoadPlanSource(s)
	tr := NewTranslator(c.bundle, s.Language)

	c.mu.Lock()
	c.settings = s
	c.plans = plans
	c.tr = tr
	c.mu.Unlock()
}

func (c *Companion) state() (config.Settings, devotion.PlanSource, Translator) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings, c.plans, c.tr
}

// Settings returns the settings currently in effect.
func (c *Companion) Settings() config.Settings {
	s, _, _ := c.state()
	return s
}

// LoadPlanSource opens the plan file named by s. It returns nil when no file
// is configured or it cannot be read, in which case weeks carry no reading.
func LoadPlanSource(s config.Settings) devotion.PlanSource {
	if s.PlanFile == "" {
		return nil
	}
	plans, err := devotion.LoadPlans(s.PlanFile)
	if err != nil {
		slog.Warn(config.ErrPlanFile,
			config.LogKeyComponent, config.CompApp,
			config.LogKeyPath, s.PlanFile,
			config.LogKeyError, err)
		return nil
	}
	return plans
}

// Run starts the HTTP server, the sync worker and the settings watcher, and
// blocks until ctx is cancelled or the server fails.
func (c *Companion) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Start(ctx)
	})
	g.Go(func() error {
		c.backgroundWorker(ctx)
		return nil
	})
	if c.SettingsPath != "" {
		g.Go(func() error {
			c.watchSettings(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (c *Companion) interval() time.Duration {
	s, _, _ := c.state()
	minutes := s.Server.RefreshMinutes
	if minutes <= 0 {
		minutes = config.DefaultRefreshMin
	}
	return time.Duration(minutes) * time.Minute
}

// backgroundWorker manages the periodic synchronization schedule.
func (c *Companion) backgroundWorker(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	c.performSync(ctx)

	currentDuration := c.interval()
	ticker := time.NewTicker(currentDuration)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-c.configChan:
			if d := c.interval(); d != currentDuration {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, currentDuration, config.LogKeyNew, d)
				currentDuration = d
				ticker.Reset(d)
			}
			c.performSync(ctx)

		case <-ticker.C:
			c.performSync(ctx)
		}
	}
}

func (c *Companion) performSync(ctx context.Context) {
	slog.Info(config.MsgSyncReq, config.LogKeyComponent, config.CompWorker)
	if _, err := c.Sync(ctx); err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err)
	}
}

// Sync resolves the devotional week and the header, regenerates the feed and
// publishes all of it. When the address book cannot be read, the week and
// header are still published next to the previous feed.
func (c *Companion) Sync(ctx context.Context) (server.Snapshot, error) {
	s, plans, tr := c.state()
	now := c.Clock.Now()

	week := devotion.Resolve(now, devotion.PreferencesFrom(s), plans)
	header := BuildHeaderView(now, s.Scheme())

	cfg := c.loadSyncConfig(s)
	cfg.Extra = []*ical.Event{devotion.WeekEvent(week, tr.WeekSummary(week.Number, week.Plan))}

	gen := &engine.Generator{
		Clock:             engine.FixedClock{T: now},
		Fetcher:           c.Fetcher,
		FormatSummary:     tr.BirthdaySummary,
		FormatHalfSummary: tr.HalfBirthdaySummary,
	}
	res, err := gen.RunSync(ctx, cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	snap := server.Snapshot{Week: week}
	if err != nil {
		header.Status = tr.Status(-1)
		snap.ICS, snap.People = c.last.ICS, c.last.People
	} else {
		header.Status = tr.Status(res.TodayCount)
		snap.ICS, snap.People = res.ICS, res.People
	}
	snap.Header = header
	c.last = snap

	if c.Server != nil {
		c.Server.Update(snap)
	}
	return snap, err
}

// People loads the address book and projects it against the clock.
func (c *Companion) People(ctx context.Context) ([]engine.Anniversary, error) {
	s, _, _ := c.state()
	people, err := engine.LoadPeople(ctx, c.Fetcher, c.loadSyncConfig(s).Source)
	if err != nil {
		return nil, err
	}
	return engine.Project(c.Clock.Now(), people), nil
}

// Week resolves the devotional week shown for the clock's date.
func (c *Companion) Week() devotion.Week {
	s, plans, _ := c.state()
	return devotion.Resolve(c.Clock.Now(), devotion.PreferencesFrom(s), plans)
}

// MarkDay records day as completed (or not, with undo) and saves it. Only the
// completed days change on disk: the file is re-read so that environment
// overrides in effect for this process are not persisted.
func (c *Companion) MarkDay(day time.Time, undo bool) error {
	stored, err := config.LoadSettings(c.SettingsPath)
	if err != nil {
		return err
	}
	if undo {
		stored.CompletedDays = devotion.UnmarkCompleted(stored.CompletedDays, day)
	} else {
		stored.CompletedDays = devotion.MarkCompleted(stored.CompletedDays, day)
	}

	if err := config.SaveSettings(c.SettingsPath, stored); err != nil {
		return err
	}

	s, _, _ := c.state()
	s.CompletedDays = stored.CompletedDays
	c.apply(s)

	slog.Info(config.MsgDayMarked,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyValue, day.Format(config.DateFormatFullDash),
		config.LogKeyCount, len(s.CompletedDays))
	return nil
}

// loadSyncConfig assembles the engine configuration from settings and Keyring.
func (c *Companion) loadSyncConfig(s config.Settings) engine.SyncConfig {
	cfg := engine.SyncConfig{
		Source: engine.SourceConfig{
			Mode:      s.Source.Mode,
			LocalPath: s.Source.LocalPath,
			WebURL:    s.Source.WebURL,
			WebUser:   s.Source.WebUser,
		},
		ReminderTrigger: ReminderTrigger(s.Reminder),
	}

	if cfg.Source.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.Source.WebUser); err == nil {
			cfg.Source.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.Source.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompApp)
		}
	}

	return cfg
}

// ReminderTrigger converts reminder settings to an ISO 8601 duration such as
// "-P1D" or "PT2H". It returns "" when reminders are disabled.
func ReminderTrigger(r config.ReminderSettings) string {
	if !r.Enabled {
		return ""
	}

	sign := config.ISOPeriodPrefix
	if r.Direction == config.DirBefore {
		sign = config.ISONegativePrefix
	}

	switch r.Unit {
	case config.UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTime, r.Value, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTime, r.Value, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, r.Value, config.ISODay)
	}
}
