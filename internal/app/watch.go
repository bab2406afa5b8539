package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-devotional/internal/config"
)

// watchSettings reloads the settings file whenever it changes on disk, so that
// edits made by `done` or by hand reach a running server. The directory is
// watched rather than the file because editors replace files on save.
func (c *Companion) watchSettings(ctx context.Context) {
	log := slog.With(
		config.LogKeyComponent, config.CompApp,
		config.LogKeyPath, c.SettingsPath,
	)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn(config.ErrWatchSettings, config.LogKeyError, err)
		return
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(c.SettingsPath)); err != nil {
		log.Warn(config.ErrWatchSettings, config.LogKeyError, err)
		return
	}
	log.Debug(config.MsgWatchStart)

	target := filepath.Clean(c.SettingsPath)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			log.Info(config.MsgSettingsReload)
			c.reloadSettings()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn(config.ErrWatchSettings, config.LogKeyError, err)
		}
	}
}

// reloadSettings re-reads the settings file and signals the worker. Invalid
// files are logged and the current settings stay in effect.
func (c *Companion) reloadSettings() {
	s, err := config.LoadSettings(c.SettingsPath)
	if err == nil {
		s.ApplyEnv()
		err = s.Validate()
	}
	if err != nil {
		slog.Warn(config.ErrSettingsRead,
			config.LogKeyComponent, config.CompApp,
			config.LogKeyError, err)
		return
	}

	c.apply(s)

	select {
	case c.configChan <- struct{}{}:
	default:
	}
}
