package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the simulation config whenever path changes and hands the
// result to onChange. Invalid files are logged and skipped; the previous
// config stays in effect. Blocks until ctx is canceled.
//
// The parent directory is watched, not the file, so editors that replace the
// file via rename are handled.
func Watch(ctx context.Context, path string, onChange func(Simulation)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving config path %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching config dir %s: %w", filepath.Dir(abs), err)
	}

	slog.Info("config watcher started", "path", abs)

	for {
		select {
		case <-ctx.Done():
			slog.Info("config watcher stopping")
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}

			cfg, err := LoadSimulation(abs)
			if err != nil {
				slog.Warn("config reload failed, keeping previous", "path", abs, "error", err)
				continue
			}
			slog.Info("config reloaded", "path", abs, "profiles", len(cfg.Profiles))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watcher error", "error", err)
		}
	}
}
