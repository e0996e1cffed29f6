package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits after the last event before
// reloading. Editors often write a file in several steps.
const WatchDebounce = 75 * time.Millisecond

// Watch reloads the config at configPath whenever it changes and hands
// every valid result to onChange. Invalid files are logged and skipped.
// The parent directory is watched so atomic renames are seen too.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(configPath)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			cfg, err := LoadConfig(target)
			if err != nil {
				log.Warnf("Config reload skipped: %v", err)
				continue
			}
			log.Debugf("Reloaded config from %s", target)
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("[watch] error: %v", err)
		}
	}
}
