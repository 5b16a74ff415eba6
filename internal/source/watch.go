package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

const DefaultDebounce = 500 * time.Millisecond

// Sync re-reads path and inserts every valid scenario whose id is not yet
// in store. Existing scenarios are never replaced. It returns the added ids.
func Sync(path string, store *scenario.Store) ([]string, scenario.LoadReport, error) {
	fresh, report, err := LoadStore(path, scenario.LoadOptions{Lenient: true})
	if err != nil {
		return nil, report, err
	}

	var added []string
	for _, id := range fresh.IDs() {
		if store.Has(id) {
			continue
		}
		sc, err := fresh.Get(id)
		if err != nil {
			continue
		}
		// lost a race with another insert
		if err := store.Insert(sc); err != nil {
			continue
		}
		added = append(added, id)
	}
	return added, report, nil
}

// Watch adds new scenarios from path to store whenever the file changes,
// until ctx is cancelled. The parent directory is watched so that editors
// which replace the file on save are picked up.
func Watch(ctx context.Context, path string, store *scenario.Store, debounce time.Duration, logger *slog.Logger) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("Watching scenario file", "path", abs)

	var debounceTimer *time.Timer
	syncChan := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case syncChan <- struct{}{}:
				default:
				}
			})

		case <-syncChan:
			added, report, err := Sync(abs, store)
			if err != nil {
				logger.Warn("Failed to reload scenario file", "path", abs, "error", err)
				continue
			}
			for _, skipped := range report.Skipped {
				logger.Warn("Skipped invalid scenario", "path", abs, "error", skipped)
			}
			if len(added) > 0 {
				logger.Info("Added scenarios from file", "path", abs, "ids", added, "store_size", store.Len())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error", "error", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		}
	}
}
