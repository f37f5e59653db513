// Package watch re-runs a callback when files under a set of directories
// change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNothingToWatch is returned when none of the directories exist.
var ErrNothingToWatch = errors.New("no watchable directories")

// Watcher debounces filesystem events into single callback invocations.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger

	// Ready, if set, is called once all watches are registered.
	Ready func()
}

// New creates a Watcher over dirs.
func New(dirs []string, debounce time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{dirs: dirs, debounce: debounce, logger: logger}
}

// Start watches the directories and calls onChange after each burst of
// create, write, remove or rename events has been quiet for the debounce
// interval. Missing directories are skipped. Blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context, onChange func(context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	watched := 0
	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); err != nil {
			w.logger.Debug("watch: skipping directory", "dir", dir, "err", err)
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("watch: failed to watch directory", "dir", dir, "err", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return ErrNothingToWatch
	}
	if w.Ready != nil {
		w.Ready()
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("watch: change", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch: watcher error", "err", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	// Atomic saves write a .tmp file first; the rename onto the real name
	// produces its own event.
	return !strings.HasSuffix(event.Name, ".tmp")
}
