// Package internalwatch notices changes to the directories a catalog is built from.
package internalwatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher signals, debounced, when entries are created, written, removed, or renamed in the watched directories.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	logger    *zap.Logger
	onChange  chan struct{}
	done      chan struct{}

	mu      sync.Mutex
	watched map[string]bool
}

// Config holds watcher configuration options.
type Config struct {
	DebounceDur time.Duration
	Logger      *zap.Logger
}

// DefaultConfig returns the defaults for the watcher.
func DefaultConfig() Config {
	return Config{
		DebounceDur: 250 * time.Millisecond,
		Logger:      zap.NewNop(),
	}
}

// New creates a watcher watching nothing yet.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  cfg.DebounceDur,
		logger:    logger,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
		watched:   map[string]bool{},
	}, nil
}

// Sync makes the watched directories exactly dirs.
//
// Directories that do not exist are skipped.
func (w *Watcher) Sync(dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wanted := map[string]bool{}
	for _, dir := range dirs {
		wanted[dir] = true
	}

	for dir := range w.watched {
		if wanted[dir] {
			continue
		}
		if err := w.fsWatcher.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			w.logger.Warn("couldn't unwatch directory", zap.String("dir", dir), zap.Error(err))
		}
		delete(w.watched, dir)
	}

	for dir := range wanted {
		if w.watched[dir] {
			continue
		}
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			w.logger.Debug("not watching missing directory", zap.String("dir", dir))

			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
		w.watched[dir] = true
	}

	return nil
}

// Watched returns the watched directories, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, 0, len(w.watched))
	for dir := range w.watched {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	return dirs
}

// Start begins processing events.
//
// The returned channel receives a signal after a burst of changes settles.
func (w *Watcher) Start() <-chan struct{} {
	go w.loop()

	return w.onChange
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)

	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("change", zap.String("name", event.Name), zap.Stringer("op", event.Op))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}

			return nil
		}():
			if pending {
				// Drop the signal when one is already waiting
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}

			return
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
