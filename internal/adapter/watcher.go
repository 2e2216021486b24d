package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"

	m "testtree.dev/pkg/testtree/internal/model"
)

// DefaultWatchDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watcher reports changed Go source files under a root directory.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	clock     clock.Clock
	debounce  time.Duration
	events    chan m.Path
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher watches root and every directory below it that a walk would visit.
func NewWatcher(root m.Path, clk clock.Clock, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if clk == nil {
		clk = clock.New()
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		clock:     clk,
		debounce:  debounce,
		events:    make(chan m.Path, 10),
		done:      make(chan struct{}),
	}

	// fsnotify is not recursive, so every directory is added explicitly.
	err = filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if path != string(root) && skipDir(info.Name()) {
			return filepath.SkipDir
		}

		return w.fsWatcher.Add(path)
	})
	if err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	go w.loop()

	return w, nil
}

// Events delivers the last changed file of each debounced burst.
func (w *Watcher) Events() <-chan m.Path {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error

	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})

	return err
}

func (w *Watcher) loop() {
	var timer *clock.Timer

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}

			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := w.fsWatcher.Add(event.Name); err != nil {
						slog.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}

					continue
				}
			}

			if !strings.HasSuffix(event.Name, ".go") {
				continue
			}

			if timer != nil {
				timer.Stop()
			}

			changed := m.Path(event.Name)
			timer = w.clock.AfterFunc(w.debounce, func() {
				select {
				case w.events <- changed:
				case <-w.done:
				}
			})
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

			slog.Warn("watcher error", "error", err)
		}
	}
}
