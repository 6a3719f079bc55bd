// Package watcher provides file system watching with debouncing for archive
// files appearing in the search directories while a remediation prompt is open.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the search directories for a named archive file and sends
// a notification when it shows up (the user copying it in while the
// insert-media prompt is on screen).
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	filename  string
	debounce  time.Duration
	onSeen    chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Filename is the archive file name to watch for, compared
	// case-insensitively (retail media ships some archives upper-case).
	Filename string

	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(filename string) Config {
	return Config{
		Filename:    filename,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new archive watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		filename:  cfg.Filename,
		debounce:  cfg.DebounceDur,
		onSeen:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching dirs. Entries that do not exist are skipped and ""
// means the current working directory.
// Returns a channel that receives a signal when the archive file appears.
func (w *Watcher) Start(dirs []string) (<-chan struct{}, error) {
	watched := 0
	for _, dir := range dirs {
		if dir == "" {
			dir = "."
		}
		if err := w.fsWatcher.Add(filepath.Clean(dir)); err == nil {
			watched++
		}
	}
	if watched == 0 {
		return nil, fmt.Errorf("no watchable directories among %d candidates", len(dirs))
	}

	go w.loop()

	return w.onSeen, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing. A copy in progress
// produces a burst of writes; the debounce delays the retry until the burst
// settles so a half-copied archive is not opened.
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

			if !w.isRelevantEvent(event) {
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onSeen <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching; callers can wrap the watcher if they need
			// error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event concerns the watched archive file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	return strings.EqualFold(filepath.Base(event.Name), w.filename)
}
