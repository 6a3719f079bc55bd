package assets

import (
	"fmt"
	"time"

	"github.com/shadowed-pilgrims/sotw/internal/log"
	"github.com/shadowed-pilgrims/sotw/internal/ui"
	"github.com/shadowed-pilgrims/sotw/internal/watcher"
)

// Recovery drives the remediation flow for a missing required archive: it
// keeps the insert-media prompt up, retries the search when the user says
// so, and (optionally) watches the search directories so that copying the
// archive in while the prompt is open retries automatically.
type Recovery struct {
	dialog   ui.Dialog
	watch    bool
	debounce time.Duration
}

// NewRecovery creates a recovery flow. watch enables the directory watcher,
// which runs with the watcher package's default debounce.
func NewRecovery(dialog ui.Dialog, watch bool) *Recovery {
	return &Recovery{dialog: dialog, watch: watch}
}

// Reacquire blocks until the named archive can be mounted or the user gives
// up, in which case it returns ErrRecoveryDeclined. searchDirs supplies the
// directories to watch; retry re-runs the full open attempt.
func (rc *Recovery) Reacquire(name string, searchDirs func() []string, retry func() *Mount) (*Mount, error) {
	var seen <-chan struct{}
	if rc.watch {
		wcfg := watcher.DefaultConfig(name)
		if rc.debounce > 0 {
			wcfg.DebounceDur = rc.debounce
		}
		w, err := watcher.New(wcfg)
		if err == nil {
			if ch, err := w.Start(searchDirs()); err == nil {
				seen = ch
				defer func() { _ = w.Stop() }()
			} else {
				_ = w.Stop()
			}
		}
	}

	// The prompt blocks on user input, so it runs on its own goroutine and
	// races the watcher. Buffered so an abandoned prompt can still finish.
	answers := make(chan bool, 1)
	ask := func() {
		go func() { answers <- rc.dialog.InsertMedia(name) }()
	}
	ask()

	for {
		select {
		case retryWanted := <-answers:
			if !retryWanted {
				log.Error(log.CatAssets, "Recovery declined", "archive", name)
				return nil, fmt.Errorf("%s: %w", name, ErrRecoveryDeclined)
			}
			if mount := retry(); mount != nil {
				return mount, nil
			}
			ask()
		case <-seen:
			if mount := retry(); mount != nil {
				// The pending prompt is abandoned; its goroutine ends the
				// next time the input stream yields a line.
				log.Info(log.CatAssets, "Archive appeared while prompt was open", "archive", name)
				return mount, nil
			}
		}
	}
}
