// Package watch notices wallpapers being added to or removed from the
// workshop directory.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultDebounce is how long the directory has to be quiet before a change
// is reported. Steam writes a wallpaper in many small steps.
const DefaultDebounce = 2 * time.Second

type Watcher struct {
	dir      string
	debounce time.Duration
	logger   hclog.Logger
	fs       *fsnotify.Watcher
}

// New starts watching dir. Events are only delivered once Run is called.
func New(dir string, debounce time.Duration, logger hclog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{dir: dir, debounce: debounce, logger: logger, fs: fsw}, nil
}

// Run calls onChange after each burst of create, remove or rename events.
// It blocks until ctx is cancelled and closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fs.Close()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Trace("directory event", "event", event.String())

			mu.Lock()
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					if ctx.Err() != nil {
						return
					}
					w.logger.Debug("wallpaper directory changed", "path", w.dir)
					onChange()
				})
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "path", w.dir, "error", err)
		}
	}
}
