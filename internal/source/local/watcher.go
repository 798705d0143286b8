package local

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const defaultDebounce = 150 * time.Millisecond

// Watcher reports changes to the single directory currently on screen.
// Bursts of events are coalesced into one notification.
type Watcher struct {
	src      *Source
	fsw      *fsnotify.Watcher
	onChange func()
	debounce time.Duration

	mu      sync.Mutex
	current string
	timer   *time.Timer
}

// NewWatcher starts an fsnotify watcher. onChange runs on the watcher's
// goroutine and must not block.
func NewWatcher(src *Source, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		src:      src,
		fsw:      fsw,
		onChange: onChange,
		debounce: defaultDebounce,
	}, nil
}

// Follow switches the watch to the directory at path.
func (w *Watcher) Follow(path []string) error {
	dir, err := w.src.Dir(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.current {
		return nil
	}
	if w.current != "" {
		_ = w.fsw.Remove(w.current)
		w.current = ""
	}
	if err := w.fsw.Add(dir); err != nil {
		return errors.Errorf("watching %q: %w", dir, err)
	}
	w.current = dir
	return nil
}

// Run forwards events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			logger.Debug().Str("event", ev.String()).Msg("directory changed")
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
