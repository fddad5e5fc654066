package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
)

// Watcher re-runs a callback when a file changes, coalescing bursts of
// events into one run per debounce window.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(ctx context.Context)

	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	trigger  chan struct{}
	done     sync.WaitGroup
}

// NewWatcher watches path and calls onChange after writes settle.
func NewWatcher(path string, debounce time.Duration, onChange func(ctx context.Context)) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, ErrWatchSetup.WithCause(err).WithContext("file", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrWatchSetup.WithCause(err).WithContext("file", path)
	}

	return &Watcher{
		path:     absPath,
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		stopChan: make(chan struct{}),
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Start begins watching. The directory is watched rather than the file so
// editors that replace the file on save are still noticed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		_ = w.Stop()
		return ErrWatchSetup.WithCause(err).WithContext("dir", dir)
	}
	slog.Info("Watching script", logfields.File(w.path), slog.Duration("debounce", w.debounce))

	w.done.Add(2)
	go w.watchLoop(ctx)
	go w.runLoop(ctx)
	return nil
}

// Stop ends watching and waits for the loops to exit. A run already in
// progress is allowed to finish.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		w.done.Wait()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.done.Done()
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Rename):
				slog.Debug("Script change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
				w.poke()
			case event.Op.Has(fsnotify.Remove):
				slog.Warn("Script removed", logfields.File(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Script watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) poke() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) runLoop(ctx context.Context) {
	defer w.done.Done()
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.trigger:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange(ctx)
		}
	}
}
