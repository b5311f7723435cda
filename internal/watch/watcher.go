// Package watch re-runs a callback whenever a watched file settles after a change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before its callback fires.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the path of a file that changed. Errors are logged and counted;
// the watcher keeps running.
type Handler func(ctx context.Context, path string) error

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Runs          int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastEventType string
}

// Watcher watches individual files. It subscribes to their parent directories so editors
// that save by rename-and-replace are still seen.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	files       map[string]bool
	handler     Handler
	logger      *zap.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	tick        time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDur = d
		if d/3 < w.tick {
			w.tick = max(d/3, time.Millisecond)
		}
	}
}

// New creates a Watcher for files. Nothing is watched until Start.
func New(files []string, handler Handler, logger *zap.Logger, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to watch")
	}
	if handler == nil {
		return nil, errors.New("nil handler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		files:       make(map[string]bool, len(files)),
		handler:     handler,
		logger:      logger,
		debounceMap: make(map[string]time.Time),
		debounceDur: DefaultDebounce,
		tick:        100 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
	}
	for _, opt := range opts {
		opt(w)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = fw
	return w, nil
}

// Start subscribes to the files' directories and starts the event loop in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Unlock()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop stops the event loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("error closing watcher", zap.Error(err))
	}
	w.logger.Debug("watcher stopped")
}

// Run starts the watcher and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	<-ctx.Done()
	w.Stop()
	return ctx.Err()
}

// run is the event loop. Handlers run on this goroutine, so runs never overlap.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processDebouncedEvents(ctx)
		}
	}
}

// handleEvent records a change to a watched file for debouncing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	case event.Op&fsnotify.Remove != 0:
		eventType = "delete"
	default:
		return
	}
	w.logger.Debug("file event", zap.String("type", eventType), zap.String("path", path))

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = path
	w.stats.LastEventType = eventType
	w.debounceMap[path] = time.Now()
	w.mu.Unlock()
}

// processDebouncedEvents fires the handler for files quiet past the debounce window.
func (w *Watcher) processDebouncedEvents(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if ctx.Err() != nil {
			return
		}
		w.mu.Lock()
		w.stats.Runs++
		w.mu.Unlock()

		if err := w.handler(ctx, path); err != nil {
			w.logger.Warn("run failed", zap.String("path", path), zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		}
	}
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedDirs returns the directories subscribed to.
func (w *Watcher) WatchedDirs() []string {
	return w.watcher.WatchList()
}
