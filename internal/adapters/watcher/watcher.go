package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/devbush/tubescribe/internal/logger"
)

// DefaultSettleDelay is how long a new file is left alone before it is read.
const DefaultSettleDelay = 500 * time.Millisecond

// Handler processes one URL list file.
type Handler func(ctx context.Context, path string) error

// Watcher runs a Handler for every .txt file created in a directory.
// Files are handled one at a time, in arrival order.
type Watcher struct {
	dir     string
	handler Handler
	log     logger.Logger
	settle  time.Duration
	fsw     *fsnotify.Watcher

	mu   sync.Mutex
	seen map[string]time.Time
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, handler Handler, log logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:     dir,
		handler: handler,
		log:     log,
		settle:  DefaultSettleDelay,
		fsw:     fsw,
		seen:    make(map[string]time.Time),
	}, nil
}

// WithSettleDelay overrides the delay between a create event and handling.
func (w *Watcher) WithSettleDelay(d time.Duration) *Watcher {
	w.settle = d
	return w
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info(ctx, "watching for url lists", "dir", w.dir)

	queue := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for path := range queue {
			w.handle(ctx, path)
		}
	}()
	defer func() {
		close(queue)
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			w.log.Info(ctx, "watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsURLList(event.Name) {
				w.log.Debug(ctx, "ignoring file", "path", event.Name)
				continue
			}
			if !w.claim(event.Name) {
				continue
			}
			select {
			case queue <- event.Name:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.log.Error(ctx, "watcher error", "error", err)
		}
	}
}

// claim dedups the create+write event pairs editors emit for one file.
func (w *Watcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if last, ok := w.seen[path]; ok && now.Sub(last) < w.settle*4 {
		return false
	}
	w.seen[path] = now
	return true
}

func (w *Watcher) handle(ctx context.Context, path string) {
	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}

	w.log.Info(ctx, "url list detected", "path", path)
	if err := w.handler(ctx, path); err != nil {
		w.log.Error(ctx, "failed to process url list", "path", path, "error", err)
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// IsURLList reports whether path looks like a URL list file.
func IsURLList(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".txt")
}
