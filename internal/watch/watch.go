// Package watch reports changes to the canonical state file as they happen.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/state"
)

// DefaultDebounce coalesces the create/write/rename burst of one atomic replace.
const DefaultDebounce = 100 * time.Millisecond

var newWatcher = fsnotify.NewWatcher

// Handler receives the selection read after each change, or the read error.
type Handler func(sel state.Selection, err error)

// Watcher follows one state file.
type Watcher struct {
	Store    *state.Store
	Debounce time.Duration
	Logger   *zap.Logger
}

// Run blocks until ctx is cancelled, calling fn once with the current selection and again
// after every settled change. The parent directory is watched because atomic replaces
// swap the file's inode.
func (w Watcher) Run(ctx context.Context, fn Handler) error {
	logger := logging.OrNop(w.Logger)
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target := filepath.Clean(w.Store.Path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.WatchAddFailedFmt, dir, err)
	}

	watcher, err := newWatcher()
	if err != nil {
		return fmt.Errorf(messages.WatchCreateFailedFmt, err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf(messages.WatchAddFailedFmt, dir, err)
	}
	logger.Debug("watching state file", zap.String("path", target))

	last, lastErr := w.Store.Read()
	fn(last, lastErr)

	// settle is nil while no change is pending.
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op.Has(fsnotify.Chmod) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			logger.Debug("state file event", zap.String("op", event.Op.String()))
			settle = time.After(debounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("state watcher error", zap.Error(werr))
		case <-settle:
			settle = nil
			sel, readErr := w.Store.Read()
			if readErr == nil && lastErr == nil && sel == last {
				continue
			}
			last, lastErr = sel, readErr
			fn(sel, readErr)
		}
	}
}
