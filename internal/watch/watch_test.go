package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conn-castle/jdk-pulse/internal/state"
)

type update struct {
	sel state.Selection
	err error
}

func next(t *testing.T, updates <-chan update) update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for a state change")
		return update{}
	}
}

func TestRunReportsChanges(t *testing.T) {
	dir := t.TempDir()
	home := filepath.Join(dir, "jdk-21")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store := state.New(filepath.Join(dir, "state", ".jdk_current"))

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan update, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watcher{Store: store, Debounce: 20 * time.Millisecond}.Run(ctx, func(sel state.Selection, err error) {
			updates <- update{sel, err}
		})
	}()

	if u := next(t, updates); u.err != nil || u.sel.Selected() {
		t.Fatalf("initial update = %+v, want empty selection", u)
	}

	if _, err := store.Write(home); err != nil {
		t.Fatalf("write: %v", err)
	}
	if u := next(t, updates); u.err != nil || u.sel.Home != home {
		t.Fatalf("update after write = %+v", u)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if u := next(t, updates); u.err != nil || u.sel.Selected() {
		t.Fatalf("update after clear = %+v", u)
	}

	if err := os.WriteFile(store.Path, []byte("relative\n"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	if u := next(t, updates); u.err == nil {
		t.Fatalf("expected a read error for a corrupt file")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestRunWatcherCreateFailure(t *testing.T) {
	orig := newWatcher
	newWatcher = func() (*fsnotify.Watcher, error) { return nil, errors.New("too many open files") }
	t.Cleanup(func() { newWatcher = orig })

	store := state.New(filepath.Join(t.TempDir(), ".jdk_current"))
	err := Watcher{Store: store}.Run(context.Background(), func(state.Selection, error) {})
	if err == nil {
		t.Fatalf("expected create failure")
	}
}
