package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/propagate"
	"github.com/conn-castle/jdk-pulse/internal/state"
	"github.com/conn-castle/jdk-pulse/internal/watch"
)

// stubWatcher replays updates instead of following the file system.
func stubWatcher(t *testing.T, updates []state.Selection, readErr error) *watch.Watcher {
	t.Helper()
	var got watch.Watcher
	orig := runWatcher
	runWatcher = func(_ context.Context, w watch.Watcher, fn watch.Handler) error {
		got = w
		for _, sel := range updates {
			fn(sel, nil)
		}
		if readErr != nil {
			fn(state.Selection{}, readErr)
		}
		return nil
	}
	t.Cleanup(func() { runWatcher = orig })
	return &got
}

func TestWatchPrintsChanges(t *testing.T) {
	env := newCLIEnv(t)
	got := stubWatcher(t, []state.Selection{{Home: env.homeB}, {}}, errors.New("state file corrupt"))

	stdout, _, err := env.run(t, "watch")
	require.NoError(t, err)
	require.NotNil(t, got.Store)
	assert.Equal(t, env.statePath, got.Store.Path)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], env.homeB)
	assert.Equal(t, messages.WatchCleared, lines[1])
	assert.Contains(t, lines[2], "state file corrupt")
}

func TestWatchPropagateJSON(t *testing.T) {
	env := newCLIEnv(t)
	stubWatcher(t, []state.Selection{{Home: env.homeA}}, errors.New("bad"))

	stdout, _, err := env.run(t, "watch", "--propagate", "-o", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	var event watchEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, env.homeA, event.Home)
	require.NotNil(t, event.Propagation)
	assert.Equal(t, propagate.NameNoop, event.Propagation.Adapter)

	event = watchEvent{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &event))
	assert.Equal(t, "bad", event.Error)
	assert.Nil(t, event.Propagation, "unreadable state is not republished")
}
