package propagate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/pathlist"
	"github.com/conn-castle/jdk-pulse/internal/state"
)

// EnvStore is the per-user persistent environment (HKCU\Environment on Windows).
type EnvStore interface {
	// Get returns a value as stored, without expanding %VAR% references. A missing value
	// returns "" and a nil error.
	Get(name string) (string, error)
	SetString(name string, value string) error
	SetExpandString(name string, value string) error
	Delete(name string) error
	// Broadcast tells running applications the environment changed.
	Broadcast() error
}

// javaHomeRef is the Path entry that tracks JAVA_HOME by reference.
const javaHomeRef = `%JAVA_HOME%\bin`

// Windows writes JAVA_HOME and the user Path into the registry and broadcasts the change.
type Windows struct {
	Store  EnvStore
	Logger *zap.Logger
}

// Name returns "windows".
func (*Windows) Name() string { return NameWindows }

// Propagate sets JAVA_HOME, swaps the previous JDK bin for the new one at the front of the
// user Path, then broadcasts WM_SETTINGCHANGE. A Path entry of %JAVA_HOME%\bin already
// follows the selection and is left alone.
func (w *Windows) Propagate(_ context.Context, sel state.Selection) Outcome {
	previous, err := w.Store.Get("JAVA_HOME")
	if err != nil {
		return failed(NameWindows, "propagate.windows", "JAVA_HOME", err, w.Logger)
	}
	if sel.Selected() {
		err = w.Store.SetString("JAVA_HOME", sel.Home)
	} else {
		err = w.Store.Delete("JAVA_HOME")
	}
	if err != nil {
		return failed(NameWindows, "propagate.windows", "JAVA_HOME", err, w.Logger)
	}

	path, err := w.Store.Get("Path")
	if err != nil {
		return failed(NameWindows, "propagate.windows", "Path", err, w.Logger)
	}
	opts := pathlist.Options{Separator: ';', FoldCase: true}
	if !pathlist.Contains(path, javaHomeRef, opts) {
		updated := pathlist.Rewrite(path, binDir(previous), binDir(sel.Home), opts)
		if updated != path {
			if err := w.Store.SetExpandString("Path", updated); err != nil {
				return failed(NameWindows, "propagate.windows", "Path", err, w.Logger)
			}
		}
	}

	if err := w.Store.Broadcast(); err != nil {
		// Values are persisted; only already-running apps miss the notification.
		logging.OrNop(w.Logger).Warn("environment broadcast failed", zap.Error(err))
		return Outcome{Adapter: NameWindows, Applied: true, Detail: messages.PropagateBroadcastFailed}
	}
	return Outcome{Adapter: NameWindows, Applied: true}
}

// Observe returns JAVA_HOME from the user environment.
func (w *Windows) Observe(context.Context) (string, error) {
	return w.Store.Get("JAVA_HOME")
}

func binDir(home string) string {
	if home == "" {
		return ""
	}
	return strings.TrimRight(home, `\/`) + `\bin`
}
