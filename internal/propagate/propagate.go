// Package propagate pushes the selected JAVA_HOME into OS-level environment stores so
// processes that never read a shell startup file (GUI apps, IDE launchers, services
// started by the user session manager) inherit it.
package propagate

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
	"github.com/conn-castle/jdk-pulse/internal/state"
)

// Adapter names.
const (
	NameNoop      = "noop"
	NameLaunchctl = "launchctl"
	NameSystemd   = "systemd"
	NameWindows   = "windows"
)

const defaultTimeout = 5 * time.Second

// Outcome reports what a propagation attempt did. Err is a PropagationFailed error and is
// never fatal to the selection that triggered it.
type Outcome struct {
	Adapter string `json:"adapter" yaml:"adapter"`
	Applied bool   `json:"applied" yaml:"applied"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Err     error  `json:"-" yaml:"-"`
}

// Adapter writes a selection into one environment store.
type Adapter interface {
	Name() string
	// Propagate publishes sel; an empty selection removes JAVA_HOME from the store.
	Propagate(ctx context.Context, sel state.Selection) Outcome
	// Observe returns the JAVA_HOME currently held by the store.
	Observe(ctx context.Context) (string, error)
}

// Options select and configure an adapter.
type Options struct {
	// GOOS selects the platform adapter; empty means runtime.GOOS.
	GOOS    string
	Enabled bool
	Runner  probe.Runner
	Timeout time.Duration
	Logger  *zap.Logger
}

// New returns the adapter for the platform, or a noop adapter when propagation is
// disabled or the platform has no supported store.
func New(opts Options) Adapter {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if !opts.Enabled {
		return Noop{Reason: messages.PropagateDisabled}
	}
	runner := opts.Runner
	if runner == nil {
		runner = probe.ExecRunner{Logger: opts.Logger}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := logging.OrNop(opts.Logger)
	switch goos {
	case "darwin":
		return &Launchctl{Runner: runner, Timeout: timeout, Logger: logger}
	case "linux":
		return &Systemd{Runner: runner, Timeout: timeout, Logger: logger}
	case "windows":
		store, err := openUserEnvironment()
		if err != nil {
			logger.Warn("windows environment store unavailable", zap.Error(err))
			return Noop{Reason: err.Error()}
		}
		return &Windows{Store: store, Logger: logger}
	default:
		return Noop{Reason: fmt.Sprintf(messages.PropagateUnsupportedFmt, goos)}
	}
}

// IsNoop reports whether a is the noop adapter.
func IsNoop(a Adapter) bool {
	_, ok := a.(Noop)
	return ok
}

// Noop is used where the state file plus shell hooks are the only propagation path.
type Noop struct {
	Reason string
}

// Name returns "noop".
func (Noop) Name() string { return NameNoop }

// Propagate does nothing.
func (n Noop) Propagate(context.Context, state.Selection) Outcome {
	return Outcome{Adapter: NameNoop, Detail: n.Reason}
}

// Observe returns an empty value.
func (Noop) Observe(context.Context) (string, error) { return "", nil }

func failed(adapter string, op string, detail string, err error, logger *zap.Logger) Outcome {
	perr := errs.New(errs.KindPropagationFailed, op, "", detail, err)
	logging.OrNop(logger).Warn("propagation failed",
		zap.String("adapter", adapter),
		zap.String("detail", detail),
		zap.Error(err))
	return Outcome{Adapter: adapter, Detail: detail, Err: perr}
}
