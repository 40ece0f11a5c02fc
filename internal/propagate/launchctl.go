package propagate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
	"github.com/conn-castle/jdk-pulse/internal/state"
)

// Launchctl publishes JAVA_HOME to the macOS per-user launchd session, which GUI apps
// launched afterwards inherit.
type Launchctl struct {
	Runner  probe.Runner
	Timeout time.Duration
	Logger  *zap.Logger
}

// Name returns "launchctl".
func (*Launchctl) Name() string { return NameLaunchctl }

// Propagate runs launchctl setenv, or unsetenv for an empty selection.
func (l *Launchctl) Propagate(ctx context.Context, sel state.Selection) Outcome {
	args := []string{"unsetenv", "JAVA_HOME"}
	if sel.Selected() {
		args = []string{"setenv", "JAVA_HOME", sel.Home}
	}
	if err := runChecked(ctx, l.Runner, l.Timeout, "launchctl", args); err != nil {
		return failed(NameLaunchctl, "propagate.launchctl", "launchctl "+args[0], err, l.Logger)
	}
	logging.OrNop(l.Logger).Debug("launchd environment updated", zap.String("java_home", sel.Home))
	return Outcome{Adapter: NameLaunchctl, Applied: true}
}

// Observe runs launchctl getenv JAVA_HOME.
func (l *Launchctl) Observe(ctx context.Context) (string, error) {
	result, err := l.Runner.Run(ctx, probe.Request{Name: "launchctl", Args: []string{"getenv", "JAVA_HOME"}, Timeout: l.Timeout})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

// runChecked runs a command and converts a non-zero exit into an error.
func runChecked(ctx context.Context, runner probe.Runner, timeout time.Duration, name string, args []string) error {
	result, err := runner.Run(ctx, probe.Request{Name: name, Args: args, Timeout: timeout})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return commandError(name, result)
	}
	return nil
}

func commandError(name string, result probe.Result) error {
	return fmt.Errorf(messages.PropagateCommandFailedFmt, name, result.ExitCode, strings.TrimSpace(string(result.Stderr)))
}
