package propagate

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
	"github.com/conn-castle/jdk-pulse/internal/state"
)

// Systemd publishes JAVA_HOME to the systemd user manager, which seeds the environment
// of user services and, on most desktops, graphical sessions started after the change.
type Systemd struct {
	Runner  probe.Runner
	Timeout time.Duration
	Logger  *zap.Logger
}

// Name returns "systemd".
func (*Systemd) Name() string { return NameSystemd }

// Propagate runs systemctl --user set-environment, or unset-environment for an empty
// selection. When no user manager answers the selection is left to the shell hooks.
func (s *Systemd) Propagate(ctx context.Context, sel state.Selection) Outcome {
	if _, err := s.showEnvironment(ctx); err != nil {
		logging.OrNop(s.Logger).Debug("systemd user manager unavailable", zap.Error(err))
		return Outcome{Adapter: NameSystemd, Detail: messages.PropagateUserManagerAbsent}
	}
	args := []string{"--user", "unset-environment", "JAVA_HOME"}
	if sel.Selected() {
		args = []string{"--user", "set-environment", "JAVA_HOME=" + sel.Home}
	}
	if err := runChecked(ctx, s.Runner, s.Timeout, "systemctl", args); err != nil {
		return failed(NameSystemd, "propagate.systemd", "systemctl "+args[1], err, s.Logger)
	}
	logging.OrNop(s.Logger).Debug("systemd user environment updated", zap.String("java_home", sel.Home))
	return Outcome{Adapter: NameSystemd, Applied: true}
}

// Observe returns JAVA_HOME from systemctl --user show-environment.
func (s *Systemd) Observe(ctx context.Context) (string, error) {
	out, err := s.showEnvironment(ctx)
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if value, ok := strings.CutPrefix(scanner.Text(), "JAVA_HOME="); ok {
			return value, nil
		}
	}
	return "", scanner.Err()
}

func (s *Systemd) showEnvironment(ctx context.Context) ([]byte, error) {
	result, err := s.Runner.Run(ctx, probe.Request{
		Name:    "systemctl",
		Args:    []string{"--user", "show-environment"},
		Timeout: s.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, commandError("systemctl", result)
	}
	return result.Stdout, nil
}
