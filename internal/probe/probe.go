// Package probe runs short-lived subprocesses with a hard deadline.
//
// When the deadline passes or the caller cancels, the whole process group is killed and
// waited for, so a hung login shell cannot leave stray children behind.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the group is killed.
const waitDelay = 500 * time.Millisecond

// Request describes one subprocess invocation.
type Request struct {
	Name string
	Args []string
	// Env replaces the environment when non-nil.
	Env []string
	Dir string
	// Timeout bounds the run; zero means only ctx bounds it.
	Timeout time.Duration
	// TTY attaches the process to a pseudo terminal; stdout and stderr are then combined
	// in Result.Stdout.
	TTY bool
}

// Result is the captured output of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes requests.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// ExecRunner runs requests as real OS processes.
type ExecRunner struct {
	Logger *zap.Logger
}

// Run starts req and waits for it. A non-zero exit is reported through Result.ExitCode,
// not as an error. Errors are ProbeSpawnFailed, ProbeTimeout, or the context's error.
func (r ExecRunner) Run(ctx context.Context, req Request) (Result, error) {
	logger := logging.OrNop(r.Logger)
	if req.Name == "" {
		return Result{}, errs.New(errs.KindProbeSpawnFailed, "probe.run", "", messages.ProbeEmptyCommand, nil)
	}
	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, req.Name, req.Args...)
	cmd.Dir = req.Dir
	if req.Env != nil {
		cmd.Env = req.Env
	}
	cmd.Stdin = nil
	cmd.WaitDelay = waitDelay
	cmd.Cancel = func() error {
		return killGroup(cmd)
	}

	start := time.Now()
	var result Result
	var err error
	if req.TTY {
		result, err = runTTY(cmd)
	} else {
		result, err = runPiped(cmd)
	}
	result.Duration = time.Since(start)

	if runCtx.Err() != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			logger.Warn("probe timed out",
				zap.String("command", req.Name),
				zap.Duration("timeout", req.Timeout))
			return result, errs.Newf(errs.KindProbeTimeout, "probe.run", "", messages.ProbeTimedOutFmt, req.Name, req.Timeout)
		}
		return result, fmt.Errorf("%s: %w", messages.ProbeCancelled, ctx.Err())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			logger.Debug("probe exited non-zero",
				zap.String("command", req.Name),
				zap.Int("exit_code", result.ExitCode))
			return result, nil
		}
		logger.Warn("probe failed to start", zap.String("command", req.Name), zap.Error(err))
		return result, errs.New(errs.KindProbeSpawnFailed, "probe.run", req.Name,
			fmt.Sprintf(messages.ProbeSpawnFailedFmt, req.Name, err), err)
	}
	logger.Debug("probe finished",
		zap.String("command", req.Name),
		zap.Duration("duration", result.Duration))
	return result, nil
}

func runPiped(cmd *exec.Cmd) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)
	err := cmd.Run()
	return Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

// Environ returns the current environment with overrides applied; an override of the
// form "KEY=" removes KEY.
func Environ(overrides ...string) []string {
	env := os.Environ()
	for _, kv := range overrides {
		key, value, _ := cutEnv(kv)
		filtered := env[:0:0]
		for _, existing := range env {
			if k, _, _ := cutEnv(existing); k != key {
				filtered = append(filtered, existing)
			}
		}
		env = filtered
		if value != "" {
			env = append(env, kv)
		}
	}
	return env
}

func cutEnv(kv string) (string, string, bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' && i > 0 {
			return kv[:i], kv[i+1:], true
		}
	}
	return kv, "", false
}
