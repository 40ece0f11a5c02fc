// Package doctor compares every layer that can hold a JAVA_HOME against the canonical
// selection and reports where they disagree.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/hook"
	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
	"github.com/conn-castle/jdk-pulse/internal/propagate"
	"github.com/conn-castle/jdk-pulse/internal/registry"
	"github.com/conn-castle/jdk-pulse/internal/state"
)

// DefaultTimeout bounds each probe when Deps.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// grace lets a probe report its own timeout before the check is abandoned.
const grace = time.Second

var (
	lookPath   = exec.LookPath
	osStat     = os.Stat
	osReadFile = os.ReadFile
)

// StateReader reads the canonical selection.
type StateReader interface {
	Read() (state.Selection, error)
}

// HookInspector reports hook installation state.
type HookInspector interface {
	Status(shell hook.Shell) (hook.Status, error)
	Target(shell hook.Shell) (string, error)
}

// Discoverer enumerates installed JDKs.
type Discoverer interface {
	Discover(ctx context.Context) registry.Result
}

// LiveShell is a shell binary to start for the live-shell check.
type LiveShell struct {
	// Name labels the check, e.g. "zsh".
	Name string
	// Path is the executable to run.
	Path string
}

// Deps are the layers the doctor inspects. Nil fields skip the checks that need them.
type Deps struct {
	State      StateReader
	Hooks      HookInspector
	HookShells []hook.Shell
	Registry   Discoverer
	Adapter    propagate.Adapter
	Runner     probe.Runner
	LiveShells []LiveShell
	Tools      []string
	// Timeout bounds each probe; zero means DefaultTimeout.
	Timeout time.Duration
	// DiscoveryTimeout bounds the registry check; zero means Timeout.
	DiscoveryTimeout time.Duration
	// TTY runs live shells under a pseudo terminal.
	TTY    bool
	Logger *zap.Logger
}

type task struct {
	name     string
	expected string
	timeout  time.Duration
	run      func(ctx context.Context) Check
}

// Run executes every applicable check concurrently and returns the combined report.
// A check that outlives its budget is reported as a warning without delaying the rest.
func Run(ctx context.Context, deps Deps) Report {
	logger := logging.OrNop(deps.Logger)
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	discoveryTimeout := deps.DiscoveryTimeout
	if discoveryTimeout <= 0 {
		discoveryTimeout = timeout
	}

	checks := make(map[string]Check)
	var sel state.Selection
	if deps.State != nil {
		var stateCheck Check
		sel, stateCheck = checkState(deps.State)
		checks[messages.DoctorCheckStateFile] = stateCheck
	}

	var tasks []task
	for _, shell := range deps.LiveShells {
		shell := shell
		tasks = append(tasks, task{
			name:     fmt.Sprintf(messages.DoctorCheckLiveShellFmt, shell.Name),
			expected: expectedLiveShell(sel),
			timeout:  timeout + grace,
			run: func(ctx context.Context) Check {
				return checkLiveShell(ctx, deps.Runner, shell, sel, timeout, deps.TTY)
			},
		})
	}
	if deps.Hooks != nil {
		for _, shell := range deps.HookShells {
			shell := shell
			tasks = append(tasks, task{
				name:     fmt.Sprintf(messages.DoctorCheckHookFmt, shell),
				expected: messages.DoctorExpectedHookInstalled,
				timeout:  timeout,
				run: func(context.Context) Check {
					return checkHook(deps.Hooks, shell)
				},
			})
		}
	}
	for _, tool := range deps.Tools {
		tool := tool
		tasks = append(tasks, task{
			name:     fmt.Sprintf(messages.DoctorCheckToolFmt, tool),
			expected: messages.DoctorExpectedToolOnPath,
			timeout:  timeout,
			run: func(context.Context) Check {
				return checkTool(tool)
			},
		})
	}
	if sel.Selected() {
		if deps.Registry != nil {
			tasks = append(tasks, task{
				name:     messages.DoctorCheckRegistry,
				expected: fmt.Sprintf(messages.DoctorExpectedRegistryFmt, sel.Home),
				timeout:  discoveryTimeout + grace,
				run: func(ctx context.Context) Check {
					return checkRegistry(ctx, deps.Registry, sel)
				},
			})
		}
		tasks = append(tasks, task{
			name:     messages.DoctorCheckJavaBinary,
			expected: javaBinaryPath(sel.Home),
			timeout:  timeout,
			run: func(context.Context) Check {
				return checkJavaBinary(sel)
			},
		})
	}
	if deps.Adapter != nil && !propagate.IsNoop(deps.Adapter) {
		tasks = append(tasks, task{
			name:     messages.DoctorCheckPropagation,
			expected: displayHome(sel.Home),
			timeout:  timeout + grace,
			run: func(ctx context.Context) Check {
				return checkPropagation(ctx, deps.Adapter, sel)
			},
		})
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			check := runTask(ctx, t, logger)
			mu.Lock()
			checks[t.name] = check
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	report := NewReport(checks)
	logger.Debug("doctor finished",
		zap.Int("checks", len(checks)),
		zap.String("verdict", string(report.Verdict())))
	return report
}

// runTask runs t under its budget. When the budget expires first the check is reported as
// a warning; the abandoned goroutine observes the cancelled context and exits on its own.
func runTask(ctx context.Context, t task, logger *zap.Logger) Check {
	taskCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan Check, 1)
	go func() {
		done <- t.run(taskCtx)
	}()
	select {
	case check := <-done:
		logger.Debug("doctor check finished",
			zap.String("check", t.name),
			zap.String("verdict", string(check.Verdict)))
		return check
	case <-taskCtx.Done():
		logger.Warn("doctor check abandoned",
			zap.String("check", t.name),
			zap.Duration("timeout", t.timeout))
		return Check{
			Observed: messages.DoctorObservedUnknown,
			Expected: t.expected,
			Verdict:  VerdictWarn,
			Notes:    []string{fmt.Sprintf(messages.DoctorCheckTimedOutFmt, t.timeout)},
		}
	}
}

func checkState(store StateReader) (state.Selection, Check) {
	check := Check{Expected: messages.DoctorExpectedStateFile}
	sel, err := store.Read()
	if err != nil {
		check.Verdict = VerdictFail
		switch {
		case errors.Is(err, errs.StateCorrupt):
			check.Observed = messages.DoctorObservedCorrupt
			check.Notes = []string{
				fmt.Sprintf(messages.DoctorStateCorruptNoteFmt, err),
				messages.DoctorStateCorruptRecommend,
			}
		case errors.Is(err, errs.StateUnreadable):
			check.Observed = messages.DoctorObservedUnread
			check.Notes = []string{
				fmt.Sprintf(messages.DoctorStateUnreadableNoteFmt, err),
				messages.DoctorStateUnreadableRecommend,
			}
		default:
			check.Observed = messages.DoctorObservedUnknown
			check.Notes = []string{fmt.Sprintf(messages.DoctorStateUnreadableNoteFmt, err)}
		}
		return state.Selection{}, check
	}
	if !sel.Selected() {
		check.Observed = messages.DoctorObservedAbsent
		check.Verdict = VerdictWarn
		check.Notes = []string{messages.DoctorStateAbsentNote}
		return sel, check
	}
	check.Observed = sel.Home
	info, statErr := osStat(sel.Home)
	if statErr != nil || !info.IsDir() {
		check.Verdict = VerdictFail
		check.Notes = []string{
			fmt.Sprintf(messages.DoctorStateHomeMissingNoteFmt, sel.Home),
			messages.DoctorStateHomeMissingRecommend,
		}
		return sel, check
	}
	check.Verdict = VerdictOK
	return sel, check
}

func checkHook(hooks HookInspector, shell hook.Shell) Check {
	check := Check{Expected: messages.DoctorExpectedHookInstalled}
	target, _ := hooks.Target(shell)
	status, err := hooks.Status(shell)
	if err != nil && status == "" {
		check.Observed = messages.DoctorObservedUnknown
		check.Verdict = VerdictWarn
		check.Notes = []string{fmt.Sprintf(messages.DoctorHookStatusFailedFmt, err)}
		return check
	}
	check.Observed = string(status)
	if target != "" {
		check.Notes = append(check.Notes, fmt.Sprintf(messages.DoctorHookTargetFmt, target))
	}
	switch status {
	case hook.StatusInstalled:
		check.Verdict = VerdictOK
	case hook.StatusOutdated:
		check.Verdict = VerdictWarn
		check.Notes = append(check.Notes,
			messages.DoctorHookOutdatedNote,
			fmt.Sprintf(messages.DoctorHookInstallRecommendFmt, shell))
	case hook.StatusMalformed:
		check.Verdict = VerdictFail
		check.Notes = append(check.Notes,
			fmt.Sprintf(messages.DoctorHookMalformedRecommendFmt, target, shell))
	default:
		check.Verdict = VerdictWarn
		check.Notes = append(check.Notes, fmt.Sprintf(messages.DoctorHookInstallRecommendFmt, shell))
	}
	return check
}

func checkTool(name string) Check {
	check := Check{Expected: messages.DoctorExpectedToolOnPath}
	path, err := lookPath(name)
	if err != nil {
		check.Observed = messages.DoctorToolMissing
		check.Verdict = VerdictWarn
		check.Notes = []string{fmt.Sprintf(messages.DoctorToolMissingNoteFmt, name)}
		return check
	}
	check.Observed = path
	check.Verdict = VerdictOK
	return check
}

func checkRegistry(ctx context.Context, discoverer Discoverer, sel state.Selection) Check {
	check := Check{Expected: fmt.Sprintf(messages.DoctorExpectedRegistryFmt, sel.Home)}
	result := discoverer.Discover(ctx)
	if record, ok := result.FindHome(sel.Home); ok {
		check.Observed = fmt.Sprintf(messages.DoctorRegistryFoundFmt, record.ID)
		check.Verdict = VerdictOK
		return check
	}
	check.Observed = fmt.Sprintf(messages.DoctorRegistryMissingFmt, len(result.Records))
	check.Verdict = VerdictWarn
	check.Notes = append([]string{messages.DoctorRegistryMissingNote}, result.Notes...)
	return check
}

func checkJavaBinary(sel state.Selection) Check {
	path := javaBinaryPath(sel.Home)
	check := Check{Expected: path}
	for _, candidate := range []string{path, path + ".exe"} {
		if info, err := osStat(candidate); err == nil && !info.IsDir() {
			check.Observed = candidate
			check.Verdict = VerdictOK
			return check
		}
	}
	check.Observed = messages.DoctorObservedAbsent
	check.Verdict = VerdictWarn
	check.Notes = []string{messages.DoctorJavaBinaryMissingNote}
	return check
}

func checkPropagation(ctx context.Context, adapter propagate.Adapter, sel state.Selection) Check {
	check := Check{Expected: displayHome(sel.Home)}
	observed, err := adapter.Observe(ctx)
	if err != nil {
		check.Observed = messages.DoctorObservedUnknown
		check.Verdict = VerdictWarn
		check.Notes = []string{fmt.Sprintf(messages.DoctorPropagationObserveFailedFmt, adapter.Name(), err)}
		return check
	}
	check.Observed = displayHome(observed)
	if sameSelection(observed, sel.Home) {
		check.Verdict = VerdictOK
		return check
	}
	check.Verdict = VerdictWarn
	check.Notes = []string{
		fmt.Sprintf(messages.DoctorPropagationMismatchFmt, adapter.Name(), displayHome(observed), displayHome(sel.Home)),
		messages.DoctorPropagationRecommend,
	}
	return check
}

func javaBinaryPath(home string) string {
	return filepath.Join(home, "bin", "java")
}

func displayHome(home string) string {
	if home == "" {
		return messages.DoctorObservedUnset
	}
	return home
}

func sameSelection(observed string, home string) bool {
	if observed == "" || home == "" {
		return observed == home
	}
	return jdk.SameHome(observed, home)
}

// expectedMajor reads the selected home's release file. ok is false when the file is
// missing or carries no parsable version.
func expectedMajor(home string) (int, bool) {
	data, err := osReadFile(filepath.Join(home, "release"))
	if err != nil {
		return 0, false
	}
	release := jdk.ParseRelease(string(data))
	if release.Version == "" {
		return 0, false
	}
	return jdk.ParseMajor(release.Version)
}
