// Package pulse is the command surface of jdk-pulse: it sequences discovery, the state
// store, propagation, shell integration and the doctor behind one Service.
package pulse

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/config"
	"github.com/conn-castle/jdk-pulse/internal/doctor"
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

// JenvDefaultRef selects whatever version jenv names as its global default.
const JenvDefaultRef = "jenv-default"

// UnknownID identifies a selected home that no discovery strategy reports.
const UnknownID = "unknown"

var (
	osStat      = os.Stat
	lookPath    = exec.LookPath
	lookupEnv   = os.LookupEnv
	jenvDefault = registry.JenvDefault
)

// Discoverer enumerates installed JDKs.
type Discoverer interface {
	Discover(ctx context.Context) registry.Result
}

// Options configure a Service. Registry, Adapter, Hooks and Store replace the
// implementations that would otherwise be built from Config.
type Options struct {
	Config *config.Config
	Paths  config.Paths
	// GOOS selects platform behavior; empty means runtime.GOOS.
	GOOS   string
	Runner probe.Runner
	Logger *zap.Logger

	Registry Discoverer
	Adapter  propagate.Adapter
	Hooks    *hook.Manager
	Store    *state.Store
}

// Active is the current selection and the JDK it points at.
type Active struct {
	Selected bool `json:"selected" yaml:"selected"`
	// Known is false when the selected home is not among discovered JDKs.
	Known bool        `json:"known" yaml:"known"`
	JDK   *jdk.Record `json:"jdk,omitempty" yaml:"jdk,omitempty"`
}

// SelectResult reports a completed selection.
type SelectResult struct {
	JDK         jdk.Record        `json:"jdk" yaml:"jdk"`
	Propagation propagate.Outcome `json:"propagation" yaml:"propagation"`
	Warnings    []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ClearResult reports a cleared selection.
type ClearResult struct {
	Propagation propagate.Outcome `json:"propagation" yaml:"propagation"`
	Warnings    []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Service implements the jdk-pulse commands.
type Service struct {
	cfg      *config.Config
	paths    config.Paths
	runner   probe.Runner
	logger   *zap.Logger
	registry Discoverer
	adapter  propagate.Adapter
	hooks    *hook.Manager
	store    *state.Store

	mu       sync.Mutex
	snapshot *registry.Result
}

// New builds a Service from opts.
func New(opts Options) *Service {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := logging.OrNop(opts.Logger)
	runner := opts.Runner
	if runner == nil {
		runner = probe.ExecRunner{Logger: logger}
	}
	statePath := cfg.StatePath(opts.Paths)

	s := &Service{
		cfg:      cfg,
		paths:    opts.Paths,
		runner:   runner,
		logger:   logger,
		registry: opts.Registry,
		adapter:  opts.Adapter,
		hooks:    opts.Hooks,
		store:    opts.Store,
	}
	if s.registry == nil {
		s.registry = registry.New(registry.Options{
			Home:            opts.Paths.Home,
			GOOS:            opts.GOOS,
			Strategies:      cfg.Discovery.Strategies,
			Scan:            cfg.Discovery.Scan,
			SkipDefaultScan: cfg.Discovery.SkipDefaultScan,
			Timeout:         cfg.DiscoveryTimeout(),
			Runner:          runner,
			Logger:          logger,
		})
	}
	if s.adapter == nil {
		s.adapter = propagate.New(propagate.Options{
			GOOS:    opts.GOOS,
			Enabled: cfg.PropagationEnabled(),
			Runner:  runner,
			Timeout: cfg.ProbeTimeout(),
			Logger:  logger,
		})
	}
	if s.hooks == nil {
		s.hooks = hook.NewManager(hook.Options{Home: opts.Paths.Home, StatePath: statePath, GOOS: opts.GOOS})
	}
	if s.store == nil {
		s.store = state.New(statePath)
	}
	return s
}

// StatePath returns the canonical state file location.
func (s *Service) StatePath() string {
	return s.store.Path
}

// Store returns the canonical state store.
func (s *Service) Store() *state.Store {
	return s.store
}

// Republish pushes sel to the environment store without touching the state file. It
// serves changes made to the state file by other processes.
func (s *Service) Republish(ctx context.Context, sel state.Selection) propagate.Outcome {
	outcome := s.adapter.Propagate(ctx, sel)
	s.logger.Debug("selection republished",
		zap.String("home", sel.Home),
		zap.String("adapter", outcome.Adapter),
		zap.Bool("applied", outcome.Applied))
	return outcome
}

// ListJdks runs discovery and replaces the cached snapshot.
func (s *Service) ListJdks(ctx context.Context) []jdk.Record {
	return s.refresh(ctx).Records
}

// Notes returns the discovery notes of the latest snapshot.
func (s *Service) Notes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil
	}
	return append([]string(nil), s.snapshot.Notes...)
}

func (s *Service) refresh(ctx context.Context) registry.Result {
	result := s.registry.Discover(ctx)
	s.mu.Lock()
	s.snapshot = &result
	s.mu.Unlock()
	return result
}

func (s *Service) latest(ctx context.Context) registry.Result {
	s.mu.Lock()
	cached := s.snapshot
	s.mu.Unlock()
	if cached != nil {
		return *cached
	}
	return s.refresh(ctx)
}

// GetActiveJdk returns the selection together with its discovered record. A home that
// discovery does not report is returned as a minimal record with ID "unknown".
func (s *Service) GetActiveJdk(ctx context.Context) (Active, error) {
	sel, err := s.store.Read()
	if err != nil {
		return Active{}, err
	}
	if !sel.Selected() {
		return Active{}, nil
	}
	record, ok := s.latest(ctx).FindHome(sel.Home)
	if !ok {
		record, ok = s.refresh(ctx).FindHome(sel.Home)
	}
	if !ok {
		unknown := unknownRecord(sel.Home)
		return Active{Selected: true, JDK: &unknown}, nil
	}
	return Active{Selected: true, Known: true, JDK: &record}, nil
}

// SetActiveJdk resolves ref, records the selection, and propagates it. A failed state
// write aborts before propagation; a failed propagation is returned as a warning.
func (s *Service) SetActiveJdk(ctx context.Context, ref string) (SelectResult, error) {
	record, err := s.Resolve(ctx, ref)
	if err != nil {
		return SelectResult{}, err
	}
	sel, err := s.store.Write(record.Home)
	if err != nil {
		return SelectResult{}, err
	}
	record.Home = sel.Home
	return s.publish(ctx, record, sel), nil
}

// RepairActiveJdk overwrites a corrupt state file with the JDK ref resolves to. Callers
// confirm with the user first.
func (s *Service) RepairActiveJdk(ctx context.Context, ref string) (SelectResult, error) {
	record, err := s.Resolve(ctx, ref)
	if err != nil {
		return SelectResult{}, err
	}
	sel, err := s.store.Repair(record.Home)
	if err != nil {
		return SelectResult{}, err
	}
	record.Home = sel.Home
	return s.publish(ctx, record, sel), nil
}

func (s *Service) publish(ctx context.Context, record jdk.Record, sel state.Selection) SelectResult {
	result := SelectResult{JDK: record}
	if !hasJava(sel.Home) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(messages.PulseNoJavaWarningFmt, sel.Home))
	}
	result.Propagation = s.adapter.Propagate(ctx, sel)
	if result.Propagation.Err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf(messages.PulsePropagationWarningFmt, result.Propagation.Adapter, result.Propagation.Err))
	}
	s.logger.Info("active JDK selected",
		zap.String("id", record.ID),
		zap.String("home", sel.Home),
		zap.String("adapter", result.Propagation.Adapter),
		zap.Bool("propagated", result.Propagation.Applied))
	return result
}

// ClearActiveJdk removes the selection and withdraws it from the environment store.
func (s *Service) ClearActiveJdk(ctx context.Context) (ClearResult, error) {
	if err := s.store.Clear(); err != nil {
		return ClearResult{}, err
	}
	result := ClearResult{Propagation: s.adapter.Propagate(ctx, state.Selection{})}
	if result.Propagation.Err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf(messages.PulsePropagationWarningFmt, result.Propagation.Adapter, result.Propagation.Err))
	}
	s.logger.Info("active JDK cleared", zap.String("adapter", result.Propagation.Adapter))
	return result, nil
}

// Resolve maps ref to a JDK: "jenv-default", an absolute or ~/ path, an ID, or an alias.
// Unknown refs trigger one fresh discovery before failing with UnknownJdk.
func (s *Service) Resolve(ctx context.Context, ref string) (jdk.Record, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return jdk.Record{}, errs.New(errs.KindUnknownJdk, "pulse.resolve", "", messages.PulseEmptyRef, nil)
	case ref == JenvDefaultRef:
		return s.resolveJenvDefault(ctx)
	case isPathRef(ref):
		home, err := homedir.Expand(ref)
		if err != nil {
			return jdk.Record{}, errs.New(errs.KindInvalidHome, "pulse.resolve", ref, err.Error(), err)
		}
		home = filepath.Clean(home)
		if record, ok := s.latest(ctx).FindHome(home); ok {
			return record, nil
		}
		return unknownRecord(home), nil
	}
	if record, ok := s.latest(ctx).Resolve(ref); ok {
		return record, nil
	}
	if record, ok := s.refresh(ctx).Resolve(ref); ok {
		return record, nil
	}
	return jdk.Record{}, errs.Newf(errs.KindUnknownJdk, "pulse.resolve", "", messages.PulseUnknownJdkFmt, ref)
}

// resolveJenvDefault finds the installation named by ~/.jenv/version.
func (s *Service) resolveJenvDefault(ctx context.Context) (jdk.Record, error) {
	name, ok := jenvDefault(s.paths.Home)
	if !ok {
		return jdk.Record{}, errs.New(errs.KindUnknownJdk, "pulse.resolve", "", messages.PulseJenvNoDefault, nil)
	}
	dir := filepath.Join(s.paths.Home, ".jenv", "versions", name)
	candidates := []string{filepath.Join(dir, "Contents", "Home"), dir}
	for _, snapshot := range []func(context.Context) registry.Result{s.latest, s.refresh} {
		result := snapshot(ctx)
		for _, home := range candidates {
			if record, ok := result.FindHome(home); ok {
				return record, nil
			}
		}
		if record, ok := result.Resolve(jdk.NormalizeVersion(name)); ok {
			return record, nil
		}
	}
	return jdk.Record{}, errs.Newf(errs.KindUnknownJdk, "pulse.resolve", "", messages.PulseJenvDefaultUnknownFmt, name)
}

// RunDoctor runs the consistency diagnostic against the current configuration.
func (s *Service) RunDoctor(ctx context.Context) doctor.Report {
	return doctor.Run(ctx, doctor.Deps{
		State:            s.store,
		Hooks:            s.hooks,
		HookShells:       s.HookShells(),
		Registry:         s.registry,
		Adapter:          s.adapter,
		Runner:           s.runner,
		LiveShells:       s.liveShells(),
		Tools:            s.cfg.DoctorTools(),
		Timeout:          s.cfg.ProbeTimeout(),
		DiscoveryTimeout: s.cfg.DiscoveryTimeout(),
		TTY:              s.cfg.Doctor.TTY,
		Logger:           s.logger,
	})
}

// HookShells returns the shells that receive integration: the configured list, or the
// login shell from $SHELL.
func (s *Service) HookShells() []hook.Shell {
	var shells []hook.Shell
	for _, name := range s.cfg.Hooks.Shells {
		if shell, err := hook.ParseShell(name); err == nil {
			shells = append(shells, shell)
		}
	}
	if len(shells) > 0 {
		return shells
	}
	if login, ok := lookupEnv("SHELL"); ok && login != "" {
		if shell, err := hook.ParseShell(login); err == nil {
			return []hook.Shell{shell}
		}
	}
	return nil
}

func (s *Service) liveShells() []doctor.LiveShell {
	if len(s.cfg.Doctor.Shells) == 0 {
		login, ok := lookupEnv("SHELL")
		if !ok || login == "" {
			return nil
		}
		return []doctor.LiveShell{{Name: shellLabel(login), Path: login}}
	}
	shells := make([]doctor.LiveShell, 0, len(s.cfg.Doctor.Shells))
	for _, name := range s.cfg.Doctor.Shells {
		path := name
		if !filepath.IsAbs(name) {
			if found, err := lookPath(name); err == nil {
				path = found
			} else {
				path = ""
			}
		}
		shells = append(shells, doctor.LiveShell{Name: shellLabel(name), Path: path})
	}
	return shells
}

func shellLabel(nameOrPath string) string {
	if shell, err := hook.ParseShell(nameOrPath); err == nil {
		return string(shell)
	}
	return filepath.Base(nameOrPath)
}

// InstallShellIntegration installs the hook block for shell.
func (s *Service) InstallShellIntegration(shell hook.Shell) (hook.Change, error) {
	change, err := s.hooks.Install(shell)
	if err == nil {
		s.logger.Info("shell integration installed",
			zap.String("shell", string(shell)),
			zap.String("path", change.Path),
			zap.Bool("changed", change.Changed))
	}
	return change, err
}

// RemoveShellIntegration removes the hook block for shell.
func (s *Service) RemoveShellIntegration(shell hook.Shell) (hook.Change, error) {
	change, err := s.hooks.Remove(shell)
	if err == nil {
		s.logger.Info("shell integration removed",
			zap.String("shell", string(shell)),
			zap.String("path", change.Path),
			zap.Bool("changed", change.Changed))
	}
	return change, err
}

// ShellIntegrationStatus reports whether shell's block is installed.
func (s *Service) ShellIntegrationStatus(shell hook.Shell) (hook.Status, error) {
	return s.hooks.Status(shell)
}

// PlanShellIntegration previews an install or remove without writing.
func (s *Service) PlanShellIntegration(shell hook.Shell, op hook.Op) (hook.Plan, error) {
	return s.hooks.Plan(shell, op)
}

// ShellSnippet returns the block that install would write for shell.
func (s *Service) ShellSnippet(shell hook.Shell) (string, error) {
	return s.hooks.Snippet(shell)
}

// ShellTarget returns the startup file edited for shell.
func (s *Service) ShellTarget(shell hook.Shell) (string, error) {
	return s.hooks.Target(shell)
}

func unknownRecord(home string) jdk.Record {
	return jdk.Record{ID: UnknownID, VersionFull: UnknownID, Home: home}
}

func isPathRef(ref string) bool {
	return strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "~/") || filepath.IsAbs(ref)
}

func hasJava(home string) bool {
	for _, name := range []string{"java", "java.exe"} {
		if info, err := osStat(filepath.Join(home, "bin", name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
