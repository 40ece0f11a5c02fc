package pulse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/jdk-pulse/internal/config"
	"github.com/conn-castle/jdk-pulse/internal/doctor"
	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/hook"
	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/propagate"
	"github.com/conn-castle/jdk-pulse/internal/registry"
	"github.com/conn-castle/jdk-pulse/internal/state"
	"github.com/conn-castle/jdk-pulse/internal/testutil"
)

type recordingAdapter struct {
	mu      sync.Mutex
	calls   []state.Selection
	current string
	fail    error
}

func (a *recordingAdapter) Name() string { return "recording" }

func (a *recordingAdapter) Propagate(_ context.Context, sel state.Selection) propagate.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, sel)
	if a.fail != nil {
		return propagate.Outcome{Adapter: "recording", Err: a.fail}
	}
	a.current = sel.Home
	return propagate.Outcome{Adapter: "recording", Applied: true}
}

func (a *recordingAdapter) Observe(context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, nil
}

type countingDiscoverer struct {
	results []registry.Result
	calls   int
}

func (d *countingDiscoverer) Discover(context.Context) registry.Result {
	i := d.calls
	if i >= len(d.results) {
		i = len(d.results) - 1
	}
	d.calls++
	return d.results[i]
}

type fixture struct {
	home    string
	jdks    string
	homeA   string
	homeB   string
	cfg     *config.Config
	paths   config.Paths
	adapter *recordingAdapter
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv(config.EnvStateFile, "")
	root := t.TempDir()
	home := filepath.Join(root, "home")
	require.NoError(t, os.MkdirAll(home, 0o755))
	jdks := filepath.Join(root, "jdks")
	homeA := testutil.MakeJDK(t, jdks, "a", "17.0.9", "Eclipse Adoptium")
	homeB := testutil.MakeJDK(t, jdks, "b", "21.0.2", "Eclipse Adoptium")

	cfg := config.Default()
	cfg.Discovery.Strategies = []string{registry.StrategyScan}
	cfg.Discovery.Scan = []string{filepath.ToSlash(jdks) + "/*"}
	cfg.Discovery.SkipDefaultScan = true
	cfg.Doctor.Tools = []string{}
	paths := config.DefaultPaths(home, filepath.Join(home, ".config"))
	adapter := &recordingAdapter{}
	f := &fixture{home: home, jdks: jdks, homeA: homeA, homeB: homeB, cfg: cfg, paths: paths, adapter: adapter}
	f.svc = New(Options{Config: cfg, Paths: paths, Adapter: adapter})
	return f
}

func readState(t *testing.T, svc *Service) state.Selection {
	t.Helper()
	sel, err := state.New(svc.StatePath()).Read()
	require.NoError(t, err)
	return sel
}

func TestEndToEndSelectGetAndDoctor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("simulated shell is a POSIX script")
	}
	f := newFixture(t)
	ctx := context.Background()

	records := f.svc.ListJdks(ctx)
	require.Len(t, records, 2)
	require.Equal(t, f.homeB, records[0].Home)
	require.Equal(t, 21, records[0].VersionMajor)
	require.Equal(t, 17, records[1].VersionMajor)

	result, err := f.svc.SetActiveJdk(ctx, records[0].ID)
	require.NoError(t, err)
	require.Equal(t, f.homeB, result.JDK.Home)
	require.True(t, result.Propagation.Applied)
	require.Empty(t, result.Warnings)

	active, err := f.svc.GetActiveJdk(ctx)
	require.NoError(t, err)
	require.True(t, active.Selected)
	require.True(t, active.Known)
	require.Equal(t, f.homeB, active.JDK.Home)
	require.Equal(t, 21, active.JDK.VersionMajor)

	shellDir := filepath.Join(f.home, "bin")
	shellPath := testutil.WriteScript(t, shellDir, "bash", fmt.Sprintf(`home=$(cat %q)
printf '%%s\n' __JDKPULSE_BEGIN__
printf 'JAVA_HOME=%%s\n' "$home"
"$home/bin/java" -version 2>&1
printf '%%s\n' __JDKPULSE_END__
`, f.svc.StatePath()))
	f.cfg.Doctor.Shells = []string{shellPath}
	f.cfg.Hooks.Shells = []string{"bash"}
	_, err = f.svc.InstallShellIntegration(hook.Bash)
	require.NoError(t, err)

	report := f.svc.RunDoctor(ctx)
	for _, name := range report.Names() {
		check, _ := report.Check(name)
		require.Equalf(t, doctor.VerdictOK, check.Verdict, "%s: observed %q notes %v", name, check.Observed, check.Notes)
	}
	require.ElementsMatch(t,
		[]string{"state-file", "live-shell:bash", "hook:bash", "registry", "java-binary", "propagation"},
		report.Names())
}

func TestSetActiveJdkByAliasAndID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.SetActiveJdk(ctx, "17")
	require.NoError(t, err)
	require.Equal(t, f.homeA, result.JDK.Home)

	result, err = f.svc.SetActiveJdk(ctx, "temurin-21")
	require.NoError(t, err)
	require.Equal(t, f.homeB, result.JDK.Home)

	result, err = f.svc.SetActiveJdk(ctx, jdk.MakeID("Eclipse Adoptium", "17.0.9", f.homeA))
	require.NoError(t, err)
	require.Equal(t, f.homeA, result.JDK.Home)
	require.Equal(t, f.homeA, readState(t, f.svc).Home)
}

func TestSetActiveJdkRejectionLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SetActiveJdk(ctx, f.homeB)
	require.NoError(t, err)
	calls := len(f.adapter.calls)

	_, err = f.svc.SetActiveJdk(ctx, "99")
	require.True(t, errors.Is(err, errs.UnknownJdk), "got %v", err)

	_, err = f.svc.SetActiveJdk(ctx, filepath.Join(f.jdks, "missing"))
	require.True(t, errors.Is(err, errs.InvalidHome), "got %v", err)

	require.Equal(t, f.homeB, readState(t, f.svc).Home)
	require.Len(t, f.adapter.calls, calls, "rejected selections must not propagate")
}

func TestSetActiveJdkByTildePath(t *testing.T) {
	f := newFixture(t)
	t.Setenv("HOME", f.home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	custom := testutil.MakeJDK(t, filepath.Join(f.home, "sdks"), "jdk-22", "22", "")

	result, err := f.svc.SetActiveJdk(context.Background(), "~/sdks/jdk-22")
	require.NoError(t, err)
	require.Equal(t, custom, result.JDK.Home)
	require.Equal(t, UnknownID, result.JDK.ID)
	require.Equal(t, custom, readState(t, f.svc).Home)
}

func TestSetActiveJdkWarnings(t *testing.T) {
	f := newFixture(t)
	f.adapter.fail = errs.New(errs.KindPropagationFailed, "propagate.test", "", "bus down", nil)
	bare := filepath.Join(f.jdks, "bare")
	require.NoError(t, os.MkdirAll(bare, 0o755))

	result, err := f.svc.SetActiveJdk(context.Background(), bare)
	require.NoError(t, err, "propagation failure must not fail the selection")
	require.Len(t, result.Warnings, 2)
	require.Contains(t, result.Warnings[0], "bin/java")
	require.Contains(t, result.Warnings[1], "recording")
	require.Equal(t, bare, readState(t, f.svc).Home)
}

func TestResolveRediscoversUnknownRef(t *testing.T) {
	t.Setenv(config.EnvStateFile, "")
	home := testutil.MakeJDK(t, t.TempDir(), "new", "25", "")
	record := jdk.Record{ID: "jdk-25-abc123", VersionMajor: 25, VersionFull: "25", Home: home}
	discoverer := &countingDiscoverer{results: []registry.Result{{}, {Records: []jdk.Record{record}}}}
	svc := New(Options{
		Config:   config.Default(),
		Paths:    config.DefaultPaths(t.TempDir(), t.TempDir()),
		Registry: discoverer,
		Adapter:  propagate.Noop{},
	})

	result, err := svc.SetActiveJdk(context.Background(), "25")
	require.NoError(t, err)
	require.Equal(t, home, result.JDK.Home)
	require.Equal(t, 2, discoverer.calls)
}

func TestGetActiveJdk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	active, err := f.svc.GetActiveJdk(ctx)
	require.NoError(t, err)
	require.False(t, active.Selected)
	require.Nil(t, active.JDK)

	outside := testutil.MakeJDK(t, t.TempDir(), "custom", "22", "")
	_, err = state.New(f.svc.StatePath()).Write(outside)
	require.NoError(t, err)

	active, err = f.svc.GetActiveJdk(ctx)
	require.NoError(t, err)
	require.True(t, active.Selected)
	require.False(t, active.Known)
	require.Equal(t, UnknownID, active.JDK.ID)
	require.Equal(t, outside, active.JDK.Home)

	require.NoError(t, os.WriteFile(f.svc.StatePath(), []byte("not/absolute\n"), 0o644))
	_, err = f.svc.GetActiveJdk(ctx)
	require.True(t, errors.Is(err, errs.StateCorrupt), "got %v", err)
}

func TestClearActiveJdk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SetActiveJdk(ctx, "21")
	require.NoError(t, err)

	result, err := f.svc.ClearActiveJdk(ctx)
	require.NoError(t, err)
	require.True(t, result.Propagation.Applied)
	require.False(t, readState(t, f.svc).Selected())
	last := f.adapter.calls[len(f.adapter.calls)-1]
	require.False(t, last.Selected())
}

func TestSetActiveJdkRefusesCorruptState(t *testing.T) {
	f := newFixture(t)
	const corrupt = "not a path\nsecond line\n"
	require.NoError(t, os.WriteFile(f.svc.StatePath(), []byte(corrupt), 0o644))

	_, err := f.svc.SetActiveJdk(context.Background(), f.homeB)
	require.True(t, errors.Is(err, errs.StateCorrupt), "got %v", err)
	data, err := os.ReadFile(f.svc.StatePath())
	require.NoError(t, err)
	require.Equal(t, corrupt, string(data))
	require.Empty(t, f.adapter.calls)
}

func TestRepairActiveJdk(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.svc.StatePath(), []byte("garbage\nlines\n"), 0o644))

	result, err := f.svc.RepairActiveJdk(context.Background(), "17")
	require.NoError(t, err)
	require.Equal(t, f.homeA, result.JDK.Home)
	require.Equal(t, f.homeA, readState(t, f.svc).Home)
}

func TestResolveJenvDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("jenv is unix only")
	}
	t.Setenv(config.EnvStateFile, "")
	home := t.TempDir()
	versions := filepath.Join(home, ".jenv", "versions")
	jenvHome := testutil.MakeJDK(t, versions, "openjdk64-21.0.10", "21.0.10", "")
	cfg := config.Default()
	cfg.Discovery.Strategies = []string{registry.StrategyJenv}
	svc := New(Options{Config: cfg, Paths: config.DefaultPaths(home, t.TempDir()), Adapter: propagate.Noop{}})

	_, err := svc.Resolve(context.Background(), JenvDefaultRef)
	require.True(t, errors.Is(err, errs.UnknownJdk), "got %v", err)

	require.NoError(t, os.WriteFile(filepath.Join(home, ".jenv", "version"), []byte("openjdk64-21.0.10\n"), 0o644))
	record, err := svc.Resolve(context.Background(), JenvDefaultRef)
	require.NoError(t, err)
	require.Equal(t, jenvHome, record.Home)
}

func TestHookShellsFallsBackToLoginShell(t *testing.T) {
	f := newFixture(t)
	orig := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		if key == "SHELL" {
			return "/usr/bin/zsh", true
		}
		return "", false
	}
	t.Cleanup(func() { lookupEnv = orig })

	require.Equal(t, []hook.Shell{hook.Zsh}, f.svc.HookShells())

	f.cfg.Hooks.Shells = []string{"fish", "bash"}
	require.Equal(t, []hook.Shell{hook.Fish, hook.Bash}, f.svc.HookShells())
}

func TestShellIntegrationRoundTrip(t *testing.T) {
	f := newFixture(t)
	target, err := f.svc.ShellTarget(hook.Bash)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(target, []byte("export EDITOR=vim\n"), 0o644))

	plan, err := f.svc.PlanShellIntegration(hook.Bash, hook.OpInstall)
	require.NoError(t, err)
	require.Contains(t, plan.Diff, hook.StartMarker)

	_, err = f.svc.InstallShellIntegration(hook.Bash)
	require.NoError(t, err)
	status, err := f.svc.ShellIntegrationStatus(hook.Bash)
	require.NoError(t, err)
	require.Equal(t, hook.StatusInstalled, status)

	change, err := f.svc.RemoveShellIntegration(hook.Bash)
	require.NoError(t, err)
	require.True(t, change.Changed)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "export EDITOR=vim\n", string(data))
}

func TestRepublishPropagatesWithoutWriting(t *testing.T) {
	f := newFixture(t)
	outcome := f.svc.Republish(context.Background(), state.Selection{Home: f.homeA})
	require.True(t, outcome.Applied)
	require.Equal(t, f.homeA, f.adapter.current)
	require.False(t, readState(t, f.svc).Selected())
}
