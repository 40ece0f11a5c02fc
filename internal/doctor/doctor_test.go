package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/hook"
	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
	"github.com/conn-castle/jdk-pulse/internal/propagate"
	"github.com/conn-castle/jdk-pulse/internal/registry"
	"github.com/conn-castle/jdk-pulse/internal/state"
	"github.com/conn-castle/jdk-pulse/internal/testutil"
)

type fakeHooks struct {
	statuses map[hook.Shell]hook.Status
	err      error
}

func (f fakeHooks) Status(shell hook.Shell) (hook.Status, error) {
	if f.err != nil {
		return "", f.err
	}
	status, ok := f.statuses[shell]
	if !ok {
		return hook.StatusNotInstalled, nil
	}
	return status, nil
}

func (f fakeHooks) Target(shell hook.Shell) (string, error) {
	return "/home/user/." + string(shell) + "rc", nil
}

type fakeDiscoverer struct {
	result registry.Result
}

func (f fakeDiscoverer) Discover(context.Context) registry.Result {
	return f.result
}

type fakeAdapter struct {
	observed string
	err      error
}

func (fakeAdapter) Name() string { return "fake" }

func (fakeAdapter) Propagate(context.Context, state.Selection) propagate.Outcome {
	return propagate.Outcome{Adapter: "fake", Applied: true}
}

func (f fakeAdapter) Observe(context.Context) (string, error) { return f.observed, f.err }

type fakeRunner struct {
	result probe.Result
	err    error
	got    []probe.Request
}

func (f *fakeRunner) Run(_ context.Context, req probe.Request) (probe.Result, error) {
	f.got = append(f.got, req)
	return f.result, f.err
}

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if path, ok := found[name]; ok {
			return path, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func selectHome(t *testing.T, home string) *state.Store {
	t.Helper()
	store := state.New(filepath.Join(t.TempDir(), ".jdk_current"))
	if _, err := store.Write(home); err != nil {
		t.Fatalf("write state: %v", err)
	}
	return store
}

func shellOutput(home string, version string) string {
	return fmt.Sprintf("motd noise\n%s\nJAVA_HOME=%s\nopenjdk version \"%s\" 2024-01-16\nOpenJDK Runtime Environment\n%s\n",
		beginMarker, home, version, endMarker)
}

func requireVerdict(t *testing.T, report Report, name string, want Verdict) Check {
	t.Helper()
	check, ok := report.Check(name)
	if !ok {
		t.Fatalf("missing check %s in %v", name, report.Names())
	}
	if check.Verdict != want {
		t.Fatalf("%s verdict = %s, want %s (observed %q, notes %v)", name, check.Verdict, want, check.Observed, check.Notes)
	}
	return check
}

func TestRunAllOKWithSimulatedShell(t *testing.T) {
	root := t.TempDir()
	testutil.MakeJDK(t, root, "a", "17.0.9", "Eclipse Adoptium")
	homeB := testutil.MakeJDK(t, root, "b", "21.0.2", "Eclipse Adoptium")
	store := selectHome(t, homeB)

	shellPath := testutil.WriteScript(t, filepath.Join(root, "shells"), "bash",
		fmt.Sprintf("printf '%%s' '%s'\n", strings.ReplaceAll(shellOutput(homeB, "21.0.2"), "'", "'\\''")))
	stubLookPath(t, map[string]string{"docker": "/usr/bin/docker"})

	record := jdk.Record{ID: jdk.MakeID("Eclipse Adoptium", "21.0.2", homeB), VersionMajor: 21, VersionFull: "21.0.2", Home: homeB}
	report := Run(context.Background(), Deps{
		State:      store,
		Hooks:      fakeHooks{statuses: map[hook.Shell]hook.Status{hook.Bash: hook.StatusInstalled}},
		HookShells: []hook.Shell{hook.Bash},
		Registry:   fakeDiscoverer{result: registry.Result{Records: []jdk.Record{record}}},
		Adapter:    fakeAdapter{observed: homeB},
		Runner:     probe.ExecRunner{},
		LiveShells: []LiveShell{{Name: "bash", Path: shellPath}},
		Tools:      []string{"docker"},
		Timeout:    5 * time.Second,
	})

	if report.Verdict() != VerdictOK {
		t.Fatalf("report verdict = %s, checks %+v", report.Verdict(), report.Checks())
	}
	wantNames := []string{"hook:bash", "java-binary", "live-shell:bash", "propagation", "registry", "state-file", "tool:docker"}
	if got := report.Names(); strings.Join(got, ",") != strings.Join(wantNames, ",") {
		t.Fatalf("names = %v, want %v", got, wantNames)
	}
	live := requireVerdict(t, report, "live-shell:bash", VerdictOK)
	if !strings.Contains(live.Observed, homeB) || !strings.Contains(live.Observed, "21") {
		t.Fatalf("live observed = %q", live.Observed)
	}
}

func TestRunLiveShellTimeoutDegradesToWarn(t *testing.T) {
	root := t.TempDir()
	home := testutil.MakeJDK(t, root, "jdk", "21.0.2", "")
	store := selectHome(t, home)
	shellPath := testutil.WriteScript(t, filepath.Join(root, "shells"), "zsh", "sleep 30\n")
	stubLookPath(t, map[string]string{"docker": "/usr/bin/docker"})

	start := time.Now()
	report := Run(context.Background(), Deps{
		State:      store,
		Runner:     probe.ExecRunner{},
		LiveShells: []LiveShell{{Name: "zsh", Path: shellPath}},
		Tools:      []string{"docker"},
		Timeout:    200 * time.Millisecond,
	})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("doctor blocked for %s", elapsed)
	}
	live := requireVerdict(t, report, "live-shell:zsh", VerdictWarn)
	if len(live.Notes) == 0 {
		t.Fatalf("expected a timeout note")
	}
	requireVerdict(t, report, "tool:docker", VerdictOK)
	requireVerdict(t, report, "state-file", VerdictOK)
	if report.HasFailures() {
		t.Fatalf("timeout must not fail the report")
	}
}

func TestRunLiveShellMismatchFails(t *testing.T) {
	root := t.TempDir()
	homeA := testutil.MakeJDK(t, root, "a", "17.0.9", "")
	homeB := testutil.MakeJDK(t, root, "b", "21.0.2", "")
	store := selectHome(t, homeB)
	runner := &fakeRunner{result: probe.Result{Stdout: []byte(shellOutput(homeA, "17.0.9"))}}

	report := Run(context.Background(), Deps{
		State:      store,
		Runner:     runner,
		LiveShells: []LiveShell{{Name: "bash", Path: "/bin/bash"}},
	})
	live := requireVerdict(t, report, "live-shell:bash", VerdictFail)
	joined := strings.Join(live.Notes, "\n")
	if !strings.Contains(joined, homeA) || !strings.Contains(joined, "17") {
		t.Fatalf("notes should name observed values: %v", live.Notes)
	}
	if !report.HasFailures() {
		t.Fatalf("expected report failure")
	}
	if len(runner.got) != 1 || runner.got[0].Args[0] != "-i" {
		t.Fatalf("unexpected probe request %+v", runner.got)
	}
}

func TestRunLiveShellOutcomes(t *testing.T) {
	root := t.TempDir()
	home := testutil.MakeJDK(t, root, "jdk", "21.0.2", "")
	store := selectHome(t, home)

	cases := []struct {
		name   string
		runner *fakeRunner
		want   Verdict
	}{
		{"spawn failure", &fakeRunner{err: errs.New(errs.KindProbeSpawnFailed, "probe.run", "", "boom", nil)}, VerdictWarn},
		{"no markers", &fakeRunner{result: probe.Result{Stdout: []byte("bash: bad rc\n"), ExitCode: 2}}, VerdictWarn},
		{"java missing", &fakeRunner{result: probe.Result{Stdout: []byte(beginMarker + "\nJAVA_HOME=" + home + "\n" + endMarker + "\n")}}, VerdictWarn},
		{"crlf under tty", &fakeRunner{result: probe.Result{Stdout: []byte(strings.ReplaceAll(shellOutput(home, "21.0.2"), "\n", "\r\n"))}}, VerdictOK},
		{"unset java home", &fakeRunner{result: probe.Result{Stdout: []byte(shellOutput("", "21.0.2"))}}, VerdictFail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := Run(context.Background(), Deps{
				State:      store,
				Runner:     tc.runner,
				LiveShells: []LiveShell{{Name: "bash", Path: "/bin/bash"}},
			})
			requireVerdict(t, report, "live-shell:bash", tc.want)
		})
	}
}

func TestRunLiveShellWithoutSelectionWarns(t *testing.T) {
	store := state.New(filepath.Join(t.TempDir(), ".jdk_current"))
	runner := &fakeRunner{}
	report := Run(context.Background(), Deps{
		State:      store,
		Runner:     runner,
		LiveShells: []LiveShell{{Name: "bash", Path: "/bin/bash"}},
		Registry:   fakeDiscoverer{},
	})
	requireVerdict(t, report, "live-shell:bash", VerdictWarn)
	requireVerdict(t, report, "state-file", VerdictWarn)
	if len(runner.got) != 0 {
		t.Fatalf("no probe expected without a selection")
	}
	if _, ok := report.Check("registry"); ok {
		t.Fatalf("registry check needs a selection")
	}
	if _, ok := report.Check("java-binary"); ok {
		t.Fatalf("java-binary check needs a selection")
	}
}

func TestRunStateFile(t *testing.T) {
	t.Run("corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".jdk_current")
		if err := os.WriteFile(path, []byte("relative/path\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		report := Run(context.Background(), Deps{State: state.New(path)})
		check := requireVerdict(t, report, "state-file", VerdictFail)
		if check.Observed != messages.DoctorObservedCorrupt {
			t.Fatalf("observed = %q", check.Observed)
		}
	})
	t.Run("unreadable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".jdk_current")
		if err := os.MkdirAll(path, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		report := Run(context.Background(), Deps{State: state.New(path)})
		check := requireVerdict(t, report, "state-file", VerdictFail)
		if check.Observed != messages.DoctorObservedUnread {
			t.Fatalf("observed = %q", check.Observed)
		}
	})
	t.Run("home removed", func(t *testing.T) {
		home := testutil.MakeJDK(t, t.TempDir(), "gone", "21", "")
		store := selectHome(t, home)
		if err := os.RemoveAll(home); err != nil {
			t.Fatalf("remove: %v", err)
		}
		report := Run(context.Background(), Deps{State: store})
		requireVerdict(t, report, "state-file", VerdictFail)
		requireVerdict(t, report, "java-binary", VerdictWarn)
	})
}

func TestRunHookVerdicts(t *testing.T) {
	hooks := fakeHooks{statuses: map[hook.Shell]hook.Status{
		hook.Bash: hook.StatusInstalled,
		hook.Zsh:  hook.StatusOutdated,
		hook.Fish: hook.StatusMalformed,
	}}
	report := Run(context.Background(), Deps{
		Hooks:      hooks,
		HookShells: []hook.Shell{hook.Bash, hook.Zsh, hook.Fish, hook.Sh},
	})
	requireVerdict(t, report, "hook:bash", VerdictOK)
	requireVerdict(t, report, "hook:zsh", VerdictWarn)
	requireVerdict(t, report, "hook:fish", VerdictFail)
	requireVerdict(t, report, "hook:sh", VerdictWarn)

	failing := Run(context.Background(), Deps{
		Hooks:      fakeHooks{err: errors.New("permission denied")},
		HookShells: []hook.Shell{hook.Bash},
	})
	requireVerdict(t, failing, "hook:bash", VerdictWarn)
}

func TestRunToolMissingWarns(t *testing.T) {
	stubLookPath(t, map[string]string{})
	report := Run(context.Background(), Deps{Tools: []string{"docker"}})
	check := requireVerdict(t, report, "tool:docker", VerdictWarn)
	if check.Observed != messages.DoctorToolMissing {
		t.Fatalf("observed = %q", check.Observed)
	}
}

func TestRunRegistryMissingWarns(t *testing.T) {
	home := testutil.MakeJDK(t, t.TempDir(), "custom", "21", "")
	report := Run(context.Background(), Deps{
		State:    selectHome(t, home),
		Registry: fakeDiscoverer{result: registry.Result{Notes: []string{"scan: nothing"}}},
	})
	check := requireVerdict(t, report, "registry", VerdictWarn)
	if len(check.Notes) != 2 {
		t.Fatalf("expected discovery notes carried over, got %v", check.Notes)
	}
}

func TestRunPropagation(t *testing.T) {
	home := testutil.MakeJDK(t, t.TempDir(), "jdk", "21", "")
	store := selectHome(t, home)

	report := Run(context.Background(), Deps{State: store, Adapter: fakeAdapter{observed: "/elsewhere"}})
	requireVerdict(t, report, "propagation", VerdictWarn)

	report = Run(context.Background(), Deps{State: store, Adapter: fakeAdapter{err: errors.New("no bus")}})
	requireVerdict(t, report, "propagation", VerdictWarn)

	report = Run(context.Background(), Deps{State: store, Adapter: fakeAdapter{observed: home + "/"}})
	requireVerdict(t, report, "propagation", VerdictOK)

	report = Run(context.Background(), Deps{State: store, Adapter: propagate.Noop{}})
	if _, ok := report.Check("propagation"); ok {
		t.Fatalf("noop adapter must not produce a propagation check")
	}
}

func TestRunTaskAbandonsSlowCheck(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	check := runTask(context.Background(), task{
		name:     "slow",
		expected: "fast",
		timeout:  50 * time.Millisecond,
		run: func(context.Context) Check {
			<-release
			return Check{Verdict: VerdictOK}
		},
	}, zap.NewNop())
	if check.Verdict != VerdictWarn || check.Expected != "fast" {
		t.Fatalf("unexpected check %+v", check)
	}
}
