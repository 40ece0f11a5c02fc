package doctor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestReportAccessorsReturnCopies(t *testing.T) {
	input := map[string]Check{
		"state-file": {Observed: "/a", Expected: "x", Verdict: VerdictOK, Notes: []string{"one"}},
	}
	report := NewReport(input)
	input["state-file"].Notes[0] = "mutated input"

	checks := report.Checks()
	checks["state-file"].Notes[0] = "mutated output"
	delete(checks, "state-file")

	check, ok := report.Check("state-file")
	if !ok {
		t.Fatalf("check missing after caller mutation")
	}
	if check.Notes[0] != "one" {
		t.Fatalf("report was mutated: %v", check.Notes)
	}
}

func TestReportVerdictIsWorst(t *testing.T) {
	cases := []struct {
		verdicts []Verdict
		want     Verdict
	}{
		{nil, VerdictOK},
		{[]Verdict{VerdictOK, VerdictOK}, VerdictOK},
		{[]Verdict{VerdictOK, VerdictWarn}, VerdictWarn},
		{[]Verdict{VerdictWarn, VerdictFail, VerdictOK}, VerdictFail},
	}
	for _, tc := range cases {
		checks := map[string]Check{}
		for i, verdict := range tc.verdicts {
			checks[string(rune('a'+i))] = Check{Verdict: verdict}
		}
		if got := NewReport(checks).Verdict(); got != tc.want {
			t.Fatalf("Verdict(%v) = %s, want %s", tc.verdicts, got, tc.want)
		}
	}
}

func TestReportSerializesFlat(t *testing.T) {
	report := NewReport(map[string]Check{
		"hook:bash":   {Observed: "installed", Expected: "installed", Verdict: VerdictOK},
		"tool:docker": {Observed: "not found", Expected: "on PATH", Verdict: VerdictWarn, Notes: []string{"docker is not on PATH"}},
	})

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["tool:docker"]["verdict"] != "warn" || decoded["hook:bash"]["observed"] != "installed" {
		t.Fatalf("unexpected json %s", data)
	}
	if _, ok := decoded["hook:bash"]["notes"]; ok {
		t.Fatalf("empty notes should be omitted: %s", data)
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML map[string]map[string]any
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromYAML["tool:docker"]["verdict"] != "warn" || len(fromYAML) != 2 {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
}

func TestParseShellOutputIgnoresNoise(t *testing.T) {
	output := "Welcome!\n" + beginMarker + "\nJAVA_HOME=/opt/jdk-21\nopenjdk version \"21.0.2\" 2024-01-16\n" + endMarker + "\nbye\n"
	obs, ok := parseShellOutput(output)
	if !ok {
		t.Fatalf("markers not found")
	}
	if obs.JavaHome != "/opt/jdk-21" || obs.Version != "21.0.2" {
		t.Fatalf("unexpected observation %+v", obs)
	}

	legacy, ok := parseShellOutput(beginMarker + "\nJAVA_HOME=\njava version \"1.8.0_402\"\n" + endMarker)
	if !ok || legacy.Version != "1.8.0_402" || legacy.JavaHome != "" {
		t.Fatalf("unexpected legacy observation %+v", legacy)
	}

	if _, ok := parseShellOutput(beginMarker + "\nJAVA_HOME=/x\n"); ok {
		t.Fatalf("unterminated output must not parse")
	}
}

func TestLiveShellRequestPerShell(t *testing.T) {
	cases := []struct {
		shell    LiveShell
		wantFlag string
	}{
		{LiveShell{Name: "bash", Path: "/bin/bash"}, "-i"},
		{LiveShell{Name: "zsh", Path: "/bin/zsh"}, "-i"},
		{LiveShell{Name: "sh", Path: "/bin/dash"}, "-l"},
		{LiveShell{Name: "fish", Path: "/usr/bin/fish"}, "-i"},
		{LiveShell{Name: "pwsh", Path: "/usr/bin/pwsh"}, "-NoLogo"},
		{LiveShell{Name: "custom", Path: "/usr/local/bin/zsh"}, "-i"},
	}
	for _, tc := range cases {
		req := liveShellRequest(tc.shell, time.Second, true)
		if req.Name != tc.shell.Path || req.Args[0] != tc.wantFlag || !req.TTY || req.Timeout != time.Second {
			t.Fatalf("%s: unexpected request %+v", tc.shell.Name, req)
		}
		script := req.Args[len(req.Args)-1]
		if !strings.Contains(script, beginMarker) || !strings.Contains(script, endMarker) {
			t.Fatalf("%s: script lacks markers: %s", tc.shell.Name, script)
		}
		for _, kv := range req.Env {
			if strings.HasPrefix(kv, "JAVA_HOME=") {
				t.Fatalf("%s: inherited JAVA_HOME must be dropped", tc.shell.Name)
			}
		}
	}
}
