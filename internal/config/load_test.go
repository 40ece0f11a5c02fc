package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func stubEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := lookupEnvFunc
	lookupEnvFunc = func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	t.Cleanup(func() { lookupEnvFunc = orig })
}

func TestLoadConfigMissingFileReturnsDefault(t *testing.T) {
	stubEnv(t, nil)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Fatalf("expected default log level, got %q", cfg.Log.Level)
	}
	if !cfg.PropagationEnabled() {
		t.Fatalf("expected propagation enabled by default")
	}
	if cfg.ProbeTimeout() != DefaultProbeTimeout {
		t.Fatalf("unexpected probe timeout %s", cfg.ProbeTimeout())
	}
	if tools := cfg.DoctorTools(); len(tools) != 1 || tools[0] != "docker" {
		t.Fatalf("unexpected default tools %v", tools)
	}
}

func TestParseConfigFull(t *testing.T) {
	data := []byte(`
[state]
path = "/tmp/jdk"

[discovery]
strategies = ["jenv", "scan"]
scan = ["/opt/jdks/*"]
timeout = "3s"

[hooks]
shells = ["bash", "zsh"]

[propagation]
enabled = false

[doctor]
timeout = "2s"
shells = ["zsh"]
tools = ["docker", "mvn"]
tty = true

[log]
level = "debug"
`)
	cfg, err := ParseConfig(data, "test.toml")
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if cfg.State.Path != "/tmp/jdk" {
		t.Fatalf("unexpected state path %q", cfg.State.Path)
	}
	if cfg.PropagationEnabled() {
		t.Fatalf("expected propagation disabled")
	}
	if cfg.DiscoveryTimeout() != 3*time.Second || cfg.ProbeTimeout() != 2*time.Second {
		t.Fatalf("unexpected timeouts %s %s", cfg.DiscoveryTimeout(), cfg.ProbeTimeout())
	}
	if len(cfg.DoctorTools()) != 2 || !cfg.Doctor.TTY {
		t.Fatalf("unexpected doctor config %+v", cfg.Doctor)
	}
}

func TestParseConfigEmptyToolsDisablesToolChecks(t *testing.T) {
	cfg, err := ParseConfig([]byte("[doctor]\ntools = []\n"), "test.toml")
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if tools := cfg.DoctorTools(); len(tools) != 0 {
		t.Fatalf("expected no tools, got %v", tools)
	}
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{name: "unknown key", data: "[state]\nfile = \"x\"\n", want: "unrecognized keys"},
		{name: "strategy", data: "[discovery]\nstrategies = [\"brew\"]\n", want: "unknown discovery strategy"},
		{name: "hook shell", data: "[hooks]\nshells = [\"csh\"]\n", want: "hooks.shells"},
		{name: "doctor shell", data: "[doctor]\nshells = [\"tcsh\"]\n", want: "doctor.shells"},
		{name: "duration", data: "[doctor]\ntimeout = \"soon\"\n", want: "doctor.timeout"},
		{name: "log level", data: "[log]\nlevel = \"loud\"\n", want: "log.level"},
		{name: "empty tool", data: "[doctor]\ntools = [\" \"]\n", want: "doctor.tools"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.data), "test.toml")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrConfigValidation) {
				t.Fatalf("expected ErrConfigValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestParseConfigSyntaxErrorIsNotValidation(t *testing.T) {
	_, err := ParseConfig([]byte("[state\n"), "test.toml")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrConfigValidation) {
		t.Fatalf("syntax error should not be a validation error: %v", err)
	}
}

func TestLoadConfigLenientSkipsValidation(t *testing.T) {
	stubEnv(t, nil)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected strict load to fail")
	}
	cfg, err := LoadConfigLenient(path)
	if err != nil {
		t.Fatalf("LoadConfigLenient error: %v", err)
	}
	if cfg.Log.Level != "loud" {
		t.Fatalf("unexpected level %q", cfg.Log.Level)
	}
}

func TestLoadConfigEnvLogLevelOverride(t *testing.T) {
	stubEnv(t, map[string]string{EnvLogLevel: "debug"})
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected env override, got %q", cfg.Log.Level)
	}
}

func TestParseConfigAcceptsAbsoluteDoctorShell(t *testing.T) {
	shell := filepath.Join(t.TempDir(), "bash")
	data := fmt.Sprintf("[doctor]\nshells = [%q]\n", filepath.ToSlash(shell))
	cfg, err := ParseConfig([]byte(data), "test.toml")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(cfg.Doctor.Shells) != 1 {
		t.Fatalf("unexpected shells %v", cfg.Doctor.Shells)
	}
}
