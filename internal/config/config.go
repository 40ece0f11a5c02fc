// Package config loads jdk-pulse user configuration from TOML.
package config

import (
	"time"
)

// Config is the root of config.toml.
type Config struct {
	State       StateConfig       `toml:"state"`
	Discovery   DiscoveryConfig   `toml:"discovery"`
	Hooks       HooksConfig       `toml:"hooks"`
	Propagation PropagationConfig `toml:"propagation"`
	Doctor      DoctorConfig      `toml:"doctor"`
	Log         LogConfig         `toml:"log"`
}

// StateConfig locates the canonical state file.
type StateConfig struct {
	// Path overrides the default ~/.jdk_current location.
	Path string `toml:"path"`
}

// DiscoveryConfig controls which discovery strategies run.
type DiscoveryConfig struct {
	// Strategies restricts discovery to the named strategies; empty means all that apply
	// to the current OS.
	Strategies []string `toml:"strategies"`
	// Scan lists extra doublestar glob patterns whose matches are treated as JDK homes.
	Scan []string `toml:"scan"`
	// SkipDefaultScan disables the built-in per-OS scan roots.
	SkipDefaultScan bool   `toml:"skip_default_scan"`
	Timeout         string `toml:"timeout"`
}

// HooksConfig lists the shells that receive the integration snippet.
type HooksConfig struct {
	Shells []string `toml:"shells"`
}

// PropagationConfig toggles OS environment store propagation.
type PropagationConfig struct {
	Enabled *bool `toml:"enabled"`
}

// DoctorConfig controls the diagnostic probes.
type DoctorConfig struct {
	Timeout string `toml:"timeout"`
	// Shells probed for live agreement; empty means the login shell from $SHELL.
	Shells []string `toml:"shells"`
	// Tools checked for presence on PATH.
	Tools []string `toml:"tools"`
	// TTY runs live-shell probes under a pseudo terminal.
	TTY bool `toml:"tty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Defaults.
const (
	DefaultDiscoveryTimeout = 10 * time.Second
	DefaultProbeTimeout     = 5 * time.Second
	DefaultLogLevel         = "warn"
)

// DefaultTools is the tool list checked by doctor when none is configured.
var DefaultTools = []string{"docker"}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Doctor: DoctorConfig{Tools: append([]string(nil), DefaultTools...)},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// PropagationEnabled reports whether OS propagation should run; it defaults to true.
func (c *Config) PropagationEnabled() bool {
	return c.Propagation.Enabled == nil || *c.Propagation.Enabled
}

// DiscoveryTimeout returns the bound for a single discovery command.
func (c *Config) DiscoveryTimeout() time.Duration {
	return parseDurationOr(c.Discovery.Timeout, DefaultDiscoveryTimeout)
}

// ProbeTimeout returns the bound for a single doctor probe.
func (c *Config) ProbeTimeout() time.Duration {
	return parseDurationOr(c.Doctor.Timeout, DefaultProbeTimeout)
}

// DoctorTools returns the configured tools, falling back to DefaultTools when unset.
func (c *Config) DoctorTools() []string {
	if c.Doctor.Tools == nil {
		return append([]string(nil), DefaultTools...)
	}
	return append([]string(nil), c.Doctor.Tools...)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
