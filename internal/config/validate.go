package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

// Strategy names accepted in [discovery] strategies.
var validStrategies = map[string]struct{}{
	"java_home":    {},
	"jenv":         {},
	"sdkman":       {},
	"alternatives": {},
	"scan":         {},
	"registry":     {},
}

// Shell names accepted in [hooks] shells and [doctor] shells. [doctor] shells also
// accepts absolute executable paths.
var validShells = map[string]struct{}{
	"bash": {},
	"zsh":  {},
	"fish": {},
	"sh":   {},
	"pwsh": {},
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the config is consistent.
func (c *Config) Validate(path string) error {
	for _, s := range c.Discovery.Strategies {
		if _, ok := validStrategies[s]; !ok {
			return fmt.Errorf(messages.ConfigUnknownStrategyFmt, path, s)
		}
	}
	for _, s := range c.Hooks.Shells {
		if _, ok := validShells[s]; !ok {
			return fmt.Errorf(messages.ConfigUnknownShellFmt, path, "hooks.shells", s)
		}
	}
	for _, s := range c.Doctor.Shells {
		if _, ok := validShells[s]; !ok && !filepath.IsAbs(s) {
			return fmt.Errorf(messages.ConfigUnknownShellFmt, path, "doctor.shells", s)
		}
	}
	for _, tool := range c.Doctor.Tools {
		if strings.TrimSpace(tool) == "" {
			return fmt.Errorf(messages.ConfigEmptyToolFmt, path)
		}
	}
	if err := validateDuration(path, "discovery.timeout", c.Discovery.Timeout); err != nil {
		return err
	}
	if err := validateDuration(path, "doctor.timeout", c.Doctor.Timeout); err != nil {
		return err
	}
	if _, ok := validLogLevels[strings.ToLower(c.Log.Level)]; !ok {
		return fmt.Errorf(messages.ConfigLogLevelInvalidFmt, path, c.Log.Level)
	}
	return nil
}

func validateDuration(path string, field string, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf(messages.ConfigDurationInvalidFmt, path, field, value)
	}
	return nil
}
