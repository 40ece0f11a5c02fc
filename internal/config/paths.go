package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Environment variables that override file configuration.
const (
	EnvConfigPath = "JDKPULSE_CONFIG"
	EnvStateFile  = "JDKPULSE_STATE_FILE"
	EnvLogLevel   = "JDKPULSE_LOG_LEVEL"
)

// StateFileName is the per-user canonical state file under the home directory.
const StateFileName = ".jdk_current"

var (
	homeDirFunc       = homedir.Dir
	userConfigDirFunc = os.UserConfigDir
	lookupEnvFunc     = os.LookupEnv
)

// Paths holds resolved locations for jdk-pulse files.
type Paths struct {
	Home       string
	ConfigPath string
	StatePath  string
}

// DefaultPaths returns the default locations rooted at a home and config directory.
func DefaultPaths(home string, configDir string) Paths {
	return Paths{
		Home:       home,
		ConfigPath: filepath.Join(configDir, "jdk-pulse", "config.toml"),
		StatePath:  filepath.Join(home, StateFileName),
	}
}

// ResolvePaths resolves locations for the current user. explicitConfig, when non-empty,
// wins over JDKPULSE_CONFIG and the OS config directory.
func ResolvePaths(explicitConfig string) (Paths, error) {
	home, err := homeDirFunc()
	if err != nil {
		return Paths{}, err
	}
	configDir, err := userConfigDirFunc()
	if err != nil {
		configDir = filepath.Join(home, ".config")
	}
	paths := DefaultPaths(home, configDir)
	if value, ok := lookupEnvFunc(EnvConfigPath); ok && value != "" {
		paths.ConfigPath = value
	}
	if explicitConfig != "" {
		paths.ConfigPath = explicitConfig
	}
	return paths, nil
}

// StatePath returns the state file location, honoring JDKPULSE_STATE_FILE and the
// [state] path setting in that order.
func (c *Config) StatePath(paths Paths) string {
	if value, ok := lookupEnvFunc(EnvStateFile); ok && value != "" {
		return expandHome(value)
	}
	if c.State.Path != "" {
		return expandHome(c.State.Path)
	}
	return paths.StatePath
}

func expandHome(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
