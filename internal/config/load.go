package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

// ErrConfigValidation wraps config validation failures (as opposed to TOML syntax or
// filesystem errors) so callers can distinguish them with errors.Is.
var ErrConfigValidation = errors.New("config validation failed")

// LoadConfig reads and validates config.toml. A missing file yields Default().
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// ParseConfig parses and validates config TOML data. source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes with unknown-field rejection; toml.Unmarshal ignores typos.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// LoadConfigLenient reads config.toml without validation, returning an error only on
// filesystem or TOML syntax errors. Doctor uses it so a bad setting does not hide the
// rest of the report.
func LoadConfigLenient(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if value, ok := lookupEnvFunc(EnvLogLevel); ok && value != "" {
		c.Log.Level = value
	}
}
