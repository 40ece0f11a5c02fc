package messages

// Config messages for loading and validating config.toml.
const (
	ConfigReadFailedFmt       = "failed to read config %s: %w"
	ConfigInvalidFmt          = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "config %s contains unrecognized keys: %v"
	ConfigUnknownStrategyFmt  = "config %s: unknown discovery strategy %q (expected java_home, jenv, sdkman, alternatives, scan, or registry)"
	ConfigUnknownShellFmt     = "config %s: %s contains unsupported shell %q (expected bash, zsh, fish, sh, or pwsh)"
	ConfigEmptyToolFmt        = "config %s: doctor.tools entries must not be empty"
	ConfigDurationInvalidFmt  = "config %s: %s must be a positive duration such as \"5s\", got %q"
	ConfigLogLevelInvalidFmt  = "config %s: log.level must be debug, info, warn, or error, got %q"
)
