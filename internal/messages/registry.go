package messages

// Discovery messages. Notes are surfaced to users alongside the discovered JDKs.
const (
	RegistryStrategyFailedFmt  = "%s discovery unavailable: %v"
	RegistryCommandExitFmt     = "%s exited with status %d"
	RegistryHomeMissingFmt     = "%s: %s is not a directory, skipped"
	RegistryNoJavaFmt          = "%s: %s has no bin/java, skipped"
	RegistryNoVersionFmt       = "%s: cannot determine the version of %s, skipped"
	RegistryBadVersionFmt      = "%s: unrecognized version %q for %s, skipped"
	RegistryInvalidPatternFmt  = "scan: invalid pattern %q, skipped"
	RegistryUnparsableLineFmt  = "%s: unparsable line %q, skipped"
	RegistryWindowsUnsupported = "windows registry is not available on this platform"
)
