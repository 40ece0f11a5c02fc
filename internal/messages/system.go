package messages

// System messages for internal file and process operations.
const (
	FsutilCreateTempFmt = "create temp file in %s: %w"
	FsutilWriteTempFmt  = "write temp file %s: %w"
	FsutilSyncTempFmt   = "sync temp file %s: %w"
	FsutilCloseTempFmt  = "close temp file %s: %w"
	FsutilChmodTempFmt  = "chmod temp file %s: %w"
	FsutilRenameFmt     = "replace %s: %w"

	ProbeEmptyCommand   = "probe command is empty"
	ProbeTimedOutFmt    = "%s did not finish within %s"
	ProbeSpawnFailedFmt = "start %s: %v"
	ProbeCancelled      = "probe cancelled"
	ProbeTTYUnsupported = "pseudo terminal probes are not supported on windows"

	LoggingOpenFileFmt     = "open log file %s: %w"
	LoggingInvalidLevelFmt = "invalid log level %q (expected debug, info, warn, or error)"
	WatchCreateFailedFmt   = "create watcher: %w"
	WatchAddFailedFmt      = "watch %s: %w"
)
