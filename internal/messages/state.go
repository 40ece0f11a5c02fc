package messages

// State store messages.
const (
	StateHomeNotDirFmt     = "%s is not a directory"
	StateHomeNotAbsFmt     = "%s is not an absolute path"
	StateHomeUnreadableFmt = "cannot read %s"
	StateHomeEmpty         = "home path is empty"
	StateMultipleLinesFmt  = "expected one line, found %d"
	StateNotAbsoluteFmt    = "content %q is not an absolute path"
	StateReadFailed        = "cannot read state file"
	StateWriteFailed       = "cannot write state file"
	StateClearFailed       = "cannot remove state file"
)
