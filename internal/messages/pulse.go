package messages

// Orchestrator messages for selection and shell integration.
const (
	PulseUnknownJdkFmt         = "no JDK matches %q; run `jdkpulse list` to see discovered JDKs"
	PulseEmptyRef              = "a JDK id, alias, or path is required"
	PulseJenvNoDefault         = "jenv has no global version set (~/.jenv/version is missing or names system)"
	PulseJenvDefaultUnknownFmt = "jenv default %q does not match any discovered JDK"
	PulseNoJavaWarningFmt      = "%s does not contain bin/java; tools may fail to launch it"
	PulsePropagationWarningFmt = "selection saved, but %s propagation failed: %v"
	PulseNoHookShells          = "no shells configured and $SHELL is not a supported shell"
)
