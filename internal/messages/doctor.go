package messages

// Doctor messages for the doctor command and its checks.
const (
	// DoctorUse is the doctor command name.
	DoctorUse   = "doctor"
	DoctorShort = "Check that shells, hooks, and environment stores agree on the active JDK"

	DoctorHealthCheckFmt = "🏥 Checking active JDK consistency (%s)...\n"

	DoctorCheckStateFile    = "state-file"
	DoctorCheckLiveShellFmt = "live-shell:%s"
	DoctorCheckHookFmt      = "hook:%s"
	DoctorCheckToolFmt      = "tool:%s"
	DoctorCheckRegistry     = "registry"
	DoctorCheckJavaBinary   = "java-binary"
	DoctorCheckPropagation  = "propagation"

	DoctorObservedAbsent  = "(absent)"
	DoctorObservedUnset   = "(unset)"
	DoctorObservedUnknown = "(unknown)"
	DoctorObservedNone    = "(none selected)"
	DoctorObservedCorrupt = "(corrupt)"
	DoctorObservedUnread  = "(unreadable)"

	DoctorExpectedStateFile         = "one absolute path to an existing JDK home"
	DoctorStateAbsentNote           = "No JDK is selected yet; run `jdkpulse use <ref>`."
	DoctorStateCorruptNoteFmt       = "State file is corrupt: %v"
	DoctorStateCorruptRecommend     = "Run `jdkpulse state repair <ref>` to overwrite it."
	DoctorStateUnreadableNoteFmt    = "State file cannot be read: %v"
	DoctorStateUnreadableRecommend  = "Check that the state path is a regular file you can read."
	DoctorStateHomeMissingNoteFmt   = "Selected home no longer exists: %s"
	DoctorStateHomeMissingRecommend = "Select an installed JDK with `jdkpulse use <ref>`."

	DoctorLiveShellObservedFmt      = "JAVA_HOME=%s java=%s"
	DoctorLiveShellNoSelection      = "No JDK is selected, so there is nothing to compare against."
	DoctorLiveShellHomeMismatchFmt  = "JAVA_HOME is %s, expected %s"
	DoctorLiveShellMajorMismatchFmt = "java -version reports major %s, expected %d"
	DoctorLiveShellNoMarkers        = "Shell output did not contain the probe markers."
	DoctorLiveShellExitFmt          = "Shell exited with code %d"
	DoctorLiveShellProbeFailedFmt   = "Shell probe failed: %v"
	DoctorLiveShellNoShell          = "No shell to probe; set $SHELL or [doctor] shells."
	DoctorLiveShellNoJava           = "java was not found on the shell's PATH"
	DoctorLiveShellMajorUnknown     = "Expected major version is unknown; only JAVA_HOME was compared."
	DoctorLiveShellRecommendFmt     = "Open a new terminal, or run `jdkpulse hook install %s` if the hook is missing."

	DoctorExpectedHookInstalled     = "installed"
	DoctorHookTargetFmt             = "Target: %s"
	DoctorHookInstallRecommendFmt   = "Run `jdkpulse hook install %s`."
	DoctorHookOutdatedNote          = "Block differs from the current snippet."
	DoctorHookMalformedRecommendFmt = "Fix the jdk-pulse markers in %s by hand, then run `jdkpulse hook install %s`."
	DoctorHookStatusFailedFmt       = "Could not read hook status: %v"

	DoctorExpectedToolOnPath = "on PATH"
	DoctorToolMissing        = "not found"
	DoctorToolMissingNoteFmt = "%s is not on PATH; it will not see the selected JDK."

	DoctorExpectedRegistryFmt = "%s among discovered JDKs"
	DoctorRegistryFoundFmt    = "discovered as %s"
	DoctorRegistryMissingFmt  = "not among %d discovered JDKs"
	DoctorRegistryMissingNote = "The selected home was not found by any discovery strategy."

	DoctorJavaBinaryMissingNote = "The selected home has no bin/java; tools will fail to launch it."

	DoctorPropagationMismatchFmt      = "%s holds %s, expected %s"
	DoctorPropagationObserveFailedFmt = "Could not read the %s environment store: %v"
	DoctorPropagationRecommend        = "Run `jdkpulse use <ref>` again to republish the selection."

	DoctorCheckTimedOutFmt = "Check did not finish within %s"

	DoctorFailureSummary = "❌ Some checks failed. Please address the items above."
	DoctorWarnSummary    = "⚠️  All checks passed with warnings."
	DoctorFailureError   = "doctor checks failed"
	DoctorSuccessSummary = "✅ All layers agree on the active JDK."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-16s %s\n"
	DoctorExpectedLineFmt      = "       expected: %s\n"
	DoctorRecommendationPrefix = "       💡 "
	DoctorRecommendationIndent = "         "
)
