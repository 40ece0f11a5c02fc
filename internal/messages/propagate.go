package messages

// Propagation messages.
const (
	PropagateDisabled          = "propagation disabled in config"
	PropagateUnsupportedFmt    = "no environment store for %s; shells pick up the selection through the hook"
	PropagateUserManagerAbsent = "systemd user manager not reachable"
	PropagateCommandFailedFmt  = "%s exited with status %d: %s"
	PropagateRegistryOpenFmt   = "open HKCU\\Environment: %v"
	PropagateRegistryWriteFmt  = "write HKCU\\Environment %s: %v"
	PropagateBroadcastFailed   = "environment change broadcast did not complete"
	PropagateRegistryMissing   = "windows registry is not available on this platform"
)
