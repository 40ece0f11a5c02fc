package messages

// Hook manager messages.
const (
	HookUnsupportedShellFmt  = "unsupported shell %q (expected bash, zsh, fish, sh, or pwsh)"
	HookMarkersUnbalancedFmt = "found %d start and %d end markers"
	HookMarkersOutOfOrder    = "end marker appears before start marker"
	HookReadFailed           = "cannot read shell startup file"
	HookWriteFailed          = "cannot write shell startup file"
	HookCreateDirFailed      = "cannot create directory for shell startup file"
	HookTemplateMissingFmt   = "missing hook template %s: %v"
	HookManagedComment       = "# Managed by jdkpulse. Edits inside this block are replaced by `jdkpulse hook install`."
)
