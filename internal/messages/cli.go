package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "jdkpulse"
	// RootShort is the short description for the root command.
	RootShort       = "Keep every shell, IDE, and tool on the same active JDK"
	RootVersionFlag = "Print version and exit"

	RootFlagConfig  = "Path to config.toml (default $XDG_CONFIG_HOME/jdk-pulse/config.toml)"
	RootFlagOutput  = "Output format: text, json, or yaml"
	RootFlagVerbose = "Log debug details to stderr"
	RootFlagNoColor = "Disable colored output"

	RootOutputInvalidFmt = "unsupported output format %q (expected text, json, or yaml)"
	RootLoggerFailedFmt  = "configure logging: %w"
	RootPathsFailedFmt   = "resolve jdk-pulse paths: %w"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// ListUse is the list command name.
	ListUse        = "list"
	ListShort      = "List discovered JDKs"
	ListEmpty      = "No JDKs discovered."
	ListRowFmt     = "%-3s %-24s %-10s %-20s %s\n"
	ListActiveMark = "*"
	ListNoteFmt    = "note: %s\n"

	CurrentUse        = "current"
	CurrentShort      = "Show the active JDK"
	CurrentNone       = "No active JDK selected."
	CurrentFmt        = "%s\n  id:      %s\n  home:    %s\n  version: %s\n"
	CurrentUnknownFmt = "%s (not reported by discovery)\n"

	UseUse           = "use [ref]"
	UseShort         = "Select the active JDK by id, alias, home path, or jenv-default"
	UseLong          = "Select the active JDK. Without a ref, an interactive picker lists the discovered JDKs."
	UseDoneFmt       = "Active JDK: %s (%s)\n"
	WarningFmt       = "warning: %s\n"
	UsePropagatedFmt = "propagated via %s\n"

	ClearUse   = "clear"
	ClearShort = "Clear the active JDK selection"
	ClearDone  = "Active JDK selection cleared."

	StateUse             = "state"
	StateShort           = "Inspect or repair the canonical state file"
	StateRepairUse       = "repair <ref>"
	StateRepairShort     = "Overwrite a corrupt state file with the given JDK"
	StateRepairFlagYes   = "Overwrite without asking for confirmation"
	StateRepairNotNeeded = "State file is readable; use `jdkpulse use` to change the selection."
	StateRepairNeedsYes  = "the state file is corrupt; re-run with --yes to overwrite it without a prompt"
	StateRepairDeclined  = "State file left unchanged."
	StateRepairedFmt     = "Repaired %s: active JDK is %s\n"
	StatePathUse         = "path"
	StatePathShort       = "Print the state file location"

	HookUse            = "hook"
	HookShort          = "Manage the shell integration snippet"
	HookInstallUse     = "install [shell]"
	HookInstallShort   = "Install or refresh the integration block in a shell startup file"
	HookRemoveUse      = "remove [shell]"
	HookRemoveShort    = "Remove the integration block from a shell startup file"
	HookStatusUse      = "status [shell]"
	HookStatusShort    = "Report the integration block state per shell"
	HookPrintUse       = "print <shell>"
	HookPrintShort     = "Print the integration snippet for a shell"
	HookFlagDryRun     = "Print the planned change as a unified diff without writing"
	HookInstalledFmt   = "Installed %s integration in %s\n"
	HookUnchangedFmt   = "%s integration in %s is already up to date\n"
	HookRemovedFmt     = "Removed %s integration from %s\n"
	HookNotPresentFmt  = "No %s integration block in %s\n"
	HookStatusLineFmt  = "%-5s %s %s\n"
	HookDryRunNoChange = "No changes."

	ServeUse   = "serve"
	ServeShort = "Serve the jdk-pulse commands as MCP tools over stdio"

	WatchUse           = "watch"
	WatchShort         = "Report changes to the active JDK as they happen"
	WatchFlagPropagate = "Republish each change to the OS environment store"
	WatchSelectedFmt   = "active JDK: %s\n"
	WatchCleared       = "active JDK cleared"
	WatchReadFailedFmt = "state file unreadable: %v\n"
)
