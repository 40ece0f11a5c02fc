package messages

// Interactive prompt messages.
const (
	PromptRequiresTerminal = "interactive prompts require a terminal; pass the choice as an argument instead"
	PromptCancelled        = "cancelled"
	PromptSelectJdkTitle   = "Select the active JDK"
	PromptJdkOptionFmt     = "%-10s %s"
	PromptJdkActiveFmt     = "%s (active)"
	PromptRepairConfirmFmt = "Overwrite the corrupt state file %s with %s?"
	PromptNoJdks           = "no JDKs were discovered; pass a JDK home path instead"
)
