package messages

// MCP server messages.
const (
	McpServerName         = "jdk-pulse"
	McpRunServerFailedFmt = "failed to run MCP server: %v"
	McpNilRunner          = "MCP server runner is nil"
	McpToolListJdks       = "List installed JDKs discovered on this machine, newest major version first."
	McpToolGetActiveJdk   = "Return the active JDK selection and the discovered JDK it points at."
	McpToolSetActiveJdk   = "Select the active JDK by id, alias (21, temurin-21), home path, or jenv-default, and propagate it."
	McpToolClearActiveJdk = "Clear the active JDK selection."
	McpToolRunDoctor      = "Check that shells, shell hooks, and environment stores agree on the active JDK."
	McpToolInstallHook    = "Install the jdk-pulse block into a shell startup file (bash, zsh, fish, sh, pwsh)."
	McpToolRemoveHook     = "Remove the jdk-pulse block from a shell startup file."
)
