package hook

import (
	"path/filepath"
	"strings"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/messages"
)

// Shell names a supported shell dialect.
type Shell string

// Supported shells.
const (
	Bash Shell = "bash"
	Zsh  Shell = "zsh"
	Fish Shell = "fish"
	Sh   Shell = "sh"
	Pwsh Shell = "pwsh"
)

var shellAliases = map[string]Shell{
	"bash":           Bash,
	"zsh":            Zsh,
	"fish":           Fish,
	"sh":             Sh,
	"dash":           Sh,
	"ksh":            Sh,
	"pwsh":           Pwsh,
	"powershell":     Pwsh,
	"pwsh.exe":       Pwsh,
	"powershell.exe": Pwsh,
}

// Shells returns every supported shell in a stable order.
func Shells() []Shell {
	return []Shell{Bash, Zsh, Fish, Sh, Pwsh}
}

// ParseShell maps a shell name or executable path (such as $SHELL) to a Shell.
func ParseShell(name string) (Shell, error) {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(name)))
	if shell, ok := shellAliases[base]; ok {
		return shell, nil
	}
	return "", errs.Newf(errs.KindUnsupportedShell, "hook.shell", "", messages.HookUnsupportedShellFmt, name)
}

// templates returns the embedded snippet parts rendered for the shell, in order.
func (s Shell) templates() []string {
	switch s {
	case Bash:
		return []string{"hooks/posix.sh", "hooks/bash.sh"}
	case Zsh:
		return []string{"hooks/posix.sh", "hooks/zsh.sh"}
	case Sh:
		return []string{"hooks/posix.sh", "hooks/sh.sh"}
	case Fish:
		return []string{"hooks/fish.fish"}
	case Pwsh:
		return []string{"hooks/pwsh.ps1"}
	default:
		return nil
	}
}

// quote renders a literal string for the shell's source syntax.
func (s Shell) quote(value string) string {
	switch s {
	case Fish:
		escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
		return "'" + escaped + "'"
	case Pwsh:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
	}
}
