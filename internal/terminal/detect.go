// Package terminal reports whether the process talks to an interactive terminal.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

var isTerminal = term.IsTerminal

// IsInteractive reports whether stdin and stdout are both interactive terminals.
func IsInteractive() bool {
	return isTerminal(int(os.Stdin.Fd())) && isTerminal(int(os.Stdout.Fd()))
}

// IsTerminalWriter reports whether w is a file attached to a terminal. Buffers and pipes
// report false, which the CLI uses to drop colors.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(int(f.Fd()))
}
