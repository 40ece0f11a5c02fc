package terminal

import (
	"bytes"
	"os"
	"testing"
)

func TestIsInteractiveUsesBothStreams(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	stdin := int(os.Stdin.Fd())
	isTerminal = func(fd int) bool { return fd == stdin }
	if IsInteractive() {
		t.Fatalf("stdout is not a terminal, expected false")
	}
	isTerminal = func(int) bool { return true }
	if !IsInteractive() {
		t.Fatalf("expected true when both streams are terminals")
	}
}

func TestIsTerminalWriter(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func(int) bool { return true }

	if IsTerminalWriter(&bytes.Buffer{}) {
		t.Fatalf("a buffer is never a terminal")
	}
	if !IsTerminalWriter(os.Stdout) {
		t.Fatalf("expected os.Stdout to be treated as a terminal")
	}
}
