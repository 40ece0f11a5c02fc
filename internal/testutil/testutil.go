// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully and returns its path.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) string {
	t.Helper()
	return WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("exit %d\n", exitCode))
}

// WriteScript writes an executable /bin/sh script with body and returns its path.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// MakeJDK creates a fake JDK home under root with a bin/java stub that reports version on
// stderr the way a real launcher does, plus a release file. It returns the home path.
// vendor may be empty.
func MakeJDK(t *testing.T, root string, name string, version string, vendor string) string {
	t.Helper()
	home := filepath.Join(root, name)
	WriteScript(t, filepath.Join(home, "bin"), "java",
		fmt.Sprintf("echo 'openjdk version \"%s\" 2024-01-16' >&2\n", version))
	release := fmt.Sprintf("JAVA_VERSION=\"%s\"\n", version)
	if vendor != "" {
		release += fmt.Sprintf("IMPLEMENTOR=\"%s\"\n", vendor)
	}
	if err := os.WriteFile(filepath.Join(home, "release"), []byte(release), 0o644); err != nil {
		t.Fatalf("write release: %v", err)
	}
	return home
}

// BoolPtr returns a pointer to v.
// v is the boolean value to take the address of.
func BoolPtr(v bool) *bool {
	return &v
}
