// Package templates embeds the shell integration snippets written by the hook manager.
package templates

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed hooks
var files embed.FS

// StateFilePlaceholder is replaced with the quoted state file path when a snippet is rendered.
const StateFilePlaceholder = "__JDKPULSE_STATE_FILE__"

// Read returns the embedded template at name, relative to the templates root.
func Read(name string) ([]byte, error) {
	return fs.ReadFile(files, path.Clean(name))
}

// Walk visits every embedded template under root.
func Walk(root string, fn fs.WalkDirFunc) error {
	return fs.WalkDir(files, root, fn)
}
