// Package pathlist edits PATH-style lists.
package pathlist

import (
	"path/filepath"
	"strings"
)

// Options control how entries are compared.
type Options struct {
	// Separator between entries; zero means filepath.ListSeparator.
	Separator rune
	// FoldCase compares entries case-insensitively (Windows).
	FoldCase bool
}

// Rewrite removes drop and add from value, prepends add when non-empty, and removes
// duplicate and empty entries while keeping the first occurrence of each.
func Rewrite(value string, drop string, add string, opts Options) string {
	sep := opts.separator()
	skip := map[string]bool{}
	if drop != "" {
		skip[opts.key(drop)] = true
	}
	out := make([]string, 0)
	seen := map[string]bool{}
	if add != "" {
		out = append(out, add)
		seen[opts.key(add)] = true
	}
	for _, entry := range strings.Split(value, string(sep)) {
		k := opts.key(entry)
		if k == "" || skip[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, entry)
	}
	return strings.Join(out, string(sep))
}

// Contains reports whether entry appears in value.
func Contains(value string, entry string, opts Options) bool {
	want := opts.key(entry)
	for _, item := range strings.Split(value, string(opts.separator())) {
		if want != "" && opts.key(item) == want {
			return true
		}
	}
	return false
}

func (o Options) separator() rune {
	if o.Separator == 0 {
		return filepath.ListSeparator
	}
	return o.Separator
}

// key normalizes an entry for comparison: trimmed, without trailing separators.
func (o Options) key(entry string) string {
	entry = strings.TrimRight(strings.TrimSpace(entry), `/\`)
	if o.FoldCase {
		return strings.ToLower(entry)
	}
	return entry
}
