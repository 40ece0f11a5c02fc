// Package hook installs, removes, and inspects the jdk-pulse block in shell startup files.
//
// The manager owns only the text between StartMarker and EndMarker; every byte outside the
// region is preserved. Concurrent edits of the same startup file by two processes are not
// coordinated: the last rename wins.
package hook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/templates"
)

// Status is the installation state of a shell's block.
type Status string

// Statuses reported by Status.
const (
	StatusInstalled    Status = "installed"
	StatusNotInstalled Status = "not-installed"
	StatusMalformed    Status = "malformed"
	// StatusOutdated means a well-formed block exists but differs from the current snippet.
	StatusOutdated Status = "outdated"
)

// Op is a planned edit.
type Op string

// Plan operations.
const (
	OpInstall Op = "install"
	OpRemove  Op = "remove"
)

// Change describes the outcome of an install or remove.
type Change struct {
	Shell   Shell  `json:"shell" yaml:"shell"`
	Path    string `json:"path" yaml:"path"`
	Changed bool   `json:"changed" yaml:"changed"`
}

// Plan is a dry-run of an edit.
type Plan struct {
	Change
	Before string `json:"-" yaml:"-"`
	After  string `json:"-" yaml:"-"`
	Diff   string `json:"diff" yaml:"diff"`
}

// Options configure a Manager.
type Options struct {
	// Home is the user's home directory.
	Home string
	// StatePath is the state file the snippets poll.
	StatePath string
	// GOOS selects platform-specific targets; empty means runtime.GOOS.
	GOOS string
	// System overrides filesystem access; nil means RealSystem.
	System System
}

// Manager edits shell startup files.
type Manager struct {
	home      string
	statePath string
	goos      string
	sys       System
}

// NewManager returns a Manager for the given options.
func NewManager(opts Options) *Manager {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	sys := opts.System
	if sys == nil {
		sys = RealSystem{}
	}
	return &Manager{home: opts.Home, statePath: opts.StatePath, goos: goos, sys: sys}
}

// Target returns the startup file edited for shell.
func (m *Manager) Target(shell Shell) (string, error) {
	switch shell {
	case Bash:
		return filepath.Join(m.home, ".bashrc"), nil
	case Zsh:
		if dir, ok := m.sys.LookupEnv("ZDOTDIR"); ok && dir != "" {
			return filepath.Join(dir, ".zshrc"), nil
		}
		return filepath.Join(m.home, ".zshrc"), nil
	case Fish:
		return filepath.Join(m.configHome(), "fish", "conf.d", "jdk-pulse.fish"), nil
	case Sh:
		return filepath.Join(m.home, ".profile"), nil
	case Pwsh:
		if m.goos == "windows" {
			return filepath.Join(m.home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1"), nil
		}
		return filepath.Join(m.configHome(), "powershell", "Microsoft.PowerShell_profile.ps1"), nil
	default:
		return "", errs.Newf(errs.KindUnsupportedShell, "hook.target", "", messages.HookUnsupportedShellFmt, string(shell))
	}
}

func (m *Manager) configHome() string {
	if dir, ok := m.sys.LookupEnv("XDG_CONFIG_HOME"); ok && filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.home, ".config")
}

// Snippet renders the complete managed block for shell, markers included.
func (m *Manager) Snippet(shell Shell) (string, error) {
	parts := shell.templates()
	if len(parts) == 0 {
		return "", errs.Newf(errs.KindUnsupportedShell, "hook.snippet", "", messages.HookUnsupportedShellFmt, string(shell))
	}
	var b strings.Builder
	b.WriteString(StartMarker + "\n")
	b.WriteString(messages.HookManagedComment + "\n")
	for _, name := range parts {
		data, err := templates.Read(name)
		if err != nil {
			return "", fmt.Errorf(messages.HookTemplateMissingFmt, name, err)
		}
		body := strings.ReplaceAll(string(data), templates.StateFilePlaceholder, shell.quote(m.statePath))
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString(EndMarker + "\n")
	return b.String(), nil
}

// Install writes or refreshes the block. Running it twice leaves the file unchanged.
func (m *Manager) Install(shell Shell) (Change, error) {
	plan, err := m.Plan(shell, OpInstall)
	if err != nil {
		return Change{}, err
	}
	return m.apply(plan, "hook.install")
}

// Remove deletes the block. A file without a block is left untouched.
func (m *Manager) Remove(shell Shell) (Change, error) {
	plan, err := m.Plan(shell, OpRemove)
	if err != nil {
		return Change{}, err
	}
	return m.apply(plan, "hook.remove")
}

// Status reports whether the block is installed and current.
func (m *Manager) Status(shell Shell) (Status, error) {
	_, doc, err := m.load(shell, "hook.status")
	if err != nil {
		return "", err
	}
	switch doc.State {
	case BlockAbsent:
		return StatusNotInstalled, nil
	case BlockMalformed:
		return StatusMalformed, nil
	}
	want, err := m.Snippet(shell)
	if err != nil {
		return "", err
	}
	if normalizeNewlines(doc.CanonicalBlock()) != want {
		return StatusOutdated, nil
	}
	return StatusInstalled, nil
}

// Plan computes the edit op would make without writing anything.
func (m *Manager) Plan(shell Shell, op Op) (Plan, error) {
	opName := "hook." + string(op)
	path, doc, err := m.load(shell, opName)
	if err != nil {
		return Plan{}, err
	}
	if doc.State == BlockMalformed {
		return Plan{}, errs.New(errs.KindMalformedBlock, opName, path, doc.Problem, nil)
	}
	before := doc.String()
	after := before
	switch op {
	case OpInstall:
		block, err := m.Snippet(shell)
		if err != nil {
			return Plan{}, err
		}
		after = doc.WithBlock(block)
	case OpRemove:
		if doc.State == BlockPresent {
			after = doc.WithoutBlock()
		}
	}
	plan := Plan{
		Change: Change{Shell: shell, Path: path, Changed: before != after},
		Before: before,
		After:  after,
	}
	if plan.Changed {
		plan.Diff = udiff.Unified(path+" (current)", path+" (after "+string(op)+")", before, after)
	}
	return plan, nil
}

func (m *Manager) apply(plan Plan, op string) (Change, error) {
	if !plan.Changed {
		return plan.Change, nil
	}
	perm := os.FileMode(0o644)
	if info, err := m.sys.Stat(plan.Path); err == nil {
		perm = info.Mode().Perm()
		if err := m.sys.CheckWritable(plan.Path); err != nil {
			return Change{}, errs.New(errs.KindTargetUnwritable, op, plan.Path, messages.HookWriteFailed, err)
		}
	}
	if err := m.sys.MkdirAll(filepath.Dir(plan.Path), 0o755); err != nil {
		return Change{}, errs.New(errs.KindTargetUnwritable, op, plan.Path, messages.HookCreateDirFailed, err)
	}
	if err := m.sys.WriteFileAtomic(plan.Path, []byte(plan.After), perm); err != nil {
		return Change{}, errs.New(errs.KindTargetUnwritable, op, plan.Path, messages.HookWriteFailed, err)
	}
	return plan.Change, nil
}

// load resolves the target (following symlinks so managed dotfiles stay links) and parses it.
// A missing file parses as an empty document.
func (m *Manager) load(shell Shell, op string) (string, Document, error) {
	path, err := m.Target(shell)
	if err != nil {
		return "", Document{}, err
	}
	if resolved, err := m.sys.EvalSymlinks(path); err == nil {
		path = resolved
	}
	data, err := m.sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, Parse(""), nil
		}
		return "", Document{}, errs.New(errs.KindTargetUnwritable, op, path, messages.HookReadFailed, err)
	}
	return path, Parse(string(data)), nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
