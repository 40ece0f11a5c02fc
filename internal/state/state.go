// Package state owns the canonical per-user selection file.
//
// The file holds exactly one line: the absolute home of the active JDK. Absence means no
// selection. Every update replaces the whole file through a same-directory rename, so
// readers (including shell hooks polling it before each prompt) never see a partial value.
package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/fsutil"
	"github.com/conn-castle/jdk-pulse/internal/messages"
)

const filePerm = 0o644

var (
	osReadFile      = os.ReadFile
	osRemove        = os.Remove
	osStat          = os.Stat
	osReadDir       = os.ReadDir
	writeFileAtomic = fsutil.WriteFileAtomic
)

// Selection is the persisted active JDK home. An empty Home means none selected.
type Selection struct {
	Home string `json:"home" yaml:"home"`
}

// Selected reports whether a JDK is selected.
func (s Selection) Selected() bool {
	return s.Home != ""
}

// Store reads and writes the selection file at Path.
type Store struct {
	Path string
}

// New returns a Store backed by path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Read returns the current selection. A missing or blank file yields an empty selection;
// anything other than a single absolute path line is StateCorrupt. A file that exists but
// cannot be read is StateUnreadable.
func (s *Store) Read() (Selection, error) {
	data, err := osReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Selection{}, nil
		}
		return Selection{}, errs.New(errs.KindStateUnreadable, "state.read", s.Path, messages.StateReadFailed, err)
	}
	return parse(s.Path, string(data))
}

func parse(path string, content string) (Selection, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Selection{}, nil
	}
	lines := strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
	if len(lines) != 1 {
		return Selection{}, errs.Newf(errs.KindStateCorrupt, "state.read", path, messages.StateMultipleLinesFmt, len(lines))
	}
	home := strings.TrimSpace(lines[0])
	if !isAbs(home) {
		return Selection{}, errs.Newf(errs.KindStateCorrupt, "state.read", path, messages.StateNotAbsoluteFmt, home)
	}
	return Selection{Home: home}, nil
}

// Write replaces the selection with home. home must be an existing, readable directory;
// otherwise InvalidHome is returned and the file is left untouched. A corrupt or unreadable
// file is reported and left as is; only Repair overwrites it.
func (s *Store) Write(home string) (Selection, error) {
	clean, err := ValidateHome(home)
	if err != nil {
		return Selection{}, err
	}
	if _, err := s.Read(); err != nil {
		return Selection{}, err
	}
	if err := s.replace(clean); err != nil {
		return Selection{}, err
	}
	return Selection{Home: clean}, nil
}

// Repair overwrites the file regardless of its current content. Callers confirm with the
// user first; Read never repairs on its own.
func (s *Store) Repair(home string) (Selection, error) {
	clean, err := ValidateHome(home)
	if err != nil {
		return Selection{}, err
	}
	if err := s.replace(clean); err != nil {
		return Selection{}, err
	}
	return Selection{Home: clean}, nil
}

// Clear removes the selection file. Removing an absent file is not an error.
func (s *Store) Clear() error {
	if err := osRemove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.New(errs.KindTargetUnwritable, "state.clear", s.Path, messages.StateClearFailed, err)
	}
	return nil
}

func (s *Store) replace(home string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errs.New(errs.KindTargetUnwritable, "state.write", s.Path, messages.StateWriteFailed, err)
	}
	if err := writeFileAtomic(s.Path, []byte(home+"\n"), filePerm); err != nil {
		return errs.New(errs.KindTargetUnwritable, "state.write", s.Path, messages.StateWriteFailed, err)
	}
	return nil
}

// ValidateHome checks that home is an absolute, readable directory and returns it cleaned.
func ValidateHome(home string) (string, error) {
	home = strings.TrimSpace(home)
	if home == "" {
		return "", errs.New(errs.KindInvalidHome, "state.validate", "", messages.StateHomeEmpty, nil)
	}
	if !isAbs(home) {
		return "", errs.Newf(errs.KindInvalidHome, "state.validate", home, messages.StateHomeNotAbsFmt, home)
	}
	clean := filepath.Clean(home)
	info, err := osStat(clean)
	if err != nil {
		return "", errs.New(errs.KindInvalidHome, "state.validate", clean, "", err)
	}
	if !info.IsDir() {
		return "", errs.Newf(errs.KindInvalidHome, "state.validate", clean, messages.StateHomeNotDirFmt, clean)
	}
	if _, err := osReadDir(clean); err != nil {
		return "", errs.Newf(errs.KindInvalidHome, "state.validate", clean, messages.StateHomeUnreadableFmt, clean)
	}
	return clean, nil
}

// isAbs accepts native absolute paths plus forward-slash roots, so a state file written on
// one platform's conventions still reads on another.
func isAbs(path string) bool {
	return filepath.IsAbs(path) || strings.HasPrefix(path, "/")
}
