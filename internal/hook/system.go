package hook

import (
	"os"
	"path/filepath"

	"github.com/conn-castle/jdk-pulse/internal/fsutil"
)

// System abstracts the filesystem operations the hook manager needs so tests can inject
// failures without touching real startup files.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	EvalSymlinks(path string) (string, error)
	LookupEnv(key string) (string, bool)
	MkdirAll(path string, perm os.FileMode) error
	CheckWritable(name string) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// EvalSymlinks resolves symbolic links in path.
func (RealSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// LookupEnv returns the value and presence of an environment variable.
func (RealSystem) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// CheckWritable opens an existing file for writing without truncating it.
func (RealSystem) CheckWritable(name string) error {
	f, err := os.OpenFile(name, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteFileAtomic replaces filename through a same-directory rename.
func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(filename, data, perm)
}
