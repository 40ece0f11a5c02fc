// Package fsutil holds filesystem helpers shared across packages.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
	osChmod      = os.Chmod
)

// WriteFileAtomic replaces filename with data so that concurrent readers observe either the
// previous content or the new content, never a partial write. The temp file lives in the
// same directory so the final rename stays on one filesystem.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := osCreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FsutilCreateTempFmt, dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilWriteTempFmt, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSyncTempFmt, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FsutilCloseTempFmt, tmpName, err)
	}
	if err := osChmod(tmpName, perm); err != nil {
		return fmt.Errorf(messages.FsutilChmodTempFmt, tmpName, err)
	}
	if err := osRename(tmpName, filename); err != nil {
		return fmt.Errorf(messages.FsutilRenameFmt, filename, err)
	}
	committed = true
	return nil
}
