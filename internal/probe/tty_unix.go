//go:build !windows

package probe

import (
	"bytes"
	"io"
	"os/exec"
	"time"

	"github.com/creack/pty"
)

// runTTY starts cmd on a new pseudo terminal and collects everything it prints.
func runTTY(cmd *exec.Cmd) (Result, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return Result{}, err
	}
	var out bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(&out, ptmx)
	}()
	err = cmd.Wait()
	// The copy ends on EIO once every holder of the slave side exits.
	select {
	case <-done:
	case <-time.After(waitDelay):
	}
	_ = ptmx.Close()
	<-done
	return Result{Stdout: out.Bytes()}, err
}
