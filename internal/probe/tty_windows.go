//go:build windows

package probe

import (
	"errors"
	"os/exec"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

func runTTY(*exec.Cmd) (Result, error) {
	return Result{}, errors.New(messages.ProbeTTYUnsupported)
}
