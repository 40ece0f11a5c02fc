//go:build !windows

package registry

import (
	"errors"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

func readJavaSoftKeys() ([]javaSoftEntry, error) {
	return nil, errors.New(messages.RegistryWindowsUnsupported)
}
