//go:build !windows

package propagate

import (
	"errors"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

func openUserEnvironment() (EnvStore, error) {
	return nil, errors.New(messages.PropagateRegistryMissing)
}
