package registry

import (
	"context"

	"github.com/conn-castle/jdk-pulse/internal/jdk"
)

type windowsRegistryStrategy struct{}

func (windowsRegistryStrategy) name() string { return StrategyRegistry }

func (windowsRegistryStrategy) applies(goos string) bool { return goos == "windows" }

// discover reads JavaHome under HKLM\SOFTWARE\JavaSoft\JDK\<version> and the legacy
// "Java Development Kit" key.
func (windowsRegistryStrategy) discover(context.Context, *Registry) ([]candidate, []string, error) {
	entries, err := readJavaSoftKeys()
	if err != nil {
		return nil, nil, err
	}
	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		candidates = append(candidates, candidate{
			Home:            entry.home,
			FallbackVersion: entry.version,
			Source:          jdk.SourceRegistry,
			RequireJava:     true,
		})
	}
	return candidates, nil, nil
}

type javaSoftEntry struct {
	version string
	home    string
}
