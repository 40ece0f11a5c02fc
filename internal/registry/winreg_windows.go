//go:build windows

package registry

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

var javaSoftRoots = []string{
	`SOFTWARE\JavaSoft\JDK`,
	`SOFTWARE\JavaSoft\Java Development Kit`,
}

func readJavaSoftKeys() ([]javaSoftEntry, error) {
	var entries []javaSoftEntry
	var opened bool
	for _, root := range javaSoftRoots {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, root, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
		if err != nil {
			if errors.Is(err, registry.ErrNotExist) {
				continue
			}
			return nil, err
		}
		opened = true
		versions, err := key.ReadSubKeyNames(-1)
		_ = key.Close()
		if err != nil {
			return nil, err
		}
		for _, version := range versions {
			sub, err := registry.OpenKey(registry.LOCAL_MACHINE, root+`\`+version, registry.QUERY_VALUE)
			if err != nil {
				continue
			}
			home, _, err := sub.GetStringValue("JavaHome")
			_ = sub.Close()
			if err != nil || home == "" {
				continue
			}
			entries = append(entries, javaSoftEntry{version: version, home: home})
		}
	}
	if !opened {
		return nil, nil
	}
	return entries, nil
}
