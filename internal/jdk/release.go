package jdk

import (
	"bufio"
	"strings"
)

// Release holds the fields jdk-pulse reads from a JDK's "release" file.
type Release struct {
	Version string
	Vendor  string
}

// ParseRelease reads the KEY="value" lines of a JDK release file. Lines that do not look
// like assignments are skipped; the format varies between vendors and is not worth
// rejecting over.
func ParseRelease(content string) Release {
	values := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		key, value, ok := parseReleaseLine(scanner.Text())
		if !ok {
			continue
		}
		values[key] = value
	}

	rel := Release{Version: values["JAVA_VERSION"]}
	for _, key := range []string{"IMPLEMENTOR", "JAVA_VENDOR"} {
		if v := values[key]; v != "" {
			rel.Vendor = v
			break
		}
	}
	return rel
}

func parseReleaseLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	key, value, found := strings.Cut(trimmed, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}
