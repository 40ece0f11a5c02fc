package jdk

import (
	"strconv"
	"strings"
)

// ParseMajor extracts the major version from a version string. Legacy "1.x" strings map
// to x ("1.8.0_302" is 8); modern strings use their first numeric component ("21.0.10"
// is 21). Leading non-numeric labels such as "openjdk64-" or "jdk-" are ignored.
// ok is false when no positive major version can be found.
func ParseMajor(version string) (major int, ok bool) {
	v := stripVersionPrefix(version)
	if v == "" {
		return 0, false
	}
	first, rest := leadingNumber(v)
	if first < 0 {
		return 0, false
	}
	if first == 1 && strings.HasPrefix(rest, ".") {
		second, _ := leadingNumber(rest[1:])
		if second > 1 {
			return second, true
		}
		return 0, false
	}
	if first <= 0 {
		return 0, false
	}
	return first, true
}

// NormalizeVersion strips leading labels so "openjdk64-21.0.10" becomes "21.0.10".
// Strings without any digit are returned trimmed but otherwise untouched.
func NormalizeVersion(version string) string {
	v := stripVersionPrefix(version)
	if v == "" {
		return strings.TrimSpace(version)
	}
	return v
}

func stripVersionPrefix(version string) string {
	v := strings.TrimSpace(version)
	v = strings.Trim(v, `"`)
	// Labels are dash-separated ("openjdk64-21.0.10", "jdk-17"); skip whole label
	// segments so digits inside a label are not mistaken for the version.
	if v != "" && !isDigit(v[0]) {
		segments := strings.Split(v, "-")
		for i := 1; i < len(segments); i++ {
			if segments[i] != "" && isDigit(segments[i][0]) {
				return strings.Join(segments[i:], "-")
			}
		}
	}
	idx := strings.IndexFunc(v, func(r rune) bool { return r >= '0' && r <= '9' })
	if idx < 0 {
		return ""
	}
	return v[idx:]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// leadingNumber parses the digits at the start of s, returning -1 when there are none.
func leadingNumber(s string) (int, string) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1, s
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return -1, s
	}
	return n, s[end:]
}
