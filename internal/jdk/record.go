// Package jdk holds the JDK record value type and the normalization rules shared by
// discovery, selection and diagnostics.
package jdk

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
)

// Discovery source labels.
const (
	SourceJavaHome     = "java_home"
	SourceJenv         = "jenv"
	SourceSdkman       = "sdkman"
	SourceAlternatives = "alternatives"
	SourceScan         = "scan"
	SourceRegistry     = "registry"
)

// Record describes one discovered JDK installation.
type Record struct {
	ID           string `json:"id" yaml:"id"`
	VersionMajor int    `json:"version_major" yaml:"version_major"`
	VersionFull  string `json:"version_full" yaml:"version_full"`
	Home         string `json:"home" yaml:"home"`
	Vendor       string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Source       string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Label renders a short human-readable name such as "Java 21 (Eclipse Adoptium)".
func (r Record) Label() string {
	switch {
	case r.Vendor == "jenv":
		return r.VersionFull + " (jenv)"
	case r.Vendor != "":
		return "Java " + strconv.Itoa(r.VersionMajor) + " (" + r.Vendor + ")"
	default:
		return "Java " + strconv.Itoa(r.VersionMajor)
	}
}

// HomeKey normalizes a home path for identity comparisons: cleaned, without trailing
// separators, and case-folded.
func HomeKey(home string) string {
	home = strings.TrimSpace(home)
	if home == "" {
		return ""
	}
	cleaned := filepath.Clean(home)
	for len(cleaned) > 1 && (strings.HasSuffix(cleaned, "/") || strings.HasSuffix(cleaned, `\`)) {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return strings.ToLower(cleaned)
}

// SameHome reports whether two home paths identify the same installation.
func SameHome(a, b string) bool {
	return HomeKey(a) != "" && HomeKey(a) == HomeKey(b)
}

// MakeID derives the stable identifier for a record from vendor, version and home.
// The home hash keeps IDs unique when two installs share vendor and version.
func MakeID(vendor, versionFull, home string) string {
	prefix := Slug(vendor)
	if prefix == "" {
		prefix = "jdk"
	}
	version := sanitizeVersion(versionFull)
	sum := sha256.Sum256([]byte(HomeKey(home)))
	return prefix + "-" + version + "-" + hex.EncodeToString(sum[:])[:6]
}

// Slug lowercases s and replaces runs of non-alphanumeric characters with a single dash.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func sanitizeVersion(v string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(v) {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '.', r == '_', r == '+':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
