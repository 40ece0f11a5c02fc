package registry

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
)

// Strategy names, as used in [discovery] strategies.
const (
	StrategyJavaHome     = jdk.SourceJavaHome
	StrategyJenv         = jdk.SourceJenv
	StrategySdkman       = jdk.SourceSdkman
	StrategyAlternatives = jdk.SourceAlternatives
	StrategyScan         = jdk.SourceScan
	StrategyRegistry     = jdk.SourceRegistry
)

// javaHomeBinary is the macOS helper that lists registered JVMs.
var javaHomeBinary = "/usr/libexec/java_home"

type strategy interface {
	name() string
	applies(goos string) bool
	// discover returns candidates plus notes about individual entries it skipped. A non-nil
	// error means the strategy as a whole could not run.
	discover(ctx context.Context, r *Registry) ([]candidate, []string, error)
}

// allStrategies lists strategies in merge order; sources with authoritative vendor data
// come first so they win deduplication ties.
func allStrategies() []strategy {
	return []strategy{
		javaHomeStrategy{},
		windowsRegistryStrategy{},
		alternativesStrategy{},
		scanStrategy{},
		sdkmanStrategy{},
		jenvStrategy{},
	}
}

type javaHomeStrategy struct{}

func (javaHomeStrategy) name() string { return StrategyJavaHome }

func (javaHomeStrategy) applies(goos string) bool { return goos == "darwin" }

// discover parses `java_home -V`, which lists JVMs on stderr:
//
//	21.0.1 (x86_64) "Eclipse Adoptium" - "OpenJDK 64-Bit Server VM" /Library/.../Contents/Home
func (javaHomeStrategy) discover(ctx context.Context, r *Registry) ([]candidate, []string, error) {
	result, err := r.opts.Runner.Run(ctx, probe.Request{Name: javaHomeBinary, Args: []string{"-V"}, Timeout: r.opts.Timeout})
	if err != nil {
		return nil, nil, err
	}
	if result.ExitCode != 0 {
		return nil, nil, fmt.Errorf(messages.RegistryCommandExitFmt, "java_home -V", result.ExitCode)
	}
	candidates, notes := parseJavaHomeOutput(result.Stderr)
	return candidates, notes, nil
}

func parseJavaHomeOutput(out []byte) ([]candidate, []string) {
	var candidates []candidate
	var notes []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "Matching Java Virtual Machines") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 1 && strings.HasPrefix(line, "/") {
			// Trailing line naming the default home; it is listed above as well.
			continue
		}
		if len(fields) < 2 || !strings.Contains(line, " /") {
			notes = append(notes, fmt.Sprintf(messages.RegistryUnparsableLineFmt, StrategyJavaHome, line))
			continue
		}
		candidates = append(candidates, candidate{
			Home:    javaHomeFromLine(line),
			Version: fields[0],
			Vendor:  firstQuoted(line),
			Source:  jdk.SourceJavaHome,
		})
	}
	return candidates, notes
}

// javaHomeFromLine takes everything from the first " /" so homes containing spaces survive.
func javaHomeFromLine(line string) string {
	if idx := strings.Index(line, " /"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	fields := strings.Fields(line)
	return fields[len(fields)-1]
}

func firstQuoted(line string) string {
	start := strings.IndexByte(line, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(line[start+1:], '"')
	if end < 0 {
		return ""
	}
	return line[start+1 : start+1+end]
}

type jenvStrategy struct{}

func (jenvStrategy) name() string { return StrategyJenv }

func (jenvStrategy) applies(goos string) bool { return goos != "windows" }

// discover scans ~/.jenv/versions. Entries are named like "21.0.10" or
// "openjdk64-21.0.10"; macOS bundles keep their home under Contents/Home.
func (jenvStrategy) discover(_ context.Context, r *Registry) ([]candidate, []string, error) {
	dir := filepath.Join(r.opts.Home, ".jenv", "versions")
	entries, err := osReadDir(dir)
	if err != nil {
		return nil, nil, nil
	}
	var candidates []candidate
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := osStat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{
			Home:        bundleHome(path),
			Version:     jdk.NormalizeVersion(entry.Name()),
			Vendor:      "jenv",
			Source:      jdk.SourceJenv,
			RequireJava: true,
		})
	}
	return candidates, nil, nil
}

// JenvDefault returns the version name in ~/.jenv/version, if any.
func JenvDefault(home string) (string, bool) {
	data, err := osReadFile(filepath.Join(home, ".jenv", "version"))
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(string(data))
	return name, name != "" && name != "system"
}

func bundleHome(path string) string {
	contents := filepath.Join(path, "Contents", "Home")
	if info, err := osStat(contents); err == nil && info.IsDir() {
		return contents
	}
	return path
}

type sdkmanStrategy struct{}

func (sdkmanStrategy) name() string { return StrategySdkman }

func (sdkmanStrategy) applies(goos string) bool { return goos != "windows" }

// discover scans the SDKMAN java candidates directory, honoring SDKMAN_DIR.
func (sdkmanStrategy) discover(_ context.Context, r *Registry) ([]candidate, []string, error) {
	root := filepath.Join(r.opts.Home, ".sdkman")
	if dir, ok := lookupEnv("SDKMAN_DIR"); ok && dir != "" {
		root = dir
	}
	dir := filepath.Join(root, "candidates", "java")
	entries, err := osReadDir(dir)
	if err != nil {
		return nil, nil, nil
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.Name() == "current" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if info, err := osStat(path); err != nil || !info.IsDir() {
			continue
		}
		version, vendor := jdk.ParseSdkmanIdentifier(entry.Name())
		candidates = append(candidates, candidate{
			Home:        bundleHome(path),
			Version:     version,
			Vendor:      vendor,
			Source:      jdk.SourceSdkman,
			RequireJava: true,
		})
	}
	return candidates, nil, nil
}

type alternativesStrategy struct{}

func (alternativesStrategy) name() string { return StrategyAlternatives }

func (alternativesStrategy) applies(goos string) bool { return goos == "linux" }

// discover maps each `update-alternatives --list java` entry back to its home.
func (alternativesStrategy) discover(ctx context.Context, r *Registry) ([]candidate, []string, error) {
	result, err := r.opts.Runner.Run(ctx, probe.Request{Name: "update-alternatives", Args: []string{"--list", "java"}, Timeout: r.opts.Timeout})
	if err != nil {
		return nil, nil, err
	}
	if result.ExitCode != 0 {
		// Exit status 2 means no alternatives are registered for java.
		if result.ExitCode == 2 {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf(messages.RegistryCommandExitFmt, "update-alternatives --list java", result.ExitCode)
	}
	var candidates []candidate
	var notes []string
	scanner := bufio.NewScanner(bytes.NewReader(result.Stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		home, ok := homeFromJavaBinary(line)
		if !ok {
			notes = append(notes, fmt.Sprintf(messages.RegistryUnparsableLineFmt, StrategyAlternatives, line))
			continue
		}
		candidates = append(candidates, candidate{Home: home, Source: jdk.SourceAlternatives, RequireJava: true})
	}
	return candidates, notes, nil
}

func homeFromJavaBinary(path string) (string, bool) {
	path = filepath.ToSlash(path)
	for _, suffix := range []string{"/jre/bin/java", "/bin/java"} {
		if home, ok := strings.CutSuffix(path, suffix); ok && home != "" {
			return filepath.FromSlash(home), true
		}
	}
	return "", false
}

type scanStrategy struct{}

func (scanStrategy) name() string { return StrategyScan }

func (scanStrategy) applies(string) bool { return true }

// discover expands doublestar patterns; each match is a candidate home.
func (scanStrategy) discover(_ context.Context, r *Registry) ([]candidate, []string, error) {
	var patterns []string
	if !r.opts.SkipDefaultScan {
		patterns = append(patterns, defaultScanPatterns(r.opts.GOOS)...)
	}
	patterns = append(patterns, r.opts.Scan...)

	var candidates []candidate
	var notes []string
	for _, pattern := range patterns {
		expanded, err := homedir.Expand(pattern)
		if err != nil {
			expanded = pattern
		}
		expanded = filepath.ToSlash(expanded)
		if !doublestar.ValidatePattern(expanded) {
			notes = append(notes, fmt.Sprintf(messages.RegistryInvalidPatternFmt, pattern))
			continue
		}
		matches, err := globFunc(expanded)
		if err != nil {
			notes = append(notes, fmt.Sprintf(messages.RegistryInvalidPatternFmt, pattern))
			continue
		}
		for _, match := range matches {
			info, err := osStat(match)
			if err != nil || !info.IsDir() {
				continue
			}
			candidates = append(candidates, candidate{
				Home:        bundleHome(match),
				Source:      jdk.SourceScan,
				RequireJava: true,
			})
		}
	}
	return candidates, notes, nil
}

var globFunc = func(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}

// defaultScanPatterns are the conventional install roots per OS.
func defaultScanPatterns(goos string) []string {
	switch goos {
	case "linux":
		return []string{"/usr/lib/jvm/*", "/opt/java/*"}
	case "darwin":
		return []string{"/Library/Java/JavaVirtualMachines/*/Contents/Home"}
	case "windows":
		return []string{"C:/Program Files/Java/*", "C:/Program Files/Eclipse Adoptium/*"}
	default:
		return nil
	}
}
