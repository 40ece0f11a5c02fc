// Package registry discovers installed JDKs.
//
// Discovery runs a set of platform strategies (java_home, jenv, sdkman, alternatives,
// scan, and the Windows registry), validates each candidate home, and returns a
// deduplicated, deterministically ordered snapshot. Discovery never fails as a whole: a
// strategy that cannot run or an entry that cannot be parsed becomes a note.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
)

const defaultTimeout = 10 * time.Second

var (
	osStat       = os.Stat
	osReadDir    = os.ReadDir
	osReadFile   = os.ReadFile
	evalSymlinks = filepath.EvalSymlinks
	homeDirFunc  = homedir.Dir
	lookupEnv    = os.LookupEnv
)

// Options configure a Registry.
type Options struct {
	// Home is the user's home directory; empty means the current user's.
	Home string
	// GOOS selects platform strategies; empty means runtime.GOOS.
	GOOS string
	// Strategies restricts discovery to these names; empty means every applicable one.
	Strategies []string
	// Scan adds glob patterns to the scan strategy.
	Scan []string
	// SkipDefaultScan drops the built-in scan roots.
	SkipDefaultScan bool
	// Timeout bounds each discovery command.
	Timeout time.Duration
	Runner  probe.Runner
	Logger  *zap.Logger
}

// Registry discovers JDKs.
type Registry struct {
	opts       Options
	strategies []strategy
	logger     *zap.Logger
}

// Result is one discovery snapshot.
type Result struct {
	Records []jdk.Record `json:"jdks" yaml:"jdks"`
	Notes   []string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// candidate is a possible JDK home reported by a strategy. Version and Vendor may be
// empty; the release file fills them in.
type candidate struct {
	Home    string
	Version string
	Vendor  string
	Source  string
	// FallbackVersion is used when the release file does not name a version.
	FallbackVersion string
	// RequireJava drops the candidate when bin/java is missing.
	RequireJava bool
}

// New returns a Registry for opts.
func New(opts Options) *Registry {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Runner == nil {
		opts.Runner = probe.ExecRunner{Logger: opts.Logger}
	}
	if opts.Home == "" {
		if home, err := homeDirFunc(); err == nil {
			opts.Home = home
		}
	}
	return &Registry{
		opts:       opts,
		strategies: selectStrategies(opts.GOOS, opts.Strategies),
		logger:     logging.OrNop(opts.Logger),
	}
}

func selectStrategies(goos string, names []string) []strategy {
	wanted := map[string]bool{}
	for _, name := range names {
		wanted[name] = true
	}
	var out []strategy
	for _, s := range allStrategies() {
		if !s.applies(goos) {
			continue
		}
		if len(wanted) > 0 && !wanted[s.name()] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Discover runs every selected strategy and returns the merged snapshot.
func (r *Registry) Discover(ctx context.Context) Result {
	var result Result
	var candidates []candidate
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			result.Notes = append(result.Notes, fmt.Sprintf(messages.RegistryStrategyFailedFmt, s.name(), ctx.Err()))
			break
		}
		found, notes, err := s.discover(ctx, r)
		result.Notes = append(result.Notes, notes...)
		if err != nil {
			derr := errs.New(errs.KindDiscoveryUnavailable, "registry."+s.name(), "", "", err)
			r.logger.Warn("discovery strategy unavailable", zap.String("strategy", s.name()), zap.Error(derr))
			result.Notes = append(result.Notes, fmt.Sprintf(messages.RegistryStrategyFailedFmt, s.name(), err))
			continue
		}
		r.logger.Debug("discovery strategy finished", zap.String("strategy", s.name()), zap.Int("candidates", len(found)))
		candidates = append(candidates, found...)
	}

	records, notes := r.build(candidates)
	result.Notes = append(result.Notes, notes...)
	result.Records = records
	return result
}

// build validates candidates, fills metadata from release files, deduplicates by home,
// and sorts.
func (r *Registry) build(candidates []candidate) ([]jdk.Record, []string) {
	var notes []string
	index := map[string]int{}
	var records []jdk.Record
	for _, c := range candidates {
		record, note, ok := r.toRecord(c)
		if !ok {
			if note != "" {
				notes = append(notes, note)
				r.logger.Debug("discovery candidate skipped", zap.String("home", c.Home), zap.String("reason", note))
			}
			continue
		}
		key := identityKey(record.Home)
		if i, seen := index[key]; seen {
			if records[i].Vendor == "" && record.Vendor != "" {
				records[i] = record
			}
			continue
		}
		index[key] = len(records)
		records = append(records, record)
	}
	sortRecords(records, r.preferredRoots())
	return records, notes
}

func (r *Registry) toRecord(c candidate) (jdk.Record, string, bool) {
	home := filepath.Clean(strings.TrimSpace(c.Home))
	info, err := osStat(home)
	if err != nil || !info.IsDir() {
		return jdk.Record{}, fmt.Sprintf(messages.RegistryHomeMissingFmt, c.Source, home), false
	}
	if c.RequireJava && !hasJava(home) {
		return jdk.Record{}, fmt.Sprintf(messages.RegistryNoJavaFmt, c.Source, home), false
	}
	version := strings.TrimSpace(c.Version)
	vendor := strings.TrimSpace(c.Vendor)
	if version == "" || vendor == "" {
		if data, err := osReadFile(filepath.Join(home, "release")); err == nil {
			release := jdk.ParseRelease(string(data))
			if version == "" {
				version = release.Version
			}
			if vendor == "" {
				vendor = release.Vendor
			}
		}
	}
	if version == "" {
		version = c.FallbackVersion
	}
	if version == "" {
		return jdk.Record{}, fmt.Sprintf(messages.RegistryNoVersionFmt, c.Source, home), false
	}
	major, ok := jdk.ParseMajor(version)
	if !ok {
		return jdk.Record{}, fmt.Sprintf(messages.RegistryBadVersionFmt, c.Source, version, home), false
	}
	return jdk.Record{
		ID:           jdk.MakeID(vendor, version, home),
		VersionMajor: major,
		VersionFull:  version,
		Home:         home,
		Vendor:       vendor,
		Source:       c.Source,
	}, "", true
}

// identityKey resolves symlinks so a jenv link and the JDK it points to dedupe.
func identityKey(home string) string {
	if resolved, err := evalSymlinks(home); err == nil {
		return jdk.HomeKey(resolved)
	}
	return jdk.HomeKey(home)
}

func hasJava(home string) bool {
	for _, name := range []string{"java", "java.exe"} {
		if info, err := osStat(filepath.Join(home, "bin", name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// preferredRoots are the OS default install roots; homes under them sort first among
// otherwise equal records.
func (r *Registry) preferredRoots() []string {
	var roots []string
	for _, pattern := range defaultScanPatterns(r.opts.GOOS) {
		root := pattern
		if idx := strings.IndexAny(root, "*?[{"); idx >= 0 {
			root = root[:idx]
		}
		roots = append(roots, jdk.HomeKey(root))
	}
	return roots
}

func underAny(home string, roots []string) bool {
	key := jdk.HomeKey(home)
	for _, root := range roots {
		if root != "" && strings.HasPrefix(key, root) {
			return true
		}
	}
	return false
}

// sortRecords orders by major descending, then version descending, then preferred-root
// homes first, then home.
func sortRecords(records []jdk.Record, roots []string) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.VersionMajor != b.VersionMajor {
			return a.VersionMajor > b.VersionMajor
		}
		if c := compareVersions(a.VersionFull, b.VersionFull); c != 0 {
			return c > 0
		}
		pa, pb := underAny(a.Home, roots), underAny(b.Home, roots)
		if pa != pb {
			return pa
		}
		return jdk.HomeKey(a.Home) < jdk.HomeKey(b.Home)
	})
}

// compareVersions compares dotted numeric versions component by component, falling back
// to string order for non-numeric parts.
func compareVersions(a, b string) int {
	pa := splitVersion(jdk.NormalizeVersion(a))
	pb := splitVersion(jdk.NormalizeVersion(b))
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y string
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if c := compareComponent(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func splitVersion(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '_' || r == '+' || r == '-'
	})
}

func compareComponent(x, y string) int {
	nx, okx := atoi(x)
	ny, oky := atoi(y)
	switch {
	case okx && oky:
		switch {
		case nx > ny:
			return 1
		case nx < ny:
			return -1
		}
		return 0
	case x == y:
		return 0
	case x == "":
		// A missing component ranks below a number and above a pre-release label.
		if oky {
			return -1
		}
		return 1
	case y == "":
		if okx {
			return 1
		}
		return -1
	case okx:
		return 1
	case oky:
		return -1
	}
	return strings.Compare(x, y)
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// FindHome returns the record whose home identifies the same installation as home.
func (r Result) FindHome(home string) (jdk.Record, bool) {
	key := jdk.HomeKey(home)
	if key == "" {
		return jdk.Record{}, false
	}
	for _, record := range r.Records {
		if jdk.HomeKey(record.Home) == key {
			return record, true
		}
	}
	return jdk.Record{}, false
}

// Resolve finds a record by exact ID, then by home, then by alias: a major version
// ("21"), a full version ("21.0.2"), or a vendor-qualified version ("temurin-21",
// "temurin-21.0.2"). Aliases resolve to the first match in snapshot order.
func (r Result) Resolve(ref string) (jdk.Record, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return jdk.Record{}, false
	}
	for _, record := range r.Records {
		if record.ID == ref {
			return record, true
		}
	}
	if record, ok := r.FindHome(ref); ok {
		return record, true
	}
	want := strings.ToLower(ref)
	for _, record := range r.Records {
		for _, alias := range Aliases(record) {
			if alias == want {
				return record, true
			}
		}
	}
	return jdk.Record{}, false
}

// Aliases lists the short references that resolve to record.
func Aliases(record jdk.Record) []string {
	major := strconv.Itoa(record.VersionMajor)
	version := strings.ToLower(jdk.NormalizeVersion(record.VersionFull))
	aliases := []string{major}
	if version != major {
		aliases = append(aliases, version)
	}
	for _, vendor := range jdk.VendorAliases(record.Vendor) {
		aliases = append(aliases, vendor+"-"+major)
		if version != major {
			aliases = append(aliases, vendor+"-"+version)
		}
	}
	return aliases
}
