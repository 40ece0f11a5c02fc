package doctor

import (
	"encoding/json"
	"sort"
)

// Verdict is the outcome of one check.
type Verdict string

// Verdicts, ordered by severity.
const (
	VerdictOK   Verdict = "ok"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

func (v Verdict) severity() int {
	switch v {
	case VerdictFail:
		return 2
	case VerdictWarn:
		return 1
	default:
		return 0
	}
}

// Check is the result of comparing one layer against the selection.
type Check struct {
	Observed string   `json:"observed" yaml:"observed"`
	Expected string   `json:"expected" yaml:"expected"`
	Verdict  Verdict  `json:"verdict" yaml:"verdict"`
	Notes    []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (c Check) clone() Check {
	if c.Notes != nil {
		c.Notes = append([]string(nil), c.Notes...)
	}
	return c
}

// Report maps check names to their results. A Report is immutable once returned; every
// accessor hands out copies.
type Report struct {
	checks map[string]Check
}

// NewReport builds a Report from checks, copying the input.
func NewReport(checks map[string]Check) Report {
	owned := make(map[string]Check, len(checks))
	for name, check := range checks {
		owned[name] = check.clone()
	}
	return Report{checks: owned}
}

// Checks returns a copy of every check keyed by name.
func (r Report) Checks() map[string]Check {
	out := make(map[string]Check, len(r.checks))
	for name, check := range r.checks {
		out[name] = check.clone()
	}
	return out
}

// Check returns a copy of the named check.
func (r Report) Check(name string) (Check, bool) {
	check, ok := r.checks[name]
	if !ok {
		return Check{}, false
	}
	return check.clone(), true
}

// Names returns the check names in sorted order.
func (r Report) Names() []string {
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Verdict returns the most severe verdict in the report; an empty report is ok.
func (r Report) Verdict() Verdict {
	worst := VerdictOK
	for _, check := range r.checks {
		if check.Verdict.severity() > worst.severity() {
			worst = check.Verdict
		}
	}
	return worst
}

// HasFailures reports whether any check failed.
func (r Report) HasFailures() bool {
	return r.Verdict() == VerdictFail
}

// MarshalJSON renders the report as a flat object of check name to check.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Checks())
}

// MarshalYAML renders the report as a flat mapping of check name to check.
func (r Report) MarshalYAML() (any, error) {
	return r.Checks(), nil
}
