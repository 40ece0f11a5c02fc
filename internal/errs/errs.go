// Package errs defines the structured error kinds surfaced by jdk-pulse operations.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can render differentiated messages.
type Kind string

// Error kinds.
const (
	KindDiscoveryUnavailable Kind = "DiscoveryUnavailable"
	KindInvalidHome          Kind = "InvalidHome"
	KindStateCorrupt         Kind = "StateCorrupt"
	KindStateUnreadable      Kind = "StateUnreadable"
	KindTargetUnwritable     Kind = "TargetUnwritable"
	KindMalformedBlock       Kind = "MalformedBlock"
	KindProbeTimeout         Kind = "ProbeTimeout"
	KindProbeSpawnFailed     Kind = "ProbeSpawnFailed"
	KindPropagationFailed    Kind = "PropagationFailed"
	KindUnknownJdk           Kind = "UnknownJdk"
	KindUnsupportedShell     Kind = "UnsupportedShell"
)

// Sentinels for errors.Is comparisons against a kind.
var (
	DiscoveryUnavailable = &Error{Kind: KindDiscoveryUnavailable}
	InvalidHome          = &Error{Kind: KindInvalidHome}
	StateCorrupt         = &Error{Kind: KindStateCorrupt}
	StateUnreadable      = &Error{Kind: KindStateUnreadable}
	TargetUnwritable     = &Error{Kind: KindTargetUnwritable}
	MalformedBlock       = &Error{Kind: KindMalformedBlock}
	ProbeTimeout         = &Error{Kind: KindProbeTimeout}
	ProbeSpawnFailed     = &Error{Kind: KindProbeSpawnFailed}
	PropagationFailed    = &Error{Kind: KindPropagationFailed}
	UnknownJdk           = &Error{Kind: KindUnknownJdk}
	UnsupportedShell     = &Error{Kind: KindUnsupportedShell}
)

// Error is a structured error carrying a kind plus the context it happened in.
type Error struct {
	Kind Kind
	// Op names the operation, e.g. "state.write" or "hook.install".
	Op string
	// Path is the file or directory involved, when there is one.
	Path string
	// Detail is a human-readable explanation.
	Detail string
	Err    error
}

// New builds an Error of the given kind.
func New(kind Kind, op string, path string, detail string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Detail: detail, Err: err}
}

// Newf builds an Error of the given kind with a formatted detail.
func Newf(kind Kind, op string, path string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind, so sentinels compare by kind only.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
