// Package errs implements the error taxonomy from the core's error handling
// design: every non-transient error is an *AppError* carrying a Kind and,
// for anything worth investigating later, a captured stack.
package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies an AppError per the taxonomy.
type Kind int

const (
	// Transient errors (vanished handle, denied set-foreground) are logged
	// at TRACE and swallowed at the call site; callers should prefer not
	// to wrap these in AppError at all — see Transient below.
	Transient Kind = iota
	// PolicyFailure is a user-configured intent that conflicts with a hard
	// classification rule (§4.2 items 1-4 always win).
	PolicyFailure
	// InvariantViolation means the core self-repaired a broken invariant
	// (e.g. a duplicate handle across workspaces) and is recording it.
	InvariantViolation
	// Fatal means the process cannot continue (hook install, mutex
	// acquisition, display-manager init failures).
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case PolicyFailure:
		return "policy_failure"
	case InvariantViolation:
		return "invariant_violation"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// AppError is the core's single error type. Code is a stable, short
// machine-readable identifier (never localized — the UI owns presentation).
type AppError struct {
	Kind  Kind
	Code  string
	Cause error
	stack string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Code)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Stack returns the captured call stack, or "" for Transient errors (which
// never capture one — they're expected to happen routinely).
func (e *AppError) Stack() string { return e.stack }

func captureStack(skip int) string {
	var b strings.Builder
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}

// New builds an AppError with the given kind and code. Transient errors
// never capture a stack trace; everything else does.
func New(kind Kind, code string) error {
	e := &AppError{Kind: kind, Code: code}
	if kind != Transient {
		e.stack = captureStack(1)
	}
	return e
}

// Newf builds an AppError whose Code is formatted from args.
func Newf(kind Kind, format string, args ...any) error {
	e := &AppError{Kind: kind, Code: fmt.Sprintf(format, args...)}
	if kind != Transient {
		e.stack = captureStack(1)
	}
	return e
}

// Wrap attaches kind/code context to an existing error. Returns nil if err
// is nil, matching the convention call sites rely on for one-line wraps.
func Wrap(err error, kind Kind, code string) error {
	if err == nil {
		return nil
	}
	e := &AppError{Kind: kind, Code: code, Cause: err}
	if kind != Transient {
		e.stack = captureStack(1)
	}
	return e
}

// Is reports whether err is an *AppError of the given kind, unwrapping as
// needed.
func Is(err error, kind Kind) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
