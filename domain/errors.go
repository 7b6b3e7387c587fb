package domain

import (
	"fmt"
	"time"
)

// ErrorContext is the mutable context record every error kind carries:
// optional path, command, environment, package, and line, plus a
// free-form message. Boundaries append to a copy via WithContext
// rather than mutating a shared pointer.
type ErrorContext struct {
	Path        string
	Command     string
	Environment string
	Package     string
	Line        int
	Message     string
}

func (c ErrorContext) describe() string {
	s := c.Message
	if c.Package != "" {
		s += fmt.Sprintf(" (package=%s)", c.Package)
	}
	if c.Environment != "" {
		s += fmt.Sprintf(" (environment=%s)", c.Environment)
	}
	if c.Path != "" {
		s += fmt.Sprintf(" (path=%s)", c.Path)
	}
	if c.Command != "" {
		s += fmt.Sprintf(" (command=%s)", c.Command)
	}
	if c.Line > 0 {
		s += fmt.Sprintf(" (line=%d)", c.Line)
	}
	return s
}

// PackageNotFoundError reports that no <name>.yaml|.yml exists in the
// package directory.
type PackageNotFoundError struct {
	Name        string
	Suggestions []string
	Ctx         ErrorContext
}

func (e *PackageNotFoundError) Error() string {
	msg := fmt.Sprintf("package not found: %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %v?)", e.Suggestions)
	}
	return msg + e.Ctx.describe()
}

// MultiplePackagesFoundError reports that both <name>.yaml and
// <name>.yml exist, which is ambiguous.
type MultiplePackagesFoundError struct {
	Name  string
	Paths []string
	Ctx   ErrorContext
}

func (e *MultiplePackagesFoundError) Error() string {
	return fmt.Sprintf("multiple package files found for %q: %v%s", e.Name, e.Paths, e.Ctx.describe())
}

// DirectoryNotFoundError reports that the package directory itself does
// not exist.
type DirectoryNotFoundError struct {
	Path string
	Ctx  ErrorContext
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("package directory not found: %q%s", e.Path, e.Ctx.describe())
}

// ParseErrorKind reports that a package or config file failed to parse
// as YAML.
type ParseErrorKind struct {
	Path       string
	Underlying error
	Ctx        ErrorContext
}

func (e *ParseErrorKind) Error() string {
	return fmt.Sprintf("failed to parse %q: %v%s", e.Path, e.Underlying, e.Ctx.describe())
}

func (e *ParseErrorKind) Unwrap() error { return e.Underlying }

// EnvironmentNotSupportedError reports that the active environment is
// not present in a package's environments map.
type EnvironmentNotSupportedError struct {
	Environment string
	Package     string
	Ctx         ErrorContext
}

func (e *EnvironmentNotSupportedError) Error() string {
	return fmt.Sprintf("environment %q not supported by package %q%s", e.Environment, e.Package, e.Ctx.describe())
}

// CircularDependencyError reports a cycle found while building the
// dependency graph. Path is the cycle walk in insertion order, ending
// at the offending node.
type CircularDependencyError struct {
	Path []string
	Ctx  ErrorContext
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %v%s", e.Path, e.Ctx.describe())
}

// MissingCommand is one (package, command) pair found missing during
// preflight.
type MissingCommand struct {
	Package string
	Command string
}

// CommandNotAvailableError reports that preflight found one or more
// required base commands missing before any check/install ran.
type CommandNotAvailableError struct {
	Missing []MissingCommand
	Ctx     ErrorContext
}

func (e *CommandNotAvailableError) Error() string {
	return fmt.Sprintf("required commands not available: %v%s", e.Missing, e.Ctx.describe())
}

// InstallationFailedError reports that a check/install step reached the
// Failed terminal state.
type InstallationFailedError struct {
	Package string
	Reason  string
	Ctx     ErrorContext
}

func (e *InstallationFailedError) Error() string {
	return fmt.Sprintf("installation failed for %q: %s%s", e.Package, e.Reason, e.Ctx.describe())
}

// TimeoutError reports that a command did not complete within its
// budget.
type TimeoutError struct {
	Duration time.Duration
	Ctx      ErrorContext
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s%s", e.Duration, e.Ctx.describe())
}

// IoErrorKind reports a filesystem or runner I/O failure.
type IoErrorKind struct {
	Underlying error
	Ctx        ErrorContext
}

func (e *IoErrorKind) Error() string {
	return fmt.Sprintf("io error: %v%s", e.Underlying, e.Ctx.describe())
}

func (e *IoErrorKind) Unwrap() error { return e.Underlying }

// InvalidStateError reports state-machine misuse: applying a
// transition from a state it is not defined for, or to an already
// consumed/terminal value. This is a programmer error, not a
// recoverable condition.
type InvalidStateError struct {
	Message string
	Ctx     ErrorContext
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: %s%s", e.Message, e.Ctx.describe())
}

// WithContext returns a shallow copy of err with ctx merged in: any
// field already set on err's existing context is preserved, and only
// zero fields are filled from ctx. This lets boundaries (the
// orchestrator, the validator) tag an error with package/environment
// without overwriting context a deeper layer already attached.
func WithContext(err error, ctx ErrorContext) error {
	merge := func(existing ErrorContext) ErrorContext {
		if existing.Path == "" {
			existing.Path = ctx.Path
		}
		if existing.Command == "" {
			existing.Command = ctx.Command
		}
		if existing.Environment == "" {
			existing.Environment = ctx.Environment
		}
		if existing.Package == "" {
			existing.Package = ctx.Package
		}
		if existing.Line == 0 {
			existing.Line = ctx.Line
		}
		if existing.Message == "" {
			existing.Message = ctx.Message
		}
		return existing
	}

	switch e := err.(type) {
	case *PackageNotFoundError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *MultiplePackagesFoundError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *DirectoryNotFoundError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *ParseErrorKind:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *EnvironmentNotSupportedError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *CircularDependencyError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *CommandNotAvailableError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *InstallationFailedError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *TimeoutError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *IoErrorKind:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	case *InvalidStateError:
		n := *e
		n.Ctx = merge(n.Ctx)
		return &n
	default:
		return err
	}
}

// ErrInvalidState is a sentinel usable with errors.Is for callers that
// don't need the message, matched via InvalidStateError's Is method.
var ErrInvalidState = &InvalidStateError{Message: "invalid state"}

// Is implements errors.Is support so errors.Is(err, ErrInvalidState)
// matches any InvalidStateError regardless of message.
func (e *InvalidStateError) Is(target error) bool {
	_, ok := target.(*InvalidStateError)
	return ok
}
