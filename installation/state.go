// Package installation implements the per-package installation state
// machine (check -> install), as a consuming sequence of value
// transitions: each method takes an Installation by value and returns
// a new one. Go has no move semantics, so "consuming" here is a
// convention enforced by the fact that no method keeps a reference to
// its receiver after returning a new value — callers must use the
// returned value and drop the old one, exactly like dropping a moved-
// from value in a language that has real move semantics. Calling a
// transition on the wrong source kind is a programmer error, reported
// as *domain.InvalidStateError, not a recoverable condition.
package installation

import (
	"context"
	"fmt"
	"time"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/ports"
)

// Kind identifies which state an Installation is in.
type Kind int

const (
	NotStarted Kind = iota
	Checking
	AlreadyInstalled
	NotAlreadyInstalled
	Installing
	Complete
	Failed
	Skipped
)

func (k Kind) String() string {
	switch k {
	case NotStarted:
		return "NotStarted"
	case Checking:
		return "Checking"
	case AlreadyInstalled:
		return "AlreadyInstalled"
	case NotAlreadyInstalled:
		return "NotAlreadyInstalled"
	case Installing:
		return "Installing"
	case Complete:
		return "Complete"
	case Failed:
		return "Failed"
	case Skipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Installation is the per-package lifecycle value. It owns the
// EnvironmentConfig it was constructed with for its entire life.
type Installation struct {
	kind Kind
	env  domain.EnvironmentConfig

	start time.Time

	checkDuration time.Duration
	totalDuration time.Duration

	output        *domain.CommandOutput
	errorMessage  string
	skippedReason string
}

// New constructs a fresh Installation in NotStarted, owning env.
func New(env domain.EnvironmentConfig) Installation {
	return Installation{kind: NotStarted, env: env}
}

// Kind reports the current state.
func (i Installation) Kind() Kind { return i.kind }

// IsTerminal reports whether no further transitions are possible.
func (i Installation) IsTerminal() bool {
	switch i.kind {
	case AlreadyInstalled, Complete, Failed, Skipped:
		return true
	default:
		return false
	}
}

func invalidState(from Kind, op string) error {
	return &domain.InvalidStateError{Message: fmt.Sprintf("cannot %s from state %s", op, from)}
}

// Start transitions NotStarted -> Checking, recording the start time.
func (i Installation) Start() (Installation, error) {
	if i.kind != NotStarted {
		return i, invalidState(i.kind, "start")
	}
	return Installation{kind: Checking, env: i.env, start: time.Now()}, nil
}

// ExecuteCheck runs the environment's check command (if any) and
// transitions Checking -> AlreadyInstalled | NotAlreadyInstalled |
// Failed. An absent check command transitions straight to
// NotAlreadyInstalled with a zero check duration — "cannot detect,
// assume not installed".
func (i Installation) ExecuteCheck(ctx context.Context, runner ports.CommandRunner, timeout time.Duration) (Installation, error) {
	if i.kind != Checking {
		return i, invalidState(i.kind, "execute_check")
	}

	if i.env.Check == "" {
		return Installation{kind: NotAlreadyInstalled, env: i.env, start: i.start}, nil
	}

	out, err := runner.ExecuteWithTimeout(ctx, i.env.Check, timeout)
	if err != nil {
		return Installation{
			kind:          Failed,
			env:           i.env,
			start:         i.start,
			totalDuration: time.Since(i.start),
			errorMessage:  runnerErrorMessage(err),
		}, nil
	}

	if out.Success() {
		return Installation{kind: AlreadyInstalled, env: i.env, start: i.start, checkDuration: out.Duration}, nil
	}
	return Installation{kind: NotAlreadyInstalled, env: i.env, start: i.start, checkDuration: out.Duration}, nil
}

// ExecuteInstall runs the environment's install command and transitions
// NotAlreadyInstalled -> (internally Installing) -> Complete | Failed.
func (i Installation) ExecuteInstall(ctx context.Context, runner ports.CommandRunner, timeout time.Duration) (Installation, error) {
	if i.kind != NotAlreadyInstalled {
		return i, invalidState(i.kind, "execute_install")
	}

	out, err := runner.ExecuteWithTimeout(ctx, i.env.Install, timeout)
	if err != nil {
		return Installation{
			kind:          Failed,
			env:           i.env,
			start:         i.start,
			checkDuration: i.checkDuration,
			totalDuration: time.Since(i.start),
			errorMessage:  runnerErrorMessage(err),
		}, nil
	}

	if out.Success() {
		o := out
		return Installation{
			kind:          Complete,
			env:           i.env,
			start:         i.start,
			checkDuration: i.checkDuration,
			totalDuration: time.Since(i.start),
			output:        &o,
		}, nil
	}

	return Installation{
		kind:          Failed,
		env:           i.env,
		start:         i.start,
		checkDuration: i.checkDuration,
		totalDuration: time.Since(i.start),
		errorMessage:  fmt.Sprintf("install command exited with status %d", out.ExitStatus),
	}, nil
}

// Skip transitions NotStarted or Checking -> Skipped, recording reason.
func (i Installation) Skip(reason string) (Installation, error) {
	if i.kind != NotStarted && i.kind != Checking {
		return i, invalidState(i.kind, "skip")
	}
	var total time.Duration
	if !i.start.IsZero() {
		total = time.Since(i.start)
	}
	return Installation{kind: Skipped, env: i.env, start: i.start, totalDuration: total, skippedReason: reason}, nil
}

// IntoResult implements I4: terminal success states (AlreadyInstalled,
// Complete, Skipped) return nil; Failed returns
// *domain.InstallationFailedError; any non-terminal state returns
// *domain.InvalidStateError.
func (i Installation) IntoResult(name string) error {
	switch i.kind {
	case AlreadyInstalled, Complete, Skipped:
		return nil
	case Failed:
		return &domain.InstallationFailedError{Package: name, Reason: i.errorMessage}
	default:
		return &domain.InvalidStateError{Message: fmt.Sprintf("%s is not a terminal state", i.kind)}
	}
}

// ToReport renders the Installation's terminal state as a report leaf.
// Dependencies are attached separately by the orchestrator.
func (i Installation) ToReport(name string) domain.InstallationReport {
	report := domain.InstallationReport{
		PackageName:   name,
		CheckDuration: i.checkDuration,
		Duration:      i.totalDuration,
		InstallOutput: i.output,
		FailureReason: i.errorMessage,
		SkippedReason: i.skippedReason,
	}

	switch i.kind {
	case AlreadyInstalled:
		report.Status = domain.StatusAlreadyInstalled
	case Complete:
		report.Status = domain.StatusComplete
	case Failed:
		report.Status = domain.StatusFailed
	case Skipped:
		report.Status = domain.StatusSkipped
	}

	return report
}

func runnerErrorMessage(err error) string {
	if cmdErr, ok := err.(*ports.CommandError); ok && cmdErr.Kind == ports.TimeoutErrorKind {
		return fmt.Sprintf("timeout after %s", cmdErr.Timeout)
	}
	return err.Error()
}
