// Package ports defines the seam between the core (domain, graph,
// resolver, installation, orchestrator, validator) and the outside
// world: the filesystem and process execution. The core is tested
// exclusively against the in-memory fakes in ports/fakes; OS-backed
// implementations live in ports/osfs and ports/shellrunner.
package ports

import (
	"context"
	"time"

	"github.com/selfiecli/selfie/domain"
)

// FileSystem is every filesystem operation the core needs. All paths
// returned to callers are absolute; tilde expansion happens inside
// ExpandPath, not in the core.
type FileSystem interface {
	ReadFile(path string) (string, error)
	PathExists(path string) bool
	ListDirectory(path string) ([]string, error)
	ExpandPath(path string) (string, error)
	ConfigDir() (string, error)
}

// CommandError is the closed set of failure modes a CommandRunner can
// report, distinct from a command simply exiting non-zero (which is a
// successful CommandOutput with ExitStatus != 0).
type CommandError struct {
	Kind    CommandErrorKind
	Message string
	Timeout time.Duration
}

// CommandErrorKind enumerates why a CommandRunner call failed outright
// rather than producing a CommandOutput.
type CommandErrorKind int

const (
	ExecutionError CommandErrorKind = iota
	TimeoutErrorKind
	IoError
	InterruptedError
)

func (e *CommandError) Error() string {
	switch e.Kind {
	case TimeoutErrorKind:
		return "timeout after " + e.Timeout.String()
	case IoError:
		return "io error: " + e.Message
	case InterruptedError:
		return "interrupted: " + e.Message
	default:
		return "execution error: " + e.Message
	}
}

// CommandRunner executes shell commands on behalf of the core. Command
// strings are passed to a POSIX-style shell ("sh -c").
type CommandRunner interface {
	Execute(ctx context.Context, command string) (domain.CommandOutput, error)
	ExecuteWithTimeout(ctx context.Context, command string, timeout time.Duration) (domain.CommandOutput, error)
	IsCommandAvailable(ctx context.Context, basename string) bool
}
