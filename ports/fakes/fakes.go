// Package fakes provides in-memory FileSystem and CommandRunner
// implementations so the core (graph, resolver, installation,
// orchestrator, validator) can be tested without touching a real
// filesystem or spawning a real process.
package fakes

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/ports"
)

// MemFS is an in-memory ports.FileSystem backed by a map of path to
// file contents.
type MemFS struct {
	Files map[string]string
	Home  string
}

// NewMemFS returns an empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{Files: map[string]string{}, Home: "/home/test"}
}

// WithFile adds a file and returns the receiver, for fluent test setup.
func (f *MemFS) WithFile(path, contents string) *MemFS {
	f.Files[path] = contents
	return f
}

func (f *MemFS) ReadFile(path string) (string, error) {
	contents, ok := f.Files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return contents, nil
}

func (f *MemFS) PathExists(path string) bool {
	if _, ok := f.Files[path]; ok {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for existing := range f.Files {
		if strings.HasPrefix(existing, prefix) {
			return true
		}
	}
	return false
}

func (f *MemFS) ListDirectory(path string) ([]string, error) {
	if !f.PathExists(path) {
		return nil, fmt.Errorf("no such directory: %s", path)
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	var out []string
	for existing := range f.Files {
		if strings.HasPrefix(existing, prefix) {
			rest := strings.TrimPrefix(existing, prefix)
			if !strings.Contains(rest, "/") {
				out = append(out, existing)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *MemFS) ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		path = f.Home + strings.TrimPrefix(path, "~")
	}
	return filepath.Clean(path), nil
}

func (f *MemFS) ConfigDir() (string, error) {
	return f.Home, nil
}

// ScriptedCommand is one canned response for an exact command string
// in FakeRunner.
type ScriptedCommand struct {
	Output  domain.CommandOutput
	Err     error
	Invoked bool
}

// FakeRunner is an in-memory ports.CommandRunner. Responses are keyed
// by exact command string; Available lists basenames that should be
// reported as present. A command with no scripted response panics,
// which is what lets tests assert a command was never invoked (I5/I6).
type FakeRunner struct {
	Responses map[string]*ScriptedCommand
	Available map[string]bool
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: map[string]*ScriptedCommand{},
		Available: map[string]bool{},
	}
}

// Script registers the response for an exact command string.
func (r *FakeRunner) Script(command string, output domain.CommandOutput, err error) *FakeRunner {
	r.Responses[command] = &ScriptedCommand{Output: output, Err: err}
	return r
}

// MarkAvailable records basename as a command IsCommandAvailable should
// report present.
func (r *FakeRunner) MarkAvailable(basename string) *FakeRunner {
	r.Available[basename] = true
	return r
}

// WasInvoked reports whether command was ever executed.
func (r *FakeRunner) WasInvoked(command string) bool {
	sc, ok := r.Responses[command]
	return ok && sc.Invoked
}

func (r *FakeRunner) Execute(ctx context.Context, command string) (domain.CommandOutput, error) {
	sc, ok := r.Responses[command]
	if !ok {
		panic(fmt.Sprintf("fakes.FakeRunner: unscripted command invoked: %q", command))
	}
	sc.Invoked = true
	return sc.Output, sc.Err
}

func (r *FakeRunner) ExecuteWithTimeout(ctx context.Context, command string, timeout time.Duration) (domain.CommandOutput, error) {
	return r.Execute(ctx, command)
}

func (r *FakeRunner) IsCommandAvailable(ctx context.Context, basename string) bool {
	return r.Available[basename]
}

var _ ports.FileSystem = (*MemFS)(nil)
var _ ports.CommandRunner = (*FakeRunner)(nil)
