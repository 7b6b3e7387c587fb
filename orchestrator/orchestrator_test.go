package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/ports/fakes"
	"github.com/selfiecli/selfie/progress"
)

type fakeResolver struct {
	order []domain.Package
	err   error
}

func (f *fakeResolver) ResolveDependencies(root string) ([]domain.Package, error) {
	return f.order, f.err
}

func env(install, check string, deps ...string) domain.EnvironmentConfig {
	return domain.EnvironmentConfig{Install: install, Check: check, Dependencies: deps}
}

func withEnv(name, envName string, cfg domain.EnvironmentConfig) domain.Package {
	return domain.Package{
		Name:         name,
		Version:      "1.0.0",
		Environments: map[string]domain.EnvironmentConfig{envName: cfg},
	}
}

func cfg() domain.AppConfig {
	return domain.AppConfig{Environment: "macos", CommandTimeout: time.Second, MaxParallel: 1}
}

func TestRunLinearChainInstallsInOrder(t *testing.T) {
	resolver := &fakeResolver{order: []domain.Package{
		withEnv("c", "macos", env("install c", "")),
		withEnv("b", "macos", env("install b", "")),
		withEnv("a", "macos", env("install a", "")),
	}}
	runner := fakes.NewFakeRunner().
		MarkAvailable("install").
		Script("install c", domain.CommandOutput{ExitStatus: 0}, nil).
		Script("install b", domain.CommandOutput{ExitStatus: 0}, nil).
		Script("install a", domain.CommandOutput{ExitStatus: 0}, nil)

	o := New(resolver, runner, cfg(), progress.Noop{})
	report, err := o.Run(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", report.PackageName)
	require.Len(t, report.Dependencies, 2)
	assert.Equal(t, "c", report.Dependencies[0].PackageName)
	assert.Equal(t, "b", report.Dependencies[1].PackageName)
	assert.True(t, runner.WasInvoked("install a"))
	assert.True(t, runner.WasInvoked("install b"))
	assert.True(t, runner.WasInvoked("install c"))
}

func TestRunAlreadyInstalledDependencySkipsInstall(t *testing.T) {
	resolver := &fakeResolver{order: []domain.Package{
		withEnv("b", "macos", env("install b", "check b")),
		withEnv("a", "macos", env("install a", "")),
	}}
	runner := fakes.NewFakeRunner().
		MarkAvailable("install").
		Script("check b", domain.CommandOutput{ExitStatus: 0}, nil).
		Script("install a", domain.CommandOutput{ExitStatus: 0}, nil)

	o := New(resolver, runner, cfg(), progress.Noop{})
	report, err := o.Run(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAlreadyInstalled, report.Dependencies[0].Status)
	assert.False(t, runner.WasInvoked("install b"))
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	resolver := &fakeResolver{order: []domain.Package{
		withEnv("b", "macos", env("install b", "")),
		withEnv("a", "macos", env("install a", "")),
	}}
	runner := fakes.NewFakeRunner().
		MarkAvailable("install").
		Script("install b", domain.CommandOutput{ExitStatus: 1}, nil)

	o := New(resolver, runner, cfg(), progress.Noop{})
	_, err := o.Run(context.Background(), "a")
	require.Error(t, err)
	var failed *domain.InstallationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "b", failed.Package)
	assert.False(t, runner.WasInvoked("install a"))
}

func TestRunPropagatesResolverErrors(t *testing.T) {
	resolver := &fakeResolver{err: &domain.CircularDependencyError{Path: []string{"a", "b", "a"}}}
	runner := fakes.NewFakeRunner()

	o := New(resolver, runner, cfg(), progress.Noop{})
	_, err := o.Run(context.Background(), "a")
	require.Error(t, err)
	var cyclic *domain.CircularDependencyError
	assert.ErrorAs(t, err, &cyclic)
}

func TestRunMissingEnvironmentOnDependencyFails(t *testing.T) {
	resolver := &fakeResolver{err: &domain.EnvironmentNotSupportedError{Environment: "macos", Package: "x"}}
	runner := fakes.NewFakeRunner()

	o := New(resolver, runner, cfg(), progress.Noop{})
	_, err := o.Run(context.Background(), "a")
	require.Error(t, err)
	var unsupported *domain.EnvironmentNotSupportedError
	assert.ErrorAs(t, err, &unsupported)
}

func TestRunPreflightFailsBeforeAnyCommandRuns(t *testing.T) {
	// I6: preflight checks every package's base command up front, before
	// any check/install executes, and none are scripted here so a panic
	// would surface if the orchestrator tried to run one.
	resolver := &fakeResolver{order: []domain.Package{
		withEnv("b", "macos", env("missingcmd b", "")),
		withEnv("a", "macos", env("install a", "")),
	}}
	runner := fakes.NewFakeRunner().MarkAvailable("install")

	o := New(resolver, runner, cfg(), progress.Noop{})
	_, err := o.Run(context.Background(), "a")
	require.Error(t, err)
	var notAvailable *domain.CommandNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	require.Len(t, notAvailable.Missing, 1)
	assert.Equal(t, "b", notAvailable.Missing[0].Package)
}

func TestCheckInstallableReturnsFalseOnUnsupportedEnvironment(t *testing.T) {
	resolver := &fakeResolver{err: &domain.EnvironmentNotSupportedError{Environment: "macos", Package: "a"}}
	o := New(resolver, fakes.NewFakeRunner(), cfg(), progress.Noop{})

	ok, err := o.CheckInstallable(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckInstallableReturnsFalseOnMissingCommand(t *testing.T) {
	resolver := &fakeResolver{order: []domain.Package{withEnv("a", "macos", env("missingcmd a", ""))}}
	o := New(resolver, fakes.NewFakeRunner(), cfg(), progress.Noop{})

	ok, err := o.CheckInstallable(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckInstallablePropagatesOtherResolverErrors(t *testing.T) {
	resolver := &fakeResolver{err: &domain.PackageNotFoundError{Name: "a"}}
	o := New(resolver, fakes.NewFakeRunner(), cfg(), progress.Noop{})

	_, err := o.CheckInstallable(context.Background(), "a")
	require.Error(t, err)
}

func TestCheckInstallableDoesNotExecuteAnyCommand(t *testing.T) {
	resolver := &fakeResolver{order: []domain.Package{withEnv("a", "macos", env("install a", "check a"))}}
	runner := fakes.NewFakeRunner().MarkAvailable("install")

	o := New(resolver, runner, cfg(), progress.Noop{})
	ok, err := o.CheckInstallable(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, runner.WasInvoked("check a"))
	assert.False(t, runner.WasInvoked("install a"))
}

func TestRunDependencyTimingDoesNotExceedTotal(t *testing.T) {
	resolver := &fakeResolver{order: []domain.Package{
		withEnv("b", "macos", env("install b", "")),
		withEnv("a", "macos", env("install a", "")),
	}}
	runner := fakes.NewFakeRunner().
		MarkAvailable("install").
		Script("install b", domain.CommandOutput{ExitStatus: 0}, nil).
		Script("install a", domain.CommandOutput{ExitStatus: 0}, nil)

	o := New(resolver, runner, cfg(), progress.Noop{})
	report, err := o.Run(context.Background(), "a")
	require.NoError(t, err)

	// I7: wall-clock total must be at least the sum of dependency durations.
	assert.GreaterOrEqual(t, report.TotalDuration(), report.DependencyDuration())
}
