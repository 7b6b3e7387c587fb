// Package orchestrator drives a single install invocation: resolve the
// dependency order, preflight command availability, then run each
// package through the installation state machine in order, stopping on
// the first failure and assembling an InstallationReport.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/installation"
	"github.com/selfiecli/selfie/ports"
	"github.com/selfiecli/selfie/progress"
)

// Resolver is the subset of resolver.Resolver the orchestrator needs.
type Resolver interface {
	ResolveDependencies(root string) ([]domain.Package, error)
}

// Orchestrator wires a Resolver, a CommandRunner, an AppConfig, and a
// progress.Reporter together into C6's install_package/
// check_package_installable entry points.
type Orchestrator struct {
	Resolver Resolver
	Runner   ports.CommandRunner
	Config   domain.AppConfig
	Progress progress.Reporter
}

// New returns an Orchestrator. reporter may be nil, in which case a
// progress.Noop is used.
func New(resolver Resolver, runner ports.CommandRunner, config domain.AppConfig, reporter progress.Reporter) *Orchestrator {
	if reporter == nil {
		reporter = progress.Noop{}
	}
	return &Orchestrator{Resolver: resolver, Runner: runner, Config: config, Progress: reporter}
}

// Run resolves, preflights, and installs name, returning the root
// InstallationReport or one of the §7 error kinds.
func (o *Orchestrator) Run(ctx context.Context, name string) (*domain.InstallationReport, error) {
	start := time.Now()

	list, err := o.Resolver.ResolveDependencies(name)
	if err != nil {
		return nil, domain.WithContext(err, domain.ErrorContext{Package: name, Environment: o.Config.Environment})
	}

	if missing := o.preflight(ctx, list); len(missing) > 0 {
		return nil, &domain.CommandNotAvailableError{Missing: missing}
	}

	if len(list) == 0 {
		return nil, &domain.PackageNotFoundError{Name: name}
	}

	deps := list[:len(list)-1]
	root := list[len(list)-1]

	o.Progress.Info(progress.Root, "Installing "+root.Name)
	if len(deps) > 0 {
		o.Progress.Info(progress.Header, "Dependencies:")
	}

	var depReports []domain.InstallationReport
	for _, dep := range deps {
		report, err := o.runOne(ctx, dep)
		if err != nil {
			return nil, err
		}
		depReports = append(depReports, report)
	}

	rootReport, err := o.runOne(ctx, root)
	if err != nil {
		return nil, err
	}

	rootReport.Dependencies = depReports
	rootReport.Duration = time.Since(start)

	return &rootReport, nil
}

// CheckInstallable resolves and preflights name without executing any
// check/install command. It returns false (not an error) if the
// package lacks the active environment or a required command is
// missing; any other resolver error propagates.
func (o *Orchestrator) CheckInstallable(ctx context.Context, name string) (bool, error) {
	list, err := o.Resolver.ResolveDependencies(name)
	if err != nil {
		if _, ok := err.(*domain.EnvironmentNotSupportedError); ok {
			return false, nil
		}
		return false, domain.WithContext(err, domain.ErrorContext{Package: name, Environment: o.Config.Environment})
	}

	if missing := o.preflight(ctx, list); len(missing) > 0 {
		return false, nil
	}

	return true, nil
}

// preflight checks every resolved package's base install command against
// the runner before any check/install executes (I6). Checks are
// read-only and independent, so they run concurrently, bounded by
// Config.MaxParallel, via golang.org/x/sync/errgroup; results are
// collected into a slot per package so the reported order never depends
// on which goroutine finishes first.
func (o *Orchestrator) preflight(ctx context.Context, list []domain.Package) []domain.MissingCommand {
	slots := make([]*domain.MissingCommand, len(list))

	g, gctx := errgroup.WithContext(ctx)
	if o.Config.MaxParallel > 0 {
		g.SetLimit(o.Config.MaxParallel)
	}

	for i, pkg := range list {
		i, pkg := i, pkg
		g.Go(func() error {
			env, ok := pkg.Environment(o.Config.Environment)
			if !ok {
				return nil
			}
			basename := firstToken(env.Install)
			if basename != "" && !o.Runner.IsCommandAvailable(gctx, basename) {
				slots[i] = &domain.MissingCommand{Package: pkg.Name, Command: basename}
			}
			return nil
		})
	}
	_ = g.Wait()

	var missing []domain.MissingCommand
	for _, slot := range slots {
		if slot != nil {
			missing = append(missing, *slot)
		}
	}
	return missing
}

func (o *Orchestrator) runOne(ctx context.Context, pkg domain.Package) (domain.InstallationReport, error) {
	env, ok := pkg.Environment(o.Config.Environment)
	if !ok {
		return domain.InstallationReport{}, &domain.EnvironmentNotSupportedError{Environment: o.Config.Environment, Package: pkg.Name}
	}

	inst := installation.New(env)

	inst, err := inst.Start()
	if err != nil {
		return domain.InstallationReport{}, err
	}

	inst, err = inst.ExecuteCheck(ctx, o.Runner, o.Config.CommandTimeout)
	if err != nil {
		return domain.InstallationReport{}, err
	}

	if inst.Kind() == installation.NotAlreadyInstalled {
		inst, err = inst.ExecuteInstall(ctx, o.Runner, o.Config.CommandTimeout)
		if err != nil {
			return domain.InstallationReport{}, err
		}
	}

	report := inst.ToReport(pkg.Name)

	if err := inst.IntoResult(pkg.Name); err != nil {
		return report, domain.WithContext(err, domain.ErrorContext{Package: pkg.Name, Environment: o.Config.Environment})
	}

	switch report.Status {
	case domain.StatusAlreadyInstalled:
		o.Progress.Success(progress.Dependency, pkg.Name+" already installed")
	case domain.StatusComplete:
		o.Progress.Status(progress.Dependency, pkg.Name+" installed", report.Duration)
	}

	return report, nil
}

func firstToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
