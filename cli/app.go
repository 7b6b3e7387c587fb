package cli

import (
	"github.com/selfiecli/selfie/appconfig"
	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/orchestrator"
	"github.com/selfiecli/selfie/ports"
	"github.com/selfiecli/selfie/ports/osfs"
	"github.com/selfiecli/selfie/ports/shellrunner"
	"github.com/selfiecli/selfie/progress"
	"github.com/selfiecli/selfie/repository"
	"github.com/selfiecli/selfie/resolver"
	"github.com/selfiecli/selfie/validator"
)

// app bundles the wired-up core for one CLI invocation.
type app struct {
	Config     domain.AppConfig
	FS         ports.FileSystem
	Runner     ports.CommandRunner
	Repository *repository.Repository
	Progress   *progress.ConsoleReporter
}

func bootstrap() (*app, error) {
	cfg, err := appconfig.Load(appconfig.Options{
		ConfigFile:       cfgFile,
		Environment:      environment,
		PackageDirectory: packageDirectory,
		CommandTimeout:   commandTimeout,
		Verbose:          verbose,
		NoColor:          noColor,
	})
	if err != nil {
		return nil, err
	}

	fs := osfs.New()
	runner := shellrunner.New()
	repo := repository.New(fs, cfg.PackageDirectory)
	reporter := progress.NewConsoleReporter(cfg.LogFormat, cfg.LogLevel, cfg.NoColor)

	return &app{
		Config:     cfg,
		FS:         fs,
		Runner:     runner,
		Repository: repo,
		Progress:   reporter,
	}, nil
}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	res := resolver.New(a.Repository, a.Config.Environment)
	return orchestrator.New(res, a.Runner, a.Config, a.Progress)
}

func (a *app) validator() *validator.Validator {
	return validator.New(a.FS, a.Runner, a.Repository, a.Config)
}
