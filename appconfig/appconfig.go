// Package appconfig is the external AppConfig loader: layered
// discovery (flags > env > file > defaults) via viper, handing the
// core a fully-formed domain.AppConfig. None of this package's logic
// is part of the core's contract (spec Non-goals exclude config
// loading from the core's design), but the loader still needs to
// exist somewhere, and viper is the library this codebase's CLI
// already used for exactly this job.
package appconfig

import (
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/selfiecli/selfie/domain"
)

// Options carries the flag-level overrides the CLI collects before
// calling Load; zero values mean "not set on the command line".
type Options struct {
	ConfigFile       string
	Environment      string
	PackageDirectory string
	CommandTimeout   time.Duration
	Verbose          bool
	NoColor          bool
}

const envPrefix = "SELFIE"

// Load builds a domain.AppConfig from (in precedence order) explicit
// flags, SELFIE_* environment variables, a discovered config file, and
// built-in defaults.
func Load(opts Options) (domain.AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("environment", "")
	v.SetDefault("package_directory", "~/.selfie/packages")
	v.SetDefault("command_timeout", "60s")
	v.SetDefault("max_parallel", 1)
	v.SetDefault("stop_on_error", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("no_color", false)

	loadedFrom := ""

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return domain.AppConfig{}, fmt.Errorf("reading config file %q: %w", opts.ConfigFile, err)
		}
		loadedFrom = opts.ConfigFile
	} else {
		v.SetConfigName(".selfie")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err == nil {
			loadedFrom = v.ConfigFileUsed()
		} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return domain.AppConfig{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	if opts.Environment != "" {
		v.Set("environment", opts.Environment)
	}
	if opts.PackageDirectory != "" {
		v.Set("package_directory", opts.PackageDirectory)
	}
	if opts.CommandTimeout > 0 {
		v.Set("command_timeout", opts.CommandTimeout.String())
	}
	if opts.Verbose {
		v.Set("log_level", "debug")
	}
	if opts.NoColor {
		v.Set("no_color", true)
	}

	timeout, err := time.ParseDuration(v.GetString("command_timeout"))
	if err != nil {
		return domain.AppConfig{}, fmt.Errorf("invalid command_timeout %q: %w", v.GetString("command_timeout"), err)
	}

	expandedDir, err := homedir.Expand(v.GetString("package_directory"))
	if err != nil {
		return domain.AppConfig{}, fmt.Errorf("expanding package_directory: %w", err)
	}

	cfg := domain.AppConfig{
		Environment:      v.GetString("environment"),
		PackageDirectory: expandedDir,
		CommandTimeout:   timeout,
		MaxParallel:      v.GetInt("max_parallel"),
		StopOnError:      v.GetBool("stop_on_error"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		NoColor:          v.GetBool("no_color"),
		ConfigFile:       loadedFrom,
	}

	return cfg.WithDefaults(), nil
}
