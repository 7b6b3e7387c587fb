package domain

import "time"

// AppConfig is the process-wide configuration the core runs against.
// It is produced by an external loader (see appconfig) and handed to
// the orchestrator, resolver, and validator as a fully-formed value.
type AppConfig struct {
	// Environment selects which EnvironmentConfig inside each package is
	// consulted. Required, non-empty.
	Environment string

	// PackageDirectory is the absolute, tilde-expanded root the
	// repository scans.
	PackageDirectory string

	// CommandTimeout bounds every check/install invocation. Default 60s.
	CommandTimeout time.Duration

	// MaxParallel bounds the orchestrator's preflight availability
	// checks, which run concurrently since they have no ordering
	// dependency; check/install execution itself stays strictly
	// sequential per the stop-on-error guarantee.
	MaxParallel int

	// StopOnError mirrors the stop_on_error config option. Default
	// true. No code reads it: the orchestrator always stops at the
	// first failure whatever its value, and Validate does not check it.
	StopOnError bool

	// LogLevel is one of debug|info|warn|error. Default info.
	LogLevel string

	// LogFormat is one of text|json. Default text.
	LogFormat string

	// NoColor suppresses ANSI color codes in the console progress
	// renderer.
	NoColor bool

	// ConfigFile is the path to the YAML config file actually loaded,
	// if any. Set by the loader, never user-supplied directly.
	ConfigFile string
}

// DefaultCommandTimeout is used when AppConfig.CommandTimeout is zero.
const DefaultCommandTimeout = 60 * time.Second

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"text": true, "json": true}

// ValidateMinimal checks only what commands that merely need to locate
// package files require: a non-empty PackageDirectory.
func (c AppConfig) ValidateMinimal() []StructuralIssue {
	var issues []StructuralIssue
	if c.PackageDirectory == "" {
		issues = append(issues, StructuralIssue{Field: "package_directory", Message: "package_directory is required"})
	}
	return issues
}

// Validate performs the full AppConfig self-check used before any
// orchestrator or resolver run.
func (c AppConfig) Validate() []StructuralIssue {
	issues := c.ValidateMinimal()

	if c.Environment == "" {
		issues = append(issues, StructuralIssue{Field: "environment", Message: "environment is required"})
	}
	if c.CommandTimeout <= 0 {
		issues = append(issues, StructuralIssue{Field: "command_timeout", Message: "command_timeout must be > 0"})
	}
	if c.MaxParallel <= 0 {
		issues = append(issues, StructuralIssue{Field: "max_parallel", Message: "max_parallel must be > 0"})
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		issues = append(issues, StructuralIssue{Field: "log_level", Message: "log_level must be one of debug|info|warn|error"})
	}
	if c.LogFormat != "" && !validLogFormats[c.LogFormat] {
		issues = append(issues, StructuralIssue{Field: "log_format", Message: "log_format must be one of text|json"})
	}

	return issues
}

// WithDefaults returns a copy of c with zero-valued optional fields
// filled in. It does not touch Environment or PackageDirectory, which
// have no sensible default.
func (c AppConfig) WithDefaults() AppConfig {
	out := c
	if out.CommandTimeout <= 0 {
		out.CommandTimeout = DefaultCommandTimeout
	}
	if out.MaxParallel <= 0 {
		out.MaxParallel = 1
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.LogFormat == "" {
		out.LogFormat = "text"
	}
	return out
}
