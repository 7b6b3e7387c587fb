// Package validator implements the package linter (C7): a deep check
// of a package file against a target environment, run without ever
// executing its check or install commands.
package validator

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/ports"
)

// Category classifies an Issue.
type Category string

const (
	RequiredField Category = "RequiredField"
	InvalidValue  Category = "InvalidValue"
	Environment   Category = "Environment"
	CommandSyntax Category = "CommandSyntax"
	UrlFormat     Category = "UrlFormat"
	FileSystem    Category = "FileSystem"
	Availability  Category = "Availability"
	Other         Category = "Other"
)

// Severity is how seriously an Issue should be taken; only Error
// severity flips ValidationResult.IsValid to false.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
)

// Issue is a single finding against a package.
type Issue struct {
	Category   Category
	Field      string
	Message    string
	Line       int
	Severity   Severity
	Suggestion string
}

// ValidationResult is the full report produced by ValidateByPath.
type ValidationResult struct {
	PackageName string
	SourcePath  string
	Issues      []Issue
	Parsed      *domain.Package
}

// IsValid reports whether the result contains no Error-severity issue
// (I8); warnings never flip validity.
func (r ValidationResult) IsValid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// PackageLookup is the subset of repository.Repository the validator
// needs to resolve a name to a file.
type PackageLookup interface {
	FindPackageFiles(name string) ([]string, error)
}

// Validator runs the §4.4 checks against a package file.
type Validator struct {
	FS       ports.FileSystem
	Runner   ports.CommandRunner
	Packages PackageLookup
	Config   domain.AppConfig
}

// New returns a Validator.
func New(fs ports.FileSystem, runner ports.CommandRunner, packages PackageLookup, config domain.AppConfig) *Validator {
	return &Validator{FS: fs, Runner: runner, Packages: packages, Config: config}
}

// ValidateByName resolves name to its file via Packages and validates
// it.
func (v *Validator) ValidateByName(ctx context.Context, name string) (ValidationResult, error) {
	files, err := v.Packages.FindPackageFiles(name)
	if err != nil {
		return ValidationResult{}, err
	}
	switch len(files) {
	case 0:
		return ValidationResult{}, &domain.PackageNotFoundError{Name: name}
	case 1:
		return v.ValidateByPath(ctx, files[0])
	default:
		return ValidationResult{}, &domain.MultiplePackagesFoundError{Name: name, Paths: files}
	}
}

// ValidateByPath validates the package file at path directly, as used
// by `selfie package validate <name> --package-path <path>`.
func (v *Validator) ValidateByPath(ctx context.Context, path string) (ValidationResult, error) {
	result := ValidationResult{SourcePath: path}

	text, err := v.FS.ReadFile(path)
	if err != nil {
		return ValidationResult{}, &domain.IoErrorKind{Underlying: err, Ctx: domain.ErrorContext{Path: path}}
	}

	// 1. Parse.
	var pkg domain.Package
	if err := yaml.Unmarshal([]byte(text), &pkg); err != nil {
		result.Issues = append(result.Issues, Issue{
			Category: Other,
			Message:  err.Error(),
			Severity: SeverityError,
		})
		return result, nil
	}
	pkg.Path = path
	result.PackageName = pkg.Name
	result.Parsed = &pkg

	result.Issues = append(result.Issues, v.checkParsed(ctx, pkg)...)

	return result, nil
}

// checkParsed runs steps 2-7 against an already-parsed package: the
// part of ValidateByPath that has no filesystem or YAML dependency, so it
// can also be run directly against packages a caller already holds
// (ValidatePackages).
func (v *Validator) checkParsed(ctx context.Context, pkg domain.Package) []Issue {
	var issues []Issue

	// 2. Structural.
	issues = append(issues, structuralIssues(pkg)...)

	// 3. URL.
	issues = append(issues, urlIssues(pkg)...)

	// 4. Environments.
	issues = append(issues, environmentIssues(pkg, v.Config.Environment)...)

	// 5. Command syntax.
	issues = append(issues, commandSyntaxIssues(pkg)...)

	// 6. Availability (current environment only).
	if v.Runner != nil {
		issues = append(issues, v.availabilityIssues(ctx, pkg)...)
	}

	// 7. Environment-appropriateness (current environment only) plus
	// sudo/download indicators.
	issues = append(issues, appropriatenessIssues(pkg, v.Config.Environment)...)

	return issues
}

// ValidatePackages runs checkParsed against every already-parsed
// package concurrently via golang.org/x/sync/errgroup, bounded by
// Config.MaxParallel. Per-
// package Availability and command-syntax checks have no cross-package
// dependency (§4.4 expansion), so a batch caller like `package list`'s
// availability annotation runs them in parallel instead of one package
// at a time; this changes only batch wall-clock, never the
// single-package I8 semantics.
func (v *Validator) ValidatePackages(ctx context.Context, packages []domain.Package) []ValidationResult {
	results := make([]ValidationResult, len(packages))

	g, gctx := errgroup.WithContext(ctx)
	if v.Config.MaxParallel > 0 {
		g.SetLimit(v.Config.MaxParallel)
	}
	for i, pkg := range packages {
		i, pkg := i, pkg
		g.Go(func() error {
			results[i] = ValidationResult{
				PackageName: pkg.Name,
				SourcePath:  pkg.Path,
				Parsed:      &pkg,
				Issues:      v.checkParsed(gctx, pkg),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+`)

func structuralIssues(pkg domain.Package) []Issue {
	var issues []Issue

	if pkg.Name == "" {
		issues = append(issues, Issue{Category: RequiredField, Field: "name", Message: "name is required", Severity: SeverityError})
	} else if !namePattern.MatchString(pkg.Name) {
		issues = append(issues, Issue{Category: InvalidValue, Field: "name", Message: "name must match [A-Za-z0-9_-]+", Severity: SeverityError})
	}

	if pkg.Version == "" {
		issues = append(issues, Issue{Category: RequiredField, Field: "version", Message: "version is required", Severity: SeverityError})
	} else if !semverPattern.MatchString(pkg.Version) {
		issues = append(issues, Issue{Category: InvalidValue, Field: "version", Message: "version does not look like semver (x.y.z)", Severity: SeverityWarning})
	}

	if len(pkg.Environments) == 0 {
		issues = append(issues, Issue{Category: RequiredField, Field: "environments", Message: "at least one environment is required", Severity: SeverityError})
	}

	return issues
}

func urlIssues(pkg domain.Package) []Issue {
	if pkg.Homepage == "" {
		return nil
	}
	u, err := url.Parse(pkg.Homepage)
	if err != nil || u.Scheme == "" {
		return []Issue{{Category: UrlFormat, Field: "homepage", Message: "homepage is not a parseable URL", Severity: SeverityError}}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []Issue{{Category: UrlFormat, Field: "homepage", Message: "homepage should use http or https", Severity: SeverityWarning}}
	}
	return nil
}

func environmentIssues(pkg domain.Package, activeEnv string) []Issue {
	var issues []Issue

	for name, env := range pkg.Environments {
		if env.Install == "" {
			issues = append(issues, Issue{
				Category: RequiredField,
				Field:    "environments." + name + ".install",
				Message:  "install command is required",
				Severity: SeverityError,
			})
		}
		for _, dep := range env.Dependencies {
			if dep == "" {
				issues = append(issues, Issue{
					Category: InvalidValue,
					Field:    "environments." + name + ".dependencies",
					Message:  "dependency name must not be empty",
					Severity: SeverityError,
				})
			}
		}
	}

	if activeEnv != "" {
		if _, ok := pkg.Environments[activeEnv]; !ok {
			issues = append(issues, Issue{
				Category: Environment,
				Field:    "environments." + activeEnv,
				Message:  "active environment is not declared by this package",
				Severity: SeverityWarning,
			})
		}
	}

	return issues
}

var unmatchedQuoteOK = func(s string) bool {
	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		}
	}
	return !inSingle && !inDouble
}

var redirectionPattern = regexp.MustCompile(`(>>?|<)\s*(\S+)`)
var backtickPattern = regexp.MustCompile("`[^`]*`")
var sudoPattern = regexp.MustCompile(`(^|\s)sudo(\s|$)`)
var downloadPattern = regexp.MustCompile(`\b(curl|wget|git clone|npm install|pip install)\b`)

func commandSyntaxForString(field, command string) []Issue {
	var issues []Issue
	if command == "" {
		return nil
	}

	if !unmatchedQuoteOK(command) {
		issues = append(issues, Issue{Category: CommandSyntax, Field: field, Message: "unmatched quote", Severity: SeverityError})
	}

	if strings.Contains(command, "| |") {
		issues = append(issues, Issue{Category: CommandSyntax, Field: field, Message: "empty pipe segment", Severity: SeverityError})
	}

	for _, m := range redirectionPattern.FindAllStringSubmatch(command, -1) {
		target := m[2]
		if !strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "~/") {
			issues = append(issues, Issue{Category: CommandSyntax, Field: field, Message: "redirection target should be an absolute or home-relative path: " + target, Severity: SeverityWarning})
		}
	}

	if backtickPattern.MatchString(command) {
		issues = append(issues, Issue{Category: CommandSyntax, Field: field, Message: "backtick command substitution is fragile; prefer $(...)", Severity: SeverityWarning})
	}

	return issues
}

func commandSyntaxIssues(pkg domain.Package) []Issue {
	var issues []Issue
	for name, env := range pkg.Environments {
		issues = append(issues, commandSyntaxForString("environments."+name+".install", env.Install)...)
		issues = append(issues, commandSyntaxForString("environments."+name+".check", env.Check)...)
	}
	return issues
}

func (v *Validator) availabilityIssues(ctx context.Context, pkg domain.Package) []Issue {
	env, ok := pkg.Environments[v.Config.Environment]
	if !ok {
		return nil
	}

	var issues []Issue
	for field, command := range map[string]string{
		"environments." + v.Config.Environment + ".install": env.Install,
		"environments." + v.Config.Environment + ".check":   env.Check,
	} {
		token := firstToken(command)
		if token == "" {
			continue
		}
		if !v.Runner.IsCommandAvailable(ctx, token) {
			issues = append(issues, Issue{Category: Availability, Field: field, Message: "command not found on PATH: " + token, Severity: SeverityWarning})
		}
	}
	return issues
}

func firstToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// osFamily names a family of operating systems recognized by the
// environment-appropriateness check, with its canonical package
// managers.
type osFamily struct {
	matches  []string
	managers []string
}

var osFamilies = []osFamily{
	{matches: []string{"mac", "darwin", "osx"}, managers: []string{"brew", "port", "mas"}},
	{matches: []string{"ubuntu", "debian"}, managers: []string{"apt", "apt-get", "dpkg"}},
	{matches: []string{"fedora", "rhel", "centos"}, managers: []string{"dnf", "yum", "rpm"}},
	{matches: []string{"arch"}, managers: []string{"pacman", "yay", "paru"}},
	{matches: []string{"opensuse", "suse"}, managers: []string{"zypper", "rpm"}},
	{matches: []string{"windows", "win"}, managers: []string{"choco", "scoop", "winget"}},
}

func matchFamily(envName string) *osFamily {
	lower := strings.ToLower(envName)
	for i := range osFamilies {
		for _, m := range osFamilies[i].matches {
			if strings.Contains(lower, m) {
				return &osFamilies[i]
			}
		}
	}
	return nil
}

func appropriatenessIssues(pkg domain.Package, activeEnv string) []Issue {
	env, ok := pkg.Environments[activeEnv]
	if !ok {
		return nil
	}

	var issues []Issue

	if family := matchFamily(activeEnv); family != nil {
		base := firstToken(env.Install)
		matched := false
		for _, manager := range family.managers {
			if base == manager {
				matched = true
				break
			}
		}
		if base != "" && !matched {
			issues = append(issues, Issue{
				Category: Environment,
				Field:    "environments." + activeEnv + ".install",
				Message:  "install command does not use a package manager typical for this environment",
				Severity: SeverityWarning,
			})
		}
	}

	if sudoPattern.MatchString(env.Install) {
		issues = append(issues, Issue{Category: CommandSyntax, Field: "environments." + activeEnv + ".install", Message: "install command elevates via sudo", Severity: SeverityWarning})
	}

	if downloadPattern.MatchString(env.Install) {
		issues = append(issues, Issue{Category: CommandSyntax, Field: "environments." + activeEnv + ".install", Message: "install command downloads directly rather than using a package manager", Severity: SeverityWarning})
	}

	return issues
}
