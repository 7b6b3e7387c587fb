// Package domain holds selfie's core value types: packages, environment
// configs, installation state, and the process-wide application config.
// Nothing in this package touches the filesystem or spawns a process —
// those concerns live behind the ports package.
package domain

import "regexp"

// namePattern is the set of characters allowed in a package name.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// versionPattern is the loose semver shape used for a non-fatal warning,
// not for validation (see validator.ValidateByPath for the authoritative check).
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+`)

// Package is one package definition, loaded from a single YAML file.
// Packages are value types: two Packages with equal fields are equal
// regardless of where they were loaded from, except Path, which the
// repository attaches and which is not part of the serialized form.
type Package struct {
	Name         string                      `yaml:"name"`
	Version      string                      `yaml:"version"`
	Homepage     string                      `yaml:"homepage,omitempty"`
	Description  string                      `yaml:"description,omitempty"`
	Environments map[string]EnvironmentConfig `yaml:"environments"`

	// Path is the absolute file this package was loaded from. Set by the
	// repository after parsing; never serialized.
	Path string `yaml:"-"`
}

// EnvironmentConfig describes how to check for and install a package in
// one named environment.
type EnvironmentConfig struct {
	Install      string   `yaml:"install"`
	Check        string   `yaml:"check,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// ValidName reports whether name is non-empty and contains only
// characters allowed in a package name ([A-Za-z0-9_-]+).
func ValidName(name string) bool {
	return name != "" && namePattern.MatchString(name)
}

// LooksLikeSemver reports whether version starts with a dotted triple of
// integers, e.g. "1.2.3" or "1.2.3-rc1". Used only to decide whether to
// emit a warning; it is not a validity requirement.
func LooksLikeSemver(version string) bool {
	return versionPattern.MatchString(version)
}

// Environment returns the EnvironmentConfig active for env, and whether
// it exists.
func (p Package) Environment(env string) (EnvironmentConfig, bool) {
	cfg, ok := p.Environments[env]
	return cfg, ok
}

// DependencyNames returns the deduplicated dependency names declared for
// the given environment, preserving first-occurrence order.
func (e EnvironmentConfig) DependencyNames() []string {
	if len(e.Dependencies) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(e.Dependencies))
	out := make([]string, 0, len(e.Dependencies))
	for _, dep := range e.Dependencies {
		if dep == "" || seen[dep] {
			continue
		}
		seen[dep] = true
		out = append(out, dep)
	}
	return out
}

// StructuralIssue is a single structural problem found while validating a
// Package on its own terms (name/version/environments non-empty and
// well-formed), independent of any active environment. It is used by
// both the repository (to decide whether a package is loadable at all)
// and the validator (which reports a richer superset, see validator.Issue).
type StructuralIssue struct {
	Field   string
	Message string
}

// Validate performs the minimal structural self-check a Package must
// pass to be usable at all: non-empty name made of allowed characters,
// non-empty version, at least one environment, and every environment's
// install command non-empty. It does not check URLs, command syntax, or
// environment-appropriateness — those are the validator's job.
func (p Package) Validate() []StructuralIssue {
	var issues []StructuralIssue

	if p.Name == "" {
		issues = append(issues, StructuralIssue{Field: "name", Message: "name is required"})
	} else if !ValidName(p.Name) {
		issues = append(issues, StructuralIssue{Field: "name", Message: "name must match [A-Za-z0-9_-]+"})
	}

	if p.Version == "" {
		issues = append(issues, StructuralIssue{Field: "version", Message: "version is required"})
	}

	if len(p.Environments) == 0 {
		issues = append(issues, StructuralIssue{Field: "environments", Message: "at least one environment is required"})
	}

	for name, env := range p.Environments {
		if env.Install == "" {
			issues = append(issues, StructuralIssue{
				Field:   "environments." + name + ".install",
				Message: "install command is required",
			})
		}
		for _, dep := range env.Dependencies {
			if dep == "" {
				issues = append(issues, StructuralIssue{
					Field:   "environments." + name + ".dependencies",
					Message: "dependency name must not be empty",
				})
			}
		}
	}

	return issues
}
