// Package repository resolves package names to parsed domain.Package
// values, backed by a directory of YAML files reached through the
// FileSystem port.
package repository

import (
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/ports"
	"github.com/selfiecli/selfie/suggest"
)

var packageExtensions = []string{".yaml", ".yml"}

// Warner receives a warning emitted during a best-effort operation like
// ListPackages. progress.Reporter satisfies this without repository
// needing to import the progress package.
type Warner interface {
	Warn(text string)
}

// Repository is a PackageRepository backed by a directory of package
// files. It is stateless across calls: parsed packages are owned by
// the caller, not cached.
type Repository struct {
	FS        ports.FileSystem
	Directory string
}

// New returns a Repository rooted at directory.
func New(fs ports.FileSystem, directory string) *Repository {
	return &Repository{FS: fs, Directory: directory}
}

// FindPackageFiles returns every candidate file for name (both
// extensions that exist), used by the resolver and validator for
// diagnostics and by GetPackage to detect ambiguity.
func (r *Repository) FindPackageFiles(name string) ([]string, error) {
	if !r.FS.PathExists(r.Directory) {
		return nil, &domain.DirectoryNotFoundError{Path: r.Directory}
	}

	var found []string
	for _, ext := range packageExtensions {
		candidate := filepath.Join(r.Directory, name+ext)
		if r.FS.PathExists(candidate) {
			found = append(found, candidate)
		}
	}
	return found, nil
}

// GetPackage resolves name to exactly one file, parses it, and returns
// the package with Path set.
func (r *Repository) GetPackage(name string) (domain.Package, error) {
	files, err := r.FindPackageFiles(name)
	if err != nil {
		return domain.Package{}, err
	}

	switch len(files) {
	case 0:
		return domain.Package{}, &domain.PackageNotFoundError{Name: name, Suggestions: r.suggestPackages(name)}
	case 1:
		return r.parseFile(files[0])
	default:
		return domain.Package{}, &domain.MultiplePackagesFoundError{Name: name, Paths: files}
	}
}

// ListPackages enumerates the package directory and parses every file
// with a recognized extension. Files that fail to parse are skipped
// and reported to warner (if non-nil) rather than failing the call.
// Order is unspecified; callers that need determinism should sort.
func (r *Repository) ListPackages(warner Warner) ([]domain.Package, error) {
	if !r.FS.PathExists(r.Directory) {
		return nil, &domain.DirectoryNotFoundError{Path: r.Directory}
	}

	entries, err := r.FS.ListDirectory(r.Directory)
	if err != nil {
		return nil, &domain.IoErrorKind{Underlying: err, Ctx: domain.ErrorContext{Path: r.Directory}}
	}
	sort.Strings(entries)

	var packages []domain.Package
	for _, path := range entries {
		if !hasPackageExtension(path) {
			continue
		}
		pkg, err := r.parseFile(path)
		if err != nil {
			if warner != nil {
				warner.Warn("skipping " + path + ": " + err.Error())
			}
			continue
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

// suggestPackages lists known package names and proposes near matches
// for name via suggest.Nearest. Best-effort: a failure to list is not
// surfaced, since the caller is already returning a PackageNotFoundError.
func (r *Repository) suggestPackages(name string) []string {
	packages, err := r.ListPackages(nil)
	if err != nil {
		return nil
	}
	names := make([]string, len(packages))
	for i, pkg := range packages {
		names[i] = pkg.Name
	}
	return suggest.Nearest(name, names)
}

func hasPackageExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range packageExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func (r *Repository) parseFile(path string) (domain.Package, error) {
	text, err := r.FS.ReadFile(path)
	if err != nil {
		return domain.Package{}, &domain.IoErrorKind{Underlying: err, Ctx: domain.ErrorContext{Path: path}}
	}

	var pkg domain.Package
	if err := yaml.Unmarshal([]byte(text), &pkg); err != nil {
		return domain.Package{}, &domain.ParseErrorKind{Path: path, Underlying: err}
	}
	pkg.Path = path

	if issues := requiredFieldIssues(pkg); len(issues) > 0 {
		return domain.Package{}, &domain.ParseErrorKind{
			Path:       path,
			Underlying: issuesError(issues),
		}
	}

	return pkg, nil
}

// requiredFieldIssues reports only the subset of domain.Package.Validate
// that blocks parsing outright: name, version, at least one
// environment, and a non-empty install command in every environment.
// Character-set and
// warning-level checks are the validator's job, not the repository's.
func requiredFieldIssues(pkg domain.Package) []domain.StructuralIssue {
	var issues []domain.StructuralIssue
	if pkg.Name == "" {
		issues = append(issues, domain.StructuralIssue{Field: "name", Message: "name is required"})
	}
	if pkg.Version == "" {
		issues = append(issues, domain.StructuralIssue{Field: "version", Message: "version is required"})
	}
	if len(pkg.Environments) == 0 {
		issues = append(issues, domain.StructuralIssue{Field: "environments", Message: "at least one environment is required"})
	}
	for name, env := range pkg.Environments {
		if env.Install == "" {
			issues = append(issues, domain.StructuralIssue{
				Field:   "environments." + name + ".install",
				Message: "install command is required",
			})
		}
	}
	return issues
}

type issuesError []domain.StructuralIssue

func (e issuesError) Error() string {
	msgs := make([]string, len(e))
	for i, issue := range e {
		msgs[i] = issue.Field + ": " + issue.Message
	}
	return strings.Join(msgs, "; ")
}
