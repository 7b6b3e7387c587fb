package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfiecli/selfie/domain"
)

type fakeLookup map[string]domain.Package

func (f fakeLookup) GetPackage(name string) (domain.Package, error) {
	pkg, ok := f[name]
	if !ok {
		return domain.Package{}, &domain.PackageNotFoundError{Name: name}
	}
	return pkg, nil
}

func env(install string, deps ...string) domain.EnvironmentConfig {
	return domain.EnvironmentConfig{Install: install, Dependencies: deps}
}

func withEnv(name string, envName string, cfg domain.EnvironmentConfig) domain.Package {
	return domain.Package{
		Name:         name,
		Version:      "1.0.0",
		Environments: map[string]domain.EnvironmentConfig{envName: cfg},
	}
}

func TestResolveDependenciesLinearChain(t *testing.T) {
	repo := fakeLookup{
		"a": withEnv("a", "macos", env("install a", "b")),
		"b": withEnv("b", "macos", env("install b", "c")),
		"c": withEnv("c", "macos", env("install c")),
	}

	r := New(repo, "macos")
	list, err := r.ResolveDependencies("a")
	require.NoError(t, err)

	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"c", "b", "a"}, names)
}

func TestResolveDependenciesCompleteness(t *testing.T) {
	// I3: result's last element is root, and contains exactly the
	// transitively reachable set.
	repo := fakeLookup{
		"a": withEnv("a", "macos", env("install a", "b", "c")),
		"b": withEnv("b", "macos", env("install b", "d")),
		"c": withEnv("c", "macos", env("install c", "d")),
		"d": withEnv("d", "macos", env("install d")),
	}

	r := New(repo, "macos")
	list, err := r.ResolveDependencies("a")
	require.NoError(t, err)
	require.Equal(t, "a", list[len(list)-1].Name)

	seen := map[string]bool{}
	for _, p := range list {
		seen[p.Name] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true, "d": true}, seen)
}

func TestResolveDependenciesCycle(t *testing.T) {
	repo := fakeLookup{
		"a": withEnv("a", "macos", env("install a", "b")),
		"b": withEnv("b", "macos", env("install b", "a")),
	}

	r := New(repo, "macos")
	_, err := r.ResolveDependencies("a")
	require.Error(t, err)
	var cyclic *domain.CircularDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Contains(t, cyclic.Path, "a")
	assert.Contains(t, cyclic.Path, "b")
}

func TestResolveDependenciesMissingEnvironmentOnDependency(t *testing.T) {
	repo := fakeLookup{
		"a": withEnv("a", "macos", env("install a", "x")),
		"x": withEnv("x", "ubuntu", env("install x")),
	}

	r := New(repo, "macos")
	_, err := r.ResolveDependencies("a")
	require.Error(t, err)
	var unsupported *domain.EnvironmentNotSupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "x", unsupported.Package)
	assert.Equal(t, "macos", unsupported.Environment)
}

func TestResolveDependenciesPackageNotFound(t *testing.T) {
	repo := fakeLookup{}
	r := New(repo, "macos")
	_, err := r.ResolveDependencies("missing")
	require.Error(t, err)
	var notFound *domain.PackageNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
