package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/ports/fakes"
)

const validGit = `
name: git
version: 2.40.0
environments:
  macos:
    install: brew install git
`

func TestGetPackageFound(t *testing.T) {
	fs := fakes.NewMemFS().WithFile("/pkgs/git.yaml", validGit)
	repo := New(fs, "/pkgs")

	pkg, err := repo.GetPackage("git")
	require.NoError(t, err)
	assert.Equal(t, "git", pkg.Name)
	assert.Equal(t, "/pkgs/git.yaml", pkg.Path)
}

func TestGetPackageNotFound(t *testing.T) {
	fs := fakes.NewMemFS().WithFile("/pkgs/git.yaml", validGit)
	repo := New(fs, "/pkgs")

	_, err := repo.GetPackage("missing")
	require.Error(t, err)
	var notFound *domain.PackageNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGetPackageAmbiguous(t *testing.T) {
	fs := fakes.NewMemFS().
		WithFile("/pkgs/git.yaml", validGit).
		WithFile("/pkgs/git.yml", validGit)
	repo := New(fs, "/pkgs")

	_, err := repo.GetPackage("git")
	require.Error(t, err)
	var multi *domain.MultiplePackagesFoundError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Paths, 2)
}

func TestGetPackageDirectoryNotFound(t *testing.T) {
	fs := fakes.NewMemFS()
	repo := New(fs, "/pkgs")

	_, err := repo.GetPackage("git")
	require.Error(t, err)
	var dirNotFound *domain.DirectoryNotFoundError
	assert.ErrorAs(t, err, &dirNotFound)
}

func TestListPackagesSkipsParseFailuresAndWarns(t *testing.T) {
	fs := fakes.NewMemFS().
		WithFile("/pkgs/git.yaml", validGit).
		WithFile("/pkgs/broken.yaml", "name: broken\n").
		WithFile("/pkgs/notes.txt", "ignore me")
	repo := New(fs, "/pkgs")

	warner := &recordingWarner{}
	packages, err := repo.ListPackages(warner)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, "git", packages[0].Name)
	require.Len(t, warner.warnings, 1)
	assert.Contains(t, warner.warnings[0], "broken.yaml")
}

func TestListPackagesNilWarnerIsSafe(t *testing.T) {
	fs := fakes.NewMemFS().WithFile("/pkgs/broken.yaml", "name: broken\n")
	repo := New(fs, "/pkgs")

	packages, err := repo.ListPackages(nil)
	require.NoError(t, err)
	assert.Empty(t, packages)
}

func TestFindPackageFilesBothExtensions(t *testing.T) {
	fs := fakes.NewMemFS().WithFile("/pkgs/git.yml", validGit)
	repo := New(fs, "/pkgs")

	files, err := repo.FindPackageFiles("git")
	require.NoError(t, err)
	assert.Equal(t, []string{"/pkgs/git.yml"}, files)
}

type recordingWarner struct {
	warnings []string
}

func (w *recordingWarner) Warn(text string) {
	w.warnings = append(w.warnings, text)
}
