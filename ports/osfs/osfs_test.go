package osfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileAndPathExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "git.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: git\n"), 0o644))

	fs := New()
	assert.True(t, fs.PathExists(path))
	assert.False(t, fs.PathExists(filepath.Join(dir, "missing.yaml")))

	contents, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: git\n", contents)
}

func TestListDirectorySkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("b"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	fs := New()
	entries, err := fs.ListDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExpandPathTilde(t *testing.T) {
	fs := New()
	home, err := fs.ConfigDir()
	require.NoError(t, err)

	expanded, err := fs.ExpandPath("~/selfie")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "selfie"), expanded)
}

func TestExpandPathAbsolute(t *testing.T) {
	fs := New()
	expanded, err := fs.ExpandPath("/tmp/./selfie")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/selfie", expanded)
}
