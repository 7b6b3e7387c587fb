// Package osfs is the OS-backed FileSystem port implementation.
package osfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// FileSystem implements ports.FileSystem against the real filesystem.
type FileSystem struct{}

// New returns an OS-backed FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

func (FileSystem) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (FileSystem) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (FileSystem) ListDirectory(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		out = append(out, filepath.Join(path, entry.Name()))
	}
	return out, nil
}

// ExpandPath resolves a leading "~" to the user's home directory (via
// go-homedir) and returns an absolute, cleaned path.
func (FileSystem) ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand path %q: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return abs, nil
}

// ConfigDir returns the user's home directory, mirroring where
// .selfie.yaml is discovered by the config loader.
func (FileSystem) ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home, nil
}
