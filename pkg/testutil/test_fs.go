package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/spf13/afero"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// WriteFile writes content to path, creating parent directories.
// It fails the test if the file cannot be written.
func WriteFile(t *testing.T, fs types.FS, path, content string) string {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// ReadFile reads the content of a file and returns it as a string.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, fs types.FS, path string) string {
	t.Helper()

	content, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, fs types.FS, path string) bool {
	t.Helper()

	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(t *testing.T, fs types.FS, path string) bool {
	t.Helper()

	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
