package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pcc/pkg/types"
)

// WorkspaceBuilder lays out a pnpm monorepo on a filesystem.
type WorkspaceBuilder struct {
	t    *testing.T
	fs   types.FS
	root string
}

// NewWorkspace returns a builder rooted at root.
func NewWorkspace(t *testing.T, fs types.FS, root string) *WorkspaceBuilder {
	t.Helper()
	if err := fs.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create workspace root %s: %v", root, err)
	}
	return &WorkspaceBuilder{t: t, fs: fs, root: root}
}

// Root returns the workspace root directory.
func (b *WorkspaceBuilder) Root() string {
	return b.root
}

// Path joins rel onto the workspace root.
func (b *WorkspaceBuilder) Path(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

// WithFile writes a raw file relative to the root.
func (b *WorkspaceBuilder) WithFile(rel, content string) *WorkspaceBuilder {
	b.t.Helper()
	WriteFile(b.t, b.fs, b.Path(rel), content)
	return b
}

// WithWorkspaceYAML writes pnpm-workspace.yaml.
func (b *WorkspaceBuilder) WithWorkspaceYAML(content string) *WorkspaceBuilder {
	b.t.Helper()
	return b.WithFile("pnpm-workspace.yaml", content)
}

// Package describes a package.json for WithPackage.
type Package struct {
	Name                 string            `json:"name,omitempty"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
	DevDependencies      map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
}

// WithPackage writes <dir>/package.json from pkg, indented with two spaces.
// Keys inside each block come out sorted.
func (b *WorkspaceBuilder) WithPackage(dir string, pkg Package) *WorkspaceBuilder {
	b.t.Helper()
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		b.t.Fatalf("Failed to encode package %s: %v", dir, err)
	}
	return b.WithFile(filepath.ToSlash(filepath.Join(dir, "package.json")), string(data)+"\n")
}
