package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/types"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for pcc
	EnvConfigDir = "PCC_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for pcc
	EnvStateDir = "PCC_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Well-known file and directory names. These are part of the on-disk
// contract and are not user-configurable; the backup directory is, through
// pkg/config.
const (
	// DirName is the directory name for pcc-specific files
	DirName = "pcc"

	// WorkspaceFile is the pnpm workspace manifest
	WorkspaceFile = "pnpm-workspace.yaml"

	// PackageFile is the package manifest
	PackageFile = "package.json"

	// ConfigFile is the user configuration file inside ConfigDir
	ConfigFile = "config.toml"

	// ProjectConfigFile is the per-workspace configuration file
	ProjectConfigFile = ".pcc.toml"

	// DefaultBackupDir is the backup cache, relative to the working directory
	DefaultBackupDir = "node_modules/.pcc-cache"

	// BackupIndexFile is the backup index inside the cache directory
	BackupIndexFile = "manifest.json"

	// LogFileName is the name of the log file
	LogFileName = "pcc.log"
)

// Paths resolves every location pcc reads or writes.
type Paths struct {
	cwd       string
	configDir string
	stateDir  string
}

// New creates a Paths rooted at cwd. An empty cwd means the process working
// directory. The result is always absolute.
func New(cwd string) (*Paths, error) {
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
		}
		cwd = wd
	}

	abs, err := filepath.Abs(ExpandHome(cwd))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", cwd).
			WithDetail("path", cwd)
	}

	p := &Paths{cwd: abs}
	p.setupXDGDirs()
	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *Paths) setupXDGDirs() {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = ExpandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, DirName)
	}

	// xdg.StateHome honours XDG_STATE_HOME and falls back to ~/.local/state
	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = ExpandHome(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, DirName)
	}
}

// Cwd returns the directory pcc operates on.
func (p *Paths) Cwd() string {
	return p.cwd
}

// ConfigDir returns the XDG config directory for pcc
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFilePath returns the user configuration file
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFile)
}

// StateDir returns the XDG state directory for pcc
func (p *Paths) StateDir() string {
	return p.stateDir
}

// LogFilePath returns the log file location
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// ProjectConfigPath returns the per-workspace configuration file next to
// the given workspace file.
func (p *Paths) ProjectConfigPath(workspaceFile string) string {
	return filepath.Join(filepath.Dir(workspaceFile), ProjectConfigFile)
}

// BackupDir resolves the backup cache directory. A relative dir is taken
// relative to the working directory; empty means DefaultBackupDir.
func (p *Paths) BackupDir(dir string) string {
	if dir == "" {
		dir = DefaultBackupDir
	}
	dir = ExpandHome(dir)
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(p.cwd, filepath.FromSlash(dir))
}

// Abs resolves rel against the working directory.
func (p *Paths) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.cwd, filepath.FromSlash(rel))
}

// Rel returns path relative to the working directory, slash separated.
// Paths outside the working directory come back unchanged.
func (p *Paths) Rel(path string) string {
	return RelTo(p.cwd, path)
}

// RelTo returns path relative to base, slash separated, or path itself when
// it is not inside base.
func RelTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// FindUp searches for name in start and each of its parents, returning the
// first match. It fails with ErrNotFound when the filesystem root is reached.
func FindUp(fs types.FS, start, name string) (string, error) {
	dir := filepath.Clean(start)
	for {
		candidate := filepath.Join(dir, name)
		if info, err := fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf(errors.ErrNotFound, "%s not found in %s or any parent directory", name, start).
				WithDetail("path", start)
		}
		dir = parent
	}
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
