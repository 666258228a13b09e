// Package undo implements the backup commands: listing, inspecting,
// deleting and restoring the snapshots taken before pcc rewrites files.
package undo

import (
	"path/filepath"

	"github.com/arthur-debert/pcc/pkg/backup"
	"github.com/arthur-debert/pcc/pkg/config"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/arthur-debert/pcc/pkg/workspace"
)

// Options holds options shared by the undo commands
type Options struct {
	// Cwd is the directory the backups were taken in. Empty means the
	// process working directory.
	Cwd string
	// Config defaults to the embedded configuration.
	Config *config.Config
	// FileSystem defaults to the OS.
	FileSystem types.FS
}

// RestoreResult reports a restore.
type RestoreResult struct {
	Backup types.BackupManifest
	// Restored is the number of files written back.
	Restored int
	// Deleted is set when the backup was removed afterwards.
	Deleted bool
}

// Open returns the backup store for opts.
func Open(opts Options) (*backup.Store, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	p, err := paths.New(opts.Cwd)
	if err != nil {
		return nil, err
	}
	var protected []string
	if wsPath, err := workspace.Find(fs, p.Cwd(), cfg.Workspace.File); err == nil {
		protected = append(protected, filepath.Dir(wsPath))
	}
	return backup.NewStore(backup.Options{
		FileSystem: fs,
		Dir:        p.BackupDir(cfg.Backup.Dir),
		Root:       p.Cwd(),
		Protected:  protected,
	}), nil
}

// List returns every backup, newest first.
func List(opts Options) ([]types.BackupManifest, error) {
	store, err := Open(opts)
	if err != nil {
		return nil, err
	}
	return store.List()
}

// Resolve returns backup id, or the latest backup when id is empty. A
// missing backup is ErrBackupNotFound.
func Resolve(opts Options, id string) (*types.BackupManifest, error) {
	store, err := Open(opts)
	if err != nil {
		return nil, err
	}
	return resolve(store, id)
}

func resolve(store *backup.Store, id string) (*types.BackupManifest, error) {
	var (
		m   *types.BackupManifest
		err error
	)
	if id == "" {
		m, err = store.Latest()
	} else {
		m, err = store.Get(id)
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		if id == "" {
			return nil, errors.New(errors.ErrBackupNotFound, "no backups found")
		}
		return nil, errors.Newf(errors.ErrBackupNotFound, "backup %s not found", id).
			WithDetail("id", id)
	}
	return m, nil
}

// Restore writes backup id (the latest when empty) back over the working
// tree, then deletes it when deleteAfter is set.
func Restore(opts Options, id string, deleteAfter bool) (*RestoreResult, error) {
	logger := logging.GetLogger("commands.undo")
	defer logging.LogOperationStart(logger, "undo.restore")()

	store, err := Open(opts)
	if err != nil {
		return nil, err
	}
	m, err := resolve(store, id)
	if err != nil {
		return nil, err
	}

	n, err := store.Restore(m.ID)
	if err != nil {
		return nil, err
	}
	result := &RestoreResult{Backup: *m, Restored: n}

	if deleteAfter {
		if _, err := store.Delete(m.ID); err != nil {
			return result, err
		}
		result.Deleted = true
	}
	return result, nil
}

// Verify checks that every snapshot of backup id (the latest when empty) is
// present and matches its checksum, without writing anything.
func Verify(opts Options, id string) (*types.BackupManifest, error) {
	store, err := Open(opts)
	if err != nil {
		return nil, err
	}
	m, err := resolve(store, id)
	if err != nil {
		return nil, err
	}
	if err := store.Verify(m.ID); err != nil {
		return m, err
	}
	return m, nil
}

// Delete removes backup id. An unknown id is ErrBackupNotFound.
func Delete(opts Options, id string) error {
	store, err := Open(opts)
	if err != nil {
		return err
	}
	ok, err := store.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Newf(errors.ErrBackupNotFound, "backup %s not found", id).
			WithDetail("id", id)
	}
	return nil
}

// Clear removes every backup and returns how many there were.
func Clear(opts Options) (int, error) {
	store, err := Open(opts)
	if err != nil {
		return 0, err
	}
	return store.Clear()
}
