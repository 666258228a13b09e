package backup

import (
	"path/filepath"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/types"
)

// Restore writes every file of backup id back to where it was taken from,
// overwriting current content. All snapshots are loaded and verified first:
// a missing or corrupt one fails with ErrRestoreIncomplete before any file
// is touched. The count returned always equals the backup's file count.
func (s *Store) Restore(id string) (int, error) {
	defer logging.LogOperationStart(s.logger, "backup.restore")()

	manifest, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	if manifest == nil {
		return 0, errors.Newf(errors.ErrBackupNotFound, "backup %s not found", id).
			WithDetail("id", id)
	}

	contents, err := s.load(manifest)
	if err != nil {
		return 0, err
	}

	for i, file := range manifest.Files {
		target := s.resolve(file)
		if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return i, errors.Wrapf(err, errors.ErrRestoreIncomplete, "failed to restore %s", file.RelativePath).
				WithDetail("path", target).
				WithDetail("id", id)
		}
		if err := s.fs.WriteFile(target, contents[i], 0644); err != nil {
			return i, errors.Wrapf(err, errors.ErrRestoreIncomplete, "failed to restore %s", file.RelativePath).
				WithDetail("path", target).
				WithDetail("id", id)
		}
		s.logger.Debug().Str("path", file.RelativePath).Msg("Restored file")
	}

	s.logger.Info().Str("id", id).Int("files", len(manifest.Files)).Msg("Backup restored")
	return len(manifest.Files), nil
}

// Verify checks that every snapshot of backup id is present and intact.
func (s *Store) Verify(id string) error {
	manifest, err := s.Get(id)
	if err != nil {
		return err
	}
	if manifest == nil {
		return errors.Newf(errors.ErrBackupNotFound, "backup %s not found", id).
			WithDetail("id", id)
	}
	_, err = s.load(manifest)
	return err
}

// load reads, decompresses and checks every snapshot of manifest, in file
// order.
func (s *Store) load(manifest *types.BackupManifest) ([][]byte, error) {
	contents := make([][]byte, len(manifest.Files))
	for i, file := range manifest.Files {
		snapshot := filepath.Join(s.dir, filepath.FromSlash(file.SnapshotPath))

		incomplete := func(err error, msg string) error {
			if err == nil {
				return errors.Newf(errors.ErrRestoreIncomplete, "%s: %s", msg, file.RelativePath).
					WithDetail("path", snapshot).
					WithDetail("id", manifest.ID)
			}
			return errors.Wrapf(err, errors.ErrRestoreIncomplete, "%s: %s", msg, file.RelativePath).
				WithDetail("path", snapshot).
				WithDetail("id", manifest.ID)
		}

		compressed, err := s.fs.ReadFile(snapshot)
		if err != nil {
			return nil, incomplete(err, "snapshot missing")
		}
		data, err := decompress(compressed)
		if err != nil {
			return nil, incomplete(err, "snapshot unreadable")
		}
		if file.Checksum != "" && Checksum(data) != file.Checksum {
			return nil, incomplete(nil, "snapshot checksum mismatch")
		}
		contents[i] = data
	}
	return contents, nil
}

func (s *Store) resolve(file types.BackupFile) string {
	p := filepath.FromSlash(file.RelativePath)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, p)
}
