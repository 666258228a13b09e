package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/types"
)

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, paths.BackupIndexFile)
}

// readIndex returns the index in stored (creation) order. A missing index is
// an empty one.
func (s *Store) readIndex() ([]types.BackupManifest, error) {
	data, err := s.fs.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrBackupIndex, "failed to read backup index").
			WithDetail("path", s.indexPath())
	}
	if len(data) == 0 {
		return nil, nil
	}

	var manifests []types.BackupManifest
	if err := json.Unmarshal(data, &manifests); err != nil {
		return nil, errors.Wrap(err, errors.ErrBackupIndex, "backup index is corrupt").
			WithDetail("path", s.indexPath())
	}
	return manifests, nil
}

// writeIndex replaces the index atomically.
func (s *Store) writeIndex(manifests []types.BackupManifest) error {
	if manifests == nil {
		manifests = []types.BackupManifest{}
	}
	data, err := json.MarshalIndent(manifests, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrBackupIndex, "failed to encode backup index")
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create backup directory").
			WithDetail("path", s.dir)
	}

	tmp := s.indexPath() + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrBackupIndex, "failed to write backup index").
			WithDetail("path", tmp)
	}
	if err := s.fs.Rename(tmp, s.indexPath()); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrap(err, errors.ErrBackupIndex, "failed to replace backup index").
			WithDetail("path", s.indexPath())
	}
	return nil
}

// newestFirst orders manifests by timestamp, then id, descending.
func newestFirst(manifests []types.BackupManifest) {
	sort.SliceStable(manifests, func(i, j int) bool {
		a, b := manifests[i], manifests[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	})
}
