package backup

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/rs/zerolog"
)

// idLayout formats backup ids: sortable, microsecond resolution, UTC.
const idLayout = "20060102-150405.000000"

// stagingSuffix marks a snapshot directory still being written.
const stagingSuffix = ".tmp"

// Clock supplies backup timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Store.
type Options struct {
	FileSystem types.FS
	// Dir is the cache directory holding the index and snapshots.
	Dir string
	// Root is the directory backed-up paths are recorded relative to.
	Root string
	// Protected lists directories, besides Root, that Dir must not be or
	// contain, such as the workspace root.
	Protected []string
	// Clock defaults to the system clock.
	Clock Clock
}

// Store creates, lists and restores backups.
type Store struct {
	fs        types.FS
	dir       string
	root      string
	protected []string
	clock     Clock
	logger    zerolog.Logger
}

// NewStore returns a store over opts.Dir. Nothing is created on disk until
// the first backup.
func NewStore(opts Options) *Store {
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &Store{
		fs:        opts.FileSystem,
		dir:       opts.Dir,
		root:      opts.Root,
		protected: opts.Protected,
		clock:     clock,
		logger:    logging.GetLogger("backup"),
	}
}

// CheckDir rejects a cache directory that is, or contains, the working
// directory or a protected one: sweeping it would reach project files.
func (s *Store) CheckDir() error {
	dir := filepath.Clean(s.dir)
	for _, p := range append([]string{s.root}, s.protected...) {
		if p == "" {
			continue
		}
		rel, err := filepath.Rel(dir, filepath.Clean(p))
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return errors.Newf(errors.ErrConfiguration, "backup directory %s would contain %s, use a dedicated directory", s.dir, p).
				WithDetail("path", s.dir)
		}
	}
	return nil
}

// isBackupName reports whether name is a snapshot directory this store
// could have created: an id, optionally suffixed -N, optionally staged.
func isBackupName(name string) bool {
	name = strings.TrimSuffix(name, stagingSuffix)
	if len(name) > len(idLayout) {
		suffix := name[len(idLayout):]
		n, err := strconv.Atoi(strings.TrimPrefix(suffix, "-"))
		if !strings.HasPrefix(suffix, "-") || err != nil || n < 2 {
			return false
		}
		name = name[:len(idLayout)]
	}
	_, err := time.Parse(idLayout, name)
	return err == nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create snapshots files and records them under a new id. Every file is
// read before anything is written: if one cannot be read, nothing is
// persisted and the error is ErrBackupCreate naming it.
func (s *Store) Create(files []string, description string) (string, error) {
	defer logging.LogOperationStart(s.logger, "backup.create")()

	if err := s.CheckDir(); err != nil {
		return "", err
	}

	type pending struct {
		file types.BackupFile
		data []byte
	}

	items := make([]pending, 0, len(files))
	for _, file := range files {
		abs := file
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.root, filepath.FromSlash(file))
		}
		data, err := s.fs.ReadFile(abs)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackupCreate, "cannot back up %s", file).
				WithDetail("path", abs)
		}
		sum := Checksum(data)
		items = append(items, pending{
			file: types.BackupFile{
				RelativePath: paths.RelTo(s.root, abs),
				Checksum:     sum,
				Size:         int64(len(data)),
			},
			data: data,
		})
	}

	manifests, err := s.readIndex()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrBackupCreate, "cannot back up files")
	}

	now := s.clock.Now().UTC()
	id := s.nextID(now, manifests)

	staging := filepath.Join(s.dir, id+stagingSuffix)
	final := filepath.Join(s.dir, id)
	if err := s.fs.MkdirAll(staging, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrBackupCreate, "failed to create snapshot directory").
			WithDetail("path", staging)
	}

	manifest := types.BackupManifest{
		ID:          id,
		Timestamp:   now,
		Description: description,
		Files:       make([]types.BackupFile, 0, len(items)),
	}

	written := make(map[string]bool)
	for _, item := range items {
		name := item.file.Checksum + snapshotExt
		item.file.SnapshotPath = path.Join(id, name)
		manifest.Files = append(manifest.Files, item.file)

		if written[name] {
			continue
		}
		compressed, err := compress(item.data)
		if err == nil {
			err = s.fs.WriteFile(filepath.Join(staging, name), compressed, 0644)
		}
		if err != nil {
			_ = s.fs.RemoveAll(staging)
			return "", errors.Wrapf(err, errors.ErrBackupCreate, "failed to snapshot %s", item.file.RelativePath).
				WithDetail("path", item.file.RelativePath)
		}
		written[name] = true
	}

	if err := s.fs.Rename(staging, final); err != nil {
		_ = s.fs.RemoveAll(staging)
		return "", errors.Wrap(err, errors.ErrBackupCreate, "failed to commit snapshot directory").
			WithDetail("path", final)
	}

	if err := s.writeIndex(append(manifests, manifest)); err != nil {
		_ = s.fs.RemoveAll(final)
		return "", errors.Wrap(err, errors.ErrBackupCreate, "failed to record backup")
	}

	s.logger.Info().
		Str("id", id).
		Int("files", len(manifest.Files)).
		Str("description", description).
		Msg("Backup created")
	return id, nil
}

// nextID derives a fresh id from now, suffixing -2, -3... when the id is
// already taken by the index or by a directory on disk.
func (s *Store) nextID(now time.Time, manifests []types.BackupManifest) string {
	taken := make(map[string]bool, len(manifests))
	for _, m := range manifests {
		taken[m.ID] = true
	}
	exists := func(id string) bool {
		if taken[id] {
			return true
		}
		if _, err := s.fs.Stat(filepath.Join(s.dir, id)); err == nil {
			return true
		}
		_, err := s.fs.Stat(filepath.Join(s.dir, id+stagingSuffix))
		return err == nil
	}

	base := now.Format(idLayout)
	id := base
	for n := 2; exists(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

// List returns every backup, newest first.
func (s *Store) List() ([]types.BackupManifest, error) {
	manifests, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	newestFirst(manifests)
	return manifests, nil
}

// Latest returns the newest backup, or nil when there is none.
func (s *Store) Latest() (*types.BackupManifest, error) {
	manifests, err := s.List()
	if err != nil || len(manifests) == 0 {
		return nil, err
	}
	return &manifests[0], nil
}

// Get returns the backup with id, or nil when there is none.
func (s *Store) Get(id string) (*types.BackupManifest, error) {
	manifests, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	for i := range manifests {
		if manifests[i].ID == id {
			return &manifests[i], nil
		}
	}
	return nil, nil
}

// Delete removes a backup's index entry and snapshots. It reports false
// when id is unknown.
func (s *Store) Delete(id string) (bool, error) {
	if err := s.CheckDir(); err != nil {
		return false, err
	}
	manifests, err := s.readIndex()
	if err != nil {
		return false, err
	}

	kept := manifests[:0]
	found := false
	for _, m := range manifests {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return false, nil
	}

	// The index goes first: a leftover directory is an orphan Clear sweeps,
	// a leftover entry would point at missing content.
	if err := s.writeIndex(kept); err != nil {
		return false, err
	}
	if err := s.removeSnapshots(id); err != nil {
		return true, err
	}

	s.logger.Info().Str("id", id).Msg("Backup deleted")
	return true, nil
}

// Clear removes every backup and any orphaned snapshot directory, returning
// the number of indexed backups removed. Entries not named like a backup are
// left alone.
func (s *Store) Clear() (int, error) {
	if err := s.CheckDir(); err != nil {
		return 0, err
	}
	manifests, err := s.readIndex()
	if err != nil {
		return 0, err
	}

	if len(manifests) > 0 {
		if err := s.writeIndex(nil); err != nil {
			return 0, err
		}
	}

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		// no cache directory means nothing to sweep
		return len(manifests), nil
	}
	for _, entry := range entries {
		if !entry.IsDir() || !isBackupName(entry.Name()) {
			continue
		}
		if err := s.removeSnapshots(entry.Name()); err != nil {
			return len(manifests), err
		}
	}

	s.logger.Info().Int("count", len(manifests)).Msg("Backups cleared")
	return len(manifests), nil
}

// Prune deletes the oldest backups so that at most keep remain. A keep of
// zero or less keeps everything. It returns the deleted ids.
func (s *Store) Prune(keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	manifests, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(manifests) <= keep {
		return nil, nil
	}

	var deleted []string
	for _, m := range manifests[keep:] {
		if _, err := s.Delete(m.ID); err != nil {
			return deleted, err
		}
		deleted = append(deleted, m.ID)
	}
	s.logger.Debug().Strs("ids", deleted).Int("keep", keep).Msg("Pruned backups")
	return deleted, nil
}

func (s *Store) removeSnapshots(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return errors.Newf(errors.ErrInvalidInput, "invalid backup id %q", id)
	}
	dir := filepath.Join(s.dir, id)
	if err := s.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove snapshots of %s", id).
			WithDetail("path", dir).
			WithDetail("id", id)
	}
	return nil
}
