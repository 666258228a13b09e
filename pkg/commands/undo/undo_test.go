// pkg/commands/undo/undo_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir)
// PURPOSE: Test the backup listing, restore and deletion commands

package undo_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/pcc/pkg/backup"
	"github.com/arthur-debert/pcc/pkg/commands/undo"
	"github.com/arthur-debert/pcc/pkg/config"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/testutil"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root string
	fs   types.FS
	ids  []string
}

// newFixture takes two backups of package.json: "v1" then "v2", and leaves
// "v3" on disk.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	fs := filesystem.NewOS()
	store := backup.NewStore(backup.Options{
		FileSystem: fs,
		Dir:        filepath.Join(root, filepath.FromSlash(paths.DefaultBackupDir)),
		Root:       root,
		Clock:      &testutil.StepClock{Start: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Step: time.Minute},
	})

	f := &fixture{root: root, fs: fs}
	for _, content := range []string{"v1", "v2"} {
		testutil.WriteFile(t, fs, filepath.Join(root, "package.json"), content)
		id, err := store.Create([]string{"package.json"}, "categories: "+content)
		require.NoError(t, err)
		f.ids = append(f.ids, id)
	}
	testutil.WriteFile(t, fs, filepath.Join(root, "package.json"), "v3")
	return f
}

func (f *fixture) opts() undo.Options {
	return undo.Options{Cwd: f.root, FileSystem: f.fs}
}

func (f *fixture) content(t *testing.T) string {
	return testutil.ReadFile(t, f.fs, filepath.Join(f.root, "package.json"))
}

func TestList(t *testing.T) {
	f := newFixture(t)

	list, err := undo.List(f.opts())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, f.ids[1], list[0].ID)
	assert.Equal(t, "categories: v2", list[0].Description)
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	latest, err := undo.Resolve(f.opts(), "")
	require.NoError(t, err)
	assert.Equal(t, f.ids[1], latest.ID)

	first, err := undo.Resolve(f.opts(), f.ids[0])
	require.NoError(t, err)
	assert.Equal(t, f.ids[0], first.ID)

	_, err = undo.Resolve(f.opts(), "nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupNotFound))
	assert.Equal(t, "nope", errors.Detail(err, "id"))
}

func TestRestoreLatest(t *testing.T) {
	f := newFixture(t)

	result, err := undo.Restore(f.opts(), "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Restored)
	assert.Equal(t, f.ids[1], result.Backup.ID)
	assert.False(t, result.Deleted)
	assert.Equal(t, "v2", f.content(t))
}

func TestRestoreByIDAndDelete(t *testing.T) {
	f := newFixture(t)

	result, err := undo.Restore(f.opts(), f.ids[0], true)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, "v1", f.content(t))

	list, err := undo.List(f.opts())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.ids[1], list[0].ID)
}

func TestRestoreWithoutBackups(t *testing.T) {
	root := t.TempDir()
	_, err := undo.Restore(undo.Options{Cwd: root, FileSystem: filesystem.NewOS()}, "", false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupNotFound))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, undo.Delete(f.opts(), f.ids[0]))
	err := undo.Delete(f.opts(), f.ids[0])
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupNotFound))
}

func TestClear(t *testing.T) {
	f := newFixture(t)

	n, err := undo.Clear(f.opts())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := undo.List(f.opts())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "v3", f.content(t))
}

func TestVerify(t *testing.T) {
	f := newFixture(t)

	m, err := undo.Verify(f.opts(), "")
	require.NoError(t, err)
	assert.Equal(t, f.ids[1], m.ID)

	dir := filepath.Join(f.root, filepath.FromSlash(paths.DefaultBackupDir))
	require.NoError(t, f.fs.RemoveAll(filepath.Join(dir, f.ids[0])))

	_, err = undo.Verify(f.opts(), f.ids[0])
	assert.True(t, errors.IsErrorCode(err, errors.ErrRestoreIncomplete))
	assert.Equal(t, "v3", f.content(t))

	_, err = undo.Verify(f.opts(), "nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupNotFound))
}

func TestClearKeepsProjectWhenBackupDirIsRoot(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFile(t, f.fs, filepath.Join(f.root, "packages", "web", "package.json"), "{}")
	cfg := config.Default()
	cfg.Backup.Dir = "."

	opts := f.opts()
	opts.Config = cfg
	_, err := undo.Clear(opts)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
	assert.True(t, testutil.FileExists(t, f.fs, filepath.Join(f.root, "packages", "web", "package.json")))
}
