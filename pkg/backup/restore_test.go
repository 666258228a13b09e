// pkg/backup/restore_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir)
// PURPOSE: Test restoring snapshots and refusing damaged ones

package backup_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreReproducesOriginalBytes(t *testing.T) {
	f := newFixture(t, time.Second)
	original := map[string]string{
		"pnpm-workspace.yaml":      "packages:\n  - packages/*\ncatalog:\n  vue: ^3.4.0\n",
		"packages/ui/package.json": "{\n  \"name\": \"ui\",\n  \"dependencies\": {\n    \"vue\": \"^3.4.0\"\n  }\n}\n",
	}
	files := make([]string, 0, len(original))
	for rel, content := range original {
		f.write(t, rel, content)
		files = append(files, rel)
	}

	id, err := f.store.Create(files, "")
	require.NoError(t, err)

	f.write(t, "pnpm-workspace.yaml", "changed\n")
	require.NoError(t, os.RemoveAll(filepath.Join(f.root, "packages")))

	n, err := f.store.Restore(id)
	require.NoError(t, err)
	assert.Equal(t, len(original), n)
	for rel, content := range original {
		assert.Equal(t, content, f.read(t, rel), rel)
	}

	// restoring does not consume the backup
	m, err := f.store.Get(id)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestRestoreUnknownID(t *testing.T) {
	f := newFixture(t, time.Second)

	n, err := f.store.Restore("20990101-000000.000000")
	require.Error(t, err)
	assert.Zero(t, n)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupNotFound))
	assert.Equal(t, "20990101-000000.000000", errors.Detail(err, "id"))
}

func TestRestoreMissingSnapshotWritesNothing(t *testing.T) {
	f := newFixture(t, time.Second)
	f.write(t, "a.json", "a")
	f.write(t, "b.json", "b")

	id, err := f.store.Create([]string{"a.json", "b.json"}, "")
	require.NoError(t, err)
	m, err := f.store.Get(id)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.dir, filepath.FromSlash(m.Files[1].SnapshotPath))))

	f.write(t, "a.json", "changed")

	_, err = f.store.Restore(id)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRestoreIncomplete))
	assert.Equal(t, "changed", f.read(t, "a.json"))
	assert.Error(t, f.store.Verify(id))
}

func TestRestoreCorruptSnapshot(t *testing.T) {
	f := newFixture(t, time.Second)
	f.write(t, "a.json", "a")

	id, err := f.store.Create([]string{"a.json"}, "")
	require.NoError(t, err)
	require.NoError(t, f.store.Verify(id))

	m, err := f.store.Get(id)
	require.NoError(t, err)
	snapshot := filepath.Join(f.dir, filepath.FromSlash(m.Files[0].SnapshotPath))
	require.NoError(t, os.WriteFile(snapshot, []byte("garbage"), 0644))

	_, err = f.store.Restore(id)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRestoreIncomplete))
	assert.Equal(t, "a", f.read(t, "a.json"))
}
