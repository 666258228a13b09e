// cmd/pcc/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), scripted prompter
// PURPOSE: Test the pcc commands end to end through cobra

package pcc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/pcc/pkg/commands/manage"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/testutil"
	"github.com/arthur-debert/pcc/pkg/ui"
	"github.com/arthur-debert/pcc/pkg/ui/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workspaceYAML = `packages:
  - packages/*

catalog:
  eslint: ^9.39.2
  vue: ^3.4.0
`

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv(paths.EnvStateDir, t.TempDir())
	t.Setenv("NO_COLOR", "1")
}

func newWorkspace(t *testing.T, yaml string) *testutil.WorkspaceBuilder {
	t.Helper()
	isolate(t)
	return testutil.NewWorkspace(t, filesystem.NewOS(), t.TempDir()).
		WithWorkspaceYAML(yaml).
		WithPackage(".", testutil.Package{
			Name:            "monorepo",
			DevDependencies: map[string]string{"eslint": "catalog:"},
		}).
		WithPackage("packages/web", testutil.Package{
			Name:         "web",
			Dependencies: map[string]string{"vue": "catalog:"},
		})
}

func execute(t *testing.T, p prompt.Prompter, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmdWithEnv(Env{In: strings.NewReader(""), Out: &out, Prompter: p})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func assignAll(category string, deps ...string) *testutil.ScriptedPrompter {
	return testutil.NewScriptedPrompter(
		testutil.Pick(deps...),
		testutil.Choose(category),
		testutil.Confirm(true),
		testutil.Confirm(true),
	)
}

func read(t *testing.T, ws *testutil.WorkspaceBuilder, rel string) string {
	t.Helper()
	return testutil.ReadFile(t, filesystem.NewOS(), ws.Path(rel))
}

func TestManageCommand(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML)
	p := assignAll("dev", "eslint", "vue")

	out, err := execute(t, p, "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Equal(t, 0, p.Remaining())

	assert.Contains(t, out, "Pnpm workspace catalog category manage")
	assert.Contains(t, out, MsgBackedUp)
	assert.Contains(t, out, MsgDone+" Back ID: ")
	assert.Contains(t, out, "[update: packages/web/package.json]")
	assert.Contains(t, out, "catalog:dev")

	assert.Contains(t, read(t, ws, "pnpm-workspace.yaml"), "catalogs:")
	assert.Contains(t, read(t, ws, "packages/web/package.json"), `"vue": "catalog:dev"`)
}

func TestManageCommandDryRun(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML)

	out, err := execute(t, assignAll("dev", "eslint", "vue"), "--cwd", ws.Root(), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, MsgDryRunNotice)
	assert.NotContains(t, out, MsgBackedUp)
	assert.Equal(t, workspaceYAML, read(t, ws, "pnpm-workspace.yaml"))
}

func TestManageCommandNoBackupFromProjectConfig(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML).
		WithFile(paths.ProjectConfigFile, "[backup]\nenabled = false\n")

	out, err := execute(t, assignAll("lint", "eslint", "vue"), "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Contains(t, out, MsgDone)
	assert.NotContains(t, out, "Back ID")
	assert.False(t, testutil.DirExists(t, filesystem.NewOS(), ws.Path(paths.DefaultBackupDir)))
}

func TestManageCommandEarlyExits(t *testing.T) {
	t.Run("no catalog", func(t *testing.T) {
		ws := newWorkspace(t, "packages:\n  - packages/*\n")
		out, err := execute(t, testutil.NewScriptedPrompter(), "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, "pnpx codemod pnpm/catalog")
	})

	t.Run("empty catalog", func(t *testing.T) {
		ws := newWorkspace(t, "packages:\n  - packages/*\ncatalog: {}\n")
		out, err := execute(t, testutil.NewScriptedPrompter(), "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, MsgEmptyCatalog)
	})

	t.Run("cancelled", func(t *testing.T) {
		ws := newWorkspace(t, workspaceYAML)
		p := testutil.NewScriptedPrompter(testutil.Cancel(testutil.KindMultiSelect))
		out, err := execute(t, p, "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, MsgCancelProcess)
		assert.Equal(t, workspaceYAML, read(t, ws, "pnpm-workspace.yaml"))
	})

	t.Run("declined", func(t *testing.T) {
		ws := newWorkspace(t, workspaceYAML)
		p := testutil.NewScriptedPrompter(
			testutil.Pick("eslint", "vue"),
			testutil.Choose("lint"),
			testutil.Confirm(true),
			testutil.Confirm(false),
		)
		out, err := execute(t, p, "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, MsgDeclined)
		assert.Equal(t, workspaceYAML, read(t, ws, "pnpm-workspace.yaml"))
	})
}

func TestManageCommandOutsideWorkspace(t *testing.T) {
	isolate(t)
	_, err := execute(t, testutil.NewScriptedPrompter(), "--cwd", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
}

func TestManageCommandBackupDirInsideProject(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML).
		WithFile(paths.ProjectConfigFile, "[backup]\ndir = \".\"\n")

	_, err := execute(t, assignAll("dev", "eslint", "vue"), "--cwd", ws.Root())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
	assert.Equal(t, workspaceYAML, read(t, ws, "pnpm-workspace.yaml"))
}

func TestReportWriteFailure(t *testing.T) {
	root := t.TempDir()
	p, err := paths.New(root)
	require.NoError(t, err)

	var out bytes.Buffer
	printer := ui.NewPrinter(&out, ui.FormatText)
	reportWriteFailure(printer, p, &manage.Result{
		BackupID: "20240501-120000.000000",
		Written:  []string{filepath.Join(root, "package.json")},
	})

	assert.Contains(t, out.String(), fmt.Sprintf(MsgWriteInterrupted, 1))
	assert.Contains(t, out.String(), "  package.json")
	assert.Contains(t, out.String(), "pcc undo 20240501-120000.000000")
}

func TestUndoCommand(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML)
	original := read(t, ws, "packages/web/package.json")

	_, err := execute(t, assignAll("dev", "eslint", "vue"), "--cwd", ws.Root())
	require.NoError(t, err)
	require.NotEqual(t, original, read(t, ws, "packages/web/package.json"))

	out, err := execute(t, nil, "undo", "--list", "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 backup(s):")
	assert.Contains(t, out, "categories: dev")

	out, err = execute(t, nil, "undo", "--verify", "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Contains(t, out, "is intact (3 file(s)).")

	out, err = execute(t, nil, "undo", "--yes", "--drop", "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 3 file(s).")
	assert.Contains(t, out, MsgBackupDeleted)
	assert.Equal(t, original, read(t, ws, "packages/web/package.json"))
	assert.Equal(t, workspaceYAML, read(t, ws, "pnpm-workspace.yaml"))

	out, err = execute(t, nil, "undo", "--list", "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoBackups)
}

func TestUndoCommandPrompts(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML)
	_, err := execute(t, assignAll("dev", "eslint", "vue"), "--cwd", ws.Root())
	require.NoError(t, err)
	changed := read(t, ws, "pnpm-workspace.yaml")

	t.Run("restore refused", func(t *testing.T) {
		p := testutil.NewScriptedPrompter(testutil.Confirm(false))
		out, err := execute(t, p, "undo", "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, MsgCancelled)
		assert.Equal(t, changed, read(t, ws, "pnpm-workspace.yaml"))
	})

	t.Run("restore and keep", func(t *testing.T) {
		p := testutil.NewScriptedPrompter(testutil.Confirm(true), testutil.Confirm(false))
		out, err := execute(t, p, "undo", "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, "Restored 3 file(s).")
		assert.NotContains(t, out, MsgBackupDeleted)
		assert.Equal(t, workspaceYAML, read(t, ws, "pnpm-workspace.yaml"))
	})

	t.Run("clear", func(t *testing.T) {
		p := testutil.NewScriptedPrompter(testutil.Confirm(true))
		out, err := execute(t, p, "undo", "--clear", "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 1 backup(s).")
	})
}

func TestUndoCommandErrors(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML)

	t.Run("unknown id is reported", func(t *testing.T) {
		out, err := execute(t, nil, "undo", "--delete", "nope", "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, "Backup not found: nope")
	})

	t.Run("nothing to restore", func(t *testing.T) {
		out, err := execute(t, nil, "undo", "--cwd", ws.Root())
		require.NoError(t, err)
		assert.Contains(t, out, MsgNoBackups)
	})

	t.Run("exclusive flags", func(t *testing.T) {
		_, err := execute(t, nil, "undo", "--list", "--clear", "--cwd", ws.Root())
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestGenConfigCommand(t *testing.T) {
	ws := newWorkspace(t, workspaceYAML)

	out, err := execute(t, nil, "genconfig", "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Contains(t, out, "[backup]")

	out, err = execute(t, nil, "genconfig", "--write", "--cwd", ws.Path("packages/web"))
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")
	assert.True(t, testutil.FileExists(t, filesystem.NewOS(), ws.Path(paths.ProjectConfigFile)))

	out, err = execute(t, nil, "genconfig", "--write", "--cwd", ws.Root())
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pcc version dev")
}

func TestHelpTopics(t *testing.T) {
	isolate(t)

	out, err := execute(t, nil, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "backups")
	assert.Contains(t, out, "--dry-run")

	out, err = execute(t, nil, "help", "catalogs")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog:lint")
}
