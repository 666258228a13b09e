// Package manage implements the catalog classification command: find the
// workspace, scan its packages, let the user split the flat catalog into
// named catalogs, then back up and rewrite the affected files.
package manage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pcc/pkg/backup"
	"github.com/arthur-debert/pcc/pkg/catalog"
	"github.com/arthur-debert/pcc/pkg/classify"
	"github.com/arthur-debert/pcc/pkg/config"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/scanner"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/arthur-debert/pcc/pkg/ui/prompt"
	"github.com/arthur-debert/pcc/pkg/workspace"
)

// DescriptionPrefix starts the description of every backup taken by Run.
const DescriptionPrefix = "categories: "

// Options holds options for the manage command
type Options struct {
	// Cwd is the directory scanned for packages. Empty means the process
	// working directory.
	Cwd string
	// Config defaults to the embedded configuration.
	Config *config.Config
	// Prompter asks the classification questions.
	Prompter prompt.Prompter
	// FileSystem defaults to the OS, or to an in-memory overlay of it when
	// DryRun is set.
	FileSystem types.FS
	// DryRun runs every step but keeps writes off disk and takes no backup.
	DryRun bool
	// Clock stamps backups. Defaults to the system clock.
	Clock backup.Clock
}

// Result describes what Run did. At most one of the early-exit flags is
// set; when none is, Written lists the files rewritten.
type Result struct {
	WorkspacePath string
	DryRun        bool

	// NoCatalog: the workspace has no catalog key at all.
	NoCatalog bool
	// EmptyCatalog: the catalog key holds no entries.
	EmptyCatalog bool
	// Cancelled: a prompt was aborted. Nothing was written.
	Cancelled bool
	// Outcome is the classification result when the flow got past it. A
	// non-confirmed outcome means nothing was written.
	Outcome *classify.Outcome
	// NothingMatched: no package declares any classified dependency, so no
	// file was written.
	NothingMatched bool

	Definition     *types.CatalogDefinition
	Reconciliation *types.Reconciliation
	// Updated are the package manifests rewritten.
	Updated []types.Resolution
	// Written lists every file written, workspace file last.
	Written []string
	// BackupID identifies the snapshot taken before writing.
	BackupID string
	// Pruned lists backups removed to honour backup.keep.
	Pruned []string
}

// Run executes the manage flow.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.manage")
	defer logging.LogOperationStart(logger, "manage")()

	if opts.Prompter == nil {
		return nil, errors.New(errors.ErrInvalidInput, "a prompter is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	fs := opts.FileSystem
	if fs == nil {
		if opts.DryRun {
			fs = filesystem.NewOverlay()
		} else {
			fs = filesystem.NewOS()
		}
	}
	p, err := paths.New(opts.Cwd)
	if err != nil {
		return nil, err
	}

	wsPath, err := workspace.Find(fs, p.Cwd(), cfg.Workspace.File)
	if err != nil {
		return nil, err
	}
	result := &Result{WorkspacePath: wsPath, DryRun: opts.DryRun}

	scan, err := scanner.Scan(fs, p.Cwd(), cfg.Scan.Patterns, cfg.Scan.Ignore)
	if err != nil {
		return nil, err
	}

	doc, err := workspace.Load(fs, wsPath)
	if err != nil {
		return nil, err
	}
	if !doc.HasCatalog() {
		result.NoCatalog = true
		return result, nil
	}
	if len(doc.Catalog()) == 0 {
		result.EmptyCatalog = true
		return result, nil
	}

	categories := make([]classify.Category, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		categories = append(categories, classify.Category{Name: c.Name, Description: c.Description})
	}

	outcome, err := classify.Run(ctx, opts.Prompter, doc, classify.Options{
		Categories: categories,
		Usage:      scan.Usage,
	})
	if err != nil {
		if prompt.IsCancelled(err) {
			logger.Info().Msg("Classification cancelled")
			result.Cancelled = true
			return result, nil
		}
		return nil, err
	}
	result.Outcome = outcome
	if !outcome.Confirmed() {
		return result, nil
	}
	result.Definition = outcome.Definition

	rec, err := catalog.Reconcile(scan.Manifests, outcome.Definition)
	if err != nil {
		return nil, err
	}
	result.Reconciliation = rec
	result.Updated = rec.Updated()
	if len(result.Updated) == 0 {
		logger.Info().Msg("No package declares the classified dependencies")
		result.NothingMatched = true
		return result, nil
	}

	if err := outcome.Session.ApplyTo(doc); err != nil {
		return nil, err
	}
	wsContent, err := doc.Bytes(cfg.Workspace.Indent)
	if err != nil {
		return nil, err
	}

	// last point where stopping leaves the tree untouched
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Backup.Enabled && !opts.DryRun {
		store := backup.NewStore(backup.Options{
			FileSystem: fs,
			Dir:        p.BackupDir(cfg.Backup.Dir),
			Root:       p.Cwd(),
			Protected:  []string{filepath.Dir(wsPath)},
			Clock:      opts.Clock,
		})
		files := make([]string, 0, len(result.Updated)+1)
		files = append(files, wsPath)
		for _, res := range result.Updated {
			files = append(files, res.Path)
		}
		id, err := store.Create(files, DescriptionPrefix+strings.Join(outcome.Session.Categories(), catalog.GroupSeparator))
		if err != nil {
			return nil, err
		}
		result.BackupID = id
		defer func() {
			pruned, err := store.Prune(cfg.Backup.Keep)
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to prune old backups")
			}
			result.Pruned = pruned
		}()
	}

	for _, res := range result.Updated {
		if err := write(fs, res.Path, res.Content, result.BackupID); err != nil {
			return result, err
		}
		result.Written = append(result.Written, res.Path)
	}
	if err := write(fs, wsPath, wsContent, result.BackupID); err != nil {
		return result, err
	}
	result.Written = append(result.Written, wsPath)

	logger.Info().
		Int("files", len(result.Written)).
		Str("backup", result.BackupID).
		Bool("dryRun", opts.DryRun).
		Msg("Catalogs updated")
	return result, nil
}

// write replaces a file in place. Once a backup exists, a failure carries its
// id so the user can roll back.
func write(fs types.FS, path string, content []byte, backupID string) error {
	if err := fs.WriteFile(path, content, 0644); err != nil {
		e := errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
			WithDetail("path", path)
		if backupID != "" {
			e = e.WithDetail("id", backupID)
		}
		return e
	}
	return nil
}
