package pcc

import (
	"fmt"

	"github.com/arthur-debert/pcc/internal/version"
	"github.com/arthur-debert/pcc/pkg/commands/undo"
	"github.com/arthur-debert/pcc/pkg/config"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/ui"
	"github.com/arthur-debert/pcc/pkg/ui/prompt"
	"github.com/spf13/cobra"
)

type undoFlags struct {
	list   bool
	clear  bool
	delete string
	verify bool
	yes    bool
	drop   bool
}

func newUndoCmd(a *app) *cobra.Command {
	var f undoFlags

	cmd := &cobra.Command{
		Use:               "undo [backup-id]",
		Short:             MsgUndoShort,
		Long:              MsgUndoLong,
		Example:           MsgUndoExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.backupIDCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return a.runUndo(cmd, f, id)
		},
	}

	cmd.Flags().BoolVar(&f.list, "list", false, MsgFlagList)
	cmd.Flags().BoolVar(&f.clear, "clear", false, MsgFlagClear)
	cmd.Flags().StringVar(&f.delete, "delete", "", MsgFlagDelete)
	cmd.Flags().BoolVar(&f.verify, "verify", false, MsgFlagVerify)
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().BoolVar(&f.drop, "drop", false, MsgFlagDrop)
	return cmd
}

// undoRun is one invocation of the undo command.
type undoRun struct {
	app     *app
	cmd     *cobra.Command
	cfg     *config.Config
	opts    undo.Options
	printer *ui.Printer
	flags   undoFlags
}

func (a *app) runUndo(cmd *cobra.Command, f undoFlags, id string) error {
	modes := 0
	for _, set := range []bool{f.list, f.clear, f.delete != "", f.verify} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return errors.New(errors.ErrInvalidInput, MsgErrUndoExclusive)
	}

	cfg, p, err := a.load()
	if err != nil {
		return err
	}
	r := &undoRun{
		app:     a,
		cmd:     cmd,
		cfg:     cfg,
		opts:    undo.Options{Cwd: p.Cwd(), Config: cfg},
		printer: a.printer(cmd, cfg),
		flags:   f,
	}
	if a.dryRun {
		r.opts.FileSystem = filesystem.NewOverlay()
	}

	r.printer.Intro(fmt.Sprintf(MsgUndoIntro, version.Version))

	switch {
	case f.list:
		err = r.list()
	case f.clear:
		err = r.clear()
	case f.delete != "":
		err = r.delete(f.delete)
	case f.verify:
		err = r.verify(id)
	default:
		err = r.restore(id)
	}

	switch {
	case err == nil:
	case prompt.IsCancelled(err):
		r.printer.Outro(MsgCancelled)
		return nil
	case errors.IsErrorCode(err, errors.ErrBackupNotFound):
		// reported, not fatal
		if missing := errors.Detail(err, "id"); missing != "" {
			r.printer.Error(fmt.Sprintf(MsgBackupMissing, missing))
		} else {
			r.printer.Warning(MsgNoBackups)
		}
	default:
		return err
	}

	if a.dryRun {
		r.printer.Warning(MsgDryRunNotice)
	}
	r.printer.Outro("")
	return nil
}

func (r *undoRun) confirm(message string, initial bool) (bool, error) {
	p, err := r.app.prompter(r.cmd, r.cfg)
	if err != nil {
		return false, err
	}
	return p.Confirm(r.cmd.Context(), message, initial)
}

func (r *undoRun) list() error {
	list, err := undo.List(r.opts)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		r.printer.Warning(MsgNoBackups)
		return nil
	}
	r.printer.Info(fmt.Sprintf(MsgBackupsFound, len(list)))
	return r.printer.Backups(list)
}

func (r *undoRun) clear() error {
	list, err := undo.List(r.opts)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		r.printer.Warning(MsgNoBackups)
		return nil
	}
	if !r.flags.yes {
		ok, err := r.confirm(fmt.Sprintf(MsgConfirmClear, len(list)), false)
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrCancelled
		}
	}
	n, err := undo.Clear(r.opts)
	if err != nil {
		return err
	}
	r.printer.Success(fmt.Sprintf(MsgCleared, n))
	return nil
}

func (r *undoRun) delete(id string) error {
	if err := undo.Delete(r.opts, id); err != nil {
		return err
	}
	r.printer.Success(fmt.Sprintf(MsgDeletedBackup, id))
	return nil
}

func (r *undoRun) verify(id string) error {
	m, err := undo.Verify(r.opts, id)
	if err != nil {
		return err
	}
	r.printer.Success(fmt.Sprintf(MsgVerified, m.ID, len(m.Files)))
	return nil
}

func (r *undoRun) restore(id string) error {
	logger := logging.GetLogger("cmd.undo")

	m, err := undo.Resolve(r.opts, id)
	if err != nil {
		return err
	}
	r.printer.Info(MsgBackupInfo)
	if err := r.printer.Backup(m); err != nil {
		return err
	}

	if !r.flags.yes {
		ok, err := r.confirm(fmt.Sprintf(MsgConfirmRestore, len(m.Files)), true)
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrCancelled
		}
	}

	done := r.printer.Progress(MsgRestoring)
	result, err := undo.Restore(r.opts, m.ID, r.flags.drop)
	if err != nil {
		done("")
		return err
	}
	done(fmt.Sprintf(MsgRestored, result.Restored))
	logger.Info().Str("id", m.ID).Int("files", result.Restored).Msg("Backup restored")

	if result.Deleted {
		r.printer.Info(MsgBackupDeleted)
		return nil
	}
	if r.flags.yes {
		return nil
	}
	drop, err := r.confirm(MsgConfirmDeleteBackup, false)
	if err != nil {
		return err
	}
	if drop {
		if err := undo.Delete(r.opts, m.ID); err != nil {
			return err
		}
		r.printer.Info(MsgBackupDeleted)
	}
	return nil
}

// backupIDCompletion provides shell completion for backup ids
func (a *app) backupIDCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, p, err := a.load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	list, err := undo.List(undo.Options{Cwd: p.Cwd(), Config: cfg})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID+"\t"+m.Description)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
