package pcc

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/arthur-debert/pcc/internal/version"
	"github.com/arthur-debert/pcc/pkg/classify"
	"github.com/arthur-debert/pcc/pkg/commands/manage"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/ui"
	"github.com/spf13/cobra"
)

func (a *app) runManage(cmd *cobra.Command) error {
	logger := logging.GetLogger("cmd.manage")

	cfg, p, err := a.load()
	if err != nil {
		return err
	}
	printer := a.printer(cmd, cfg)
	printer.Intro(fmt.Sprintf(MsgManageIntro, version.Version))

	prompter, err := a.prompter(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Info().
		Str("cwd", p.Cwd()).
		Bool("dryRun", a.dryRun).
		Msg("Starting catalog management")

	result, err := manage.Run(cmd.Context(), manage.Options{
		Cwd:      p.Cwd(),
		Config:   cfg,
		Prompter: prompter,
		DryRun:   a.dryRun,
	})
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			printer.Outro(MsgCancelProcess)
			return nil
		}
		if result != nil && result.BackupID != "" {
			reportWriteFailure(printer, p, result)
		}
		return err
	}
	return reportManage(printer, result)
}

// reportWriteFailure tells the user which files a failed run already
// rewrote and how to roll them back.
func reportWriteFailure(printer *ui.Printer, p *paths.Paths, r *manage.Result) {
	printer.Error(fmt.Sprintf(MsgWriteInterrupted, len(r.Written)))
	for _, path := range r.Written {
		printer.Println("  " + p.Rel(path))
	}
	printer.Warning(fmt.Sprintf(MsgRestoreHint, r.BackupID))
}

// reportManage prints the end of the flow for result.
func reportManage(printer *ui.Printer, r *manage.Result) error {
	switch {
	case r.NoCatalog:
		printer.Outro("")
		printer.Markdown(MsgCodemodNotice)
		return nil
	case r.EmptyCatalog:
		printer.Outro(MsgEmptyCatalog)
		return nil
	case r.Cancelled:
		printer.Outro(MsgCancelProcess)
		return nil
	}

	outcome := r.Outcome
	if outcome.Session.Done() {
		printer.Outro(MsgAllAssigned)
	}
	switch outcome.Reason {
	case classify.ReasonNothingAssigned:
		printer.Outro(MsgNothingAssigned)
		return nil
	case classify.ReasonDeclined:
		printer.Outro(MsgDeclined)
		return nil
	}

	if r.NothingMatched {
		printer.Warning(MsgNothingMatched)
		return printer.DependencyTable(ui.CategoryRows(r.Definition))
	}

	if r.BackupID != "" {
		printer.Info(MsgBackedUp)
	}
	switch {
	case r.DryRun:
		printer.Warning(MsgDryRunNotice)
		printer.Success(MsgDoneDryRun)
	case r.BackupID != "":
		printer.Success(MsgDone + fmt.Sprintf(MsgBackID, r.BackupID))
	default:
		printer.Success(MsgDone)
	}

	printer.Println()
	if err := printer.Resolutions(r.Updated); err != nil {
		return err
	}
	return printer.Unused(r.Reconciliation.Unused, MsgUnusedTitle)
}
