package pcc

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Manage the catalogs of a pnpm workspace"
	MsgUndoShort       = "Restore files from a backup"
	MsgGenConfigShort  = "Print or write a pcc configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flow titles
	MsgManageIntro = " Pnpm workspace catalog category manage [v%s]"
	MsgUndoIntro   = " Pnpm workspace catalog - Undo [v%s]"

	// Manage messages
	MsgCancelProcess   = "Current operation canceled."
	MsgEmptyCatalog    = "✅ The catalog is not currently in the pnpm-workspace.yaml file, so it cannot be managed."
	MsgAllAssigned     = "✅ All dependencies have been assigned a catalog name."
	MsgNothingAssigned = "No dependency was placed in a catalog, nothing to write."
	MsgDeclined        = "❌ All changes will be discarded because the user cancels saving!"
	MsgNothingMatched  = "⚠️ Since you might have selected an unused dependency package, the package.json did not match, so this process will end."
	MsgBackedUp        = "Current operation has been backed up, if you want to restore, please run: pcc undo"
	MsgDone            = "Done. Congratulations, you have successfully managed."
	MsgBackID          = " Back ID: %s"
	MsgDoneDryRun      = "Done. Nothing was written."
	MsgDryRunNotice    = "DRY RUN MODE - No changes were made"
	MsgUnusedTitle     = "You currently have selected but unused dependencies:"

	// Write failure after the backup
	MsgWriteInterrupted = "Writing stopped partway, %d file(s) were already rewritten:"
	MsgRestoreHint      = "Your files were backed up first. Restore them with: pcc undo %s"

	// Undo messages
	MsgNoBackups           = "No backups found."
	MsgBackupsFound        = "Found %d backup(s):"
	MsgConfirmClear        = "Delete all %d backups?"
	MsgCleared             = "Deleted %d backup(s)."
	MsgDeletedBackup       = "Deleted backup: %s"
	MsgBackupMissing       = "Backup not found: %s"
	MsgBackupInfo          = "Backup details:"
	MsgConfirmRestore      = "Restore these %d file(s)?"
	MsgRestoring           = "Restoring files..."
	MsgRestored            = "Restored %d file(s)."
	MsgConfirmDeleteBackup = "Delete this backup?"
	MsgBackupDeleted       = "Backup deleted."
	MsgVerified            = "Backup %s is intact (%d file(s))."
	MsgCancelled           = "Cancelled."

	// Genconfig messages
	MsgConfigWritten = "Wrote %s"
	MsgConfigExists  = "%s already exists, use --force to overwrite it"

	// Version
	MsgVersionFormat = "pcc version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNotInteractive = "pcc asks questions and needs an interactive terminal"
	MsgErrUndoExclusive  = "--list, --clear, --delete and --verify cannot be combined"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun      = "Preview changes without writing files or taking a backup"
	MsgFlagCwd         = "Specify the working directory"
	MsgFlagFormat      = "Output format: auto, term or text"
	MsgFlagNoBackup    = "Do not back up files before rewriting them"
	MsgFlagList        = "List all backups"
	MsgFlagClear       = "Clear all backups"
	MsgFlagDelete      = "Delete a specific backup"
	MsgFlagVerify      = "Check that a backup (the latest by default) is intact"
	MsgFlagYes         = "Answer yes to confirmations"
	MsgFlagDrop        = "Delete the backup after restoring it"
	MsgFlagEffective   = "Print the configuration currently in effect"
	MsgFlagWrite       = "Write .pcc.toml next to pnpm-workspace.yaml"
	MsgFlagForceConfig = "Overwrite an existing .pcc.toml"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/undo-long.txt
	msgUndoLongRaw string
	MsgUndoLong    = strings.TrimSpace(msgUndoLongRaw)

	//go:embed msgs/undo-example.txt
	msgUndoExampleRaw string
	MsgUndoExample    = strings.TrimRight(msgUndoExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/codemod-notice.md
	MsgCodemodNotice string

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
