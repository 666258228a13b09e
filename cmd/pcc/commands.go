// Package pcc builds the pcc command line: the catalog classification flow
// on the root command plus undo, genconfig, version and completion.
package pcc

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/pcc/internal/version"
	"github.com/arthur-debert/pcc/pkg/cobrax/topics"
	"github.com/arthur-debert/pcc/pkg/config"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/ui"
	"github.com/arthur-debert/pcc/pkg/ui/prompt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// Env is what the commands read from and write to.
type Env struct {
	In  io.Reader
	Out io.Writer
	// Prompter replaces the terminal prompts when set.
	Prompter prompt.Prompter
}

// app carries the global flags to the subcommands.
type app struct {
	env Env

	verbosity int
	cwd       string
	dryRun    bool
	format    string
	noBackup  bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithEnv(Env{In: os.Stdin, Out: os.Stdout})
}

// NewRootCmdWithEnv creates the root command over env.
func NewRootCmdWithEnv(env Env) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	a := &app{env: env}

	rootCmd := &cobra.Command{
		Use:     "pcc",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runManage(cmd)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	if env.In != nil {
		rootCmd.SetIn(env.In)
	}
	if env.Out != nil {
		rootCmd.SetOut(env.Out)
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.cwd, "cwd", "", MsgFlagCwd)
	rootCmd.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "", MsgFlagFormat)
	rootCmd.Flags().BoolVar(&a.noBackup, "no-backup", false, MsgFlagNoBackup)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newUndoCmd(a))
	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	initTopics(rootCmd)

	return rootCmd
}

// initTopics installs "help <topic>" over the embedded documents. Markdown
// is rendered with glamour only when help goes to a terminal.
func initTopics(rootCmd *cobra.Command) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}

	var renderer topics.Renderer = &topics.PlainRenderer{}
	if ui.Resolve(ui.FormatAuto, rootCmd.OutOrStdout()) == ui.FormatTerminal {
		renderer = topics.NewGlamourRenderer()
	}

	opts := topics.Options{
		Extensions: []string{".md"},
		Renderer:   renderer,
	}
	if err := topics.InitializeWithOptions(rootCmd, sub, opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
}

// load resolves the working directory and merges the configuration layers.
// The project file is looked up next to the nearest workspace file.
func (a *app) load() (*config.Config, *paths.Paths, error) {
	p, err := paths.New(a.cwd)
	if err != nil {
		return nil, nil, err
	}

	projectFile := ""
	if ws, err := paths.FindUp(filesystem.NewOS(), p.Cwd(), paths.WorkspaceFile); err == nil {
		projectFile = p.ProjectConfigPath(ws)
	}

	overrides := make(map[string]interface{})
	if a.format != "" {
		overrides["ui.format"] = a.format
	}
	if a.noBackup {
		overrides["backup.enabled"] = false
	}

	cfg, err := config.Load(config.LoadOptions{
		UserFile:    p.ConfigFilePath(),
		ProjectFile: projectFile,
		Overrides:   overrides,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Str("cwd", p.Cwd()).
		Str("project", projectFile).
		Msg("Configuration loaded")
	return cfg, p, nil
}

func (a *app) printer(cmd *cobra.Command, cfg *config.Config) *ui.Printer {
	format, err := ui.ParseFormat(cfg.UI.Format)
	if err != nil {
		format = ui.FormatAuto
	}
	return ui.NewPrinter(cmd.OutOrStdout(), format)
}

// prompter returns the injected prompter or a terminal one. Prompts need a
// real terminal on stdin.
func (a *app) prompter(cmd *cobra.Command, cfg *config.Config) (prompt.Prompter, error) {
	if a.env.Prompter != nil {
		return a.env.Prompter, nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !ui.IsInteractive(f) {
		return nil, errors.New(errors.ErrInvalidInput, MsgErrNotInteractive)
	}
	return prompt.NewTerminal(in, cmd.OutOrStdout(), cfg.UI.PageSize), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
