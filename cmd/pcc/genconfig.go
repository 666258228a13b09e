package pcc

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pcc/pkg/commands/genconfig"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/workspace"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(a *app) *cobra.Command {
	var effective, write, force bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := a.load()
			if err != nil {
				return err
			}

			dir := p.Cwd()
			if write {
				if ws, err := workspace.Find(filesystem.NewOS(), p.Cwd(), cfg.Workspace.File); err == nil {
					dir = filepath.Dir(ws)
				}
			}

			result, err := genconfig.GenConfig(genconfig.Options{
				Effective: effective,
				Config:    cfg,
				Write:     write,
				Dir:       dir,
				Force:     force,
			})
			if err != nil {
				return err
			}

			if !write {
				content := result.Content
				if !strings.HasSuffix(content, "\n") {
					content += "\n"
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			printer := a.printer(cmd, cfg)
			if result.Skipped {
				printer.Warning(fmt.Sprintf(MsgConfigExists, result.Path))
				return nil
			}
			printer.Success(fmt.Sprintf(MsgConfigWritten, result.Path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForceConfig)
	return cmd
}
