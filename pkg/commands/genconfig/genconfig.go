package genconfig

import (
	"path/filepath"

	"github.com/arthur-debert/pcc/pkg/config"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/filesystem"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/types"
)

// Options holds options for the genconfig command
type Options struct {
	// Effective renders the loaded configuration instead of the commented
	// defaults.
	Effective bool
	// Config is rendered when Effective is set.
	Config *config.Config
	// Write saves the content as .pcc.toml in Dir instead of returning it
	// only.
	Write bool
	// Dir receives the written file. Empty means the process working
	// directory.
	Dir string
	// Force overwrites an existing file.
	Force bool
	// FileSystem defaults to the OS.
	FileSystem types.FS
}

// Result holds the generated content and the file written, if any.
type Result struct {
	Content string
	// Path is the target file when Write was set.
	Path    string
	Written bool
	// Skipped is set when the target existed and Force was not given.
	Skipped bool
}

// GenConfig renders, and optionally writes, a pcc configuration file.
func GenConfig(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.genconfig")

	result := &Result{Content: config.GenerateConfigContent()}
	if opts.Effective {
		cfg := opts.Config
		if cfg == nil {
			cfg = config.Default()
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		result.Content = string(data)
	}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	p, err := paths.New(opts.Dir)
	if err != nil {
		return nil, err
	}
	target := filepath.Join(p.Cwd(), paths.ProjectConfigFile)
	result.Path = target

	if _, err := fs.Stat(target); err == nil && !opts.Force {
		logger.Warn().Str("path", target).Msg("Config file already exists, skipping")
		result.Skipped = true
		return result, nil
	}

	if err := fs.WriteFile(target, []byte(result.Content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write config to %s", target).
			WithDetail("path", target)
	}
	logger.Info().Str("path", target).Msg("Written config file")
	result.Written = true
	return result, nil
}
