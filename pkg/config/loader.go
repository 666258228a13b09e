package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read as configuration.
const EnvPrefix = "PCC_"

// reservedEnv are PCC_ variables that locate directories rather than
// configure behaviour.
var reservedEnv = map[string]bool{
	"PCC_CONFIG_DIR": true,
	"PCC_STATE_DIR":  true,
}

// LoadOptions selects the layers merged by Load.
type LoadOptions struct {
	// UserFile is the user configuration file. Missing files are skipped.
	UserFile string
	// ProjectFile is the workspace configuration file. Missing files are
	// skipped.
	ProjectFile string
	// SkipEnv ignores PCC_* environment variables.
	SkipEnv bool
	// Overrides are dotted keys applied last, e.g. "backup.enabled".
	Overrides map[string]interface{}
}

// Load merges the configuration layers and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User and project files
	for _, path := range []string{opts.UserFile, opts.ProjectFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to unmarshal configuration")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults alone.
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipEnv: true})
	if err != nil {
		// The embedded file is validated by the package tests.
		panic(err)
	}
	return cfg
}

// envKey maps PCC_BACKUP_DIR to backup.dir and PCC_UI_PAGE_SIZE to
// ui.page_size: only the first underscore separates the section. Reserved
// variables map to "" and are dropped.
func envKey(s string) string {
	if reservedEnv[s] {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}
