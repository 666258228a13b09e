// Package config loads pcc configuration.
//
// Configuration is layered with koanf: the embedded defaults, the user file
// under the XDG config directory, the workspace's .pcc.toml, PCC_*
// environment variables and finally explicit overrides from the command
// line. The merged result is decoded with mapstructure and checked with
// go-playground/validator before any command runs.
package config
