// Package paths provides centralized path handling for pcc.
//
// It resolves the working directory the tool operates on, finds the
// workspace file by searching upwards, and locates the XDG directories used
// for user configuration and the log file. Environment variables
// PCC_CONFIG_DIR and PCC_STATE_DIR override the XDG locations.
package paths
