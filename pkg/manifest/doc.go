// Package manifest reads and rewrites package.json files.
//
// Parsing enforces the package descriptor shape pcc relies on: a top-level
// object whose dependency blocks are objects mapping names to version
// strings. While parsing it records the byte span of every version string so
// Rewrite can replace only those values. Key order, indentation, trailing
// newlines and every unrelated field survive a rewrite byte for byte.
package manifest
