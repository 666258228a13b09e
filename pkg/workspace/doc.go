// Package workspace edits pnpm-workspace.yaml.
//
// The file is held as a yaml.v3 node tree so comments, key order and value
// styles survive the round trip. Only the catalog and catalogs keys are ever
// modified: classification moves entries out of the flat catalog into named
// catalogs.
package workspace
