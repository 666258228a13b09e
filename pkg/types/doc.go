// Package types defines the data model shared by the pcc packages: catalog
// definitions, package manifest entries, reconciliation results, backup
// manifests and the FS seam every component performs I/O through.
package types
