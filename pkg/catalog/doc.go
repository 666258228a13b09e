// Package catalog reconciles package manifests against a catalog
// definition.
//
// Reconcile finds every declared dependency the definition covers, points it
// at its catalog (catalog:<category> or catalog:<group>) and reports which
// catalog entries no manifest uses. Manifests that already reference the
// right catalog are passed through untouched so reruns produce no diff.
package catalog
