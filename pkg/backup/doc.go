// Package backup snapshots files before pcc rewrites them and restores them
// on demand.
//
// A backup is one entry of the JSON index (manifest.json) plus a directory
// named after its id holding the file contents. Contents are stored zstd
// compressed under their blake3 digest, so identical files in one backup are
// stored once and every snapshot is verified before it is written back.
//
// Layout of the cache directory:
//
//	manifest.json
//	20240501-120000.000000/
//	    <blake3 hex>.zst
//
// The index is always rewritten atomically (temp file plus rename) and
// snapshot directories are staged under <id>.tmp before being renamed into
// place, so an interrupted backup never leaves an index entry pointing at
// missing content.
package backup
