package types

import "time"

// BackupFile maps a snapshotted file back to where it came from.
type BackupFile struct {
	// RelativePath is relative to the working directory the backup was
	// taken in, slash separated.
	RelativePath string `json:"relativePath"`
	// SnapshotPath is relative to the backup cache directory.
	SnapshotPath string `json:"snapshotPath"`
	// Checksum is the blake3 digest of the original content, hex encoded.
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
}

// BackupManifest is the index record for one snapshot operation.
type BackupManifest struct {
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	Description string       `json:"description,omitempty"`
	Files       []BackupFile `json:"files"`
}
