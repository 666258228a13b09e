package manifest

import (
	"path/filepath"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/types"
)

// Load reads and parses the manifest at cwd/relPath.
func Load(fs types.FS, cwd, relPath string) (*types.ManifestEntry, error) {
	abs := filepath.Join(cwd, filepath.FromSlash(relPath))

	data, err := fs.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", relPath).
			WithDetail("path", abs)
	}

	doc, err := Parse(abs, data)
	if err != nil {
		return nil, err
	}

	return &types.ManifestEntry{
		Path:    abs,
		RelPath: filepath.ToSlash(relPath),
		Name:    ConsumerName(doc.Name(), filepath.ToSlash(relPath)),
		Raw:     data,
		Blocks:  doc.Blocks(),
	}, nil
}

// Rewrite applies changes to the entry's original bytes.
func Rewrite(entry *types.ManifestEntry, changes []Change) ([]byte, error) {
	if len(changes) == 0 {
		return entry.Raw, nil
	}
	doc, err := Parse(entry.Path, entry.Raw)
	if err != nil {
		return nil, err
	}
	return doc.Apply(changes)
}
