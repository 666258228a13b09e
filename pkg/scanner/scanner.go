// Package scanner discovers the package manifests of a workspace and
// indexes which packages consume which dependencies.
package scanner

import (
	"path"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/manifest"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// Result holds the parsed manifests and the usage index built from them.
type Result struct {
	// Manifests are in discovery order.
	Manifests []*types.ManifestEntry
	Usage     types.UsageIndex
}

// Discover walks cwd and returns the slash-separated relative paths of the
// files matching any pattern and no ignore pattern, sorted. Ignored
// directories are not descended into.
func Discover(fs types.FS, cwd string, patterns, ignore []string) ([]string, error) {
	logger := logging.GetLogger("scanner")

	for _, p := range append(append([]string{}, patterns...), ignore...) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid glob pattern %q", p).
				WithDetail("pattern", p)
		}
	}

	var found []string
	var walk func(rel string) error
	walk = func(rel string) error {
		dir := filepath.Join(cwd, filepath.FromSlash(rel))
		entries, err := fs.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", dir).
				WithDetail("path", dir)
		}
		for _, entry := range entries {
			child := entry.Name()
			if rel != "" {
				child = path.Join(rel, entry.Name())
			}
			if entry.IsDir() {
				if matchesAny(ignore, child) {
					logger.Trace().Str("dir", child).Msg("Skipping ignored directory")
					continue
				}
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			if matchesAny(patterns, child) && !matchesAny(ignore, child) {
				found = append(found, child)
			}
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}

	sort.Strings(found)
	logger.Debug().Int("count", len(found)).Msg("Discovered manifests")
	return found, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ScanUsage parses every manifest and indexes, for each dependency, the
// packages declaring it in any block, in first-seen order. The first
// manifest that fails to parse aborts the scan.
func ScanUsage(fs types.FS, cwd string, relPaths []string) (*Result, error) {
	logger := logging.GetLogger("scanner")

	result := &Result{
		Manifests: make([]*types.ManifestEntry, 0, len(relPaths)),
		Usage:     make(types.UsageIndex),
	}

	for _, rel := range relPaths {
		entry, err := manifest.Load(fs, cwd, rel)
		if err != nil {
			return nil, err
		}
		result.Manifests = append(result.Manifests, entry)

		seen := make(map[string]bool)
		for _, kind := range types.DependencyKinds {
			for _, dep := range entry.Blocks[kind] {
				if seen[dep.Name] {
					continue
				}
				seen[dep.Name] = true
				result.Usage.Add(dep.Name, entry.Name)
			}
		}
	}

	logger.Debug().
		Int("manifests", len(result.Manifests)).
		Int("dependencies", len(result.Usage)).
		Msg("Usage index built")
	return result, nil
}

// Scan discovers and parses the manifests under cwd.
func Scan(fs types.FS, cwd string, patterns, ignore []string) (*Result, error) {
	rels, err := Discover(fs, cwd, patterns, ignore)
	if err != nil {
		return nil, err
	}
	return ScanUsage(fs, cwd, rels)
}
