package catalog

import (
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/manifest"
	"github.com/arthur-debert/pcc/pkg/types"
)

// Reconcile computes the catalog rewrites for manifests. Every manifest gets
// a Resolution, in input order; only those with IsUpdate set carry new
// content. It never returns a partial result.
func Reconcile(manifests []*types.ManifestEntry, def *types.CatalogDefinition) (*types.Reconciliation, error) {
	logger := logging.GetLogger("catalog")

	if def == nil {
		return nil, errors.New(errors.ErrInvalidInput, "catalog definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid catalog definition")
	}

	used := make(map[string]bool)
	result := &types.Reconciliation{Used: make([]types.Resolution, 0, len(manifests))}

	for _, entry := range manifests {
		res := types.Resolution{Path: entry.Path, RelPath: entry.RelPath, Content: entry.Raw}
		var changes []manifest.Change

		for _, kind := range types.DependencyKinds {
			for _, dep := range entry.Blocks[kind] {
				if _, ok := def.Dependencies[dep.Name]; !ok {
					continue
				}
				used[dep.Name] = true

				target := Target(def, dep.Name)
				res.Hits = append(res.Hits, types.Hit{
					Dependency: dep.Name,
					Kind:       kind,
					From:       dep.Version,
					Version:    target,
				})

				if satisfied(def, dep.Version, target) {
					continue
				}
				changes = append(changes, manifest.Change{Kind: kind, Name: dep.Name, Version: target})
			}
		}

		if len(changes) > 0 {
			content, err := manifest.Rewrite(entry, changes)
			if err != nil {
				return nil, err
			}
			res.Content = content
			res.IsUpdate = true
			logger.Debug().
				Str("path", entry.RelPath).
				Int("changes", len(changes)).
				Msg("Manifest needs rewrite")
		}

		result.Used = append(result.Used, res)
	}

	for _, name := range SortedKeys(def.Dependencies) {
		if used[name] {
			continue
		}
		result.Unused = append(result.Unused, types.Hit{
			Dependency: name,
			Version:    Target(def, name),
		})
	}

	logger.Info().
		Int("manifests", len(manifests)).
		Int("updated", len(result.Updated())).
		Int("unused", len(result.Unused)).
		Msg("Reconciliation complete")
	return result, nil
}

// Target returns the catalog reference dep should carry under def: its
// category, or the group name when no category claims it.
func Target(def *types.CatalogDefinition, dep string) string {
	if c := def.CategoryOf(dep); c != "" {
		return types.Reference(c)
	}
	return types.Reference(def.Name)
}

// satisfied reports whether a declared version already points where target
// does. The bare "catalog:" reference resolves to the only catalog of a
// definition without categories.
func satisfied(def *types.CatalogDefinition, declared, target string) bool {
	if declared == target {
		return true
	}
	return declared == types.CatalogPlaceholder && len(def.Categories) == 0
}
