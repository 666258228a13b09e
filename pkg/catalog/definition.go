package catalog

import (
	"strings"

	"github.com/arthur-debert/pcc/pkg/types"
)

// GroupSeparator joins category names into a group name.
const GroupSeparator = ", "

// BuildDefinition merges the categories chosen in one classification run
// into a single definition. The group name joins the category names in
// order; a category listed twice contributes its dependencies to the first
// occurrence.
func BuildDefinition(categories []types.Category) *types.CatalogDefinition {
	def := &types.CatalogDefinition{Dependencies: make(map[string]string)}

	index := make(map[string]int)
	var names []string
	for _, c := range categories {
		i, seen := index[c.Name]
		if !seen {
			index[c.Name] = len(def.Categories)
			names = append(names, c.Name)
			def.Categories = append(def.Categories, types.Category{
				Name:         c.Name,
				Dependencies: make(map[string]string),
			})
			i = len(def.Categories) - 1
		}

		merged := &def.Categories[i]
		for _, pkg := range c.Packages {
			if _, dup := merged.Dependencies[pkg]; !dup {
				merged.Packages = append(merged.Packages, pkg)
			}
		}
		for dep, version := range c.Dependencies {
			merged.Dependencies[dep] = version
			def.Dependencies[dep] = version
		}
	}

	def.Name = strings.Join(names, GroupSeparator)
	return def
}
