package types

import (
	"fmt"
	"strings"
)

// CatalogPlaceholder is the protocol prefix of a catalog reference in a
// package manifest.
const CatalogPlaceholder = "catalog:"

// Category is a named subdivision of a catalog.
type Category struct {
	Name string
	// Packages lists the dependency names in the order they were chosen.
	Packages     []string
	Dependencies map[string]string
}

// CatalogDefinition is the finalized outcome of a classification run: the
// flat dependency mapping plus the categories it was split into.
type CatalogDefinition struct {
	// Name is the group name used when a dependency has no category.
	Name         string
	Dependencies map[string]string
	Categories   []Category
}

// Reference returns the catalog reference string for a catalog name.
func Reference(name string) string {
	return CatalogPlaceholder + name
}

// ReferenceName strips the catalog: prefix from a reference.
func ReferenceName(ref string) string {
	return strings.TrimPrefix(ref, CatalogPlaceholder)
}

// CategoryOf returns the name of the category owning dep, or "".
func (d *CatalogDefinition) CategoryOf(dep string) string {
	for _, c := range d.Categories {
		if _, ok := c.Dependencies[dep]; ok {
			return c.Name
		}
	}
	return ""
}

// CategoryNames returns the category names in order.
func (d *CatalogDefinition) CategoryNames() []string {
	names := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Validate checks that every categorized dependency is present in the flat
// mapping and that no dependency belongs to two categories.
func (d *CatalogDefinition) Validate() error {
	owner := make(map[string]string)
	for _, c := range d.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category with empty name")
		}
		for dep := range c.Dependencies {
			if _, ok := d.Dependencies[dep]; !ok {
				return fmt.Errorf("dependency %q in category %q is missing from the catalog", dep, c.Name)
			}
			if prev, dup := owner[dep]; dup {
				return fmt.Errorf("dependency %q belongs to both %q and %q", dep, prev, c.Name)
			}
			owner[dep] = c.Name
		}
	}
	return nil
}
