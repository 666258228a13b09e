package catalog

import (
	"sort"
	"strings"
)

// Less orders package names the way pnpm catalogs are conventionally
// written: scoped packages first, then case-insensitive alphabetical.
func Less(a, b string) bool {
	aScoped, bScoped := strings.HasPrefix(a, "@"), strings.HasPrefix(b, "@")
	if aScoped != bScoped {
		return aScoped
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// SortPackages sorts names in place with Less.
func SortPackages(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return Less(names[i], names[j]) })
}

// SortedKeys returns the keys of m ordered with Less.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortPackages(keys)
	return keys
}
