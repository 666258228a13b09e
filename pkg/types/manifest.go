package types

// DependencyKind names one of the dependency blocks of a package manifest.
type DependencyKind string

const (
	KindDependencies         DependencyKind = "dependencies"
	KindDevDependencies      DependencyKind = "devDependencies"
	KindPeerDependencies     DependencyKind = "peerDependencies"
	KindOptionalDependencies DependencyKind = "optionalDependencies"
)

// DependencyKinds lists every recognized block kind in traversal order.
var DependencyKinds = []DependencyKind{
	KindDependencies,
	KindDevDependencies,
	KindPeerDependencies,
	KindOptionalDependencies,
}

// IsDependencyKind reports whether key is one of the recognized blocks.
func IsDependencyKind(key string) bool {
	for _, k := range DependencyKinds {
		if string(k) == key {
			return true
		}
	}
	return false
}

// Dependency is one declared entry inside a dependency block.
type Dependency struct {
	Name    string
	Version string
}

// ManifestEntry is one discovered package manifest.
type ManifestEntry struct {
	// Path is absolute.
	Path string
	// RelPath is relative to the working directory, slash separated.
	RelPath string
	// Name is the package name, or a name derived from RelPath.
	Name string
	Raw  []byte
	// Blocks keeps declaration order inside each block.
	Blocks map[DependencyKind][]Dependency
}

// UsageIndex maps a dependency name to the packages consuming it, in
// first-seen order.
type UsageIndex map[string][]string

// Add records consumer for dep.
func (u UsageIndex) Add(dep, consumer string) {
	u[dep] = append(u[dep], consumer)
}

// Consumers returns the consumers of dep.
func (u UsageIndex) Consumers(dep string) []string {
	return u[dep]
}
