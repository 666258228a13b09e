package types

// Hit records a manifest dependency matched against the catalog.
type Hit struct {
	Dependency string
	Kind       DependencyKind
	// From is the declared version before reconciliation. Empty for unused
	// catalog entries.
	From string
	// Version is the target catalog reference.
	Version string
}

// Resolution is the reconciliation outcome for one manifest.
type Resolution struct {
	Path     string
	RelPath  string
	IsUpdate bool
	// Content is the rewritten document, or the original bytes when
	// IsUpdate is false.
	Content []byte
	Hits    []Hit
}

// Reconciliation is the outcome of reconciling a set of manifests against a
// catalog definition.
type Reconciliation struct {
	Used []Resolution
	// Unused holds catalog entries no scanned manifest declares.
	Unused []Hit
}

// Updated returns the resolutions that need to be written.
func (r *Reconciliation) Updated() []Resolution {
	var out []Resolution
	for _, res := range r.Used {
		if res.IsUpdate {
			out = append(out, res)
		}
	}
	return out
}

// UsedNames returns the set of catalog dependencies referenced by at least
// one manifest.
func (r *Reconciliation) UsedNames() map[string]bool {
	used := make(map[string]bool)
	for _, res := range r.Used {
		for _, h := range res.Hits {
			used[h.Dependency] = true
		}
	}
	return used
}
