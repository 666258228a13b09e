package classify

import (
	"strings"

	"github.com/arthur-debert/pcc/pkg/catalog"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/arthur-debert/pcc/pkg/workspace"
)

// Session accumulates the choices of one classification run. It is a
// value: Assign returns an updated copy and leaves the receiver unchanged.
type Session struct {
	remaining []workspace.Entry
	batches   []types.Category
	existing  []string
}

// NewSession starts a session from the flat catalog and the named catalogs
// of doc.
func NewSession(doc *workspace.Document) Session {
	return Session{
		remaining: doc.Catalog(),
		existing:  doc.CategoryNames(),
	}
}

// Remaining returns the flat catalog entries not yet assigned, in document
// order.
func (s Session) Remaining() []workspace.Entry {
	return append([]workspace.Entry(nil), s.remaining...)
}

// Batches returns the confirmed assignments in the order they were made.
func (s Session) Batches() []types.Category {
	return append([]types.Category(nil), s.batches...)
}

// Existing returns the named catalogs known so far: those of the document
// followed by those created during the session.
func (s Session) Existing() []string {
	return append([]string(nil), s.existing...)
}

// Done reports whether every flat catalog entry has been assigned.
func (s Session) Done() bool {
	return len(s.remaining) == 0
}

// Assign moves choice into the named catalog. Every chosen name must still
// be remaining.
func (s Session) Assign(choice []string, name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, errors.New(errors.ErrInvalidInput, "catalog name cannot be empty")
	}
	if len(choice) == 0 {
		return s, errors.New(errors.ErrInvalidInput, "no dependency chosen")
	}

	versions := make(map[string]string, len(s.remaining))
	for _, e := range s.remaining {
		versions[e.Name] = e.Version
	}

	batch := types.Category{Name: name, Dependencies: make(map[string]string, len(choice))}
	for _, dep := range choice {
		version, ok := versions[dep]
		if !ok {
			return s, errors.Newf(errors.ErrInvalidInput, "%s is not an unassigned catalog entry", dep).
				WithDetail("dependency", dep)
		}
		if _, dup := batch.Dependencies[dep]; dup {
			continue
		}
		batch.Packages = append(batch.Packages, dep)
		batch.Dependencies[dep] = version
	}

	next := Session{
		batches:  append(s.Batches(), batch),
		existing: s.Existing(),
	}
	for _, e := range s.remaining {
		if _, moved := batch.Dependencies[e.Name]; !moved {
			next.remaining = append(next.remaining, e)
		}
	}
	if !contains(next.existing, name) {
		next.existing = append(next.existing, name)
	}
	return next, nil
}

// Definition merges the batches into the catalog definition the reconciler
// runs against. It is nil when nothing was assigned.
func (s Session) Definition() *types.CatalogDefinition {
	if len(s.batches) == 0 {
		return nil
	}
	return catalog.BuildDefinition(s.batches)
}

// Categories returns the distinct catalog names assigned, in order.
func (s Session) Categories() []string {
	var names []string
	for _, b := range s.batches {
		if !contains(names, b.Name) {
			names = append(names, b.Name)
		}
	}
	return names
}

// ApplyTo replays the batches on doc.
func (s Session) ApplyTo(doc *workspace.Document) error {
	for _, b := range s.batches {
		if _, err := doc.Assign(b.Packages, b.Name); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
