package workspace

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/pcc/pkg/catalog"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/paths"
	"github.com/arthur-debert/pcc/pkg/types"
	"gopkg.in/yaml.v3"
)

const (
	// CatalogKey holds the flat default catalog.
	CatalogKey = "catalog"
	// CatalogsKey holds the named catalogs.
	CatalogsKey = "catalogs"

	// DefaultIndent is used by Bytes when no indent is given.
	DefaultIndent = 2
)

// Entry is one dependency of a catalog.
type Entry struct {
	Name    string
	Version string
}

// Document is a parsed workspace manifest.
type Document struct {
	path string
	doc  *yaml.Node
}

// Find searches for the workspace file from cwd upwards. A missing file is
// ErrConfiguration: nothing can run without it.
func Find(fs types.FS, cwd, name string) (string, error) {
	if name == "" {
		name = paths.WorkspaceFile
	}
	found, err := paths.FindUp(fs, cwd, name)
	if err != nil {
		return "", errors.Newf(errors.ErrConfiguration,
			"%s not found in %s or any parent directory; run pcc inside a pnpm workspace", name, cwd).
			WithDetail("path", cwd)
	}
	return found, nil
}

// Load reads and parses the workspace file at path.
func Load(fs types.FS, path string) (*Document, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path).
			WithDetail("path", path)
	}
	return Parse(path, data)
}

// Parse decodes data and checks the shape of the catalog keys.
func Parse(path string, data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError(path, err.Error())
	}

	if doc.Kind == 0 {
		// empty file
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, parseError(path, "top level must be a mapping")
	}

	d := &Document{path: path, doc: &doc}
	if err := d.check(); err != nil {
		return nil, parseError(path, err.Error())
	}

	logger := logging.GetLogger("workspace")
	logger.Debug().
		Str("path", path).
		Int("catalog", len(d.Catalog())).
		Int("catalogs", len(d.CategoryNames())).
		Msg("Workspace loaded")
	return d, nil
}

func parseError(path, msg string) error {
	return errors.Newf(errors.ErrManifestParse, "failed to parse %s: %s", path, msg).
		WithDetail("path", path)
}

func (d *Document) root() *yaml.Node {
	return d.doc.Content[0]
}

func (d *Document) check() error {
	if cat := lookup(d.root(), CatalogKey); cat != nil && !isNull(cat) {
		if err := checkEntries(CatalogKey, cat); err != nil {
			return err
		}
	}

	cats := lookup(d.root(), CatalogsKey)
	if cats == nil || isNull(cats) {
		return nil
	}
	if cats.Kind != yaml.MappingNode {
		return errors.Newf(errors.ErrManifestParse, "%s must be a mapping", CatalogsKey)
	}
	for i := 0; i+1 < len(cats.Content); i += 2 {
		name := cats.Content[i].Value
		if err := checkEntries(CatalogsKey+"."+name, cats.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func checkEntries(where string, n *yaml.Node) error {
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return errors.Newf(errors.ErrManifestParse, "%s must be a mapping", where)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i+1].Kind != yaml.ScalarNode {
			return errors.Newf(errors.ErrManifestParse, "%s.%s must be a version string", where, n.Content[i].Value)
		}
	}
	return nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// HasCatalog reports whether the flat catalog key is present with a value.
func (d *Document) HasCatalog() bool {
	cat := lookup(d.root(), CatalogKey)
	return cat != nil && !isNull(cat)
}

// Catalog returns the flat catalog entries in document order.
func (d *Document) Catalog() []Entry {
	return entries(lookup(d.root(), CatalogKey))
}

// CategoryNames returns the named catalogs in document order.
func (d *Document) CategoryNames() []string {
	cats := lookup(d.root(), CatalogsKey)
	if cats == nil || cats.Kind != yaml.MappingNode {
		return nil
	}
	names := make([]string, 0, len(cats.Content)/2)
	for i := 0; i+1 < len(cats.Content); i += 2 {
		names = append(names, cats.Content[i].Value)
	}
	return names
}

// Catalogs returns the entries of every named catalog.
func (d *Document) Catalogs() map[string][]Entry {
	out := make(map[string][]Entry)
	cats := lookup(d.root(), CatalogsKey)
	if cats == nil || cats.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(cats.Content); i += 2 {
		out[cats.Content[i].Value] = entries(cats.Content[i+1])
	}
	return out
}

// Assign moves the chosen entries from the flat catalog into the named
// catalog, creating it when needed, and returns the moved versions. The
// named catalog ends up sorted in package order. An emptied flat catalog is
// removed from the document.
func (d *Document) Assign(choice []string, category string) (map[string]string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errors.New(errors.ErrInvalidInput, "catalog name cannot be empty")
	}
	root := d.root()
	flat := lookup(root, CatalogKey)
	if flat == nil || flat.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrInvalidInput, "workspace has no catalog to assign from")
	}

	// validate first so a bad choice leaves the document untouched
	for _, name := range choice {
		if lookup(flat, name) == nil {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s is not in the catalog", name).
				WithDetail("dependency", name)
		}
	}

	moved := make(map[string]string, len(choice))
	pairs := make([][2]*yaml.Node, 0, len(choice))
	for _, name := range choice {
		key, value := remove(flat, name)
		if key == nil {
			// listed twice in choice
			continue
		}
		moved[name] = value.Value
		pairs = append(pairs, [2]*yaml.Node{key, value})
	}

	cats := lookup(root, CatalogsKey)
	if cats == nil {
		cats = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		insertAfter(root, CatalogKey, scalar(CatalogsKey), cats)
	} else if isNull(cats) {
		*cats = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}

	target := lookup(cats, category)
	if target == nil {
		target = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		cats.Content = append(cats.Content, scalar(category), target)
	} else if isNull(target) {
		*target = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	target.Style = 0

	for _, p := range pairs {
		if existing := lookup(target, p[0].Value); existing != nil {
			*existing = *p[1]
			continue
		}
		target.Content = append(target.Content, p[0], p[1])
	}
	sortMapping(target)

	if len(flat.Content) == 0 {
		remove(root, CatalogKey)
	}
	return moved, nil
}

// Bytes renders the document with the given indent and a blank line between
// top-level keys.
func (d *Document) Bytes(indent int) ([]byte, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(d.doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to encode %s", d.path)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to encode %s", d.path)
	}
	return separateTopLevel(buf.Bytes()), nil
}

// separateTopLevel inserts a blank line before every top-level key but the
// first, keeping head comments attached to the key they precede.
func separateTopLevel(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines)+8)
	seenKey := false

	for _, line := range lines {
		if isTopLevelKey(line) {
			if seenKey {
				// walk back over the head comment block
				start := len(out)
				for start > 0 && strings.HasPrefix(out[start-1], "#") {
					start--
				}
				if start > 0 && strings.TrimSpace(out[start-1]) != "" {
					out = append(out[:start], append([]string{""}, out[start:]...)...)
				}
			}
			seenKey = true
		}
		out = append(out, line)
	}
	return []byte(strings.Join(out, "\n"))
}

func isTopLevelKey(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '\t', '#', '-', '}', ']':
		return false
	}
	return !strings.HasPrefix(line, "...")
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func remove(m *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			k, v := m.Content[i], m.Content[i+1]
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return k, v
		}
	}
	return nil, nil
}

// insertAfter adds key/value right after the pair named after, or at the
// end when after is absent.
func insertAfter(m *yaml.Node, after string, key, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == after {
			rest := append([]*yaml.Node{key, value}, m.Content[i+2:]...)
			m.Content = append(m.Content[:i+2], rest...)
			return
		}
	}
	m.Content = append(m.Content, key, value)
}

func sortMapping(m *yaml.Node) {
	n := len(m.Content) / 2
	names := make([]string, 0, n)
	byName := make(map[string][2]*yaml.Node, n)
	for i := 0; i+1 < len(m.Content); i += 2 {
		names = append(names, m.Content[i].Value)
		byName[m.Content[i].Value] = [2]*yaml.Node{m.Content[i], m.Content[i+1]}
	}
	catalog.SortPackages(names)

	content := make([]*yaml.Node, 0, len(m.Content))
	for _, name := range names {
		p := byName[name]
		content = append(content, p[0], p[1])
	}
	m.Content = content
}

func entries(m *yaml.Node) []Entry {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]Entry, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out = append(out, Entry{Name: m.Content[i].Value, Version: m.Content[i+1].Value})
	}
	return out
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
