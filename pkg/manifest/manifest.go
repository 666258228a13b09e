package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/types"
)

// RootName is the consumer name of an unnamed manifest at the workspace root.
const RootName = "root"

// span is the [start, end) byte range of a JSON string token, quotes
// included.
type span struct {
	start, end int
}

type spanKey struct {
	kind types.DependencyKind
	name string
}

// Document is a parsed package manifest.
type Document struct {
	raw    []byte
	name   string
	blocks map[types.DependencyKind][]types.Dependency
	// spans holds every occurrence, duplicates included.
	spans map[spanKey][]span
}

// Parse decodes data and validates its shape. Errors are ErrManifestParse
// with the path detail set to path.
func Parse(path string, data []byte) (*Document, error) {
	doc := &Document{
		raw:    data,
		blocks: make(map[types.DependencyKind][]types.Dependency),
		spans:  make(map[spanKey][]span),
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := doc.parse(dec); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to parse %s", path).
			WithDetail("path", path)
	}
	return doc, nil
}

func (d *Document) parse(dec *json.Decoder) error {
	if err := expectDelim(dec, '{', "manifest"); err != nil {
		return err
	}

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}

		switch {
		case types.IsDependencyKind(key):
			if err := d.parseBlock(dec, types.DependencyKind(key)); err != nil {
				return err
			}
		case key == "name":
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			s, ok := tok.(string)
			if !ok {
				return fmt.Errorf("name must be a string")
			}
			d.name = s
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}

	if err := expectDelim(dec, '}', "manifest"); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return fmt.Errorf("unexpected content after the manifest object")
		}
		return err
	}
	return nil
}

// parseBlock reads one dependency block. A null block counts as absent.
func (d *Document) parseBlock(dec *json.Decoder, kind types.DependencyKind) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%s must be an object", kind)
	}
	if _, seen := d.blocks[kind]; !seen {
		d.blocks[kind] = []types.Dependency{}
	}

	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return err
		}

		before := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		version, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%s.%s must be a version string", kind, name)
		}
		after := int(dec.InputOffset())

		// The colon and whitespace between the key and the value cannot
		// contain a quote, so the first one opens the value.
		start := bytes.IndexByte(d.raw[before:after], '"')
		if start < 0 || d.raw[after-1] != '"' {
			return fmt.Errorf("cannot locate the value of %s.%s", kind, name)
		}

		d.blocks[kind] = append(d.blocks[kind], types.Dependency{Name: name, Version: version})
		k := spanKey{kind: kind, name: name}
		d.spans[k] = append(d.spans[k], span{start: before + start, end: after})
	}

	return expectDelim(dec, '}', string(kind))
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected an object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		if want == '{' {
			return fmt.Errorf("%s must be an object", what)
		}
		return fmt.Errorf("malformed %s: expected %q", what, want)
	}
	return nil
}

// Name returns the manifest's name field, or "" when absent.
func (d *Document) Name() string {
	return d.name
}

// Blocks returns the dependency blocks present in the manifest, entries in
// document order.
func (d *Document) Blocks() map[types.DependencyKind][]types.Dependency {
	return d.blocks
}

// Change sets the version of one dependency.
type Change struct {
	Kind    types.DependencyKind
	Name    string
	Version string
}

// Apply returns the document bytes with every change spliced in. A change
// naming a dependency absent from its block is an error. Bytes outside the
// changed values are copied unchanged.
func (d *Document) Apply(changes []Change) ([]byte, error) {
	type edit struct {
		span
		value []byte
	}

	edits := make([]edit, 0, len(changes))
	for _, c := range changes {
		spans, ok := d.spans[spanKey{kind: c.Kind, name: c.Name}]
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s has no entry %q", c.Kind, c.Name)
		}
		value, err := encodeString(c.Version)
		if err != nil {
			return nil, err
		}
		for _, s := range spans {
			edits = append(edits, edit{span: s, value: value})
		}
	}

	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out bytes.Buffer
	out.Grow(len(d.raw))
	prev := 0
	for _, e := range edits {
		if e.start < prev {
			// Two changes for the same entry; the first one wins.
			continue
		}
		out.Write(d.raw[prev:e.start])
		out.Write(e.value)
		prev = e.end
	}
	out.Write(d.raw[prev:])
	return out.Bytes(), nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode version")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ConsumerName names the package a manifest belongs to: its name field, or
// RootName for the workspace root, or the directory holding it.
func ConsumerName(name, relPath string) string {
	if name != "" {
		return name
	}
	dir := path.Dir(relPath)
	if dir == "." || dir == "/" || dir == "" {
		return RootName
	}
	return dir
}
