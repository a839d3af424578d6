package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Named is one publicly exposed value of a bundle
type Named struct {
	Name  string
	Value any
}

// Bundle is an enumerable set of named values, e.g. the top-level keys of a
// nodes file. Values are kept in lexical order of their names so that
// first-match detection does not depend on how the source was written.
type Bundle struct {
	Name   string // role of the bundle, "nodes" or "elements"
	Source string // file path or other origin, for diagnostics
	Values []Named
}

// NewBundle creates an in-memory bundle from Go values
func NewBundle(name string, values map[string]any) *Bundle {
	b := &Bundle{Name: name, Source: "memory"}
	for k, v := range values {
		if strings.HasPrefix(k, "__") {
			continue
		}
		b.Values = append(b.Values, Named{Name: k, Value: canonical(v)})
	}
	b.sort()
	return b
}

// LoadBundle reads a YAML or JSON document whose top level is a mapping.
// Every top-level key becomes one named value; keys starting with "__"
// are private and skipped.
func LoadBundle(name, path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s bundle: %w", name, err)
	}

	b, err := ParseBundle(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	b.Source = path
	return b, nil
}

// ParseBundle decodes a YAML or JSON document into a bundle
func ParseBundle(name string, data []byte) (*Bundle, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s bundle: %w", name, err)
	}

	b := &Bundle{Name: name}
	if len(doc.Content) == 0 {
		return b, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s bundle: top level must be a mapping of named values, got %s", name, nodeKindName(root.Kind))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if strings.HasPrefix(key, "__") {
			continue
		}
		v, err := decodeNode(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("parse %s bundle: value %q: %w", name, key, err)
		}
		b.Values = append(b.Values, Named{Name: key, Value: v})
	}
	b.sort()
	return b, nil
}

// Names returns the value names in enumeration order
func (b *Bundle) Names() []string {
	names := make([]string, len(b.Values))
	for i, v := range b.Values {
		names[i] = v.Name
	}
	return names
}

func (b *Bundle) sort() {
	sort.SliceStable(b.Values, func(i, j int) bool {
		return b.Values[i].Name < b.Values[j].Name
	})
}

func decodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeNode(n.Content[0])
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	case yaml.MappingNode:
		m := make(Mapping, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := decodeNode(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := decodeNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: k, Value: v})
		}
		return m, nil
	case yaml.SequenceNode:
		seq := make(Sequence, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.ScalarNode:
		return decodeScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func decodeScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	}
	return n.Value, nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "mapping"
}
