package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const nodesMappingYAML = `
title: Bridge deck
nodes:
  1: [0, 0, 0]
  2: [5, 0, 0]
  3: [10.5, 0, 2]
`

const nodesRowsYAML = `
grid:
  - [1, 0, 0, 0]
  - [2, 5.0, 0, 0]
  - ["3", 10.5, 0, 2]
`

const elementsMappingYAML = `
members:
  10: [1, 2]
  11: [2, 3]
`

const elementsRowsJSON = `{
  "units": "m",
  "conn": [[10, 1, 2], [11.0, "2", "3"]]
}`

func TestNormalize_EncodingEquivalence(t *testing.T) {
	nm, err := ParseBundle("nodes", []byte(nodesMappingYAML))
	require.NoError(t, err)
	nr, err := ParseBundle("nodes", []byte(nodesRowsYAML))
	require.NoError(t, err)
	em, err := ParseBundle("elements", []byte(elementsMappingYAML))
	require.NoError(t, err)
	er, err := ParseBundle("elements", []byte(elementsRowsJSON))
	require.NoError(t, err)

	m1, rep1, err := Normalize(nm, em)
	require.NoError(t, err)
	m2, rep2, err := Normalize(nr, er)
	require.NoError(t, err)

	assert.Equal(t, m1.Nodes, m2.Nodes)
	assert.Equal(t, m1.Elements, m2.Elements)

	assert.Equal(t, "nodes", rep1.Nodes.Name)
	assert.Equal(t, FormMapping, rep1.Nodes.Matcher.Form())
	assert.Equal(t, "grid", rep2.Nodes.Name)
	assert.Equal(t, FormRows, rep2.Nodes.Matcher.Form())
	assert.Equal(t, "conn", rep2.Elements.Name)

	assert.Equal(t, Vec3{X: 10.5, Y: 0, Z: 2}, m1.Nodes[3])
	assert.Equal(t, Element{Start: 2, End: 3}, m2.Elements[11])
}

func TestNormalize_InMemoryBundles(t *testing.T) {
	nodes := NewBundle("nodes", map[string]any{
		"NODES":   map[int][]float64{1: {0, 0, 0}, 2: {5, 0, 0}},
		"__doc__": "ignored",
	})
	elems := NewBundle("elements", map[string]any{
		"ELEMS": [][]int{{10, 1, 2}},
	})

	m, _, err := Normalize(nodes, elems)
	require.NoError(t, err)
	assert.Equal(t, map[int]Vec3{1: {0, 0, 0}, 2: {5, 0, 0}}, m.Nodes)
	assert.Equal(t, map[int]Element{10: {Start: 1, End: 2}}, m.Elements)
	assert.Equal(t, []string{"NODES"}, nodes.Names())
}

func TestDetect_FirstMatchInNameOrder(t *testing.T) {
	b := NewBundle("nodes", map[string]any{
		"zeta":  [][]float64{{9, 1, 1, 1}},
		"alpha": map[int][]float64{1: {0, 0, 0}},
	})

	d, err := Detect(b, NodeMatchers)
	require.NoError(t, err)
	assert.Equal(t, "alpha", d.Name)
	assert.True(t, d.Ambiguous())
	assert.Equal(t, []string{"alpha", "zeta"}, d.Matches)
}

func TestDetect_SchemaNotFound(t *testing.T) {
	b := NewBundle("nodes", map[string]any{
		"title":   "deck",
		"count":   3,
		"pairs":   map[int][]float64{1: {0, 0}},
		"empty":   []any{},
		"version": 1.5,
	})

	_, err := Detect(b, NodeMatchers)
	require.Error(t, err)

	var snf *SchemaNotFoundError
	require.True(t, errors.As(err, &snf))
	assert.Equal(t, []string{"count", "empty", "pairs", "title", "version"}, snf.Available)
	require.Len(t, snf.Rejected, 1)
	assert.Equal(t, "pairs", snf.Rejected[0].Name)
	assert.Contains(t, snf.Rejected[0].Reason, "first value has 2 items, want 3")

	msg := err.Error()
	for _, name := range snf.Available {
		assert.Contains(t, msg, name)
	}
	assert.Contains(t, msg, "dict: {node_id: (x, y, z)}")
	assert.Contains(t, msg, "rows: [[node_id, x, y, z], ...]")
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		name     string
		matchers []Matcher
		value    any
		form     Form
		ok       bool
	}{
		{"node mapping", NodeMatchers, canonical(map[string][]float64{"1": {0, 0, 0}}), FormMapping, true},
		{"node rows", NodeMatchers, canonical([][]any{{"n1", 0, 0, 0}}), FormRows, true},
		{"node rows string coordinate", NodeMatchers, canonical([][]any{{1, "0", 0, 0}}), "", false},
		{"node mapping float key", NodeMatchers, Mapping{{Key: 1.5, Value: Sequence{int64(0), int64(0), int64(0)}}}, "", false},
		{"node mapping wrong arity", NodeMatchers, canonical(map[int][]float64{1: {0, 0}}), "", false},
		{"element mapping", ElementMatchers, canonical(map[int][]any{10: {"1", 2}}), FormMapping, true},
		{"element rows", ElementMatchers, canonical([][]any{{10, 1, 2.0}}), FormRows, true},
		{"element rows wrong arity", ElementMatchers, canonical([][]int{{10, 1}}), "", false},
		{"scalar", ElementMatchers, int64(3), "", false},
		{"bool in row", ElementMatchers, canonical([][]any{{10, true, 2}}), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := match(tt.value, tt.matchers)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.form, m.Form())
		})
	}
}

func TestNormalize_CoercionErrors(t *testing.T) {
	elems := NewBundle("elements", map[string]any{"e": [][]int{{10, 1, 2}}})

	t.Run("bad later row", func(t *testing.T) {
		nodes := NewBundle("nodes", map[string]any{
			"n": []any{[]any{1, 0, 0, 0}, []any{2, 0, 0}},
		})
		_, _, err := Normalize(nodes, elems)
		var ce *CoercionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, 1, ce.Index)
		assert.Equal(t, "nodes", ce.Bundle)
		assert.Equal(t, "n", ce.Value)
	})

	t.Run("non integral id", func(t *testing.T) {
		nodes := NewBundle("nodes", map[string]any{
			"n": []any{[]any{"a", 0, 0, 0}},
		})
		_, _, err := Normalize(nodes, elems)
		var ce *CoercionError
		require.True(t, errors.As(err, &ce))
		assert.Contains(t, ce.Error(), `id "a" is not an integer`)
	})

	t.Run("duplicate id", func(t *testing.T) {
		nodes := NewBundle("nodes", map[string]any{
			"n": []any{[]any{1, 0, 0, 0}, []any{"1", 5, 0, 0}},
		})
		_, _, err := Normalize(nodes, elems)
		var de *DuplicateIDError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 1, de.ID)
	})
}

// flatMatcher reads [id, x, y, z, id, x, y, z, ...] as one flat list
type flatMatcher struct{ stride int }

func (flatMatcher) Form() Form       { return "flat" }
func (flatMatcher) Expected() string { return "flat: [node_id, x, y, z, node_id, ...]" }

func (m flatMatcher) Match(v any) error {
	seq, ok := v.(Sequence)
	if !ok || len(seq) == 0 || len(seq)%m.stride != 0 {
		return &ShapeError{Form: "flat", Reason: "not a flat list"}
	}
	for _, item := range seq {
		if !isNumber(item) {
			return &ShapeError{Form: "flat", Reason: "not a flat list"}
		}
	}
	return nil
}

func (m flatMatcher) Entries(v any, width int, fn func(i int, id any, fields []any) error) error {
	seq := v.(Sequence)
	for i := 0; i*m.stride < len(seq); i++ {
		row := seq[i*m.stride : (i+1)*m.stride]
		if err := fn(i, row[0], row[1:width+1]); err != nil {
			return err
		}
	}
	return nil
}

func TestNormalize_CustomMatcher(t *testing.T) {
	nodes := NewBundle("nodes", map[string]any{
		"n": []any{1, 0, 0, 0, 2, 5, 0, 0},
	})
	elems := NewBundle("elements", map[string]any{"e": [][]int{{10, 1, 2}}})

	_, _, err := Normalize(nodes, elems)
	var snf *SchemaNotFoundError
	require.True(t, errors.As(err, &snf))

	matchers := append([]Matcher{flatMatcher{stride: 4}}, NodeMatchers...)
	m, rep, err := Normalize(nodes, elems, WithNodeMatchers(matchers...))
	require.NoError(t, err)
	assert.Equal(t, Form("flat"), rep.Nodes.Matcher.Form())
	assert.Equal(t, map[int]Vec3{1: {}, 2: {X: 5}}, m.Nodes)
	assert.Equal(t, Element{Start: 1, End: 2}, m.Elements[10])

	flatElems := NewBundle("elements", map[string]any{"e": []any{10, 1, 2, 11, 2, 1}})
	m, _, err = Normalize(nodes, flatElems, WithNodeMatchers(matchers...), WithElementMatchers(flatMatcher{stride: 3}))
	require.NoError(t, err)
	assert.Equal(t, Element{Start: 2, End: 1}, m.Elements[11])
}

func TestLoad_Files(t *testing.T) {
	nodesPath := writeFile(t, "nodes.yaml", nodesMappingYAML)
	elemsPath := writeFile(t, "elements.json", elementsRowsJSON)

	m, rep, err := Load(nodesPath, elemsPath, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.Len(t, m.Nodes, 3)
	assert.Len(t, m.Elements, 2)
	assert.Equal(t, []int{1, 2, 3}, m.NodeIDs())
	assert.Equal(t, []int{10, 11}, m.ElementIDs())
	assert.Equal(t, "conn", rep.Elements.Name)
	assert.InDelta(t, 10.5, m.Span(), 1e-12)
}

func TestLoad_MissingSchemaReportsSource(t *testing.T) {
	nodesPath := writeFile(t, "nodes.yaml", "title: deck\nunits: m\n")
	elemsPath := writeFile(t, "elements.yaml", elementsMappingYAML)

	_, _, err := Load(nodesPath, elemsPath)
	var snf *SchemaNotFoundError
	require.True(t, errors.As(err, &snf))
	assert.Equal(t, nodesPath, snf.Source)
	assert.Equal(t, []string{"title", "units"}, snf.Available)
	assert.Empty(t, snf.Rejected)
}

func TestParseBundle_TopLevelMustBeMapping(t *testing.T) {
	_, err := ParseBundle("nodes", []byte("- [1, 0, 0, 0]\n"))
	assert.ErrorContains(t, err, "top level must be a mapping")
}

func TestVec3Axis(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, 2.0, v.Get(AxisY))
	assert.Equal(t, Vec3{X: 1, Y: 7, Z: 3}, v.With(AxisY, 7))
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, v)

	a, err := ParseAxis(" Z ")
	require.NoError(t, err)
	assert.Equal(t, AxisZ, a)
	_, err = ParseAxis("w")
	assert.Error(t, err)
}
