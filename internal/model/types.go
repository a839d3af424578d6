package model

import (
	"fmt"
	"sort"
	"strings"
)

// Axis selects one component of a Vec3
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis converts "x", "y" or "z" (any case) to an Axis
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q: want x, y or z", s)
}

// Vec3 is a node coordinate
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Get returns the coordinate along the given axis
func (v Vec3) Get(a Axis) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return v.X
	}
}

// With returns a copy of v with the coordinate along a replaced by value
func (v Vec3) With(a Axis, value float64) Vec3 {
	switch a {
	case AxisY:
		v.Y = value
	case AxisZ:
		v.Z = value
	default:
		v.X = value
	}
	return v
}

// Element connects a start node (i end) to an end node (j end)
type Element struct {
	Start int
	End   int
}

// Model holds the canonical node and element tables.
// Both tables are built once and never mutated afterwards.
type Model struct {
	Nodes    map[int]Vec3
	Elements map[int]Element
}

// Node returns the coordinate of node id
func (m *Model) Node(id int) (Vec3, bool) {
	v, ok := m.Nodes[id]
	return v, ok
}

// Element returns the connectivity of element id
func (m *Model) Element(id int) (Element, bool) {
	e, ok := m.Elements[id]
	return e, ok
}

// NodeIDs returns all node ids in ascending order
func (m *Model) NodeIDs() []int {
	ids := make([]int, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ElementIDs returns all element ids in ascending order
func (m *Model) ElementIDs() []int {
	ids := make([]int, 0, len(m.Elements))
	for id := range m.Elements {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Span returns the largest bounding-box dimension of the node cloud
func (m *Model) Span() float64 {
	if len(m.Nodes) == 0 {
		return 0
	}
	first := true
	var lo, hi Vec3
	for _, p := range m.Nodes {
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo = Vec3{min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z)}
		hi = Vec3{max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z)}
	}
	return max(hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z)
}
