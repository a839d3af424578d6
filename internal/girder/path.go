package girder

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/alexiusacademia/gofd/internal/results"
	"golang.org/x/sync/errgroup"
)

// Group is a named chain of elements, ordered head to tail
type Group struct {
	Name     string
	Elements []int
}

// Kind is one diagram drawn over every group, e.g. shear or moment
type Kind struct {
	Name  string
	Pair  results.Pair
	Scale float64 // multiplier applied to the force before offsetting
}

// PathSpec configures BuildPaths
type PathSpec struct {
	Groups []Group
	Axis   model.Axis // displacement axis
	Kinds  []Kind

	// CheckContinuity rejects chains whose consecutive elements do not share
	// a node. Without it the chain order is trusted as given.
	CheckContinuity bool

	// Workers > 1 builds groups concurrently. Output is identical to a
	// sequential run.
	Workers int
}

// Segment joins a base path point to its displaced counterpart
type Segment struct {
	From model.Vec3
	To   model.Vec3
}

// Overlay is the diagram of one group for one kind
type Overlay struct {
	Group      string
	Nodes      []int
	Forces     []float64
	Base       []model.Vec3
	Displaced  []model.Vec3
	Connectors []Segment
}

// PathDiagram collects the overlays of every group for one kind
type PathDiagram struct {
	Kind     Kind
	Axis     model.Axis
	Overlays []Overlay
}

// MaxAbsForce returns the largest absolute node force over all overlays
func (d *PathDiagram) MaxAbsForce() float64 {
	var m float64
	for _, o := range d.Overlays {
		for _, f := range o.Forces {
			m = math.Max(m, math.Abs(f))
		}
	}
	return m
}

// BuildPaths reconstructs the node path of every group and offsets it along
// the displacement axis by scale*force, once per kind. Result order follows
// spec.Kinds, and overlays within a diagram follow spec.Groups.
func BuildPaths(m *model.Model, store results.Store, spec PathSpec) ([]PathDiagram, error) {
	if len(spec.Kinds) == 0 {
		return nil, fmt.Errorf("no diagram kinds requested")
	}
	for _, k := range spec.Kinds {
		if err := results.RequirePairs(store, k.Pair); err != nil {
			return nil, err
		}
	}

	// perGroup[g][k] is the overlay of group g for kind k
	perGroup := make([][]Overlay, len(spec.Groups))
	errs := make([]error, len(spec.Groups))

	build := func(g int) {
		perGroup[g], errs[g] = buildGroup(m, store, spec, spec.Groups[g])
	}

	if spec.Workers > 1 && len(spec.Groups) > 1 {
		var eg errgroup.Group
		eg.SetLimit(spec.Workers)
		for g := range spec.Groups {
			eg.Go(func() error {
				build(g)
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for g := range spec.Groups {
			build(g)
			if errs[g] != nil {
				break
			}
		}
	}

	// report the first failing group in input order
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	diagrams := make([]PathDiagram, len(spec.Kinds))
	for k, kind := range spec.Kinds {
		diagrams[k] = PathDiagram{Kind: kind, Axis: spec.Axis, Overlays: make([]Overlay, len(spec.Groups))}
		for g := range spec.Groups {
			diagrams[k].Overlays[g] = perGroup[g][k]
		}
	}
	return diagrams, nil
}

func buildGroup(m *model.Model, store results.Store, spec PathSpec, grp Group) ([]Overlay, error) {
	if len(grp.Elements) == 0 {
		return nil, &EmptyGroupError{Group: grp.Name}
	}

	chain := make([]model.Element, len(grp.Elements))
	for i, id := range grp.Elements {
		el, ok := m.Element(id)
		if !ok {
			return nil, &MissingElementError{Group: grp.Name, Element: id}
		}
		chain[i] = el
	}

	if spec.CheckContinuity {
		if err := checkChain(grp, chain); err != nil {
			return nil, err
		}
	}

	nodes, base, err := nodePath(m, grp, chain)
	if err != nil {
		return nil, err
	}

	overlays := make([]Overlay, len(spec.Kinds))
	for k, kind := range spec.Kinds {
		forces, err := nodeForces(store, grp.Elements, kind.Pair)
		if err != nil {
			return nil, err
		}
		displaced := Displace(base, forces, spec.Axis, kind.Scale)
		overlays[k] = Overlay{
			Group:      grp.Name,
			Nodes:      nodes,
			Forces:     forces,
			Base:       base,
			Displaced:  displaced,
			Connectors: Connect(base, displaced),
		}
	}
	return overlays, nil
}

func checkChain(grp Group, chain []model.Element) error {
	for i := 0; i+1 < len(chain); i++ {
		if chain[i].End != chain[i+1].Start {
			return &DiscontinuousChainError{
				Group: grp.Name,
				Index: i,
				Prev:  grp.Elements[i],
				Next:  grp.Elements[i+1],
				End:   chain[i].End,
				Start: chain[i+1].Start,
			}
		}
	}
	return nil
}

// nodePath is the start node of the first element followed by the end node
// of every element, len(chain)+1 points.
func nodePath(m *model.Model, grp Group, chain []model.Element) ([]int, []model.Vec3, error) {
	ids := make([]int, 0, len(chain)+1)
	ids = append(ids, chain[0].Start)
	for _, el := range chain {
		ids = append(ids, el.End)
	}

	pts := make([]model.Vec3, len(ids))
	for i, id := range ids {
		p, ok := m.Node(id)
		if !ok {
			owner := grp.Elements[0]
			if i > 0 {
				owner = grp.Elements[i-1]
			}
			return nil, nil, &MissingNodeError{Group: grp.Name, Element: owner, Node: id}
		}
		pts[i] = p
	}
	return ids, pts, nil
}

// nodeForces is aligned with nodePath: the start value of the first element
// followed by the end value of every element.
func nodeForces(store results.Store, elements []int, p results.Pair) ([]float64, error) {
	out := make([]float64, 0, len(elements)+1)
	for i, id := range elements {
		if i == 0 {
			v, err := results.Force(store, id, p.Start)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		v, err := results.Force(store, id, p.End)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Displace returns a copy of base with scale*forces[k] added to axis at
// every point k. It never reorders or drops points.
func Displace(base []model.Vec3, forces []float64, axis model.Axis, scale float64) []model.Vec3 {
	out := make([]model.Vec3, len(base))
	if scale == 0 {
		copy(out, base)
		return out
	}
	for k, p := range base {
		out[k] = p.With(axis, p.Get(axis)+scale*forces[k])
	}
	return out
}

// Connect pairs base[k] with displaced[k]
func Connect(base, displaced []model.Vec3) []Segment {
	segs := make([]Segment, len(base))
	for k := range base {
		segs[k] = Segment{From: base[k], To: displaced[k]}
	}
	return segs
}
