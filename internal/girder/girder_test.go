package girder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/alexiusacademia/gofd/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	moment = results.PairFor("Mz")
	shear  = results.PairFor("Vy")
)

// singleElement is nodes {1:(0,0,0), 2:(5,0,0)}, elements {10:(1,2)}
func singleElement(t *testing.T) (*model.Model, *results.Dataset) {
	t.Helper()
	m := &model.Model{
		Nodes:    map[int]model.Vec3{1: {X: 0}, 2: {X: 5}},
		Elements: map[int]model.Element{10: {Start: 1, End: 2}},
	}
	d, err := results.NewDataset([]int{10}, []string{"Mz_i", "Mz_j", "Vy_i", "Vy_j"},
		[][]float64{{3.0, -2.0, 1.0, 2.0}})
	require.NoError(t, err)
	return m, d
}

// deck builds three parallel girders of three elements each. Girder g runs
// along x at z = 2g through nodes 100g+0..3; its elements are 10(g+1)+0..2.
func deck(t *testing.T) (*model.Model, *results.Dataset, []Group) {
	t.Helper()
	m := &model.Model{Nodes: map[int]model.Vec3{}, Elements: map[int]model.Element{}}
	var groups []Group
	var elements []int
	var values [][]float64
	for g := 0; g < 3; g++ {
		for k := 0; k <= 3; k++ {
			m.Nodes[100*g+k] = model.Vec3{X: 5 * float64(k), Z: 2 * float64(g)}
		}
		grp := Group{Name: fmt.Sprintf("Girder %d", g+1)}
		for k := 0; k < 3; k++ {
			id := 10*(g+1) + k
			m.Elements[id] = model.Element{Start: 100*g + k, End: 100*g + k + 1}
			grp.Elements = append(grp.Elements, id)
			elements = append(elements, id)
			f := float64(id)
			values = append(values, []float64{f, -f, f / 10, -f / 10})
		}
		groups = append(groups, grp)
	}
	d, err := results.NewDataset(elements, []string{"Mz_i", "Mz_j", "Vy_i", "Vy_j"}, values)
	require.NoError(t, err)
	return m, d, groups
}

func TestBuildLine_SingleElement(t *testing.T) {
	m, d := singleElement(t)

	line, err := BuildLine(m, d, LineSpec{Name: "central", Elements: []int{10}, Pairs: []results.Pair{moment, shear}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5}, line.Stations)
	assert.Equal(t, []float64{3.0, -2.0}, line.Values(moment))
	assert.Equal(t, []float64{1.0, 2.0}, line.Values(shear))
	assert.Nil(t, line.Values(results.PairFor("Fx")))
}

func TestBuildLine_SortedAndSized(t *testing.T) {
	m, d, groups := deck(t)
	elems := []int{12, 10, 11}

	line, err := BuildLine(m, d, LineSpec{Name: groups[0].Name, Elements: elems, Pairs: []results.Pair{moment}})
	require.NoError(t, err)
	require.Len(t, line.Stations, 2*len(elems))
	require.Len(t, line.Values(moment), 2*len(elems))
	for i := 1; i < len(line.Stations); i++ {
		assert.LessOrEqual(t, line.Stations[i-1], line.Stations[i])
	}
	assert.Equal(t, []float64{0, 5, 5, 10, 10, 15}, line.Stations)
}

func TestBuildLine_StableTieBreak(t *testing.T) {
	m, d, _ := deck(t)

	// element 12 spans x 10..15 and element 11 spans x 5..10; both have a
	// sample at x=10 and 12 is listed first.
	line, err := BuildLine(m, d, LineSpec{Name: "line", Elements: []int{12, 11}, Pairs: []results.Pair{moment}})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10, 10, 15}, line.Stations)
	assert.Equal(t, []float64{11, 12, -11, -12}, line.Values(moment))

	line, err = BuildLine(m, d, LineSpec{Name: "line", Elements: []int{11, 12}, Pairs: []results.Pair{moment}})
	require.NoError(t, err)
	assert.Equal(t, []float64{11, -11, 12, -12}, line.Values(moment))
}

func TestBuildLine_StationAxis(t *testing.T) {
	m := &model.Model{
		Nodes:    map[int]model.Vec3{1: {X: 9, Z: 4}, 2: {X: 0, Z: 1}},
		Elements: map[int]model.Element{10: {Start: 1, End: 2}},
	}
	_, d := singleElement(t)

	line, err := BuildLine(m, d, LineSpec{Elements: []int{10}, StationAxis: model.AxisZ, Pairs: []results.Pair{moment}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4}, line.Stations)
	assert.Equal(t, []float64{-2.0, 3.0}, line.Values(moment))
}

func TestBuildLine_Errors(t *testing.T) {
	m, d := singleElement(t)

	t.Run("missing element", func(t *testing.T) {
		_, err := BuildLine(m, d, LineSpec{Name: "central", Elements: []int{10, 99}, Pairs: []results.Pair{moment}})
		var me *MissingElementError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, 99, me.Element)
		assert.Equal(t, "central: element 99 not found in elements", err.Error())
	})

	t.Run("missing node", func(t *testing.T) {
		broken := &model.Model{Nodes: map[int]model.Vec3{1: {}}, Elements: m.Elements}
		_, err := BuildLine(broken, d, LineSpec{Name: "central", Elements: []int{10}, Pairs: []results.Pair{moment}})
		var mn *MissingNodeError
		require.True(t, errors.As(err, &mn))
		assert.Equal(t, 2, mn.Node)
	})

	t.Run("missing component fails before lookups", func(t *testing.T) {
		_, err := BuildLine(m, d, LineSpec{Elements: []int{99}, Pairs: []results.Pair{results.PairFor("Fx")}})
		var cnf *results.ComponentNotFoundError
		require.True(t, errors.As(err, &cnf))
		assert.Equal(t, "Fx_i", cnf.Name)
	})

	t.Run("results disagree with model", func(t *testing.T) {
		more := &model.Model{
			Nodes:    m.Nodes,
			Elements: map[int]model.Element{10: {Start: 1, End: 2}, 11: {Start: 2, End: 1}},
		}
		_, err := BuildLine(more, d, LineSpec{Elements: []int{10, 11}, Pairs: []results.Pair{moment}})
		var le *results.LookupError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, 11, le.Element)
	})

	t.Run("no pairs", func(t *testing.T) {
		_, err := BuildLine(m, d, LineSpec{Name: "central", Elements: []int{10}})
		assert.Error(t, err)
	})
}

func TestBuildPaths_SingleElement(t *testing.T) {
	m, d := singleElement(t)

	diagrams, err := BuildPaths(m, d, PathSpec{
		Groups: []Group{{Name: "G", Elements: []int{10}}},
		Axis:   model.AxisY,
		Kinds:  []Kind{{Name: "SFD", Pair: shear, Scale: 1}},
	})
	require.NoError(t, err)
	require.Len(t, diagrams, 1)
	o := diagrams[0].Overlays[0]

	assert.Equal(t, []model.Vec3{{X: 0}, {X: 5}}, o.Base)
	assert.Equal(t, []model.Vec3{{X: 0, Y: 1}, {X: 5, Y: 2}}, o.Displaced)
	assert.Equal(t, []int{1, 2}, o.Nodes)
	require.Len(t, o.Connectors, 2)
	assert.Equal(t, Segment{From: model.Vec3{X: 5}, To: model.Vec3{X: 5, Y: 2}}, o.Connectors[1])
}

func TestBuildPaths_LengthInvariant(t *testing.T) {
	m, d, groups := deck(t)

	diagrams, err := BuildPaths(m, d, PathSpec{
		Groups: groups,
		Axis:   model.AxisY,
		Kinds:  []Kind{{Name: "SFD", Pair: shear, Scale: 1}, {Name: "BMD", Pair: moment, Scale: 0.5}},
	})
	require.NoError(t, err)
	require.Len(t, diagrams, 2)
	assert.Equal(t, "SFD", diagrams[0].Kind.Name)
	assert.Equal(t, "BMD", diagrams[1].Kind.Name)

	for _, pd := range diagrams {
		require.Len(t, pd.Overlays, len(groups))
		for g, o := range pd.Overlays {
			n := len(groups[g].Elements) + 1
			assert.Equal(t, groups[g].Name, o.Group)
			assert.Len(t, o.Base, n)
			assert.Len(t, o.Displaced, n)
			assert.Len(t, o.Connectors, n)
			assert.Len(t, o.Forces, n)
		}
	}

	// Girder 2, moment: start of element 20, then ends of 20, 21, 22
	o := diagrams[1].Overlays[1]
	assert.Equal(t, []float64{20, -20, -21, -22}, o.Forces)
	assert.Equal(t, []int{100, 101, 102, 103}, o.Nodes)
	assert.Equal(t, model.Vec3{X: 5, Y: -10, Z: 2}, o.Displaced[1])
}

func TestBuildPaths_IdentityAtZero(t *testing.T) {
	m, d, groups := deck(t)

	diagrams, err := BuildPaths(m, d, PathSpec{
		Groups: groups,
		Axis:   model.AxisY,
		Kinds:  []Kind{{Name: "BMD", Pair: moment, Scale: 0}},
	})
	require.NoError(t, err)
	for _, o := range diagrams[0].Overlays {
		assert.Equal(t, o.Base, o.Displaced)
	}

	var elements []int
	var zeros [][]float64
	for _, g := range groups {
		for _, e := range g.Elements {
			elements = append(elements, e)
			zeros = append(zeros, []float64{0, 0})
		}
	}
	zd, err := results.NewDataset(elements, []string{"Vy_i", "Vy_j"}, zeros)
	require.NoError(t, err)

	diagrams, err = BuildPaths(m, zd, PathSpec{
		Groups: groups,
		Axis:   model.AxisY,
		Kinds:  []Kind{{Name: "SFD", Pair: shear, Scale: 25}},
	})
	require.NoError(t, err)
	for _, o := range diagrams[0].Overlays {
		assert.Equal(t, o.Base, o.Displaced)
		for _, c := range o.Connectors {
			assert.Equal(t, c.From, c.To)
		}
	}
}

func TestBuildPaths_Continuity(t *testing.T) {
	m, d, _ := deck(t)
	broken := []Group{{Name: "Girder 1", Elements: []int{10, 12}}}

	diagrams, err := BuildPaths(m, d, PathSpec{Groups: broken, Axis: model.AxisY, Kinds: []Kind{{Pair: shear, Scale: 1}}})
	require.NoError(t, err, "chain order is trusted by default")
	assert.Equal(t, []int{0, 1, 3}, diagrams[0].Overlays[0].Nodes)

	_, err = BuildPaths(m, d, PathSpec{Groups: broken, Axis: model.AxisY, Kinds: []Kind{{Pair: shear, Scale: 1}}, CheckContinuity: true})
	var dc *DiscontinuousChainError
	require.True(t, errors.As(err, &dc))
	assert.Equal(t, 0, dc.Index)
	assert.Equal(t, 10, dc.Prev)
	assert.Equal(t, 12, dc.Next)
	assert.Equal(t, 1, dc.End)
	assert.Equal(t, 2, dc.Start)
}

func TestBuildPaths_EmptyGroup(t *testing.T) {
	m, d, groups := deck(t)
	groups = append(groups, Group{Name: "Spare"})

	_, err := BuildPaths(m, d, PathSpec{Groups: groups, Axis: model.AxisY, Kinds: []Kind{{Pair: moment, Scale: 1}}})
	var eg *EmptyGroupError
	require.True(t, errors.As(err, &eg))
	assert.Equal(t, "Spare", eg.Group)
	assert.EqualError(t, err, "Spare: no elements")
}

func TestBuildPaths_MissingElementNamesGroup(t *testing.T) {
	m, d, groups := deck(t)
	groups[1].Elements = append(groups[1].Elements, 77)
	groups[2].Elements = append(groups[2].Elements, 88)

	for _, workers := range []int{0, 4} {
		_, err := BuildPaths(m, d, PathSpec{Groups: groups, Axis: model.AxisY, Kinds: []Kind{{Pair: moment, Scale: 1}}, Workers: workers})
		var me *MissingElementError
		require.True(t, errors.As(err, &me), "workers=%d", workers)
		assert.Equal(t, "Girder 2", me.Group)
		assert.Equal(t, 77, me.Element)
	}
}

func TestBuildPaths_ParallelMatchesSequential(t *testing.T) {
	m, d, groups := deck(t)
	spec := PathSpec{
		Groups: groups,
		Axis:   model.AxisY,
		Kinds:  []Kind{{Name: "SFD", Pair: shear, Scale: 2}, {Name: "BMD", Pair: moment, Scale: 0.1}},
	}

	seq, err := BuildPaths(m, d, spec)
	require.NoError(t, err)

	spec.Workers = 3
	par, err := BuildPaths(m, d, spec)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestBuildPaths_MissingNode(t *testing.T) {
	m, d, groups := deck(t)
	delete(m.Nodes, 203)

	_, err := BuildPaths(m, d, PathSpec{Groups: groups, Axis: model.AxisY, Kinds: []Kind{{Pair: moment, Scale: 1}}})
	var mn *MissingNodeError
	require.True(t, errors.As(err, &mn))
	assert.Equal(t, "Girder 3", mn.Group)
	assert.Equal(t, 32, mn.Element)
	assert.Equal(t, 203, mn.Node)
}

func TestAutoScaleAndRescale(t *testing.T) {
	m, d, groups := deck(t)

	diagrams, err := BuildPaths(m, d, PathSpec{Groups: groups, Axis: model.AxisY, Kinds: []Kind{{Name: "BMD", Pair: moment, Scale: 1}}})
	require.NoError(t, err)

	pd := diagrams[0]
	assert.Equal(t, 32.0, pd.MaxAbsForce())

	// span is 15 along x
	sf := AutoScale(&pd, m, 0.2)
	assert.InDelta(t, 0.2*15/32.0, sf, 1e-12)

	scaled := Rescale(&pd, sf)
	assert.Equal(t, sf, scaled.Kind.Scale)
	last := scaled.Overlays[2]
	assert.InDelta(t, -32*sf, last.Displaced[3].Y, 1e-12)
	assert.Equal(t, pd.Overlays[2].Base, last.Base)
	// the original diagram is left untouched
	assert.Equal(t, -32.0, pd.Overlays[2].Displaced[3].Y)

	flat := PathDiagram{Overlays: []Overlay{{Forces: []float64{0, 1e-9}}}}
	assert.Equal(t, 1.0, AutoScale(&flat, m, 0.2))
}
