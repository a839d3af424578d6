// Package girder turns per-element force samples into ordered diagram data:
// station-sorted series along one structural line, and displaced node paths
// for groups of chained elements.
package girder

import (
	"fmt"
	"sort"

	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/alexiusacademia/gofd/internal/results"
)

// LineSpec describes one structural line
type LineSpec struct {
	Name        string
	Elements    []int
	StationAxis model.Axis
	Pairs       []results.Pair
}

// Series holds the values of one component pair, aligned with Stations
type Series struct {
	Pair   results.Pair
	Values []float64
}

// LineDiagram is the station-sorted output of BuildLine
type LineDiagram struct {
	Name     string
	Axis     model.Axis
	Stations []float64
	Series   []Series
}

// Values returns the series for pair, or nil when it was not requested
func (d *LineDiagram) Values(p results.Pair) []float64 {
	for _, s := range d.Series {
		if s.Pair == p {
			return s.Values
		}
	}
	return nil
}

type linePoint struct {
	station float64
	values  []float64
}

// BuildLine samples every element at both ends and sorts the samples by
// station. Elements sharing a node both contribute a point at that station;
// the stable sort keeps them in input order. The result always holds
// 2*len(spec.Elements) points.
func BuildLine(m *model.Model, store results.Store, spec LineSpec) (*LineDiagram, error) {
	if len(spec.Pairs) == 0 {
		return nil, fmt.Errorf("%s: no component pairs requested", spec.Name)
	}
	if err := results.RequirePairs(store, spec.Pairs...); err != nil {
		return nil, err
	}

	points := make([]linePoint, 0, 2*len(spec.Elements))
	for _, id := range spec.Elements {
		el, ok := m.Element(id)
		if !ok {
			return nil, &MissingElementError{Group: spec.Name, Element: id}
		}
		pi, ok := m.Node(el.Start)
		if !ok {
			return nil, &MissingNodeError{Group: spec.Name, Element: id, Node: el.Start}
		}
		pj, ok := m.Node(el.End)
		if !ok {
			return nil, &MissingNodeError{Group: spec.Name, Element: id, Node: el.End}
		}

		start := linePoint{station: pi.Get(spec.StationAxis), values: make([]float64, len(spec.Pairs))}
		end := linePoint{station: pj.Get(spec.StationAxis), values: make([]float64, len(spec.Pairs))}
		for k, p := range spec.Pairs {
			vi, vj, err := results.Forces(store, id, p)
			if err != nil {
				return nil, err
			}
			start.values[k] = vi
			end.values[k] = vj
		}
		points = append(points, start, end)
	}

	sort.SliceStable(points, func(a, b int) bool {
		return points[a].station < points[b].station
	})

	d := &LineDiagram{
		Name:     spec.Name,
		Axis:     spec.StationAxis,
		Stations: make([]float64, len(points)),
		Series:   make([]Series, len(spec.Pairs)),
	}
	for k, p := range spec.Pairs {
		d.Series[k] = Series{Pair: p, Values: make([]float64, len(points))}
	}
	for n, pt := range points {
		d.Stations[n] = pt.station
		for k := range spec.Pairs {
			d.Series[k].Values[n] = pt.values[k]
		}
	}
	return d, nil
}
