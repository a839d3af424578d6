package results

import (
	"fmt"
	"math"
)

// Dataset is an Element x Component grid of force samples.
// Cells that were never written are absent, not zero.
type Dataset struct {
	elements   []int
	components []string
	elemIndex  map[int]int
	compIndex  map[string]int
	values     [][]float64
	present    [][]bool
}

// NewDataset builds a dense dataset. values is indexed [element][component].
func NewDataset(elements []int, components []string, values [][]float64) (*Dataset, error) {
	d, err := newEmptyDataset(elements, components)
	if err != nil {
		return nil, err
	}
	if len(values) != len(elements) {
		return nil, fmt.Errorf("dataset has %d value rows for %d elements", len(values), len(elements))
	}
	for i, row := range values {
		if len(row) != len(components) {
			return nil, fmt.Errorf("dataset row for element %d has %d values, want %d", elements[i], len(row), len(components))
		}
		for j, v := range row {
			d.values[i][j] = v
			d.present[i][j] = true
		}
	}
	return d, nil
}

// Record is one sample in long form
type Record struct {
	Element   int     `yaml:"element" json:"element"`
	Component string  `yaml:"component" json:"component" validate:"required"`
	Value     float64 `yaml:"value" json:"value"`
}

// NewDatasetFromRecords builds a dataset from long-form samples. Axis order
// follows first appearance; a repeated (element, component) is an error.
func NewDatasetFromRecords(records []Record) (*Dataset, error) {
	var elements []int
	var components []string
	seenE := make(map[int]bool)
	seenC := make(map[string]bool)
	for _, r := range records {
		if !seenE[r.Element] {
			seenE[r.Element] = true
			elements = append(elements, r.Element)
		}
		if !seenC[r.Component] {
			seenC[r.Component] = true
			components = append(components, r.Component)
		}
	}

	d, err := newEmptyDataset(elements, components)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		i, j := d.elemIndex[r.Element], d.compIndex[r.Component]
		if d.present[i][j] {
			return nil, fmt.Errorf("duplicate sample for element %d, component %q", r.Element, r.Component)
		}
		d.values[i][j] = r.Value
		d.present[i][j] = true
	}
	return d, nil
}

func newEmptyDataset(elements []int, components []string) (*Dataset, error) {
	d := &Dataset{
		elements:   append([]int(nil), elements...),
		components: append([]string(nil), components...),
		elemIndex:  make(map[int]int, len(elements)),
		compIndex:  make(map[string]int, len(components)),
		values:     make([][]float64, len(elements)),
		present:    make([][]bool, len(elements)),
	}
	for i, e := range elements {
		if _, dup := d.elemIndex[e]; dup {
			return nil, fmt.Errorf("duplicate element %d on dataset element axis", e)
		}
		d.elemIndex[e] = i
		d.values[i] = make([]float64, len(components))
		d.present[i] = make([]bool, len(components))
		for j := range d.values[i] {
			d.values[i][j] = math.NaN()
		}
	}
	for j, c := range components {
		if c == "" {
			return nil, fmt.Errorf("empty component name at position %d", j)
		}
		if _, dup := d.compIndex[c]; dup {
			return nil, fmt.Errorf("duplicate component %q on dataset component axis", c)
		}
		d.compIndex[c] = j
	}
	return d, nil
}

// Components returns the component axis
func (d *Dataset) Components() []string {
	return append([]string(nil), d.components...)
}

// Elements returns the element axis
func (d *Dataset) Elements() []int {
	return append([]int(nil), d.elements...)
}

// HasComponent reports whether name is on the component axis
func (d *Dataset) HasComponent(name string) bool {
	_, ok := d.compIndex[name]
	return ok
}

// Lookup returns the sample at (element, component)
func (d *Dataset) Lookup(element int, component string) (float64, bool) {
	i, ok := d.elemIndex[element]
	if !ok {
		return 0, false
	}
	j, ok := d.compIndex[component]
	if !ok || !d.present[i][j] {
		return 0, false
	}
	return d.values[i][j], true
}
