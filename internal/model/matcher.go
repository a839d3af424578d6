package model

import "fmt"

// Form is the encoding a matcher recognises
type Form string

const (
	FormMapping Form = "mapping"
	FormRows    Form = "rows"
)

// Matcher decides whether a bundle value has a supported shape.
// Matchers only look at the first entry or row; later entries are
// checked when the value is normalized.
//
// Entries walks a matched value as (id, fields) pairs where fields has
// exactly width items. Entry failures are returned as *CoercionError;
// the bundle and value names are filled in by the caller.
type Matcher interface {
	Form() Form
	Expected() string
	Match(v any) error
	Entries(v any, width int, fn func(i int, id any, fields []any) error) error
}

// ShapeError explains why a value did not match.
// Near is set for non-empty containers, the values worth reporting back
// to whoever wrote the source file.
type ShapeError struct {
	Form   Form
	Reason string
	Near   bool
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Form, e.Reason)
}

// NodeMatchers recognise {node_id: (x, y, z)} and [[node_id, x, y, z], ...]
var NodeMatchers = []Matcher{
	mappingMatcher{arity: 3, accept: isNumber, want: "numbers", expected: "dict: {node_id: (x, y, z)}"},
	rowsMatcher{arity: 4, head: isRef, accept: isNumber, want: "numbers", expected: "rows: [[node_id, x, y, z], ...]"},
}

// ElementMatchers recognise {elem_id: (node_i, node_j)} and [[elem_id, node_i, node_j], ...]
var ElementMatchers = []Matcher{
	mappingMatcher{arity: 2, accept: isRef, want: "numbers or strings", expected: "dict: {elem_id: (node_i, node_j)}"},
	rowsMatcher{arity: 3, head: isRef, accept: isRef, want: "numbers or strings", expected: "rows: [[elem_id, node_i, node_j], ...]"},
}

type mappingMatcher struct {
	arity    int
	accept   func(any) bool
	want     string
	expected string
}

func (m mappingMatcher) Form() Form       { return FormMapping }
func (m mappingMatcher) Expected() string { return m.expected }

func (m mappingMatcher) Match(v any) error {
	mp, ok := v.(Mapping)
	if !ok {
		return &ShapeError{Form: FormMapping, Reason: fmt.Sprintf("value is a %s", typeName(v))}
	}
	if len(mp) == 0 {
		return &ShapeError{Form: FormMapping, Reason: "mapping is empty"}
	}
	first := mp[0]
	if !isKey(first.Key) {
		return &ShapeError{Form: FormMapping, Reason: fmt.Sprintf("first key is a %s, want int or string", typeName(first.Key)), Near: true}
	}
	seq, ok := first.Value.(Sequence)
	if !ok {
		return &ShapeError{Form: FormMapping, Reason: fmt.Sprintf("first value is a %s, want a list of %d", typeName(first.Value), m.arity), Near: true}
	}
	if len(seq) != m.arity {
		return &ShapeError{Form: FormMapping, Reason: fmt.Sprintf("first value has %d items, want %d", len(seq), m.arity), Near: true}
	}
	for i, item := range seq {
		if !m.accept(item) {
			return &ShapeError{Form: FormMapping, Reason: fmt.Sprintf("first value item %d is a %s, want %s", i, typeName(item), m.want), Near: true}
		}
	}
	return nil
}

func (m mappingMatcher) Entries(v any, width int, fn func(i int, id any, fields []any) error) error {
	mp, ok := v.(Mapping)
	if !ok {
		return &CoercionError{Reason: fmt.Sprintf("value is a %s", typeName(v))}
	}
	for i, e := range mp {
		seq, ok := e.Value.(Sequence)
		if !ok || len(seq) != width {
			return &CoercionError{Index: i, Reason: fmt.Sprintf("want a list of %d items", width)}
		}
		if err := fn(i, e.Key, seq); err != nil {
			return err
		}
	}
	return nil
}

type rowsMatcher struct {
	arity    int
	head     func(any) bool
	accept   func(any) bool
	want     string
	expected string
}

func (m rowsMatcher) Form() Form       { return FormRows }
func (m rowsMatcher) Expected() string { return m.expected }

func (m rowsMatcher) Match(v any) error {
	rows, ok := v.(Sequence)
	if !ok {
		return &ShapeError{Form: FormRows, Reason: fmt.Sprintf("value is a %s", typeName(v))}
	}
	if len(rows) == 0 {
		return &ShapeError{Form: FormRows, Reason: "sequence is empty"}
	}
	row, ok := rows[0].(Sequence)
	if !ok {
		return &ShapeError{Form: FormRows, Reason: fmt.Sprintf("first row is a %s, want a list of %d", typeName(rows[0]), m.arity), Near: true}
	}
	if len(row) != m.arity {
		return &ShapeError{Form: FormRows, Reason: fmt.Sprintf("first row has %d items, want %d", len(row), m.arity), Near: true}
	}
	if !m.head(row[0]) {
		return &ShapeError{Form: FormRows, Reason: fmt.Sprintf("first row id is a %s", typeName(row[0])), Near: true}
	}
	for i, item := range row[1:] {
		if !m.accept(item) {
			return &ShapeError{Form: FormRows, Reason: fmt.Sprintf("first row item %d is a %s, want %s", i+1, typeName(item), m.want), Near: true}
		}
	}
	return nil
}

func (m rowsMatcher) Entries(v any, width int, fn func(i int, id any, fields []any) error) error {
	rows, ok := v.(Sequence)
	if !ok {
		return &CoercionError{Reason: fmt.Sprintf("value is a %s", typeName(v))}
	}
	for i, r := range rows {
		row, ok := r.(Sequence)
		if !ok || len(row) != width+1 {
			return &CoercionError{Index: i, Reason: fmt.Sprintf("want a row of %d items", width+1)}
		}
		if err := fn(i, row[0], row[1:]); err != nil {
			return err
		}
	}
	return nil
}

// match returns the first matcher accepting v. When none does, the returned
// error is the first near-miss, or the last plain mismatch.
func match(v any, matchers []Matcher) (Matcher, error) {
	var near, last error
	for _, m := range matchers {
		err := m.Match(v)
		if err == nil {
			return m, nil
		}
		last = err
		if se, ok := err.(*ShapeError); ok && se.Near && near == nil {
			near = err
		}
	}
	if near != nil {
		return nil, near
	}
	return nil, last
}

func expectedFormats(matchers []Matcher) []string {
	out := make([]string, len(matchers))
	for i, m := range matchers {
		out[i] = m.Expected()
	}
	return out
}
