package model

import (
	"errors"

	"go.uber.org/zap"
)

// Detection is the outcome of scanning a bundle with a matcher list
type Detection struct {
	Bundle  string
	Name    string  // chosen value
	Value   any     // chosen value contents
	Matcher Matcher // matcher that accepted it

	Matches  []string // every matching value name, chosen one first
	Rejected []Rejection
}

// Detect scans the bundle values in enumeration order and picks the first
// one accepted by any matcher. Later matches are recorded but not used.
func Detect(b *Bundle, matchers []Matcher) (*Detection, error) {
	var found *Detection
	var matches []string
	var rejected []Rejection

	for _, nv := range b.Values {
		m, err := match(nv.Value, matchers)
		if err == nil {
			matches = append(matches, nv.Name)
			if found == nil {
				found = &Detection{Bundle: b.Name, Name: nv.Name, Value: nv.Value, Matcher: m}
			}
			continue
		}
		if se, ok := err.(*ShapeError); ok && se.Near {
			rejected = append(rejected, Rejection{Name: nv.Name, Reason: se.Error()})
		}
	}

	if found == nil {
		return nil, &SchemaNotFoundError{
			Bundle:    b.Name,
			Source:    b.Source,
			Rejected:  rejected,
			Available: b.Names(),
			Expected:  expectedFormats(matchers),
		}
	}
	found.Matches = matches
	found.Rejected = rejected
	return found, nil
}

// Ambiguous reports whether more than one value matched
func (d *Detection) Ambiguous() bool {
	return len(d.Matches) > 1
}

// NormalizeNodes converts a detected nodes value to node id -> coordinate
func NormalizeNodes(d *Detection) (map[int]Vec3, error) {
	nodes := make(map[int]Vec3)
	add := func(i int, id any, xyz []any) error {
		nid, err := toID(id)
		if err != nil {
			return &CoercionError{Bundle: d.Bundle, Value: d.Name, Index: i, Reason: err.Error()}
		}
		var c [3]float64
		for k := range c {
			if c[k], err = toCoord(xyz[k]); err != nil {
				return &CoercionError{Bundle: d.Bundle, Value: d.Name, Index: i, Reason: err.Error()}
			}
		}
		if _, dup := nodes[nid]; dup {
			return &DuplicateIDError{Bundle: d.Bundle, Value: d.Name, ID: nid}
		}
		nodes[nid] = Vec3{X: c[0], Y: c[1], Z: c[2]}
		return nil
	}

	err := eachEntry(d, 3, add)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// NormalizeElements converts a detected elements value to element id -> (start, end)
func NormalizeElements(d *Detection) (map[int]Element, error) {
	elems := make(map[int]Element)
	add := func(i int, id any, conn []any) error {
		eid, err := toID(id)
		if err != nil {
			return &CoercionError{Bundle: d.Bundle, Value: d.Name, Index: i, Reason: err.Error()}
		}
		ni, err := toID(conn[0])
		if err != nil {
			return &CoercionError{Bundle: d.Bundle, Value: d.Name, Index: i, Reason: "start node: " + err.Error()}
		}
		nj, err := toID(conn[1])
		if err != nil {
			return &CoercionError{Bundle: d.Bundle, Value: d.Name, Index: i, Reason: "end node: " + err.Error()}
		}
		if _, dup := elems[eid]; dup {
			return &DuplicateIDError{Bundle: d.Bundle, Value: d.Name, ID: eid}
		}
		elems[eid] = Element{Start: ni, End: nj}
		return nil
	}

	err := eachEntry(d, 2, add)
	if err != nil {
		return nil, err
	}
	return elems, nil
}

// eachEntry walks a detected value through the matcher that accepted it.
// Coercion errors raised by the matcher are tagged with the bundle and
// value names.
func eachEntry(d *Detection, width int, fn func(i int, id any, fields []any) error) error {
	err := d.Matcher.Entries(d.Value, width, fn)
	var ce *CoercionError
	if errors.As(err, &ce) && ce.Bundle == "" {
		ce.Bundle, ce.Value = d.Bundle, d.Name
	}
	return err
}

// Report describes which bundle values became the model
type Report struct {
	Nodes    *Detection
	Elements *Detection
}

// Option configures Normalize and Load
type Option func(*options)

type options struct {
	logger          *zap.Logger
	nodeMatchers    []Matcher
	elementMatchers []Matcher
}

// WithLogger sets the logger used to report detection choices
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNodeMatchers replaces the node shape matchers
func WithNodeMatchers(m ...Matcher) Option {
	return func(o *options) { o.nodeMatchers = m }
}

// WithElementMatchers replaces the element shape matchers
func WithElementMatchers(m ...Matcher) Option {
	return func(o *options) { o.elementMatchers = m }
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:          zap.NewNop(),
		nodeMatchers:    NodeMatchers,
		elementMatchers: ElementMatchers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Normalize detects the node and element values of two bundles and builds
// the canonical model tables.
func Normalize(nodes, elements *Bundle, opts ...Option) (*Model, *Report, error) {
	o := newOptions(opts)

	nd, err := Detect(nodes, o.nodeMatchers)
	if err != nil {
		return nil, nil, err
	}
	logDetection(o.logger, nd)

	ed, err := Detect(elements, o.elementMatchers)
	if err != nil {
		return nil, nil, err
	}
	logDetection(o.logger, ed)

	nodeTable, err := NormalizeNodes(nd)
	if err != nil {
		return nil, nil, err
	}
	elemTable, err := NormalizeElements(ed)
	if err != nil {
		return nil, nil, err
	}

	o.logger.Debug("model normalized",
		zap.Int("nodes", len(nodeTable)),
		zap.Int("elements", len(elemTable)))

	return &Model{Nodes: nodeTable, Elements: elemTable}, &Report{Nodes: nd, Elements: ed}, nil
}

// Load reads the nodes and elements files and normalizes them
func Load(nodesPath, elementsPath string, opts ...Option) (*Model, *Report, error) {
	nb, err := LoadBundle("nodes", nodesPath)
	if err != nil {
		return nil, nil, err
	}
	eb, err := LoadBundle("elements", elementsPath)
	if err != nil {
		return nil, nil, err
	}
	return Normalize(nb, eb, opts...)
}

func logDetection(l *zap.Logger, d *Detection) {
	l.Debug("bundle value detected",
		zap.String("bundle", d.Bundle),
		zap.String("value", d.Name),
		zap.String("form", string(d.Matcher.Form())))
	if d.Ambiguous() {
		l.Warn("several values match; using the first in name order",
			zap.String("bundle", d.Bundle),
			zap.String("chosen", d.Name),
			zap.Strings("matches", d.Matches))
	}
}
