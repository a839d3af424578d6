// Package results is the query layer over an analysis results store:
// per-element force samples addressed by element id and component name.
package results

import (
	"fmt"
	"strings"
)

// Store is a read-only results container
type Store interface {
	// Components lists the valid component names in store order
	Components() []string
	// HasComponent reports whether name is on the component axis
	HasComponent(name string) bool
	// Lookup returns the sample at (element, component)
	Lookup(element int, component string) (float64, bool)
}

// Pair names the start (i) and end (j) samples of one force quantity
type Pair struct {
	Start string
	End   string
}

// PairFor builds the conventional pair for a quantity, e.g. "Mz" -> Mz_i, Mz_j
func PairFor(quantity string) Pair {
	return Pair{Start: quantity + "_i", End: quantity + "_j"}
}

// Quantity strips the _i suffix from the start component
func (p Pair) Quantity() string {
	return strings.TrimSuffix(p.Start, "_i")
}

func (p Pair) String() string {
	return p.Start + "/" + p.End
}

// ComponentNotFoundError reports a component missing from the store
type ComponentNotFoundError struct {
	Name      string
	Available []string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %q not found in dataset\nAvailable components: [%s]",
		e.Name, strings.Join(e.Available, ", "))
}

// LookupError reports a missing (element, component) sample. It means the
// dataset and the model disagree on the element set.
type LookupError struct {
	Element   int
	Component string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no force sample for element %d, component %q", e.Element, e.Component)
}

// RequireComponent fails when name is not on the store's component axis
func RequireComponent(s Store, name string) error {
	if !s.HasComponent(name) {
		return &ComponentNotFoundError{Name: name, Available: s.Components()}
	}
	return nil
}

// RequireComponents checks each name in order and stops at the first missing one
func RequireComponents(s Store, names ...string) error {
	for _, n := range names {
		if err := RequireComponent(s, n); err != nil {
			return err
		}
	}
	return nil
}

// RequirePairs checks both components of every pair
func RequirePairs(s Store, pairs ...Pair) error {
	for _, p := range pairs {
		if err := RequireComponents(s, p.Start, p.End); err != nil {
			return err
		}
	}
	return nil
}

// Force returns the sample at (element, component)
func Force(s Store, element int, component string) (float64, error) {
	v, ok := s.Lookup(element, component)
	if !ok {
		return 0, &LookupError{Element: element, Component: component}
	}
	return v, nil
}

// Forces returns the start and end samples of a pair for one element
func Forces(s Store, element int, p Pair) (start, end float64, err error) {
	if start, err = Force(s, element, p.Start); err != nil {
		return 0, 0, err
	}
	if end, err = Force(s, element, p.End); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
