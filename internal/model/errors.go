package model

import (
	"fmt"
	"strings"
)

// Rejection is a bundle value that looked close to a supported shape
type Rejection struct {
	Name   string
	Reason string
}

// SchemaNotFoundError reports that no value of a bundle matched any
// supported shape. The message is meant to be enough to fix the source file.
type SchemaNotFoundError struct {
	Bundle    string
	Source    string
	Rejected  []Rejection
	Available []string
	Expected  []string
}

func (e *SchemaNotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s not detected", e.Bundle)
	if e.Source != "" {
		fmt.Fprintf(&sb, " in %s", e.Source)
	}
	sb.WriteString("\n")

	rejected := make([]string, len(e.Rejected))
	for i, r := range e.Rejected {
		rejected[i] = fmt.Sprintf("%s (%s)", r.Name, r.Reason)
	}
	fmt.Fprintf(&sb, "Candidates rejected: [%s]\n", strings.Join(rejected, ", "))
	fmt.Fprintf(&sb, "Available values: [%s]\n", strings.Join(e.Available, ", "))
	sb.WriteString("Expected formats:")
	for _, f := range e.Expected {
		fmt.Fprintf(&sb, "\n  %s", f)
	}
	return sb.String()
}

// CoercionError reports an entry of a detected value that cannot be
// converted to the canonical table form.
type CoercionError struct {
	Bundle string
	Value  string
	Index  int
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s %q: entry %d: %s", e.Bundle, e.Value, e.Index, e.Reason)
}

// DuplicateIDError reports two entries normalizing to the same id
type DuplicateIDError struct {
	Bundle string
	Value  string
	ID     int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %q: duplicate id %d", e.Bundle, e.Value, e.ID)
}
