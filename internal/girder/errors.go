package girder

import "fmt"

// EmptyGroupError reports a group with no elements
type EmptyGroupError struct {
	Group string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("%s: no elements", e.Group)
}

// MissingElementError reports an element id absent from the element table
type MissingElementError struct {
	Group   string
	Element int
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("%s: element %d not found in elements", e.Group, e.Element)
}

// MissingNodeError reports an element endpoint absent from the node table
type MissingNodeError struct {
	Group   string
	Element int
	Node    int
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("%s: node %d of element %d not found in nodes", e.Group, e.Node, e.Element)
}

// DiscontinuousChainError reports consecutive elements of a group that do
// not share a node: End of element Index differs from Start of the next one.
type DiscontinuousChainError struct {
	Group string
	Index int
	Prev  int
	Next  int
	End   int
	Start int
}

func (e *DiscontinuousChainError) Error() string {
	return fmt.Sprintf("%s: chain broken at position %d: element %d ends at node %d but element %d starts at node %d",
		e.Group, e.Index, e.Prev, e.End, e.Next, e.Start)
}
