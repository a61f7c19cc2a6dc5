package sgraph

import "errors"

// Sentinel errors for Graph.Validate. Callers branch on these via errors.Is.
var (
	// ErrDanglingWire indicates a wire references a node id absent from Nodes.
	ErrDanglingWire = errors.New("sgraph: wire references unknown node")

	// ErrPortOutOfRange indicates a wire references a port index outside
	// [0, input_count) or [0, output_count).
	ErrPortOutOfRange = errors.New("sgraph: port index out of range")

	// ErrDuplicateTargetPort indicates two wires target the same input
	// port; spec.md §3 requires every target port to be uniquely sourced.
	ErrDuplicateTargetPort = errors.New("sgraph: input port has more than one incoming wire")
)
