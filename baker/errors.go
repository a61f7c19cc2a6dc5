package baker

import "errors"

// ErrBidirectionalConflict is returned by Bake when a bidirectional
// connection point carries both incoming and outgoing wires (spec.md
// §4.6 step 1: this is reported, never recovered).
var ErrBidirectionalConflict = errors.New("baker: bidirectional connection point has both incoming and outgoing wires")
