package cycleeval

import (
	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
)

// CycleInputs is one cycle's externally supplied values: the ordinary
// input connection points plus the six creative/utility slots acting as
// inputs this bake (spec.md §3's "Utility input/output slot at index
// i ∈ {0..5}" — a cycle-evaluator-only concept, see DESIGN.md).
type CycleInputs struct {
	Inputs   []signal.Signal
	Creative []signal.Signal
	Utility  []signal.Signal
}

// InputGenerator supplies the externally driven values for cycle index c
// (0-based, restarting at 0 on both the warm-up and recorded passes).
type InputGenerator func(cycle int) CycleInputs

// CycleResults is the full recorded output of EvaluateAllCycles: the
// reproducible pass only (the warm-up pass's recordings are discarded).
type CycleResults struct {
	Outputs         [][]signal.Signal
	CreativeOutputs [][]signal.Signal
	UtilityOutputs  [][]signal.Signal

	// NodeOutputs[c][id] is node id's output vector during cycle c.
	NodeOutputs []map[sgraph.NodeID][]signal.Signal
	// WireValues[c][wireID] is the value that flowed on that wire during
	// cycle c (the value read at its target, pre- or post-clamp per the
	// value already stored in NodeOutputs for its source).
	WireValues []map[sgraph.WireID]signal.Signal
}
