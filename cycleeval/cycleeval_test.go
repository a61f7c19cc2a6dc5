package cycleeval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/graphengine/baker"
	"github.com/signalforge/graphengine/cycleeval"
	"github.com/signalforge/graphengine/graphbuilder"
	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
)

func constGen(inputs ...signal.Signal) cycleeval.InputGenerator {
	return func(int) cycleeval.CycleInputs { return cycleeval.CycleInputs{Inputs: inputs} }
}

func TestEvaluateAllCycles_PassThrough(t *testing.T) {
	g := graphbuilder.PassThrough()
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(7), 3, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 3)
	for _, out := range res.Outputs {
		assert.Equal(t, []signal.Signal{7}, out)
	}
}

func TestEvaluateAllCycles_DoubleInvertIsIdentity(t *testing.T) {
	g := graphbuilder.InvertChain(2)
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(17), 2, nil)
	require.NoError(t, err)
	for _, out := range res.Outputs {
		assert.Equal(t, []signal.Signal{17}, out)
	}
}

func TestEvaluateAllCycles_SingleInvertNegates(t *testing.T) {
	g := graphbuilder.InvertChain(1)
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(17), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []signal.Signal{-17}, res.Outputs[0])
}

func TestEvaluateAllCycles_AdderSums(t *testing.T) {
	g := graphbuilder.Adder()
	gen := func(int) cycleeval.CycleInputs { return cycleeval.CycleInputs{Inputs: []signal.Signal{30, 12}} }
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, gen, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []signal.Signal{42}, res.Outputs[0])
}

func TestEvaluateAllCycles_SplitterHalves(t *testing.T) {
	g := graphbuilder.Splitter()
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(50), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []signal.Signal{25, 25}, res.Outputs[0])
}

func TestEvaluateAllCycles_MemoryLoopLagsOneCycle(t *testing.T) {
	g := graphbuilder.MemoryLoop()
	values := []signal.Signal{5, 10, 15, 20}
	gen := func(c int) cycleeval.CycleInputs { return cycleeval.CycleInputs{Inputs: []signal.Signal{values[c]}} }
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, gen, len(values), nil)
	require.NoError(t, err)
	// The warm-up pass runs the same input sequence once to settle memory
	// state before recording; the recorded pass continues from that settled
	// state rather than a fresh zero, so cycle 0 already reports the
	// warm-up pass's final value (20), and each later cycle lags by one.
	assert.Equal(t, []signal.Signal{20}, res.Outputs[0])
	assert.Equal(t, []signal.Signal{values[0]}, res.Outputs[1])
	assert.Equal(t, []signal.Signal{values[1]}, res.Outputs[2])
	assert.Equal(t, []signal.Signal{values[2]}, res.Outputs[3])
}

func TestEvaluateAllCycles_FeedbackInvertLoopUsesPriorCycleOutputAsKnob(t *testing.T) {
	// spec.md §8 scenario 5 (scale case): CP0 -> scale.A, scale.out ->
	// invert -> scale.X, invert -> CP0; with A = 0 and cross-cycle
	// initial X = 0, every recorded output is 0.
	g := graphbuilder.FeedbackInvertLoop("scale")
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(0), 4, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 4)
	for _, out := range res.Outputs {
		assert.Equal(t, []signal.Signal{0}, out)
	}
}

func TestEvaluateAllCycles_UnreachableNodeContributesZero(t *testing.T) {
	g := graphbuilder.PassThrough()
	g.Nodes["dead"] = &sgraph.Node{ID: "dead", Type: "invert", InputCount: 1, OutputCount: 1}
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(9), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []signal.Signal{0}, res.NodeOutputs[0]["dead"], "unreachable node is substituted with zero, not evaluated")
}

func TestEvaluateAllCycles_UnknownNodeTypeContributesZero(t *testing.T) {
	g := &sgraph.Graph{Nodes: map[sgraph.NodeID]*sgraph.Node{
		"__cp_input_0__":  {ID: "__cp_input_0__", InputCount: 0, OutputCount: 1},
		"mystery":         {ID: "mystery", Type: "does-not-exist", InputCount: 1, OutputCount: 1},
		"__cp_output_0__": {ID: "__cp_output_0__", InputCount: 1, OutputCount: 0},
	}}
	g.Wires = []*sgraph.Wire{
		{ID: "w1", Source: sgraph.PortRef{NodeID: "__cp_input_0__", Port: 0}, Target: sgraph.PortRef{NodeID: "mystery", Port: 0}},
		{ID: "w2", Source: sgraph.PortRef{NodeID: "mystery", Port: 0}, Target: sgraph.PortRef{NodeID: "__cp_output_0__", Port: 0}},
	}
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(9), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []signal.Signal{0}, res.Outputs[0])
}

func TestEvaluateAllCycles_CustomSubgraphTypeDispatchesToReconstructedBake(t *testing.T) {
	sub := graphbuilder.InvertChain(1)
	bakeResult, err := baker.Bake(sub.Nodes, sub.Wires)
	require.NoError(t, err)

	g := &sgraph.Graph{Nodes: map[sgraph.NodeID]*sgraph.Node{
		"__cp_input_0__":  {ID: "__cp_input_0__", InputCount: 0, OutputCount: 1},
		"box":             {ID: "box", Type: "custom:inverter", InputCount: 1, OutputCount: 1},
		"__cp_output_0__": {ID: "__cp_output_0__", InputCount: 1, OutputCount: 0},
	}}
	g.Wires = []*sgraph.Wire{
		{ID: "w1", Source: sgraph.PortRef{NodeID: "__cp_input_0__", Port: 0}, Target: sgraph.PortRef{NodeID: "box", Port: 0}},
		{ID: "w2", Source: sgraph.PortRef{NodeID: "box", Port: 0}, Target: sgraph.PortRef{NodeID: "__cp_output_0__", Port: 0}},
	}
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constGen(8), 1, map[string]*baker.Metadata{"custom:inverter": bakeResult.Metadata})
	require.NoError(t, err)
	assert.Equal(t, []signal.Signal{-8}, res.Outputs[0])
}

func TestEvaluateAllCycles_CreativeAndUtilitySlotsAreSparseByIndex(t *testing.T) {
	// spec.md §3/§9 item 2: creative/utility slot index is used directly as
	// both input and output index (DESIGN.md's resolved reading), so a
	// populated high index alongside absent lower indices must produce a
	// sparse [0,0,...,sN] vector rather than a packed one.
	g := &sgraph.Graph{Nodes: map[sgraph.NodeID]*sgraph.Node{
		"__cp_creative_2__": {ID: "__cp_creative_2__", Type: string(signal.SlotInput), InputCount: 0, OutputCount: 1},
		"invertC":           {ID: "invertC", Type: "invert", InputCount: 1, OutputCount: 1},
		"__cp_creative_4__": {ID: "__cp_creative_4__", Type: string(signal.SlotOutput), InputCount: 1, OutputCount: 0},
		"__cp_utility_1__":  {ID: "__cp_utility_1__", Type: string(signal.SlotInput), InputCount: 0, OutputCount: 1},
		"__cp_utility_5__":  {ID: "__cp_utility_5__", Type: string(signal.SlotOutput), InputCount: 1, OutputCount: 0},
	}}
	g.Wires = []*sgraph.Wire{
		{ID: "w1", Source: sgraph.PortRef{NodeID: "__cp_creative_2__", Port: 0}, Target: sgraph.PortRef{NodeID: "invertC", Port: 0}},
		{ID: "w2", Source: sgraph.PortRef{NodeID: "invertC", Port: 0}, Target: sgraph.PortRef{NodeID: "__cp_creative_4__", Port: 0}},
		{ID: "w3", Source: sgraph.PortRef{NodeID: "__cp_utility_1__", Port: 0}, Target: sgraph.PortRef{NodeID: "__cp_utility_5__", Port: 0}},
	}

	gen := func(int) cycleeval.CycleInputs {
		return cycleeval.CycleInputs{
			Creative: []signal.Signal{0, 0, 30, 0, 0, 0},
			Utility:  []signal.Signal{0, 77, 0, 0, 0, 0},
		}
	}
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, gen, 1, nil)
	require.NoError(t, err)

	require.Len(t, res.CreativeOutputs[0], signal.MaxSlotIndex+1)
	assert.Equal(t, []signal.Signal{0, 0, 0, 0, -30, 0}, res.CreativeOutputs[0])

	require.Len(t, res.UtilityOutputs[0], signal.MaxSlotIndex+1)
	assert.Equal(t, []signal.Signal{0, 0, 0, 0, 0, 77}, res.UtilityOutputs[0])
}

func TestEvaluateAllCycles_PortConstantFillsUnconnectedPort(t *testing.T) {
	g := graphbuilder.Adder()
	// Disconnect input 1 by dropping its wire and supplying a port constant instead.
	var wires []*sgraph.Wire
	for _, w := range g.Wires {
		if w.Target.NodeID == "add1" && w.Target.Port == 1 {
			continue
		}
		wires = append(wires, w)
	}
	constants := sgraph.PortConstants{sgraph.MakePortKey("add1", 1): 4}
	gen := func(int) cycleeval.CycleInputs { return cycleeval.CycleInputs{Inputs: []signal.Signal{10, 999}} }
	res, err := cycleeval.EvaluateAllCycles(g.Nodes, wires, constants, gen, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []signal.Signal{14}, res.Outputs[0])
}
