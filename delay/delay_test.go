package delay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/graphengine/delay"
	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/topo"
)

func cpNode(id string, in, out int) *sgraph.Node {
	return &sgraph.Node{ID: sgraph.NodeID(id), InputCount: in, OutputCount: out}
}

func procNode(id string, in, out int) *sgraph.Node {
	return &sgraph.Node{ID: sgraph.NodeID(id), Type: "custom", InputCount: in, OutputCount: out}
}

func wireWithDelay(id string, fromNode sgraph.NodeID, fromPort int, toNode sgraph.NodeID, toPort, d int) *sgraph.Wire {
	return &sgraph.Wire{
		ID:     sgraph.WireID(id),
		Source: sgraph.PortRef{NodeID: fromNode, Port: fromPort},
		Target: sgraph.PortRef{NodeID: toNode, Port: toPort},
		Delay:  &d,
	}
}

func TestAnalyzeDelays_DirectCPToCPPassthrough(t *testing.T) {
	nodes := map[sgraph.NodeID]*sgraph.Node{
		"__cp_input_0__":  cpNode("__cp_input_0__", 0, 1),
		"__cp_output_0__": cpNode("__cp_output_0__", 1, 0),
	}
	wires := []*sgraph.Wire{wireWithDelay("w1", "__cp_input_0__", 0, "__cp_output_0__", 0, 1)}
	order := topo.Order{"__cp_input_0__", "__cp_output_0__"}

	a, err := delay.AnalyzeDelays(order, nodes, wires, nil)
	require.NoError(t, err)
	assert.Equal(t, delay.SourceCP, a.OutputMappings[0].Kind)
	assert.Equal(t, 0, a.OutputMappings[0].CPIndex)
	assert.Equal(t, 1, a.InputCount)
	assert.Equal(t, 1, a.OutputCount)
	assert.Empty(t, a.ProcessingOrder)
}

func TestAnalyzeDelays_SingleHopBufferOffsetNormalizedToZero(t *testing.T) {
	nodes := map[sgraph.NodeID]*sgraph.Node{
		"__cp_input_0__": cpNode("__cp_input_0__", 0, 1),
		"n1":             procNode("n1", 1, 1),
	}
	wires := []*sgraph.Wire{wireWithDelay("w1", "__cp_input_0__", 0, "n1", 0, 5)}
	order := topo.Order{"__cp_input_0__", "n1"}

	a, err := delay.AnalyzeDelays(order, nodes, wires, nil)
	require.NoError(t, err)
	key := sgraph.MakePortKey("n1", 0)
	ps := a.PortSources[key]
	assert.Equal(t, delay.SourceCP, ps.Kind)
	assert.Equal(t, 0, ps.BufferOffset, "lone path normalizes to offset 0")
	assert.Equal(t, 1, a.InputBufferSizes[0])
}

func TestAnalyzeDelays_AsymmetricPathsNormalizeRelativeToShortest(t *testing.T) {
	// __cp_input_0__ -> n1 (delay 2) directly: shortest CP-sourced path.
	// __cp_input_0__ -> n3 (delay 10) directly: longer path, offset should be 10-2=8 after
	// normalizing against the shortest CP-sourced offset (n1's 2).
	nodes := map[sgraph.NodeID]*sgraph.Node{
		"__cp_input_0__": cpNode("__cp_input_0__", 0, 1),
		"n1":              procNode("n1", 1, 1),
		"n3":              procNode("n3", 1, 1),
	}
	wires := []*sgraph.Wire{
		wireWithDelay("w1", "__cp_input_0__", 0, "n1", 0, 2),
		wireWithDelay("w2", "__cp_input_0__", 0, "n3", 0, 10),
	}
	order := topo.Order{"__cp_input_0__", "n1", "n3"}

	a, err := delay.AnalyzeDelays(order, nodes, wires, nil)
	require.NoError(t, err)
	n1Offset := a.PortSources[sgraph.MakePortKey("n1", 0)].BufferOffset
	n3Offset := a.PortSources[sgraph.MakePortKey("n3", 0)].BufferOffset
	assert.Equal(t, 0, n1Offset)
	assert.Equal(t, 8, n3Offset)
	assert.Equal(t, 1+n3Offset, a.InputBufferSizes[0])
}

func TestAnalyzeDelays_UnconnectedPortIsNone(t *testing.T) {
	nodes := map[sgraph.NodeID]*sgraph.Node{
		"n1": procNode("n1", 2, 1),
	}
	order := topo.Order{"n1"}
	a, err := delay.AnalyzeDelays(order, nodes, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, delay.SourceNone, a.PortSources[sgraph.MakePortKey("n1", 0)].Kind)
	assert.Equal(t, delay.SourceNone, a.PortSources[sgraph.MakePortKey("n1", 1)].Kind)
}

func TestAnalyzeDelays_NodeToNodeHasNoBufferOffset(t *testing.T) {
	nodes := map[sgraph.NodeID]*sgraph.Node{
		"__cp_input_0__": cpNode("__cp_input_0__", 0, 1),
		"n1":              procNode("n1", 1, 1),
		"n2":              procNode("n2", 1, 1),
	}
	wires := []*sgraph.Wire{
		wireWithDelay("w1", "__cp_input_0__", 0, "n1", 0, 1),
		wireWithDelay("w2", "n1", 0, "n2", 0, 1),
	}
	order := topo.Order{"__cp_input_0__", "n1", "n2"}
	a, err := delay.AnalyzeDelays(order, nodes, wires, nil)
	require.NoError(t, err)
	ps := a.PortSources[sgraph.MakePortKey("n2", 0)]
	assert.Equal(t, delay.SourceNode, ps.Kind)
	assert.Equal(t, sgraph.NodeID("n1"), ps.SourceNodeID)
}

func TestAnalyzeDelays_WireDelaysMapOverridesWireField(t *testing.T) {
	nodes := map[sgraph.NodeID]*sgraph.Node{
		"__cp_input_0__": cpNode("__cp_input_0__", 0, 1),
		"n1":              procNode("n1", 1, 1),
		"n2":              procNode("n2", 1, 1),
	}
	wires := []*sgraph.Wire{
		wireWithDelay("w1", "__cp_input_0__", 0, "n1", 0, 1),
		wireWithDelay("w2", "__cp_input_0__", 0, "n2", 0, 10),
	}
	order := topo.Order{"__cp_input_0__", "n1", "n2"}

	a, err := delay.AnalyzeDelays(order, nodes, wires, map[sgraph.WireID]int{"w1": 7})
	require.NoError(t, err)
	// w1 uses the map's 7, not its field's 1, so n1 is the shortest path and
	// n2 normalizes to 10-7=3 (it would be 10-1=9 if the field were used).
	assert.Equal(t, 0, a.PortSources[sgraph.MakePortKey("n1", 0)].BufferOffset)
	assert.Equal(t, 3, a.PortSources[sgraph.MakePortKey("n2", 0)].BufferOffset)
}
