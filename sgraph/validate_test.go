package sgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalforge/graphengine/sgraph"
)

func twoNodeGraph() *sgraph.Graph {
	g := sgraph.NewGraph()
	g.Nodes["a"] = &sgraph.Node{ID: "a", Type: "passthrough", InputCount: 1, OutputCount: 1}
	g.Nodes["b"] = &sgraph.Node{ID: "b", Type: "passthrough", InputCount: 1, OutputCount: 1}
	return g
}

func TestValidate_EmptyGraphOK(t *testing.T) {
	assert.NoError(t, sgraph.NewGraph().Validate())
}

func TestValidate_DanglingSourceNode(t *testing.T) {
	g := twoNodeGraph()
	g.Wires = append(g.Wires, &sgraph.Wire{ID: "w1", Source: sgraph.PortRef{NodeID: "missing"}, Target: sgraph.PortRef{NodeID: "b"}})
	err := g.Validate()
	assert.ErrorIs(t, err, sgraph.ErrDanglingWire)
}

func TestValidate_DanglingTargetNode(t *testing.T) {
	g := twoNodeGraph()
	g.Wires = append(g.Wires, &sgraph.Wire{ID: "w1", Source: sgraph.PortRef{NodeID: "a"}, Target: sgraph.PortRef{NodeID: "missing"}})
	err := g.Validate()
	assert.ErrorIs(t, err, sgraph.ErrDanglingWire)
}

func TestValidate_PortOutOfRange(t *testing.T) {
	g := twoNodeGraph()
	g.Wires = append(g.Wires, &sgraph.Wire{ID: "w1", Source: sgraph.PortRef{NodeID: "a", Port: 5}, Target: sgraph.PortRef{NodeID: "b"}})
	err := g.Validate()
	assert.ErrorIs(t, err, sgraph.ErrPortOutOfRange)
}

func TestValidate_DuplicateTargetPort(t *testing.T) {
	g := twoNodeGraph()
	g.Wires = append(g.Wires,
		&sgraph.Wire{ID: "w1", Source: sgraph.PortRef{NodeID: "a", Port: 0}, Target: sgraph.PortRef{NodeID: "b", Port: 0}},
		&sgraph.Wire{ID: "w2", Source: sgraph.PortRef{NodeID: "a", Port: 0}, Target: sgraph.PortRef{NodeID: "b", Port: 0}},
	)
	err := g.Validate()
	assert.ErrorIs(t, err, sgraph.ErrDuplicateTargetPort)
}

func TestValidate_ValidGraph(t *testing.T) {
	g := twoNodeGraph()
	g.Wires = append(g.Wires, &sgraph.Wire{ID: "w1", Source: sgraph.PortRef{NodeID: "a", Port: 0}, Target: sgraph.PortRef{NodeID: "b", Port: 0}})
	assert.NoError(t, g.Validate())
}

func TestAdjacencyHelpers(t *testing.T) {
	g := twoNodeGraph()
	w := &sgraph.Wire{ID: "w1", Source: sgraph.PortRef{NodeID: "a", Port: 0}, Target: sgraph.PortRef{NodeID: "b", Port: 0}}
	g.Wires = append(g.Wires, w)

	out := sgraph.OutgoingWires(g.Wires, "a")
	assert.Equal(t, []*sgraph.Wire{w}, out)

	in := sgraph.IncomingWires(g.Wires, "b")
	assert.Equal(t, []*sgraph.Wire{w}, in)

	assert.Same(t, w, sgraph.WireToPort(g.Wires, "b", 0))
	assert.Nil(t, sgraph.WireToPort(g.Wires, "b", 1))
}
