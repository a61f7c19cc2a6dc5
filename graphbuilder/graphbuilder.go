// Package graphbuilder assembles the small fixture graphs spec.md §8
// names as worked scenarios, following the teacher builder package's
// Constructor/orchestrator split: a Constructor mutates a *sgraph.Graph
// under construction, and each exported function here composes one or
// more constructors into a ready Graph.
package graphbuilder

import (
	"fmt"

	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
)

// Constructor applies one deterministic mutation to a graph under
// construction. Constructors never panic; malformed wiring surfaces
// later as a topo/liveness/baker error, not here.
type Constructor func(g *sgraph.Graph)

// Build creates an empty graph and applies every constructor in order.
func Build(cons ...Constructor) *sgraph.Graph {
	g := &sgraph.Graph{Nodes: make(map[sgraph.NodeID]*sgraph.Node)}
	for _, c := range cons {
		c(g)
	}
	return g
}

// Node adds a processing or virtual node with the given port counts.
func Node(id sgraph.NodeID, typ string, inputCount, outputCount int) Constructor {
	return func(g *sgraph.Graph) {
		g.Nodes[id] = &sgraph.Node{ID: id, Type: typ, InputCount: inputCount, OutputCount: outputCount, Params: map[string]sgraph.ParamValue{}}
	}
}

// NodeWithParams is Node plus an initial params map.
func NodeWithParams(id sgraph.NodeID, typ string, inputCount, outputCount int, params map[string]sgraph.ParamValue) Constructor {
	return func(g *sgraph.Graph) {
		g.Nodes[id] = &sgraph.Node{ID: id, Type: typ, InputCount: inputCount, OutputCount: outputCount, Params: params}
	}
}

// Wire connects sourcePort of source to targetPort of target with a
// deterministic, position-derived id (wires are otherwise unordered).
func Wire(source sgraph.NodeID, sourcePort int, target sgraph.NodeID, targetPort int) Constructor {
	return func(g *sgraph.Graph) {
		id := sgraph.WireID(fmt.Sprintf("%s.%d->%s.%d", source, sourcePort, target, targetPort))
		g.Wires = append(g.Wires, &sgraph.Wire{
			ID:     id,
			Source: sgraph.PortRef{NodeID: source, Port: sourcePort},
			Target: sgraph.PortRef{NodeID: target, Port: targetPort},
		})
	}
}

// InputCP adds reserved input connection point i.
func InputCP(i int) Constructor { return Node(sgraph.NodeID(signal.InputCPID(i)), "", 0, 1) }

// OutputCP adds reserved output connection point i.
func OutputCP(i int) Constructor { return Node(sgraph.NodeID(signal.OutputCPID(i)), "", 1, 0) }

// PassThrough wires input 0 directly to output 0 (spec.md §8 scenario 1).
func PassThrough() *sgraph.Graph {
	return Build(
		InputCP(0),
		OutputCP(0),
		Wire(sgraph.NodeID(signal.InputCPID(0)), 0, sgraph.NodeID(signal.OutputCPID(0)), 0),
	)
}

// InvertChain wires input 0 through n "invert" nodes in series into
// output 0 (spec.md §8 scenario 2: n=1 inverter, n=2 double-inverter).
func InvertChain(n int) *sgraph.Graph {
	cons := []Constructor{InputCP(0), OutputCP(0)}
	prev := sgraph.NodeID(signal.InputCPID(0))
	for i := 0; i < n; i++ {
		id := sgraph.NodeID(fmt.Sprintf("inv%d", i))
		cons = append(cons, Node(id, "invert", 1, 1), Wire(prev, 0, id, 0))
		prev = id
	}
	cons = append(cons, Wire(prev, 0, sgraph.NodeID(signal.OutputCPID(0)), 0))
	return Build(cons...)
}

// Adder sums inputs 0 and 1 into output 0 (spec.md §8 scenario 3).
func Adder() *sgraph.Graph {
	return Build(
		InputCP(0), InputCP(1), OutputCP(0),
		Node("add1", "add", 2, 1),
		Wire(sgraph.NodeID(signal.InputCPID(0)), 0, "add1", 0),
		Wire(sgraph.NodeID(signal.InputCPID(1)), 0, "add1", 1),
		Wire("add1", 0, sgraph.NodeID(signal.OutputCPID(0)), 0),
	)
}

// Splitter fans input 0 out to outputs 0 and 1, each halved (spec.md §8
// scenario 4).
func Splitter() *sgraph.Graph {
	return Build(
		InputCP(0), OutputCP(0), OutputCP(1),
		Node("split1", "splitter", 1, 2),
		Wire(sgraph.NodeID(signal.InputCPID(0)), 0, "split1", 0),
		Wire("split1", 0, sgraph.NodeID(signal.OutputCPID(0)), 0),
		Wire("split1", 1, sgraph.NodeID(signal.OutputCPID(1)), 0),
	)
}

// FeedbackInvertLoop wires the literal topology spec.md §8 scenario 5
// describes: CP0 → scaleNode.A, scaleNode.out → invert → scaleNode.X
// (the knob port), invert → CP0. The invert→scaleNode.X wire is a
// cross-cycle parameter wire (invert's output one cycle earlier becomes
// this cycle's knob value); CP0's recorded output is invert's output,
// not the scale/amplify node's own. scaleNodeType is "scale" or
// "amplify".
func FeedbackInvertLoop(scaleNodeType string) *sgraph.Graph {
	return Build(
		InputCP(0), OutputCP(0),
		Node("scalenode", scaleNodeType, 2, 1),
		Node("invertnode", "invert", 1, 1),
		Wire(sgraph.NodeID(signal.InputCPID(0)), 0, "scalenode", 0),
		Wire("scalenode", 0, "invertnode", 0),
		Wire("invertnode", 0, "scalenode", 1),
		Wire("invertnode", 0, sgraph.NodeID(signal.OutputCPID(0)), 0),
	)
}

// MemoryLoop wires input 0 through a "memory" node into output 0, so the
// output lags the input by exactly one cycle (spec.md §8 scenario 6).
func MemoryLoop() *sgraph.Graph {
	return Build(
		InputCP(0), OutputCP(0),
		Node("mem1", "memory", 1, 1),
		Wire(sgraph.NodeID(signal.InputCPID(0)), 0, "mem1", 0),
		Wire("mem1", 0, sgraph.NodeID(signal.OutputCPID(0)), 0),
	)
}
