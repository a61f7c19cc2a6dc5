package cycleeval

import (
	"github.com/signalforge/graphengine/registry"
	"github.com/signalforge/graphengine/sgraph"
)

// splitParameterWires partitions wires into the signal DAG (used for
// topological sort and depth) and the parameter wires targeting a
// knob-bound port (spec.md §4.8). Nodes whose type is not in reg (custom
// baked sub-graphs, unknown types) never expose knob ports, so their
// incoming wires are always treated as signal wires.
func splitParameterWires(reg *registry.Registry, nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire) (signalWires, parameterWires []*sgraph.Wire) {
	for _, w := range wires {
		n, ok := nodes[w.Target.NodeID]
		if !ok {
			signalWires = append(signalWires, w)
			continue
		}
		def, ok := reg.Lookup(n.Type)
		if !ok || def.KnobParamAt(w.Target.Port) == "" {
			signalWires = append(signalWires, w)
			continue
		}
		parameterWires = append(parameterWires, w)
	}
	return signalWires, parameterWires
}

// parameterWireClass tags one parameter wire's cycle-timing class.
type parameterWireClass struct {
	wire      *sgraph.Wire
	sameCycle bool
}

// classifyParameterWires compares each parameter wire's endpoint depths
// in the signal DAG: source depth < target depth means the source has
// already produced its current-cycle output by the time the target is
// evaluated (same-cycle); otherwise the wire reads the source's previous
// cycle value (cross-cycle).
func classifyParameterWires(parameterWires []*sgraph.Wire, depth map[sgraph.NodeID]int) map[sgraph.PortKey]parameterWireClass {
	classes := make(map[sgraph.PortKey]parameterWireClass, len(parameterWires))
	for _, w := range parameterWires {
		key := sgraph.MakePortKey(w.Target.NodeID, w.Target.Port)
		classes[key] = parameterWireClass{
			wire:      w,
			sameCycle: depth[w.Source.NodeID] < depth[w.Target.NodeID],
		}
	}
	return classes
}
