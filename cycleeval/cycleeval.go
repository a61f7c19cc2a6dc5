// Package cycleeval implements the cycle evaluator (spec.md §4.8,
// component C8): a batch evaluator with no wire-delay model where every
// cycle is a full, instantaneous settling of the graph, designed for
// seamless-loop output generation.
package cycleeval

import (
	"github.com/signalforge/graphengine/baker"
	"github.com/signalforge/graphengine/liveness"
	"github.com/signalforge/graphengine/registry"
	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
	"github.com/signalforge/graphengine/topo"
)

// Logger receives debug-level notices for unknown node types encountered
// during evaluation (spec.md §7). Defaults to a no-op.
var Logger signal.Logger = signal.NoopLogger{}

// EvaluateAllCycles runs cycleCount cycles twice — an unrecorded warm-up
// pass to settle per-node state and cross-cycle parameter stores, then a
// recorded pass — and returns the recorded pass's results.
func EvaluateAllCycles(nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire, portConstants sgraph.PortConstants, gen InputGenerator, cycleCount int, subgraphMetadata map[string]*baker.Metadata) (*CycleResults, error) {
	reg := registry.Default

	signalWires, parameterWires := splitParameterWires(reg, nodes, wires)

	ids := make([]sgraph.NodeID, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	ids = sgraph.SortedNodeIDs(ids)

	depths, err := topo.SortWithDepths(ids, signalWires)
	if err != nil {
		return nil, err
	}
	paramClasses := classifyParameterWires(parameterWires, depths.Depth)

	var processingOrder topo.Order
	for _, id := range depths.Order {
		if kind, _ := signal.Classify(string(id)); kind == signal.NotReserved {
			processingOrder = append(processingOrder, id)
		}
	}

	inputSources := sourceNodeIDs(nodes)
	liveSet := liveness.ComputeLiveNodes(wires, inputSources)

	inputCount := countOrdinary(nodes, signal.InputCP)
	outputCount := countOrdinary(nodes, signal.OutputCP)

	nodeStates := make(map[sgraph.NodeID]interface{}, len(processingOrder))
	subgraphInstances := make(map[sgraph.NodeID]*baker.BakeResult)
	for _, id := range processingOrder {
		n := nodes[id]
		if def, ok := reg.Lookup(n.Type); ok {
			if def.CreateState != nil {
				nodeStates[id] = def.CreateState()
			}
			continue
		}
		if meta, ok := subgraphMetadata[n.Type]; ok {
			br, err := baker.ReconstructFromMetadata(meta)
			if err != nil {
				return nil, err
			}
			subgraphInstances[id] = br
		}
	}

	outputMappings := resolveOutputMappings(wires, nodes, outputCount, signal.OutputCPID)
	creativeOutMappings := resolveSlotOutputMappings(wires, nodes, signal.CreativeSlotID)
	utilityOutMappings := resolveSlotOutputMappings(wires, nodes, signal.UtilitySlotID)

	crossCycleStore := make(map[sgraph.PortKey]signal.Signal)

	runCycle := func(cycle int, recording bool, results *CycleResults) {
		in := gen(cycle)
		currentOutputs := make(map[sgraph.NodeID][]signal.Signal, len(nodes))

		for idx := 0; idx < inputCount; idx++ {
			id := sgraph.NodeID(signal.InputCPID(idx))
			var v signal.Signal
			if idx < len(in.Inputs) {
				v = in.Inputs[idx]
			}
			currentOutputs[id] = []signal.Signal{v}
		}
		for idx := 0; idx <= signal.MaxSlotIndex; idx++ {
			seedSlot(nodes, currentOutputs, sgraph.NodeID(signal.CreativeSlotID(idx)), in.Creative, idx)
			seedSlot(nodes, currentOutputs, sgraph.NodeID(signal.UtilitySlotID(idx)), in.Utility, idx)
		}

		for _, id := range processingOrder {
			n := nodes[id]
			if _, ok := liveSet[id]; !ok {
				currentOutputs[id] = make([]signal.Signal, n.OutputCount)
				continue
			}

			inVals := make([]signal.Signal, n.InputCount)
			for port := 0; port < n.InputCount; port++ {
				key := sgraph.MakePortKey(id, port)
				if pc, ok := paramClasses[key]; ok {
					inVals[port] = resolveParameterInput(pc, currentOutputs, crossCycleStore, portConstants, key)
					continue
				}
				if w := sgraph.WireToPort(signalWires, id, port); w != nil {
					if out, ok := currentOutputs[w.Source.NodeID]; ok && w.Source.Port < len(out) {
						inVals[port] = out[w.Source.Port]
					}
					continue
				}
				if cv, ok := portConstants[key]; ok {
					inVals[port] = signal.Signal(cv)
				}
			}

			out := evaluateNode(reg, n, id, inVals, nodeStates, subgraphInstances, cycle)
			for i := range out {
				out[i] = signal.Clamp(out[i])
			}
			currentOutputs[id] = out
		}

		for key, pc := range paramClasses {
			if pc.sameCycle {
				continue
			}
			if out, ok := currentOutputs[pc.wire.Source.NodeID]; ok && pc.wire.Source.Port < len(out) {
				crossCycleStore[key] = out[pc.wire.Source.Port]
			}
		}

		if !recording {
			return
		}
		results.Outputs = append(results.Outputs, resolveOutputs(outputMappings, currentOutputs, outputCount))
		results.CreativeOutputs = append(results.CreativeOutputs, resolveOutputs(creativeOutMappings, currentOutputs, signal.MaxSlotIndex+1))
		results.UtilityOutputs = append(results.UtilityOutputs, resolveOutputs(utilityOutMappings, currentOutputs, signal.MaxSlotIndex+1))

		nodeSnap := make(map[sgraph.NodeID][]signal.Signal, len(currentOutputs))
		for k, v := range currentOutputs {
			nodeSnap[k] = append([]signal.Signal(nil), v...)
		}
		results.NodeOutputs = append(results.NodeOutputs, nodeSnap)

		wireSnap := make(map[sgraph.WireID]signal.Signal, len(wires))
		for _, w := range wires {
			if out, ok := currentOutputs[w.Source.NodeID]; ok && w.Source.Port < len(out) {
				wireSnap[w.ID] = out[w.Source.Port]
			}
		}
		results.WireValues = append(results.WireValues, wireSnap)
	}

	for c := 0; c < cycleCount; c++ {
		runCycle(c, false, nil)
	}

	results := &CycleResults{}
	for c := 0; c < cycleCount; c++ {
		runCycle(c, true, results)
	}
	return results, nil
}

func resolveParameterInput(pc parameterWireClass, currentOutputs map[sgraph.NodeID][]signal.Signal, crossCycleStore map[sgraph.PortKey]signal.Signal, portConstants sgraph.PortConstants, key sgraph.PortKey) signal.Signal {
	if pc.sameCycle {
		if out, ok := currentOutputs[pc.wire.Source.NodeID]; ok && pc.wire.Source.Port < len(out) {
			return out[pc.wire.Source.Port]
		}
		return 0
	}
	if v, ok := crossCycleStore[key]; ok {
		return v
	}
	if cv, ok := portConstants[key]; ok {
		return signal.Signal(cv)
	}
	return 0
}

func evaluateNode(reg *registry.Registry, n *sgraph.Node, id sgraph.NodeID, in []signal.Signal, nodeStates map[sgraph.NodeID]interface{}, subgraphInstances map[sgraph.NodeID]*baker.BakeResult, cycle int) []signal.Signal {
	if def, ok := reg.Lookup(n.Type); ok {
		return def.Evaluate(in, n.Params, nodeStates[id], cycle)
	}
	if br, ok := subgraphInstances[id]; ok {
		return br.Evaluate(in)
	}
	Logger.Debugf("cycleeval: unknown node type %q for node %q, substituting zero outputs", n.Type, id)
	return make([]signal.Signal, n.OutputCount)
}

func seedSlot(nodes map[sgraph.NodeID]*sgraph.Node, currentOutputs map[sgraph.NodeID][]signal.Signal, id sgraph.NodeID, values []signal.Signal, idx int) {
	n, ok := nodes[id]
	if !ok || n.Type != string(signal.SlotInput) {
		return
	}
	var v signal.Signal
	if idx < len(values) {
		v = values[idx]
	}
	currentOutputs[id] = []signal.Signal{v}
}

func sourceNodeIDs(nodes map[sgraph.NodeID]*sgraph.Node) []sgraph.NodeID {
	var ids []sgraph.NodeID
	for id, n := range nodes {
		switch kind, _ := signal.Classify(string(id)); kind {
		case signal.InputCP:
			ids = append(ids, id)
		case signal.CreativeSlot, signal.UtilitySlot:
			if n.Type == string(signal.SlotInput) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// countOrdinary returns 1 + the highest index of an unbounded reserved
// kind (InputCP/OutputCP) present in nodes, or 0 if none are present.
func countOrdinary(nodes map[sgraph.NodeID]*sgraph.Node, want signal.ConnectionKind) int {
	count := 0
	for id := range nodes {
		if kind, idx := signal.Classify(string(id)); kind == want && idx+1 > count {
			count = idx + 1
		}
	}
	return count
}

func resolveOutputMappings(wires []*sgraph.Wire, nodes map[sgraph.NodeID]*sgraph.Node, count int, idFn func(int) string) map[int]sgraph.PortRef {
	mappings := make(map[int]sgraph.PortRef, count)
	for idx := 0; idx < count; idx++ {
		id := sgraph.NodeID(idFn(idx))
		if _, ok := nodes[id]; !ok {
			continue
		}
		if w := sgraph.WireToPort(wires, id, 0); w != nil {
			mappings[idx] = w.Source
		}
	}
	return mappings
}

func resolveSlotOutputMappings(wires []*sgraph.Wire, nodes map[sgraph.NodeID]*sgraph.Node, idFn func(int) string) map[int]sgraph.PortRef {
	mappings := make(map[int]sgraph.PortRef, signal.MaxSlotIndex+1)
	for idx := 0; idx <= signal.MaxSlotIndex; idx++ {
		id := sgraph.NodeID(idFn(idx))
		n, ok := nodes[id]
		if !ok || n.Type != string(signal.SlotOutput) {
			continue
		}
		if w := sgraph.WireToPort(wires, id, 0); w != nil {
			mappings[idx] = w.Source
		}
	}
	return mappings
}

func resolveOutputs(mappings map[int]sgraph.PortRef, currentOutputs map[sgraph.NodeID][]signal.Signal, count int) []signal.Signal {
	out := make([]signal.Signal, count)
	for idx := 0; idx < count; idx++ {
		pr, ok := mappings[idx]
		if !ok {
			continue
		}
		if src, ok := currentOutputs[pr.NodeID]; ok && pr.Port < len(src) {
			out[idx] = src[pr.Port]
		}
	}
	return out
}
