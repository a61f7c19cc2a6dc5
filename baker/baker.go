// Package baker implements the baker (spec.md §4.6, component C6): it
// lowers a graph into a self-contained per-tick evaluation closure plus
// serializable metadata a later process can reconstruct into an
// equivalent closure.
package baker

import (
	"fmt"

	"github.com/signalforge/graphengine/delay"
	"github.com/signalforge/graphengine/gconfig"
	"github.com/signalforge/graphengine/registry"
	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
	"github.com/signalforge/graphengine/topo"
	"github.com/signalforge/graphengine/wiredelay"
)

// Logger receives debug-level notices for runtime conditions spec.md §7
// treats as recovered rather than fatal (an unknown node type during
// evaluation). Defaults to a no-op; assign a different signal.Logger to
// observe them.
var Logger signal.Logger = signal.NoopLogger{}

// EvaluateFunc is one tick of a baked closure: it consumes exactly
// InputCount values (missing trailing values are treated as zero) and
// returns exactly OutputCount values.
type EvaluateFunc func(inputs []signal.Signal) []signal.Signal

// BakeResult pairs a closure with the metadata that can reconstruct an
// equivalent one. Distinct results own disjoint state.
type BakeResult struct {
	Evaluate EvaluateFunc
	Metadata *Metadata
}

// Bake compiles nodes/wires into a BakeResult using gconfig.Default's
// gameplay constants. It fails only on a bidirectional-CP conflict or a
// signal-wire cycle; every other condition spec.md documents is
// recovered.
func Bake(nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire) (*BakeResult, error) {
	return BakeWithConstants(nodes, wires, gconfig.Default())
}

// BakeWithConstants is Bake with the TOTAL_TICKS wire-delay budget
// sourced from constants instead of gconfig.Default — the path a host
// process that has called gconfig.Load uses (SPEC_FULL.md §4.11). Only
// constants.TotalTicks is read; constants.SignalRange is not applied, and
// node outputs are clamped to signal.DefaultRange.
func BakeWithConstants(nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire, constants *gconfig.Constants) (*BakeResult, error) {
	normNodes, normWires, directions, err := normalizeBidirCPs(nodes, wires)
	if err != nil {
		return nil, err
	}

	ids := make([]sgraph.NodeID, 0, len(normNodes))
	for id := range normNodes {
		ids = append(ids, id)
	}
	ids = sgraph.SortedNodeIDs(ids)

	order, err := topo.Sort(ids, normWires)
	if err != nil {
		return nil, fmt.Errorf("baker: %w", err)
	}

	wireDist, err := wiredelay.ComputeWireDelays(order, normWires, normNodes, constants.TotalTicks)
	if err != nil {
		return nil, err
	}
	for _, w := range normWires {
		if d, ok := wireDist.WireDelays[w.ID]; ok {
			delayCopy := d
			w.Delay = &delayCopy
		}
	}

	analysis, err := delay.AnalyzeDelays(order, normNodes, normWires, wireDist.WireDelays)
	if err != nil {
		return nil, err
	}

	meta := buildMetadata(order, normNodes, normWires, analysis, directions)
	evaluate := buildClosure(normNodes, normWires, analysis, registry.Default)

	return &BakeResult{Evaluate: evaluate, Metadata: meta}, nil
}

// ReconstructFromMetadata rebuilds nodes, wires, and delay analysis from
// a serialized Metadata and produces an equivalent closure: given the
// same input sequence, its outputs are bit-identical to the original
// bake's (AnalyzeDelays is a pure function of order/nodes/wires/delays,
// all of which the metadata carries verbatim).
func ReconstructFromMetadata(meta *Metadata) (*BakeResult, error) {
	nodes := make(map[sgraph.NodeID]*sgraph.Node, len(meta.Nodes))
	for _, nc := range meta.Nodes {
		nodes[sgraph.NodeID(nc.ID)] = &sgraph.Node{
			ID:          sgraph.NodeID(nc.ID),
			Type:        nc.Type,
			Params:      nc.Params,
			InputCount:  nc.InputCount,
			OutputCount: nc.OutputCount,
		}
	}

	wires := make([]*sgraph.Wire, 0, len(meta.Edges))
	wireDelays := make(map[sgraph.WireID]int, len(meta.Edges))
	for i, ec := range meta.Edges {
		id := sgraph.WireID(fmt.Sprintf("reconstructed-%d", i))
		w := &sgraph.Wire{
			ID:     id,
			Source: sgraph.PortRef{NodeID: sgraph.NodeID(ec.FromNode), Port: ec.FromPort},
			Target: sgraph.PortRef{NodeID: sgraph.NodeID(ec.ToNode), Port: ec.ToPort},
		}
		if ec.WireDelay != nil {
			d := *ec.WireDelay
			w.Delay = &d
			wireDelays[id] = d
		}
		wires = append(wires, w)
	}

	order := make(topo.Order, len(meta.TopoOrder))
	for i, id := range meta.TopoOrder {
		order[i] = sgraph.NodeID(id)
	}

	analysis, err := delay.AnalyzeDelays(order, nodes, wires, wireDelays)
	if err != nil {
		return nil, err
	}

	evaluate := buildClosure(nodes, wires, analysis, registry.Default)
	return &BakeResult{Evaluate: evaluate, Metadata: meta}, nil
}

func buildMetadata(order topo.Order, nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire, analysis *delay.Analysis, directions map[int]string) *Metadata {
	topoOrder := make([]string, len(order))
	nodeConfigs := make([]NodeConfig, len(order))
	for i, id := range order {
		topoOrder[i] = string(id)
		n := nodes[id]
		nodeConfigs[i] = NodeConfig{
			ID:          string(id),
			Type:        n.Type,
			Params:      n.Params,
			InputCount:  n.InputCount,
			OutputCount: n.OutputCount,
		}
	}

	edges := make([]EdgeConfig, len(wires))
	for i, w := range wires {
		ec := EdgeConfig{
			FromNode: string(w.Source.NodeID),
			FromPort: w.Source.Port,
			ToNode:   string(w.Target.NodeID),
			ToPort:   w.Target.Port,
		}
		if w.Delay != nil {
			d := *w.Delay
			ec.WireDelay = &d
		}
		edges[i] = ec
	}

	return &Metadata{
		TopoOrder:        topoOrder,
		Nodes:            nodeConfigs,
		Edges:            edges,
		InputCount:       analysis.InputCount,
		OutputCount:      analysis.OutputCount,
		InputBufferSizes: analysis.InputBufferSizes,
		BidirDirections:  directions,
	}
}

// buildClosure allocates ring buffers and per-node state once, and
// returns an EvaluateFunc that advances the graph by exactly one tick
// per call (spec.md §4.6's closure contract).
func buildClosure(nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire, analysis *delay.Analysis, reg *registry.Registry) EvaluateFunc {
	buffers := make(map[int]*ringBuffer, len(analysis.InputBufferSizes))
	for cpIdx, size := range analysis.InputBufferSizes {
		buffers[cpIdx] = newRingBuffer(size)
	}
	for i := 0; i < analysis.InputCount; i++ {
		if _, ok := buffers[i]; !ok {
			buffers[i] = newRingBuffer(1)
		}
	}

	states := make(map[sgraph.NodeID]interface{}, len(analysis.ProcessingOrder))
	for _, id := range analysis.ProcessingOrder {
		n := nodes[id]
		if def, ok := reg.Lookup(n.Type); ok && def.CreateState != nil {
			states[id] = def.CreateState()
		}
	}

	tick := 0

	return func(inputs []signal.Signal) []signal.Signal {
		for i := 0; i < analysis.InputCount; i++ {
			var v signal.Signal
			if i < len(inputs) {
				v = inputs[i]
			}
			buffers[i].write(v)
		}

		currentOutputs := make(map[sgraph.NodeID][]signal.Signal, len(analysis.ProcessingOrder))
		for _, id := range analysis.ProcessingOrder {
			n := nodes[id]
			in := make([]signal.Signal, n.InputCount)
			for port := 0; port < n.InputCount; port++ {
				ps, ok := analysis.PortSources[sgraph.MakePortKey(id, port)]
				if !ok {
					continue
				}
				switch ps.Kind {
				case delay.SourceCP:
					in[port] = buffers[ps.CPIndex].readAt(ps.BufferOffset)
				case delay.SourceNode:
					if out, ok := currentOutputs[ps.SourceNodeID]; ok && ps.SourcePort < len(out) {
						in[port] = out[ps.SourcePort]
					}
				}
			}

			def, known := reg.Lookup(n.Type)
			var out []signal.Signal
			if !known {
				Logger.Debugf("baker: unknown node type %q for node %q, substituting zero outputs", n.Type, id)
				out = make([]signal.Signal, n.OutputCount)
			} else {
				out = def.Evaluate(in, n.Params, states[id], tick)
			}
			currentOutputs[id] = out
		}

		result := make([]signal.Signal, analysis.OutputCount)
		for idx := 0; idx < analysis.OutputCount; idx++ {
			mapping, ok := analysis.OutputMappings[idx]
			if !ok {
				continue
			}
			switch mapping.Kind {
			case delay.SourceCP:
				result[idx] = buffers[mapping.CPIndex].readAt(0)
			case delay.SourceNode:
				if out, ok := currentOutputs[mapping.SourceNodeID]; ok && mapping.SourcePort < len(out) {
					result[idx] = out[mapping.SourcePort]
				}
			}
		}

		tick++
		return result
	}
}
