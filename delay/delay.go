// Package delay implements the delay analyzer (spec.md §4.4, component
// C4): given a topological order, it resolves each processing node's
// input-port source (an input connection point at some ring-buffer
// offset, another processing node's current-tick output, or nothing) and
// the ring-buffer depth each input CP needs so every reader sees a
// phase-aligned view of it.
package delay

import (
	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
	"github.com/signalforge/graphengine/topo"
)

// SourceKind tags how an input port (or output CP) obtains its value.
type SourceKind int

const (
	// SourceNone marks an unconnected port: baker/tick-scheduler use 0,
	// the cycle evaluator uses the port constant.
	SourceNone SourceKind = iota
	// SourceCP marks a port fed by an input connection point's ring
	// buffer at a resolved offset.
	SourceCP
	// SourceNode marks a port fed by another processing node's
	// current-tick output (no buffering: the topological order already
	// guarantees the source was evaluated earlier this tick).
	SourceNode
)

// PortSource is the resolved source of one processing-node input port.
type PortSource struct {
	Kind SourceKind

	// Valid when Kind == SourceCP.
	CPIndex      int
	BufferOffset int

	// Valid when Kind == SourceNode.
	SourceNodeID sgraph.NodeID
	SourcePort   int
}

// OutputMapping is the resolved source of one output connection point.
type OutputMapping struct {
	Kind SourceKind // SourceNone, SourceCP (direct CP-to-CP), or SourceNode.

	CPIndex int // valid when Kind == SourceCP

	SourceNodeID sgraph.NodeID // valid when Kind == SourceNode
	SourcePort   int
}

// Analysis is the full result of AnalyzeDelays.
type Analysis struct {
	PortSources      map[sgraph.PortKey]PortSource
	InputBufferSizes map[int]int
	OutputMappings   map[int]OutputMapping
	ProcessingOrder  topo.Order
	InputCount       int
	OutputCount      int
}

// AnalyzeDelays resolves every processing node's input-port sources and
// the per-input-CP ring-buffer sizes they imply. wireDelays is optional:
// when nil, each wire's own Delay field is used (0 if also unset).
func AnalyzeDelays(order topo.Order, nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire, wireDelays map[sgraph.WireID]int) (*Analysis, error) {
	outputDelay := make(map[sgraph.NodeID]int, len(order))
	portSources := make(map[sgraph.PortKey]PortSource)
	outputMappings := make(map[int]OutputMapping)
	var processingOrder topo.Order

	for _, id := range order {
		kind, idx := signal.Classify(string(id))

		switch kind {
		case signal.InputCP:
			outputDelay[id] = 0

		case signal.OutputCP:
			outputMappings[idx] = resolveOutputMapping(wires, id)
			outputDelay[id] = 0

		case signal.NotReserved:
			node := nodes[id]
			maxInputDelay := 0
			for port := 0; port < node.InputCount; port++ {
				key := sgraph.MakePortKey(id, port)
				w := sgraph.WireToPort(wires, id, port)
				if w == nil {
					portSources[key] = PortSource{Kind: SourceNone}
					continue
				}
				wd := delayOf(w, wireDelays)
				srcKind, srcIdx := signal.Classify(string(w.Source.NodeID))
				if srcKind == signal.InputCP {
					offset := outputDelay[w.Source.NodeID] + wd
					portSources[key] = PortSource{Kind: SourceCP, CPIndex: srcIdx, BufferOffset: offset}
					if offset > maxInputDelay {
						maxInputDelay = offset
					}
				} else {
					offset := outputDelay[w.Source.NodeID] + wd
					portSources[key] = PortSource{Kind: SourceNode, SourceNodeID: w.Source.NodeID, SourcePort: w.Source.Port}
					if offset > maxInputDelay {
						maxInputDelay = offset
					}
				}
			}
			outputDelay[id] = maxInputDelay
			processingOrder = append(processingOrder, id)

		default:
			// Bidirectional/creative/utility nodes are not expected in a
			// baker-bound graph (the baker normalizes bidir CPs before
			// calling AnalyzeDelays, and creative/utility slots are a
			// cycle-evaluator-only concept — see SPEC_FULL.md §9). Treat
			// defensively as an inert pass-through with no delay.
			outputDelay[id] = 0
		}
	}

	normalize(portSources)

	inputBufferSizes := make(map[int]int)
	for _, ps := range portSources {
		if ps.Kind != SourceCP {
			continue
		}
		if size := ps.BufferOffset + 1; size > inputBufferSizes[ps.CPIndex] {
			inputBufferSizes[ps.CPIndex] = size
		}
	}

	inputCount, outputCount := countConnectionPoints(nodes)

	return &Analysis{
		PortSources:      portSources,
		InputBufferSizes: inputBufferSizes,
		OutputMappings:   outputMappings,
		ProcessingOrder:  processingOrder,
		InputCount:       inputCount,
		OutputCount:      outputCount,
	}, nil
}

// normalize subtracts the global minimum BufferOffset across every
// SourceCP entry from every SourceCP entry, in place, so the shortest
// path from any input CP reads at offset 0 (spec.md §4.4, invariant 4).
func normalize(portSources map[sgraph.PortKey]PortSource) {
	min := -1
	for _, ps := range portSources {
		if ps.Kind != SourceCP {
			continue
		}
		if min == -1 || ps.BufferOffset < min {
			min = ps.BufferOffset
		}
	}
	if min <= 0 {
		return
	}
	for key, ps := range portSources {
		if ps.Kind != SourceCP {
			continue
		}
		ps.BufferOffset -= min
		portSources[key] = ps
	}
}

func resolveOutputMapping(wires []*sgraph.Wire, outputCPID sgraph.NodeID) OutputMapping {
	w := sgraph.WireToPort(wires, outputCPID, 0)
	if w == nil {
		return OutputMapping{Kind: SourceNone}
	}
	srcKind, srcIdx := signal.Classify(string(w.Source.NodeID))
	if srcKind == signal.InputCP {
		return OutputMapping{Kind: SourceCP, CPIndex: srcIdx}
	}
	return OutputMapping{Kind: SourceNode, SourceNodeID: w.Source.NodeID, SourcePort: w.Source.Port}
}

func delayOf(w *sgraph.Wire, wireDelays map[sgraph.WireID]int) int {
	if wireDelays != nil {
		if v, ok := wireDelays[w.ID]; ok {
			return v
		}
	}
	if w.Delay != nil {
		return *w.Delay
	}
	return 0
}

// countConnectionPoints derives input_count/output_count from the node
// set itself (1 + the highest CP index present), so callers get a stable
// count even for CP indices no wire currently touches.
func countConnectionPoints(nodes map[sgraph.NodeID]*sgraph.Node) (inputCount, outputCount int) {
	for id := range nodes {
		switch kind, idx := signal.Classify(string(id)); kind {
		case signal.InputCP:
			if idx+1 > inputCount {
				inputCount = idx + 1
			}
		case signal.OutputCP:
			if idx+1 > outputCount {
				outputCount = idx + 1
			}
		}
	}
	return inputCount, outputCount
}
