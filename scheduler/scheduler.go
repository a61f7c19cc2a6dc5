// Package scheduler implements the tick scheduler (spec.md §4.7,
// component C7): the live editor's evaluator, which operates directly on
// a mutable graph rather than a baked closure. Each wire owns a ring
// buffer sized by its delay; a full tick is a read-evaluate phase over
// the previous tick's buffer contents followed by a write phase, so a
// wire with delay 1 still delivers a genuinely one-tick-old value — the
// read for every wire in a tick always sees data written before that
// tick, never a sibling node's output from the same call.
package scheduler

import (
	"github.com/signalforge/graphengine/registry"
	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
	"github.com/signalforge/graphengine/topo"
)

type wireBuffer struct {
	data []signal.Signal
	head int
}

func newWireBuffer(capacity int) *wireBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &wireBuffer{data: make([]signal.Signal, capacity)}
}

// State is the scheduler's owned mutable state across AdvanceTick calls:
// per-wire ring buffers, per-node registry state, and the previous
// tick's input/output snapshot used for the re-evaluate-on-change
// optimization.
type State struct {
	// CPInputs drives input connection points: set CPInputs[id] before
	// calling AdvanceTick to deliver a value on that input this tick.
	CPInputs map[sgraph.NodeID]signal.Signal
	// CPOutputs is populated by AdvanceTick with each output connection
	// point's delivered value.
	CPOutputs map[sgraph.NodeID]signal.Signal
	Tick      int

	registry    *registry.Registry
	nodeStates  map[sgraph.NodeID]interface{}
	wireBuffers map[sgraph.WireID]*wireBuffer
	lastInputs  map[sgraph.NodeID][]signal.Signal
	lastOutputs map[sgraph.NodeID][]signal.Signal
}

// NewState allocates per-node registry state for every processing node in
// nodes. Wire buffers are allocated lazily by AdvanceTick, since the live
// editor may add wires after the scheduler starts.
func NewState(nodes map[sgraph.NodeID]*sgraph.Node) *State {
	return NewStateWithRegistry(nodes, registry.Default)
}

// NewStateWithRegistry is NewState with an explicit registry, for hosts
// that register custom node types beyond registry.Default.
func NewStateWithRegistry(nodes map[sgraph.NodeID]*sgraph.Node, reg *registry.Registry) *State {
	s := &State{
		CPInputs:    make(map[sgraph.NodeID]signal.Signal),
		CPOutputs:   make(map[sgraph.NodeID]signal.Signal),
		registry:    reg,
		nodeStates:  make(map[sgraph.NodeID]interface{}),
		wireBuffers: make(map[sgraph.WireID]*wireBuffer),
		lastInputs:  make(map[sgraph.NodeID][]signal.Signal),
		lastOutputs: make(map[sgraph.NodeID][]signal.Signal),
	}
	for id, n := range nodes {
		if kind, _ := signal.Classify(string(id)); kind != signal.NotReserved {
			continue
		}
		if def, ok := reg.Lookup(n.Type); ok && def.CreateState != nil {
			s.nodeStates[id] = def.CreateState()
		}
	}
	return s
}

func (s *State) bufferFor(w *sgraph.Wire) *wireBuffer {
	buf, ok := s.wireBuffers[w.ID]
	capacity := 1
	if w.Delay != nil {
		capacity = *w.Delay
	}
	if ok && len(buf.data) == capacity {
		return buf
	}
	buf = newWireBuffer(capacity)
	s.wireBuffers[w.ID] = buf
	return buf
}

// AdvanceTick evaluates one grid tick: every wire's read reflects data
// from before this call, every write is latched for the next call.
func AdvanceTick(wires []*sgraph.Wire, nodes map[sgraph.NodeID]*sgraph.Node, order topo.Order, state *State) error {
	currentOutputs := make(map[sgraph.NodeID][]signal.Signal, len(order))

	for _, id := range order {
		n := nodes[id]
		kind, _ := signal.Classify(string(id))

		switch kind {
		case signal.InputCP:
			currentOutputs[id] = []signal.Signal{state.CPInputs[id]}

		case signal.OutputCP:
			if w := sgraph.WireToPort(wires, id, 0); w != nil {
				buf := state.bufferFor(w)
				state.CPOutputs[id] = buf.data[buf.head]
			} else {
				state.CPOutputs[id] = 0
			}

		default:
			in := make([]signal.Signal, n.InputCount)
			// A node with no input ports (e.g. a knob) has nothing whose
			// change the optimization can key off; always evaluate it so
			// an editor-driven parameter change still takes effect.
			changed := n.InputCount == 0 || len(state.lastInputs[id]) != n.InputCount
			for port := 0; port < n.InputCount; port++ {
				w := sgraph.WireToPort(wires, id, port)
				var val signal.Signal
				if w != nil {
					buf := state.bufferFor(w)
					val = buf.data[buf.head]
				}
				in[port] = val
				if !changed && (state.lastInputs[id] == nil || state.lastInputs[id][port] != val) {
					changed = true
				}
			}

			var out []signal.Signal
			if !changed {
				if cached, ok := state.lastOutputs[id]; ok {
					out = cached
				}
			}
			if out == nil {
				if def, ok := state.registry.Lookup(n.Type); ok {
					out = def.Evaluate(in, n.Params, state.nodeStates[id], state.Tick)
				} else {
					out = make([]signal.Signal, n.OutputCount)
				}
			}
			currentOutputs[id] = out
			state.lastInputs[id] = append([]signal.Signal(nil), in...)
			state.lastOutputs[id] = out
		}
	}

	for _, w := range wires {
		src := w.Source.NodeID
		out := currentOutputs[src]
		var val signal.Signal
		if w.Source.Port < len(out) {
			val = out[w.Source.Port]
		}
		buf := state.bufferFor(w)
		buf.data[buf.head] = val
		buf.head = (buf.head + 1) % len(buf.data)
	}

	state.Tick++
	return nil
}
