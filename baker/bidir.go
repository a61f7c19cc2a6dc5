package baker

import (
	"fmt"

	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
)

// normalizeBidirCPs classifies each present bidirectional connection
// point by its wiring (spec.md §4.6 step 1) and rewrites it into an
// ordinary input or output connection point, assigned an index past any
// already-present input/output CPs so it cannot collide. It returns
// fresh node/wire collections; the caller's originals are untouched.
func normalizeBidirCPs(nodes map[sgraph.NodeID]*sgraph.Node, wires []*sgraph.Wire) (map[sgraph.NodeID]*sgraph.Node, []*sgraph.Wire, map[int]string, error) {
	nextInput, nextOutput := 0, 0
	for id := range nodes {
		switch kind, idx := signal.Classify(string(id)); kind {
		case signal.InputCP:
			if idx+1 > nextInput {
				nextInput = idx + 1
			}
		case signal.OutputCP:
			if idx+1 > nextOutput {
				nextOutput = idx + 1
			}
		}
	}

	directions := make(map[int]string)
	remap := make(map[sgraph.NodeID]sgraph.NodeID)
	dropped := make(map[sgraph.NodeID]struct{})

	for i := 0; i <= signal.MaxSlotIndex; i++ {
		id := sgraph.NodeID(signal.BidirCPID(i))
		if _, present := nodes[id]; !present {
			continue
		}
		hasOut := len(sgraph.OutgoingWires(wires, id)) > 0
		hasIn := len(sgraph.IncomingWires(wires, id)) > 0

		switch {
		case hasOut && hasIn:
			return nil, nil, nil, fmt.Errorf("bidir slot %d: %w", i, ErrBidirectionalConflict)
		case hasOut && !hasIn:
			newID := sgraph.NodeID(signal.InputCPID(nextInput))
			nextInput++
			remap[id] = newID
			directions[i] = "input"
		case !hasOut && hasIn:
			newID := sgraph.NodeID(signal.OutputCPID(nextOutput))
			nextOutput++
			remap[id] = newID
			directions[i] = "output"
		default:
			dropped[id] = struct{}{}
			directions[i] = "off"
		}
	}

	newNodes := make(map[sgraph.NodeID]*sgraph.Node, len(nodes))
	for id, n := range nodes {
		if _, gone := dropped[id]; gone {
			continue
		}
		if newID, renamed := remap[id]; renamed {
			clone := *n
			clone.ID = newID
			newNodes[newID] = &clone
			continue
		}
		newNodes[id] = n
	}

	newWires := make([]*sgraph.Wire, 0, len(wires))
	for _, w := range wires {
		clone := *w
		if newID, renamed := remap[clone.Source.NodeID]; renamed {
			clone.Source.NodeID = newID
		}
		if newID, renamed := remap[clone.Target.NodeID]; renamed {
			clone.Target.NodeID = newID
		}
		newWires = append(newWires, &clone)
	}

	return newNodes, newWires, directions, nil
}
