// Package wiredelay implements the wire-delay distributor (spec.md §4.5,
// component C5): it assigns every wire an integer delay of at least 1 so
// that every path from a zero-in-degree node to a terminal output sums to
// exactly a configured TOTAL_TICKS budget.
package wiredelay

import (
	"math"

	"github.com/signalforge/graphengine/sgraph"
	"github.com/signalforge/graphengine/signal"
	"github.com/signalforge/graphengine/topo"
)

// Distribution is the result of ComputeWireDelays.
type Distribution struct {
	WireDelays map[sgraph.WireID]int
	Depth      map[sgraph.NodeID]int
	MaxDepth   int
}

// ComputeWireDelays never fails: a budget smaller than the graph's depth
// simply floors every wire at 1, which may push path sums above
// totalTicks (spec.md §4.5's documented misconfiguration, not an error).
func ComputeWireDelays(order topo.Order, wires []*sgraph.Wire, nodes map[sgraph.NodeID]*sgraph.Node, totalTicks int) (*Distribution, error) {
	relevant := relevantWires(wires, nodes)
	depth := forwardDepth(order, relevant)

	terminals := terminalOutputs(order, nodes)

	arrival := make(map[sgraph.NodeID]int, len(order))
	var reachable map[sgraph.NodeID]struct{}
	var maxDepth int

	if len(terminals) == 0 {
		// Case 7: no designated output terminals (or every node at depth
		// zero) — treat the whole graph as one subgraph and distribute by
		// global depth.
		maxDepth = maxOf(depth, order)
		for _, id := range order {
			arrival[id] = arrivalFor(depth[id], maxDepth, totalTicks)
		}
		reachable = allNodeSet(order)
	} else {
		maxDepth = maxOfSet(depth, terminals)
		reachable = outputReachableSet(order, relevant, terminals)
		for id := range reachable {
			if _, isTerminal := terminals[id]; isTerminal {
				arrival[id] = totalTicks
			} else {
				arrival[id] = arrivalFor(depth[id], maxDepth, totalTicks)
			}
		}
	}

	delays := make(map[sgraph.WireID]int, len(relevant))
	var deadWires []*sgraph.Wire
	for _, w := range relevant {
		_, srcReach := reachable[w.Source.NodeID]
		_, dstReach := reachable[w.Target.NodeID]
		if srcReach && dstReach {
			delays[w.ID] = floorDelay(arrival[w.Target.NodeID] - arrival[w.Source.NodeID])
		} else {
			deadWires = append(deadWires, w)
		}
	}

	distributeDeadEnds(order, relevant, deadWires, reachable, arrival, totalTicks, delays)

	return &Distribution{WireDelays: delays, Depth: depth, MaxDepth: maxDepth}, nil
}

// relevantWires drops any wire whose endpoints are not both present in
// nodes, matching the delay analyzer's defensive treatment of partial
// node sets.
func relevantWires(wires []*sgraph.Wire, nodes map[sgraph.NodeID]*sgraph.Node) []*sgraph.Wire {
	out := make([]*sgraph.Wire, 0, len(wires))
	for _, w := range wires {
		if _, ok := nodes[w.Source.NodeID]; !ok {
			continue
		}
		if _, ok := nodes[w.Target.NodeID]; !ok {
			continue
		}
		out = append(out, w)
	}
	return out
}

// forwardDepth computes the longest-path depth of every node in order,
// zero for any node with no incoming wire among wires.
func forwardDepth(order topo.Order, wires []*sgraph.Wire) map[sgraph.NodeID]int {
	depth := make(map[sgraph.NodeID]int, len(order))
	for _, id := range order {
		max := -1
		for _, w := range sgraph.IncomingWires(wires, id) {
			if d, ok := depth[w.Source.NodeID]; ok && d > max {
				max = d
			}
		}
		if max == -1 {
			depth[id] = 0
		} else {
			depth[id] = max + 1
		}
	}
	return depth
}

// terminalOutputs is the set of output connection points present in
// nodes — the designated sinks a path must reach to count as
// output-reachable (spec.md §4.5's "terminal (output-reachable) nodes").
func terminalOutputs(order topo.Order, nodes map[sgraph.NodeID]*sgraph.Node) map[sgraph.NodeID]struct{} {
	out := make(map[sgraph.NodeID]struct{})
	for _, id := range order {
		if _, ok := nodes[id]; !ok {
			continue
		}
		if kind, _ := signal.Classify(string(id)); kind == signal.OutputCP {
			out[id] = struct{}{}
		}
	}
	return out
}

// outputReachableSet is every node with a forward wire path to some
// terminal, found by backward BFS over the reversed adjacency.
func outputReachableSet(order topo.Order, wires []*sgraph.Wire, terminals map[sgraph.NodeID]struct{}) map[sgraph.NodeID]struct{} {
	reachable := make(map[sgraph.NodeID]struct{}, len(terminals))
	queue := make([]sgraph.NodeID, 0, len(terminals))
	for id := range terminals {
		reachable[id] = struct{}{}
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, w := range sgraph.IncomingWires(wires, n) {
			src := w.Source.NodeID
			if _, seen := reachable[src]; seen {
				continue
			}
			reachable[src] = struct{}{}
			queue = append(queue, src)
		}
	}
	return reachable
}

func allNodeSet(order topo.Order) map[sgraph.NodeID]struct{} {
	out := make(map[sgraph.NodeID]struct{}, len(order))
	for _, id := range order {
		out[id] = struct{}{}
	}
	return out
}

func maxOf(depth map[sgraph.NodeID]int, order topo.Order) int {
	max := 0
	for _, id := range order {
		if d := depth[id]; d > max {
			max = d
		}
	}
	return max
}

func maxOfSet(depth map[sgraph.NodeID]int, set map[sgraph.NodeID]struct{}) int {
	max := 0
	for id := range set {
		if d := depth[id]; d > max {
			max = d
		}
	}
	return max
}

// arrivalFor scales depth into [0, totalTicks] against maxDepth, falling
// back to totalTicks when every candidate node sits at depth zero.
func arrivalFor(depth, maxDepth, totalTicks int) int {
	if maxDepth <= 0 {
		return totalTicks
	}
	return roundDiv(depth*totalTicks, maxDepth)
}

func roundDiv(numerator, denom int) int {
	if denom == 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denom)))
}

func floorDelay(d int) int {
	if d < 1 {
		return 1
	}
	return d
}

// distributeDeadEnds handles wires reaching into (or contained within) a
// dead-end subgraph: one whose nodes never reach a terminal. Each weakly
// connected dead component gets its own local budget of
// totalTicks − arrival(entry), where entry is the reachable ancestor
// feeding it, and redistributes that budget by local depth (spec.md
// §4.5 step 6).
func distributeDeadEnds(order topo.Order, wires, deadWires []*sgraph.Wire, reachable map[sgraph.NodeID]struct{}, arrival map[sgraph.NodeID]int, totalTicks int, delays map[sgraph.WireID]int) {
	if len(deadWires) == 0 {
		return
	}

	deadNodes := make(map[sgraph.NodeID]struct{})
	for _, w := range deadWires {
		if _, ok := reachable[w.Source.NodeID]; !ok {
			deadNodes[w.Source.NodeID] = struct{}{}
		}
		if _, ok := reachable[w.Target.NodeID]; !ok {
			deadNodes[w.Target.NodeID] = struct{}{}
		}
	}

	components := weakComponents(order, wires, deadNodes)

	for _, component := range components {
		entryArrival := 0
		hasEntry := false
		for n := range component {
			for _, w := range sgraph.IncomingWires(wires, n) {
				if a, ok := arrival[w.Source.NodeID]; ok {
					if _, isReachable := reachable[w.Source.NodeID]; isReachable {
						if !hasEntry || a > entryArrival {
							entryArrival = a
							hasEntry = true
						}
					}
				}
			}
		}
		localBudget := totalTicks - entryArrival
		if localBudget < 0 {
			localBudget = 0
		}

		localDepth := make(map[sgraph.NodeID]int, len(component))
		for _, id := range order {
			if _, in := component[id]; !in {
				continue
			}
			max := -1
			for _, w := range sgraph.IncomingWires(wires, id) {
				src := w.Source.NodeID
				if _, inComponent := component[src]; inComponent {
					if d, ok := localDepth[src]; ok && d > max {
						max = d
					}
				}
			}
			if max == -1 {
				localDepth[id] = 0
			} else {
				localDepth[id] = max + 1
			}
		}

		componentMaxDepth := 0
		for _, d := range localDepth {
			if d > componentMaxDepth {
				componentMaxDepth = d
			}
		}

		for n := range component {
			if componentMaxDepth > 0 {
				arrival[n] = entryArrival + roundDiv(localDepth[n]*localBudget, componentMaxDepth)
			} else {
				arrival[n] = entryArrival + localBudget
			}
		}
	}

	for _, w := range deadWires {
		delays[w.ID] = floorDelay(arrival[w.Target.NodeID] - arrival[w.Source.NodeID])
	}
}

// weakComponents groups deadNodes into weakly connected components using
// only the dead-to-dead wires among wires.
func weakComponents(order topo.Order, wires []*sgraph.Wire, deadNodes map[sgraph.NodeID]struct{}) []map[sgraph.NodeID]struct{} {
	visited := make(map[sgraph.NodeID]struct{}, len(deadNodes))
	var components []map[sgraph.NodeID]struct{}

	for _, start := range order {
		if _, isDead := deadNodes[start]; !isDead {
			continue
		}
		if _, seen := visited[start]; seen {
			continue
		}
		component := map[sgraph.NodeID]struct{}{start: {}}
		visited[start] = struct{}{}
		queue := []sgraph.NodeID{start}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			neighbors := append(append([]*sgraph.Wire{}, sgraph.OutgoingWires(wires, n)...), sgraph.IncomingWires(wires, n)...)
			for _, w := range neighbors {
				for _, cand := range []sgraph.NodeID{w.Source.NodeID, w.Target.NodeID} {
					if cand == n {
						continue
					}
					if _, isDead := deadNodes[cand]; !isDead {
						continue
					}
					if _, seen := visited[cand]; seen {
						continue
					}
					visited[cand] = struct{}{}
					component[cand] = struct{}{}
					queue = append(queue, cand)
				}
			}
		}
		components = append(components, component)
	}
	return components
}
