// Package liveness implements forward-reachability BFS from a set of
// source nodes (spec.md §4.3, component C3), used by the cycle evaluator
// to substitute zero outputs for nodes no input source can reach.
package liveness

import "github.com/signalforge/graphengine/sgraph"

// ComputeLiveNodes returns the set of node ids forward-reachable from
// sourceIDs along wire direction, including the sources themselves.
func ComputeLiveNodes(wires []*sgraph.Wire, sourceIDs []sgraph.NodeID) map[sgraph.NodeID]struct{} {
	adj := make(map[sgraph.NodeID][]sgraph.NodeID, len(wires))
	for _, w := range wires {
		adj[w.Source.NodeID] = append(adj[w.Source.NodeID], w.Target.NodeID)
	}

	live := make(map[sgraph.NodeID]struct{}, len(sourceIDs))
	queue := make([]sgraph.NodeID, 0, len(sourceIDs))
	for _, src := range sourceIDs {
		if _, seen := live[src]; seen {
			continue
		}
		live[src] = struct{}{}
		queue = append(queue, src)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adj[id] {
			if _, seen := live[next]; seen {
				continue
			}
			live[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	return live
}
