package sgraph

import "fmt"

// Validate checks the structural invariants spec.md §3 requires of a
// Graph: every wire endpoint must key an existing node, every port index
// must be in range, and every target port must be uniquely sourced.
//
// Validate does not check for signal-wire cycles — that is topo.Sort's
// job, since cycle detection requires the parameter-wire split described
// in spec.md §4.8/§9.
func (g *Graph) Validate() error {
	for _, w := range g.Wires {
		srcNode, ok := g.Nodes[w.Source.NodeID]
		if !ok {
			return fmt.Errorf("wire %s: source node %s: %w", w.ID, w.Source.NodeID, ErrDanglingWire)
		}
		dstNode, ok := g.Nodes[w.Target.NodeID]
		if !ok {
			return fmt.Errorf("wire %s: target node %s: %w", w.ID, w.Target.NodeID, ErrDanglingWire)
		}
		if w.Source.Port < 0 || w.Source.Port >= srcNode.OutputCount {
			return fmt.Errorf("wire %s: source port %d: %w", w.ID, w.Source.Port, ErrPortOutOfRange)
		}
		if w.Target.Port < 0 || w.Target.Port >= dstNode.InputCount {
			return fmt.Errorf("wire %s: target port %d: %w", w.ID, w.Target.Port, ErrPortOutOfRange)
		}
	}

	seen := make(map[PortKey]WireID, len(g.Wires))
	for _, w := range g.Wires {
		key := MakePortKey(w.Target.NodeID, w.Target.Port)
		if prior, exists := seen[key]; exists {
			return fmt.Errorf("wire %s conflicts with wire %s on port %s: %w", w.ID, prior, key, ErrDuplicateTargetPort)
		}
		seen[key] = w.ID
	}

	return nil
}
