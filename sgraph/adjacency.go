package sgraph

import "sort"

// OutgoingWires returns the wires sourced at id, sorted by WireID for
// deterministic iteration.
func OutgoingWires(wires []*Wire, id NodeID) []*Wire {
	var out []*Wire
	for _, w := range wires {
		if w.Source.NodeID == id {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IncomingWires returns the wires targeting id, sorted by WireID.
func IncomingWires(wires []*Wire, id NodeID) []*Wire {
	var in []*Wire
	for _, w := range wires {
		if w.Target.NodeID == id {
			in = append(in, w)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].ID < in[j].ID })
	return in
}

// WireToPort returns the (at most one) wire targeting (id, port), or nil.
// spec.md §3 requires target ports to be uniquely sourced, so this is a
// linear scan rather than a map lookup.
func WireToPort(wires []*Wire, id NodeID, port int) *Wire {
	for _, w := range wires {
		if w.Target.NodeID == id && w.Target.Port == port {
			return w
		}
	}
	return nil
}

// SortedNodeIDs returns ids sorted lexicographically, for callers that
// want a deterministic default iteration order (e.g. Kahn's algorithm's
// "stably in input order" tie-break when no explicit input order is
// otherwise available).
func SortedNodeIDs(ids []NodeID) []NodeID {
	out := append([]NodeID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
