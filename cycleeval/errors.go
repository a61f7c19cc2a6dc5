package cycleeval

import "github.com/signalforge/graphengine/topo"

// ErrCycleDetected re-exports the setup-time topological-sort failure:
// the signal DAG (parameter wires excluded) contains a cycle. Check with
// errors.Is; a *topo.CycleError is available via errors.As for the path.
var ErrCycleDetected = topo.ErrCycleDetected
