// Package registry is the node-type catalog (spec.md §4.1, component C1):
// a static, process-wide, read-only set of fundamental node definitions,
// each exposing ports, optional knob-bound parameters, an optional
// mutable-state factory, and a pure per-tick/per-cycle evaluator.
//
// Lookup is a single map read by type key. The baker's closure, the tick
// scheduler and the cycle evaluator call it for each processing node on
// every tick or cycle; none of them caches the resolved Definition.
package registry

import "github.com/signalforge/graphengine/signal"

// InputPort describes one input port of a node definition.
type InputPort struct {
	Name string
	// KnobParam is the parameter key this port is bound to, or "" if the
	// port is an ordinary signal input. A knob port's evaluator argument
	// is supplied either by an incoming wire or, when unconnected, by the
	// cycle evaluator substituting the matching port constant — the
	// evaluator never reads the parameter map directly for a knob port.
	KnobParam string
}

// OutputPort describes one output port of a node definition.
type OutputPort struct {
	Name string
}

// ParamDescriptor documents one player-adjustable parameter for editor
// consumption; it has no effect on evaluation beyond what Evaluate itself
// chooses to read from the params map.
type ParamDescriptor struct {
	Key        string
	Label      string
	HasBounds  bool
	Min, Max   float64
	EnumValues []string // non-nil for an enumerated string parameter
}

// EvaluateFunc is the pure per-tick/per-cycle node evaluator: given this
// tick's input values, the node instance's params, its mutable state (nil
// if the definition has no CreateState), and the current tick/cycle
// index, it produces exactly OutputCount values.
type EvaluateFunc func(inputs []signal.Signal, params map[string]interface{}, state interface{}, tick int) []signal.Signal

// Definition is one catalog entry.
type Definition struct {
	Type        string
	InputPorts  []InputPort
	OutputPorts []OutputPort
	Params      []ParamDescriptor
	CreateState func() interface{}
	Evaluate    EvaluateFunc
	Tags        []string
	Description string
}

// InputCount is the definition's number of input ports.
func (d *Definition) InputCount() int { return len(d.InputPorts) }

// OutputCount is the definition's number of output ports.
func (d *Definition) OutputCount() int { return len(d.OutputPorts) }

// KnobParamAt returns the parameter key bound to input port i, or "" if
// that port is not a knob port (or i is out of range).
func (d *Definition) KnobParamAt(i int) string {
	if i < 0 || i >= len(d.InputPorts) {
		return ""
	}
	return d.InputPorts[i].KnobParam
}

// Registry is a read-only, process-wide node-type catalog.
type Registry struct {
	defs map[string]*Definition
}

// New returns a Registry populated with the built-in fundamental nodes
// (§4.14). Custom hosts may call Register for additional types before
// handing the Registry to a baker/evaluator.
func New() *Registry {
	r := &Registry{defs: make(map[string]*Definition)}
	for _, d := range builtinDefinitions() {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a definition under d.Type.
func (r *Registry) Register(d *Definition) {
	r.defs[d.Type] = d
}

// Lookup returns the definition for typeKey, or (nil, false) if typeKey is
// unknown — the baker and evaluators treat an unknown type as recoverable
// (spec.md §7's UnknownNodeType), not as a panic or error.
func (r *Registry) Lookup(typeKey string) (*Definition, bool) {
	d, ok := r.defs[typeKey]
	return d, ok
}

// Default is the process-wide registry instance most callers should use;
// it is safe for concurrent reads (it is never mutated after package init).
var Default = New()
