package registry

import "github.com/signalforge/graphengine/signal"

// paramFloat reads a numeric parameter from a node instance's params map,
// accepting float64 (the canonical ParamValue numeric representation) and
// falling back to def for any other type or a missing key.
func paramFloat(params map[string]interface{}, key string, def float64) float64 {
	if params == nil {
		return def
	}
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

// memoryState is the mutable per-instance state of a "memory" node.
type memoryState struct {
	value signal.Signal
}

func builtinDefinitions() []*Definition {
	return []*Definition{
		{
			Type:        "passthrough",
			InputPorts:  []InputPort{{Name: "A"}},
			OutputPorts: []OutputPort{{Name: "out"}},
			Description: "Outputs its input unchanged.",
			Evaluate: func(in []signal.Signal, _ map[string]interface{}, _ interface{}, _ int) []signal.Signal {
				return []signal.Signal{signal.Clamp(in[0])}
			},
		},
		{
			Type:        "invert",
			InputPorts:  []InputPort{{Name: "A"}},
			OutputPorts: []OutputPort{{Name: "out"}},
			Description: "Negates its input.",
			Evaluate: func(in []signal.Signal, _ map[string]interface{}, _ interface{}, _ int) []signal.Signal {
				return []signal.Signal{signal.Clamp(-in[0])}
			},
		},
		{
			Type:        "add",
			InputPorts:  []InputPort{{Name: "A"}, {Name: "B"}},
			OutputPorts: []OutputPort{{Name: "out"}},
			Tags:        []string{"shifter", "merger"},
			Description: "Sums two inputs. Also registered as shifter/merger.",
			Evaluate:    evaluateAdd,
		},
		{
			Type:        "shifter",
			InputPorts:  []InputPort{{Name: "A"}, {Name: "B"}},
			OutputPorts: []OutputPort{{Name: "out"}},
			Description: "Alias of add.",
			Evaluate:    evaluateAdd,
		},
		{
			Type:        "merger",
			InputPorts:  []InputPort{{Name: "A"}, {Name: "B"}},
			OutputPorts: []OutputPort{{Name: "out"}},
			Description: "Alias of add.",
			Evaluate:    evaluateAdd,
		},
		{
			Type:        "splitter",
			InputPorts:  []InputPort{{Name: "A"}},
			OutputPorts: []OutputPort{{Name: "out1"}, {Name: "out2"}},
			Description: "Splits its input evenly across two outputs.",
			Evaluate: func(in []signal.Signal, _ map[string]interface{}, _ interface{}, _ int) []signal.Signal {
				half := signal.Clamp(in[0] / 2)
				return []signal.Signal{half, half}
			},
		},
		{
			Type: "scale",
			InputPorts: []InputPort{
				{Name: "A"},
				{Name: "X", KnobParam: "x"},
			},
			OutputPorts: []OutputPort{{Name: "out"}},
			Params: []ParamDescriptor{
				{Key: "x", Label: "Scale", HasBounds: true, Min: -100, Max: 100},
			},
			Description: "Scales A by X/100.",
			Evaluate: func(in []signal.Signal, _ map[string]interface{}, _ interface{}, _ int) []signal.Signal {
				a, x := in[0], in[1]
				return []signal.Signal{signal.Clamp(a * x / 100)}
			},
		},
		{
			Type: "amplify",
			InputPorts: []InputPort{
				{Name: "A"},
				{Name: "X", KnobParam: "x"},
			},
			OutputPorts: []OutputPort{{Name: "out"}},
			Params: []ParamDescriptor{
				{Key: "x", Label: "Amount", HasBounds: true, Min: -100, Max: 100},
			},
			Description: "Amplifies A by a factor of (1 + X/100).",
			Evaluate: func(in []signal.Signal, _ map[string]interface{}, _ interface{}, _ int) []signal.Signal {
				a, x := in[0], in[1]
				return []signal.Signal{signal.Clamp(a * (1 + x/100))}
			},
		},
		{
			Type:        "memory",
			InputPorts:  []InputPort{{Name: "A"}},
			OutputPorts: []OutputPort{{Name: "out"}},
			Description: "Outputs the previous tick/cycle's input; starts at 0.",
			CreateState: func() interface{} { return &memoryState{} },
			Evaluate: func(in []signal.Signal, _ map[string]interface{}, state interface{}, _ int) []signal.Signal {
				st := state.(*memoryState)
				prev := st.value
				st.value = signal.Clamp(in[0])
				return []signal.Signal{prev}
			},
		},
		{
			Type:        "knob",
			InputPorts:  nil,
			OutputPorts: []OutputPort{{Name: "out"}},
			Params: []ParamDescriptor{
				{Key: "value", Label: "Value", HasBounds: true, Min: -100, Max: 100},
			},
			Description: "Outputs a constant set by its value parameter.",
			Evaluate: func(_ []signal.Signal, params map[string]interface{}, _ interface{}, _ int) []signal.Signal {
				return []signal.Signal{signal.Clamp(signal.Signal(paramFloat(params, "value", 0)))}
			},
		},
		{
			Type:        "clampnode",
			InputPorts:  []InputPort{{Name: "A"}},
			OutputPorts: []OutputPort{{Name: "out"}},
			Params: []ParamDescriptor{
				{Key: "min", Label: "Min", HasBounds: true, Min: -100, Max: 100},
				{Key: "max", Label: "Max", HasBounds: true, Min: -100, Max: 100},
			},
			Description: "Clamps its input to a narrower [min, max] sub-range.",
			Evaluate: func(in []signal.Signal, params map[string]interface{}, _ interface{}, _ int) []signal.Signal {
				lo := paramFloat(params, "min", float64(signal.DefaultRange.Min))
				hi := paramFloat(params, "max", float64(signal.DefaultRange.Max))
				r := signal.Range{Min: signal.Signal(lo), Max: signal.Signal(hi)}
				return []signal.Signal{signal.Clamp(r.Clamp(in[0]))}
			},
		},
	}
}

func evaluateAdd(in []signal.Signal, _ map[string]interface{}, _ interface{}, _ int) []signal.Signal {
	return []signal.Signal{signal.Clamp(in[0] + in[1])}
}
