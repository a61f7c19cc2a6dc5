package baker

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NodeConfig is one node's serializable configuration.
type NodeConfig struct {
	ID          string                 `yaml:"id"`
	Type        string                 `yaml:"type"`
	Params      map[string]interface{} `yaml:"params,omitempty"`
	InputCount  int                    `yaml:"input_count"`
	OutputCount int                    `yaml:"output_count"`
}

// EdgeConfig is one wire's serializable configuration.
type EdgeConfig struct {
	FromNode  string `yaml:"from_node"`
	FromPort  int    `yaml:"from_port"`
	ToNode    string `yaml:"to_node"`
	ToPort    int    `yaml:"to_port"`
	WireDelay *int   `yaml:"wire_delay,omitempty"`
}

// Metadata is the serializable record produced by Bake and consumed by
// ReconstructFromMetadata (spec.md §3's "Baked metadata"). It round-trips
// through YAML via gopkg.in/yaml.v3 (SPEC_FULL.md §4.12): unknown fields
// on read are silently ignored, so an older reader can load metadata
// written by a newer baker.
type Metadata struct {
	TopoOrder        []string       `yaml:"topo_order"`
	Nodes            []NodeConfig   `yaml:"nodes"`
	Edges            []EdgeConfig   `yaml:"edges"`
	InputCount       int            `yaml:"input_count"`
	OutputCount      int            `yaml:"output_count"`
	InputBufferSizes map[int]int    `yaml:"input_buffer_sizes,omitempty"`
	BidirDirections  map[int]string `yaml:"bidir_directions,omitempty"`
}

// Marshal serializes m to its YAML text-interchange form (spec.md §6).
func (m *Metadata) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("baker: marshal metadata: %w", err)
	}
	return out, nil
}

// UnmarshalMetadata parses YAML produced by Marshal (or any equivalent
// text with the same field names) back into a Metadata. Fields present
// in data but absent from Metadata are silently ignored, keeping older
// readers forward-compatible with metadata written by a newer baker.
func UnmarshalMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("baker: unmarshal metadata: %w", err)
	}
	return &m, nil
}
