package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/hausweber/heatnet/pkg/synth"
)

// ProjectConfig is the TOML project file loaded by `heatnet synth --config`.
// Flags set on the command line override file values.
type ProjectConfig struct {
	// Input files. Streets may be GeoJSON, scene JSON or OSM XML.
	Streets    string `toml:"streets"`
	Buildings  string `toml:"buildings"`
	Generators string `toml:"generators"`

	// Output path for the result FeatureCollection.
	Output string `toml:"output"`

	Synthesis SynthesisConfig `toml:"synthesis"`
}

// SynthesisConfig holds the pipeline parameters of a project file.
type SynthesisConfig struct {
	NodeThreshold      float64 `toml:"node_threshold"`
	OffsetX            float64 `toml:"offset_x"`
	OffsetY            float64 `toml:"offset_y"`
	MaxPruneIterations int     `toml:"max_prune_iterations"`
}

// LoadProjectConfig reads and parses a TOML project file.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg ProjectConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Options converts the synthesis section to pipeline options. Zero values
// stay zero so pipeline defaults apply.
func (c *SynthesisConfig) Options() synth.Options {
	return synth.Options{
		NodeThreshold:      c.NodeThreshold,
		OffsetX:            c.OffsetX,
		OffsetY:            c.OffsetY,
		MaxPruneIterations: c.MaxPruneIterations,
	}
}
