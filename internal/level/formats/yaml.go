// Package formats provides level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	TileSize float64           `yaml:"tile_size"`
	Layout   []string          `yaml:"layout"`
	Agents   []YAMLAgent       `yaml:"agents,omitempty"`
	Seeds    [][2]float64      `yaml:"seeds,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLAgent represents one agent spawn. Coordinates are tile columns and rows.
type YAMLAgent struct {
	Role   string   `yaml:"role"`
	At     [2]int   `yaml:"at"`
	Route  [][2]int `yaml:"route,omitempty"`
	Script string   `yaml:"script,omitempty"`
}

// DefaultTileSize is used when a level does not set tile_size.
const DefaultTileSize = 40

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (YAMLLevel, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return YAMLLevel{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if yl.TileSize <= 0 {
		yl.TileSize = DefaultTileSize
	}
	return yl, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
