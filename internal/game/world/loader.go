package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlWorldFile is the top-level YAML structure for map files.
type yamlWorldFile struct {
	World Map `yaml:"world"`
}

// LoadMapFromFile reads and validates a single map YAML file.
//
// Precondition: path must point to a valid YAML map file.
// Postcondition: Returns a validated Map or a non-nil error.
func LoadMapFromFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("reading map file %s: %w", path, err)
	}
	return LoadMapFromBytes(data)
}

// LoadMapFromBytes parses and validates a map from YAML bytes.
//
// Precondition: data must contain a top-level "world" key.
// Postcondition: Returns a validated Map or a non-nil error.
func LoadMapFromBytes(data []byte) (Map, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Map{}, fmt.Errorf("parsing map YAML: %w", err)
	}
	m := file.World
	for i := range m.Locations {
		m.Locations[i].Description = strings.TrimSpace(m.Locations[i].Description)
	}
	if m.StartLocationID == "" && len(m.Locations) > 0 {
		m.StartLocationID = m.Locations[0].ID
	}
	if err := m.Validate(); err != nil {
		return Map{}, fmt.Errorf("validating map: %w", err)
	}
	m, _ = Move(m, m.StartLocationID)
	return m, nil
}

// DefaultMap returns the built-in valley map with its start location explored.
func DefaultMap() Map {
	m := Map{
		Name: "The Emberfall Vale",
		Locations: []Location{
			{ID: "hearth", Name: "Hearthstead", Description: "A ring of stone cottages around a smouldering beacon.", X: 20, Y: 70},
			{ID: "old_road", Name: "The Old Road", Description: "Cracked flagstones swallowed by moss.", X: 40, Y: 55},
			{ID: "ashwood", Name: "Ashwood", Description: "Grey trees whose leaves fall as cinders.", X: 30, Y: 30},
			{ID: "mire", Name: "Stillwater Mire", Description: "Black pools that never ripple.", X: 65, Y: 75},
			{ID: "spire", Name: "The Ember Spire", Description: "A tower of fused glass glowing from within.", X: 75, Y: 20},
		},
		Connections: []Connection{
			{From: "hearth", To: "old_road"},
			{From: "old_road", To: "ashwood"},
			{From: "old_road", To: "mire"},
			{From: "ashwood", To: "spire"},
			{From: "mire", To: "spire"},
		},
		StartLocationID: "hearth",
	}
	m, _ = Move(m, m.StartLocationID)
	return m
}
