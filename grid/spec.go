package grid

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the on-disk description of a grid topology: either a
// rectangular block or an explicit list of valid cells with holes
// punched out. It is the YAML form the grid topology loader (§2 row 1,
// an external collaborator) hands to the core as a concrete Grid.
type Spec struct {
	// Height and Width describe a fully-rectangular grid when Obstacles
	// is empty.
	Height int `yaml:"height"`
	Width  int `yaml:"width"`

	// Obstacles lists cells within the Height x Width rectangle that are
	// NOT part of the grid, punching holes in an otherwise rectangular
	// topology.
	Obstacles []Location `yaml:"obstacles"`
}

// ToGrid materializes a Spec into a Grid.
func (s Spec) ToGrid() *Grid {
	blocked := make(map[Location]struct{}, len(s.Obstacles))
	for _, o := range s.Obstacles {
		blocked[o] = struct{}{}
	}
	cells := make([]Location, 0, s.Height*s.Width)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			loc := Location{Y: y, X: x}
			if _, isBlocked := blocked[loc]; isBlocked {
				continue
			}
			cells = append(cells, loc)
		}
	}
	return New(cells)
}

// LoadSpec reads and parses a grid topology file.
func LoadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("reading grid file: %w", err)
	}
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("parsing grid file: %w", err)
	}
	return s, nil
}

// Load reads a grid topology file and returns the resulting Grid.
func Load(path string) (*Grid, error) {
	s, err := LoadSpec(path)
	if err != nil {
		return nil, err
	}
	return s.ToGrid(), nil
}
