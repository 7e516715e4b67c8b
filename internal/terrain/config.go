// Package terrain turns a planar subdivision into a classified island: it
// runs hydrology, island detection, elevation, rivers, moisture and biome
// assignment over a graph.Graph, in that order, once per generation.
package terrain

import (
	"errors"
	"fmt"

	"github.com/talgya/islandgen/internal/geom"
)

// ErrInvalidConfig is wrapped by every GenConfig validation failure.
var ErrInvalidConfig = errors.New("terrain: invalid config")

// RiverConfig controls spring selection.
type RiverConfig struct {
	Seed               int64   `json:"seed"`                 // Spring selection stream
	Springs            int     `json:"springs"`              // Number of rivers to trace
	MinSpringElevation float64 `json:"min_spring_elevation"` // Lowest spring (0.0–1.0)
	MaxSpringElevation float64 `json:"max_spring_elevation"` // Highest spring (0.0–1.0)
}

// GenConfig holds world generation parameters.
type GenConfig struct {
	Polygons      int         `json:"polygons"`        // Number of Voronoi sites
	Size          geom.Point  `json:"size"`            // Working rectangle [0,X] x [0,Y]
	Relaxations   int         `json:"relaxations"`     // Lloyd relaxation iterations
	Curve         string      `json:"curve"`           // Elevation remap, see CurveByName
	SingleIsland  bool        `json:"single_island"`   // Keep only the largest island
	MinIslandSize int         `json:"min_island_size"` // Smaller islands are sunk
	AutoReseed    bool        `json:"auto_reseed"`     // Roll a fresh seed for the next run
	Rivers        RiverConfig `json:"rivers"`
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Polygons:      2000,
		Size:          geom.Pt(1000, 1000),
		Relaxations:   2,
		Curve:         "linear",
		SingleIsland:  false,
		MinIslandSize: 8,
		AutoReseed:    true,
		Rivers: RiverConfig{
			Seed:               1,
			Springs:            30,
			MinSpringElevation: 0.3,
			MaxSpringElevation: 0.9,
		},
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Polygons = 300
	cfg.Size = geom.Pt(100, 100)
	cfg.Relaxations = 1
	cfg.MinIslandSize = 1
	cfg.Rivers.Springs = 8
	return cfg
}

// Validate reports the first unusable parameter.
func (c GenConfig) Validate() error {
	switch {
	case c.Polygons < 3:
		return fmt.Errorf("%w: polygons must be at least 3, got %d", ErrInvalidConfig, c.Polygons)
	case c.Size.X <= 0 || c.Size.Y <= 0:
		return fmt.Errorf("%w: size must be positive, got %v", ErrInvalidConfig, c.Size)
	case c.Relaxations < 0:
		return fmt.Errorf("%w: relaxations must not be negative", ErrInvalidConfig)
	case c.MinIslandSize < 0:
		return fmt.Errorf("%w: min island size must not be negative", ErrInvalidConfig)
	case c.Rivers.Springs < 0:
		return fmt.Errorf("%w: springs must not be negative", ErrInvalidConfig)
	case c.Rivers.MinSpringElevation > c.Rivers.MaxSpringElevation:
		return fmt.Errorf("%w: spring elevation band [%g, %g] is empty", ErrInvalidConfig,
			c.Rivers.MinSpringElevation, c.Rivers.MaxSpringElevation)
	}
	if _, err := CurveByName(c.Curve); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
