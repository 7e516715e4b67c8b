package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/islandgen/internal/graph"
)

func TestClassifyBiome(t *testing.T) {
	cases := []struct {
		name  string
		cell  graph.Cell
		biome graph.Biome
	}{
		{"ocean", graph.Cell{Ocean: true, Water: true, Elevation: 0.9}, graph.Ocean},
		{"marsh", graph.Cell{Water: true, Elevation: 0.05}, graph.Marsh},
		{"ice", graph.Cell{Water: true, Elevation: 0.85}, graph.Ice},
		{"lake", graph.Cell{Water: true, Elevation: 0.5}, graph.Lake},
		{"lake at 0.1", graph.Cell{Water: true, Elevation: 0.1}, graph.Lake},
		{"beach", graph.Cell{Coast: true, Elevation: 0.9, Moisture: 0.9}, graph.Beach},

		{"snow", graph.Cell{Elevation: 0.9, Moisture: 0.6}, graph.Snow},
		{"tundra", graph.Cell{Elevation: 0.9, Moisture: 0.4}, graph.Tundra},
		{"bare", graph.Cell{Elevation: 0.9, Moisture: 0.2}, graph.Bare},
		{"scorched", graph.Cell{Elevation: 0.9, Moisture: 0.1}, graph.Scorched},
		{"snow boundary", graph.Cell{Elevation: 0.9, Moisture: 0.5}, graph.Tundra},

		{"taiga", graph.Cell{Elevation: 0.7, Moisture: 0.7}, graph.Taiga},
		{"shrubland", graph.Cell{Elevation: 0.7, Moisture: 0.5}, graph.Shrubland},
		{"high desert", graph.Cell{Elevation: 0.7, Moisture: 0.2}, graph.TemperateDesert},
		{"elevation 0.8 is not alpine", graph.Cell{Elevation: 0.8, Moisture: 0.7}, graph.Taiga},

		{"temperate rain forest", graph.Cell{Elevation: 0.4, Moisture: 0.9}, graph.TemperateRainForest},
		{"deciduous", graph.Cell{Elevation: 0.4, Moisture: 0.6}, graph.TemperateDeciduousForest},
		{"temperate grassland", graph.Cell{Elevation: 0.4, Moisture: 0.3}, graph.Grassland},
		{"temperate desert", graph.Cell{Elevation: 0.4, Moisture: 0.1}, graph.TemperateDesert},

		{"tropical rain forest", graph.Cell{Elevation: 0.1, Moisture: 0.7}, graph.TropicalRainForest},
		{"seasonal forest", graph.Cell{Elevation: 0.1, Moisture: 0.4}, graph.TropicalSeasonalForest},
		{"lowland grassland", graph.Cell{Elevation: 0.1, Moisture: 0.2}, graph.Grassland},
		{"subtropical desert", graph.Cell{Elevation: 0.1, Moisture: 0.0}, graph.SubtropicalDesert},
		{"elevation 0.3 is lowland", graph.Cell{Elevation: 0.3, Moisture: 0.0}, graph.SubtropicalDesert},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.biome, ClassifyBiome(&tc.cell))
		})
	}
}

func TestClassifyBiome_CoversEveryBiome(t *testing.T) {
	seen := map[graph.Biome]bool{}
	for _, ocean := range []bool{false, true} {
		for _, water := range []bool{false, true} {
			for _, coast := range []bool{false, true} {
				for e := -1.0; e <= 1.0; e += 0.01 {
					for m := 0.0; m <= 1.0; m += 0.01 {
						c := graph.Cell{Ocean: ocean, Water: water || ocean, Coast: coast, Elevation: e, Moisture: m}
						b := ClassifyBiome(&c)
						assert.True(t, b.Valid())
						seen[b] = true
					}
				}
			}
		}
	}
	assert.Len(t, seen, graph.NumBiomes)
}
