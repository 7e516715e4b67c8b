package terrain

import "github.com/talgya/islandgen/internal/graph"

// ClassifyBiome maps a cell's water flags, elevation and moisture to a
// biome. The first matching rule wins.
func ClassifyBiome(c *graph.Cell) graph.Biome {
	e, m := c.Elevation, c.Moisture
	switch {
	case c.Ocean:
		return graph.Ocean
	case c.Water:
		if e < 0.1 {
			return graph.Marsh
		}
		if e > 0.8 {
			return graph.Ice
		}
		return graph.Lake
	case c.Coast:
		return graph.Beach
	case e > 0.8:
		switch {
		case m > 0.50:
			return graph.Snow
		case m > 0.33:
			return graph.Tundra
		case m > 0.16:
			return graph.Bare
		default:
			return graph.Scorched
		}
	case e > 0.6:
		switch {
		case m > 0.66:
			return graph.Taiga
		case m > 0.33:
			return graph.Shrubland
		default:
			return graph.TemperateDesert
		}
	case e > 0.3:
		switch {
		case m > 0.83:
			return graph.TemperateRainForest
		case m > 0.50:
			return graph.TemperateDeciduousForest
		case m > 0.16:
			return graph.Grassland
		default:
			return graph.TemperateDesert
		}
	default:
		switch {
		case m > 0.66:
			return graph.TropicalRainForest
		case m > 0.33:
			return graph.TropicalSeasonalForest
		case m > 0.16:
			return graph.Grassland
		default:
			return graph.SubtropicalDesert
		}
	}
}

func assignBiomes(g *graph.Graph) {
	for i := range g.Cells {
		g.Cells[i].Biome = ClassifyBiome(&g.Cells[i])
	}
}
