package terrain

import "github.com/talgya/islandgen/internal/graph"

// Stats summarizes a world for logs, the run archive and the API.
type Stats struct {
	Cells     int                 `json:"cells"`
	Corners   int                 `json:"corners"`
	Edges     int                 `json:"edges"`
	Islands   int                 `json:"islands"`
	Discarded int                 `json:"discarded"`
	Rivers    int                 `json:"rivers"`
	Ocean     int                 `json:"ocean"`
	Lake      int                 `json:"lake"`
	Land      int                 `json:"land"`
	Coast     int                 `json:"coast"`
	RiverFlow int                 `json:"river_flow"` // Sum of edge water volume
	Biomes    map[graph.Biome]int `json:"biomes"`
}

// Stats counts cells by hydrology and biome.
func (w *World) Stats() Stats {
	g := w.Graph
	st := Stats{
		Cells:     len(g.Cells),
		Corners:   len(g.Corners),
		Edges:     len(g.Edges),
		Islands:   len(w.Islands),
		Discarded: w.Discarded,
		Rivers:    len(w.Rivers),
		Biomes:    make(map[graph.Biome]int),
	}
	for i := range g.Cells {
		c := &g.Cells[i]
		switch {
		case c.Ocean:
			st.Ocean++
		case c.Water:
			st.Lake++
		default:
			st.Land++
		}
		if c.Coast && !c.Water {
			st.Coast++
		}
		st.Biomes[c.Biome]++
	}
	for i := range g.Edges {
		st.RiverFlow += g.Edges[i].WaterVolume
	}
	return st
}
