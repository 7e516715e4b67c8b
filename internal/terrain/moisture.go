package terrain

import (
	"log/slog"
	"math"

	"github.com/talgya/islandgen/internal/graph"
)

// assignMoisture sets moisture from the distance to fresh water. Cells along
// a river or next to a lake are at distance 0; the distance then spreads over
// land only. Water cells are fully wet, land cells fall off linearly to 0 at
// the greatest distance found, and land no fresh water can reach is dry.
func assignMoisture(g *graph.Graph) {
	const unreached = math.MaxInt

	dist := make([]int, len(g.Cells))
	for i := range dist {
		dist[i] = unreached
	}

	var queue []int
	seed := func(c int) {
		if dist[c] != 0 {
			dist[c] = 0
			queue = append(queue, c)
		}
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.WaterVolume > 0 || g.TouchesLake(e) {
			seed(e.D0)
			seed(e.D1)
		}
	}

	for head := 0; head < len(queue); head++ {
		c := queue[head]
		for _, n := range g.Cells[c].Neighbors {
			if g.Cells[n].Water || dist[n] != unreached {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}

	maxDist := 0
	for i := range g.Cells {
		if g.Cells[i].IsLand() && dist[i] != unreached && dist[i] > maxDist {
			maxDist = dist[i]
		}
	}

	for i := range g.Cells {
		c := &g.Cells[i]
		switch {
		case c.Water:
			c.Moisture = 1
		case dist[i] == unreached:
			c.Moisture = 0
		case maxDist == 0:
			c.Moisture = 1
		default:
			c.Moisture = 1 - float64(dist[i])/float64(maxDist)
		}
	}

	slog.Debug("moisture assigned", "sources", len(queue), "max_distance", maxDist)
}
