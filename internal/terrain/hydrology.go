package terrain

import (
	"log/slog"

	"github.com/talgya/islandgen/internal/graph"
	"github.com/talgya/islandgen/internal/shape"
)

// LakeThreshold is the fraction of water corners that makes a cell water.
const LakeThreshold = 0.30

// assignHydrology classifies corners and cells as ocean, lake, coast or land.
// Border corners are always water, so the map edge is always ocean; ocean
// then floods inwards through connected water, and whatever water is left
// over becomes lakes.
func assignHydrology(g *graph.Graph, isLand shape.Predicate, seed int64) {
	for i := range g.Corners {
		q := &g.Corners[i]
		q.Water = !isLand(q.Pos, g.Size, seed)
	}

	var queue []int
	for i := range g.Cells {
		c := &g.Cells[i]
		numWater := 0
		for _, qi := range c.Corners {
			q := &g.Corners[qi]
			if q.Border {
				c.Border = true
				c.Ocean = true
				q.Water = true
			}
			if q.Water {
				numWater++
			}
		}
		// A cell without corners never shows up on the map; sink it.
		if len(c.Corners) == 0 {
			c.Ocean = true
		}
		if c.Ocean {
			queue = append(queue, i)
		}
		c.Water = c.Ocean || float64(numWater) >= float64(len(c.Corners))*LakeThreshold
	}

	for head := 0; head < len(queue); head++ {
		for _, n := range g.Cells[queue[head]].Neighbors {
			nb := &g.Cells[n]
			if nb.Water && !nb.Ocean {
				nb.Ocean = true
				queue = append(queue, n)
			}
		}
	}

	for i := range g.Cells {
		classifyCellCoast(g, &g.Cells[i])
	}
	for i := range g.Corners {
		classifyCorner(g, &g.Corners[i])
	}

	slog.Debug("hydrology assigned", "ocean_cells", len(queue))
}

// classifyCellCoast marks c as coast when it borders both ocean and land.
func classifyCellCoast(g *graph.Graph, c *graph.Cell) {
	numOcean, numLand := 0, 0
	for _, n := range c.Neighbors {
		nb := &g.Cells[n]
		if nb.Ocean {
			numOcean++
		}
		if nb.IsLand() {
			numLand++
		}
	}
	c.Coast = numOcean > 0 && numLand > 0
}

// classifyCorner derives corner flags from the cells meeting there. Coast
// corners count as land so that the elevation solver can start from them.
func classifyCorner(g *graph.Graph, q *graph.Corner) {
	numOcean, numLand := 0, 0
	for _, ci := range q.Touches {
		c := &g.Cells[ci]
		if c.Ocean {
			numOcean++
		}
		if c.IsLand() {
			numLand++
		}
	}
	q.Ocean = numOcean == len(q.Touches)
	q.Coast = numOcean > 0 && numLand > 0
	q.Water = q.Border || (numLand != len(q.Touches) && !q.Coast)
}
