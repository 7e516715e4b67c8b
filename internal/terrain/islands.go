package terrain

import (
	"log/slog"

	"github.com/talgya/islandgen/internal/graph"
)

// detectIslands flood-fills the non-ocean cells into connected components
// and sinks every component smaller than minSize. In single-island mode only
// the largest component survives; among equally large ones the first found
// wins. Surviving islands are numbered from 0 in discovery order. It returns
// the surviving islands and the number of sunk components.
func detectIslands(g *graph.Graph, singleIsland bool, minSize int) ([]graph.Island, int) {
	for i := range g.Cells {
		g.Cells[i].IslandID = graph.None
	}

	var found []graph.Island
	for i := range g.Cells {
		if g.Cells[i].Ocean || g.Cells[i].IslandID != graph.None {
			continue
		}
		id := len(found)
		cells := []int{i}
		g.Cells[i].IslandID = id
		for head := 0; head < len(cells); head++ {
			for _, n := range g.Cells[cells[head]].Neighbors {
				nb := &g.Cells[n]
				if nb.Ocean || nb.IslandID != graph.None {
					continue
				}
				nb.IslandID = id
				cells = append(cells, n)
			}
		}
		found = append(found, graph.Island{ID: id, Cells: cells})
	}

	keep := func(is graph.Island) bool { return len(is.Cells) >= minSize }
	if singleIsland {
		largest := graph.None
		for i, is := range found {
			if largest == graph.None || len(is.Cells) > len(found[largest].Cells) {
				largest = i
			}
		}
		keep = func(is graph.Island) bool { return is.ID == largest }
	}

	var islands []graph.Island
	var sunk []int
	for _, is := range found {
		if !keep(is) {
			sunk = append(sunk, is.Cells...)
			continue
		}
		is.ID = len(islands)
		for _, c := range is.Cells {
			g.Cells[c].IslandID = is.ID
		}
		islands = append(islands, is)
	}
	discarded := len(found) - len(islands)

	if len(sunk) > 0 {
		sinkCells(g, sunk)
	}

	slog.Debug("islands detected",
		"found", len(found),
		"kept", len(islands),
		"discarded", discarded,
	)
	return islands, discarded
}

// sinkCells turns cells into ocean and refreshes the coast flags of the
// cells and corners around them.
func sinkCells(g *graph.Graph, cells []int) {
	for _, ci := range cells {
		c := &g.Cells[ci]
		c.Water = true
		c.Ocean = true
		c.IslandID = graph.None
	}

	corners := map[int]struct{}{}
	for _, ci := range cells {
		c := &g.Cells[ci]
		classifyCellCoast(g, c)
		for _, n := range c.Neighbors {
			classifyCellCoast(g, &g.Cells[n])
		}
		for _, q := range c.Corners {
			corners[q] = struct{}{}
		}
	}
	for qi := range corners {
		classifyCorner(g, &g.Corners[qi])
	}
}
