package terrain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/islandgen/internal/geom"
	"github.com/talgya/islandgen/internal/graph"
	"github.com/talgya/islandgen/internal/shape"
	"github.com/talgya/islandgen/internal/voronoi"
)

// meshGraph builds a relaxed Voronoi graph over a size x size square.
func meshGraph(t *testing.T, n int, size float64, seed int64) *graph.Graph {
	t.Helper()
	sz := geom.Pt(size, size)
	sites, records, err := voronoi.Provider{}.Subdivide(voronoi.SamplePoints(n, sz, seed), geom.Bounds(sz), 1)
	require.NoError(t, err)
	g, err := graph.Build(sz, sites, records)
	require.NoError(t, err)
	return g
}

// lakeRing is land inside a margin with a round hole in the middle.
func lakeRing(p, size geom.Point, _ int64) bool {
	c := size.Scale(0.5)
	return p.X > 10 && p.X < size.X-10 && p.Y > 10 && p.Y < size.Y-10 && p.Dist(c) > 12
}

// twoBlobs is a large and a small round island.
func twoBlobs(p, _ geom.Point, _ int64) bool {
	return p.Dist(geom.Pt(30, 50)) < 18 || p.Dist(geom.Pt(75, 50)) < 10
}

var _ shape.Predicate = lakeRing
var _ shape.Predicate = twoBlobs

// lineCells returns n cells in a row, each adjacent to the next, joined by
// one edge per pair. Corners are left empty.
func lineCells(n int) *graph.Graph {
	g := &graph.Graph{Size: geom.Pt(float64(n), 1)}
	for i := 0; i < n; i++ {
		g.Cells = append(g.Cells, graph.Cell{Index: i, IslandID: graph.None})
	}
	for i := 0; i+1 < n; i++ {
		e := len(g.Edges)
		g.Edges = append(g.Edges, graph.Edge{Index: e, V0: 2 * i, V1: 2*i + 1, D0: i, D1: i + 1})
		g.Cells[i].Neighbors = append(g.Cells[i].Neighbors, i+1)
		g.Cells[i+1].Neighbors = append(g.Cells[i+1].Neighbors, i)
		g.Cells[i].Borders = append(g.Cells[i].Borders, e)
		g.Cells[i+1].Borders = append(g.Cells[i+1].Borders, e)
	}
	return g
}

// slope returns a chain of corners where corner i drains into corner i-1
// over edge i-1, with the given elevations. Corner 0 is the coast.
func slope(elevations ...float64) *graph.Graph {
	g := &graph.Graph{Size: geom.Pt(1, 1)}
	for i, e := range elevations {
		q := graph.Corner{Index: i, Elevation: e, Downslope: graph.None, DownslopeEdge: graph.None}
		if i > 0 {
			q.Downslope = i - 1
			q.DownslopeEdge = i - 1
			g.Edges = append(g.Edges, graph.Edge{Index: i - 1, V0: i, V1: i - 1})
		} else {
			q.Coast = true
		}
		g.Corners = append(g.Corners, q)
	}
	return g
}

// requireWorldInvariants checks the properties every finished world holds.
func requireWorldInvariants(t *testing.T, w *World) {
	t.Helper()
	g := w.Graph
	require.NoError(t, g.Validate())

	for _, q := range g.Corners {
		if q.Border {
			require.True(t, q.Water, "border corner %d must be water", q.Index)
			for _, c := range q.Touches {
				require.True(t, g.Cells[c].Ocean, "cell %d touches the border", c)
			}
		}
		if q.Downslope != graph.None && !q.Ocean {
			require.GreaterOrEqual(t, q.Elevation, g.Corners[q.Downslope].Elevation)
		}
	}

	for _, c := range g.Cells {
		require.Equal(t, c.Ocean, c.IslandID == graph.None, "cell %d island/ocean mismatch", c.Index)
		require.GreaterOrEqual(t, c.Moisture, 0.0)
		require.LessOrEqual(t, c.Moisture, 1.0)
		if c.Water {
			require.Equal(t, 1.0, c.Moisture)
		}
		if c.Ocean {
			require.LessOrEqual(t, c.Elevation, oceanCeiling)
		}
		require.True(t, c.Biome.Valid(), "cell %d has biome %v", c.Index, c.Biome)
		require.False(t, math.IsNaN(c.Elevation))
	}

	for _, is := range w.Islands {
		for _, c := range is.Cells {
			require.Equal(t, is.ID, g.Cells[c].IslandID)
		}
	}

	// Rivers run downhill and gather volume.
	for _, q := range g.Corners {
		if q.DownslopeEdge == graph.None || g.Edges[q.DownslopeEdge].WaterVolume == 0 {
			continue
		}
		down := g.Corners[q.Downslope]
		require.GreaterOrEqual(t, q.Elevation, down.Elevation)
		if down.DownslopeEdge != graph.None {
			require.GreaterOrEqual(t,
				g.Edges[down.DownslopeEdge].WaterVolume,
				g.Edges[q.DownslopeEdge].WaterVolume,
				"volume must not shrink downstream of corner %d", down.Index)
		}
	}
}
