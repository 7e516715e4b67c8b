// Package graph holds the dual Voronoi/Delaunay terrain graph: cells, corners
// and edges stored in flat arenas and linked by index.
package graph

import (
	"fmt"

	"github.com/talgya/islandgen/internal/geom"
)

// None marks an absent index reference (no downslope corner, no island).
const None = -1

// Cell is a Voronoi region around one generating site.
type Cell struct {
	Index int        `json:"index"`
	Pos   geom.Point `json:"pos"`
	Biome Biome      `json:"biome"`

	Neighbors []int `json:"neighbors"` // Cells sharing an edge
	Borders   []int `json:"borders"`   // Edges bounding this cell
	Corners   []int `json:"corners"`   // Corners bounding this cell

	Water     bool    `json:"water"`
	Ocean     bool    `json:"ocean"`
	Coast     bool    `json:"coast"`
	Border    bool    `json:"border"`
	IslandID  int     `json:"island_id"` // None for ocean
	Elevation float64 `json:"elevation"` // Mean of corner elevations
	Moisture  float64 `json:"moisture"`  // 0.0 (dry) to 1.0 (wet)
}

// Corner is a Voronoi vertex shared by the cells meeting there.
type Corner struct {
	Index int        `json:"index"`
	Pos   geom.Point `json:"pos"`

	Neighbors []int `json:"neighbors"` // Corners one edge away
	Edges     []int `json:"edges"`     // Edges ending here
	Touches   []int `json:"touches"`   // Cells meeting here

	Water  bool `json:"water"`
	Ocean  bool `json:"ocean"`
	Coast  bool `json:"coast"`
	Border bool `json:"border"` // On the rectangle boundary, fixed at construction

	Elevation     float64 `json:"elevation"`      // Negative below sea level
	Downslope     int     `json:"downslope"`      // Corner this one drains into, or None
	DownslopeEdge int     `json:"downslope_edge"` // Edge towards Downslope, or None
}

// Edge is both a Voronoi edge (V0-V1) and its dual Delaunay edge (D0-D1).
type Edge struct {
	Index       int `json:"index"`
	V0          int `json:"v0"`
	V1          int `json:"v1"`
	D0          int `json:"d0"`
	D1          int `json:"d1"`
	WaterVolume int `json:"water_volume"` // River flow over this edge
}

// Island is one connected component of non-ocean cells.
type Island struct {
	ID    int   `json:"id"`
	Cells []int `json:"cells"`
}

// Graph owns every cell, corner and edge of one generation run.
type Graph struct {
	Size    geom.Point `json:"size"`
	Cells   []Cell     `json:"cells"`
	Corners []Corner   `json:"corners"`
	Edges   []Edge     `json:"edges"`
}

// Bounds returns the working rectangle of g.
func (g *Graph) Bounds() geom.Rect {
	return geom.Bounds(g.Size)
}

// Cell returns a pointer to cell i.
func (g *Graph) Cell(i int) *Cell { return &g.Cells[i] }

// Corner returns a pointer to corner i.
func (g *Graph) Corner(i int) *Corner { return &g.Corners[i] }

// Edge returns a pointer to edge i.
func (g *Graph) Edge(i int) *Edge { return &g.Edges[i] }

// OtherCorner returns the Voronoi endpoint of e that is not q.
func (e *Edge) OtherCorner(q int) int {
	if e.V0 == q {
		return e.V1
	}
	return e.V0
}

// OtherCell returns the Delaunay endpoint of e that is not c.
func (e *Edge) OtherCell(c int) int {
	if e.D0 == c {
		return e.D1
	}
	return e.D0
}

// IsLake reports whether c is water that is not part of the ocean.
func (c *Cell) IsLake() bool {
	return c.Water && !c.Ocean
}

// IsLand reports whether c is neither ocean nor lake.
func (c *Cell) IsLand() bool {
	return !c.Water
}

// TouchesLake reports whether either Delaunay endpoint of e is a lake.
func (g *Graph) TouchesLake(e *Edge) bool {
	return g.Cells[e.D0].IsLake() || g.Cells[e.D1].IsLake()
}

// String returns a summary of the graph.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph(cells=%d, corners=%d, edges=%d)", len(g.Cells), len(g.Corners), len(g.Edges))
}

// appendUnique appends v to list unless it is already present.
func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
