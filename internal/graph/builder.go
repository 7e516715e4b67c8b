package graph

import (
	"errors"
	"fmt"

	"github.com/talgya/islandgen/internal/geom"
)

var (
	// ErrUnknownSite is returned when an edge names a site that was not supplied.
	ErrUnknownSite = errors.New("graph: edge references unknown site")

	// ErrDegenerateEdge is returned when an edge separates a site from itself.
	ErrDegenerateEdge = errors.New("graph: edge separates a site from itself")

	// ErrCornerNotFound is returned when an edge endpoint has no registered corner.
	ErrCornerNotFound = errors.New("graph: corner not found")
)

// Site is one generating point of the subdivision.
type Site struct {
	ID  int
	Pos geom.Point
}

// EdgeRecord is one diagram edge as reported by the subdivision provider:
// the two sites it separates and its endpoints clipped to the working
// rectangle. A nil Segment means the edge lies entirely outside the bounds.
type EdgeRecord struct {
	Left    int
	Right   int
	Segment *geom.Segment
}

// visible reports whether the record contributes corners and an edge.
func (r EdgeRecord) visible() bool {
	return r.Segment != nil && r.Segment.A != r.Segment.B
}

type builder struct {
	g       *Graph
	bounds  geom.Rect
	cells   map[int]int        // site ID -> cell index
	corners map[geom.Point]int // position -> corner index
}

// Build turns the raw subdivision into a fully linked graph. Cells keep the
// order of sites, corners are deduplicated by exact position and every
// adjacency relation is wired in both directions.
func Build(size geom.Point, sites []Site, records []EdgeRecord) (*Graph, error) {
	b := &builder{
		g:       &Graph{Size: size},
		bounds:  geom.Bounds(size),
		cells:   make(map[int]int, len(sites)),
		corners: make(map[geom.Point]int, 2*len(sites)),
	}

	for _, s := range sites {
		if _, ok := b.cells[s.ID]; ok {
			continue
		}
		b.cells[s.ID] = len(b.g.Cells)
		b.g.Cells = append(b.g.Cells, Cell{
			Index:    len(b.g.Cells),
			Pos:      s.Pos,
			IslandID: None,
		})
	}

	for _, r := range records {
		if !r.visible() {
			continue
		}
		b.addCorner(r.Segment.A)
		b.addCorner(r.Segment.B)
	}

	for i, r := range records {
		if !r.visible() {
			continue
		}
		if err := b.addEdge(r); err != nil {
			return nil, fmt.Errorf("edge record %d: %w", i, err)
		}
	}

	return b.g, nil
}

func (b *builder) addCorner(p geom.Point) {
	if _, ok := b.corners[p]; ok {
		return
	}
	b.corners[p] = len(b.g.Corners)
	b.g.Corners = append(b.g.Corners, Corner{
		Index:         len(b.g.Corners),
		Pos:           p,
		Border:        b.bounds.OnBoundary(p),
		Downslope:     None,
		DownslopeEdge: None,
	})
}

func (b *builder) cornerAt(p geom.Point) (int, error) {
	q, ok := b.corners[p]
	if !ok {
		return None, fmt.Errorf("%w at %v", ErrCornerNotFound, p)
	}
	return q, nil
}

func (b *builder) cellFor(site int) (int, error) {
	c, ok := b.cells[site]
	if !ok {
		return None, fmt.Errorf("%w: %d", ErrUnknownSite, site)
	}
	return c, nil
}

func (b *builder) addEdge(r EdgeRecord) error {
	d0, err := b.cellFor(r.Left)
	if err != nil {
		return err
	}
	d1, err := b.cellFor(r.Right)
	if err != nil {
		return err
	}
	if d0 == d1 {
		return fmt.Errorf("%w: %d", ErrDegenerateEdge, r.Left)
	}
	v0, err := b.cornerAt(r.Segment.A)
	if err != nil {
		return err
	}
	v1, err := b.cornerAt(r.Segment.B)
	if err != nil {
		return err
	}

	g := b.g
	e := len(g.Edges)
	g.Edges = append(g.Edges, Edge{Index: e, V0: v0, V1: v1, D0: d0, D1: d1})

	for _, pair := range [2][2]int{{d0, d1}, {d1, d0}} {
		c := &g.Cells[pair[0]]
		c.Neighbors = appendUnique(c.Neighbors, pair[1])
		c.Borders = appendUnique(c.Borders, e)
		c.Corners = appendUnique(c.Corners, v0)
		c.Corners = appendUnique(c.Corners, v1)
	}
	for _, pair := range [2][2]int{{v0, v1}, {v1, v0}} {
		q := &g.Corners[pair[0]]
		q.Neighbors = appendUnique(q.Neighbors, pair[1])
		q.Edges = appendUnique(q.Edges, e)
		q.Touches = appendUnique(q.Touches, d0)
		q.Touches = appendUnique(q.Touches, d1)
	}
	return nil
}
