// Package voronoi supplies the planar subdivision the terrain graph is built
// from: random site sampling, Lloyd relaxation, and Voronoi edges clipped to
// the working rectangle. The Delaunay triangulation comes from
// fogleman/delaunay; the Voronoi diagram is read off as its dual.
package voronoi

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/fogleman/delaunay"

	"github.com/talgya/islandgen/internal/geom"
	"github.com/talgya/islandgen/internal/graph"
)

// ErrTooFewPoints is returned when fewer than three sites are supplied.
var ErrTooFewPoints = errors.New("voronoi: at least three points are required")

// SamplePoints returns n uniformly random points in [0,size.X) x [0,size.Y).
func SamplePoints(n int, size geom.Point, seed int64) []geom.Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = geom.Pt(rng.Float64()*size.X, rng.Float64()*size.Y)
	}
	return pts
}

// Provider computes relaxed Voronoi diagrams. The zero value is ready to use.
type Provider struct{}

// Subdivide relaxes points the given number of times and returns one site per
// point (ID = input index) plus one record per Delaunay edge. Records whose
// Voronoi edge falls entirely outside bounds carry a nil Segment.
func (Provider) Subdivide(points []geom.Point, bounds geom.Rect, iterations int) ([]graph.Site, []graph.EdgeRecord, error) {
	if len(points) < 3 {
		return nil, nil, ErrTooFewPoints
	}

	pts := append([]geom.Point(nil), points...)
	for i := 0; i < iterations; i++ {
		relaxed, err := relax(pts, bounds)
		if err != nil {
			return nil, nil, fmt.Errorf("relaxation %d: %w", i, err)
		}
		pts = relaxed
	}

	tri, err := triangulate(pts)
	if err != nil {
		return nil, nil, err
	}

	sites := make([]graph.Site, len(pts))
	for i, p := range pts {
		sites[i] = graph.Site{ID: i, Pos: p}
	}
	records := voronoiEdges(tri, pts, bounds)

	slog.Debug("subdivision ready",
		"sites", len(sites),
		"records", len(records),
		"iterations", iterations,
	)
	return sites, records, nil
}

func triangulate(pts []geom.Point) (*delaunay.Triangulation, error) {
	in := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		in[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	tri, err := delaunay.Triangulate(in)
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w", err)
	}
	return tri, nil
}

// relax moves every site to the centroid of its Voronoi region clipped to
// bounds. The region is the bounding rectangle cut by the perpendicular
// bisector with every Delaunay neighbor.
func relax(pts []geom.Point, bounds geom.Rect) ([]geom.Point, error) {
	tri, err := triangulate(pts)
	if err != nil {
		return nil, err
	}
	neighbors := siteNeighbors(tri, len(pts))

	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = p
		if len(neighbors[i]) == 0 {
			continue
		}
		poly := bounds.Polygon()
		for _, j := range neighbors[i] {
			q := pts[j]
			n := q.Sub(p)
			poly = geom.ClipHalfPlane(poly, n, n.Dot(p.Add(q).Scale(0.5)))
		}
		if len(poly) >= 3 {
			out[i] = geom.Centroid(poly)
		}
	}
	return out, nil
}

func siteNeighbors(tri *delaunay.Triangulation, n int) [][]int {
	out := make([][]int, n)
	for e := range tri.Triangles {
		a, b := tri.Triangles[e], tri.Triangles[nextHalfedge(e)]
		out[a] = appendNeighbor(out[a], b)
		out[b] = appendNeighbor(out[b], a)
	}
	return out
}

func appendNeighbor(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// voronoiEdges walks every Delaunay edge once. Interior edges connect the
// circumcenters of their two triangles; hull edges become rays heading away
// from the triangle's third vertex.
func voronoiEdges(tri *delaunay.Triangulation, pts []geom.Point, bounds geom.Rect) []graph.EdgeRecord {
	centers := make([]geom.Point, len(tri.Triangles)/3)
	for t := range centers {
		centers[t] = circumcenter(
			pts[tri.Triangles[3*t]],
			pts[tri.Triangles[3*t+1]],
			pts[tri.Triangles[3*t+2]],
		)
	}

	var records []graph.EdgeRecord
	for e, h := range tri.Halfedges {
		if h != -1 && h < e {
			continue
		}
		a, b := tri.Triangles[e], tri.Triangles[nextHalfedge(e)]
		rec := graph.EdgeRecord{Left: a, Right: b}

		var (
			s  geom.Segment
			ok bool
		)
		if h == -1 {
			pa, pb := pts[a], pts[b]
			pc := pts[tri.Triangles[prevHalfedge(e)]]
			dir := pb.Sub(pa).Perp()
			if dir.Dot(pc.Sub(pa)) > 0 {
				dir = dir.Scale(-1)
			}
			s, ok = bounds.ClipRay(centers[e/3], dir)
		} else {
			s, ok = bounds.ClipSegment(centers[e/3], centers[h/3])
		}
		if ok {
			rec.Segment = &s
		}
		records = append(records, rec)
	}
	return records
}

func circumcenter(a, b, c geom.Point) geom.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	ex, ey := c.X-a.X, c.Y-a.Y
	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	det := dx*ey - dy*ex
	if math.Abs(det) < 1e-18 {
		return geom.Pt((a.X+b.X+c.X)/3, (a.Y+b.Y+c.Y)/3)
	}
	d := 0.5 / det
	return geom.Pt(a.X+(ey*bl-dy*cl)*d, a.Y+(dx*cl-ex*bl)*d)
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

func prevHalfedge(e int) int {
	if e%3 == 0 {
		return e + 2
	}
	return e - 1
}
