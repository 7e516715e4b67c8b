// Package geom provides the 2D primitives shared by the subdivision provider
// and the terrain graph: points, the working rectangle, and clipping.
package geom

import (
	"fmt"
	"math"
)

// Point is a position (or a direction) in the working rectangle.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Dot(q Point) float64   { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64  { return p.Sub(q).Len() }
func (p Point) Perp() Point           { return Point{-p.Y, p.X} }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// String returns a compact representation used in error messages.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Segment is a clipped Voronoi edge between two endpoints.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Rect is an axis-aligned rectangle. The working rectangle is [0,size.X] x [0,size.Y].
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Bounds returns the working rectangle for a map of the given size.
func Bounds(size Point) Rect {
	return Rect{Max: size}
}

// Size returns the width and height of r.
func (r Rect) Size() Point {
	return r.Max.Sub(r.Min)
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// OnBoundary reports whether p lies exactly on one of the four sides of r.
func (r Rect) OnBoundary(p Point) bool {
	return p.X == r.Min.X || p.X == r.Max.X || p.Y == r.Min.Y || p.Y == r.Max.Y
}

// Polygon returns the corners of r in counter-clockwise order.
func (r Rect) Polygon() []Point {
	return []Point{
		r.Min,
		{r.Max.X, r.Min.Y},
		r.Max,
		{r.Min.X, r.Max.Y},
	}
}

// ClipSegment clips the segment a-b to r. The second result is false when
// nothing of positive length remains inside r. Ends inside r are returned
// unchanged.
func (r Rect) ClipSegment(a, b Point) (Segment, bool) {
	d := b.Sub(a)
	t0, t1, side0, side1, ok := r.clip(a, d, 1)
	if !ok {
		return Segment{}, false
	}
	s := Segment{A: a, B: b}
	if side0 != -1 {
		s.A = r.snap(a.Add(d.Scale(t0)), side0)
	}
	if side1 != -1 {
		s.B = r.snap(a.Add(d.Scale(t1)), side1)
	}
	return s, s.A != s.B
}

// ClipRay clips the ray starting at origin and heading along dir to r.
func (r Rect) ClipRay(origin, dir Point) (Segment, bool) {
	t0, t1, side0, side1, ok := r.clip(origin, dir, math.Inf(1))
	if !ok {
		return Segment{}, false
	}
	s := Segment{A: origin, B: r.snap(origin.Add(dir.Scale(t1)), side1)}
	if side0 != -1 {
		s.A = r.snap(origin.Add(dir.Scale(t0)), side0)
	}
	return s, s.A != s.B
}

// clip is Liang-Barsky over the parametric line a + t*d, t in [0, tmax]. It
// returns the surviving parameter range and the sides of r that cut it, or
// -1 for an end that was not cut.
func (r Rect) clip(a, d Point, tmax float64) (t0, t1 float64, side0, side1 int, ok bool) {
	t0, t1 = 0, tmax
	side0, side1 = -1, -1
	p := [4]float64{-d.X, d.X, -d.Y, d.Y}
	q := [4]float64{a.X - r.Min.X, r.Max.X - a.X, a.Y - r.Min.Y, r.Max.Y - a.Y}

	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, -1, -1, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, -1, -1, false
			}
			if t > t0 {
				t0, side0 = t, i
			}
		} else {
			if t < t0 {
				return 0, 0, -1, -1, false
			}
			if t < t1 {
				t1, side1 = t, i
			}
		}
	}
	if math.IsInf(t1, 0) || t0 >= t1 {
		return 0, 0, -1, -1, false
	}
	return t0, t1, side0, side1, true
}

func (r Rect) snap(p Point, side int) Point {
	switch side {
	case 0:
		p.X = r.Min.X
	case 1:
		p.X = r.Max.X
	case 2:
		p.Y = r.Min.Y
	case 3:
		p.Y = r.Max.Y
	default:
		return p
	}
	p.X = math.Min(math.Max(p.X, r.Min.X), r.Max.X)
	p.Y = math.Min(math.Max(p.Y, r.Min.Y), r.Max.Y)
	return p
}

// ClipHalfPlane keeps the part of the convex polygon poly where n·p <= c.
func ClipHalfPlane(poly []Point, n Point, c float64) []Point {
	if len(poly) == 0 {
		return nil
	}
	out := make([]Point, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	prevIn := n.Dot(prev) <= c
	for _, cur := range poly {
		curIn := n.Dot(cur) <= c
		if curIn != prevIn {
			dp, dc := n.Dot(prev)-c, n.Dot(cur)-c
			out = append(out, prev.Lerp(cur, dp/(dp-dc)))
		}
		if curIn {
			out = append(out, cur)
		}
		prev, prevIn = cur, curIn
	}
	return out
}

// Centroid returns the area centroid of a simple polygon. Degenerate
// polygons fall back to the mean of their vertices.
func Centroid(poly []Point) Point {
	var area, cx, cy float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		cross := p.Cross(q)
		area += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	if math.Abs(area) < 1e-12 {
		var sum Point
		for _, p := range poly {
			sum = sum.Add(p)
		}
		if len(poly) == 0 {
			return sum
		}
		return sum.Scale(1 / float64(len(poly)))
	}
	return Point{cx / (3 * area), cy / (3 * area)}
}
