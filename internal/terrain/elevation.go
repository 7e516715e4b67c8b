package terrain

import (
	"container/list"
	"log/slog"
	"math"
	"math/rand"

	"github.com/talgya/islandgen/internal/graph"
)

// oceanCeiling is the highest elevation an ocean cell may have.
const oceanCeiling = -0.01

// assignElevation computes corner elevation as the hop distance from the
// coastline, crossing lake edges for free so that lakes come out flat.
//
// Coast corners start at 0 and seed a deque. Relaxing an edge that borders a
// lake pushes the improved corner to the front, every other improvement goes
// to the back. Each corner visits its edges starting at a random offset,
// which only decides between equally short paths and therefore which way
// rivers run. Every improved corner records the corner it came from as its
// downslope.
//
// The peaks used for normalization are tracked while relaxing, so a corner
// that is later lowered may still count towards them.
func assignElevation(g *graph.Graph, rng *rand.Rand, curve Curve) {
	queue := list.New()
	for i := range g.Corners {
		q := &g.Corners[i]
		q.Downslope = graph.None
		q.DownslopeEdge = graph.None
		if q.Coast {
			q.Elevation = 0
			queue.PushBack(i)
		} else {
			q.Elevation = math.Inf(1)
		}
	}

	var landPeak, oceanDepth float64
	for queue.Len() > 0 {
		qi := queue.Remove(queue.Front()).(int)
		q := &g.Corners[qi]
		n := len(q.Edges)
		if n == 0 {
			continue
		}
		offset := rng.Intn(n)
		for k := 0; k < n; k++ {
			ei := q.Edges[(k+offset)%n]
			e := &g.Edges[ei]
			lake := g.TouchesLake(e)
			cost := 1.0
			if lake {
				cost = 0
			}

			ni := e.OtherCorner(qi)
			nb := &g.Corners[ni]
			elev := q.Elevation + cost
			if elev >= nb.Elevation {
				continue
			}
			nb.Elevation = elev
			nb.Downslope = qi
			nb.DownslopeEdge = ei

			if nb.Ocean {
				oceanDepth = math.Max(oceanDepth, elev)
			} else {
				landPeak = math.Max(landPeak, elev)
			}
			if lake {
				queue.PushFront(ni)
			} else {
				queue.PushBack(ni)
			}
		}
	}

	for i := range g.Corners {
		q := &g.Corners[i]
		switch {
		case math.IsInf(q.Elevation, 1):
			// No coastline reaches this corner.
			if q.Ocean {
				q.Elevation = -1
			} else {
				q.Elevation = 0
			}
		case q.Ocean:
			q.Elevation = -remap(curve, q.Elevation, oceanDepth)
		default:
			q.Elevation = remap(curve, q.Elevation, landPeak)
		}
	}

	for i := range g.Cells {
		c := &g.Cells[i]
		c.Elevation = 0
		if len(c.Corners) > 0 {
			sum := 0.0
			for _, qi := range c.Corners {
				sum += g.Corners[qi].Elevation
			}
			c.Elevation = sum / float64(len(c.Corners))
		}
		if c.Ocean && c.Elevation > oceanCeiling {
			c.Elevation = oceanCeiling
		}
	}

	slog.Debug("elevation assigned", "land_peak", landPeak, "ocean_depth", oceanDepth)
}

func remap(curve Curve, v, peak float64) float64 {
	if peak <= 0 {
		return curve(0)
	}
	return curve(clamp(v/peak, 0, 1))
}
