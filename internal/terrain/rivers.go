package terrain

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/islandgen/internal/graph"
)

// ErrDownslopeCycle is returned when following downslope pointers revisits a
// corner. The elevation solver never produces such a chain.
var ErrDownslopeCycle = errors.New("terrain: downslope chain revisits a corner")

// River is the corner path from a spring down to where its water stops.
type River struct {
	Spring  int   `json:"spring"`
	Corners []int `json:"corners"` // Spring first, mouth last
}

// Mouth returns the last corner of the river.
func (r River) Mouth() int {
	return r.Corners[len(r.Corners)-1]
}

// springCandidates lists land corners whose elevation lies in the band.
func springCandidates(g *graph.Graph, cfg RiverConfig) []int {
	var out []int
	for i := range g.Corners {
		q := &g.Corners[i]
		if q.Water || q.Ocean {
			continue
		}
		if q.Elevation >= cfg.MinSpringElevation && q.Elevation <= cfg.MaxSpringElevation {
			out = append(out, i)
		}
	}
	return out
}

// traceRivers picks springs at random among the candidates and walks each
// one down its downslope chain, adding one unit of water to every edge on
// the way. Rivers meeting downstream share edges, so volume adds up below a
// confluence.
func traceRivers(g *graph.Graph, cfg RiverConfig) ([]River, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	springs := springCandidates(g, cfg)
	rng.Shuffle(len(springs), func(i, j int) {
		springs[i], springs[j] = springs[j], springs[i]
	})
	if len(springs) > cfg.Springs {
		springs = springs[:cfg.Springs]
	}

	rivers := make([]River, 0, len(springs))
	for _, s := range springs {
		r, err := traceRiver(g, s)
		if err != nil {
			slog.Error("river tracing aborted", "spring", s, "error", err)
			return rivers, err
		}
		rivers = append(rivers, r)
	}

	slog.Debug("rivers traced", "rivers", len(rivers))
	return rivers, nil
}

// traceRiver follows downslope pointers from start until a corner without
// one. A corner above sea level without a downslope is a local minimum; the
// river simply ends there.
func traceRiver(g *graph.Graph, start int) (River, error) {
	r := River{Spring: start, Corners: []int{start}}
	visited := map[int]bool{start: true}

	current := start
	for {
		q := &g.Corners[current]
		if q.Downslope == graph.None {
			if q.Elevation != 0 {
				slog.Debug("river ends in a local minimum", "corner", current, "elevation", q.Elevation)
			}
			return r, nil
		}
		g.Edges[q.DownslopeEdge].WaterVolume++
		current = q.Downslope
		if visited[current] {
			return r, fmt.Errorf("%w: spring %d, corner %d", ErrDownslopeCycle, start, current)
		}
		visited[current] = true
		r.Corners = append(r.Corners, current)
	}
}
