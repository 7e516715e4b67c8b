package terrain

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/islandgen/internal/entropy"
	"github.com/talgya/islandgen/internal/geom"
	"github.com/talgya/islandgen/internal/graph"
	"github.com/talgya/islandgen/internal/shape"
	"github.com/talgya/islandgen/internal/voronoi"
)

var (
	// ErrGenerationInProgress is returned by Generate while another run holds the generator.
	ErrGenerationInProgress = errors.New("terrain: generation already in progress")

	// ErrNoShape is returned when the generator has no island shape.
	ErrNoShape = errors.New("terrain: no island shape")

	// ErrNoSubdivider is returned when the generator has no subdivision provider.
	ErrNoSubdivider = errors.New("terrain: no subdivision provider")
)

// elevationOffset separates the relaxation traversal stream from point sampling.
const elevationOffset = 100

// Sampler produces the generating points for a run.
type Sampler func(n int, size geom.Point, seed int64) []geom.Point

// Subdivider computes the relaxed Voronoi diagram of a point set.
type Subdivider interface {
	Subdivide(points []geom.Point, bounds geom.Rect, iterations int) ([]graph.Site, []graph.EdgeRecord, error)
}

// World is the finished, read-only result of one generation run.
type World struct {
	Graph     *graph.Graph   `json:"-"`
	Islands   []graph.Island `json:"islands"`
	Rivers    []River        `json:"rivers"`
	Discarded int            `json:"discarded"` // Islands sunk for being too small
	Seed      int64          `json:"seed"`
	NextSeed  int64          `json:"next_seed"` // Seed to pass to the following run
	Config    GenConfig      `json:"config"`
}

// Generator runs the whole pipeline. A run is atomic: the generator refuses
// a second Generate call while one is in progress.
type Generator struct {
	Config     GenConfig
	Sampler    Sampler
	Subdivider Subdivider
	Shape      shape.Predicate
	Curve      Curve // Overrides Config.Curve when set

	// OnGenerated fires once after every successful run.
	OnGenerated func()

	mu sync.Mutex
}

// NewGenerator wires the default sampler and subdivision provider.
func NewGenerator(cfg GenConfig, isLand shape.Predicate) *Generator {
	return &Generator{
		Config:     cfg,
		Sampler:    voronoi.SamplePoints,
		Subdivider: voronoi.Provider{},
		Shape:      isLand,
	}
}

// Generate builds a new world from seed. The same seed, config and shape
// always produce the same world.
func (gen *Generator) Generate(seed int64) (*World, error) {
	if !gen.mu.TryLock() {
		return nil, ErrGenerationInProgress
	}
	defer gen.mu.Unlock()

	cfg := gen.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen.Shape == nil {
		return nil, ErrNoShape
	}
	if gen.Subdivider == nil {
		return nil, ErrNoSubdivider
	}
	curve := gen.Curve
	if curve == nil {
		curve, _ = CurveByName(cfg.Curve)
	}
	sample := gen.Sampler
	if sample == nil {
		sample = voronoi.SamplePoints
	}

	start := time.Now()
	points := sample(cfg.Polygons, cfg.Size, seed)
	sites, records, err := gen.Subdivider.Subdivide(points, geom.Bounds(cfg.Size), cfg.Relaxations)
	if err != nil {
		return nil, fmt.Errorf("subdivide: %w", err)
	}
	g, err := graph.Build(cfg.Size, sites, records)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	assignHydrology(g, gen.Shape, seed)
	islands, discarded := detectIslands(g, cfg.SingleIsland, cfg.MinIslandSize)
	assignElevation(g, rand.New(rand.NewSource(seed+elevationOffset)), curve)
	rivers, err := traceRivers(g, cfg.Rivers)
	if err != nil {
		return nil, fmt.Errorf("trace rivers: %w", err)
	}
	assignMoisture(g)
	assignBiomes(g)

	w := &World{
		Graph:     g,
		Islands:   islands,
		Rivers:    rivers,
		Discarded: discarded,
		Seed:      seed,
		NextSeed:  seed,
		Config:    cfg,
	}
	if cfg.AutoReseed {
		w.NextSeed = entropy.Roll(seed)
	}

	st := w.Stats()
	slog.Info("terrain generated",
		"seed", seed,
		"cells", humanize.Comma(int64(st.Cells)),
		"corners", humanize.Comma(int64(st.Corners)),
		"edges", humanize.Comma(int64(st.Edges)),
		"islands", st.Islands,
		"discarded", st.Discarded,
		"rivers", st.Rivers,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if gen.OnGenerated != nil {
		gen.OnGenerated()
	}
	return w, nil
}
