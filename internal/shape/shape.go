// Package shape defines island shape predicates: functions deciding whether a
// point of the working rectangle lies on the landmass. Predicates see the
// point in normalized coordinates where the rectangle maps to [-1,1]².
package shape

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/talgya/islandgen/internal/geom"
)

// Predicate reports whether p, inside a map of the given size, is land.
type Predicate func(p geom.Point, size geom.Point, seed int64) bool

// islandFactor controls the width of the radial shape's inner lagoon ring.
const islandFactor = 1.07

// normalize maps p from [0,size] to [-1,1].
func normalize(p, size geom.Point) geom.Point {
	return geom.Pt(2*(p.X/size.X-0.5), 2*(p.Y/size.Y-0.5))
}

// perSeed holds the value built for the most recent seed so that predicates
// evaluated once per corner do not rebuild their noise tables. A new seed
// replaces it.
type perSeed[T any] struct {
	mu    sync.Mutex
	build func(seed int64) T
	seed  int64
	value T
	built bool
}

func newPerSeed[T any](build func(seed int64) T) *perSeed[T] {
	return &perSeed[T]{build: build}
}

func (c *perSeed[T]) get(seed int64) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.built || c.seed != seed {
		c.value = c.build(seed)
		c.seed = seed
		c.built = true
	}
	return c.value
}

// Everything treats the whole rectangle as land. The map edge still becomes
// ocean because border corners are always water.
func Everything(geom.Point, geom.Point, int64) bool { return true }

// Nothing produces an all-ocean map.
func Nothing(geom.Point, geom.Point, int64) bool { return false }

// Square is land everywhere except a thin margin along the rectangle edge.
func Square(margin float64) Predicate {
	return func(p, size geom.Point, _ int64) bool {
		return p.X > margin && p.X < size.X-margin && p.Y > margin && p.Y < size.Y-margin
	}
}

type radialParams struct {
	bumps      int
	startAngle float64
	dipAngle   float64
	dipWidth   float64
}

// Radial builds an island from overlapping sine waves around the center,
// with a random bay cut out of one side.
func Radial() Predicate {
	params := newPerSeed(func(seed int64) radialParams {
		rng := rand.New(rand.NewSource(seed))
		return radialParams{
			bumps:      1 + rng.Intn(6),
			startAngle: rng.Float64() * 2 * math.Pi,
			dipAngle:   rng.Float64() * 2 * math.Pi,
			dipWidth:   0.2 + rng.Float64()*0.5,
		}
	})

	return func(p, size geom.Point, seed int64) bool {
		rp := params.get(seed)
		q := normalize(p, size)
		angle := math.Atan2(q.Y, q.X)
		length := 0.5 * (math.Max(math.Abs(q.X), math.Abs(q.Y)) + q.Len())

		b := float64(rp.bumps)
		r1 := 0.5 + 0.40*math.Sin(rp.startAngle+b*angle+math.Cos((b+3)*angle))
		r2 := 0.7 - 0.20*math.Sin(rp.startAngle+b*angle-math.Sin((b+2)*angle))
		if math.Abs(angle-rp.dipAngle) < rp.dipWidth ||
			math.Abs(angle-rp.dipAngle+2*math.Pi) < rp.dipWidth ||
			math.Abs(angle-rp.dipAngle-2*math.Pi) < rp.dipWidth {
			r1, r2 = 0.2, 0.2
		}
		return length < r1 || (length > r1*islandFactor && length < r2)
	}
}

// Blob is a fixed lobed shape with two small lakes for eyes.
func Blob() Predicate {
	return func(p, size geom.Point, _ int64) bool {
		q := normalize(p, size)
		eye1 := geom.Pt(q.X-0.2, q.Y/2+0.2).Len() < 0.05
		eye2 := geom.Pt(q.X+0.2, q.Y/2+0.2).Len() < 0.05
		body := q.Len() < 0.8-0.18*math.Sin(5*math.Atan2(q.Y, q.X))
		return body && !eye1 && !eye2
	}
}

var builtin = map[string]func() Predicate{
	"radial":     Radial,
	"perlin":     Perlin,
	"simplex":    Simplex,
	"blob":       Blob,
	"square":     func() Predicate { return Square(0) },
	"everything": func() Predicate { return Everything },
	"nothing":    func() Predicate { return Nothing },
}

// Names lists the built-in shape names accepted by ByName.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a fresh built-in predicate.
func ByName(name string) (Predicate, error) {
	mk, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown island shape %q (want one of %v)", name, Names())
	}
	return mk(), nil
}
