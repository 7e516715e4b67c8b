package shape

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/islandgen/internal/geom"
)

// Perlin keeps points where layered Perlin noise exceeds a threshold that
// rises towards the rectangle edge.
func Perlin() Predicate {
	gens := newPerSeed(func(seed int64) *perlin.Perlin {
		return perlin.NewPerlin(2, 2, 8, seed)
	})

	return func(p, size geom.Point, seed int64) bool {
		q := normalize(p, size)
		c := 0.5 + 0.5*gens.get(seed).Noise2D(2*q.X, 2*q.Y)
		l2 := q.Dot(q)
		return c > 0.3+0.3*l2
	}
}

// Simplex layers opensimplex octaves and fades them out towards the edge of
// the rectangle, leaving a continent in the middle.
func Simplex() Predicate {
	gens := newPerSeed(func(seed int64) opensimplex.Noise {
		return opensimplex.NewNormalized(seed)
	})

	return func(p, size geom.Point, seed int64) bool {
		q := normalize(p, size)
		elev := octaveNoise(gens.get(seed), q.X, q.Y, 4, 1.5, 0.5)

		// Continental shaping: reduce elevation near edges to create ocean border.
		falloff := 1.0 - math.Pow(q.Len(), 3.5)
		if falloff < 0 {
			falloff = 0
		}
		return elev*falloff > 0.3
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
