package terrain

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Curve remaps normalized elevation. It must be monotonic on [0,1] and keep
// 0 at 0 so that the coastline stays at sea level.
type Curve func(x float64) float64

// Linear leaves elevation unchanged.
func Linear(x float64) float64 { return x }

// Smoothstep flattens lowlands and peaks.
func Smoothstep(x float64) float64 { return x * x * (3 - 2*x) }

// Power raises elevation to exp; exp > 1 favors lowlands, exp < 1 highlands.
func Power(exp float64) Curve {
	return func(x float64) float64 { return math.Pow(x, exp) }
}

// Redistribute pushes the elevation distribution towards more lowland, the
// way a real island's area shrinks with height. Larger scale means steeper.
func Redistribute(scale float64) Curve {
	return func(x float64) float64 {
		return clamp(math.Sqrt(scale)-math.Sqrt(scale*(1-x)), 0, 1)
	}
}

// CurveByName resolves the curve names accepted in GenConfig.Curve. The
// empty name means linear.
func CurveByName(name string) (Curve, error) {
	switch name {
	case "", "linear":
		return Linear, nil
	case "smoothstep":
		return Smoothstep, nil
	case "square":
		return Power(2), nil
	case "sqrt":
		return Power(0.5), nil
	case "redistribute":
		return Redistribute(1.1), nil
	}
	return nil, fmt.Errorf("unknown elevation curve %q", name)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
