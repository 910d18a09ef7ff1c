// Package manhattan models the Manhattan surface, also known as the 3D
// quadratic Koch surface (type 1), as a distance field. The surface is
// homeomorphic to a 2-sphere yet has fractal dimension log(13)/log(3).
//
// The field returned by [Surface] is an admissible lower bound on the true
// Euclidean distance to the surface: it never overestimates, which is the
// property sphere tracing relies on to never step through thin features.
// Folding makes the field unsigned; there is no interior sign.
package manhattan

import (
	"github.com/chewxy/math32"
)

const (
	// DefaultScale is the self-similarity ratio of the fractal. The unit
	// cell is rescaled by this factor on input and output of every field
	// evaluation.
	DefaultScale = 0.7

	// maxExtent is the largest folded coordinate magnitude reached by the
	// surface: the tip of the outermost face-center tower at 16/9+1/9.
	maxExtent = 17.0 / 9.0
)

func minf(a, b float32) float32 {
	return math32.Min(a, b)
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

// modf is the GLSL-style modulo: the result always lies in [0,y) for y > 0,
// unlike math32.Mod which takes the sign of x.
func modf(x, y float32) float32 {
	return x - y*math32.Floor(x/y)
}

func isfinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
