package manhattan

import (
	"errors"

	"github.com/soypat/geometry/ms3"

	"manhattan/field"
)

// Rect is the unsigned distance from p to an axis-aligned box given by its
// center and half-extent radius. Points inside the box return 0.
func Rect(p, center, radius ms3.Vec) float32 {
	q := ms3.Sub(ms3.AbsElem(ms3.Sub(p, center)), radius)
	return ms3.Norm(ms3.MaxElem(q, ms3.Vec{}))
}

// SortAscending returns the components of p reordered to (min, mid, max).
// Applied after an absolute-value fold it collapses the 48 elements of the
// cube's symmetry group to a single fundamental domain, so a field defined
// on sorted non-negative coordinates is automatically fully symmetric.
func SortAscending(p ms3.Vec) ms3.Vec {
	mi := minf(minf(p.X, p.Y), p.Z)
	ma := maxf(maxf(p.X, p.Y), p.Z)
	return ms3.Vec{X: mi, Y: p.X + p.Y + p.Z - mi - ma, Z: ma}
}

// Tessellate folds p into the unit cell of a periodic lattice with the given
// tile periods, recentered so the cell spans [-tile/2, tile/2). Components
// with a zero period pass through unchanged.
func Tessellate(p, tile ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: wrapf(p.X, tile.X),
		Y: wrapf(p.Y, tile.Y),
		Z: wrapf(p.Z, tile.Z),
	}
}

func wrapf(x, period float32) float32 {
	if period == 0 {
		return x
	}
	return modf(x-0.5*period, period) - 0.5*period
}

// Surface is the distance field of the Manhattan surface at iteration 2.
// Its methods are pure; a Surface may be shared freely between goroutines.
type Surface struct {
	scale float32
}

// NewSurface returns the Manhattan surface field with the given
// self-similarity scale. The canonical surface uses [DefaultScale].
func NewSurface(scale float32) (*Surface, error) {
	if scale <= 0 || !isfinite(scale) {
		return nil, errors.New("manhattan: scale must be positive and finite")
	}
	return &Surface{scale: scale}, nil
}

// Scale returns the self-similarity ratio the surface was built with.
func (s *Surface) Scale() float32 { return s.scale }

// Distance estimates the distance from p to the surface. The estimate is a
// lower bound on the true distance and is exact on and outside the bounding
// box of each cubie.
func (s *Surface) Distance(p ms3.Vec) float32 {
	p = ms3.Scale(1/s.scale, ms3.AbsElem(p))
	p = SortAscending(p)
	return s.scale * cell(p)
}

// cell evaluates the folded unit cell. p must already be folded: component
// magnitudes sorted ascending, all non-negative, prescaled by 1/scale.
func cell(p ms3.Vec) float32 {
	const (
		third     = 1.0 / 3.0
		ninth     = 1.0 / 9.0
		twoThirds = 2.0 / 3.0
	)
	ninths := ms3.Vec{X: ninth, Y: ninth, Z: ninth}

	// Outer unit cube and the face-center cubie at 4/3 carve the genus-0
	// cubie lattice.
	r := Rect(p, ms3.Vec{}, ms3.Vec{X: 1, Y: 1, Z: 1})
	r = minf(r, Rect(p, ms3.Vec{Z: 4 * third}, ms3.Vec{X: third, Y: third, Z: third}))

	// Second-iteration cubies stamped across each face by tessellation,
	// clipped to the face region by a bounding slab. The intersection is
	// with an unsigned field, so it can only push the estimate up, never
	// below the true distance.
	t := Tessellate(p, ms3.Vec{X: twoThirds, Y: twoThirds})
	n := Rect(t, ms3.Vec{Z: 10 * ninth}, ninths)
	n = maxf(n, Rect(p, ms3.Vec{}, ms3.Vec{X: 1, Y: 1, Z: 2}))
	r = minf(r, n)

	// Sub-cubies on the central tower keep the surface's topology honest:
	// without them adjacent towers fuse into a degenerate lattice.
	r = minf(r, Rect(p, ms3.Vec{Y: 4 * ninth, Z: 4 * third}, ninths))
	r = minf(r, Rect(p, ms3.Vec{Z: 16 * ninth}, ninths))
	return r
}

// Evaluate implements [field.SDF3].
func (s *Surface) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errors.New("manhattan: position and distance buffer length mismatch")
	}
	for i, p := range pos {
		dist[i] = s.Distance(p)
	}
	return nil
}

// Bounds returns the box containing the whole surface, including the tips
// of the outermost face-center towers.
func (s *Surface) Bounds() ms3.Box {
	side := 2 * maxExtent * s.scale
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Vec{X: side, Y: side, Z: side})
}

var _ field.SDF3 = (*Surface)(nil)
