// Package field defines the vectorized distance-field evaluation interface
// and shared evaluation utilities: scratch buffer pooling and
// finite-difference gradient estimation.
package field

import (
	"errors"

	"github.com/soypat/geometry/ms3"
)

// SDF3 is a 3D distance field in vectorized form. Implementations estimate
// the distance to their surface for a batch of points per call.
type SDF3 interface {
	// Evaluate evaluates the distance field over pos positions, storing the
	// results in dist. pos and dist must be of equal length.
	//
	// userData carries auxiliary evaluation state such as a [VecPool].
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
	// Bounds returns a box containing all of the field's surface.
	Bounds() ms3.Box
}

var (
	errEmptyBuffers         = errors.New("field: empty buffers")
	errMismatchBufferLength = errors.New("field: position and distance buffer length mismatch")
)

// NormalsCentralDiff estimates the field gradient at each position with
// symmetric central differences, sampling the field at ±step/2 along each
// axis. The stored normals are not normalized. userData must carry a
// [VecPool] for scratch buffers.
func NormalsCentralDiff(s SDF3, pos, normals []ms3.Vec, step float32, userData any) error {
	step *= 0.5
	switch {
	case step <= 0:
		return errors.New("field: invalid central difference step")
	case s == nil:
		return errors.New("field: nil SDF3")
	case len(pos) != len(normals):
		return errMismatchBufferLength
	case len(pos) == 0:
		return errEmptyBuffers
	}
	vp, err := GetVecPool(userData)
	if err != nil {
		return err
	}
	dp := vp.Float.Acquire(len(pos))
	dm := vp.Float.Acquire(len(pos))
	aux := vp.V3.Acquire(len(pos))
	defer vp.Float.Release(dp)
	defer vp.Float.Release(dm)
	defer vp.V3.Release(aux)
	offsets := [3]ms3.Vec{{X: step}, {Y: step}, {Z: step}}
	for dim, h := range offsets {
		for i, p := range pos {
			aux[i] = ms3.Add(p, h)
		}
		if err := s.Evaluate(aux, dp, userData); err != nil {
			return err
		}
		for i, p := range pos {
			aux[i] = ms3.Sub(p, h)
		}
		if err := s.Evaluate(aux, dm, userData); err != nil {
			return err
		}
		switch dim {
		case 0:
			for i, d := range dp {
				normals[i].X = d - dm[i]
			}
		case 1:
			for i, d := range dp {
				normals[i].Y = d - dm[i]
			}
		case 2:
			for i, d := range dp {
				normals[i].Z = d - dm[i]
			}
		}
	}
	return nil
}
