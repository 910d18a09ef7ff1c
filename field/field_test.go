package field

import (
	"testing"

	"github.com/soypat/geometry/ms3"
)

// ballSDF is an exact unit-ball distance field used as a known-gradient
// reference for the finite-difference estimator.
type ballSDF struct {
	r float32
}

func (s ballSDF) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = ms3.Norm(p) - s.r
	}
	return nil
}

func (s ballSDF) Bounds() ms3.Box {
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Vec{X: 2 * s.r, Y: 2 * s.r, Z: 2 * s.r})
}

func TestNormalsCentralDiff(t *testing.T) {
	sdf := ballSDF{r: 1}
	pos := []ms3.Vec{
		{X: 2},
		{Y: -3},
		{X: 1, Y: 1, Z: 1},
		{X: 0.5, Y: -0.25, Z: 0.125},
	}
	normals := make([]ms3.Vec, len(pos))
	var vp VecPool
	if err := NormalsCentralDiff(sdf, pos, normals, 1e-3, &vp); err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		want := ms3.Unit(p) // Ball gradient points radially outward.
		got := ms3.Unit(normals[i])
		if ms3.Norm(ms3.Sub(got, want)) > 1e-3 {
			t.Errorf("normal at %v: got %v, want %v", p, got, want)
		}
	}
	if n := vp.Float.Outstanding() + vp.V3.Outstanding(); n != 0 {
		t.Errorf("%d scratch buffers leaked", n)
	}
}

func TestNormalsCentralDiffErrors(t *testing.T) {
	sdf := ballSDF{r: 1}
	pos := make([]ms3.Vec, 2)
	nor := make([]ms3.Vec, 2)
	var vp VecPool
	if err := NormalsCentralDiff(sdf, pos, nor, 0, &vp); err == nil {
		t.Error("expected error for zero step")
	}
	if err := NormalsCentralDiff(nil, pos, nor, 1e-3, &vp); err == nil {
		t.Error("expected error for nil SDF")
	}
	if err := NormalsCentralDiff(sdf, pos, nor[:1], 1e-3, &vp); err == nil {
		t.Error("expected error for mismatched buffers")
	}
	if err := NormalsCentralDiff(sdf, nil, nil, 1e-3, &vp); err == nil {
		t.Error("expected error for empty buffers")
	}
	if err := NormalsCentralDiff(sdf, pos, nor, 1e-3, 42); err == nil {
		t.Error("expected error for userData without a VecPool")
	}
}

func TestVecPoolReuse(t *testing.T) {
	var vp VecPool
	a := vp.Float.Acquire(128)
	if len(a) != 128 {
		t.Fatalf("len = %d, want 128", len(a))
	}
	a[0] = 1
	if err := vp.Float.Release(a); err != nil {
		t.Fatal(err)
	}
	b := vp.Float.Acquire(64)
	if cap(b) < 128 {
		t.Error("expected released buffer to be reused")
	}
	if b[0] != 0 {
		t.Error("acquired buffer not zeroed")
	}
	if vp.Float.Outstanding() != 1 {
		t.Errorf("Outstanding = %d, want 1", vp.Float.Outstanding())
	}
	if err := vp.Float.Release(b); err != nil {
		t.Fatal(err)
	}
	if err := vp.Float.Release(b); err == nil {
		t.Error("expected error on double release")
	}
}

func TestGetVecPool(t *testing.T) {
	var vp VecPool
	got, err := GetVecPool(&vp)
	if err != nil || got != &vp {
		t.Errorf("GetVecPool(&vp) = %v, %v", got, err)
	}
	if _, err := GetVecPool("no pool here"); err == nil {
		t.Error("expected error for foreign userData")
	}
	if _, err := GetVecPool(nil); err == nil {
		t.Error("expected error for nil userData")
	}
}
