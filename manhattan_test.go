package manhattan

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"manhattan/field"
)

func randVec(rng *rand.Rand, span float32) ms3.Vec {
	return ms3.Vec{
		X: span * (2*rng.Float32() - 1),
		Y: span * (2*rng.Float32() - 1),
		Z: span * (2*rng.Float32() - 1),
	}
}

func mustSurface(t *testing.T) *Surface {
	t.Helper()
	s, err := NewSurface(DefaultScale)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewSurfaceRejectsBadScale(t *testing.T) {
	for _, scale := range []float32{0, -1, math32.NaN(), math32.Inf(1)} {
		if _, err := NewSurface(scale); err == nil {
			t.Errorf("scale %v: expected error", scale)
		}
	}
	s, err := NewSurface(0.7)
	if err != nil {
		t.Fatal(err)
	}
	if s.Scale() != 0.7 {
		t.Errorf("Scale() = %v, want 0.7", s.Scale())
	}
}

func TestRect(t *testing.T) {
	unit := ms3.Vec{X: 1, Y: 1, Z: 1}
	tests := []struct {
		p    ms3.Vec
		want float32
	}{
		{p: ms3.Vec{}, want: 0},                                  // center
		{p: ms3.Vec{X: 1, Y: 1, Z: 1}, want: 0},                  // corner
		{p: ms3.Vec{Z: 3}, want: 2},                              // face axis
		{p: ms3.Vec{X: 2, Y: 2, Z: 1}, want: math32.Sqrt2},       // edge diagonal
		{p: ms3.Vec{X: 2, Y: 2, Z: 2}, want: math32.Sqrt(3)},     // corner diagonal
		{p: ms3.Vec{X: -0.5, Y: 0.5, Z: -0.5}, want: 0},          // interior
		{p: ms3.Vec{X: -3, Y: 0, Z: 0}, want: 2},                 // negative side
	}
	for _, tc := range tests {
		got := Rect(tc.p, ms3.Vec{}, unit)
		if math32.Abs(got-tc.want) > 1e-6 {
			t.Errorf("Rect(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	// Off-center box.
	got := Rect(ms3.Vec{Z: 3}, ms3.Vec{Z: 4.0 / 3.0}, ms3.Vec{X: 1.0 / 3, Y: 1.0 / 3, Z: 1.0 / 3})
	want := 3 - 4.0/3.0 - 1.0/3.0
	if math32.Abs(got-float32(want)) > 1e-6 {
		t.Errorf("off-center Rect = %v, want %v", got, want)
	}
}

func TestSortAscending(t *testing.T) {
	tests := []struct{ p, want ms3.Vec }{
		{ms3.Vec{X: 3, Y: 1, Z: 2}, ms3.Vec{X: 1, Y: 2, Z: 3}},
		{ms3.Vec{X: 1, Y: 2, Z: 3}, ms3.Vec{X: 1, Y: 2, Z: 3}},
		{ms3.Vec{X: 2, Y: 2, Z: 1}, ms3.Vec{X: 1, Y: 2, Z: 2}},
		{ms3.Vec{X: 5, Y: 5, Z: 5}, ms3.Vec{X: 5, Y: 5, Z: 5}},
	}
	for _, tc := range tests {
		got := SortAscending(tc.p)
		if got != tc.want {
			t.Errorf("SortAscending(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		got := SortAscending(randVec(rng, 4))
		if got.X > got.Y || got.Y > got.Z {
			t.Fatalf("not ascending: %v", got)
		}
	}
}

func TestTessellate(t *testing.T) {
	tile := ms3.Vec{X: 2.0 / 3.0, Y: 2.0 / 3.0}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		p := randVec(rng, 3)
		got := Tessellate(p, tile)
		// Zero period passes z through.
		if got.Z != p.Z {
			t.Fatalf("z not passed through: %v -> %v", p, got)
		}
		// Folded coordinates live in the recentered cell.
		if got.X < -tile.X/2-1e-6 || got.X >= tile.X/2+1e-6 {
			t.Fatalf("x out of cell: %v", got.X)
		}
		// Periodicity.
		shifted := Tessellate(ms3.Add(p, ms3.Vec{X: tile.X, Y: tile.Y}), tile)
		if math32.Abs(shifted.X-got.X) > 1e-5 || math32.Abs(shifted.Y-got.Y) > 1e-5 {
			t.Fatalf("not periodic at %v: %v vs %v", p, got, shifted)
		}
	}
}

var permutations = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

// TestSurfaceSymmetry checks invariance under the full 48-element cube
// symmetry group: all coordinate permutations combined with all sign flips.
func TestSurfaceSymmetry(t *testing.T) {
	s := mustSurface(t)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		p := randVec(rng, 2)
		want := s.Distance(p)
		arr := [3]float32{p.X, p.Y, p.Z}
		for _, perm := range permutations {
			for signs := 0; signs < 8; signs++ {
				q := ms3.Vec{X: arr[perm[0]], Y: arr[perm[1]], Z: arr[perm[2]]}
				if signs&1 != 0 {
					q.X = -q.X
				}
				if signs&2 != 0 {
					q.Y = -q.Y
				}
				if signs&4 != 0 {
					q.Z = -q.Z
				}
				got := s.Distance(q)
				if math32.Abs(got-want) > 1e-5 {
					t.Fatalf("asymmetric: d(%v)=%v, d(%v)=%v", p, want, q, got)
				}
			}
		}
	}
}

// TestSurfaceLipschitz checks the field never varies faster than unit rate,
// the contraction property sphere tracing needs together with admissibility.
func TestSurfaceLipschitz(t *testing.T) {
	s := mustSurface(t)
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 2000; i++ {
		p := randVec(rng, 3)
		q := randVec(rng, 3)
		dp, dq := s.Distance(p), s.Distance(q)
		sep := ms3.Norm(ms3.Sub(p, q))
		if math32.Abs(dp-dq) > sep+1e-4 {
			t.Fatalf("lipschitz violated: |%v-%v| > |%v-%v| = %v", dp, dq, p, q, sep)
		}
	}
}

// TestSurfaceAdmissible checks the estimate never exceeds the true distance
// to known points of the surface, so marching by it cannot overshoot.
func TestSurfaceAdmissible(t *testing.T) {
	s := mustSurface(t)
	onSurface := []ms3.Vec{
		{X: 0.35, Y: 0.35, Z: 0.7},          // outer cube face
		{X: 0.7, Y: 0.7, Z: 0.7},            // outer cube corner
		{Z: 17.0 / 9.0 * 0.7},               // face-center tower tip
		{Z: 5.0 / 3.0 * 0.7},                // first tower top face center
	}
	for _, pt := range onSurface {
		if d := s.Distance(pt); d > 1e-5 {
			t.Fatalf("expected %v on surface, got distance %v", pt, d)
		}
	}
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 2000; i++ {
		p := randVec(rng, 4)
		d := s.Distance(p)
		if d < 0 {
			t.Fatalf("negative distance %v at %v", d, p)
		}
		for _, pt := range onSurface {
			if truth := ms3.Norm(ms3.Sub(p, pt)); d > truth+1e-4 {
				t.Fatalf("overestimate at %v: %v > |p-%v| = %v", p, d, pt, truth)
			}
		}
	}
}

// TestSurfaceSelfSimilar checks the scale constant is applied symmetrically:
// for points already folded into the fundamental domain, evaluating the
// rescaled point and rescaling the unit-cell field agree.
func TestSurfaceSelfSimilar(t *testing.T) {
	s := mustSurface(t)
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 500; i++ {
		folded := SortAscending(ms3.AbsElem(randVec(rng, 3)))
		want := s.scale * cell(folded)
		got := s.Distance(ms3.Scale(s.scale, folded))
		if math32.Abs(got-want) > 1e-5 {
			t.Fatalf("self-similarity broken at %v: %v != %v", folded, got, want)
		}
	}
}

func TestSurfaceEvaluate(t *testing.T) {
	s := mustSurface(t)
	rng := rand.New(rand.NewSource(7))
	pos := make([]ms3.Vec, 64)
	for i := range pos {
		pos[i] = randVec(rng, 3)
	}
	dist := make([]float32, len(pos))
	if err := s.Evaluate(pos, dist, nil); err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		if dist[i] != s.Distance(p) {
			t.Fatalf("Evaluate mismatch at %v", p)
		}
	}
	if err := s.Evaluate(pos, dist[:1], nil); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestSurfaceBounds(t *testing.T) {
	s := mustSurface(t)
	bb := s.Bounds()
	tip := float32(17.0 / 9.0 * 0.7)
	if bb.Max.Z < tip || bb.Min.Z > -tip {
		t.Errorf("bounds %v do not contain tower tips at ±%v", bb, tip)
	}
}

var _ field.SDF3 = (*Surface)(nil)

func BenchmarkSurfaceDistance(b *testing.B) {
	s, _ := NewSurface(DefaultScale)
	p := ms3.Vec{X: 0.3, Y: 1.2, Z: -0.8}
	for i := 0; i < b.N; i++ {
		_ = s.Distance(p)
	}
}
