// Package trace renders distance fields by sphere tracing: a raymarcher
// that advances each ray by the locally sampled field value, a soft-shadow
// estimator reusing the same march toward the light, shading, and a
// parallel frame renderer.
package trace

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"manhattan/field"
)

// Config parameterizes a [Tracer]. The zero value selects the defaults of
// every knob.
type Config struct {
	// Light is the direction toward the key light. Need not be normalized.
	// Zero value selects the default light direction.
	Light ms3.Vec
	// Epsilon is the hit threshold of the primary march. Default 0.01.
	Epsilon float32
	// MaxDist is the far cutoff of the primary march. Default 10.
	MaxDist float32
	// MaxSteps bounds the primary march iteration count. Default 1000.
	MaxSteps int
	// ShadowSteps is the fixed number of shadow march steps. Default 32.
	// The shadow march always runs all its steps; it has no hard-hit exit.
	ShadowSteps int
	// ShadowSharpness scales the penumbra ratio of the key light's shadow.
	// Default 64.
	ShadowSharpness float32
}

func (cfg Config) withDefaults() Config {
	if cfg.Light == (ms3.Vec{}) {
		cfg.Light = ms3.Vec{X: 1, Y: 0.9, Z: 0.3}
	}
	cfg.Light = ms3.Unit(cfg.Light)
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 0.01
	}
	if cfg.MaxDist == 0 {
		cfg.MaxDist = 10
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = 1000
	}
	if cfg.ShadowSteps == 0 {
		cfg.ShadowSteps = 32
	}
	if cfg.ShadowSharpness == 0 {
		cfg.ShadowSharpness = 64
	}
	return cfg
}

func (cfg Config) validate() error {
	switch {
	case cfg.Epsilon < 0 || cfg.MaxDist < 0 || cfg.MaxSteps < 0,
		cfg.ShadowSteps < 0 || cfg.ShadowSharpness < 0:
		return errors.New("trace: negative Config field")
	case !isfinite3(cfg.Light):
		return errors.New("trace: non-finite light direction")
	}
	return nil
}

// Tracer sphere-traces a distance field. It owns scratch state and is not
// safe for concurrent use; the frame [Renderer] gives one to each worker.
type Tracer struct {
	sdf field.SDF3
	cfg Config
	vp  field.VecPool
	// Single-sample scratch reused across every field query.
	pos  [1]ms3.Vec
	dist [1]float32
	err  error
}

// NewTracer returns a Tracer marching the given field. Zero Config fields
// are replaced with their defaults.
func NewTracer(sdf field.SDF3, cfg Config) (*Tracer, error) {
	if sdf == nil {
		return nil, errors.New("trace: nil SDF3")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tracer{sdf: sdf, cfg: cfg.withDefaults()}, nil
}

// Err returns the first evaluation error encountered by the tracer, if any.
// Field evaluation errors cannot be reported per-pixel, so they are latched
// here and checked once per frame by the renderer.
func (tr *Tracer) Err() error { return tr.err }

func (tr *Tracer) eval(p ms3.Vec) float32 {
	tr.pos[0] = p
	err := tr.sdf.Evaluate(tr.pos[:], tr.dist[:], &tr.vp)
	if err != nil && tr.err == nil {
		tr.err = err
	}
	return tr.dist[0]
}

// March sphere-traces the ray from ro along unit direction rd. It returns
// the hit distance t >= 0 at which the field drops below Epsilon, or
// ok=false if the ray exceeds MaxDist or the step budget without hitting.
// Non-finite rays are rejected and reported as a miss.
func (tr *Tracer) March(ro, rd ms3.Vec) (t float32, ok bool) {
	if !isfinite3(ro) || !isfinite3(rd) {
		return 0, false
	}
	for i := 0; i < tr.cfg.MaxSteps; i++ {
		if t >= tr.cfg.MaxDist {
			return 0, false
		}
		h := tr.eval(ms3.Add(ro, ms3.Scale(t, rd)))
		if h < tr.cfg.Epsilon {
			return t, true
		}
		// The field never overestimates the distance to the surface, so
		// advancing by the sample cannot step through it.
		t += h
	}
	return 0, false
}

// SoftShadow marches from ro toward the light along rd and returns an
// occlusion factor in [0.1, 1]: 1 fully lit, 0.1 fully shadowed. The
// penumbra derives from the running minimum of k*h/t, the grazing ratio of
// sampled distance to distance traveled. All steps always run; a coarse
// fixed-step march is enough for an occlusion estimate.
func (tr *Tracer) SoftShadow(ro, rd ms3.Vec, mint, k float32) float32 {
	res := float32(1)
	t := mint
	for i := 0; i < tr.cfg.ShadowSteps; i++ {
		h := tr.eval(ms3.Add(ro, ms3.Scale(t, rd)))
		res = minf(res, k*h/t)
		t += clampf(h, 0.005, 0.1)
	}
	res = clampf(res, 0, 1)
	return ease(0.1, res)
}

// Normal estimates the unit surface normal at pos by central differences
// with a 0.001 offset per axis. Undefined at literal cusps of the field.
func (tr *Tracer) Normal(pos ms3.Vec) ms3.Vec {
	var nor [1]ms3.Vec
	tr.pos[0] = pos
	err := field.NormalsCentralDiff(tr.sdf, tr.pos[:], nor[:], 0.002, &tr.vp)
	if err != nil && tr.err == nil {
		tr.err = err
	}
	return ms3.Unit(nor[0])
}

func minf(a, b float32) float32 { return math32.Min(a, b) }

func maxf(a, b float32) float32 { return math32.Max(a, b) }

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}

func isfinite3(v ms3.Vec) bool {
	return isfinite(v.X) && isfinite(v.Y) && isfinite(v.Z)
}

func isfinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
