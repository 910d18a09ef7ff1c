package trace

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Orbit is the camera path circling the surface. The eye position at time t
// is Center + Amplitude*(sin(Freq.X*t), cos(Freq.Y*t), cos(Freq.Z*t)),
// componentwise. The path is periodic per axis with period 2*pi/Freq and
// bounded by Center ± Amplitude.
type Orbit struct {
	Center    ms3.Vec
	Amplitude ms3.Vec
	Frequency ms3.Vec
}

// DefaultOrbit is the canonical fly-around path of the surface.
var DefaultOrbit = Orbit{
	Center:    ms3.Vec{Y: 1},
	Amplitude: ms3.Vec{X: 2.5, Y: 1, Z: 2.5},
	Frequency: ms3.Vec{X: 0.25, Y: 0.13, Z: 0.25},
}

// At returns the orbit position at elapsed time t.
func (o Orbit) At(t float32) ms3.Vec {
	return ms3.Add(o.Center, ms3.Vec{
		X: o.Amplitude.X * math32.Sin(o.Frequency.X*t),
		Y: o.Amplitude.Y * math32.Cos(o.Frequency.Y*t),
		Z: o.Amplitude.Z * math32.Cos(o.Frequency.Z*t),
	})
}

// Camera shoots rays from a fixed eye through a focal plane. Construct with
// [LookAt] or [OrbitCamera].
type Camera struct {
	eye        ms3.Vec
	uu, vv, ww ms3.Vec
	focal      float32
}

// LookAt builds a camera at eye aimed at target with a right-handed basis
// derived from the world up axis and the given focal length.
func LookAt(eye, target ms3.Vec, focal float32) Camera {
	ww := ms3.Unit(ms3.Sub(target, eye))
	uu := ms3.Unit(cross3(ms3.Vec{Y: 1}, ww))
	vv := ms3.Unit(cross3(ww, uu))
	return Camera{eye: eye, uu: uu, vv: vv, ww: ww, focal: focal}
}

// OrbitCamera places a camera on [DefaultOrbit] at elapsed time t, pulled
// out 1.1x from the path and aimed at the origin with focal length 2.5.
func OrbitCamera(t float32) Camera {
	return LookAt(ms3.Scale(1.1, DefaultOrbit.At(t)), ms3.Vec{}, 2.5)
}

// Ray returns the ray through the aspect-corrected normalized pixel
// coordinate (u,v) in [-1,1]^2, v pointing up. The direction is unit length.
func (c Camera) Ray(u, v float32) (ro, rd ms3.Vec) {
	rd = ms3.Add(ms3.Add(ms3.Scale(u, c.uu), ms3.Scale(v, c.vv)), ms3.Scale(c.focal, c.ww))
	return c.eye, ms3.Unit(rd)
}

func cross3(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
