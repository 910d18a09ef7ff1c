package trace

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Sample is a structured raymarch result consumed by shading.
type Sample struct {
	// Dist is the absolute hit distance along the ray. Meaningless if Miss.
	Dist float32
	// Material is the palette phase of the hit surface.
	Material float32
	// Miss flags that the ray left the scene without hitting.
	Miss bool
}

// materialPhase is the palette phase of the fractal surface. A single
// material covers the whole surface today.
const materialPhase = 0.25

// Colorize maps a raw march result into a [Sample].
func Colorize(t float32, ok bool) Sample {
	if !ok {
		return Sample{Miss: true}
	}
	return Sample{Dist: math32.Abs(t), Material: materialPhase}
}

// ease biases value toward zero for small inputs: max(0, t+(1-t)*value).
// Larger t softens the bias. Used to gate lighting terms.
func ease(t, value float32) float32 {
	return maxf(0, t+(1-t)*value)
}

// palette is the 3-channel cosine color palette driving material color.
func palette(phase float32) ms3.Vec {
	return ms3.Vec{
		X: 0.5 + 0.5*math32.Cos(0+2*phase),
		Y: 0.5 + 0.5*math32.Cos(1+2*phase),
		Z: 0.5 + 0.5*math32.Cos(2+2*phase),
	}
}

// background is the sky gradient: a warm dark tone at the horizon blending
// to a pale sky tone overhead, keyed on the ray's vertical component.
func background(rd ms3.Vec) ms3.Vec {
	ground := ms3.Vec{X: 0.15, Y: 0.1, Z: 0.05}
	sky := ms3.Vec{X: 0.7, Y: 0.9, Z: 1}
	return mix3(ground, sky, ease(0.5, rd.Y))
}

// Render shades the ray from ro along unit direction rd and returns the
// final gamma-encoded color with channels clamped to be non-negative.
func (tr *Tracer) Render(ro, rd ms3.Vec) ms3.Vec {
	color := background(rd)

	t, ok := tr.March(ro, rd)
	tmat := Colorize(t, ok)
	if !tmat.Miss {
		pos := ms3.Add(ro, ms3.Scale(tmat.Dist, rd))
		nor := tr.Normal(pos)
		light := tr.cfg.Light

		// Occlusion proxy: the normal's vertical component stands in for
		// ambient occlusion. Upward faces see sky, downward faces see only
		// bounce light.
		occlusion := nor.Y
		incident := ms3.Dot(nor, light)

		shadow := tr.SoftShadow(pos, light, 0.01, tr.cfg.ShadowSharpness)
		var lin ms3.Vec
		lin = ms3.Add(lin, ms3.Scale(1.00*ease(0.1, incident)*shadow, ms3.Vec{X: 1.1, Y: 0.85, Z: 0.6}))
		lin = ms3.Add(lin, ms3.Scale(0.50*ease(0.5, nor.Y)*occlusion, ms3.Vec{X: 0.1, Y: 0.2, Z: 0.4}))
		lin = ms3.Add(lin, ms3.Scale(0.50*ease(0.4, -incident)*ease(0.5, occlusion), ms3.Vec{X: 1, Y: 1, Z: 1}))
		lin = ms3.Add(lin, ms3.Scale(0.25*occlusion, ms3.Vec{X: 0.15, Y: 0.17, Z: 0.2}))

		color = ms3.MulElem(palette(tmat.Material), lin)
	}

	return gammaEncode(color)
}

// gammaEncode raises each channel to the power 0.4545 (~1/2.2). Negative
// channels, possible when downward normals drive the occlusion proxy below
// zero, are clamped to black first so the encode stays finite.
func gammaEncode(c ms3.Vec) ms3.Vec {
	const invGamma = 0.4545
	return ms3.Vec{
		X: math32.Pow(maxf(c.X, 0), invGamma),
		Y: math32.Pow(maxf(c.Y, 0), invGamma),
		Z: math32.Pow(maxf(c.Z, 0), invGamma),
	}
}

func mix3(a, b ms3.Vec, t float32) ms3.Vec {
	return ms3.Add(ms3.Scale(1-t, a), ms3.Scale(t, b))
}
