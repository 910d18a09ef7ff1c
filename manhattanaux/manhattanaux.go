// Package manhattanaux provides auxiliary glue for rendering the Manhattan
// surface to common outputs: PNG stills, animated GIFs of the orbit path,
// and a live desktop viewer. Meant to cover the typical use cases in a few
// lines; use the manhattan and trace packages directly for more control.
package manhattanaux

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"manhattan"
	"manhattan/field"
	"manhattan/trace"
)

// Config parameterizes the helper renderers.
type Config struct {
	// SDF is the field to render. Nil selects the Manhattan surface at
	// [manhattan.DefaultScale].
	SDF field.SDF3
	// Width and Height are the output resolution. Zero selects 640x480.
	Width, Height int
	// Supersample is the antialiasing factor. 0 and 1 disable it.
	Supersample int
	// Time is the elapsed orbit time of a still frame, in seconds.
	Time float32
}

func (cfg Config) renderer() (*trace.Renderer, error) {
	if cfg.Width == 0 {
		cfg.Width = 640
	}
	if cfg.Height == 0 {
		cfg.Height = 480
	}
	sdf := cfg.SDF
	if sdf == nil {
		var err error
		sdf, err = manhattan.NewSurface(manhattan.DefaultScale)
		if err != nil {
			return nil, err
		}
	}
	return trace.NewRenderer(sdf, trace.RenderConfig{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
	})
}

// RenderPNG renders a single frame at cfg.Time and encodes it as PNG to w.
func RenderPNG(w io.Writer, cfg Config) error {
	r, err := cfg.renderer()
	if err != nil {
		return err
	}
	img, err := r.Image(cfg.Time)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// AnimConfig parameterizes an animated render of the orbit path.
type AnimConfig struct {
	Config
	// Frames is the frame count of the animation.
	Frames int
	// Seconds is the orbit time covered by the animation, which is also
	// its wall-clock duration on playback.
	Seconds float32
}

// RenderGIF renders the orbit animation and encodes it as a looping GIF
// to w. Frames start at cfg.Time.
func RenderGIF(w io.Writer, cfg AnimConfig) error {
	if cfg.Frames <= 0 || cfg.Seconds <= 0 {
		return errors.New("manhattanaux: animation needs positive Frames and Seconds")
	}
	r, err := cfg.renderer()
	if err != nil {
		return err
	}
	delay := int(100 * cfg.Seconds / float32(cfg.Frames)) // GIF delay unit is 10ms.
	if delay < 2 {
		delay = 2
	}
	out := &gif.GIF{LoopCount: 0}
	for i := 0; i < cfg.Frames; i++ {
		t := cfg.Time + cfg.Seconds*float32(i)/float32(cfg.Frames)
		img, err := r.Image(t)
		if err != nil {
			return err
		}
		pal := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, img.Bounds(), img, image.Point{})
		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}
