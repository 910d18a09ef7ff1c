package trace

import (
	"errors"
	"image"
	"runtime"
	"sync"

	xdraw "golang.org/x/image/draw"

	"manhattan/field"
)

// RenderConfig parameterizes a frame [Renderer].
type RenderConfig struct {
	Width, Height int
	// Supersample renders at an integer multiple of the output resolution
	// and downscales with a Catmull-Rom kernel. 0 and 1 disable it.
	Supersample int
	// Workers is the worker goroutine count. 0 selects runtime.NumCPU().
	Workers int
	// Trace configures the per-worker tracers.
	Trace Config
}

// Renderer renders animation frames of a distance field. Pixels are
// mutually independent, so rows are fanned out to a worker pool, each
// worker owning its own [Tracer].
type Renderer struct {
	sdf field.SDF3
	cfg RenderConfig
}

// NewRenderer returns a frame renderer for the given field.
func NewRenderer(sdf field.SDF3, cfg RenderConfig) (*Renderer, error) {
	if sdf == nil {
		return nil, errors.New("trace: nil SDF3")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("trace: non-positive frame dimension")
	}
	if cfg.Supersample < 0 || cfg.Workers < 0 {
		return nil, errors.New("trace: negative RenderConfig field")
	}
	if err := cfg.Trace.validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Renderer{sdf: sdf, cfg: cfg}, nil
}

// Image renders the frame at elapsed time t into a new image, applying
// supersampling if configured.
func (r *Renderer) Image(t float32) (*image.RGBA, error) {
	ss := r.cfg.Supersample
	if ss <= 1 {
		img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
		if err := r.RenderInto(img, t); err != nil {
			return nil, err
		}
		return img, nil
	}
	big := image.NewRGBA(image.Rect(0, 0, r.cfg.Width*ss, r.cfg.Height*ss))
	if err := r.RenderInto(big, t); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	xdraw.CatmullRom.Scale(img, img.Bounds(), big, big.Bounds(), xdraw.Src, nil)
	return img, nil
}

// RenderInto renders the frame at elapsed time t into img at img's own
// resolution. The camera sits on [DefaultOrbit] at t.
func (r *Renderer) RenderInto(img *image.RGBA, t float32) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return errors.New("trace: empty target image")
	}
	cam := OrbitCamera(t)
	aspect := float32(w) / float32(h)

	rows := make(chan int)
	errs := make(chan error, r.cfg.Workers)
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr, err := NewTracer(r.sdf, r.cfg.Trace)
			if err != nil {
				errs <- err
				for range rows {
					// Drain so the row feeder below cannot block.
				}
				return
			}
			for y := range rows {
				r.renderRow(img, tr, cam, y, aspect)
			}
			if err := tr.Err(); err != nil {
				errs <- err
			}
		}()
	}
	for y := 0; y < h; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
	close(errs)
	return <-errs
}

func (r *Renderer) renderRow(img *image.RGBA, tr *Tracer, cam Camera, y int, aspect float32) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	v := 1 - 2*(float32(y)+0.5)/float32(h)
	off := img.PixOffset(b.Min.X, b.Min.Y+y)
	row := img.Pix[off : off+4*w]
	for x := 0; x < w; x++ {
		u := (2*(float32(x)+0.5)/float32(w) - 1) * aspect
		ro, rd := cam.Ray(u, v)
		c := tr.Render(ro, rd)
		row[4*x+0] = quantize(c.X)
		row[4*x+1] = quantize(c.Y)
		row[4*x+2] = quantize(c.Z)
		row[4*x+3] = 0xFF
	}
}

func quantize(v float32) uint8 {
	return uint8(clampf(v, 0, 1)*255 + 0.5)
}
