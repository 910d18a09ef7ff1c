package manhattanaux

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"manhattan/trace"
)

// UIConfig parameterizes the live viewer window.
type UIConfig struct {
	Config
	// WindowScale is the window size as a multiple of the render
	// resolution. 0 selects 2.
	WindowScale int
	// TPS is the animation tick rate. 0 selects 30. The render resolution
	// bounds the achievable rate; sphere tracing every pixel on the CPU is
	// not cheap, so prefer small frames over a high tick rate.
	TPS int
}

// UI opens a window flying the orbit camera around the surface. It blocks
// until the window closes.
func UI(cfg UIConfig) error {
	if cfg.Width == 0 {
		cfg.Width = 320
	}
	if cfg.Height == 0 {
		cfg.Height = 240
	}
	if cfg.WindowScale == 0 {
		cfg.WindowScale = 2
	}
	if cfg.TPS == 0 {
		cfg.TPS = 30
	}
	r, err := cfg.renderer()
	if err != nil {
		return err
	}
	g := &game{
		render: r,
		start:  cfg.Time,
		tps:    cfg.TPS,
		frame:  image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
	}
	ebiten.SetWindowTitle("manhattan surface")
	ebiten.SetWindowSize(cfg.Width*cfg.WindowScale, cfg.Height*cfg.WindowScale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type game struct {
	render *trace.Renderer
	frame  *image.RGBA
	tex    *ebiten.Image
	start  float32
	tps    int
	ticks  int
	err    error
}

func (g *game) Update() error {
	g.ticks++
	return g.err
}

func (g *game) Draw(screen *ebiten.Image) {
	t := g.start + float32(g.ticks)/float32(g.tps)
	if err := g.render.RenderInto(g.frame, t); err != nil {
		g.err = err
		return
	}
	if g.tex == nil {
		g.tex = ebiten.NewImage(g.frame.Bounds().Dx(), g.frame.Bounds().Dy())
	}
	g.tex.WritePixels(g.frame.Pix)
	screen.DrawImage(g.tex, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.frame.Bounds().Dx(), g.frame.Bounds().Dy()
}
