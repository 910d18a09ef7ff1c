// Command manhattan renders the Manhattan surface to a PNG still, an
// animated GIF of the orbit path, or a live desktop viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"manhattan"
	"manhattan/manhattanaux"
)

func main() {
	var (
		out     = flag.String("o", "manhattan.png", "Output file. Extension selects PNG or GIF.")
		ui      = flag.Bool("ui", false, "Open a live viewer window instead of writing a file.")
		width   = flag.Int("width", 640, "Output width in pixels.")
		height  = flag.Int("height", 480, "Output height in pixels.")
		ss      = flag.Int("ss", 2, "Supersampling factor for file output (1 = off).")
		at      = flag.Float64("t", 0, "Orbit time of the first frame, in seconds.")
		frames  = flag.Int("frames", 60, "GIF frame count.")
		seconds = flag.Float64("seconds", 6, "GIF duration in seconds.")
		scale   = flag.Float64("scale", manhattan.DefaultScale, "Fractal self-similarity scale.")
	)
	flag.Parse()

	surf, err := manhattan.NewSurface(float32(*scale))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := manhattanaux.Config{
		SDF:         surf,
		Width:       *width,
		Height:      *height,
		Supersample: *ss,
		Time:        float32(*at),
	}

	if *ui {
		cfg.Supersample = 1 // Interactive rates leave no room for it.
		if err := manhattanaux.UI(manhattanaux.UIConfig{Config: cfg}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	start := time.Now()
	switch ext := filepath.Ext(*out); ext {
	case ".png":
		err = manhattanaux.RenderPNG(f, cfg)
	case ".gif":
		err = manhattanaux.RenderGIF(f, manhattanaux.AnimConfig{
			Config:  cfg,
			Frames:  *frames,
			Seconds: float32(*seconds),
		})
	default:
		err = fmt.Errorf("unsupported output extension %q", ext)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(*out)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Printf("wrote %s in %s", *out, time.Since(start).Round(time.Millisecond))
}
