package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// supersample is the factor the line is rasterized at before downscaling.
const supersample = 2

// SparklineOptions controls the fallback PNG renderer.
type SparklineOptions struct {
	Width       int
	Height      int
	StrokeWidth float32
	Color       color.Color
	Background  color.Color
}

// DefaultSparklineOptions matches the in-page sparkline footprint.
func DefaultSparklineOptions() SparklineOptions {
	return SparklineOptions{
		Width:       320,
		Height:      sparklineHeight,
		StrokeWidth: 2,
		Color:       color.RGBA{0x00, 0x8F, 0xFB, 0xFF},
		Background:  color.White,
	}
}

func (o SparklineOptions) withDefaults() SparklineOptions {
	d := DefaultSparklineOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	if o.Color == nil {
		o.Color = d.Color
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	return o
}

// RenderSparklinePNG draws data as a poly-line and encodes it as PNG.
// Empty data yields a blank image; a single value yields a flat line.
func RenderSparklinePNG(w io.Writer, data []int, opts SparklineOptions) error {
	img := RenderSparkline(data, opts)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode sparkline: %w", err)
	}
	return nil
}

// RenderSparkline rasterizes data at supersample scale and downsamples it
// with Catmull-Rom filtering.
func RenderSparkline(data []int, opts SparklineOptions) *image.RGBA {
	opts = opts.withDefaults()
	w, h := opts.Width*supersample, opts.Height*supersample

	hi := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(hi, hi.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	if len(data) > 0 {
		half := opts.StrokeWidth * supersample / 2
		pts := linePoints(data, float32(w), float32(h), half+1)
		z := vector.NewRasterizer(w, h)
		for i := 1; i < len(pts); i++ {
			segment(z, pts[i-1], pts[i], half)
		}
		for _, p := range pts {
			joint(z, p, half)
		}
		z.Draw(hi, hi.Bounds(), image.NewUniform(opts.Color), image.Point{})
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), hi, hi.Bounds(), draw.Src, nil)
	return out
}

type point struct{ x, y float32 }

// linePoints maps values onto the canvas, highest value at the top.
func linePoints(data []int, w, h, pad float32) []point {
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	y := func(v int) float32 {
		if hi == lo {
			return h / 2
		}
		return pad + (h-2*pad)*float32(hi-v)/float32(hi-lo)
	}

	if len(data) == 1 {
		return []point{{pad, y(data[0])}, {w - pad, y(data[0])}}
	}
	step := (w - 2*pad) / float32(len(data)-1)
	pts := make([]point, len(data))
	for i, v := range data {
		pts[i] = point{pad + step*float32(i), y(v)}
	}
	return pts
}

// segment adds a quad of width 2*half around a-b. Every quad and joint is
// wound the same way so overlaps accumulate instead of cancelling.
func segment(z *vector.Rasterizer, a, b point, half float32) {
	dx, dy := b.x-a.x, b.y-a.y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length < 1e-6 {
		return
	}
	nx, ny := -dy/length*half, dx/length*half
	z.MoveTo(a.x+nx, a.y+ny)
	z.LineTo(b.x+nx, b.y+ny)
	z.LineTo(b.x-nx, b.y-ny)
	z.LineTo(a.x-nx, a.y-ny)
	z.ClosePath()
}

// joint fills the gap between consecutive quads with a small diamond.
func joint(z *vector.Rasterizer, p point, half float32) {
	z.MoveTo(p.x, p.y-half)
	z.LineTo(p.x-half, p.y)
	z.LineTo(p.x, p.y+half)
	z.LineTo(p.x+half, p.y)
	z.ClosePath()
}
