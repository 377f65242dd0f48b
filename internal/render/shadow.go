package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the soft shadow drawn under annotation marks so
// white and yellow strokes stay readable on bright photographs.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a shadow tuned for marks a few pixels wide.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  3,
		Offset:  image.Pt(1, 2),
		Opacity: 0.45,
	}
}

// ApplyShadow adds a blurred shadow beneath the opaque pixels of the layer.
// The result has the layer's bounds; shadow falling outside is clipped.
func (c *Canvas) ApplyShadow(opts ShadowOptions) {
	c.layer = Shadowed(c.layer, opts)
}

// Shadowed returns layer composited over its own blurred, offset alpha. A
// zero opacity returns the layer unchanged.
func Shadowed(layer *image.RGBA, opts ShadowOptions) *image.RGBA {
	if layer == nil || layer.Bounds().Empty() || opts.Opacity <= 0 {
		return layer
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	b := layer.Bounds()
	mask := image.NewAlpha(b.Sub(b.Min))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := layer.RGBAAt(x, y).A; a != 0 {
				mask.SetAlpha(x-b.Min.X, y-b.Min.Y, color.Alpha{A: a})
			}
		}
	}
	blurred := blurAlpha(mask, radius)

	out := image.NewRGBA(b)
	shade := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(out, b.Add(opts.Offset), shade, image.Point{}, blurred, image.Point{}, draw.Over)
	draw.Draw(out, b, layer, b.Min, draw.Over)
	return out
}

// blurAlpha is a separable box blur using running sums along each axis.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	boxPass(src.Pix, tmp.Pix, w, h, 1, src.Stride, radius)
	boxPass(tmp.Pix, out.Pix, h, w, tmp.Stride, 1, radius)
	return out
}

// boxPass averages runs of n samples spaced step apart, for each of lines
// lines spaced stride apart.
func boxPass(src, dst []uint8, n, lines, step, stride, radius int) {
	sums := make([]int, n+1)
	for l := 0; l < lines; l++ {
		base := l * stride
		for i := 0; i < n; i++ {
			sums[i+1] = sums[i] + int(src[base+i*step])
		}
		for i := 0; i < n; i++ {
			i0, i1 := i-radius, i+radius
			if i0 < 0 {
				i0 = 0
			}
			if i1 >= n {
				i1 = n - 1
			}
			dst[base+i*step] = uint8((sums[i1+1] - sums[i0]) / (i1 - i0 + 1))
		}
	}
}
