// Package render rasterizes annotations onto a transparent layer that sits
// over the photograph, and composites the two.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/viewport"
)

// arcSegments is the number of edges used to approximate a full circle.
const arcSegments = 48

var (
	selectionColor = color.RGBA{0x3B, 0x82, 0xF6, 0xFF}
	handleFill     = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// Canvas is an annotation layer the size of the editing surface. Eraser
// strokes clear pixels of the layer only; the photograph is untouched until
// Flatten.
type Canvas struct {
	layer *image.RGBA
}

var _ editor.Renderer = (*Canvas)(nil)

// NewCanvas returns an empty layer of the given size.
func NewCanvas(size image.Point) *Canvas {
	return &Canvas{layer: image.NewRGBA(image.Rectangle{Max: size})}
}

// Layer returns the annotation layer.
func (c *Canvas) Layer() *image.RGBA { return c.layer }

// Bounds returns the layer bounds.
func (c *Canvas) Bounds() image.Rectangle { return c.layer.Bounds() }

// Clear makes every pixel of the layer transparent.
func (c *Canvas) Clear() {
	for i := range c.layer.Pix {
		c.layer.Pix[i] = 0
	}
}

func (c *Canvas) rasterizer() *vector.Rasterizer {
	b := c.layer.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (c *Canvas) paint(ras *vector.Rasterizer, col color.Color) {
	ras.DrawOp = draw.Over
	ras.Draw(c.layer, c.layer.Bounds(), image.NewUniform(col), image.Point{})
}

// erase clears the layer under the rasterized coverage, keeping antialiased
// edges partially transparent.
func (c *Canvas) erase(ras *vector.Rasterizer) {
	b := c.layer.Bounds()
	cover := image.NewAlpha(image.Rectangle{Max: b.Size()})
	ras.DrawOp = draw.Src
	ras.Draw(cover, cover.Bounds(), image.Opaque, image.Point{})
	for y := 0; y < b.Dy(); y++ {
		row := c.layer.Pix[y*c.layer.Stride:]
		for x := 0; x < b.Dx(); x++ {
			m := cover.Pix[y*cover.Stride+x]
			if m == 0 {
				continue
			}
			keep := uint32(0xff - m)
			px := row[x*4 : x*4+4]
			for i := range px {
				px[i] = uint8((uint32(px[i])*keep + 0x7f) / 0xff)
			}
		}
	}
}

// DrawPolyline strokes a freehand line with round joins and caps.
func (c *Canvas) DrawPolyline(pts []viewport.Point, col annotation.Color, width float64, blend annotation.BlendMode) {
	if len(pts) == 0 || width <= 0 {
		return
	}
	ras := c.rasterizer()
	strokePolyline(ras, pts, width)
	if blend == annotation.BlendSubtract {
		c.erase(ras)
		return
	}
	c.paint(ras, col.ToRGBA())
}

// DrawArrow strokes the shaft and fills a triangular head ending at head.
func (c *Canvas) DrawArrow(tail, head viewport.Point, col annotation.Color, width, headSize float64) {
	dx, dy := head.X-tail.X, head.Y-tail.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	ux, uy := dx/n, dy/n
	ras := c.rasterizer()
	back := math.Min(headSize, n)
	base := viewport.Point{X: head.X - ux*back, Y: head.Y - uy*back}
	strokePolyline(ras, []viewport.Point{tail, base}, width)
	half := headSize / 2
	polygon(ras, []viewport.Point{
		head,
		{X: base.X - uy*half, Y: base.Y + ux*half},
		{X: base.X + uy*half, Y: base.Y - ux*half},
	}, false)
	c.paint(ras, col.ToRGBA())
}

// DrawEllipse strokes an ellipse outline rotated by rotation degrees about
// its centre.
func (c *Canvas) DrawEllipse(center viewport.Point, rx, ry, rotation float64, col annotation.Color, width float64) {
	if width <= 0 {
		return
	}
	m := rotateAbout(center, rotation)
	half := width / 2
	ras := c.rasterizer()
	polygon(ras, ellipse(m, rx+half, ry+half), false)
	if rx > half && ry > half {
		polygon(ras, ellipse(m, rx-half, ry-half), true)
	}
	c.paint(ras, col.ToRGBA())
}

// DrawSelection outlines box and draws a square for every handle.
func (c *Canvas) DrawSelection(box [4]viewport.Point, handles []editor.Handle) {
	ras := c.rasterizer()
	strokePolyline(ras, []viewport.Point{box[0], box[1], box[2], box[3], box[0]}, 1)
	for _, h := range handles {
		if h.Kind == editor.HandleRotate {
			strokePolyline(ras, []viewport.Point{midpoint(box[0], box[1]), h.Pos}, 1)
		}
	}
	c.paint(ras, selectionColor)

	const hs = editor.HandleRadius - 1
	for _, h := range handles {
		sq := []viewport.Point{
			{X: h.Pos.X - hs, Y: h.Pos.Y - hs},
			{X: h.Pos.X + hs, Y: h.Pos.Y - hs},
			{X: h.Pos.X + hs, Y: h.Pos.Y + hs},
			{X: h.Pos.X - hs, Y: h.Pos.Y + hs},
		}
		fill := c.rasterizer()
		polygon(fill, sq, false)
		c.paint(fill, handleFill)
		edge := c.rasterizer()
		strokePolyline(edge, append(sq, sq[0]), 1)
		c.paint(edge, selectionColor)
	}
}

// Flatten composites the layer over photo scaled to the layer size.
func (c *Canvas) Flatten(photo image.Image) *image.RGBA {
	b := c.layer.Bounds()
	out := image.NewRGBA(b)
	if photo != nil {
		if photo.Bounds().Size() == b.Size() {
			draw.Draw(out, b, photo, photo.Bounds().Min, draw.Src)
		} else {
			xdraw.ApproxBiLinear.Scale(out, b, photo, photo.Bounds(), draw.Src, nil)
		}
	}
	draw.Draw(out, b, c.layer, b.Min, draw.Over)
	return out
}

func midpoint(a, b viewport.Point) viewport.Point {
	return viewport.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// strokePolyline adds a quad per segment and a disc per vertex so joins and
// caps come out round.
func strokePolyline(ras *vector.Rasterizer, pts []viewport.Point, width float64) {
	half := width / 2
	for i, p := range pts {
		polygon(ras, ellipse(rotateAbout(p, 0), half, half), false)
		if i == 0 {
			continue
		}
		q := pts[i-1]
		dx, dy := p.X-q.X, p.Y-q.Y
		n := math.Hypot(dx, dy)
		if n == 0 {
			continue
		}
		nx, ny := -dy/n*half, dx/n*half
		polygon(ras, []viewport.Point{
			{X: q.X + nx, Y: q.Y + ny},
			{X: p.X + nx, Y: p.Y + ny},
			{X: p.X - nx, Y: p.Y - ny},
			{X: q.X - nx, Y: q.Y - ny},
		}, false)
	}
}

// polygon adds a closed path. The rasterizer accumulates signed coverage, so
// every filled polygon is wound the same way and holes the opposite way.
func polygon(ras *vector.Rasterizer, pts []viewport.Point, hole bool) {
	if len(pts) < 3 {
		return
	}
	if (signedArea(pts) < 0) != hole {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		ras.LineTo(float32(p.X), float32(p.Y))
	}
	ras.ClosePath()
}

func signedArea(pts []viewport.Point) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// rotateAbout returns the affine transform rotating by deg degrees about c.
func rotateAbout(c viewport.Point, deg float64) f64.Aff3 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return f64.Aff3{
		cos, -sin, c.X,
		sin, cos, c.Y,
	}
}

func apply(m f64.Aff3, x, y float64) viewport.Point {
	return viewport.Point{X: m[0]*x + m[1]*y + m[2], Y: m[3]*x + m[4]*y + m[5]}
}

func ellipse(m f64.Aff3, rx, ry float64) []viewport.Point {
	pts := make([]viewport.Point, arcSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / arcSegments
		pts[i] = apply(m, rx*math.Cos(a), ry*math.Sin(a))
	}
	return pts
}
