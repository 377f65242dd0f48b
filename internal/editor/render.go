package editor

import (
	"math"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/viewport"
)

// Renderer draws annotations. Every coordinate and length is in surface
// space; rotation is in degrees.
type Renderer interface {
	DrawPolyline(points []viewport.Point, c annotation.Color, width float64, blend annotation.BlendMode)
	DrawArrow(tail, head viewport.Point, c annotation.Color, width, headSize float64)
	DrawEllipse(center viewport.Point, rx, ry, rotation float64, c annotation.Color, width float64)
	DrawSelection(box [4]viewport.Point, handles []Handle)
}

// Render draws the strokes, then the shapes, then the selection handles.
// Nothing is drawn until the image is ready.
func (e *Editor) Render(r Renderer) {
	if !e.ready() || e.layout.Zero() {
		return
	}
	RenderDocument(r, e.layout, e.lines, e.shapes)
	i := e.shapeIndex(e.selected)
	if i < 0 {
		return
	}
	var box [4]viewport.Point
	for j, c := range corners(e.shapes[i]) {
		box[j] = e.layout.ToScreen(c)
	}
	hs := e.Handles()
	for j := range hs {
		hs[j].Pos = e.layout.ToScreen(hs[j].Pos)
	}
	r.DrawSelection(box, hs)
}

// RenderDocument draws strokes and shapes through r at the given layout.
func RenderDocument(r Renderer, l viewport.Layout, lines []annotation.Stroke, shapes []annotation.Shape) {
	for _, s := range lines {
		pts := make([]viewport.Point, 0, s.PointCount())
		for i := 0; i < s.PointCount(); i++ {
			pts = append(pts, l.ToScreen(s.PointAt(i)))
		}
		r.DrawPolyline(pts, s.Color, l.Distance(s.StrokeWidth), s.Blend)
	}
	for _, s := range shapes {
		f := frameOf(s)
		// Strokes scale with the shape.
		k := math.Sqrt(math.Abs(s.ScaleX * s.ScaleY))
		width := l.Distance(s.StrokeWidth * k)
		switch s.Type {
		case annotation.ShapeArrow:
			if len(s.Points) != 4 {
				continue
			}
			tail := l.ToScreen(f.toImage(s.Points[0], s.Points[1]))
			head := l.ToScreen(f.toImage(s.Points[2], s.Points[3]))
			r.DrawArrow(tail, head, s.Color, width, l.Distance(annotation.ArrowHead*k))
		case annotation.ShapeCircle:
			center := l.ToScreen(f.toImage(0, 0))
			rx := l.Distance(s.Radius * math.Abs(s.ScaleX))
			ry := l.Distance(s.Radius * math.Abs(s.ScaleY))
			r.DrawEllipse(center, rx, ry, s.Rotation, s.Color, width)
		}
	}
}
