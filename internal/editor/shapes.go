package editor

import (
	"math"

	"go.uber.org/zap"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/viewport"
)

// MinShapeSize is the smallest width or height a resize may leave a shape
// with, in image units.
const MinShapeSize = 20

// hitSlop widens shape boxes for pointer hit-testing, in surface pixels.
const hitSlop = 4

// Attrs is a partial shape update. Nil fields keep their current value.
type Attrs struct {
	X, Y           *float64
	Rotation       *float64
	ScaleX, ScaleY *float64
}

// Float returns a pointer to v for building Attrs.
func Float(v float64) *float64 { return &v }

func (a Attrs) apply(s annotation.Shape) annotation.Shape {
	if a.X != nil {
		s.X = *a.X
	}
	if a.Y != nil {
		s.Y = *a.Y
	}
	if a.Rotation != nil {
		s.Rotation = *a.Rotation
	}
	if a.ScaleX != nil {
		s.ScaleX = *a.ScaleX
	}
	if a.ScaleY != nil {
		s.ScaleY = *a.ScaleY
	}
	return s
}

func (a Attrs) resizes() bool { return a.ScaleX != nil || a.ScaleY != nil }

// finite reports whether every set field is a finite number.
func (a Attrs) finite() bool {
	for _, v := range []*float64{a.X, a.Y, a.Rotation, a.ScaleX, a.ScaleY} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return false
		}
	}
	return true
}

// imageCenter returns the middle of the loaded image.
func (e *Editor) imageCenter() viewport.Point {
	return viewport.Point{X: e.natural.W / 2, Y: e.natural.H / 2}
}

// InsertArrow stamps an arrow centred on the image, selects it and returns
// to the select tool.
func (e *Editor) InsertArrow() (string, bool) {
	if !e.ready() {
		return "", false
	}
	c := e.imageCenter()
	return e.insert(annotation.NewArrow(c.X-annotation.ArrowLength/2, c.Y, e.color, e.width)), true
}

// InsertCircle stamps a circle on the image centre, selects it and returns to
// the select tool.
func (e *Editor) InsertCircle() (string, bool) {
	if !e.ready() {
		return "", false
	}
	c := e.imageCenter()
	return e.insert(annotation.NewCircle(c.X, c.Y, e.color, e.width)), true
}

func (e *Editor) insert(s annotation.Shape) string {
	e.shapes = append(e.shapes, s)
	e.record(annotation.HistoryShape, s.ID)
	e.selected = s.ID
	e.tool = ToolSelect
	e.log.Debug("inserted shape", zap.String("type", string(s.Type)), zap.String("id", s.ID))
	return s.ID
}

func (e *Editor) shapeIndex(id string) int {
	for i := range e.shapes {
		if e.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

// Shape returns a copy of the shape with the given id.
func (e *Editor) Shape(id string) (annotation.Shape, bool) {
	i := e.shapeIndex(id)
	if i < 0 {
		return annotation.Shape{}, false
	}
	s := e.shapes[i]
	s.Points = append([]float64(nil), s.Points...)
	return s, true
}

// Transform merges attrs into the shape. Non-finite values, and a resize that
// leaves either side of the box under MinShapeSize, are rejected and the shape
// is left unchanged.
func (e *Editor) Transform(id string, attrs Attrs) bool {
	if !e.ready() {
		return false
	}
	i := e.shapeIndex(id)
	if i < 0 {
		return false
	}
	if !attrs.finite() {
		e.log.Debug("rejecting non-finite transform", zap.String("id", id))
		return false
	}
	next := attrs.apply(e.shapes[i])
	if attrs.resizes() {
		if w, h := next.Size(); w < MinShapeSize || h < MinShapeSize {
			e.log.Debug("rejecting transform below minimum size",
				zap.String("id", id), zap.Float64("width", w), zap.Float64("height", h))
			return false
		}
	}
	e.shapes[i] = next
	return true
}

// Drag moves a shape by a surface-space delta.
func (e *Editor) Drag(id string, rawDX, rawDY float64) bool {
	if !e.ready() || e.layout.Scale == 0 {
		return false
	}
	i := e.shapeIndex(id)
	if i < 0 {
		return false
	}
	s := e.shapes[i]
	return e.Transform(id, Attrs{
		X: Float(s.X + rawDX/e.layout.Scale),
		Y: Float(s.Y + rawDY/e.layout.Scale),
	})
}

// frame maps between a shape's local coordinates and image space. Local
// points are scaled, then rotated about the anchor, then translated.
type frame struct {
	x, y     float64
	sin, cos float64
	sx, sy   float64
}

func frameOf(s annotation.Shape) frame {
	rad := s.Rotation * math.Pi / 180
	return frame{x: s.X, y: s.Y, sin: math.Sin(rad), cos: math.Cos(rad), sx: s.ScaleX, sy: s.ScaleY}
}

func (f frame) toImage(lx, ly float64) viewport.Point {
	px, py := lx*f.sx, ly*f.sy
	return viewport.Point{X: f.x + px*f.cos - py*f.sin, Y: f.y + px*f.sin + py*f.cos}
}

func (f frame) toLocal(p viewport.Point) (float64, float64) {
	dx, dy := p.X-f.x, p.Y-f.y
	rx := dx*f.cos + dy*f.sin
	ry := -dx*f.sin + dy*f.cos
	if f.sx == 0 || f.sy == 0 {
		return math.Inf(1), math.Inf(1)
	}
	return rx / f.sx, ry / f.sy
}

// corners returns the shape's box in image space, clockwise from top-left.
func corners(s annotation.Shape) [4]viewport.Point {
	f := frameOf(s)
	minX, minY, maxX, maxY := s.LocalBox()
	return [4]viewport.Point{
		f.toImage(minX, minY),
		f.toImage(maxX, minY),
		f.toImage(maxX, maxY),
		f.toImage(minX, maxY),
	}
}

// boxCenter returns the middle of the shape's box in image space.
func boxCenter(s annotation.Shape) viewport.Point {
	minX, minY, maxX, maxY := s.LocalBox()
	return frameOf(s).toImage((minX+maxX)/2, (minY+maxY)/2)
}

// hitTest returns the topmost shape whose box contains p.
func (e *Editor) hitTest(p viewport.Point) string {
	slop := 0.0
	if e.layout.Scale > 0 {
		slop = hitSlop / e.layout.Scale
	}
	for i := len(e.shapes) - 1; i >= 0; i-- {
		s := e.shapes[i]
		lx, ly := frameOf(s).toLocal(p)
		minX, minY, maxX, maxY := s.LocalBox()
		tx, ty := slop/math.Abs(s.ScaleX), slop/math.Abs(s.ScaleY)
		if lx >= minX-tx && lx <= maxX+tx && ly >= minY-ty && ly <= maxY+ty {
			return s.ID
		}
	}
	return ""
}

// ShapeAt returns the id of the topmost shape under the surface position.
func (e *Editor) ShapeAt(raw viewport.Point) (string, bool) {
	p, ok := e.layout.ToImage(raw)
	if !ok {
		return "", false
	}
	id := e.hitTest(p)
	return id, id != ""
}
