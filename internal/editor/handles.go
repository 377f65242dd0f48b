package editor

import (
	"math"

	"github.com/example/photomark/internal/viewport"
)

// HandleKind names a transform handle on the selected shape.
type HandleKind string

const (
	HandleTopLeft     HandleKind = "tl"
	HandleTop         HandleKind = "t"
	HandleTopRight    HandleKind = "tr"
	HandleRight       HandleKind = "r"
	HandleBottomRight HandleKind = "br"
	HandleBottom      HandleKind = "b"
	HandleBottomLeft  HandleKind = "bl"
	HandleLeft        HandleKind = "l"
	HandleRotate      HandleKind = "rotate"
)

// Handle is a grab point for resizing or rotating.
type Handle struct {
	Kind HandleKind
	Pos  viewport.Point
}

const (
	// HandleRadius is the grab radius of a handle in surface pixels.
	HandleRadius = 6
	// RotateOffset is how far the rotate handle sits above the box, in
	// surface pixels.
	RotateOffset = 24
)

// edges tells which sides of the local box a handle moves: -1 for the
// minimum side, 1 for the maximum side, 0 for neither.
var edges = map[HandleKind][2]int{
	HandleTopLeft:     {-1, -1},
	HandleTop:         {0, -1},
	HandleTopRight:    {1, -1},
	HandleRight:       {1, 0},
	HandleBottomRight: {1, 1},
	HandleBottom:      {0, 1},
	HandleBottomLeft:  {-1, 1},
	HandleLeft:        {-1, 0},
}

// Handles returns the transform handles of the selected shape in image
// space, or nil when no shape is selected.
func (e *Editor) Handles() []Handle {
	i := e.shapeIndex(e.selected)
	if i < 0 || !e.ready() {
		return nil
	}
	s := e.shapes[i]
	f := frameOf(s)
	minX, minY, maxX, maxY := s.LocalBox()
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	out := []Handle{
		{HandleTopLeft, f.toImage(minX, minY)},
		{HandleTop, f.toImage(cx, minY)},
		{HandleTopRight, f.toImage(maxX, minY)},
		{HandleRight, f.toImage(maxX, cy)},
		{HandleBottomRight, f.toImage(maxX, maxY)},
		{HandleBottom, f.toImage(cx, maxY)},
		{HandleBottomLeft, f.toImage(minX, maxY)},
		{HandleLeft, f.toImage(minX, cy)},
	}
	top := out[1].Pos
	mid := f.toImage(cx, cy)
	dx, dy := top.X-mid.X, top.Y-mid.Y
	if n := math.Hypot(dx, dy); n > 0 {
		off := RotateOffset / e.scale()
		out = append(out, Handle{HandleRotate, viewport.Point{X: top.X + dx/n*off, Y: top.Y + dy/n*off}})
	}
	return out
}

func (e *Editor) scale() float64 {
	if e.layout.Scale > 0 {
		return e.layout.Scale
	}
	return 1
}

// handleAt returns the handle of the selected shape under p.
func (e *Editor) handleAt(p viewport.Point) (HandleKind, bool) {
	r := HandleRadius / e.scale()
	hs := e.Handles()
	// Rotate is last in the list but sits apart from the others; check it
	// first so it wins over a small box's top handle.
	for i := len(hs) - 1; i >= 0; i-- {
		if math.Hypot(p.X-hs[i].Pos.X, p.Y-hs[i].Pos.Y) <= r {
			return hs[i].Kind, true
		}
	}
	return "", false
}

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
	gestureRotate
)

// gesture is a select-tool drag in progress. Resize and rotate steps are
// computed from the shape as it was on pointer-down.
type gesture struct {
	kind    gestureKind
	id      string
	handle  HandleKind
	lastRaw viewport.Point

	start      shapeSnapshot
	startAngle float64
	pivot      viewport.Point
}

type shapeSnapshot struct {
	x, y, rotation, sx, sy float64
	f                      frame
	minX, minY, maxX, maxY float64
}

func (e *Editor) startHandleGesture(kind HandleKind, p viewport.Point) *gesture {
	s := e.shapes[e.shapeIndex(e.selected)]
	minX, minY, maxX, maxY := s.LocalBox()
	g := &gesture{
		id:     s.ID,
		handle: kind,
		start: shapeSnapshot{
			x: s.X, y: s.Y, rotation: s.Rotation, sx: s.ScaleX, sy: s.ScaleY,
			f:    frameOf(s),
			minX: minX, minY: minY, maxX: maxX, maxY: maxY,
		},
	}
	if kind == HandleRotate {
		g.kind = gestureRotate
		g.pivot = boxCenter(s)
		g.startAngle = math.Atan2(p.Y-g.pivot.Y, p.X-g.pivot.X)
	} else {
		g.kind = gestureResize
	}
	return g
}

func (e *Editor) continueGesture(ev PointerEvent, p viewport.Point) {
	g := e.gesture
	switch g.kind {
	case gestureDrag:
		raw := viewport.Point{X: ev.X, Y: ev.Y}
		e.Drag(g.id, raw.X-g.lastRaw.X, raw.Y-g.lastRaw.Y)
		g.lastRaw = raw
	case gestureResize:
		e.resizeTo(g, p)
	case gestureRotate:
		e.rotateTo(g, p)
	}
}

// resizeTo scales the shape so the dragged sides follow p while the opposite
// sides stay where they were.
func (e *Editor) resizeTo(g *gesture, p viewport.Point) {
	st := g.start
	lx, ly := st.f.toLocal(p)
	dir := edges[g.handle]
	fx, fy := 1.0, 1.0
	// Fixed point in local coordinates.
	ax, ay := (st.minX+st.maxX)/2, (st.minY+st.maxY)/2
	switch dir[0] {
	case 1:
		fx = (lx - st.minX) / (st.maxX - st.minX)
		ax = st.minX
	case -1:
		fx = (st.maxX - lx) / (st.maxX - st.minX)
		ax = st.maxX
	}
	switch dir[1] {
	case 1:
		fy = (ly - st.minY) / (st.maxY - st.minY)
		ay = st.minY
	case -1:
		fy = (st.maxY - ly) / (st.maxY - st.minY)
		ay = st.maxY
	}
	if fx <= 0 || fy <= 0 || math.IsNaN(fx) || math.IsNaN(fy) {
		return
	}
	sx, sy := st.sx*fx, st.sy*fy
	// Keep the fixed point where it is in image space.
	before := st.f.toImage(ax, ay)
	moved := st.f
	moved.sx, moved.sy = sx, sy
	after := moved.toImage(ax, ay)
	e.Transform(g.id, Attrs{
		X:      Float(st.x + before.X - after.X),
		Y:      Float(st.y + before.Y - after.Y),
		ScaleX: Float(sx),
		ScaleY: Float(sy),
	})
}

// rotateTo turns the shape about its box centre by the angle the pointer has
// swept since the gesture began.
func (e *Editor) rotateTo(g *gesture, p viewport.Point) {
	st := g.start
	angle := math.Atan2(p.Y-g.pivot.Y, p.X-g.pivot.X)
	delta := angle - g.startAngle
	sin, cos := math.Sin(delta), math.Cos(delta)
	dx, dy := st.x-g.pivot.X, st.y-g.pivot.Y
	e.Transform(g.id, Attrs{
		X:        Float(g.pivot.X + dx*cos - dy*sin),
		Y:        Float(g.pivot.Y + dx*sin + dy*cos),
		Rotation: Float(normalizeDegrees(st.rotation + delta*180/math.Pi)),
	})
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
