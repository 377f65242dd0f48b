package editor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/viewport"
)

// Tool is the active editing tool.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolPencil Tool = "pencil"
	ToolArrow  Tool = "arrow"
	ToolCircle Tool = "circle"
	ToolEraser Tool = "eraser"
)

var tools = []Tool{ToolSelect, ToolPencil, ToolArrow, ToolCircle, ToolEraser}

// Tools lists the tools in toolbar order.
func Tools() []Tool { return append([]Tool(nil), tools...) }

// ParseTool resolves a tool name.
func ParseTool(s string) (Tool, error) {
	name := Tool(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range tools {
		if t == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// Stamp reports whether the tool inserts a shape instead of drawing.
func (t Tool) Stamp() bool { return t == ToolArrow || t == ToolCircle }

// Phase is the stage of a pointer gesture.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancel:
		return "cancel"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// PointerEvent is a mouse or touch sample in surface coordinates.
type PointerEvent struct {
	X, Y  float64
	Phase Phase
	// Target names the shape under the pointer when the input backend already
	// knows it. Empty means the editor hit-tests itself.
	Target string
	// HasPosition is false when the backend could not resolve a position.
	HasPosition bool
}

// At builds a positioned event.
func At(phase Phase, x, y float64) PointerEvent {
	return PointerEvent{X: x, Y: y, Phase: phase, HasPosition: true}
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool switches tools. Arrow and circle stamp a shape at the image centre
// and hand control back to select. Any gesture in progress ends.
func (e *Editor) SetTool(t Tool) {
	e.endStroke()
	e.gesture = nil
	switch t {
	case ToolArrow:
		e.InsertArrow()
	case ToolCircle:
		e.InsertCircle()
	case ToolSelect, ToolPencil, ToolEraser:
		e.tool = t
	default:
		e.log.Debug("ignoring unknown tool", zap.String("tool", string(t)))
	}
}

// Color returns the colour used for new strokes and shapes.
func (e *Editor) Color() annotation.Color { return e.color }

// SetColor picks a palette colour. It reports false for other colours.
func (e *Editor) SetColor(c annotation.Color) bool {
	if !c.InPalette() {
		return false
	}
	e.color = c
	return true
}

// Width returns the base stroke width.
func (e *Editor) Width() float64 { return e.width }

// SetWidth sets the base stroke width, clamped to the slider range.
func (e *Editor) SetWidth(w float64) { e.width = annotation.ClampWidth(w) }

// HandlePointer routes a pointer event to the active tool.
func (e *Editor) HandlePointer(ev PointerEvent) {
	if !e.ready() {
		return
	}
	if ev.Phase == PhaseUp || ev.Phase == PhaseCancel {
		if ev.HasPosition && e.gesture != nil && ev.Phase == PhaseUp {
			if p, ok := e.layout.ToImage(viewport.Point{X: ev.X, Y: ev.Y}); ok {
				e.continueGesture(ev, p)
			}
		}
		e.endStroke()
		e.gesture = nil
		return
	}
	if !ev.HasPosition {
		return
	}
	p, ok := e.layout.ToImage(viewport.Point{X: ev.X, Y: ev.Y})
	if !ok {
		return
	}
	switch e.tool {
	case ToolPencil, ToolEraser:
		switch ev.Phase {
		case PhaseDown:
			e.selected = ""
			kind := annotation.KindPencil
			if e.tool == ToolEraser {
				kind = annotation.KindEraser
			}
			e.beginStroke(kind, p)
		case PhaseMove:
			e.extendStroke(p)
		}
	case ToolSelect:
		switch ev.Phase {
		case PhaseDown:
			e.pressSelect(ev, p)
		case PhaseMove:
			if e.gesture != nil {
				e.continueGesture(ev, p)
			}
		}
	}
}

func (e *Editor) pressSelect(ev PointerEvent, p viewport.Point) {
	if kind, ok := e.handleAt(p); ok {
		e.gesture = e.startHandleGesture(kind, p)
		return
	}
	id := ""
	if ev.Target != "" && e.shapeIndex(ev.Target) >= 0 {
		id = ev.Target
	} else {
		id = e.hitTest(p)
	}
	if id == "" {
		e.selected = ""
		return
	}
	e.selected = id
	e.gesture = &gesture{kind: gestureDrag, id: id, lastRaw: viewport.Point{X: ev.X, Y: ev.Y}}
}
