package editor

import (
	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/viewport"
)

// beginStroke starts a stroke at p with the current colour and width and
// records it. It returns the new id.
func (e *Editor) beginStroke(kind annotation.StrokeKind, p viewport.Point) string {
	width := e.width
	if kind == annotation.KindEraser {
		width = annotation.EraserWidth(width)
	}
	s := annotation.Stroke{
		ID:          annotation.NewID(),
		Kind:        kind,
		Points:      []float64{p.X, p.Y},
		Color:       e.color,
		StrokeWidth: width,
		Blend:       annotation.BlendFor(kind),
	}
	e.lines = append(e.lines, s)
	e.record(annotation.HistoryLine, s.ID)
	e.drawing = true
	return s.ID
}

// extendStroke appends p to the newest stroke while drawing. The stroke is
// replaced in place so the collection never grows a duplicate.
func (e *Editor) extendStroke(p viewport.Point) {
	if !e.drawing || len(e.lines) == 0 {
		return
	}
	last := len(e.lines) - 1
	s := e.lines[last]
	s.Points = append(s.Points, p.X, p.Y)
	e.lines[last] = s
}

func (e *Editor) endStroke() { e.drawing = false }

// Drawing reports whether a stroke gesture is in progress.
func (e *Editor) Drawing() bool { return e.drawing }
