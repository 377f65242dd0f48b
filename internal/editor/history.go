package editor

import (
	"go.uber.org/zap"

	"github.com/example/photomark/internal/annotation"
)

func (e *Editor) record(kind annotation.HistoryKind, id string) {
	e.history = append(e.history, annotation.HistoryEntry{Kind: kind, ID: id})
}

// History returns the creation history, oldest first.
func (e *Editor) History() []annotation.HistoryEntry {
	return append([]annotation.HistoryEntry(nil), e.history...)
}

// Lines returns a copy of the strokes in drawing order.
func (e *Editor) Lines() []annotation.Stroke { return cloneStrokes(e.lines) }

// Shapes returns a copy of the shapes in stacking order.
func (e *Editor) Shapes() []annotation.Shape { return cloneShapes(e.shapes) }

// Undo removes the most recently created stroke or shape and clears the
// selection. It reports false when there is nothing to undo.
func (e *Editor) Undo() bool {
	if !e.ready() || len(e.history) == 0 {
		return false
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.remove(last.Kind, last.ID)
	e.selected = ""
	e.gesture = nil
	e.log.Debug("undo", zap.String("kind", string(last.Kind)), zap.String("id", last.ID))
	return true
}

// Clear drops every stroke, shape and history entry. There is no way back.
func (e *Editor) Clear() {
	if !e.ready() {
		return
	}
	e.lines = nil
	e.shapes = nil
	e.history = nil
	e.selected = ""
	e.drawing = false
	e.gesture = nil
}

func (e *Editor) remove(kind annotation.HistoryKind, id string) bool {
	switch kind {
	case annotation.HistoryLine:
		for i := range e.lines {
			if e.lines[i].ID == id {
				if i == len(e.lines)-1 {
					e.drawing = false
				}
				e.lines = append(e.lines[:i:i], e.lines[i+1:]...)
				return true
			}
		}
	case annotation.HistoryShape:
		if i := e.shapeIndex(id); i >= 0 {
			e.shapes = append(e.shapes[:i:i], e.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// Selected returns the id of the selected stroke or shape.
func (e *Editor) Selected() (string, bool) { return e.selected, e.selected != "" }

// Select selects an existing stroke or shape.
func (e *Editor) Select(id string) bool {
	if !e.ready() {
		return false
	}
	if _, ok := e.kindOf(id); !ok {
		return false
	}
	e.selected = id
	return true
}

// Deselect clears the selection.
func (e *Editor) Deselect() {
	e.selected = ""
	e.gesture = nil
}

// CanDelete reports whether a shape is selected for deletion. Strokes can
// still be removed with DeleteSelected but do not enable the delete control.
func (e *Editor) CanDelete() bool {
	kind, ok := e.kindOf(e.selected)
	return ok && kind == annotation.HistoryShape && e.ready()
}

// DeleteSelected removes the selected item and its history entry.
func (e *Editor) DeleteSelected() bool {
	if !e.ready() || e.selected == "" {
		return false
	}
	id := e.selected
	kind, ok := e.kindOf(id)
	if !ok {
		e.selected = ""
		return false
	}
	e.remove(kind, id)
	kept := e.history[:0]
	for _, h := range e.history {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	e.history = kept
	e.selected = ""
	e.gesture = nil
	return true
}

func (e *Editor) kindOf(id string) (annotation.HistoryKind, bool) {
	if id == "" {
		return "", false
	}
	if e.shapeIndex(id) >= 0 {
		return annotation.HistoryShape, true
	}
	for i := range e.lines {
		if e.lines[i].ID == id {
			return annotation.HistoryLine, true
		}
	}
	return "", false
}
