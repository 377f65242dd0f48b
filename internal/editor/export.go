package editor

import (
	"go.uber.org/zap"

	"github.com/example/photomark/internal/annotation"
)

// Export snapshots the strokes and shapes. It reports false when there is
// nothing to export. The document shares no memory with the editor.
func (e *Editor) Export() (annotation.Document, bool) {
	if len(e.lines) == 0 && len(e.shapes) == 0 {
		return annotation.Document{}, false
	}
	doc := annotation.Document{
		Lines:   cloneStrokes(e.lines),
		Shapes:  cloneShapes(e.shapes),
		ImageID: e.imageID,
	}
	if doc.Lines == nil {
		doc.Lines = []annotation.Stroke{}
	}
	if doc.Shapes == nil {
		doc.Shapes = []annotation.Shape{}
	}
	return doc, true
}

// CanSave reports whether Save would hand a document to the callback.
func (e *Editor) CanSave() bool {
	return e.ready() && e.onSave != nil && (len(e.lines) > 0 || len(e.shapes) > 0)
}

// Save exports the document and passes it to the callback registered with
// WithOnSave. It reports false when there was nothing to hand over, and
// returns the callback's error otherwise.
func (e *Editor) Save() (bool, error) {
	if !e.ready() || e.onSave == nil {
		return false, nil
	}
	doc, ok := e.Export()
	if !ok {
		return false, nil
	}
	e.log.Debug("saving annotations", zap.Int("lines", len(doc.Lines)), zap.Int("shapes", len(doc.Shapes)))
	if err := e.onSave(doc); err != nil {
		e.log.Warn("save callback failed", zap.Error(err))
		return true, err
	}
	return true, nil
}
