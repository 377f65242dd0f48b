// Package editor holds the state of one annotation session: the active tool,
// the strokes and shapes drawn over a photograph, creation history and the
// current selection. It has no UI; callers feed it PointerEvents and draw it
// through a Renderer.
package editor

import (
	"context"
	"fmt"
	"image"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/viewport"
)

// LoadState tracks the image behind the editor.
type LoadState int

const (
	StateLoading LoadState = iota
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

// Editor is owned by a single event loop and is not safe for concurrent use.
type Editor struct {
	source  string
	imageID string
	log     *zap.Logger
	onSave  func(annotation.Document) error

	maxHeight float64
	container viewport.Size
	natural   viewport.Size
	layout    viewport.Layout

	img     image.Image
	state   LoadState
	loadErr error
	ticket  LoadTicket
	closed  bool

	tool  Tool
	color annotation.Color
	width float64

	lines    []annotation.Stroke
	shapes   []annotation.Shape
	history  []annotation.HistoryEntry
	selected string

	drawing bool
	gesture *gesture
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithOnSave registers the callback that receives saved documents. Its error
// is returned from Save.
func WithOnSave(fn func(annotation.Document) error) Option {
	return func(e *Editor) { e.onSave = fn }
}

// WithDocument preloads strokes and shapes from a previous export. Preloaded
// items are not part of the creation history.
func WithDocument(doc annotation.Document) Option {
	return func(e *Editor) {
		e.lines = cloneStrokes(doc.Lines)
		e.shapes = cloneShapes(doc.Shapes)
	}
}

// WithColor sets the initial colour. Colours outside the palette are ignored.
func WithColor(c annotation.Color) Option {
	return func(e *Editor) {
		if c.InPalette() {
			e.color = c
		}
	}
}

// WithWidth sets the initial base stroke width.
func WithWidth(w float64) Option { return func(e *Editor) { e.width = annotation.ClampWidth(w) } }

// WithMaxHeight overrides the surface height cap.
func WithMaxHeight(h float64) Option { return func(e *Editor) { e.maxHeight = h } }

// WithContainer sets the initial container size.
func WithContainer(s viewport.Size) Option { return func(e *Editor) { e.container = s } }

// New creates an editor for the image referenced by source. imageID is
// copied into every exported document.
func New(source, imageID string, opts ...Option) *Editor {
	e := &Editor{
		source:    source,
		imageID:   imageID,
		log:       zap.NewNop(),
		maxHeight: viewport.DefaultMaxHeight,
		tool:      ToolSelect,
		color:     annotation.DefaultColor(),
		width:     annotation.DefaultWidth,
		state:     StateLoading,
	}
	for _, o := range opts {
		o(e)
	}
	e.log = e.log.With(zap.String("image_id", imageID))
	return e
}

// Source returns the image reference the editor was created with.
func (e *Editor) Source() string { return e.source }

// ImageID returns the identifier copied into exported documents.
func (e *Editor) ImageID() string { return e.imageID }

// State reports whether the image is loading, ready or failed.
func (e *Editor) State() LoadState { return e.state }

// LoadError returns the reason the last load failed.
func (e *Editor) LoadError() error { return e.loadErr }

// Image returns the loaded photograph or nil.
func (e *Editor) Image() image.Image { return e.img }

// Layout returns the current surface layout. It is zero until both the image
// and the container size are known.
func (e *Editor) Layout() viewport.Layout { return e.layout }

// MaxHeight returns the surface height cap.
func (e *Editor) MaxHeight() float64 { return e.maxHeight }

// Natural returns the natural size of the loaded image.
func (e *Editor) Natural() viewport.Size { return e.natural }

func (e *Editor) ready() bool { return e.state == StateReady && !e.closed }

// Resize records a new container size and recomputes the layout.
func (e *Editor) Resize(container viewport.Size) {
	e.container = container
	e.relayout()
}

func (e *Editor) relayout() {
	e.layout = viewport.Fit(e.natural, e.container, e.maxHeight)
}

// LoadTicket identifies one load attempt.
type LoadTicket uint64

// BeginLoad starts a new load attempt and supersedes any earlier one.
func (e *Editor) BeginLoad() LoadTicket {
	e.ticket++
	e.state = StateLoading
	e.loadErr = nil
	return e.ticket
}

// CompleteLoad applies the result of a load attempt. Results for superseded
// tickets or arriving after Close are dropped and false is returned.
func (e *Editor) CompleteLoad(t LoadTicket, img image.Image, err error) bool {
	if e.closed || t != e.ticket {
		e.log.Debug("dropping stale image load", zap.Uint64("ticket", uint64(t)), zap.Bool("closed", e.closed))
		return false
	}
	if err == nil && (img == nil || img.Bounds().Empty()) {
		err = fmt.Errorf("image %q is empty", e.source)
	}
	if err != nil {
		e.state = StateFailed
		e.loadErr = err
		e.img = nil
		e.natural = viewport.Size{}
		e.relayout()
		e.log.Warn("image load failed", zap.String("source", e.source), zap.Error(err))
		return true
	}
	e.img = img
	e.natural = viewport.SizeOf(img.Bounds())
	e.state = StateReady
	e.relayout()
	e.log.Debug("image ready", zap.Stringer("size", e.natural))
	return true
}

// Close detaches the editor. Later load results are ignored and every
// operation becomes a no-op.
func (e *Editor) Close() {
	e.closed = true
	e.drawing = false
	e.gesture = nil
}

// Closed reports whether Close has been called.
func (e *Editor) Closed() bool { return e.closed }

// Resolver fetches and decodes the image behind a source reference.
type Resolver interface {
	Resolve(ctx context.Context, source string) (image.Image, error)
}

// Load resolves the source and applies the result before returning.
func (e *Editor) Load(ctx context.Context, r Resolver) error {
	t := e.BeginLoad()
	img, err := r.Resolve(ctx, e.source)
	if !e.CompleteLoad(t, img, err) {
		return err
	}
	return e.loadErr
}

// LoadAsync resolves the source on a new goroutine. The result is handed to
// deliver as a func that must run on the goroutine owning the editor.
func (e *Editor) LoadAsync(ctx context.Context, r Resolver, deliver func(apply func())) {
	t := e.BeginLoad()
	source := e.source
	go func() {
		img, err := r.Resolve(ctx, source)
		deliver(func() { e.CompleteLoad(t, img, err) })
	}()
}

func cloneStrokes(in []annotation.Stroke) []annotation.Stroke { return deepCopy(in) }

func cloneShapes(in []annotation.Shape) []annotation.Shape { return deepCopy(in) }

// deepCopy copies annotations so callers never alias the point slices the
// editor keeps mutating.
func deepCopy[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, 0, len(in))
	if err := copier.CopyWithOption(&out, in, copier.Option{DeepCopy: true}); err != nil {
		// Only reachable with mismatched types.
		panic(fmt.Sprintf("copy annotations: %v", err))
	}
	return out
}
