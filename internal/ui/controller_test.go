package ui

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/theme"
)

func newTestController(t *testing.T, opts ...editor.Option) *controller {
	t.Helper()
	ed := editor.New("photo.png", "img-1", opts...)
	c := newController(ed, theme.Default(), zap.NewNop())
	c.resize(image.Pt(1000, 700))
	require.True(t, ed.CompleteLoad(ed.BeginLoad(), image.NewRGBA(image.Rect(0, 0, 800, 600)), nil))
	return c
}

func (c *controller) controlCentre(match func(control) bool) image.Point {
	for _, ctl := range c.chrome.controls {
		if match(ctl) {
			r := ctl.rect
			return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
		}
	}
	panic("no such control")
}

func click(c *controller, p image.Point) {
	c.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	c.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func press(c *controller, r rune, code key.Code, mods key.Modifiers) (bool, bool) {
	return c.handleKey(key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress})
}

func TestToolbarSelectsToolAndColor(t *testing.T) {
	c := newTestController(t)
	click(c, c.controlCentre(func(ctl control) bool { return ctl.tool == editor.ToolPencil && ctl.kind == controlTool }))
	assert.Equal(t, editor.ToolPencil, c.ed.Tool())

	click(c, c.controlCentre(func(ctl control) bool { return ctl.color == annotation.ColorYellow }))
	assert.Equal(t, annotation.ColorYellow, c.ed.Color())

	click(c, c.controlCentre(func(ctl control) bool { return ctl.kind == controlTool && ctl.tool == editor.ToolCircle }))
	assert.Len(t, c.ed.Shapes(), 1, "circle stamped")
	assert.Equal(t, editor.ToolSelect, c.ed.Tool())
}

func TestCanvasDrawingMapsToSurface(t *testing.T) {
	c := newTestController(t)
	c.ed.SetTool(editor.ToolPencil)
	s := c.chrome.surface(c.ed.Layout())

	at := func(dir mouse.Direction, x, y int) mouse.Event {
		return mouse.Event{X: float32(s.Min.X + x), Y: float32(s.Min.Y + y), Button: mouse.ButtonLeft, Direction: dir}
	}
	assert.True(t, c.handleMouse(at(mouse.DirPress, 100, 100)))
	c.handleMouse(at(mouse.DirNone, 150, 120))
	c.handleMouse(at(mouse.DirRelease, 160, 130))

	lines := c.ed.Lines()
	require.Len(t, lines, 1)
	scale := c.ed.Layout().Scale
	assert.Equal(t, []float64{100 / scale, 100 / scale, 150 / scale, 120 / scale, 160 / scale, 130 / scale}, lines[0].Points)
	assert.False(t, c.ed.Drawing())
}

func TestLeavingSurfaceEndsStroke(t *testing.T) {
	c := newTestController(t)
	c.ed.SetTool(editor.ToolPencil)
	s := c.chrome.surface(c.ed.Layout())

	at := func(dir mouse.Direction, x, y int) mouse.Event {
		return mouse.Event{X: float32(s.Min.X + x), Y: float32(s.Min.Y + y), Button: mouse.ButtonLeft, Direction: dir}
	}
	c.handleMouse(at(mouse.DirPress, 10, 10))
	c.handleMouse(at(mouse.DirNone, 30, 10))
	assert.True(t, c.handleMouse(at(mouse.DirNone, -20, 10)))
	assert.False(t, c.ed.Drawing())
	assert.False(t, c.canvasDown)

	// Coming back while still held does not resume the stroke.
	c.handleMouse(at(mouse.DirNone, 50, 10))
	c.handleMouse(at(mouse.DirRelease, 50, 10))

	lines := c.ed.Lines()
	require.Len(t, lines, 1)
	scale := c.ed.Layout().Scale
	assert.Equal(t, []float64{10 / scale, 10 / scale, 30 / scale, 10 / scale}, lines[0].Points)
	for _, v := range lines[0].Points {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestPressOutsideSurfaceIsIgnored(t *testing.T) {
	c := newTestController(t)
	c.ed.SetTool(editor.ToolPencil)
	s := c.chrome.surface(c.ed.Layout())
	assert.False(t, c.handleMouse(mouse.Event{X: float32(s.Max.X + 5), Y: float32(s.Min.Y + 5), Button: mouse.ButtonLeft, Direction: mouse.DirPress}))
	assert.Empty(t, c.ed.Lines())
}

func TestFocusLossCancelsStroke(t *testing.T) {
	c := newTestController(t)
	c.ed.SetTool(editor.ToolPencil)
	s := c.chrome.surface(c.ed.Layout())
	c.handleMouse(mouse.Event{X: float32(s.Min.X + 10), Y: float32(s.Min.Y + 10), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	require.True(t, c.ed.Drawing())
	assert.True(t, c.cancelPointer())
	assert.False(t, c.ed.Drawing())
	assert.False(t, c.cancelPointer())
}

func TestSliderSetsWidth(t *testing.T) {
	c := newTestController(t)
	track := c.chrome.slider()
	x := sliderX(track, 9)
	c.handleMouse(mouse.Event{X: float32(x), Y: float32(track.Min.Y + 4), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	assert.Equal(t, 9.0, c.ed.Width())
	c.handleMouse(mouse.Event{X: float32(track.Max.X + 50), Y: 0, Direction: mouse.DirNone})
	assert.Equal(t, float64(annotation.MaxWidth), c.ed.Width(), "dragging past the end clamps")
	c.handleMouse(mouse.Event{X: float32(track.Max.X + 50), Y: 0, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	assert.False(t, c.sliding)
}

func TestKeyboardShortcuts(t *testing.T) {
	c := newTestController(t)

	_, quit := press(c, 'e', key.CodeE, 0)
	assert.False(t, quit)
	assert.Equal(t, editor.ToolEraser, c.ed.Tool())

	press(c, 'P', key.CodeP, key.ModShift)
	assert.Equal(t, editor.ToolPencil, c.ed.Tool())

	press(c, '3', key.Code3, 0)
	assert.Equal(t, annotation.ColorWhite, c.ed.Color())

	w := c.ed.Width()
	press(c, ']', key.CodeRightSquareBracket, 0)
	assert.Equal(t, w+1, c.ed.Width())

	press(c, 'a', key.CodeA, 0)
	require.Len(t, c.ed.Shapes(), 1)
	repaint, _ := press(c, -1, key.CodeZ, key.ModControl)
	assert.True(t, repaint)
	assert.Empty(t, c.ed.Shapes())
	repaint, _ = press(c, -1, key.CodeZ, key.ModControl)
	assert.False(t, repaint, "nothing left to undo")

	_, quit = press(c, 'q', key.CodeQ, 0)
	assert.True(t, quit)

	repaint, quit = c.handleKey(key.Event{Rune: 'p', Code: key.CodeP, Direction: key.DirRelease})
	assert.False(t, repaint)
	assert.False(t, quit)
}

func TestDeleteSelectedShape(t *testing.T) {
	c := newTestController(t)
	id, ok := c.ed.InsertArrow()
	require.True(t, ok)
	sel, _ := c.ed.Selected()
	assert.Equal(t, id, sel)
	assert.True(t, c.enabled(actionDelete))
	press(c, -1, key.CodeDeleteForward, 0)
	assert.Empty(t, c.ed.Shapes())
	assert.False(t, c.enabled(actionDelete))
}

func TestDeleteDisabledForStroke(t *testing.T) {
	c := newTestController(t)
	c.ed.SetTool(editor.ToolPencil)
	s := c.chrome.surface(c.ed.Layout())
	click(c, s.Min.Add(image.Pt(20, 20)))
	require.Len(t, c.ed.Lines(), 1)

	require.True(t, c.ed.Select(c.ed.Lines()[0].ID))
	assert.False(t, c.enabled(actionDelete))
	c.trigger(actionDelete)
	assert.Len(t, c.ed.Lines(), 1)
}

func TestClearNeedsConfirmation(t *testing.T) {
	c := newTestController(t)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	c.ed.InsertCircle()

	assert.True(t, c.trigger(actionClear))
	assert.Len(t, c.ed.Shapes(), 1, "first press only asks")
	assert.True(t, c.messageVisible())

	c.trigger("width+")
	c.trigger(actionClear)
	assert.Len(t, c.ed.Shapes(), 1, "another action resets the confirmation")

	c.trigger(actionClear)
	assert.Empty(t, c.ed.Shapes())
	assert.False(t, c.trigger(actionClear), "nothing left to clear")

	clock = clock.Add(messageDuration + time.Millisecond)
	assert.False(t, c.messageVisible())
}

func TestSaveAction(t *testing.T) {
	var saved []annotation.Document
	var fail error
	c := newTestController(t, editor.WithOnSave(func(d annotation.Document) error {
		saved = append(saved, d)
		return fail
	}))
	assert.False(t, c.enabled(actionSave))
	c.trigger(actionSave)
	assert.Empty(t, saved)
	assert.Equal(t, "nothing to save", c.message)

	c.ed.InsertArrow()
	assert.True(t, c.enabled(actionSave))
	press(c, -1, key.CodeS, key.ModControl)
	require.Len(t, saved, 1)
	assert.Equal(t, "img-1", saved[0].ImageID)
	assert.Equal(t, "saved", c.message)

	fail = errors.New("read-only file system")
	c.trigger(actionSave)
	assert.Len(t, saved, 2)
	assert.Equal(t, "save failed", c.message)
}

func TestCopyFlattensAtNaturalSize(t *testing.T) {
	c := newTestController(t)
	var got image.Image
	c.copyImage = func(img image.Image) error { got = img; return nil }
	c.ed.InsertCircle()

	c.trigger(actionCopy)
	require.NotNil(t, got)
	assert.Equal(t, image.Rect(0, 0, 800, 600), got.Bounds())
	assert.Equal(t, "copied", c.message)

	c.copyImage = func(image.Image) error { return errors.New("no display") }
	c.trigger(actionCopy)
	assert.Equal(t, "copy failed", c.message)
}

func TestDrawFrame(t *testing.T) {
	c := newTestController(t)
	c.ed.SetTool(editor.ToolPencil)
	dst := image.NewRGBA(image.Rectangle{Max: c.chrome.size})
	c.draw(dst)

	th := c.theme
	tool := c.controlCentre(func(ctl control) bool { return ctl.kind == controlTool && ctl.tool == editor.ToolPencil })
	assert.Equal(t, th.ButtonActive, dst.RGBAAt(tool.X, tool.Y-10), "active tool highlighted")
	undo := c.controlCentre(func(ctl control) bool { return ctl.action == actionUndo })
	assert.Equal(t, th.ButtonDisabled, dst.RGBAAt(undo.X, undo.Y-10), "undo disabled with empty history")

	s := c.chrome.surface(c.ed.Layout())
	assert.Equal(t, uint8(255), dst.RGBAAt(s.Min.X+5, s.Min.Y+5).A)
	assert.Equal(t, th.Background, dst.RGBAAt(s.Max.X+2, s.Min.Y+5), "background beside the surface")
}

func TestDrawFailedPlaceholder(t *testing.T) {
	ed := editor.New("missing.png", "img-1")
	c := newController(ed, theme.Default(), zap.NewNop())
	c.resize(image.Pt(800, 500))
	ed.CompleteLoad(ed.BeginLoad(), nil, errors.New("boom"))

	dst := image.NewRGBA(image.Rectangle{Max: c.chrome.size})
	c.draw(dst)
	a := c.chrome.area
	assert.Equal(t, c.theme.Placeholder, dst.RGBAAt(a.Min.X+1, a.Min.Y+1))

	found := false
	for y := a.Min.Y; y < a.Min.Y+placeholderHeight && !found; y++ {
		for x := a.Min.X; x < a.Max.X; x++ {
			if dst.RGBAAt(x, y) == c.theme.ErrorText {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "error text drawn")

	assert.True(t, c.trigger("tool:arrow"))
	assert.Equal(t, "wait for the image to load", c.message)
	assert.Empty(t, ed.Shapes())
}
