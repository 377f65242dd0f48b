package ui

import (
	"image"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/notify"
	"github.com/example/photomark/internal/render"
	"github.com/example/photomark/internal/theme"
)

// messageDuration is how long a flash message stays up.
const messageDuration = 2 * time.Second

// KeyShortcut describes a keyboard combination that triggers an action.
// Letter shortcuts match on Rune; the rest match on Code.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

const actionQuit = "quit"

func defaultShortcuts() map[KeyShortcut]string {
	m := map[KeyShortcut]string{
		{Rune: 'v'}: "tool:" + string(editor.ToolSelect),
		{Rune: 'p'}: "tool:" + string(editor.ToolPencil),
		{Rune: 'a'}: "tool:" + string(editor.ToolArrow),
		{Rune: 'c'}: "tool:" + string(editor.ToolCircle),
		{Rune: 'e'}: "tool:" + string(editor.ToolEraser),
		{Rune: '['}: "width-",
		{Rune: ']'}: "width+",
		{Rune: 'q'}: actionQuit,

		{Code: key.CodeZ, Modifiers: key.ModControl}: actionUndo,
		{Code: key.CodeS, Modifiers: key.ModControl}: actionSave,
		{Code: key.CodeC, Modifiers: key.ModControl}: actionCopy,
		{Code: key.CodeDeleteForward}:                actionDelete,
		{Code: key.CodeDeleteBackspace}:              actionDelete,
		{Code: key.CodeEscape}:                       "deselect",

		{Code: key.CodeDeleteBackspace, Modifiers: key.ModControl}: actionClear,
	}
	for i, p := range annotation.Palette() {
		m[KeyShortcut{Rune: rune('1' + i)}] = "color:" + p.Name
	}
	return m
}

// controller owns the UI state around one editor. It runs on the window's
// event goroutine only.
type controller struct {
	ed       *editor.Editor
	theme    *theme.Theme
	log      *zap.Logger
	notifier *notify.Notifier
	chrome   chrome
	keys     map[KeyShortcut]string

	hover      int
	pressed    int
	canvasDown bool
	sliding    bool

	message      string
	messageUntil time.Time
	confirmClear bool

	now          func() time.Time
	copyImage    func(image.Image) error
	repaintAfter func(time.Duration)

	// Caches reused across frames.
	scaled    *image.RGBA
	scaledSrc image.Image
	layer     *render.Canvas
}

func newController(ed *editor.Editor, th *theme.Theme, log *zap.Logger) *controller {
	return &controller{
		ed:           ed,
		theme:        th,
		log:          log,
		keys:         defaultShortcuts(),
		hover:        -1,
		pressed:      -1,
		now:          time.Now,
		copyImage:    func(image.Image) error { return nil },
		repaintAfter: func(time.Duration) {},
	}
}

// resize lays the window out again and hands the new container to the
// editor.
func (c *controller) resize(size image.Point) {
	c.chrome = layoutChrome(size)
	c.ed.Resize(c.chrome.container())
}

func (c *controller) flash(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageDuration)
	c.log.Debug("message", zap.String("text", msg))
	c.repaintAfter(messageDuration)
}

func (c *controller) messageVisible() bool {
	return c.message != "" && c.now().Before(c.messageUntil)
}

// pointer forwards a window position to the editor in surface coordinates.
func (c *controller) pointer(phase editor.Phase, x, y float32) {
	o := c.chrome.surface(c.ed.Layout()).Min
	c.ed.HandlePointer(editor.At(phase, float64(x)-float64(o.X), float64(y)-float64(o.Y)))
}

// cancelPointer abandons an in-progress gesture, e.g. on focus loss.
func (c *controller) cancelPointer() bool {
	if !c.canvasDown && !c.sliding {
		return false
	}
	if c.canvasDown {
		c.ed.HandlePointer(editor.PointerEvent{Phase: editor.PhaseCancel})
	}
	c.canvasDown = false
	c.sliding = false
	return true
}

// handleMouse reports whether the frame needs repainting.
func (c *controller) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	if c.canvasDown {
		switch e.Direction {
		case mouse.DirNone:
			if !p.In(c.chrome.surface(c.ed.Layout())) {
				// Leaving the surface ends the gesture where it last was.
				c.canvasDown = false
				c.ed.HandlePointer(editor.PointerEvent{Phase: editor.PhaseCancel})
				return true
			}
			c.pointer(editor.PhaseMove, e.X, e.Y)
		case mouse.DirRelease:
			c.canvasDown = false
			c.pointer(editor.PhaseUp, e.X, e.Y)
		default:
			return false
		}
		return true
	}
	if c.sliding {
		c.ed.SetWidth(sliderWidth(c.chrome.slider(), p.X))
		if e.Direction == mouse.DirRelease {
			c.sliding = false
			c.pressed = -1
		}
		return true
	}

	idx, onControl := c.chrome.controlAt(p)
	switch e.Direction {
	case mouse.DirNone:
		if idx != c.hover {
			c.hover = idx
			return true
		}
		return false
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if c.messageVisible() {
			c.messageUntil = time.Time{}
		}
		if onControl {
			c.pressed = idx
			c.activate(idx, p)
			return true
		}
		c.confirmClear = false
		if p.In(c.chrome.surface(c.ed.Layout())) {
			c.canvasDown = true
			c.pointer(editor.PhaseDown, e.X, e.Y)
			return true
		}
		return false
	case mouse.DirRelease:
		c.pressed = -1
		return true
	}
	return false
}

func (c *controller) activate(idx int, p image.Point) {
	ctl := c.chrome.controls[idx]
	switch ctl.kind {
	case controlTool:
		c.trigger("tool:" + string(ctl.tool))
	case controlSwatch:
		c.trigger("color:" + ctl.label)
	case controlSlider:
		c.confirmClear = false
		c.sliding = true
		c.ed.SetWidth(sliderWidth(ctl.rect, p.X))
	case controlAction:
		c.trigger(ctl.action)
	}
}

// handleKey reports whether to repaint and whether to quit.
func (c *controller) handleKey(e key.Event) (repaint, quit bool) {
	if e.Direction != key.DirPress {
		return false, false
	}
	mods := e.Modifiers &^ key.ModShift
	action, ok := c.keys[KeyShortcut{Code: e.Code, Modifiers: mods}]
	if !ok && e.Rune > 0 {
		action, ok = c.keys[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]
	}
	if !ok {
		return false, false
	}
	if action == actionQuit {
		return false, true
	}
	return c.trigger(action), false
}

// trigger runs a named action and reports whether anything changed.
func (c *controller) trigger(action string) bool {
	if action != actionClear {
		c.confirmClear = false
	}
	if name, ok := strings.CutPrefix(action, "tool:"); ok {
		t, err := editor.ParseTool(name)
		if err != nil {
			return false
		}
		if t.Stamp() && c.ed.State() != editor.StateReady {
			c.flash("wait for the image to load")
			return true
		}
		c.ed.SetTool(t)
		return true
	}
	if name, ok := strings.CutPrefix(action, "color:"); ok {
		col, err := annotation.ParseColor(name)
		if err != nil {
			return false
		}
		return c.ed.SetColor(col)
	}
	switch action {
	case "width-":
		c.ed.SetWidth(c.ed.Width() - 1)
	case "width+":
		c.ed.SetWidth(c.ed.Width() + 1)
	case "deselect":
		c.ed.Deselect()
	case actionUndo:
		if !c.ed.Undo() {
			return false
		}
	case actionDelete:
		if !c.ed.CanDelete() || !c.ed.DeleteSelected() {
			return false
		}
	case actionClear:
		if !c.hasMarks() {
			return false
		}
		if !c.confirmClear {
			c.confirmClear = true
			c.flash("press Clear again to remove every mark")
			return true
		}
		c.confirmClear = false
		c.ed.Clear()
		c.flash("cleared")
	case actionSave:
		ok, err := c.ed.Save()
		switch {
		case !ok:
			c.flash("nothing to save")
		case err != nil:
			c.flash("save failed")
		default:
			c.flash("saved")
		}
	case actionCopy:
		c.copyFlattened()
	default:
		c.log.Debug("unknown action", zap.String("action", action))
		return false
	}
	return true
}

func (c *controller) hasMarks() bool {
	return len(c.ed.Lines()) > 0 || len(c.ed.Shapes()) > 0
}

// enabled reports whether an action button can do anything right now.
func (c *controller) enabled(action string) bool {
	switch action {
	case actionUndo:
		return len(c.ed.History()) > 0
	case actionClear:
		return c.hasMarks()
	case actionDelete:
		return c.ed.CanDelete()
	case actionSave:
		return c.ed.CanSave()
	case actionCopy:
		return c.ed.State() == editor.StateReady
	}
	return true
}

// copyFlattened puts the photograph with its marks, at natural size, on the
// clipboard.
func (c *controller) copyFlattened() {
	img := c.ed.Image()
	if img == nil || c.ed.State() != editor.StateReady {
		c.flash("no image to copy")
		return
	}
	doc := annotation.Document{Lines: c.ed.Lines(), Shapes: c.ed.Shapes(), ImageID: c.ed.ImageID()}
	if err := c.copyImage(render.Document(img, doc, render.FlattenOptions{})); err != nil {
		c.log.Warn("copy image", zap.Error(err))
		c.flash("copy failed")
		return
	}
	c.notifier.Copy("annotated image")
	c.flash("copied")
}
