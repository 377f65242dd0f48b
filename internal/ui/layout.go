package ui

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/viewport"
)

const (
	toolbarHeight = 36
	statusHeight  = 20
	padding       = 8
	buttonHeight  = 24
	swatchSize    = 20
	sliderLength  = 96
	gap           = 4
)

type controlKind int

const (
	controlTool controlKind = iota
	controlSwatch
	controlSlider
	controlAction
)

// Toolbar actions.
const (
	actionUndo   = "undo"
	actionClear  = "clear"
	actionDelete = "delete"
	actionSave   = "save"
	actionCopy   = "copy"
)

var toolLabels = map[editor.Tool]string{
	editor.ToolSelect: "V:Select",
	editor.ToolPencil: "P:Pencil",
	editor.ToolArrow:  "A:Arrow",
	editor.ToolCircle: "C:Circle",
	editor.ToolEraser: "E:Eraser",
}

var actionLabels = []struct{ action, label string }{
	{actionUndo, "^Z:Undo"},
	{actionClear, "Clear"},
	{actionDelete, "Del"},
	{actionCopy, "^C:Copy"},
	{actionSave, "^S:Save"},
}

// control is one clickable toolbar element.
type control struct {
	kind   controlKind
	rect   image.Rectangle
	label  string
	tool   editor.Tool
	color  annotation.Color
	action string
}

// chrome is the window layout around the editing surface.
type chrome struct {
	size     image.Point
	controls []control
	// area is the region available to the photograph.
	area   image.Rectangle
	status image.Rectangle
}

func labelWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil() + 2*padding
}

// layoutChrome places the toolbar left to right: tools, swatches, the width
// slider, then actions.
func layoutChrome(size image.Point) chrome {
	c := chrome{size: size}
	top := (toolbarHeight - buttonHeight) / 2
	x := padding
	for _, t := range editor.Tools() {
		w := labelWidth(toolLabels[t])
		c.controls = append(c.controls, control{
			kind: controlTool, tool: t, label: toolLabels[t],
			rect: image.Rect(x, top, x+w, top+buttonHeight),
		})
		x += w + gap
	}
	x += padding
	sy := (toolbarHeight - swatchSize) / 2
	for _, p := range annotation.Palette() {
		c.controls = append(c.controls, control{
			kind: controlSwatch, color: p.Color, label: p.Name,
			rect: image.Rect(x, sy, x+swatchSize, sy+swatchSize),
		})
		x += swatchSize + gap
	}
	x += padding
	c.controls = append(c.controls, control{
		kind: controlSlider, label: "width",
		rect: image.Rect(x, top, x+sliderLength, top+buttonHeight),
	})
	x += sliderLength + padding
	for _, a := range actionLabels {
		w := labelWidth(a.label)
		c.controls = append(c.controls, control{
			kind: controlAction, action: a.action, label: a.label,
			rect: image.Rect(x, top, x+w, top+buttonHeight),
		})
		x += w + gap
	}
	// image.Rect would swap inverted corners on tiny windows.
	lo := image.Pt(padding, toolbarHeight+padding)
	hi := image.Pt(max(size.X-padding, lo.X), max(size.Y-statusHeight-padding, lo.Y))
	c.area = image.Rectangle{Min: lo, Max: hi}
	c.status = image.Rect(0, size.Y-statusHeight, size.X, size.Y)
	return c
}

// controlAt returns the index of the control under p.
func (c chrome) controlAt(p image.Point) (int, bool) {
	for i, ctl := range c.controls {
		if p.In(ctl.rect) {
			return i, true
		}
	}
	return -1, false
}

func (c chrome) slider() image.Rectangle {
	for _, ctl := range c.controls {
		if ctl.kind == controlSlider {
			return ctl.rect
		}
	}
	return image.Rectangle{}
}

// container is the space the viewport sizer may fill.
func (c chrome) container() viewport.Size {
	return viewport.Size{W: float64(c.area.Dx()), H: float64(c.area.Dy())}
}

// surface places the editing surface: centred horizontally, top aligned.
func (c chrome) surface(l viewport.Layout) image.Rectangle {
	b := l.Bounds()
	x := c.area.Min.X + (c.area.Dx()-b.Dx())/2
	return b.Add(image.Pt(x, c.area.Min.Y))
}

// sliderWidth maps an x position on the slider track to a stroke width.
func sliderWidth(track image.Rectangle, x int) float64 {
	inner := track.Inset(gap)
	if inner.Dx() <= 0 {
		return annotation.MinWidth
	}
	f := float64(x-inner.Min.X) / float64(inner.Dx())
	w := annotation.MinWidth + f*(annotation.MaxWidth-annotation.MinWidth)
	return annotation.ClampWidth(math.Round(w))
}

// sliderX is the knob position for width w, the inverse of sliderWidth.
func sliderX(track image.Rectangle, w float64) int {
	inner := track.Inset(gap)
	f := (annotation.ClampWidth(w) - annotation.MinWidth) / (annotation.MaxWidth - annotation.MinWidth)
	return inner.Min.X + int(math.Round(f*float64(inner.Dx())))
}

// windowSize is the initial window size for a surface capped at maxHeight.
func windowSize(width int, maxHeight float64) image.Point {
	if maxHeight <= 0 {
		maxHeight = viewport.DefaultMaxHeight
	}
	width = max(width, layoutChrome(image.Point{}).toolbarWidth()+padding)
	return image.Pt(width, toolbarHeight+statusHeight+2*padding+int(math.Ceil(maxHeight)))
}

func (c chrome) toolbarWidth() int {
	w := 0
	for _, ctl := range c.controls {
		if ctl.rect.Max.X > w {
			w = ctl.rect.Max.X
		}
	}
	return w
}

