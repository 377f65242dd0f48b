package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/render"
)

// placeholderHeight is the height of the loading/failure panel.
const placeholderHeight = 240

// ButtonState describes the visual state of a toolbar control.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
)

var (
	messageOnce sync.Once
	messageFace font.Face
)

// messageFont returns the face used for flash messages, falling back to the
// bitmap face if the embedded TrueType font cannot be loaded.
func messageFont() font.Face {
	messageOnce.Do(func() {
		messageFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 22, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		messageFace = face
	})
	return messageFace
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawRect(dst *image.RGBA, r image.Rectangle, c color.Color, thick int) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawLabel(dst *image.RGBA, r image.Rectangle, label string, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	w := d.MeasureString(label).Ceil()
	d.Dot = fixed.P(r.Min.X+(r.Dx()-w)/2, r.Min.Y+(r.Dy()+10)/2)
	d.DrawString(label)
}

// draw renders a complete frame into dst.
func (c *controller) draw(dst *image.RGBA) {
	fill(dst, dst.Bounds(), c.theme.Background)
	c.drawSurface(dst)
	c.drawToolbar(dst)
	c.drawStatus(dst)
	if c.messageVisible() {
		c.drawMessage(dst)
	}
}

func (c *controller) controlState(i int, active, enabled bool) ButtonState {
	switch {
	case !enabled:
		return StateDisabled
	case active || i == c.pressed:
		return StatePressed
	case i == c.hover:
		return StateHover
	}
	return StateDefault
}

func (c *controller) drawToolbar(dst *image.RGBA) {
	th := c.theme
	fill(dst, image.Rect(0, 0, c.chrome.size.X, toolbarHeight), th.ToolbarBackground)
	for i, ctl := range c.chrome.controls {
		switch ctl.kind {
		case controlTool:
			c.drawButton(dst, ctl, c.controlState(i, c.ed.Tool() == ctl.tool, true))
		case controlAction:
			c.drawButton(dst, ctl, c.controlState(i, false, c.enabled(ctl.action)))
		case controlSwatch:
			fill(dst, ctl.rect, ctl.color.ToRGBA())
			switch {
			case c.ed.Color() == ctl.color:
				drawRect(dst, ctl.rect.Inset(-2), th.ButtonText, 2)
			case i == c.hover:
				drawRect(dst, ctl.rect.Inset(-1), th.ButtonBorder, 1)
			default:
				drawRect(dst, ctl.rect, th.ButtonBorder, 1)
			}
		case controlSlider:
			track := ctl.rect.Inset(gap)
			mid := track.Min.Y + track.Dy()/2
			fill(dst, image.Rect(track.Min.X, mid-2, track.Max.X, mid+2), th.SliderTrack)
			x := sliderX(ctl.rect, c.ed.Width())
			fill(dst, image.Rect(x-3, track.Min.Y, x+3, track.Max.Y), th.SliderKnob)
		}
	}
}

func (c *controller) drawButton(dst *image.RGBA, ctl control, state ButtonState) {
	th := c.theme
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonActive
	case StateDisabled:
		bg, fg = th.ButtonDisabled, th.ButtonTextDisabled
	}
	fill(dst, ctl.rect, bg)
	drawRect(dst, ctl.rect, th.ButtonBorder, 1)
	drawLabel(dst, ctl.rect, ctl.label, fg)
}

// drawSurface draws the photograph with its marks, or a placeholder panel
// while there is nothing to show.
func (c *controller) drawSurface(dst *image.RGBA) {
	th := c.theme
	l := c.ed.Layout()
	if c.ed.State() != editor.StateReady || l.Zero() {
		area := c.chrome.area
		r := image.Rect(area.Min.X, area.Min.Y, area.Max.X, area.Min.Y+min(area.Dy(), placeholderHeight))
		if r.Empty() {
			return
		}
		msg, fg := "Loading image...", th.PlaceholderText
		if c.ed.State() == editor.StateFailed {
			msg, fg = "Could not load the image", th.ErrorText
			if err := c.ed.LoadError(); err != nil {
				msg += "\n" + err.Error()
			}
		}
		render.Placeholder(dst.SubImage(r).(*image.RGBA), th.Placeholder, fg, msg)
		return
	}

	s := c.chrome.surface(l)
	img := c.ed.Image()
	if c.scaled == nil || c.scaled.Bounds().Size() != s.Size() || c.scaledSrc != img {
		c.scaled = image.NewRGBA(image.Rectangle{Max: s.Size()})
		xdraw.ApproxBiLinear.Scale(c.scaled, c.scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		c.scaledSrc = img
	}
	draw.Draw(dst, s, c.scaled, image.Point{}, draw.Over)

	if c.layer == nil || c.layer.Bounds().Size() != s.Size() {
		c.layer = render.NewCanvas(s.Size())
	} else {
		c.layer.Clear()
	}
	c.ed.Render(c.layer)
	draw.Draw(dst, s, c.layer.Layer(), image.Point{}, draw.Over)
}

func (c *controller) drawStatus(dst *image.RGBA) {
	th := c.theme
	r := c.chrome.status
	fill(dst, r, th.ToolbarBackground)
	text := fmt.Sprintf("%s   %s   width %g", c.ed.Tool(), c.ed.Color().Name(), c.ed.Width())
	if id, ok := c.ed.Selected(); ok {
		text += "   selected " + shortID(id)
	}
	if c.ed.State() != editor.StateReady {
		text += "   " + c.ed.State().String()
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(padding, r.Min.Y+14)}
	d.DrawString(text)
}

func (c *controller) drawMessage(dst *image.RGBA) {
	face := messageFont()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.theme.Foreground), Face: face}
	w := d.MeasureString(c.message).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	size := c.chrome.size
	px := (size.X - w) / 2
	py := (size.Y-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	b := c.theme.Background
	bg := color.NRGBA{R: b.R, G: b.G, B: b.B, A: 230}
	draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Over)
	drawRect(dst, rect, c.theme.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(c.message)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
