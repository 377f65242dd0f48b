package ui

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/viewport"
)

func TestLayoutChromeControls(t *testing.T) {
	c := layoutChrome(image.Pt(1000, 700))

	var tools []editor.Tool
	var swatches []annotation.Color
	for i, ctl := range c.controls {
		switch ctl.kind {
		case controlTool:
			tools = append(tools, ctl.tool)
		case controlSwatch:
			swatches = append(swatches, ctl.color)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, ctl.rect.Min.X, c.controls[i-1].rect.Max.X, "controls do not overlap")
		}
		assert.True(t, ctl.rect.Max.Y <= toolbarHeight)
	}
	assert.Equal(t, editor.Tools(), tools)
	assert.Equal(t, []annotation.Color{annotation.ColorRed, annotation.ColorYellow, annotation.ColorWhite}, swatches)

	idx, ok := c.controlAt(c.controls[1].rect.Min.Add(image.Pt(2, 2)))
	require.True(t, ok)
	assert.Equal(t, editor.ToolPencil, c.controls[idx].tool)
	_, ok = c.controlAt(image.Pt(500, 400))
	assert.False(t, ok)
}

func TestChromeContainerAndSurface(t *testing.T) {
	c := layoutChrome(image.Pt(1000, 700))
	assert.Equal(t, viewport.Size{W: 1000 - 2*padding, H: 700 - toolbarHeight - statusHeight - 2*padding}, c.container())

	l := viewport.Fit(viewport.Size{W: 800, H: 600}, c.container(), 600)
	s := c.surface(l)
	assert.Equal(t, toolbarHeight+padding, s.Min.Y)
	assert.Equal(t, c.area.Min.X+(c.area.Dx()-s.Dx())/2, s.Min.X, "centred horizontally")
	assert.Equal(t, 800, s.Dx())
}

func TestTinyWindowHasEmptyArea(t *testing.T) {
	c := layoutChrome(image.Pt(10, 10))
	assert.True(t, c.area.Empty())
	assert.True(t, c.container().Empty())
}

func TestSliderMapping(t *testing.T) {
	track := image.Rect(100, 0, 100+sliderLength, buttonHeight)
	inner := track.Inset(gap)
	assert.Equal(t, float64(annotation.MinWidth), sliderWidth(track, inner.Min.X-20))
	assert.Equal(t, float64(annotation.MaxWidth), sliderWidth(track, inner.Max.X+20))
	for w := annotation.MinWidth; w <= annotation.MaxWidth; w++ {
		assert.Equal(t, float64(w), sliderWidth(track, sliderX(track, float64(w))), "width %d", w)
	}
}

func TestWindowSize(t *testing.T) {
	assert.Equal(t, image.Pt(1200, toolbarHeight+statusHeight+2*padding+400), windowSize(1200, 400))
	small := windowSize(10, 0)
	assert.Greater(t, small.X, 10, "wide enough for the toolbar")
	assert.Equal(t, toolbarHeight+statusHeight+2*padding+viewport.DefaultMaxHeight, small.Y)
}
