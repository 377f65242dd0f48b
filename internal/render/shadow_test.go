package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photomark/internal/annotation"
)

func TestShadowedKeepsBounds(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 20, 20))
	layer.Set(5, 5, color.RGBA{R: 255, A: 255})

	opts := ShadowOptions{Radius: 2, Offset: image.Pt(3, 2), Opacity: 0.5}
	out := Shadowed(layer, opts)
	require.NotNil(t, out)
	assert.Equal(t, layer.Bounds(), out.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(5, 5), "mark stays on top")
	assert.NotZero(t, out.RGBAAt(8, 7).A, "shadow under the offset mark")
	assert.Zero(t, out.RGBAAt(18, 1).A)
}

func TestShadowedNoOpacity(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, layer, Shadowed(layer, ShadowOptions{Radius: 12, Opacity: 0}))
}

func TestBlurAlphaSpreadsEvenly(t *testing.T) {
	src := image.NewAlpha(image.Rect(0, 0, 9, 9))
	src.SetAlpha(4, 4, color.Alpha{A: 90})
	out := blurAlpha(src, 1)
	assert.Equal(t, uint8(10), out.AlphaAt(4, 4).A)
	assert.Equal(t, uint8(10), out.AlphaAt(3, 5).A)
	assert.Zero(t, out.AlphaAt(2, 4).A)
}

func TestShadowLeavesPhotoAwayFromMarks(t *testing.T) {
	photo := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := 0; i < len(photo.Pix); i += 4 {
		photo.Pix[i], photo.Pix[i+1], photo.Pix[i+2], photo.Pix[i+3] = 40, 120, 200, 255
	}
	c := NewCanvas(image.Pt(40, 40))
	c.DrawPolyline(line(5, 5, 10, 5), annotation.ColorWhite, 2, annotation.BlendNormal)
	c.ApplyShadow(DefaultShadowOptions())

	out := c.Flatten(photo)
	assert.Equal(t, color.RGBA{R: 40, G: 120, B: 200, A: 255}, out.RGBAAt(30, 30))
	shaded := out.RGBAAt(8, 8)
	assert.Less(t, shaded.B, uint8(200), "shadow darkens just below the mark")
}
