package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/viewport"
)

func line(pts ...float64) []viewport.Point {
	out := make([]viewport.Point, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		out = append(out, viewport.Point{X: pts[i], Y: pts[i+1]})
	}
	return out
}

func TestPolylinePaintsLayer(t *testing.T) {
	c := NewCanvas(image.Pt(40, 40))
	c.DrawPolyline(line(5, 20, 35, 20), annotation.ColorRed, 6, annotation.BlendNormal)
	assert.Equal(t, color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}, c.Layer().RGBAAt(20, 20))
	assert.Zero(t, c.Layer().RGBAAt(20, 5).A)
	// Round cap reaches past the end point.
	assert.NotZero(t, c.Layer().RGBAAt(3, 20).A)
}

func TestSinglePointIsADot(t *testing.T) {
	c := NewCanvas(image.Pt(20, 20))
	c.DrawPolyline(line(10, 10), annotation.ColorWhite, 6, annotation.BlendNormal)
	assert.Equal(t, uint8(0xFF), c.Layer().RGBAAt(10, 10).A)
}

func TestSubtractErasesLayerOnly(t *testing.T) {
	photo := image.NewRGBA(image.Rect(0, 0, 40, 40))
	green := color.RGBA{G: 200, A: 255}
	for i := 0; i < len(photo.Pix); i += 4 {
		photo.Pix[i+1], photo.Pix[i+3] = 200, 255
	}

	c := NewCanvas(image.Pt(40, 40))
	c.DrawPolyline(line(0, 20, 40, 20), annotation.ColorYellow, 10, annotation.BlendNormal)
	require.NotZero(t, c.Layer().RGBAAt(20, 20).A)
	c.DrawPolyline(line(20, 0, 20, 40), annotation.ColorRed, 8, annotation.BlendSubtract)

	assert.Zero(t, c.Layer().RGBAAt(20, 20).A, "erased where the strokes cross")
	assert.NotZero(t, c.Layer().RGBAAt(5, 20).A, "rest of the stroke survives")

	out := c.Flatten(photo)
	assert.Equal(t, green, out.RGBAAt(20, 20), "photograph shows through")
	assert.Equal(t, color.RGBA{R: 0xFA, G: 0xCC, B: 0x15, A: 0xFF}, out.RGBAAt(5, 20))
}

func TestEllipseIsAnOutline(t *testing.T) {
	c := NewCanvas(image.Pt(100, 100))
	c.DrawEllipse(viewport.Point{X: 50, Y: 50}, 30, 30, 0, annotation.ColorWhite, 4)
	assert.Zero(t, c.Layer().RGBAAt(50, 50).A, "centre stays clear")
	assert.Equal(t, uint8(0xFF), c.Layer().RGBAAt(80, 50).A)
	assert.Equal(t, uint8(0xFF), c.Layer().RGBAAt(50, 20).A)

	r := NewCanvas(image.Pt(100, 100))
	r.DrawEllipse(viewport.Point{X: 50, Y: 50}, 30, 10, 90, annotation.ColorWhite, 4)
	assert.Equal(t, uint8(0xFF), r.Layer().RGBAAt(50, 80).A, "rotated a quarter turn")
	assert.Zero(t, r.Layer().RGBAAt(80, 50).A)
}

func TestArrowHasHead(t *testing.T) {
	c := NewCanvas(image.Pt(120, 60))
	c.DrawArrow(viewport.Point{X: 10, Y: 30}, viewport.Point{X: 110, Y: 30}, annotation.ColorRed, 2, 20)
	assert.NotZero(t, c.Layer().RGBAAt(50, 30).A)
	assert.NotZero(t, c.Layer().RGBAAt(95, 37).A, "head is wider than the shaft")
	assert.Zero(t, c.Layer().RGBAAt(50, 37).A)
}

func TestCanvasDrawsEditor(t *testing.T) {
	e := editor.New("x", "id", editor.WithContainer(viewport.Size{W: 200}))
	require.True(t, e.CompleteLoad(e.BeginLoad(), image.NewRGBA(image.Rect(0, 0, 200, 100)), nil))
	e.InsertCircle()

	c := NewCanvas(e.Layout().Bounds().Size())
	e.Render(c)
	assert.NotZero(t, c.Layer().RGBAAt(150, 50).A, "circle outline")
	box := c.Layer().RGBAAt(48, 20)
	assert.NotZero(t, box.A, "selection box edge")
	assert.Greater(t, box.B, box.R)
}

func TestDocumentAtNaturalSize(t *testing.T) {
	photo := image.NewRGBA(image.Rect(0, 0, 300, 200))
	doc := annotation.Document{
		ImageID: "p",
		Shapes:  []annotation.Shape{annotation.NewCircle(150, 100, annotation.ColorRed, 4)},
	}
	out := Document(photo, doc, FlattenOptions{})
	require.Equal(t, photo.Bounds(), out.Bounds())
	assert.Equal(t, color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}, out.RGBAAt(200, 100), "ring at the radius")
	assert.Zero(t, out.RGBAAt(150, 100).R, "photo shows inside")

	shadow := DefaultShadowOptions()
	withShadow := Document(photo, doc, FlattenOptions{Shadow: &shadow})
	assert.NotZero(t, withShadow.RGBAAt(150, 155).A)
}
