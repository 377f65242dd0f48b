package annotation

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	arrow := NewArrow(350, 300, ColorRed, 4)
	circle := NewCircle(400, 300, ColorYellow, 2)
	return Document{
		Lines: []Stroke{{
			ID:          "line-1",
			Kind:        KindPencil,
			Points:      []float64{10, 10, 20, 25},
			Color:       ColorWhite,
			StrokeWidth: 4,
			Blend:       BlendNormal,
		}, {
			ID:          "line-2",
			Kind:        KindEraser,
			Points:      []float64{12, 12},
			Color:       ColorRed,
			StrokeWidth: EraserWidth(4),
			Blend:       BlendSubtract,
		}},
		Shapes:  []Shape{arrow, circle},
		ImageID: "photo-17",
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"red":     ColorRed,
		"Yellow":  ColorYellow,
		"#ffffff": ColorWhite,
		" white ": ColorWhite,
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseColor("#123456")
	assert.Error(t, err)
	_, err = ParseColor("")
	assert.Error(t, err)
}

func TestColorToRGBA(t *testing.T) {
	c := ColorRed.ToRGBA()
	assert.Equal(t, uint8(0xEF), c.R)
	assert.Equal(t, uint8(0x44), c.G)
	assert.Equal(t, uint8(0x44), c.B)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(255), Color("nonsense").ToRGBA().A)
}

func TestClampWidth(t *testing.T) {
	assert.Equal(t, float64(MinWidth), ClampWidth(0))
	assert.Equal(t, float64(MaxWidth), ClampWidth(40))
	assert.Equal(t, 7.0, ClampWidth(7))
	assert.Equal(t, 14.0, EraserWidth(7))
}

func TestShapeSize(t *testing.T) {
	circle := NewCircle(0, 0, ColorRed, 4)
	w, h := circle.Size()
	assert.InDelta(t, 104, w, 1e-9)
	assert.InDelta(t, 104, h, 1e-9)

	arrow := NewArrow(0, 0, ColorRed, 4)
	arrow.Rotation = 45
	w, h = arrow.Size()
	assert.InDelta(t, 104, w, 1e-9)
	assert.InDelta(t, 24, h, 1e-9)

	arrow.ScaleX = -0.5
	w, _ = arrow.Size()
	assert.InDelta(t, 52, w, 1e-9)
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleDocument().Validate())
	require.NoError(t, Document{ImageID: "empty"}.Validate())

	tests := []struct {
		name   string
		mutate func(*Document)
	}{
		{"off palette colour", func(d *Document) { d.Lines[0].Color = "#000000" }},
		{"odd points", func(d *Document) { d.Lines[0].Points = []float64{1, 2, 3} }},
		{"no points", func(d *Document) { d.Lines[0].Points = nil }},
		{"eraser drawn normally", func(d *Document) { d.Lines[1].Blend = BlendNormal }},
		{"pencil too wide", func(d *Document) { d.Lines[0].StrokeWidth = 20 }},
		{"unknown shape", func(d *Document) { d.Shapes[0].Type = "square" }},
		{"arrow without vector", func(d *Document) { d.Shapes[0].Points = nil }},
		{"circle without radius", func(d *Document) { d.Shapes[1].Radius = 0 }},
		{"collapsed scale", func(d *Document) { d.Shapes[1].ScaleY = 0 }},
		{"duplicate id", func(d *Document) { d.Shapes[1].ID = d.Lines[0].ID }},
		{"missing id", func(d *Document) { d.Lines[0].ID = "" }},
		{"nan scale", func(d *Document) { d.Shapes[0].ScaleX = math.NaN() }},
		{"infinite scale", func(d *Document) { d.Shapes[1].ScaleY = math.Inf(1) }},
		{"infinite position", func(d *Document) { d.Shapes[0].X = math.Inf(-1) }},
		{"nan rotation", func(d *Document) { d.Shapes[1].Rotation = math.NaN() }},
		{"nan stroke point", func(d *Document) { d.Lines[0].Points[1] = math.NaN() }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := sampleDocument()
			tc.mutate(&doc)
			err := doc.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestCodecThroughFiles(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument()
	for _, name := range []string{"doc.json", "doc.yaml"} {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, Encode(f, doc, FormatFromPath(path)))
		require.NoError(t, f.Close())

		in, err := os.Open(path)
		require.NoError(t, err)
		got, err := Decode(in, FormatFromPath(path))
		require.NoError(t, in.Close())
		require.NoError(t, err, name)
		assert.Equal(t, doc, got, name)
	}
}

func TestEncodeEmptyCollections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Document{ImageID: "x"}, FormatJSON))
	assert.Contains(t, buf.String(), `"lines": []`)
	assert.Contains(t, buf.String(), `"shapes": []`)
	assert.Contains(t, buf.String(), `"imageId": "x"`)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
