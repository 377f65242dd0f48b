package export

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photomark/internal/annotation"
)

func sampleDoc() annotation.Document {
	return annotation.Document{
		ImageID: "claim-7",
		Lines: []annotation.Stroke{
			{ID: "a", Kind: annotation.KindPencil, Points: []float64{1, 1}, Color: annotation.ColorRed, StrokeWidth: 4, Blend: annotation.BlendNormal},
			{ID: "b", Kind: annotation.KindPencil, Points: []float64{2, 2}, Color: annotation.ColorYellow, StrokeWidth: 4, Blend: annotation.BlendNormal},
			{ID: "c", Kind: annotation.KindEraser, Points: []float64{3, 3}, Color: annotation.ColorRed, StrokeWidth: 8, Blend: annotation.BlendSubtract},
		},
		Shapes: []annotation.Shape{
			annotation.NewArrow(10, 10, annotation.ColorRed, 4),
			annotation.NewCircle(50, 50, annotation.ColorWhite, 4),
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleDoc())
	assert.Equal(t, 2, s.Pencil)
	assert.Equal(t, 1, s.Eraser)
	assert.Equal(t, 1, s.Arrows)
	assert.Equal(t, 1, s.Circles)
	assert.Equal(t, map[annotation.Color]int{
		annotation.ColorRed:    2,
		annotation.ColorYellow: 1,
		annotation.ColorWhite:  1,
	}, s.Colors, "eraser strokes have no colour of their own")
}

func TestPDF(t *testing.T) {
	for _, size := range []image.Point{{400, 300}, {300, 500}} {
		var buf bytes.Buffer
		img := image.NewRGBA(image.Rectangle{Max: size})
		err := PDF(&buf, img, sampleDoc(), Options{Created: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		assert.Greater(t, buf.Len(), 1000)
	}
}

func TestPDFEmptyImage(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PDF(&buf, image.NewRGBA(image.Rect(0, 0, 0, 0)), sampleDoc(), Options{}))
}

func TestWritePDFFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, WritePDFFile(path, image.NewRGBA(image.Rect(0, 0, 20, 10)), sampleDoc(), Options{Title: "Claim"}))
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, st.Size())

	bad := filepath.Join(dir, "bad.pdf")
	assert.Error(t, WritePDFFile(bad, image.NewRGBA(image.Rect(0, 0, 0, 0)), sampleDoc(), Options{}))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err))
}
