package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder fills dst with bg and centres msg on it, one line per newline.
// It stands in for the photograph when the image fails to load.
func Placeholder(dst draw.Image, bg, fg color.Color, msg string) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(bg), image.Point{}, draw.Src)
	face := basicfont.Face7x13
	lines := strings.Split(msg, "\n")
	lineH := face.Metrics().Height.Ceil()
	y := b.Min.Y + (b.Dy()-lineH*len(lines))/2 + face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: face}
		w := d.MeasureString(line).Ceil()
		d.Dot = fixed.P(b.Min.X+(b.Dx()-w)/2, y)
		d.DrawString(line)
		y += lineH
	}
}
