// Package viewport sizes the editing surface for a photograph and maps
// pointer positions between screen space and image space.
package viewport

import (
	"fmt"
	"image"
	"math"

	"github.com/example/photomark/internal/annotation"
)

// DefaultMaxHeight caps the surface height when no other cap is configured.
const DefaultMaxHeight = 600

// Point is shared with the annotation model so mapped points can be stored
// directly.
type Point = annotation.Point

// Size is a width and height in logical units.
type Size struct {
	W, H float64
}

// SizeOf returns the size of an image rectangle.
func SizeOf(r image.Rectangle) Size {
	return Size{W: float64(r.Dx()), H: float64(r.Dy())}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Layout is the on-screen surface for one image.
type Layout struct {
	Width, Height float64
	// Scale is Width divided by the natural image width.
	Scale float64
}

// Zero reports whether the layout has not been computed yet.
func (l Layout) Zero() bool { return l.Scale == 0 }

// Bounds returns the surface as a pixel rectangle anchored at the origin.
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(math.Round(l.Width)), int(math.Round(l.Height)))
}

// Fit keeps the aspect ratio of natural while filling the container. The
// container height is capped at maxHeight; a non-positive container height
// is unbounded and a non-positive maxHeight disables the cap. An image that
// has not loaded yields the zero layout.
func Fit(natural, container Size, maxHeight float64) Layout {
	if natural.Empty() || container.W <= 0 {
		return Layout{}
	}
	h := container.H
	if h <= 0 {
		h = math.Inf(1)
	}
	if maxHeight > 0 && maxHeight < h {
		h = maxHeight
	}
	var w float64
	if natural.W/natural.H > container.W/h {
		w = container.W
		h = w * natural.H / natural.W
	} else {
		w = h * natural.W / natural.H
	}
	return Layout{Width: w, Height: h, Scale: w / natural.W}
}

// ToImage maps a surface position to image space. It fails until a layout
// has been computed.
func (l Layout) ToImage(raw Point) (Point, bool) {
	if l.Scale == 0 {
		return Point{}, false
	}
	return Point{X: raw.X / l.Scale, Y: raw.Y / l.Scale}, true
}

// ToScreen maps an image-space position onto the surface.
func (l Layout) ToScreen(p Point) Point {
	return Point{X: p.X * l.Scale, Y: p.Y * l.Scale}
}

// Distance converts an image-space length to surface units.
func (l Layout) Distance(d float64) float64 { return d * l.Scale }
