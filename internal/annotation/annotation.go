// Package annotation defines the annotation document exchanged between the
// editor and whoever persists it: freehand strokes, stamped shapes and the
// image they belong to.
package annotation

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Point is a coordinate in image space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Color is one of the fixed palette values.
type Color string

const (
	ColorRed    Color = "#EF4444"
	ColorYellow Color = "#FACC15"
	ColorWhite  Color = "#FFFFFF"
)

// PaletteColor pairs a palette value with its display name.
type PaletteColor struct {
	Name  string
	Color Color
}

var palette = []PaletteColor{
	{Name: "red", Color: ColorRed},
	{Name: "yellow", Color: ColorYellow},
	{Name: "white", Color: ColorWhite},
}

// Palette returns a copy of the swatches offered by the editor.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// DefaultColor is the swatch selected when nothing else is configured.
func DefaultColor() Color { return ColorRed }

// ParseColor resolves a palette name or value. Free-form colours are rejected.
func ParseColor(s string) (Color, error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return "", fmt.Errorf("color cannot be empty")
	}
	for _, p := range palette {
		if strings.EqualFold(p.Name, spec) || strings.EqualFold(string(p.Color), spec) {
			return p.Color, nil
		}
	}
	return "", fmt.Errorf("color %q is not in the palette", s)
}

// InPalette reports whether c is one of the palette values.
func (c Color) InPalette() bool {
	for _, p := range palette {
		if p.Color == c {
			return true
		}
	}
	return false
}

// Name returns the display name of the colour, or the raw value.
func (c Color) Name() string {
	for _, p := range palette {
		if p.Color == c {
			return p.Name
		}
	}
	return string(c)
}

// ToRGBA converts the hex value to an opaque colour. Unknown values map to
// opaque black.
func (c Color) ToRGBA() color.RGBA {
	hex := strings.TrimPrefix(string(c), "#")
	if len(hex) != 6 {
		return color.RGBA{A: 255}
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}
}

// Stroke widths offered by the width slider.
const (
	MinWidth     = 1
	MaxWidth     = 12
	DefaultWidth = 4
)

// ClampWidth limits w to the slider range.
func ClampWidth(w float64) float64 {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

// EraserWidth is the stored width of an eraser stroke for a base width.
func EraserWidth(base float64) float64 { return 2 * base }

// StrokeKind distinguishes pencil marks from eraser marks.
type StrokeKind string

const (
	KindPencil StrokeKind = "pencil"
	KindEraser StrokeKind = "eraser"
)

// BlendMode tells the renderer how a stroke combines with what is below it.
type BlendMode string

const (
	BlendNormal BlendMode = "normal"
	// BlendSubtract removes previously drawn annotation pixels.
	BlendSubtract BlendMode = "subtract"
)

// BlendFor returns the blend mode strokes of kind k are drawn with.
func BlendFor(k StrokeKind) BlendMode {
	if k == KindEraser {
		return BlendSubtract
	}
	return BlendNormal
}

// Stroke is a freehand polyline. Points holds x/y pairs in image space.
type Stroke struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Kind        StrokeKind `json:"kind" yaml:"kind" validate:"oneof=pencil eraser"`
	Points      []float64  `json:"points" yaml:"points" validate:"min=2,even,dive,finite"`
	Color       Color      `json:"color" yaml:"color" validate:"palette"`
	StrokeWidth float64    `json:"strokeWidth" yaml:"strokeWidth" validate:"gte=1,lte=24"`
	Blend       BlendMode  `json:"blendMode" yaml:"blendMode" validate:"oneof=normal subtract"`
}

// PointCount returns the number of x/y pairs in the stroke.
func (s Stroke) PointCount() int { return len(s.Points) / 2 }

// PointAt returns the i-th point of the stroke.
func (s Stroke) PointAt(i int) Point {
	return Point{X: s.Points[2*i], Y: s.Points[2*i+1]}
}

// ShapeType identifies a stamped shape.
type ShapeType string

const (
	ShapeArrow  ShapeType = "arrow"
	ShapeCircle ShapeType = "circle"
)

// Default stamp geometry.
const (
	ArrowLength  = 100
	ArrowHead    = 20
	CircleRadius = 50
)

// Shape is a stamped, transformable arrow or circle anchored at X, Y.
// Points is the arrow's tail->head vector in local coordinates; Radius is
// only meaningful for circles.
type Shape struct {
	ID          string    `json:"id" yaml:"id" validate:"required"`
	Type        ShapeType `json:"type" yaml:"type" validate:"oneof=arrow circle"`
	X           float64   `json:"x" yaml:"x" validate:"finite"`
	Y           float64   `json:"y" yaml:"y" validate:"finite"`
	Points      []float64 `json:"points,omitempty" yaml:"points,omitempty" validate:"dive,finite"`
	Radius      float64   `json:"radius,omitempty" yaml:"radius,omitempty" validate:"finite,gte=0"`
	Rotation    float64   `json:"rotation" yaml:"rotation" validate:"finite"`
	ScaleX      float64   `json:"scaleX" yaml:"scaleX" validate:"finite,ne=0"`
	ScaleY      float64   `json:"scaleY" yaml:"scaleY" validate:"finite,ne=0"`
	Color       Color     `json:"color" yaml:"color" validate:"palette"`
	StrokeWidth float64   `json:"strokeWidth" yaml:"strokeWidth" validate:"gte=1,lte=12"`
}

// NewID returns a fresh identifier for a stroke or shape.
func NewID() string { return uuid.NewString() }

// NewArrow returns an arrow anchored at (x, y) with the default vector.
func NewArrow(x, y float64, c Color, width float64) Shape {
	return Shape{
		ID:          NewID(),
		Type:        ShapeArrow,
		X:           x,
		Y:           y,
		Points:      []float64{0, 0, ArrowLength, 0},
		ScaleX:      1,
		ScaleY:      1,
		Color:       c,
		StrokeWidth: width,
	}
}

// NewCircle returns a circle centred on (x, y) with the default radius.
func NewCircle(x, y float64, c Color, width float64) Shape {
	return Shape{
		ID:          NewID(),
		Type:        ShapeCircle,
		X:           x,
		Y:           y,
		Radius:      CircleRadius,
		ScaleX:      1,
		ScaleY:      1,
		Color:       c,
		StrokeWidth: width,
	}
}

// LocalBox returns the unscaled, unrotated bounding box of the shape relative
// to its anchor.
func (s Shape) LocalBox() (minX, minY, maxX, maxY float64) {
	half := s.StrokeWidth / 2
	switch s.Type {
	case ShapeCircle:
		return -s.Radius - half, -s.Radius - half, s.Radius + half, s.Radius + half
	default:
		var x0, y0, x1, y1 float64
		if len(s.Points) == 4 {
			x0, y0, x1, y1 = s.Points[0], s.Points[1], s.Points[2], s.Points[3]
		}
		minX, maxX = x0, x1
		if minX > maxX {
			minX, maxX = maxX, minX
		}
		minY, maxY = y0, y1
		if minY > maxY {
			minY, maxY = maxY, minY
		}
		// The head is wider than the shaft; centre it across the vector.
		if h := maxY - minY; h < ArrowHead {
			mid := (minY + maxY) / 2
			minY, maxY = mid-ArrowHead/2, mid+ArrowHead/2
		}
		return minX - half, minY - half, maxX + half, maxY + half
	}
}

// Size returns the width and height of the shape's box after scaling. It
// does not depend on rotation.
func (s Shape) Size() (w, h float64) {
	minX, minY, maxX, maxY := s.LocalBox()
	return (maxX - minX) * abs(s.ScaleX), (maxY - minY) * abs(s.ScaleY)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// HistoryKind tags a history entry.
type HistoryKind string

const (
	HistoryLine  HistoryKind = "line"
	HistoryShape HistoryKind = "shape"
)

// HistoryEntry records the creation of a stroke or a shape.
type HistoryEntry struct {
	Kind HistoryKind
	ID   string
}

// Document is the exported snapshot of one image's annotations.
type Document struct {
	Lines   []Stroke `json:"lines" yaml:"lines" validate:"dive"`
	Shapes  []Shape  `json:"shapes" yaml:"shapes" validate:"dive"`
	ImageID string   `json:"imageId" yaml:"imageId"`
}

// Empty reports whether the document has neither lines nor shapes.
func (d Document) Empty() bool { return len(d.Lines) == 0 && len(d.Shapes) == 0 }
