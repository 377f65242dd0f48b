package render

import (
	"image"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/viewport"
)

// FlattenOptions tunes Document.
type FlattenOptions struct {
	// Shadow, when set, drops a shadow under every mark.
	Shadow *ShadowOptions
}

// Document draws doc over photo at the photograph's natural resolution.
func Document(photo image.Image, doc annotation.Document, opts FlattenOptions) *image.RGBA {
	b := photo.Bounds()
	layout := viewport.Layout{Width: float64(b.Dx()), Height: float64(b.Dy()), Scale: 1}
	c := NewCanvas(b.Size())
	editor.RenderDocument(c, layout, doc.Lines, doc.Shapes)
	if opts.Shadow != nil {
		c.ApplyShadow(*opts.Shadow)
	}
	return c.Flatten(photo)
}
