// Package theme holds the window colours of the annotation editor.
package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes holds the built-in theme files.
//
//go:embed themes/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colours of the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the photograph
	Foreground color.RGBA // Label text

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonActive          color.RGBA // Current tool
	ButtonDisabled        color.RGBA
	ButtonText            color.RGBA
	ButtonTextDisabled    color.RGBA
	ButtonBorder          color.RGBA
	SliderTrack           color.RGBA
	SliderKnob            color.RGBA

	// Canvas
	Placeholder     color.RGBA // Shown while loading or after a failed load
	PlaceholderText color.RGBA
	ErrorText       color.RGBA
}

// Default returns the hardcoded light theme used when nothing else loads.
func Default() *Theme {
	return &Theme{
		Name:                  "default",
		Background:            color.RGBA{229, 231, 235, 255},
		Foreground:            color.RGBA{17, 24, 39, 255},
		ToolbarBackground:     color.RGBA{243, 244, 246, 255},
		ButtonBackground:      color.RGBA{255, 255, 255, 255},
		ButtonBackgroundHover: color.RGBA{229, 231, 235, 255},
		ButtonActive:          color.RGBA{191, 219, 254, 255},
		ButtonDisabled:        color.RGBA{243, 244, 246, 255},
		ButtonText:            color.RGBA{17, 24, 39, 255},
		ButtonTextDisabled:    color.RGBA{156, 163, 175, 255},
		ButtonBorder:          color.RGBA{156, 163, 175, 255},
		SliderTrack:           color.RGBA{209, 213, 219, 255},
		SliderKnob:            color.RGBA{59, 130, 246, 255},
		Placeholder:           color.RGBA{209, 213, 219, 255},
		PlaceholderText:       color.RGBA{75, 85, 99, 255},
		ErrorText:             color.RGBA{185, 28, 28, 255},
	}
}
