//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	resetInit()

	assert.ErrorIs(t, CopyText("hello world"), ErrNoDisplay)
	_, err := PasteImage()
	assert.ErrorIs(t, err, ErrNoDisplay)
	assert.ErrorIs(t, CopyImage(image.NewRGBA(image.Rect(0, 0, 1, 1))), ErrNoDisplay)
}
