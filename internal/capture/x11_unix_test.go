//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"image/color"
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXImageToRGBA(t *testing.T) {
	formats := []xproto.Format{{Depth: 1, BitsPerPixel: 1}, {Depth: 24, BitsPerPixel: 32}}
	// Two BGRx pixels per row, two rows.
	data := []byte{
		1, 2, 3, 0, 4, 5, 6, 0,
		7, 8, 9, 0, 10, 11, 12, 0,
	}
	img, err := xImageToRGBA(formats, 24, data, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 3, G: 2, B: 1, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 12, G: 11, B: 10, A: 255}, img.RGBAAt(1, 1))

	_, err = xImageToRGBA(formats, 1, data, 2, 2)
	assert.Error(t, err, "one bit per pixel is not supported")
	_, err = xImageToRGBA(formats, 24, data[:7], 2, 2)
	assert.Error(t, err)
	_, err = xImageToRGBA(formats, 24, nil, 2, 2)
	assert.Error(t, err)
}
