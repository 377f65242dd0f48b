// Package clipboard moves photographs and annotation documents through the
// system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// ErrNoDisplay is returned when no graphical session is available.
var ErrNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")

type kind int

const (
	kindText kind = iota
	kindImage
)

func (k kind) String() string {
	if k == kindImage {
		return "image"
	}
	return "text"
}

// CopyImage publishes img as PNG.
func CopyImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return write(kindImage, buf.Bytes())
}

// PasteImage decodes the image on the clipboard. Any format with a
// registered decoder is accepted.
func PasteImage() (image.Image, error) {
	data, err := read(kindImage)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// CopyText publishes UTF-8 text.
func CopyText(text string) error { return write(kindText, []byte(text)) }

// PasteText returns the text on the clipboard.
func PasteText() (string, error) {
	data, err := read(kindText)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func read(k kind) ([]byte, error) {
	data, err := readBytes(k)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain %s data", k)
	}
	return data, nil
}

func write(k kind, data []byte) error { return writeBytes(k, data) }
