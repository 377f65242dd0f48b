// Package capture grabs photographs straight from the desktop so a fresh
// screenshot can be annotated without saving it first.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"time"
)

// ErrNoDisplay is returned when neither the desktop portal nor an X server
// is reachable.
var ErrNoDisplay = errors.New("no display available for capture")

// DefaultTimeout bounds how long the portal may keep the user choosing.
const DefaultTimeout = 2 * time.Minute

// Options tunes a capture request.
type Options struct {
	IncludeCursor bool
	// Timeout is applied on top of the caller's context. Zero means
	// DefaultTimeout.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// Screen captures the whole desktop. The portal is tried first; on X11
// sessions without a portal the root window is read directly.
func Screen(ctx context.Context, opts Options) (*image.RGBA, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()
	img, portalErr := portalScreenshot(ctx, false, opts)
	if portalErr == nil {
		return img, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("capture screen: %w", ctx.Err())
	}
	img, err := rootScreenshot()
	if err != nil {
		return nil, fmt.Errorf("capture screen: portal: %v; x11: %w", portalErr, err)
	}
	return img, nil
}

// Region lets the user pick an area through the portal's interactive
// screenshot dialog.
func Region(ctx context.Context, opts Options) (*image.RGBA, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()
	img, err := portalScreenshot(ctx, true, opts)
	if err != nil {
		return nil, fmt.Errorf("capture region: %w", err)
	}
	return img, nil
}

// Crop copies rect out of src into a zero-based image.
func Crop(src image.Image, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
