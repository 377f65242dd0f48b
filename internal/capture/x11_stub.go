//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"fmt"
	"image"
)

func rootScreenshot() (*image.RGBA, error) {
	return nil, fmt.Errorf("%w: x11 capture is not supported on this platform", ErrNoDisplay)
}
