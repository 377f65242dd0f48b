//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"fmt"
	"image"
)

func portalScreenshot(context.Context, bool, Options) (*image.RGBA, error) {
	return nil, fmt.Errorf("%w: portal screenshot is not supported on this platform", ErrNoDisplay)
}
