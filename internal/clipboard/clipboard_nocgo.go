//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"os"
)

var errCGODisabled = errors.New("clipboard operations require cgo support")

func unavailable() error {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return ErrNoDisplay
	}
	return errCGODisabled
}

func readBytes(kind) ([]byte, error) { return nil, unavailable() }

func writeBytes(kind, []byte) error { return unavailable() }
