//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = ErrNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func systemFormat(k kind) clipboard.Format {
	if k == kindImage {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func readBytes(k kind) ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return clipboard.Read(systemFormat(k)), nil
}

func writeBytes(k kind, data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(systemFormat(k), data)
	return nil
}
