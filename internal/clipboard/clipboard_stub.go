//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

func readBytes(k kind) ([]byte, error) {
	return nil, fmt.Errorf("clipboard %s operations are not supported on this platform", k)
}

func writeBytes(k kind, _ []byte) error {
	return fmt.Errorf("clipboard %s operations are not supported on this platform", k)
}
