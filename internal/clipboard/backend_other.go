//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

func newBackend() (backend, error) {
	return nil, fmt.Errorf("clipboard operations are not supported on this platform")
}
