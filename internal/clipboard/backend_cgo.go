//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"golang.design/x/clipboard"
)

type designBackend struct{}

func newBackend() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return designBackend{}, nil
}

func designFormat(f format) clipboard.Format {
	if f == formatPNG {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (designBackend) write(f format, data []byte) error {
	clipboard.Write(designFormat(f), data)
	return nil
}

func (designBackend) read(f format) ([]byte, error) {
	return clipboard.Read(designFormat(f)), nil
}
