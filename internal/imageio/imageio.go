// Package imageio reads and writes canvas images, choosing PNG or BMP by file
// extension.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Format is an image file encoding.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ErrUnknownFormat is returned for extensions other than .png and .bmp.
var ErrUnknownFormat = errors.New("unsupported image format")

// FormatFor picks the encoding for path from its extension. A path without
// an extension is written as PNG.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", "":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, ext)
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
	}
}

// Save encodes img to path and returns the absolute path written.
func Save(path string, img image.Image) (string, error) {
	f, err := FormatFor(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Encode(out, img, f); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing %q: %v", out.Name(), cerr)
		}
		return "", fmt.Errorf("encode %s: %w", f, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}

// Load decodes a PNG or BMP file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", f.Name(), err)
		}
	}()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
