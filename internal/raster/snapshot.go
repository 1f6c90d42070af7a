package raster

import (
	"bytes"
	"fmt"
	"image/color"
)

// Snapshot is an immutable copy of a buffer's pixels at one instant.
type Snapshot struct {
	width  int
	height int
	pix    []uint8
}

// NewSnapshot builds a snapshot from raw row-major RGBA bytes. The slice is
// owned by the snapshot afterwards and must not be modified by the caller.
func NewSnapshot(width, height int, pix []uint8) (Snapshot, error) {
	if width <= 0 || height <= 0 {
		return Snapshot{}, fmt.Errorf("snapshot %dx%d: %w", width, height, ErrInvalidSize)
	}
	if len(pix) != width*height*4 {
		return Snapshot{}, fmt.Errorf("snapshot %dx%d with %d bytes: %w", width, height, len(pix), ErrDimensionMismatch)
	}
	return Snapshot{width: width, height: height, pix: pix}, nil
}

// Snapshot captures the current pixels of b.
func (b *Buffer) Snapshot() Snapshot {
	pix := make([]uint8, len(b.img.Pix))
	copy(pix, b.img.Pix)
	return Snapshot{width: b.Width(), height: b.Height(), pix: pix}
}

// Restore overwrites every pixel of b from s. The buffer is left untouched
// when the sizes differ.
func (b *Buffer) Restore(s Snapshot) error {
	if s.width != b.Width() || s.height != b.Height() {
		return fmt.Errorf("restore %dx%d from snapshot %dx%d: %w", b.Width(), b.Height(), s.width, s.height, ErrDimensionMismatch)
	}
	copy(b.img.Pix, s.pix)
	return nil
}

// Width returns the snapshot width.
func (s Snapshot) Width() int { return s.width }

// Height returns the snapshot height.
func (s Snapshot) Height() int { return s.height }

// IsZero reports whether s was never populated.
func (s Snapshot) IsZero() bool { return s.pix == nil }

// Bytes returns a copy of the raw pixel data.
func (s Snapshot) Bytes() []uint8 {
	out := make([]uint8, len(s.pix))
	copy(out, s.pix)
	return out
}

// Size returns the number of bytes held by the snapshot.
func (s Snapshot) Size() int { return len(s.pix) }

// Equal reports whether two snapshots hold the same size and pixels.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.width == o.width && s.height == o.height && bytes.Equal(s.pix, o.pix)
}

// At returns the pixel at (x, y).
func (s Snapshot) At(x, y int) (color.RGBA, error) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return color.RGBA{}, fmt.Errorf("snapshot get (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	i := (y*s.width + x) * 4
	return color.RGBA{s.pix[i], s.pix[i+1], s.pix[i+2], s.pix[i+3]}, nil
}
