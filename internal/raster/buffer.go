package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfBounds indicates a coordinate outside the buffer extent.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrDimensionMismatch indicates a snapshot or source buffer whose size
	// differs from the destination buffer.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidSize indicates a buffer was requested with a non-positive
	// width or height.
	ErrInvalidSize = errors.New("invalid buffer size")
)

// Buffer is a fixed-size grid of RGBA pixels stored row-major in a single
// flat slice. The size never changes after creation.
type Buffer struct {
	img *image.RGBA
}

// New allocates a transparent buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new buffer %dx%d: %w", width, height, ErrInvalidSize)
	}
	return &Buffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// FromImage copies src into a new buffer anchored at the origin.
func FromImage(src image.Image) (*Buffer, error) {
	b := src.Bounds()
	buf, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	draw.Draw(buf.img, buf.img.Bounds(), src, b.Min, draw.Src)
	return buf, nil
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer extent, always anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// In reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.img.Rect.Max.X && y < b.img.Rect.Max.Y
}

func (b *Buffer) offset(x, y int) int {
	return y*b.img.Stride + x*4
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) (color.RGBA, error) {
	if !b.In(x, y) {
		return color.RGBA{}, fmt.Errorf("get (%d,%d) in %dx%d: %w", x, y, b.Width(), b.Height(), ErrOutOfBounds)
	}
	i := b.offset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}, nil
}

// Set overwrites all four channels of the pixel at (x, y).
func (b *Buffer) Set(x, y int, c color.RGBA) error {
	if !b.In(x, y) {
		return fmt.Errorf("set (%d,%d) in %dx%d: %w", x, y, b.Width(), b.Height(), ErrOutOfBounds)
	}
	b.set(x, y, c)
	return nil
}

// set writes without a bounds check. Callers must have validated (x, y).
func (b *Buffer) set(x, y int, c color.RGBA) {
	i := b.offset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Plot writes c at (x, y) when the coordinate is inside the buffer and
// silently drops it otherwise. Drawing primitives use it to clip.
func (b *Buffer) Plot(x, y int, c color.RGBA) {
	if b.In(x, y) {
		b.set(x, y, c)
	}
}

// Matches reports whether the pixel at (x, y) exists and equals c exactly.
func (b *Buffer) Matches(x, y int, c color.RGBA) bool {
	if !b.In(x, y) {
		return false
	}
	i := b.offset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	return p[0] == c.R && p[1] == c.G && p[2] == c.B && p[3] == c.A
}

// FillAll sets every pixel to c.
func (b *Buffer) FillAll(c color.RGBA) {
	pix := b.img.Pix
	if len(pix) == 0 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	// Double the initialised prefix until the slice is full.
	for n := 4; n < len(pix); n *= 2 {
		copy(pix[n:], pix[:n])
	}
}

// Count returns how many pixels equal c.
func (b *Buffer) Count(c color.RGBA) int {
	n := 0
	pix := b.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i] == c.R && pix[i+1] == c.G && pix[i+2] == c.B && pix[i+3] == c.A {
			n++
		}
	}
	return n
}

// Clone returns a deep copy that shares no pixel memory with b.
func (b *Buffer) Clone() *Buffer {
	img := image.NewRGBA(b.img.Rect)
	copy(img.Pix, b.img.Pix)
	return &Buffer{img: img}
}

// Equal reports whether o has the same size and identical pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil {
		return false
	}
	return b.img.Rect.Eq(o.img.Rect) && bytes.Equal(b.img.Pix, o.img.Pix)
}

// RestoreFrom overwrites every pixel of b with the pixels of src. The buffer
// is left untouched when the sizes differ.
func (b *Buffer) RestoreFrom(src *Buffer) error {
	if !b.img.Rect.Eq(src.img.Rect) {
		return fmt.Errorf("restore %dx%d from %dx%d: %w", b.Width(), b.Height(), src.Width(), src.Height(), ErrDimensionMismatch)
	}
	copy(b.img.Pix, src.img.Pix)
	return nil
}

// Frame returns a read-only view of the live pixels for render and export
// collaborators. The view tracks later mutations of b.
func (b *Buffer) Frame() *View {
	return &View{img: b.img}
}
