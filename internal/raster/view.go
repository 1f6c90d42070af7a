package raster

import (
	"image"
	"image/color"
)

// View is a read-only image.Image over a buffer's pixels.
type View struct {
	img *image.RGBA
}

// ColorModel implements image.Image.
func (v *View) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (v *View) Bounds() image.Rectangle { return v.img.Rect }

// At implements image.Image. Coordinates outside the bounds yield transparent.
func (v *View) At(x, y int) color.Color { return v.img.RGBAAt(x, y) }

// RGBAAt returns the pixel at (x, y) without boxing it in an interface.
func (v *View) RGBAAt(x, y int) color.RGBA { return v.img.RGBAAt(x, y) }

// RGBA returns a fresh copy of the frame.
func (v *View) RGBA() *image.RGBA {
	out := image.NewRGBA(v.img.Rect)
	copy(out.Pix, v.img.Pix)
	return out
}
