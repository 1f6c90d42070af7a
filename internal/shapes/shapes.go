// Package shapes draws stroke primitives into a raster buffer. Every
// primitive clips to the buffer, so callers may pass coordinates outside it.
package shapes

import (
	"image"
	"image/color"
	"math"

	"github.com/example/pixelpad/internal/raster"
)

// Dab paints a thick-by-thick square brush footprint centred on (x, y).
func Dab(buf *raster.Buffer, x, y, thick int, col color.RGBA) {
	if thick <= 1 {
		buf.Plot(x, y, col)
		return
	}
	lo := -(thick - 1) / 2
	hi := thick / 2
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			buf.Plot(x+dx, y+dy, col)
		}
	}
}

// Line draws a Bresenham segment from (x0, y0) to (x1, y1), both endpoints
// included, stamping a brush of the given thickness at every step.
func Line(buf *raster.Buffer, x0, y0, x1, y1, thick int, col color.RGBA) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		Dab(buf, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect draws the outline of the axis-aligned box with opposite corners a and
// b. Both corners lie on the outline.
func Rect(buf *raster.Buffer, a, b image.Point, thick int, col color.RGBA) {
	minX, maxX := minMax(a.X, b.X)
	minY, maxY := minMax(a.Y, b.Y)
	Line(buf, minX, minY, maxX, minY, thick, col)
	Line(buf, maxX, minY, maxX, maxY, thick, col)
	Line(buf, maxX, maxY, minX, maxY, thick, col)
	Line(buf, minX, maxY, minX, minY, thick, col)
}

// Radius returns the Euclidean distance from c to p rounded to the nearest
// pixel.
func Radius(c, p image.Point) int {
	dx := float64(p.X - c.X)
	dy := float64(p.Y - c.Y)
	return int(math.Round(math.Hypot(dx, dy)))
}

// Circle draws a circle centred on (cx, cy). Thick outlines are drawn as
// concentric rings straddling r.
func Circle(buf *raster.Buffer, cx, cy, r, thick int, col color.RGBA) {
	if thick <= 1 {
		circleThin(buf, cx, cy, r, col)
		return
	}
	start := -(thick - 1) / 2
	for i := 0; i < thick; i++ {
		if rr := r + start + i; rr >= 0 {
			circleThin(buf, cx, cy, rr, col)
		}
	}
}

// circleThin is the midpoint circle algorithm.
func circleThin(buf *raster.Buffer, cx, cy, r int, col color.RGBA) {
	if r == 0 {
		buf.Plot(cx, cy, col)
		return
	}
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		buf.Plot(cx+x, cy+y, col)
		buf.Plot(cx+y, cy+x, col)
		buf.Plot(cx-y, cy+x, col)
		buf.Plot(cx-x, cy+y, col)
		buf.Plot(cx-x, cy-y, col)
		buf.Plot(cx-y, cy-x, col)
		buf.Plot(cx+y, cy-x, col)
		buf.Plot(cx+x, cy-y, col)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
