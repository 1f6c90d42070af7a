// Package fill implements 4-connected flood fill over a raster buffer.
//
// The fill uses an explicit slice-backed work stack rather than recursion, so
// a region covering the whole buffer cannot exhaust the goroutine stack.
package fill

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/pixelpad/internal/raster"
)

// Stats describes the work performed by a fill.
type Stats struct {
	Changed int
	Pushed  int
	Popped  int
	// MaxDepth is the largest size the work stack reached.
	MaxDepth int
}

// Fill repaints the 4-connected region of pixels equal to the colour at
// (x0, y0) with c and returns the number of pixels changed. A seed already
// equal to c is a no-op returning 0.
func Fill(buf *raster.Buffer, x0, y0 int, c color.RGBA) (int, error) {
	st, err := FillStats(buf, x0, y0, c)
	return st.Changed, err
}

// FillStats is Fill with work counters for diagnostics.
func FillStats(buf *raster.Buffer, x0, y0 int, c color.RGBA) (Stats, error) {
	target, err := buf.At(x0, y0)
	if err != nil {
		return Stats{}, fmt.Errorf("fill seed: %w", err)
	}
	if target == c {
		return Stats{}, nil
	}

	var st Stats
	stack := make([]image.Point, 0, 64)
	push := func(x, y int) {
		stack = append(stack, image.Point{x, y})
		st.Pushed++
		if len(stack) > st.MaxDepth {
			st.MaxDepth = len(stack)
		}
	}
	push(x0, y0)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st.Popped++
		// Bounds and colour are checked here rather than at push time: a
		// pixel may be queued several times before it is painted, and once
		// painted it no longer matches target.
		if !buf.Matches(p.X, p.Y, target) {
			continue
		}
		buf.Plot(p.X, p.Y, c)
		st.Changed++
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return st, nil
}
