package shapes

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/pixelpad/internal/raster"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	ink   = color.RGBA{10, 20, 30, 255}
)

func canvas(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	b, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	b.FillAll(white)
	return b
}

func isInk(b *raster.Buffer, x, y int) bool {
	return b.Matches(x, y, ink)
}

func TestDabFootprint(t *testing.T) {
	tests := []struct {
		thick int
		want  int
	}{
		{0, 1}, {1, 1}, {2, 4}, {3, 9}, {4, 16},
	}
	for _, tt := range tests {
		b := canvas(t, 10, 10)
		Dab(b, 5, 5, tt.thick, ink)
		if got := b.Count(ink); got != tt.want {
			t.Errorf("thick %d painted %d pixels, want %d", tt.thick, got, tt.want)
		}
		if !isInk(b, 5, 5) {
			t.Errorf("thick %d missed the centre", tt.thick)
		}
	}
}

func TestLineEndpointsIncluded(t *testing.T) {
	b := canvas(t, 10, 10)
	Line(b, 1, 2, 6, 2, 1, ink)
	if got := b.Count(ink); got != 6 {
		t.Fatalf("horizontal line painted %d pixels, want 6", got)
	}
	b = canvas(t, 10, 10)
	Line(b, 7, 7, 0, 0, 1, ink)
	for i := 0; i <= 7; i++ {
		if !isInk(b, i, i) {
			t.Fatalf("diagonal missing (%d,%d)", i, i)
		}
	}
	if got := b.Count(ink); got != 8 {
		t.Fatalf("diagonal painted %d pixels, want 8", got)
	}
}

func TestLineClipsOutsideBuffer(t *testing.T) {
	b := canvas(t, 4, 4)
	Line(b, -10, 1, 20, 1, 3, ink)
	if got := b.Count(ink); got != 12 {
		t.Fatalf("clipped thick line painted %d pixels, want 12", got)
	}
}

func TestRectOutline(t *testing.T) {
	b := canvas(t, 10, 10)
	Rect(b, image.Pt(4, 3), image.Pt(1, 1), 1, ink)
	if got := b.Count(ink); got != 10 {
		t.Fatalf("rect painted %d pixels, want 10", got)
	}
	for _, p := range []image.Point{{1, 1}, {4, 1}, {1, 3}, {4, 3}} {
		if !isInk(b, p.X, p.Y) {
			t.Fatalf("corner %v not painted", p)
		}
	}
	if isInk(b, 2, 2) {
		t.Fatal("rect interior painted")
	}
}

func TestRadiusRounds(t *testing.T) {
	c := image.Pt(0, 0)
	if r := Radius(c, image.Pt(3, 4)); r != 5 {
		t.Fatalf("radius = %d, want 5", r)
	}
	if r := Radius(c, image.Pt(1, 1)); r != 1 {
		t.Fatalf("radius = %d, want 1", r)
	}
	if r := Radius(c, image.Pt(2, 2)); r != 3 {
		t.Fatalf("radius = %d, want 3", r)
	}
}

func TestCircleCardinalPoints(t *testing.T) {
	b := canvas(t, 11, 11)
	Circle(b, 5, 5, 3, 1, ink)
	for _, p := range []image.Point{{8, 5}, {2, 5}, {5, 8}, {5, 2}} {
		if !isInk(b, p.X, p.Y) {
			t.Fatalf("cardinal point %v not painted", p)
		}
	}
	if isInk(b, 5, 5) {
		t.Fatal("circle centre painted")
	}
	for y := 0; y < 11; y++ {
		for x := 0; x < 11; x++ {
			if !isInk(b, x, y) {
				continue
			}
			if r := Radius(image.Pt(5, 5), image.Pt(x, y)); r < 2 || r > 4 {
				t.Fatalf("pixel (%d,%d) at distance %d from centre", x, y, r)
			}
		}
	}
}

func TestCircleZeroRadius(t *testing.T) {
	b := canvas(t, 3, 3)
	Circle(b, 1, 1, 0, 1, ink)
	if got := b.Count(ink); got != 1 || !isInk(b, 1, 1) {
		t.Fatalf("zero radius circle painted %d pixels", got)
	}
}
