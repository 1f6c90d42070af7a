package fill

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/pixelpad/internal/raster"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func whiteBuffer(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	b, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	b.FillAll(white)
	return b
}

func TestFillWholeWhiteBuffer(t *testing.T) {
	b := whiteBuffer(t, 8, 8)
	n, err := Fill(b, 0, 0, red)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if n != 64 {
		t.Fatalf("changed %d pixels, want 64", n)
	}
	if got := b.Count(red); got != 64 {
		t.Fatalf("%d red pixels, want 64", got)
	}
}

func TestFillIsIdempotent(t *testing.T) {
	b := whiteBuffer(t, 8, 8)
	if _, err := Fill(b, 3, 3, red); err != nil {
		t.Fatal(err)
	}
	before := b.Clone()
	n, err := Fill(b, 5, 1, red)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("second fill changed %d pixels, want 0", n)
	}
	if !b.Equal(before) {
		t.Fatal("no-op fill modified the buffer")
	}
}

func TestFillOutOfBoundsLeavesBufferUntouched(t *testing.T) {
	b := whiteBuffer(t, 4, 4)
	for _, pt := range []image.Point{{-1, 0}, {4, 0}, {0, 4}, {0, -1}} {
		n, err := Fill(b, pt.X, pt.Y, red)
		if !errors.Is(err, raster.ErrOutOfBounds) {
			t.Errorf("Fill%v err = %v, want ErrOutOfBounds", pt, err)
		}
		if n != 0 {
			t.Errorf("Fill%v changed %d pixels", pt, n)
		}
	}
	if b.Count(white) != 16 {
		t.Fatal("failed fill modified the buffer")
	}
}

// diagonalBuffer draws a black line from (0,0) to (n-1,n-1). Under
// 4-connectivity the line separates the upper-right and lower-left triangles.
func diagonalBuffer(t *testing.T, n int) *raster.Buffer {
	b := whiteBuffer(t, n, n)
	for i := 0; i < n; i++ {
		if err := b.Set(i, i, black); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestFillStopsAtDiagonalLine(t *testing.T) {
	const n = 8
	b := diagonalBuffer(t, n)
	changed, err := Fill(b, n-1, 0, blue)
	if err != nil {
		t.Fatal(err)
	}
	want := n * (n - 1) / 2
	if changed != want {
		t.Fatalf("changed %d pixels, want %d", changed, want)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			got, _ := b.At(x, y)
			var exp color.RGBA
			switch {
			case x == y:
				exp = black
			case x > y:
				exp = blue
			default:
				exp = white
			}
			if got != exp {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, exp)
			}
		}
	}
}

func TestFillNeverLeavesConnectedComponent(t *testing.T) {
	b := whiteBuffer(t, 12, 9)
	// A closed black ring plus scattered dots outside it.
	for x := 3; x <= 9; x++ {
		_ = b.Set(x, 2, black)
		_ = b.Set(x, 6, black)
	}
	for y := 2; y <= 6; y++ {
		_ = b.Set(3, y, black)
		_ = b.Set(9, y, black)
	}
	_ = b.Set(0, 8, black)
	_ = b.Set(11, 0, black)

	inRegion := map[image.Point]bool{}
	for y := 3; y <= 5; y++ {
		for x := 4; x <= 8; x++ {
			inRegion[image.Pt(x, y)] = true
		}
	}
	before := b.Clone()
	n, err := Fill(b, 6, 4, red)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(inRegion) {
		t.Fatalf("changed %d pixels, want %d", n, len(inRegion))
	}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			was, _ := before.At(x, y)
			now, _ := b.At(x, y)
			changed := was != now
			if changed != inRegion[image.Pt(x, y)] {
				t.Fatalf("pixel (%d,%d) changed=%v but in region=%v", x, y, changed, inRegion[image.Pt(x, y)])
			}
		}
	}
}

func TestFillIgnoresDiagonalNeighbours(t *testing.T) {
	b := whiteBuffer(t, 3, 3)
	// Checkerboard: white cells only touch at corners.
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if (x+y)%2 == 1 {
				_ = b.Set(x, y, black)
			}
		}
	}
	n, err := Fill(b, 1, 1, red)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("changed %d pixels, want 1", n)
	}
}

func TestFillLargeBufferDoesNotRecurse(t *testing.T) {
	b := whiteBuffer(t, 1024, 768)
	st, err := FillStats(b, 512, 384, blue)
	if err != nil {
		t.Fatal(err)
	}
	if st.Changed != 1024*768 {
		t.Fatalf("changed %d, want %d", st.Changed, 1024*768)
	}
	if st.Popped != st.Pushed {
		t.Fatalf("pushed %d but popped %d", st.Pushed, st.Popped)
	}
	// Every painted pixel pushes four neighbours, plus the seed.
	if st.Pushed != 4*st.Changed+1 {
		t.Fatalf("pushed %d, want %d", st.Pushed, 4*st.Changed+1)
	}
}
