package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log"
	"strings"
	"testing"

	"github.com/example/pixelpad/internal/raster"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func newSession(t *testing.T, w, h int, opts ...Option) *Session {
	t.Helper()
	s, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetColor(red)
	s.SetWidth(1)
	return s
}

func count(s *Session, c color.RGBA) int {
	f := s.Frame()
	n := 0
	b := f.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if f.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func pixel(t *testing.T, s *Session, x, y int) color.RGBA {
	t.Helper()
	p, err := s.Pixel(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func stroke(t *testing.T, s *Session, pts ...image.Point) {
	t.Helper()
	if err := s.StrokeStart(pts[0].X, pts[0].Y); err != nil {
		t.Fatalf("StrokeStart: %v", err)
	}
	for _, p := range pts[1:] {
		if err := s.StrokeMove(p.X, p.Y); err != nil {
			t.Fatalf("StrokeMove: %v", err)
		}
	}
	if err := s.StrokeEnd(); err != nil {
		t.Fatalf("StrokeEnd: %v", err)
	}
}

func TestNewSessionIsBlank(t *testing.T) {
	s := newSession(t, 8, 6)
	if w, h := s.Size(); w != 8 || h != 6 {
		t.Fatalf("size %dx%d, want 8x6", w, h)
	}
	if n := count(s, White); n != 48 {
		t.Fatalf("%d white pixels, want 48", n)
	}
	if s.History().UndoLen() != 1 {
		t.Fatalf("history len %d, want 1", s.History().UndoLen())
	}
	if _, err := New(0, 5); !errors.Is(err, raster.ErrInvalidSize) {
		t.Fatalf("New(0,5) err = %v, want ErrInvalidSize", err)
	}
}

func TestPencilStrokeCommitsOnce(t *testing.T) {
	s := newSession(t, 8, 8)
	stroke(t, s, image.Pt(1, 1), image.Pt(3, 1), image.Pt(5, 1))
	for x := 1; x <= 5; x++ {
		if p := pixel(t, s, x, 1); p != red {
			t.Fatalf("pixel (%d,1) = %v, want red", x, p)
		}
	}
	if n := count(s, red); n != 5 {
		t.Fatalf("%d red pixels, want 5", n)
	}
	if s.Active() {
		t.Fatal("session still active after StrokeEnd")
	}
	if s.History().UndoLen() != 2 {
		t.Fatalf("history len %d, want 2", s.History().UndoLen())
	}
}

func TestLinePreviewDoesNotAccumulate(t *testing.T) {
	s := newSession(t, 8, 8)
	s.SetTool(ToolLine)
	if err := s.StrokeStart(0, 0); err != nil {
		t.Fatal(err)
	}
	if n := count(s, red); n != 0 {
		t.Fatalf("line start painted %d pixels", n)
	}
	_ = s.StrokeMove(7, 0)
	_ = s.StrokeMove(0, 7)
	if err := s.StrokeEnd(); err != nil {
		t.Fatal(err)
	}
	if n := count(s, red); n != 8 {
		t.Fatalf("%d red pixels, want 8", n)
	}
	for y := 0; y < 8; y++ {
		if p := pixel(t, s, 0, y); p != red {
			t.Fatalf("pixel (0,%d) = %v, want red", y, p)
		}
	}
	if p := pixel(t, s, 7, 0); p != White {
		t.Fatal("earlier preview left on the canvas")
	}
}

func TestRectangleFromAnchorToCurrent(t *testing.T) {
	s := newSession(t, 10, 10)
	s.SetTool(ToolRectangle)
	stroke(t, s, image.Pt(4, 3), image.Pt(8, 8), image.Pt(1, 1))
	if n := count(s, red); n != 10 {
		t.Fatalf("%d red pixels, want 10", n)
	}
	for _, p := range []image.Point{{1, 1}, {4, 1}, {1, 3}, {4, 3}} {
		if got := pixel(t, s, p.X, p.Y); got != red {
			t.Fatalf("corner %v = %v, want red", p, got)
		}
	}
}

func TestCircleRadiusIsDistanceToCurrent(t *testing.T) {
	s := newSession(t, 21, 21)
	s.SetTool(ToolCircle)
	stroke(t, s, image.Pt(10, 10), image.Pt(13, 14))
	for _, p := range []image.Point{{15, 10}, {5, 10}, {10, 15}, {10, 5}} {
		if got := pixel(t, s, p.X, p.Y); got != red {
			t.Fatalf("point %v = %v, want red", p, got)
		}
	}
	if got := pixel(t, s, 10, 10); got != White {
		t.Fatal("circle centre painted")
	}
}

func TestEraserPaintsBackground(t *testing.T) {
	s := newSession(t, 6, 6)
	if err := s.Clear(blue); err != nil {
		t.Fatal(err)
	}
	s.SetTool(ToolEraser)
	stroke(t, s, image.Pt(0, 2), image.Pt(5, 2))
	if n := count(s, White); n != 6 {
		t.Fatalf("%d erased pixels, want 6", n)
	}
	if s.History().UndoLen() != 3 {
		t.Fatalf("history len %d, want 3", s.History().UndoLen())
	}
}

func TestAbandonRestoresPreStroke(t *testing.T) {
	for _, tool := range []Tool{ToolPencil, ToolLine, ToolRectangle, ToolCircle, ToolEraser} {
		t.Run(tool.String(), func(t *testing.T) {
			s := newSession(t, 10, 10)
			stroke(t, s, image.Pt(0, 0), image.Pt(9, 0))
			before := s.Frame().RGBA()
			s.SetTool(tool)
			s.SetColor(blue)
			if err := s.StrokeStart(5, 5); err != nil {
				t.Fatal(err)
			}
			_ = s.StrokeMove(8, 8)
			_ = s.StrokeMove(2, 9)
			s.Abandon()
			if s.Active() {
				t.Fatal("still active after Abandon")
			}
			if !bytes.Equal(before.Pix, s.Frame().RGBA().Pix) {
				t.Fatal("abandoned stroke left pixels behind")
			}
			if s.History().UndoLen() != 2 {
				t.Fatalf("abandon committed: history len %d", s.History().UndoLen())
			}
		})
	}
}

func TestToolChangeMidStrokeKeepsStrokeTool(t *testing.T) {
	s := newSession(t, 8, 8)
	s.SetTool(ToolLine)
	if err := s.StrokeStart(0, 0); err != nil {
		t.Fatal(err)
	}
	s.SetTool(ToolPencil)
	_ = s.StrokeMove(0, 7)
	_ = s.StrokeMove(7, 7)
	_ = s.StrokeEnd()
	// A line from (0,0) to (7,7) only; the pencil path would have left the
	// left column painted.
	if n := count(s, red); n != 8 {
		t.Fatalf("%d red pixels, want 8", n)
	}
	if s.Tool() != ToolPencil {
		t.Fatalf("selected tool = %v, want pencil", s.Tool())
	}
}

func TestStrokeStartOutOfBounds(t *testing.T) {
	s := newSession(t, 4, 4)
	if err := s.StrokeStart(4, 0); !errors.Is(err, raster.ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if s.Active() {
		t.Fatal("out of bounds start activated the session")
	}
	if err := s.StrokeEnd(); err != nil {
		t.Fatal(err)
	}
	if s.History().UndoLen() != 1 {
		t.Fatal("idle StrokeEnd committed")
	}
}

func TestStrokeMayLeaveSurface(t *testing.T) {
	s := newSession(t, 5, 5)
	if err := s.StrokeStart(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.StrokeMove(-20, 2); err != nil {
		t.Fatalf("move off surface: %v", err)
	}
	if err := s.StrokeEnd(); err != nil {
		t.Fatal(err)
	}
	if n := count(s, red); n != 3 {
		t.Fatalf("%d red pixels, want 3", n)
	}
}

func TestFillCommitsAtomically(t *testing.T) {
	s := newSession(t, 8, 8)
	s.SetTool(ToolFill)
	if err := s.StrokeStart(0, 0); err != nil {
		t.Fatal(err)
	}
	if s.Active() {
		t.Fatal("fill entered the active state")
	}
	if n := count(s, red); n != 64 {
		t.Fatalf("%d red pixels, want 64", n)
	}
	if s.History().UndoLen() != 2 {
		t.Fatalf("history len %d, want 2", s.History().UndoLen())
	}
	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if n := count(s, White); n != 64 {
		t.Fatalf("undo left %d white pixels, want 64", n)
	}
}

func TestNoOpFillIsNotCommitted(t *testing.T) {
	s := newSession(t, 8, 8)
	s.SetColor(White)
	n, err := s.Fill(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("changed %d pixels, want 0", n)
	}
	if s.History().UndoLen() != 1 {
		t.Fatalf("no-op fill committed: history len %d", s.History().UndoLen())
	}
}

func TestUnchangedStrokeIsNotCommitted(t *testing.T) {
	for _, tool := range []Tool{ToolLine, ToolRectangle, ToolCircle} {
		t.Run(tool.String()+" click", func(t *testing.T) {
			s := newSession(t, 8, 8)
			s.SetTool(tool)
			stroke(t, s, image.Pt(4, 4))
			if s.Active() {
				t.Fatal("stroke still active")
			}
			if s.History().UndoLen() != 1 {
				t.Fatalf("unchanged stroke committed: history len %d", s.History().UndoLen())
			}
		})
	}
	t.Run("pencil in canvas colour", func(t *testing.T) {
		s := newSession(t, 8, 8)
		s.SetColor(White)
		stroke(t, s, image.Pt(0, 0), image.Pt(7, 7))
		if s.History().UndoLen() != 1 {
			t.Fatalf("unchanged stroke committed: history len %d", s.History().UndoLen())
		}
	})
}

func TestSetToolIgnoresUnknownTool(t *testing.T) {
	s := newSession(t, 8, 8)
	s.SetTool(ToolLine)
	s.SetTool(Tool(42))
	s.SetTool(Tool(-1))
	if s.Tool() != ToolLine {
		t.Fatalf("tool = %v, want line", s.Tool())
	}
	stroke(t, s, image.Pt(0, 0), image.Pt(7, 0))
	if n := count(s, red); n != 8 {
		t.Fatalf("%d red pixels, want 8", n)
	}
	if s.History().UndoLen() != 2 {
		t.Fatalf("history len %d, want 2", s.History().UndoLen())
	}
}

func TestFillOutOfBounds(t *testing.T) {
	s := newSession(t, 8, 8)
	if _, err := s.Fill(-1, 3); !errors.Is(err, raster.ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if s.History().UndoLen() != 1 || count(s, White) != 64 {
		t.Fatal("failed fill changed state")
	}
}

func TestUndoRedoThroughSession(t *testing.T) {
	s := newSession(t, 6, 6)
	stroke(t, s, image.Pt(0, 0), image.Pt(5, 0))
	afterFirst := s.Frame().RGBA()
	s.SetColor(blue)
	stroke(t, s, image.Pt(0, 5), image.Pt(5, 5))
	afterSecond := s.Frame().RGBA()

	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if !bytes.Equal(s.Frame().RGBA().Pix, afterFirst.Pix) {
		t.Fatal("undo did not restore the first stroke state")
	}
	if !s.Redo() {
		t.Fatal("redo failed")
	}
	if !bytes.Equal(s.Frame().RGBA().Pix, afterSecond.Pix) {
		t.Fatal("redo did not restore the second stroke state")
	}

	s.Undo()
	stroke(t, s, image.Pt(2, 2), image.Pt(3, 3))
	if s.Redo() {
		t.Fatal("redo survived a new commit")
	}
}

func TestUndoAbandonsActiveStroke(t *testing.T) {
	s := newSession(t, 6, 6)
	stroke(t, s, image.Pt(0, 0), image.Pt(5, 0))
	if err := s.StrokeStart(0, 3); err != nil {
		t.Fatal(err)
	}
	_ = s.StrokeMove(5, 3)
	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if s.Active() {
		t.Fatal("undo left the stroke active")
	}
	if n := count(s, White); n != 36 {
		t.Fatalf("%d white pixels after undo, want 36", n)
	}
}

func TestUndoFloorIsBlankCanvas(t *testing.T) {
	s := newSession(t, 5, 5, WithCapacity(6), WithCompression(true))
	for i := 0; i < 7; i++ {
		stroke(t, s, image.Pt(i%5, 0), image.Pt(i%5, 4))
	}
	if s.History().UndoLen() != 6 {
		t.Fatalf("history len %d, want 6", s.History().UndoLen())
	}
	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != 5 {
		t.Fatalf("undid %d strokes, want 5", undone)
	}
	if n := count(s, White); n != 25 {
		t.Fatalf("floor has %d white pixels, want 25", n)
	}
}

func TestSettersClamp(t *testing.T) {
	s := newSession(t, 2, 2)
	s.SetWidth(0)
	if s.Width() != MinWidth {
		t.Fatalf("width = %d, want %d", s.Width(), MinWidth)
	}
	s.SetWidth(99)
	if s.Width() != MaxWidth {
		t.Fatalf("width = %d, want %d", s.Width(), MaxWidth)
	}
	s.SetColor(color.RGBA{1, 2, 3, 0})
	if c := s.Color(); c != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("color = %v, want opaque", c)
	}
}

func TestWithBaseAndLogger(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 3, 2))
	base.SetRGBA(2, 1, blue)
	var logs bytes.Buffer
	s := newSession(t, 100, 100, WithBase(base), WithLogger(log.New(&logs, "", 0)))
	if w, h := s.Size(); w != 3 || h != 2 {
		t.Fatalf("size %dx%d, want 3x2", w, h)
	}
	if p := pixel(t, s, 2, 1); p != blue {
		t.Fatalf("base pixel = %v, want blue", p)
	}
	stroke(t, s, image.Pt(0, 0))
	if !strings.Contains(logs.String(), "commit pencil stroke") {
		t.Fatalf("logger output %q", logs.String())
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(strings.ToUpper(tool.String()))
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool.String(), got, err)
		}
	}
	if got, _ := ParseTool("rect"); got != ToolRectangle {
		t.Errorf("rect alias = %v", got)
	}
	if _, err := ParseTool("spray"); err == nil {
		t.Error("unknown tool accepted")
	}
}
