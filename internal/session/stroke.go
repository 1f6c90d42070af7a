package session

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/pixelpad/internal/fill"
	"github.com/example/pixelpad/internal/raster"
	"github.com/example/pixelpad/internal/shapes"
)

// StrokeStart begins a stroke at (x, y) with the selected tool. The fill tool
// paints and commits immediately without entering the active state. An
// unfinished earlier stroke is abandoned first.
func (s *Session) StrokeStart(x, y int) error {
	if !s.buf.In(x, y) {
		return fmt.Errorf("stroke start (%d,%d): %w", x, y, raster.ErrOutOfBounds)
	}
	if s.active {
		s.Abandon()
	}
	if s.tool == ToolFill {
		_, err := s.Fill(x, y)
		return err
	}

	s.active = true
	s.strokeTool = s.tool
	s.anchor = image.Pt(x, y)
	s.last = s.anchor
	s.preStroke = s.buf.Clone()
	if s.strokeTool.freehand() {
		shapes.Dab(s.buf, x, y, s.width, s.inkFor(s.strokeTool))
	}
	return nil
}

// StrokeMove extends the active stroke to (x, y). Points outside the buffer
// are clipped rather than rejected so a pointer can leave and re-enter the
// surface mid-stroke. Without an active stroke it does nothing.
func (s *Session) StrokeMove(x, y int) error {
	if !s.active {
		return nil
	}
	p := image.Pt(x, y)
	switch {
	case s.strokeTool.freehand():
		shapes.Line(s.buf, s.last.X, s.last.Y, p.X, p.Y, s.width, s.inkFor(s.strokeTool))
	case s.strokeTool.shape():
		if err := s.buf.RestoreFrom(s.preStroke); err != nil {
			return fmt.Errorf("stroke preview: %w", err)
		}
		s.drawShape(p)
	}
	s.last = p
	return nil
}

// StrokeEnd finishes the active stroke and commits the buffer to history.
// Without an active stroke, or when the stroke left every pixel as it was, it
// does nothing.
func (s *Session) StrokeEnd() error {
	if !s.active {
		return nil
	}
	pre := s.preStroke
	s.release()
	if s.buf.Equal(pre) {
		s.logger.Printf("%s stroke changed nothing; not committed", s.strokeTool)
		return nil
	}
	if err := s.hist.Commit(s.buf.Snapshot()); err != nil {
		// Keep the buffer in step with the history top.
		_ = s.buf.RestoreFrom(pre)
		return fmt.Errorf("stroke end: %w", err)
	}
	s.logger.Printf("commit %s stroke: history %d/%d", s.strokeTool, s.hist.UndoLen(), s.hist.Capacity())
	return nil
}

// Abandon discards the active stroke, restoring the buffer to its state at
// StrokeStart. Nothing is committed.
func (s *Session) Abandon() {
	if !s.active {
		return
	}
	_ = s.buf.RestoreFrom(s.preStroke)
	s.release()
	s.logger.Printf("abandoned %s stroke", s.strokeTool)
}

func (s *Session) release() {
	s.active = false
	s.preStroke = nil
}

// Fill flood-fills the region at (x, y) with the paint colour and commits the
// result as one history entry. A fill that changes no pixels is not
// committed.
func (s *Session) Fill(x, y int) (int, error) {
	if s.active {
		s.Abandon()
	}
	st, err := fill.FillStats(s.buf, x, y, s.color)
	if err != nil {
		return 0, err
	}
	if st.Changed == 0 {
		s.logger.Printf("fill at (%d,%d) changed nothing; not committed", x, y)
		return 0, nil
	}
	if err := s.hist.Commit(s.buf.Snapshot()); err != nil {
		s.mustRestore(s.hist.Current())
		return 0, fmt.Errorf("fill commit: %w", err)
	}
	s.logger.Printf("commit fill at (%d,%d): %d pixels, stack depth %d, history %d/%d",
		x, y, st.Changed, st.MaxDepth, s.hist.UndoLen(), s.hist.Capacity())
	return st.Changed, nil
}

// Clear paints the whole canvas with c and commits it.
func (s *Session) Clear(c color.RGBA) error {
	if s.active {
		s.Abandon()
	}
	s.buf.FillAll(c)
	if err := s.hist.Commit(s.buf.Snapshot()); err != nil {
		s.mustRestore(s.hist.Current())
		return fmt.Errorf("clear commit: %w", err)
	}
	s.logger.Printf("commit clear: history %d/%d", s.hist.UndoLen(), s.hist.Capacity())
	return nil
}

// Undo restores the previous committed state. An active stroke is abandoned
// first. It reports false when already at the initial canvas.
func (s *Session) Undo() bool {
	s.Abandon()
	snap, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.mustRestore(snap)
	s.logger.Printf("undo: history %d/%d, redo %d", s.hist.UndoLen(), s.hist.Capacity(), s.hist.RedoLen())
	return true
}

// Redo re-applies the most recently undone state. It reports false when
// there is nothing to redo.
func (s *Session) Redo() bool {
	s.Abandon()
	snap, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.mustRestore(snap)
	s.logger.Printf("redo: history %d/%d, redo %d", s.hist.UndoLen(), s.hist.Capacity(), s.hist.RedoLen())
	return true
}

// mustRestore panics on a size mismatch, which cannot happen for snapshots
// taken from this session's fixed-size buffer.
func (s *Session) mustRestore(snap raster.Snapshot) {
	if err := s.buf.Restore(snap); err != nil {
		panic(fmt.Errorf("session: %w", err))
	}
}

func (s *Session) inkFor(t Tool) color.RGBA {
	if t == ToolEraser {
		return s.background
	}
	return s.color
}

// drawShape renders the active shape tool's figure from the anchor to p.
func (s *Session) drawShape(p image.Point) {
	switch s.strokeTool {
	case ToolLine:
		shapes.Line(s.buf, s.anchor.X, s.anchor.Y, p.X, p.Y, s.width, s.color)
	case ToolRectangle:
		shapes.Rect(s.buf, s.anchor, p, s.width, s.color)
	case ToolCircle:
		shapes.Circle(s.buf, s.anchor.X, s.anchor.Y, shapes.Radius(s.anchor, p), s.width, s.color)
	}
}
