// Package session turns pointer strokes into buffer edits and history commits.
//
// A Session owns the live buffer and its history. Strokes move the session
// from idle to active on StrokeStart and back on StrokeEnd; only StrokeEnd,
// Fill and Clear commit to history. A Session is not safe for concurrent use:
// callers deliver events from a single goroutine.
package session

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"

	"github.com/example/pixelpad/internal/history"
	"github.com/example/pixelpad/internal/raster"
)

// Stroke width bounds.
const (
	MinWidth     = 1
	MaxWidth     = 20
	DefaultWidth = 2
)

var (
	// White is the default background colour.
	White = color.RGBA{255, 255, 255, 255}
	// Black is the default paint colour.
	Black = color.RGBA{0, 0, 0, 255}
)

// Session is the editing state of one canvas.
type Session struct {
	buf  *raster.Buffer
	hist *history.Store

	background color.RGBA
	tool       Tool
	color      color.RGBA
	width      int

	active     bool
	strokeTool Tool
	anchor     image.Point
	last       image.Point
	// preStroke is the buffer as it was when the active stroke started. It is
	// only held between StrokeStart and StrokeEnd or Abandon.
	preStroke *raster.Buffer

	logger *log.Logger
}

type options struct {
	capacity   int
	codec      history.Codec
	background color.RGBA
	base       image.Image
	logger     *log.Logger
}

// Option configures a Session during creation.
type Option func(*options)

// WithCapacity bounds the undo history, counting the initial canvas.
func WithCapacity(n int) Option { return func(o *options) { o.capacity = n } }

// WithCompression keeps history entries zstd-compressed when enabled.
func WithCompression(on bool) Option {
	return func(o *options) {
		if on {
			o.codec = history.ZstdCodec{}
		} else {
			o.codec = history.RawCodec{}
		}
	}
}

// WithBackground sets the blank canvas colour, also used by the eraser.
func WithBackground(c color.RGBA) Option { return func(o *options) { o.background = c } }

// WithBase seeds the canvas from img instead of a blank background. The
// canvas takes the size of img.
func WithBase(img image.Image) Option { return func(o *options) { o.base = img } }

// WithLogger receives commit and history diagnostics.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// New creates a session over a blank width x height canvas. The blank canvas
// is the initial, permanently undoable history entry.
func New(width, height int, opts ...Option) (*Session, error) {
	o := options{
		capacity:   history.DefaultCapacity,
		codec:      history.RawCodec{},
		background: White,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}

	var (
		buf *raster.Buffer
		err error
	)
	if o.base != nil {
		buf, err = raster.FromImage(o.base)
	} else {
		buf, err = raster.New(width, height)
		if err == nil {
			buf.FillAll(o.background)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	hist, err := history.New(buf.Snapshot(), history.WithCapacity(o.capacity), history.WithCodec(o.codec))
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return &Session{
		buf:        buf,
		hist:       hist,
		background: o.background,
		tool:       ToolPencil,
		color:      Black,
		width:      DefaultWidth,
		logger:     o.logger,
	}, nil
}

// SetTool selects the tool for the next stroke. An active stroke keeps the
// tool it started with. Values outside Tools are ignored.
func (s *Session) SetTool(t Tool) {
	if !t.valid() {
		s.logger.Printf("ignoring unknown tool %v", t)
		return
	}
	s.tool = t
}

// Tool returns the selected tool.
func (s *Session) Tool() Tool { return s.tool }

// SetColor sets the paint colour. Only the RGB channels are used; paint is
// always opaque.
func (s *Session) SetColor(c color.RGBA) {
	c.A = 255
	s.color = c
}

// Color returns the paint colour.
func (s *Session) Color() color.RGBA { return s.color }

// SetWidth sets the stroke width, clamped to [MinWidth, MaxWidth].
func (s *Session) SetWidth(w int) {
	if w < MinWidth {
		w = MinWidth
	}
	if w > MaxWidth {
		w = MaxWidth
	}
	s.width = w
}

// Width returns the stroke width.
func (s *Session) Width() int { return s.width }

// Background returns the canvas background colour.
func (s *Session) Background() color.RGBA { return s.background }

// Active reports whether a stroke is in progress.
func (s *Session) Active() bool { return s.active }

// Frame returns a read-only view of the live buffer.
func (s *Session) Frame() *raster.View { return s.buf.Frame() }

// Size returns the canvas dimensions.
func (s *Session) Size() (int, int) { return s.buf.Width(), s.buf.Height() }

// Pixel returns the live pixel at (x, y).
func (s *Session) Pixel(x, y int) (color.RGBA, error) { return s.buf.At(x, y) }

// History exposes the undo history for inspection.
func (s *Session) History() *history.Store { return s.hist }
