package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/pixelpad/internal/theme"
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// paintState is everything drawFrame needs. It is built on the event loop and
// handed to the paint goroutine, so it must not share mutable state with the
// session.
type paintState struct {
	width, height int
	theme         *theme.Theme

	canvas *image.RGBA
	view   viewport

	tb        *toolbar
	sel       selection
	shortcuts []Shortcut
	hoverSC   int
	status    string

	message      string
	messageUntil time.Time
}

func (c *controller) paintState() paintState {
	st := paintState{
		width:        c.width,
		height:       c.height,
		theme:        c.theme,
		canvas:       c.s.Frame().RGBA(),
		view:         c.view,
		tb:           c.tb.snapshot(),
		sel:          selection{tool: c.s.Tool(), color: c.s.Color(), width: c.s.Width()},
		hoverSC:      c.hoverSC,
		status:       c.status(),
		message:      c.message,
		messageUntil: c.messageUntil,
	}
	for _, sc := range c.shortcuts {
		st.shortcuts = append(st.shortcuts, *sc)
	}
	return st
}

// snapshot copies the toolbar layout for the paint goroutine. Tool buttons
// are shared; their render caches only depend on the theme and rect.
func (tb *toolbar) snapshot() *toolbar {
	cp := *tb
	cp.swatches = append([]swatch(nil), tb.swatches...)
	cp.widths = append([]widthButton(nil), tb.widths...)
	return &cp
}

// drawBackdrop fills r of dst with the theme's checkerboard.
func drawBackdrop(dst *image.RGBA, r image.Rectangle, th *theme.Theme) {
	drawCheckerboard(dst, r, 8, th.CheckerLight, th.CheckerDark)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	render(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// render draws one frame into dst. It returns early once ctx is canceled.
func render(ctx context.Context, dst *image.RGBA, st paintState) {
	th := st.theme
	area := image.Rect(st.tb.width, 0, st.width, st.height-statusHeight)
	draw.Draw(dst, area, &image.Uniform{th.Background}, image.Point{}, draw.Src)

	cb := st.canvas.Bounds()
	dr := st.view.rect(cb.Dx(), cb.Dy())
	drawBackdrop(dst, dr.Intersect(area), th)
	if ctx.Err() != nil {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, dr, st.canvas, cb, draw.Over, nil)
	strokeRect(dst, dr.Inset(-1).Intersect(area), th.CanvasBorder)
	if ctx.Err() != nil {
		return
	}

	st.tb.draw(dst, th, st.sel)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st.width, st.height, st.message)
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	rect := image.Rect(st.tb.width, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i := range st.shortcuts {
		state := StateDefault
		if i == st.hoverSC {
			state = StateHover
		}
		st.shortcuts[i].Draw(dst, state)
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13}
	tw := d.MeasureString(st.status).Ceil()
	x := st.width - tw - 4
	if n := len(st.shortcuts); n > 0 && x < st.shortcuts[n-1].rect.Max.X+8 {
		// Not enough room beside the shortcuts.
		return
	}
	d.Dot = fixed.P(x, st.height-statusHeight+16)
	d.DrawString(st.status)
}

func drawMessage(dst *image.RGBA, width, height int, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	strokeRect(dst, rect, color.Black)
	strokeRect(dst, rect.Inset(1), color.Black)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
