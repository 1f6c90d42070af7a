package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/pixelpad/internal/config"
	"github.com/example/pixelpad/internal/session"
	"github.com/example/pixelpad/internal/theme"
)

const (
	titleHeight  = 24
	statusHeight = 24
	buttonHeight = 24
	swatchSize   = 16
	swatchStride = 18
	widthRow     = 16
)

// widthOptions are the stroke widths offered in the toolbar.
var widthOptions = []int{1, 2, 4, 6, 8, 12, 20}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

// ToolButton represents a toolbar button that selects a drawing tool.
type ToolButton struct {
	label string
	tool  session.Tool
	rect  image.Rectangle
	theme *theme.Theme
	// onSelect is called when the button is activated.
	onSelect func(session.Tool)
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, tb.rect, &image.Uniform{buttonFill(tb.theme, state)}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(tb.theme.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(tb.label)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect(tb.tool)
	}
}

// Shortcut is a clickable status bar label bound to a keyboard action.
type Shortcut struct {
	label  string
	action func()
	rect   image.Rectangle
	theme  *theme.Theme
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{buttonFill(s.theme, state)}, image.Point{}, draw.Src)
	strokeRect(dst, s.rect, s.theme.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(s.theme.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// toolLabels pairs each tool with its keyboard letter.
var toolLabels = map[session.Tool]string{
	session.ToolPencil:    "P:Pencil",
	session.ToolLine:      "L:Line",
	session.ToolRectangle: "R:Rect",
	session.ToolCircle:    "C:Circle",
	session.ToolEraser:    "E:Eraser",
	session.ToolFill:      "F:Fill",
}

type hitKind int

const (
	hitNone hitKind = iota
	hitTool
	hitSwatch
	hitWidth
)

type hit struct {
	kind hitKind
	idx  int
}

type swatch struct {
	config.PaletteColor
	rect image.Rectangle
}

type widthButton struct {
	width int
	rect  image.Rectangle
}

// toolbar is the left column: title, tool buttons, palette and stroke widths.
type toolbar struct {
	width    int
	tools    []*CacheButton
	swatches []swatch
	widths   []widthButton
	hover    hit
}

func newToolbar(th *theme.Theme, onSelect func(session.Tool)) *toolbar {
	// Wide enough for the program title and every tool label.
	d := &font.Drawer{Face: basicfont.Face7x13}
	tb := &toolbar{width: d.MeasureString("PixelPad").Ceil() + 8}
	for _, t := range session.Tools() {
		if w := d.MeasureString(toolLabels[t]).Ceil() + 8; w > tb.width {
			tb.width = w
		}
		tb.tools = append(tb.tools, &CacheButton{Button: &ToolButton{
			label: toolLabels[t], tool: t, theme: th, onSelect: onSelect,
		}})
	}
	tb.layout()
	return tb
}

func (tb *toolbar) layout() {
	y := titleHeight
	for _, cb := range tb.tools {
		cb.SetRect(image.Rect(0, y, tb.width, y+buttonHeight))
		y += buttonHeight
	}

	y += 4
	x := 4
	tb.swatches = tb.swatches[:0]
	for _, p := range config.Palette() {
		if x+swatchSize > tb.width {
			x = 4
			y += swatchStride
		}
		tb.swatches = append(tb.swatches, swatch{PaletteColor: p, rect: image.Rect(x, y, x+swatchSize, y+swatchSize)})
		x += swatchStride
	}
	y += swatchStride + 4

	tb.widths = tb.widths[:0]
	for _, w := range widthOptions {
		tb.widths = append(tb.widths, widthButton{width: w, rect: image.Rect(0, y, tb.width, y+widthRow)})
		y += widthRow
	}
}

// height is the minimum window height that shows the whole toolbar.
func (tb *toolbar) height() int {
	return tb.widths[len(tb.widths)-1].rect.Max.Y + statusHeight
}

func (tb *toolbar) hitTest(p image.Point) hit {
	if p.X < 0 || p.X >= tb.width {
		return hit{}
	}
	for i, cb := range tb.tools {
		if p.In(cb.Rect()) {
			return hit{hitTool, i}
		}
	}
	for i, s := range tb.swatches {
		if p.In(s.rect) {
			return hit{hitSwatch, i}
		}
	}
	for i, w := range tb.widths {
		if p.In(w.rect) {
			return hit{hitWidth, i}
		}
	}
	return hit{}
}

// activate applies a toolbar hit to the session.
func (tb *toolbar) activate(h hit, s *session.Session) {
	switch h.kind {
	case hitTool:
		tb.tools[h.idx].Activate()
	case hitSwatch:
		s.SetColor(tb.swatches[h.idx].Color)
	case hitWidth:
		s.SetWidth(tb.widths[h.idx].width)
	}
}

type selection struct {
	tool  session.Tool
	color color.RGBA
	width int
}

func (tb *toolbar) draw(dst *image.RGBA, th *theme.Theme, sel selection) {
	draw.Draw(dst, image.Rect(0, 0, tb.width, dst.Bounds().Max.Y),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	title := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	title.DrawString("PixelPad")

	for i, cb := range tb.tools {
		state := StateDefault
		if cb.Button.(*ToolButton).tool == sel.tool {
			state = StatePressed
		} else if tb.hover == (hit{hitTool, i}) {
			state = StateHover
		}
		cb.Draw(dst, state)
	}

	for i, s := range tb.swatches {
		draw.Draw(dst, s.rect, &image.Uniform{s.Color}, image.Point{}, draw.Src)
		if tb.hover == (hit{hitSwatch, i}) {
			draw.Draw(dst, s.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if s.Color == sel.color {
			strokeRect(dst, s.rect, color.RGBA{255, 255, 255, 255})
			strokeRect(dst, s.rect.Inset(-1), th.ButtonBorder)
		}
	}

	for i, w := range tb.widths {
		state := StateDefault
		if w.width == sel.width {
			state = StatePressed
		} else if tb.hover == (hit{hitWidth, i}) {
			state = StateHover
		}
		draw.Draw(dst, w.rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
			Dot: fixed.P(4, w.rect.Min.Y+12)}
		d.DrawString(fmt.Sprintf("%d", w.width))
		// Sample stroke, capped to the row height.
		thick := w.width
		if thick > widthRow-4 {
			thick = widthRow - 4
		}
		mid := w.rect.Min.Y + widthRow/2
		sample := image.Rect(30, mid-thick/2, tb.width-4, mid-thick/2+thick)
		draw.Draw(dst, sample, &image.Uniform{sel.color}, image.Point{}, draw.Src)
	}
}

// strokeRect outlines r one pixel wide, inside its bounds.
func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}
