package appstate

import (
	"fmt"
	"image"
	"log"
	"time"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelpad/internal/config"
	"github.com/example/pixelpad/internal/session"
	"github.com/example/pixelpad/internal/theme"
)

const (
	minZoom = 1
	maxZoom = 8
	// messageDuration is how long an overlay message stays on screen.
	messageDuration = 2 * time.Second
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// viewport maps window pixels to canvas pixels. Canvas pixel (0,0) is drawn
// at origin and every canvas pixel covers zoom×zoom window pixels.
type viewport struct {
	origin image.Point
	zoom   int
}

func (v viewport) toCanvas(p image.Point) image.Point {
	d := p.Sub(v.origin)
	return image.Pt(floorDiv(d.X, v.zoom), floorDiv(d.Y, v.zoom))
}

// rect is the window rectangle covered by a w×h canvas.
func (v viewport) rect(w, h int) image.Rectangle {
	return image.Rect(v.origin.X, v.origin.Y, v.origin.X+w*v.zoom, v.origin.Y+h*v.zoom)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// controller turns window input into session operations. It runs on the
// event loop goroutine only.
type controller struct {
	s     *session.Session
	theme *theme.Theme
	tb    *toolbar

	width, height int
	view          viewport

	actions   map[string]func()
	keys      map[KeyShortcut]string
	shortcuts []*Shortcut
	hoverSC   int

	// drawing is set while the left button holds an active stroke.
	drawing bool

	message      string
	messageUntil time.Time
	now          func() time.Time

	save func() (string, error)
	copy func() error
	quit bool
}

func newController(s *session.Session, th *theme.Theme, save func() (string, error), cp func() error) *controller {
	c := &controller{
		s:       s,
		theme:   th,
		view:    viewport{zoom: 1},
		hoverSC: -1,
		now:     time.Now,
		save:    save,
		copy:    cp,
	}
	c.tb = newToolbar(th, c.selectTool)
	c.view.origin = image.Pt(c.tb.width, 0)
	c.registerActions()
	c.resize(c.windowSize())
	return c
}

// windowSize is the initial window size that shows the whole canvas at zoom 1.
func (c *controller) windowSize() (int, int) {
	cw, ch := c.s.Size()
	w, h := c.tb.width+cw, ch+statusHeight
	if th := c.tb.height(); h < th {
		h = th
	}
	return w, h
}

func (c *controller) resize(w, h int) {
	c.width, c.height = w, h
	c.layoutShortcuts()
}

func (c *controller) selectTool(t session.Tool) {
	c.s.SetTool(t)
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keys[sc] = name
		}
	}
}

func (c *controller) registerActions() {
	c.actions = map[string]func(){}
	c.keys = map[KeyShortcut]string{}

	toolKeys := map[session.Tool]rune{
		session.ToolPencil:    'p',
		session.ToolLine:      'l',
		session.ToolRectangle: 'r',
		session.ToolCircle:    'c',
		session.ToolEraser:    'e',
		session.ToolFill:      'f',
	}
	for _, t := range session.Tools() {
		t := t
		c.register(t.String(), shortcutList{{Rune: toolKeys[t]}}, func() { c.selectTool(t) })
	}

	c.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		c.drawing = false
		if !c.s.Undo() {
			c.flash("nothing to undo")
		}
	})
	c.register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() {
		c.drawing = false
		if !c.s.Redo() {
			c.flash("nothing to redo")
		}
	})
	c.register("abandon", shortcutList{{Code: key.CodeEscape}}, c.abandon)
	c.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		if c.save == nil {
			return
		}
		path, err := c.save()
		if err != nil {
			log.Printf("save: %v", err)
			c.flash("save failed")
			return
		}
		c.flash("saved " + path)
	})
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if c.copy == nil {
			return
		}
		if err := c.copy(); err != nil {
			log.Printf("copy: %v", err)
			c.flash("copy failed")
			return
		}
		c.flash("image copied to clipboard")
	})
	c.register("zoomin", shortcutList{{Rune: '+'}, {Rune: '='}}, func() { c.setZoom(c.view.zoom + 1) })
	c.register("zoomout", shortcutList{{Rune: '-'}}, func() { c.setZoom(c.view.zoom - 1) })
	c.register("thinner", shortcutList{{Rune: '['}}, func() { c.stepWidth(-1) })
	c.register("thicker", shortcutList{{Rune: ']'}}, func() { c.stepWidth(1) })
	c.register("quit", shortcutList{{Rune: 'q'}}, func() { c.quit = true })
}

func (c *controller) trigger(action string) {
	if fn, ok := c.actions[action]; ok {
		fn()
	}
}

func (c *controller) flash(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageDuration)
	log.Print(msg)
}

func (c *controller) messageVisible() bool {
	return c.message != "" && c.now().Before(c.messageUntil)
}

func (c *controller) abandon() {
	c.drawing = false
	c.s.Abandon()
}

// focusLost ends input capture; an unfinished stroke is discarded.
func (c *controller) focusLost() {
	if c.s.Active() {
		c.abandon()
	}
}

func (c *controller) setZoom(z int) {
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	c.view.zoom = z
	c.layoutShortcuts()
}

// stepWidth moves the stroke width to the next toolbar option.
func (c *controller) stepWidth(dir int) {
	cur := c.s.Width()
	if dir > 0 {
		for _, w := range widthOptions {
			if w > cur {
				c.s.SetWidth(w)
				return
			}
		}
		return
	}
	for i := len(widthOptions) - 1; i >= 0; i-- {
		if widthOptions[i] < cur {
			c.s.SetWidth(widthOptions[i])
			return
		}
	}
}

func (c *controller) layoutShortcuts() {
	labels := []struct{ label, action string }{
		{"^Z:undo", "undo"},
		{"^Y:redo", "redo"},
		{"Esc:abandon", "abandon"},
		{fmt.Sprintf("+/-:zoom (%d00%%)", c.view.zoom), "zoomin"},
		{"[/]:width", "thicker"},
		{"^C:copy image", "copy"},
		{"^S:save", "save"},
		{"Q:quit", "quit"},
	}
	c.shortcuts = c.shortcuts[:0]
	x := c.tb.width + 4
	y := c.height - statusHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for _, l := range labels {
		action := l.action
		sc := &Shortcut{label: l.label, theme: c.theme, action: func() { c.trigger(action) }}
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		c.shortcuts = append(c.shortcuts, sc)
		x = sc.rect.Max.X + 8
	}
}

// key handles a key event and reports whether the window needs repainting.
func (c *controller) key(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	r := e.Rune
	if e.Modifiers&key.ModControl != 0 && r > 0 && r < 0x20 {
		// Control characters, such as 0x1a for ctrl+z.
		r += 'a' - 1
	}
	var candidates []KeyShortcut
	if r > 0 {
		lower := unicode.ToLower(r)
		noShift := e.Modifiers &^ key.ModShift
		candidates = append(candidates,
			KeyShortcut{Rune: lower, Modifiers: e.Modifiers},
			KeyShortcut{Rune: lower, Modifiers: noShift},
			// Runes such as '+' arrive with shift held.
			KeyShortcut{Rune: r, Modifiers: noShift},
		)
	}
	candidates = append(candidates, KeyShortcut{Code: e.Code, Modifiers: e.Modifiers})
	for _, ks := range candidates {
		if action, ok := c.keys[ks]; ok {
			c.trigger(action)
			return true
		}
	}
	return false
}

// mouse handles a pointer event and reports whether the window needs
// repainting.
func (c *controller) mouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))

	// An active stroke owns the pointer until release, wherever it goes.
	if c.drawing {
		return c.strokeEvent(e, p)
	}

	if c.messageVisible() && e.Direction == mouse.DirPress {
		c.messageUntil = time.Time{}
		return true
	}

	switch e.Button {
	case mouse.ButtonWheelUp:
		c.setZoom(c.view.zoom + 1)
		return true
	case mouse.ButtonWheelDown:
		c.setZoom(c.view.zoom - 1)
		return true
	}

	if p.Y >= c.height-statusHeight {
		prev := c.hoverSC
		c.hoverSC = -1
		for i, sc := range c.shortcuts {
			if p.In(sc.Rect()) {
				c.hoverSC = i
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					sc.Activate()
					return true
				}
				break
			}
		}
		return prev != c.hoverSC
	}
	c.hoverSC = -1

	if p.X < c.tb.width {
		h := c.tb.hitTest(p)
		changed := h != c.tb.hover
		c.tb.hover = h
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && h.kind != hitNone {
			c.tb.activate(h, c.s)
			return true
		}
		return changed
	}
	if c.tb.hover != (hit{}) {
		c.tb.hover = hit{}
	}

	if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
		cp := c.view.toCanvas(p)
		if err := c.s.StrokeStart(cp.X, cp.Y); err != nil {
			// Presses on the margin around a zoomed-out canvas land here.
			return false
		}
		c.drawing = c.s.Active()
		return true
	}
	return false
}

func (c *controller) strokeEvent(e mouse.Event, p image.Point) bool {
	switch {
	case e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress:
		c.abandon()
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		c.drawing = false
		cp := c.view.toCanvas(p)
		if err := c.s.StrokeMove(cp.X, cp.Y); err != nil {
			log.Printf("stroke: %v", err)
		}
		if err := c.s.StrokeEnd(); err != nil {
			log.Printf("stroke: %v", err)
			c.flash("stroke not saved")
		}
	case e.Direction == mouse.DirNone:
		cp := c.view.toCanvas(p)
		if err := c.s.StrokeMove(cp.X, cp.Y); err != nil {
			log.Printf("stroke: %v", err)
		}
	default:
		return false
	}
	return true
}

// status is the right-aligned status bar text.
func (c *controller) status() string {
	h := c.s.History()
	return fmt.Sprintf("%s %s w%d  undo %d/%d redo %d",
		c.s.Tool(), config.ColorName(c.s.Color()), c.s.Width(),
		h.UndoLen()-1, h.Capacity()-1, h.RedoLen())
}
