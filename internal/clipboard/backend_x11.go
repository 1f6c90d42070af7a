//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Backend owns the CLIPBOARD selection through a hidden window and serves
// conversion requests from its own connection. Reads use a short-lived
// second connection so they never race the serving loop for events.
type x11Backend struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  map[string]xproto.Atom

	mu    sync.RWMutex
	owned map[format][]byte
}

var atomNames = []string{
	"CLIPBOARD",
	"TARGETS",
	"UTF8_STRING",
	"text/plain;charset=utf-8",
	"image/png",
	"PIXELPAD_SELECTION",
}

func newBackend() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	b := &x11Backend{conn: conn, owned: make(map[format][]byte)}
	if err := b.setup(); err != nil {
		conn.Close()
		return nil, err
	}
	go b.serve()
	return b, nil
}

func (b *x11Backend) setup() error {
	screen := xproto.Setup(b.conn).DefaultScreen(b.conn)
	win, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if err := xproto.CreateWindowChecked(b.conn, screen.RootDepth, win, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, mask).Check(); err != nil {
		return fmt.Errorf("create selection window: %w", err)
	}
	b.window = win
	b.atoms, err = internAtoms(b.conn)
	if err != nil {
		xproto.DestroyWindow(b.conn, win)
		return err
	}
	return nil
}

func internAtoms(conn *xgb.Conn) (map[string]xproto.Atom, error) {
	atoms := make(map[string]xproto.Atom, len(atomNames))
	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return nil, fmt.Errorf("intern %s: %w", name, err)
		}
		atoms[name] = reply.Atom
	}
	return atoms, nil
}

// targetFor maps a clipboard format to the selection target requested on read.
func (b *x11Backend) targetFor(f format) xproto.Atom {
	if f == formatPNG {
		return b.atoms["image/png"]
	}
	return b.atoms["UTF8_STRING"]
}

func (b *x11Backend) write(f format, data []byte) error {
	b.mu.Lock()
	// The selection carries one payload at a time.
	b.owned = map[format][]byte{f: append([]byte(nil), data...)}
	b.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(b.conn, b.window, b.atoms["CLIPBOARD"], xproto.TimeCurrentTime).Check()
}

func (b *x11Backend) serve() {
	for {
		ev, err := b.conn.WaitForEvent()
		if ev == nil && err == nil {
			return // connection closed
		}
		if err != nil {
			continue
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			b.answer(e)
		case xproto.SelectionClearEvent:
			b.mu.Lock()
			b.owned = make(map[format][]byte)
			b.mu.Unlock()
		}
	}
}

// answer converts the owned payload to the requested target, or refuses with
// a None property.
func (b *x11Backend) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	b.mu.RLock()
	text := b.owned[formatText]
	img := b.owned[formatPNG]
	b.mu.RUnlock()

	var (
		typ     xproto.Atom
		fmtBits byte
		units   uint32
		payload []byte
	)
	switch e.Target {
	case b.atoms["TARGETS"]:
		targets := []xproto.Atom{b.atoms["TARGETS"]}
		if len(text) > 0 {
			targets = append(targets, b.atoms["UTF8_STRING"], xproto.AtomString, b.atoms["text/plain;charset=utf-8"])
		}
		if len(img) > 0 {
			targets = append(targets, b.atoms["image/png"])
		}
		payload = make([]byte, 4*len(targets))
		for i, a := range targets {
			xgb.Put32(payload[i*4:], uint32(a))
		}
		typ, fmtBits, units = xproto.AtomAtom, 32, uint32(len(targets))
	case b.atoms["UTF8_STRING"], xproto.AtomString, b.atoms["text/plain;charset=utf-8"]:
		payload, typ = text, b.atoms["UTF8_STRING"]
	case b.atoms["image/png"]:
		payload, typ = img, b.atoms["image/png"]
	}
	if fmtBits == 0 {
		fmtBits, units = 8, uint32(len(payload))
	}
	if len(payload) == 0 {
		property = xproto.AtomNone
	} else {
		xproto.ChangeProperty(b.conn, xproto.PropModeReplace, e.Requestor, property, typ, fmtBits, units, payload)
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(b.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

func (b *x11Backend) read(f format) ([]byte, error) {
	b.mu.RLock()
	own, ok := b.owned[f]
	b.mu.RUnlock()
	if ok {
		return append([]byte(nil), own...), nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, win)

	prop := b.atoms["PIXELPAD_SELECTION"]
	if err := xproto.ConvertSelectionChecked(conn, win, b.atoms["CLIPBOARD"], b.targetFor(f), prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, fmt.Errorf("X connection closed while reading clipboard")
		}
		if xerr != nil {
			return nil, xerr
		}
		n, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if n.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard has no %s", f)
		}
		reply, err := xproto.GetProperty(conn, true, win, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
