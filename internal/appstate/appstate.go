// Package appstate runs the interactive painting window.
package appstate

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/pixelpad/internal/clipboard"
	"github.com/example/pixelpad/internal/imageio"
	"github.com/example/pixelpad/internal/notify"
	"github.com/example/pixelpad/internal/session"
	"github.com/example/pixelpad/internal/theme"
)

// ProgramTitle is the default window title.
const ProgramTitle = "PixelPad"

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// AppState holds application configuration for the UI.
type AppState struct {
	Session  *session.Session
	Output   string
	Theme    *theme.Theme
	Notifier *notify.Notifier
	Title    string

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the editing session shown in the window.
func WithSession(s *session.Session) Option { return func(a *AppState) { a.Session = s } }

// WithOutput sets the file written by the save shortcut.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the notifier used after saving and copying.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options. Without WithSession a
// blank canvas of the default size is used.
func New(opts ...Option) (*AppState, error) {
	a := &AppState{Output: "pixelpad.png", Title: ProgramTitle}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if a.Session == nil {
		s, err := session.New(640, 480)
		if err != nil {
			return nil, fmt.Errorf("new session: %w", err)
		}
		a.Session = s
	}
	return a, nil
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// saveCanvas writes the current canvas to the output path.
func (a *AppState) saveCanvas() (string, error) {
	path, err := imageio.Save(a.Output, a.Session.Frame())
	if err != nil {
		return "", err
	}
	a.Notifier.Save(path)
	return path, nil
}

// copyCanvas places the current canvas on the clipboard.
func (a *AppState) copyCanvas() error {
	img := a.Session.Frame().RGBA()
	if err := clipboard.WriteImage(img); err != nil {
		return err
	}
	w, h := a.Session.Size()
	a.Notifier.Copy(fmt.Sprintf("%dx%d canvas", w, h), img)
	return nil
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	c := newController(a.Session, a.Theme, a.saveCanvas, a.copyCanvas)
	width, height := c.windowSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer a.notifyClose()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		e := w.NextEvent()
		repaint := false
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				c.focusLost()
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				c.focusLost()
				repaint = true
			}
		case size.Event:
			c.resize(e.WidthPx, e.HeightPx)
			repaint = true
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := c.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			repaint = c.mouse(e)
		case key.Event:
			repaint = c.key(e)
		case error:
			log.Printf("window: %v", e)
		}
		if c.quit {
			stopPaint()
			c.focusLost()
			return
		}
		if repaint {
			w.Send(paint.Event{})
		}
	}
}
