package main

import (
	"flag"
	"fmt"
	"image"
	"path/filepath"

	"github.com/example/pixelpad/internal/appstate"
	"github.com/example/pixelpad/internal/imageio"
	"github.com/example/pixelpad/internal/session"
)

// runWindow shows the painting window; tests replace it.
var runWindow = func(a *appstate.AppState) { a.Run() }

// paintCmd opens the interactive painting window.
type paintCmd struct {
	width         int
	height        int
	output        string
	base          string
	fromClipboard bool
	*root
	fs *flag.FlagSet
}

func (p *paintCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePaintCmd(args []string, r *root) (*paintCmd, error) {
	fs := flag.NewFlagSet("paint", flag.ExitOnError)
	p := &paintCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	cfg := r.cfg()
	fs.IntVar(&p.width, "width", cfg.Width, "canvas width in pixels")
	fs.IntVar(&p.height, "height", cfg.Height, "canvas height in pixels")
	fs.StringVar(&p.output, "output", "", "file written by ctrl+s (.png or .bmp)")
	fs.StringVar(&p.base, "base", "", "open an existing PNG or BMP instead of a blank canvas")
	fs.BoolVar(&p.fromClipboard, "from-clipboard", false, "start from the image on the clipboard")
	fs.BoolVar(&p.fromClipboard, "from-clip", false, "start from the image on the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: p}
	}
	if p.base != "" && p.fromClipboard {
		return nil, fmt.Errorf("-base and -from-clipboard cannot be used together")
	}
	if p.output == "" {
		p.output = "pixelpad.png"
		if cfg.SaveDir != "" {
			p.output = filepath.Join(cfg.SaveDir, p.output)
		}
	}
	if _, err := imageio.FormatFor(p.output); err != nil {
		return nil, fmt.Errorf("output %s: %w", p.output, err)
	}
	return p, nil
}

func (p *paintCmd) Run() error {
	s, err := newSession(p.root, p.width, p.height, p.base, p.fromClipboard)
	if err != nil {
		return err
	}
	title := appstate.ProgramTitle + " - " + filepath.Base(p.output)
	a, err := appstate.New(
		appstate.WithSession(s),
		appstate.WithOutput(p.output),
		appstate.WithTheme(p.root.activeTheme),
		appstate.WithNotifier(p.root.notifier),
		appstate.WithTitle(title),
	)
	if err != nil {
		return err
	}
	runWindow(a)
	return nil
}

// newSession builds a session from a base file, the clipboard, or a blank
// width×height canvas.
func newSession(r *root, width, height int, base string, fromClipboard bool) (*session.Session, error) {
	opts := r.sessionOptions()
	var img image.Image
	switch {
	case fromClipboard:
		var err error
		img, err = readClipboardImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
	case base != "":
		var err error
		img, err = imageio.Load(base)
		if err != nil {
			return nil, err
		}
	}
	if img != nil {
		opts = append(opts, session.WithBase(img))
	}
	s, err := session.New(width, height, opts...)
	if err != nil {
		return nil, err
	}
	r.applyDefaults(s)
	return s, nil
}
