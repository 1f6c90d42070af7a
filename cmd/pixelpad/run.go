package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/pixelpad/internal/config"
	"github.com/example/pixelpad/internal/imageio"
	"github.com/example/pixelpad/internal/raster"
	"github.com/example/pixelpad/internal/script"
	"github.com/example/pixelpad/internal/session"
)

// runCmd executes a stroke script headlessly and exports the result.
type runCmd struct {
	script        string
	scriptClip    bool
	output        string
	base          string
	width         int
	height        int
	fromClipboard bool
	toClipboard   bool
	*root
	fs *flag.FlagSet
}

func (c *runCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRunCmd(args []string, r *root) (*runCmd, error) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	c := &runCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	cfg := r.cfg()
	fs.StringVar(&c.script, "script", "-", "script file to execute, - for stdin")
	fs.BoolVar(&c.scriptClip, "script-from-clipboard", false, "read the script text from the clipboard")
	fs.BoolVar(&c.scriptClip, "script-from-clip", false, "read the script text from the clipboard (alias)")
	fs.StringVar(&c.output, "output", "", "write the canvas to this file (.png or .bmp)")
	fs.StringVar(&c.base, "base", "", "start from an existing PNG or BMP")
	fs.IntVar(&c.width, "width", cfg.Width, "canvas width in pixels")
	fs.IntVar(&c.height, "height", cfg.Height, "canvas height in pixels")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "start from the image on the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "start from the image on the clipboard (alias)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && c.script == "-" {
		c.script = fs.Arg(0)
	} else if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.scriptClip && c.script != "-" {
		return nil, errors.New("-script-from-clipboard cannot be combined with a script file")
	}
	if c.scriptClip && c.fromClipboard {
		return nil, errors.New("-script-from-clipboard and -from-clipboard cannot be used together")
	}
	if c.base != "" && c.fromClipboard {
		return nil, errors.New("-base and -from-clipboard cannot be used together")
	}
	if c.output != "" {
		if _, err := imageio.FormatFor(c.output); err != nil {
			return nil, fmt.Errorf("output %s: %w", c.output, err)
		}
	}
	return c, nil
}

func (c *runCmd) Run() error {
	in, closeIn, err := c.openScript()
	if err != nil {
		return err
	}
	defer closeIn()

	cmds, err := script.Parse(in)
	if err != nil {
		return err
	}
	s, err := newSession(c.root, c.width, c.height, c.base, c.fromClipboard)
	if err != nil {
		return err
	}
	res, err := script.Exec(s, cmds)
	if err != nil {
		return fmt.Errorf("%s: %w", c.scriptName(), err)
	}
	printStats(stdout, s, res)

	if c.output != "" {
		saved, err := imageio.Save(c.output, s.Frame())
		if err != nil {
			return fmt.Errorf("save %s: %w", c.output, err)
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", saved)
		c.root.notifySave(saved)
	}
	if c.toClipboard {
		if err := writeClipboardImage(s.Frame()); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := "canvas"
		if c.output != "" {
			detail = filepath.Base(c.output)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		c.root.notifyCopy(detail)
	}
	return nil
}

func (c *runCmd) scriptName() string {
	if c.scriptClip {
		return "clipboard"
	}
	if c.script == "-" {
		return "stdin"
	}
	return c.script
}

func (c *runCmd) openScript() (io.Reader, func(), error) {
	if c.scriptClip {
		text, err := readClipboardText()
		if err != nil {
			return nil, nil, fmt.Errorf("read script from clipboard: %w", err)
		}
		return strings.NewReader(text), func() {}, nil
	}
	if c.script == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(c.script)
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", f.Name(), err)
		}
	}, nil
}

type colorCount struct {
	color color.RGBA
	n     int
}

// histogram counts the pixels of each colour in v, most frequent first.
func histogram(v *raster.View) []colorCount {
	counts := map[color.RGBA]int{}
	b := v.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			counts[v.RGBAAt(x, y)]++
		}
	}
	out := make([]colorCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, colorCount{c, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return config.FormatColor(out[i].color) < config.FormatColor(out[j].color)
	})
	return out
}

// maxHistogramRows limits how many colours printStats lists.
const maxHistogramRows = 8

func printStats(w io.Writer, s *session.Session, res script.Result) {
	width, height := s.Size()
	h := s.History()
	fmt.Fprintf(w, "canvas %dx%d\n", width, height)
	fmt.Fprintf(w, "commands %d, strokes %d, undos %d, redos %d, filled %d\n",
		res.Commands, res.Strokes, res.Undos, res.Redos, res.Filled)
	fmt.Fprintf(w, "history %d/%d, redo %d, %s %d bytes\n",
		h.UndoLen(), h.Capacity(), h.RedoLen(), h.Codec().Name(), h.Bytes())
	hist := histogram(s.Frame())
	for i, cc := range hist {
		if i == maxHistogramRows {
			fmt.Fprintf(w, "  ... %d more colors\n", len(hist)-i)
			break
		}
		fmt.Fprintf(w, "  %-12s %s %d\n", config.ColorName(cc.color), config.FormatColor(cc.color), cc.n)
	}
}
