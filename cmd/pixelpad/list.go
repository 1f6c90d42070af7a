package main

import (
	"flag"
	"fmt"

	"github.com/example/pixelpad/internal/config"
	"github.com/example/pixelpad/internal/session"
)

type colorsCmd struct {
	copyName string
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.copyName, "copy", "", "copy the hex value of this colour to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	if c.copyName != "" {
		return c.copyColor()
	}
	palette := config.Palette()
	current := c.root.cfg().Color
	fmt.Fprintln(stdout, "available palette colors (* marks the configured color):")
	for idx, entry := range palette {
		marker := " "
		if entry.Color == current {
			marker = "*"
		}
		hex := config.FormatColor(entry.Color)
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(stdout, "%s %2d: %-12s %s %s\n", marker, idx, entry.Name, hex, block)
	}
	return nil
}

func (c *colorsCmd) copyColor() error {
	col, err := config.ParseColor(c.copyName)
	if err != nil {
		return err
	}
	hex := config.FormatColor(col)
	if err := writeClipboardText(hex); err != nil {
		return fmt.Errorf("copy color to clipboard: %w", err)
	}
	fmt.Fprintf(stdout, "copied %s (%s) to clipboard\n", c.copyName, hex)
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type toolsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	cmd := &toolsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *toolsCmd) Run() error {
	current := c.root.cfg().Tool
	fmt.Fprintln(stdout, "available tools (* marks the configured tool):")
	for _, t := range session.Tools() {
		marker := " "
		if t == current {
			marker = "*"
		}
		fmt.Fprintf(stdout, "%s %s\n", marker, t)
	}
	fmt.Fprintf(stdout, "stroke widths %d-%dpx\n", session.MinWidth, session.MaxWidth)
	return nil
}

func (c *toolsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
