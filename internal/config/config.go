package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/pixelpad/internal/history"
	"github.com/example/pixelpad/internal/session"
	"github.com/example/pixelpad/internal/theme"
)

// Default canvas dimensions.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// History holds undo history settings.
type History struct {
	Capacity int
	Compress bool
}

// Config holds the application configuration.
type Config struct {
	Width       int
	Height      int
	Color       color.RGBA
	StrokeWidth int
	Tool        session.Tool
	Theme       string
	SaveDir     string
	History     History
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Color:       session.Black,
		StrokeWidth: session.DefaultWidth,
		Tool:        session.ToolPencil,
		Theme:       "", // Empty falls back to PIXELPAD_THEME, then the default theme
		History: History{
			Capacity: history.DefaultCapacity,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// SessionOptions converts the history settings into session options.
func (c *Config) SessionOptions() []session.Option {
	return []session.Option{
		session.WithCapacity(c.History.Capacity),
		session.WithCompression(c.History.Compress),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "width = %d\n", c.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Height)
	fmt.Fprintf(&sb, "color = %s\n", FormatColor(c.Color))
	fmt.Fprintf(&sb, "stroke_width = %d\n", c.StrokeWidth)
	fmt.Fprintf(&sb, "tool = %s\n", c.Tool)
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "capacity = %d\n", c.History.Capacity)
	fmt.Fprintf(&sb, "compress = %v\n", c.History.Compress)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		writeTheme(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeTheme(sb *strings.Builder, t *theme.Theme) {
	fmt.Fprintf(sb, "Name: %s\n", t.Name)
	for _, f := range t.Fields() {
		fmt.Fprintf(sb, "%s: %s\n", f.Name, FormatColor(f.Color))
	}
}
