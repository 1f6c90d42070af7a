package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/pixelpad/internal/session"
)

func TestParse(t *testing.T) {
	input := `
width = 320
height = 200
color = tomato
stroke_width = 5
tool = rect
theme = my_custom_theme
save_dir = /tmp/paintings

[history]
capacity = 12
compress = true

[notify]
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("Expected 320x200, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Color != (color.RGBA{255, 99, 71, 255}) {
		t.Errorf("Expected tomato, got %v", cfg.Color)
	}
	if cfg.StrokeWidth != 5 {
		t.Errorf("Expected stroke_width 5, got %d", cfg.StrokeWidth)
	}
	if cfg.Tool != session.ToolRectangle {
		t.Errorf("Expected rectangle tool, got %v", cfg.Tool)
	}
	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/paintings" {
		t.Errorf("Expected save_dir '/tmp/paintings', got '%s'", cfg.SaveDir)
	}
	if cfg.History.Capacity != 12 || !cfg.History.Compress {
		t.Errorf("Unexpected history settings: %+v", cfg.History)
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}

	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("default size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.History.Capacity != 6 || cfg.History.Compress {
		t.Errorf("default history %+v", cfg.History)
	}
	if cfg.Tool != session.ToolPencil || cfg.Color != session.Black {
		t.Errorf("default tool %v colour %v", cfg.Tool, cfg.Color)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"bad width":    "width = wide\n",
		"zero height":  "height = 0\n",
		"bad tool":     "tool = spray\n",
		"bad color":    "color = notacolour\n",
		"bad compress": "[history]\ncompress = maybe\n",
		"bad notify":   "[notify]\nsave = 2x\n",
		"theme color":  "[theme.x]\nBackground = #GG0000\n",
		"theme key":    "[theme.x]\ntoolbar_colour = #FF0000\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input)); err == nil {
				t.Fatalf("expected error for %q", input)
			}
		})
	}
}

func TestParseThemeSnakeCaseKeys(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`[theme.x]
toolbar_background = #ff0000
canvas_border = #00ff00
button_text = #0000ff
checker_light = #010203
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	th, ok := cfg.Themes["x"]
	if !ok {
		t.Fatal("theme x not loaded")
	}
	tests := []struct {
		name string
		got  color.RGBA
		want color.RGBA
	}{
		{"toolbar_background", th.ToolbarBackground, color.RGBA{255, 0, 0, 255}},
		{"canvas_border", th.CanvasBorder, color.RGBA{0, 255, 0, 255}},
		{"button_text", th.ButtonText, color.RGBA{0, 0, 255, 255}},
		{"checker_light", th.CheckerLight, color.RGBA{1, 2, 3, 255}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `width = 64
height = 48
color = #336699
stroke_width = 3
tool = circle
theme = dark
save_dir = /home/user/paintings

[history]
capacity = 9
compress = true

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Width != cfg2.Width || cfg.Height != cfg2.Height {
		t.Errorf("Size mismatch: %dx%d vs %dx%d", cfg.Width, cfg.Height, cfg2.Width, cfg2.Height)
	}
	if cfg.Color != cfg2.Color {
		t.Errorf("Color mismatch: %v vs %v", cfg.Color, cfg2.Color)
	}
	if cfg.StrokeWidth != cfg2.StrokeWidth || cfg.Tool != cfg2.Tool {
		t.Errorf("Stroke mismatch: %d/%v vs %d/%v", cfg.StrokeWidth, cfg.Tool, cfg2.StrokeWidth, cfg2.Tool)
	}
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.History != cfg2.History {
		t.Errorf("History mismatch: %+v vs %+v", cfg.History, cfg2.History)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"red", color.RGBA{255, 0, 0, 255}},
		{"  CornflowerBlue ", color.RGBA{100, 149, 237, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"#0f8", color.RGBA{0, 255, 136, 255}},
		{"#336699", color.RGBA{0x33, 0x66, 0x99, 255}},
		{"#33669980", color.RGBA{0x33, 0x66, 0x99, 0x80}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz", "blurple"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}

func TestFormatColor(t *testing.T) {
	if got := FormatColor(color.RGBA{0x0A, 0xBC, 0xDE, 255}); got != "#0ABCDE" {
		t.Errorf("opaque = %q", got)
	}
	if got := FormatColor(color.RGBA{1, 2, 3, 4}); got != "#01020304" {
		t.Errorf("translucent = %q", got)
	}
	if got := ColorName(color.RGBA{0, 0, 128, 255}); got != "Navy" {
		t.Errorf("palette name = %q", got)
	}
	if got := ColorName(color.RGBA{1, 1, 1, 255}); got != "#010101" {
		t.Errorf("fallback name = %q", got)
	}
}

func TestLoaderPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	wd := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })

	l := NewLoader("v1.0.0", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config path %q", p)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Width != DefaultWidth {
		t.Fatalf("Load without file = %+v, %v", cfg, err)
	}

	cfg.Width = 99
	saved, err := l.Save(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, "pixelpad", "config.rc"); saved != want {
		t.Fatalf("saved to %q, want %q", saved, want)
	}
	cfg, err = l.Load()
	if err != nil || cfg.Width != 99 {
		t.Fatalf("reload = %+v, %v", cfg, err)
	}

	local := filepath.Join(wd, ".pixelpadrc")
	if err := os.WriteFile(local, []byte("width = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := NewLoader("dev", "").GetConfigPath(); p != local {
		t.Fatalf("dev build path = %q, want %q", p, local)
	}
	if p := l.GetConfigPath(); p == local {
		t.Fatal("release build read the working directory config")
	}
	if p := NewLoader("v1.0.0", local).GetConfigPath(); p != local {
		t.Fatalf("override path = %q", p)
	}
}
