package theme

import (
	"image/color"
	"reflect"
	"strings"
)

// Theme defines the colours of the paint window chrome.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area around the canvas
	Foreground color.RGBA // Status bar text

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA // Selected tool, width or swatch
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CanvasBorder color.RGBA
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{200, 200, 200, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CanvasBorder:          color.RGBA{96, 96, 96, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}

// Field is one named colour of a theme.
type Field struct {
	Name  string
	Color color.RGBA
}

var rgbaType = reflect.TypeOf(color.RGBA{})

// Fields lists the theme colours in declaration order.
func (t *Theme) Fields() []Field {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out []Field
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type != rgbaType {
			continue
		}
		out = append(out, Field{Name: typ.Field(i).Name, Color: val.Field(i).Interface().(color.RGBA)})
	}
	return out
}

// Set assigns col to the colour field named key, matched case-insensitively
// with underscores and dashes ignored, so canvas_border names CanvasBorder.
// It reports false for unknown keys.
func (t *Theme) Set(key string, col color.RGBA) bool {
	key = strings.NewReplacer("_", "", "-", "").Replace(key)
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type == rgbaType && strings.EqualFold(f.Name, key) {
			val.Field(i).Set(reflect.ValueOf(col))
			return true
		}
	}
	return false
}
