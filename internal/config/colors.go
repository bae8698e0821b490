package config

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor converts a "#RRGGBB" string into an opaque RGBA colour.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(hex string) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette parses the particle colours.
func (f *Field) Palette() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(f.Colors))
	for i, hex := range f.Colors {
		c, err := ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("colors[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Highlights parses the category highlight colours.
func (f *Field) Highlights() (map[string]color.RGBA, error) {
	out := make(map[string]color.RGBA, len(f.HighlightColors))
	for cat, hex := range f.HighlightColors {
		c, err := ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("highlight_colors.%s: %w", cat, err)
		}
		out[cat] = c
	}
	return out, nil
}
