package colour

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Palette is an ordered collection of colours. Position is significant.
type Palette struct {
	Colors []RGB
}

// NewPalette creates a new Palette with the given colors.
func NewPalette(colors []RGB) *Palette {
	return &Palette{
		Colors: colors,
	}
}

// ParsePalette parses a list of hex strings into a Palette.
// The first malformed entry aborts parsing.
func ParsePalette(hexColors []string) (*Palette, error) {
	colors := make([]RGB, len(hexColors))
	for i, s := range hexColors {
		rgb, err := ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i+1, err)
		}
		colors[i] = rgb
	}
	return NewPalette(colors), nil
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// Clone returns a deep copy of the palette.
func (p *Palette) Clone() *Palette {
	return NewPalette(slices.Clone(p.Colors))
}

// ToHex converts the palette colors to canonical hex strings.
// Returns a slice of hex color codes (e.g., ["#1a2b3c", "#4d5e6f"]).
func (p *Palette) ToHex() []string {
	hexColors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		hexColors[i] = c.Hex()
	}
	return hexColors
}

// ColorJSON represents a color in JSON output format.
type ColorJSON struct {
	Hex  string `json:"hex"`
	RGB  RGB    `json:"rgb"`
	Name string `json:"name"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int         `json:"count"`
	Colors []ColorJSON `json:"colors"`
}

// ToJSON converts the palette to an annotated JSON document.
func (p *Palette) ToJSON() ([]byte, error) {
	colors := make([]ColorJSON, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = ColorJSON{
			Hex:  c.Hex(),
			RGB:  c,
			Name: Name(c),
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:  len(p.Colors),
		Colors: colors,
	}, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.Colors) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colors:\n", len(p.Colors))
	for i, c := range p.Colors {
		fmt.Fprintf(&sb, "  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return sb.String()
}

// Get returns the color at the specified index.
// Returns an error if the index is out of bounds.
func (p *Palette) Get(index int) (RGB, error) {
	if index < 0 || index >= len(p.Colors) {
		return RGB{}, fmt.Errorf("index out of bounds: %d (palette has %d colors)", index, len(p.Colors))
	}
	return p.Colors[index], nil
}
