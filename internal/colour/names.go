package colour

import "strings"

// DefaultColorName is returned by Name for colours without a registered name.
const DefaultColorName = "Custom color"

// colorNames maps upper-case hex digits (no '#') to a display name.
var colorNames = map[string]string{
	"274060": "Indigo dye",
	"335C81": "Lapis Lazuli",
	"65AFFF": "Argentinian Blue",
	"1B2845": "Space cadet",
	"5899E2": "United Nations Blue",
}

// Name returns the display name of a colour, or DefaultColorName.
func Name(c RGB) string {
	key := strings.ToUpper(strings.TrimPrefix(c.Hex(), "#"))
	if name, ok := colorNames[key]; ok {
		return name
	}
	return DefaultColorName
}

// DefaultPalette is the palette a new editing session starts from.
func DefaultPalette() *Palette {
	return NewPalette([]RGB{
		{R: 0x27, G: 0x40, B: 0x60},
		{R: 0x33, G: 0x5c, B: 0x81},
		{R: 0x65, G: 0xaf, B: 0xff},
		{R: 0x1b, G: 0x28, B: 0x45},
		{R: 0x58, G: 0x99, B: 0xe2},
	})
}
