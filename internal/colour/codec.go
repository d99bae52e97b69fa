// Package colour provides colour conversion, transformation and extraction functionality.
package colour

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a colour string is not 6 hex digits with an optional leading '#'.
var ErrInvalidFormat = errors.New("invalid colour format")

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the canonical form of the colour: '#' followed by lowercase, zero-padded hex digits.
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBA implements color.Color so an RGB can be handed to the image packages directly.
func (rgb RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}.RGBA()
}

// channels returns the colour as a float vector for matrix and ramp arithmetic.
func (rgb RGB) channels() [3]float64 {
	return [3]float64{float64(rgb.R), float64(rgb.G), float64(rgb.B)}
}

// fromChannels rounds and clamps a float vector back into an RGB.
func fromChannels(c [3]float64) RGB {
	return RGB{R: ClampChannel(c[0]), G: ClampChannel(c[1]), B: ClampChannel(c[2])}
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParseHex parses a colour string of exactly 6 hex digits, optionally prefixed with '#'.
// Parsing is case-insensitive. Any other input yields an error wrapping ErrInvalidFormat.
func ParseHex(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return RGB{}, fmt.Errorf("%w: %q (expected 6 hex digits)", ErrInvalidFormat, s)
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// ParseHexOrBlack parses like ParseHex but degrades malformed input to black.
func ParseHexOrBlack(s string) RGB {
	rgb, err := ParseHex(s)
	if err != nil {
		return RGB{}
	}
	return rgb
}

// MustParseHex is like ParseHex but panics on malformed input.
// Intended for package-level constants and tests.
func MustParseHex(s string) RGB {
	rgb, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return rgb
}

// CanonicalHex parses s and re-emits it in canonical '#rrggbb' form.
func CanonicalHex(s string) (string, error) {
	rgb, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}

// ClampChannel rounds v to the nearest integer (halves away from zero) and clamps it to [0, 255].
func ClampChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}

// RGBFromUint32 builds a colour from the low 24 bits of v (0xRRGGBB).
func RGBFromUint32(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}
