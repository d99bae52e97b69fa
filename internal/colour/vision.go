package colour

import (
	"fmt"
	"slices"
	"strings"
)

// VisionDeficiency names a colour-vision deficiency to simulate.
type VisionDeficiency string

const (
	VisionNone          VisionDeficiency = "none"
	VisionProtanopia    VisionDeficiency = "protanopia"
	VisionDeuteranopia  VisionDeficiency = "deuteranopia"
	VisionTritanopia    VisionDeficiency = "tritanopia"
	VisionAchromatopsia VisionDeficiency = "achromatopsia"
	VisionProtanomaly   VisionDeficiency = "protanomaly"
	VisionDeuteranomaly VisionDeficiency = "deuteranomaly"
	VisionTritanomaly   VisionDeficiency = "tritanomaly"
	VisionAchromatomaly VisionDeficiency = "achromatomaly"
)

type matrix3 [3][3]float64

// visionMatrices holds the row-major linear transform for each deficiency.
var visionMatrices = map[VisionDeficiency]matrix3{
	VisionProtanopia: {
		{0.567, 0.433, 0},
		{0.558, 0.442, 0},
		{0, 0.242, 0.758},
	},
	VisionDeuteranopia: {
		{0.625, 0.375, 0},
		{0.7, 0.3, 0},
		{0, 0.3, 0.7},
	},
	VisionTritanopia: {
		{0.95, 0.05, 0},
		{0, 0.433, 0.567},
		{0, 0.475, 0.525},
	},
	VisionAchromatopsia: {
		{0.299, 0.587, 0.114},
		{0.299, 0.587, 0.114},
		{0.299, 0.587, 0.114},
	},
	VisionProtanomaly: {
		{0.817, 0.183, 0},
		{0.333, 0.667, 0},
		{0, 0.125, 0.875},
	},
	VisionDeuteranomaly: {
		{0.8, 0.2, 0},
		{0.258, 0.742, 0},
		{0, 0.142, 0.858},
	},
	VisionTritanomaly: {
		{0.967, 0.033, 0},
		{0, 0.733, 0.267},
		{0, 0.183, 0.817},
	},
	VisionAchromatomaly: {
		{0.618, 0.320, 0.062},
		{0.163, 0.775, 0.062},
		{0.163, 0.320, 0.516},
	},
}

// VisionDeficiencies returns every simulatable deficiency, excluding VisionNone.
func VisionDeficiencies() []VisionDeficiency {
	return []VisionDeficiency{
		VisionProtanopia,
		VisionDeuteranopia,
		VisionTritanopia,
		VisionAchromatopsia,
		VisionProtanomaly,
		VisionDeuteranomaly,
		VisionTritanomaly,
		VisionAchromatomaly,
	}
}

// ParseVisionDeficiency resolves a case-insensitive name. Unknown names map to VisionNone.
func ParseVisionDeficiency(name string) VisionDeficiency {
	v := VisionDeficiency(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := visionMatrices[v]; ok {
		return v
	}
	return VisionNone
}

// IsKnown reports whether v is VisionNone or has a simulation matrix.
func (v VisionDeficiency) IsKnown() bool {
	if v == VisionNone {
		return true
	}
	_, ok := visionMatrices[v]
	return ok
}

// String implements pflag.Value.
func (v *VisionDeficiency) String() string {
	if *v == "" {
		return string(VisionNone)
	}
	return string(*v)
}

// Set implements pflag.Value. Unlike ParseVisionDeficiency it rejects unknown names,
// since a typo on the command line should not silently disable simulation.
func (v *VisionDeficiency) Set(s string) error {
	parsed := VisionDeficiency(strings.ToLower(strings.TrimSpace(s)))
	if !parsed.IsKnown() {
		return fmt.Errorf("unknown vision deficiency %q (valid: none, %s)", s, JoinVisionDeficiencies())
	}
	*v = parsed
	return nil
}

// Type implements pflag.Value.
func (v *VisionDeficiency) Type() string {
	return "vision"
}

// JoinVisionDeficiencies returns the simulated deficiency names as a comma-separated list.
func JoinVisionDeficiencies() string {
	types := VisionDeficiencies()
	names := make([]string, 0, len(types))
	for _, d := range types {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

// Simulate approximates how c appears under the given deficiency.
// VisionNone and unrecognised types return c unchanged.
func Simulate(c RGB, v VisionDeficiency) RGB {
	m, ok := visionMatrices[VisionDeficiency(strings.ToLower(string(v)))]
	if !ok {
		return c
	}

	in := c.channels()
	var out [3]float64
	for i := range 3 {
		// Explicit conversions keep each product rounded separately (no fused multiply-add).
		out[i] = float64(m[i][0]*in[0]) + float64(m[i][1]*in[1]) + float64(m[i][2]*in[2])
	}
	return fromChannels(out)
}

// SimulatePalette returns a new palette with every colour passed through Simulate.
func SimulatePalette(p *Palette, v VisionDeficiency) *Palette {
	out := slices.Clone(p.Colors)
	for i, c := range out {
		out[i] = Simulate(c, v)
	}
	return NewPalette(out)
}
