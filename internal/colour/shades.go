package colour

import "math"

// Shade ramp layout: ShadeCount steps of ShadeStepPercent, starting at -100%.
const (
	ShadeCount       = 20
	ShadeStepPercent = 10
	shadeFirstStep   = -10
)

// ShadeSteps returns the percentage applied at each index of the ramp produced by Shades.
func ShadeSteps() []int {
	steps := make([]int, ShadeCount)
	for i := range steps {
		steps[i] = (shadeFirstStep + i) * ShadeStepPercent
	}
	return steps
}

// Shades returns the ramp of darker and lighter variants of base, ordered from -100% to +90%.
// The element at index ShadeCount/2 is base itself.
func Shades(base RGB) []RGB {
	steps := ShadeSteps()
	shades := make([]RGB, len(steps))
	for i, p := range steps {
		shades[i] = Tint(base, float64(p))
	}
	return shades
}

// Tint moves every channel of base towards white (percent > 0) or scales it towards
// black (percent <= 0). percent is expected in [-100, 100].
func Tint(base RGB, percent float64) RGB {
	c := base.channels()
	for i, v := range c {
		if percent > 0 {
			c[i] = v + (255-v)*percent/100
		} else {
			c[i] = v * (100 + percent) / 100
		}
	}
	return fromChannels(c)
}

// AdjustBrightness shifts every channel by round(2.55 * percent), clamped to [0, 255].
// Halves round up, so -25.5 becomes -25.
// This is an additive model and gives different results to Tint for the same percent.
func AdjustBrightness(base RGB, percent float64) RGB {
	amount := math.Floor(2.55*percent + 0.5)
	c := base.channels()
	for i := range c {
		c[i] += amount
	}
	return fromChannels(c)
}
