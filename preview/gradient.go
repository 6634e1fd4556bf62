package preview

import (
	"github.com/lucasb-eyer/go-colorful"
)

// GradientTable is a look-up table of hues keyed by position in [0,1].
type GradientTable []struct {
	Hue float64
	Pos float64
}

// Spectrum runs from red through the rainbow to violet.
var Spectrum = GradientTable{
	{0.0, 0.0},   // Red
	{40.0, 0.2},  // Orange
	{90.0, 0.4},  // Yellow
	{140.0, 0.6}, // Green
	{230.0, 0.8}, // Blue
	{300.0, 1.0}, // Violet
}

// Color gets the colour at position t with chroma c and luminance l.
func (g GradientTable) Color(t, c, l float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Hcl(0, 0, l)
	}

	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, c, l).Clamped()
		}
	}

	if t < g[0].Pos {
		return colorful.Hcl(g[0].Hue, c, l).Clamped()
	}
	return colorful.Hcl(g[len(g)-1].Hue, c, l).Clamped()
}
