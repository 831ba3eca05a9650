package render

import (
	"image/color"
	"math"
)

// Palette returns one evenly spaced hue per color index.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		out[i] = hueColor(i, n)
	}
	return out
}

// hueColor returns color for a type
func hueColor(t, n int) color.RGBA {
	h := float64(t) / float64(n) * 360
	r, g, b := hsvToRGB(h, 1, 1)
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// hsvToRGB helper
func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
