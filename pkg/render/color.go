// Package render implements the software rendering pipeline for orrery:
// camera and control events, triangle assembly and clipping,
// rasterization, and the color/depth framebuffer.
package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Common colors.
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorSpace = color.RGBA{5, 5, 16, 255} // near-black background
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// RGBf creates an opaque color from float channels in [0,1],
// clamping out-of-range inputs.
func RGBf(r, g, b float64) Color {
	return Color{R: clamp255(r * 255), G: clamp255(g * 255), B: clamp255(b * 255), A: 255}
}

// clamp255 converts a float channel to uint8, saturating at both ends.
func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// LerpColor linearly interpolates between two colors by t in [0,1].
func LerpColor(a, b Color, t float64) Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Color{
		R: clamp255(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: clamp255(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: clamp255(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: clamp255(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// ScaleColor multiplies the RGB channels by a scalar, saturating at 255.
// Alpha is preserved.
func ScaleColor(c Color, s float64) Color {
	return Color{
		R: clamp255(float64(c.R) * s),
		G: clamp255(float64(c.G) * s),
		B: clamp255(float64(c.B) * s),
		A: c.A,
	}
}

// AddColor adds two colors channel-wise, saturating at 255.
func AddColor(a, b Color) Color {
	return Color{
		R: clamp255(float64(a.R) + float64(b.R)),
		G: clamp255(float64(a.G) + float64(b.G)),
		B: clamp255(float64(a.B) + float64(b.B)),
		A: clamp255(math.Max(float64(a.A), float64(b.A))),
	}
}

// ModulateColor multiplies two colors channel-wise (a * b / 255).
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}

// BlendColor composites src over dst using src's alpha channel.
// The result is opaque.
func BlendColor(dst, src Color) Color {
	a := float64(src.A) / 255
	inv := 1 - a
	return Color{
		R: clamp255(float64(src.R)*a + float64(dst.R)*inv),
		G: clamp255(float64(src.G)*a + float64(dst.G)*inv),
		B: clamp255(float64(src.B)*a + float64(dst.B)*inv),
		A: 255,
	}
}
