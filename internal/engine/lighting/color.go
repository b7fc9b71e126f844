package lighting

import (
	"image/color"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Color is a linear RGB triple. Components are unbounded until Clamp.
type Color struct {
	R, G, B float32
}

// Gray returns a color with all components set to v.
func Gray(v float32) Color {
	return Color{v, v, v}
}

// RGB builds a Color from a 3-element array (config/GPU layout).
func RGB(a [3]float32) Color {
	return Color{a[0], a[1], a[2]}
}

// Array returns the components as an array for GPU upload.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Add returns c + o.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the component-wise product.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale returns c * s.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Clamp clamps every component to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// RGBA8 clamps the color and converts it to an opaque 8-bit pixel.
func (c Color) RGBA8() color.RGBA {
	cc := c.Clamp()
	return color.RGBA{
		R: uint8(cc.R*255 + 0.5),
		G: uint8(cc.G*255 + 0.5),
		B: uint8(cc.B*255 + 0.5),
		A: 255,
	}
}

// FromRGBA converts an 8-bit pixel to a Color, dropping alpha.
func FromRGBA(p color.RGBA) Color {
	return Color{float32(p.R) / 255, float32(p.G) / 255, float32(p.B) / 255}
}

// Vec3 reinterprets the color as a vector.
func (c Color) Vec3() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
