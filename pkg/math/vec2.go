package math

import "math"

// Vec2 is a 2D vector. Meshes use it for texture coordinates, with (0, 0)
// at the bottom-left of the image and (1, 1) at the top-right.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Clamp01 clamps both components to [0, 1]. NaN becomes 0.
func (v Vec2) Clamp01() Vec2 {
	return Vec2{clamp01(v.X), clamp01(v.Y)}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

func clamp01(f float32) float32 {
	switch {
	case !(f > 0): // also catches NaN
		return 0
	case f > 1:
		return 1
	}
	return f
}
