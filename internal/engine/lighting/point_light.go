// Package lighting implements the Blinn-Phong shading model and the light
// and material types it consumes.
package lighting

import "github.com/Faultbox/scenekit/pkg/math"

// PointLight is an omnidirectional light without attenuation.
type PointLight struct {
	Position  math.Vec3
	Intensity Color
}

// DirectionFrom returns the normalized vector from p toward the light.
func (l PointLight) DirectionFrom(p math.Vec3) math.Vec3 {
	return l.Position.Sub(p).Normalize()
}

// InSpace returns the light with its position transformed by m, e.g. the
// view matrix when shading happens in view space.
func (l PointLight) InSpace(m math.Mat4) PointLight {
	return PointLight{Position: m.TransformPoint(l.Position), Intensity: l.Intensity}
}
