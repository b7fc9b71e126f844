package lighting

import (
	gomath "math"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Terms are the three Blinn-Phong contributions of one fragment.
type Terms struct {
	Ambient  Color
	Diffuse  Color
	Specular Color
}

// Sum returns ambient + diffuse + specular, unclamped.
func (t Terms) Sum() Color {
	return t.Ambient.Add(t.Diffuse).Add(t.Specular)
}

// Evaluate computes the Blinn-Phong terms for surface normal n, direction
// to the light l and direction to the viewer v, all in the same space.
// The vectors are renormalized so interpolated inputs are fine. When texel
// is non-nil it multiplies the diffuse coefficient.
func Evaluate(n, l, v math.Vec3, mat Material, intensity Color, texel *Color) Terms {
	n = n.Normalize()
	l = l.Normalize()
	h := l.Add(v.Normalize()).Normalize()

	kd := mat.Diffuse
	if texel != nil {
		kd = kd.Mul(*texel)
	}

	nl := max(0, n.Dot(l))
	nh := max(0, n.Dot(h))
	spec := float32(gomath.Pow(float64(nh), float64(mat.Shininess)))

	return Terms{
		Ambient:  mat.Ambient,
		Diffuse:  kd.Mul(intensity).Scale(nl),
		Specular: mat.Specular.Mul(intensity).Scale(spec),
	}
}

// Shade returns ka + diffuse + specular for one fragment, unclamped.
func Shade(n, l, v math.Vec3, mat Material, intensity Color, texel *Color) Color {
	return Evaluate(n, l, v, mat, intensity, texel).Sum()
}
