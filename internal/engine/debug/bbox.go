package debug

import (
	"github.com/Faultbox/scenekit/internal/engine/mesh"
	"github.com/Faultbox/scenekit/pkg/math"
)

// BoxLineVertexCount is the number of line endpoints in a box wireframe.
const BoxLineVertexCount = 24

// BoxLines returns line-list vertices (x, y, z each) for the 12 edges of
// the axis-aligned box [lo, hi].
func BoxLines(lo, hi math.Vec3) []float32 {
	return []float32{
		// Bottom face
		lo.X, lo.Y, lo.Z, hi.X, lo.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, lo.Y, hi.Z,
		hi.X, lo.Y, hi.Z, lo.X, lo.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, lo.Y, lo.Z,
		// Top face
		lo.X, hi.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, hi.Y, lo.Z, hi.X, hi.Y, hi.Z,
		hi.X, hi.Y, hi.Z, lo.X, hi.Y, hi.Z,
		lo.X, hi.Y, hi.Z, lo.X, hi.Y, lo.Z,
		// Vertical edges
		lo.X, lo.Y, lo.Z, lo.X, hi.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, lo.Y, hi.Z, hi.X, hi.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, hi.Y, hi.Z,
	}
}

// BoundsLines returns the wireframe of a mesh's model-space bounds, grown
// by padding on every side. The lines are drawn with the object's model
// matrix so they follow its transforms.
func BoundsLines(b mesh.Bounds, padding float32) []float32 {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	return BoxLines(b.Min.Sub(pad), b.Max.Add(pad))
}
