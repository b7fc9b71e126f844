// Package camera provides the look-at camera, perspective settings and an
// orbit controller for interactive viewing.
package camera

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Default projection parameters.
const (
	DefaultFovY = gomath.Pi / 4
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Camera is a look-at camera.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
}

// ViewMatrix returns the world-to-view transform.
func (c Camera) ViewMatrix() (math.Mat4, error) {
	m, err := math.LookAt(c.Position, c.Target, c.Up)
	if err != nil {
		return math.Mat4{}, fmt.Errorf("camera at %v looking at %v: %w", c.Position, c.Target, err)
	}
	return m, nil
}

// Projection holds perspective parameters. The aspect ratio comes from the
// viewport at render time.
type Projection struct {
	FovY float32 // radians
	Near float32
	Far  float32
}

// DefaultProjection returns a 45 degree projection with near 0.1 and far 100.
func DefaultProjection() Projection {
	return Projection{FovY: DefaultFovY, Near: DefaultNear, Far: DefaultFar}
}

// Matrix returns the projection matrix for the given aspect ratio.
func (p Projection) Matrix(aspect float32) (math.Mat4, error) {
	return math.Perspective(p.FovY, aspect, p.Near, p.Far)
}
