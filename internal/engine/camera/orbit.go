package camera

import (
	gomath "math"

	"github.com/Faultbox/scenekit/pkg/math"
)

// OrbitCamera orbits around a center point with +Y up.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        8.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     1.5,
		MaxDistance:     80.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// NewOrbitFromCamera creates an orbit camera that reproduces the eye and
// target of c.
func NewOrbitFromCamera(c Camera) *OrbitCamera {
	o := NewOrbitCamera()
	o.SetCenter(c.Target.X, c.Target.Y, c.Target.Z)

	offset := c.Position.Sub(c.Target)
	dist := offset.Length()
	if dist == 0 {
		return o
	}

	o.Distance = dist
	if o.Distance < o.MinDistance {
		o.MinDistance = o.Distance
	}
	if o.Distance > o.MaxDistance {
		o.MaxDistance = o.Distance
	}
	o.RotationX = float32(gomath.Asin(float64(offset.Y / dist)))
	o.RotationY = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	o.clampPitch()
	return o
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// Camera returns the current look-at camera.
func (c *OrbitCamera) Camera() Camera {
	return Camera{
		Position: c.Position(),
		Target:   math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ},
		Up:       math.Vec3{Y: 1},
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() (math.Mat4, error) {
	return c.Camera().ViewMatrix()
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.clampPitch()
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dirX := float32(gomath.Sin(float64(c.RotationY)))
	dirZ := float32(gomath.Cos(float64(c.RotationY)))
	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	// Negate forward so W moves into the scene
	c.CenterX += (-dirX*forward + rightX*right) * speed
	c.CenterZ += (-dirZ*forward + rightZ*right) * speed
	c.CenterY += up * speed
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// FitToBounds centers the camera on the box and backs off far enough to
// keep it in a 45 degree frustum.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	center := lo.Add(hi).Scale(0.5)
	c.SetCenter(center.X, center.Y, center.Z)

	radius := hi.Sub(lo).Length() / 2
	c.Distance = radius / float32(gomath.Sin(DefaultFovY/2))
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.MaxDistance = c.Distance
	}
}

func (c *OrbitCamera) clampPitch() {
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}
