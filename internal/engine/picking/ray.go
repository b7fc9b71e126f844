// Package picking casts rays from the viewport into the scene to find the
// object under the cursor.
package picking

import (
	gomath "math"

	"github.com/Faultbox/scenekit/internal/engine/mesh"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray with a unit
// direction. invViewProj is the inverse of projection × view. ok is false
// when the unprojection degenerates.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) (Ray, bool) {
	// Screen to normalized device coords (-1 to 1), y up
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near, ok1 := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1, 1}).PerspectiveDivide()
	far, ok2 := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1, 1}).PerspectiveDivide()
	if !ok1 || !ok2 {
		return Ray{}, false
	}

	dir := far.Sub(near)
	if dir.Length() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir.Normalize()}, true
}

// IntersectBounds tests the ray against an axis-aligned box with the slab
// method. It returns the entry distance, or the exit distance if the ray
// starts inside the box. The direction need not be normalized; t is in
// units of the direction's length.
func (r Ray) IntersectBounds(b mesh.Bounds) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := b.Min.Array()
	hi := b.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is a picked object.
type Hit struct {
	ObjectID string
	Distance float32
	Point    math.Vec3
}

// Pick returns the nearest object whose transformed mesh bounds the ray
// crosses. Each object is tested in its model space so rotated objects use
// their tight box.
func Pick(ray Ray, items []scene.DrawItem) (Hit, bool) {
	best := Hit{Distance: float32(gomath.MaxFloat32)}
	found := false

	var inv math.Mat4
	for i := range items {
		item := &items[i]
		if err := math.InverseInto(&inv, &item.Model); err != nil {
			continue
		}
		// Unnormalized local direction keeps t comparable across objects.
		local := Ray{
			Origin:    inv.TransformPoint(ray.Origin),
			Direction: inv.TransformDirection(ray.Direction),
		}
		t, ok := local.IntersectBounds(item.Mesh.Bounds())
		if !ok || t >= best.Distance {
			continue
		}
		best = Hit{ObjectID: item.ObjectID, Distance: t, Point: ray.At(t)}
		found = true
	}
	return best, found
}
