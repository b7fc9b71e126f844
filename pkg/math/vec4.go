package math

// Vec4 is a 4-component vector; index 3 is the homogeneous w.
type Vec4 [4]float32

// W returns the homogeneous component.
func (v Vec4) W() float32 {
	return v[3]
}

// PerspectiveDivide returns xyz/w. ok is false when w is zero.
func (v Vec4) PerspectiveDivide() (Vec3, bool) {
	if v[3] == 0 {
		return Vec3{}, false
	}
	inv := 1 / v[3]
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, true
}
