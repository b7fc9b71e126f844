package math

// Mat3 is a 3x3 column-major matrix, used for normal transforms.
type Mat3 [9]float32

// MulVec3 returns m*v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat3) Ptr() *float32 {
	return &m[0]
}
