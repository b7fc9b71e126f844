package math

import (
	"errors"
	"math"
)

// Kernel errors.
var (
	ErrSingularMatrix    = errors.New("singular matrix")
	ErrInvalidProjection = errors.New("invalid projection parameters")
	ErrDegenerateBasis   = errors.New("degenerate look-at basis")
)

// SingularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const SingularEpsilon = 1e-12

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at column c, row r.
func (m Mat4) At(c, r int) float32 {
	return m[c*4+r]
}

// Perspective returns a right-handed perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) (Mat4, error) {
	if fovY <= 0 || fovY >= math.Pi || aspect <= 0 || near <= 0 || near >= far {
		return Mat4{}, ErrInvalidProjection
	}

	f := float32(1.0 / math.Tan(float64(fovY)/2.0))
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}, nil
}

// LookAt returns a view matrix looking from eye to center with up direction.
// It fails when eye and center coincide or up is parallel to the view axis.
func LookAt(eye, center, up Vec3) (Mat4, error) {
	back := eye.Sub(center)
	if back.Length() < 1e-6 {
		return Mat4{}, ErrDegenerateBasis
	}
	z := back.Normalize()

	x := up.Cross(z)
	if x.Length() < 1e-6 {
		return Mat4{}, ErrDegenerateBasis
	}
	x = x.Normalize()
	y := z.Cross(x).Normalize()

	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}, nil
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))

	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotateY(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))

	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
// The result applies other first, then m.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	MulInto(&result, &m, &other)
	return result
}

// MulInto writes a*b into dst. dst may alias a or b.
func MulInto(dst, a, b *Mat4) {
	var result Mat4
	for col := 0; col < 4; col++ {
		b0, b1, b2, b3 := b[col*4+0], b[col*4+1], b[col*4+2], b[col*4+3]
		for row := 0; row < 4; row++ {
			result[col*4+row] = a[0*4+row]*b0 + a[1*4+row]*b1 + a[2*4+row]*b2 + a[3*4+row]*b3
		}
	}
	*dst = result
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	m.TransposeInPlace()
	return m
}

// TransposeInPlace transposes m without a temporary matrix.
func (m *Mat4) TransposeInPlace() {
	for c := 0; c < 4; c++ {
		for r := c + 1; r < 4; r++ {
			m[c*4+r], m[r*4+c] = m[r*4+c], m[c*4+r]
		}
	}
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// TransformVec4 returns m*v.
func TransformVec4(v Vec4, m Mat4) Vec4 {
	return m.MulVec4(v)
}

// Mat3x3 returns the upper-left 3x3 portion of the matrix.
func (m Mat4) Mat3x3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// subDeterminants holds the twelve 2x2 determinants the inverse is built from.
// b0..b5 come from columns 0 and 1, b6..b11 from columns 2 and 3.
type subDeterminants [12]float32

func (m *Mat4) subDeterminants() (subDeterminants, float32) {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b := subDeterminants{
		a00*a11 - a01*a10,
		a00*a12 - a02*a10,
		a00*a13 - a03*a10,
		a01*a12 - a02*a11,
		a01*a13 - a03*a11,
		a02*a13 - a03*a12,
		a20*a31 - a21*a30,
		a20*a32 - a22*a30,
		a20*a33 - a23*a30,
		a21*a32 - a22*a31,
		a21*a33 - a23*a31,
		a22*a33 - a23*a32,
	}
	det := b[0]*b[11] - b[1]*b[10] + b[2]*b[9] + b[3]*b[8] - b[4]*b[7] + b[5]*b[6]
	return b, det
}

func singular(det float32) bool {
	return math.Abs(float64(det)) < SingularEpsilon || math.IsNaN(float64(det)) || math.IsInf(float64(det), 0)
}

// Inverse returns the inverse of the matrix using the adjugate built from
// 2x2 sub-determinants. Returns ErrSingularMatrix when det is ~0.
func (m Mat4) Inverse() (Mat4, error) {
	var out Mat4
	if err := InverseInto(&out, &m); err != nil {
		return Mat4{}, err
	}
	return out, nil
}

// InverseInto writes the inverse of a into dst. dst may alias a.
// dst is left untouched on error.
func InverseInto(dst, a *Mat4) error {
	b, det := a.subDeterminants()
	if singular(det) {
		return ErrSingularMatrix
	}
	inv := 1 / det

	a00, a01, a02, a03 := a[0], a[1], a[2], a[3]
	a10, a11, a12, a13 := a[4], a[5], a[6], a[7]
	a20, a21, a22, a23 := a[8], a[9], a[10], a[11]
	a30, a31, a32, a33 := a[12], a[13], a[14], a[15]

	*dst = Mat4{
		(a11*b[11] - a12*b[10] + a13*b[9]) * inv,
		(a02*b[10] - a01*b[11] - a03*b[9]) * inv,
		(a31*b[5] - a32*b[4] + a33*b[3]) * inv,
		(a22*b[4] - a21*b[5] - a23*b[3]) * inv,
		(a12*b[8] - a10*b[11] - a13*b[7]) * inv,
		(a00*b[11] - a02*b[8] + a03*b[7]) * inv,
		(a32*b[2] - a30*b[5] - a33*b[1]) * inv,
		(a20*b[5] - a22*b[2] + a23*b[1]) * inv,
		(a10*b[10] - a11*b[8] + a13*b[6]) * inv,
		(a01*b[8] - a00*b[10] - a03*b[6]) * inv,
		(a30*b[4] - a31*b[2] + a33*b[0]) * inv,
		(a21*b[2] - a20*b[4] - a23*b[0]) * inv,
		(a11*b[7] - a10*b[9] - a12*b[6]) * inv,
		(a00*b[9] - a01*b[7] + a02*b[6]) * inv,
		(a31*b[1] - a30*b[3] - a32*b[0]) * inv,
		(a20*b[3] - a21*b[1] + a22*b[0]) * inv,
	}
	return nil
}

// InverseTranspose3x3 returns the normal matrix of a model-view matrix: the
// transpose of the upper-left 3x3 of its inverse, computed without
// materializing the full 4x4 inverse.
func (m Mat4) InverseTranspose3x3() (Mat3, error) {
	var out Mat3
	if err := InverseTranspose3x3Into(&out, &m); err != nil {
		return Mat3{}, err
	}
	return out, nil
}

// InverseTranspose3x3Into writes the normal matrix of a into dst.
func InverseTranspose3x3Into(dst *Mat3, a *Mat4) error {
	b, det := a.subDeterminants()
	if singular(det) {
		return ErrSingularMatrix
	}
	inv := 1 / det

	a00, a01, a02, a03 := a[0], a[1], a[2], a[3]
	a10, a11, a12, a13 := a[4], a[5], a[6], a[7]
	a30, a31, a32, a33 := a[12], a[13], a[14], a[15]

	*dst = Mat3{
		(a11*b[11] - a12*b[10] + a13*b[9]) * inv,
		(a12*b[8] - a10*b[11] - a13*b[7]) * inv,
		(a10*b[10] - a11*b[8] + a13*b[6]) * inv,
		(a02*b[10] - a01*b[11] - a03*b[9]) * inv,
		(a00*b[11] - a02*b[8] + a03*b[7]) * inv,
		(a01*b[8] - a00*b[10] - a03*b[6]) * inv,
		(a31*b[5] - a32*b[4] + a33*b[3]) * inv,
		(a32*b[2] - a30*b[5] - a33*b[1]) * inv,
		(a30*b[4] - a31*b[2] + a33*b[0]) * inv,
	}
	return nil
}
