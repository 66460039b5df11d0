package math3d

import "math"

// Mat4 is a 4x4 matrix in column-major order, the layout OpenGL expects.
// Element (row, col) lives at index col*4+row, so the translation of an
// affine transform occupies indices 12, 13 and 14.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Translate returns a matrix that moves points by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a matrix that scales each axis by the matching component of v.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// ScaleUniform scales all three axes by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(Vec3{s, s, s})
}

// RotateX rotates counter-clockwise by angle radians about +X.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotateY rotates counter-clockwise by angle radians about +Y. A quarter
// turn maps +X onto -Z and +Z onto +X.
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotateZ rotates counter-clockwise by angle radians about +Z.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// LookAt builds a view matrix for an eye at eye looking towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	r := f.Cross(up).Normalize()
	u := r.Cross(f)

	return Mat4{
		r.X, u.X, -f.X, 0,
		r.Y, u.Y, -f.Y, 0,
		r.Z, u.Z, -f.Z, 0,
		-r.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective builds an OpenGL style projection. fovy is the vertical field
// of view in radians and aspect is width over height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	depth := 1 / (near - far)

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * depth
	m[11] = -1
	m[14] = 2 * far * near * depth
	return m
}

// Mul returns a*b, so (a*b)*v == a*(b*v).
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[col*4+row] = a[row]*b[col*4] +
				a[4+row]*b[col*4+1] +
				a[8+row]*b[col*4+2] +
				a[12+row]*b[col*4+3]
		}
	}
	return m
}

// MulVec3 transforms v as a point (w=1) and divides by the resulting w when
// it is not zero.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms v as a direction (w=0); translation is ignored.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).Vec3()
}

func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Inverse returns the inverse of m. ok is false when m is singular, in which
// case the identity is returned.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	// The array read row by row is the transpose of m. Inverting the
	// transpose and writing it back row by row yields m^-1 column-major.
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	s0 := a00*a11 - a10*a01
	s1 := a00*a12 - a10*a02
	s2 := a00*a13 - a10*a03
	s3 := a01*a12 - a11*a02
	s4 := a01*a13 - a11*a03
	s5 := a02*a13 - a12*a03

	c5 := a22*a33 - a32*a23
	c4 := a21*a33 - a31*a23
	c3 := a21*a32 - a31*a22
	c2 := a20*a33 - a30*a23
	c1 := a20*a32 - a30*a22
	c0 := a20*a31 - a30*a21

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity(), false
	}
	d := 1 / det

	return Mat4{
		(a11*c5 - a12*c4 + a13*c3) * d,
		(-a01*c5 + a02*c4 - a03*c3) * d,
		(a31*s5 - a32*s4 + a33*s3) * d,
		(-a21*s5 + a22*s4 - a23*s3) * d,

		(-a10*c5 + a12*c2 - a13*c1) * d,
		(a00*c5 - a02*c2 + a03*c1) * d,
		(-a30*s5 + a32*s2 - a33*s1) * d,
		(a20*s5 - a22*s2 + a23*s1) * d,

		(a10*c4 - a11*c2 + a13*c0) * d,
		(-a00*c4 + a01*c2 - a03*c0) * d,
		(a30*s4 - a31*s2 + a33*s0) * d,
		(-a20*s4 + a21*s2 - a23*s0) * d,

		(-a10*c3 + a11*c1 - a12*c0) * d,
		(a00*c3 - a01*c1 + a02*c0) * d,
		(-a30*s3 + a31*s1 - a32*s0) * d,
		(a20*s3 - a21*s1 + a22*s0) * d,
	}, true
}

// Translation returns the translation part of an affine transform.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Get returns element (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[col*4+row]
}

// ApproxEqual reports whether all sixteen elements differ by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}
