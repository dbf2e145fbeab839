package mathx

import "math"

// Mat3 is a 3x3 affine matrix stored column-major:
//
//	| m[0] m[3] m[6] |
//	| m[1] m[4] m[7] |
//	| m[2] m[5] m[8] |
//
// m[6], m[7] hold the translation.
type Mat3 [9]float64

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Multiply returns a × b.
func Multiply(a, b Mat3) Mat3 {
	var out Mat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			out[c*3+r] = a[r]*b[c*3] + a[3+r]*b[c*3+1] + a[6+r]*b[c*3+2]
		}
	}
	return out
}

// Translate returns m × T(v).
func (m Mat3) Translate(v Vec2) Mat3 {
	return Multiply(m, Mat3{1, 0, 0, 0, 1, 0, v[0], v[1], 1})
}

// Rotate returns m × R(rad).
func (m Mat3) Rotate(rad float64) Mat3 {
	s, c := math.Sincos(rad)
	return Multiply(m, Mat3{c, s, 0, -s, c, 0, 0, 0, 1})
}

// Scale returns m × S(v).
func (m Mat3) Scale(v Vec2) Mat3 {
	return Multiply(m, Mat3{v[0], 0, 0, 0, v[1], 0, 0, 0, 1})
}

// Translation returns the translation column.
func (m Mat3) Translation() Vec2 {
	return Vec2{m[6], m[7]}
}

// TransformPoint applies m to the point p.
func (m Mat3) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		m[0]*p[0] + m[3]*p[1] + m[6],
		m[1]*p[0] + m[4]*p[1] + m[7],
	}
}

// TRS builds identity → translate → rotate → scale.
func TRS(translation Vec2, rotation float64, scale Vec2) Mat3 {
	return Identity().Translate(translation).Rotate(rotation).Scale(scale)
}
