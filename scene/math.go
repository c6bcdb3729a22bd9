// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Matrices follow golang.org/x/image/math/f32: row major, m[4*r+c].
// Vectors are columns, so Mul(a, b) applies b first.

// Identity returns the identity matrix.
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a*b.
func Mul(a, b f32.Mat4) f32.Mat4 {
	var m f32.Mat4
	for r := range 4 {
		for c := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[4*r+k] * b[4*k+c]
			}
			m[4*r+c] = sum
		}
	}
	return m
}

// Translation returns a matrix translating by t.
func Translation(t f32.Vec3) f32.Mat4 {
	m := Identity()
	m[3], m[7], m[11] = t[0], t[1], t[2]
	return m
}

// Scaling returns a matrix scaling by s.
func Scaling(s f32.Vec3) f32.Mat4 {
	m := Identity()
	m[0], m[5], m[10] = s[0], s[1], s[2]
	return m
}

// RotationY returns a rotation of angle radians around +Y.
func RotationY(angle float32) f32.Mat4 {
	s, c := math32.Sincos(angle)
	return f32.Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a right handed projection with depth in [0, 1].
// fovY is in radians.
func Perspective(fovY, aspect, near, far float32) f32.Mat4 {
	f := 1 / math32.Tan(fovY/2)
	return f32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (near - far), near * far / (near - far),
		0, 0, -1, 0,
	}
}

// Orthographic returns a right handed orthographic projection with depth
// in [0, 1].
func Orthographic(left, right, bottom, top, near, far float32) f32.Mat4 {
	return f32.Mat4{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, 1 / (near - far), near / (near - far),
		0, 0, 0, 1,
	}
}

// LookAt returns a right handed view matrix.
func LookAt(eye, target, up f32.Vec3) f32.Mat4 {
	f := Normalize(Sub(target, eye))
	s := Normalize(Cross(f, up))
	u := Cross(s, f)
	return f32.Mat4{
		s[0], s[1], s[2], -Dot(s, eye),
		u[0], u[1], u[2], -Dot(u, eye),
		-f[0], -f[1], -f[2], Dot(f, eye),
		0, 0, 0, 1,
	}
}

// Inverse returns the inverse of m and whether m is invertible.
func Inverse(m f32.Mat4) (f32.Mat4, bool) {
	a := m
	inv := Identity()
	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math32.Abs(a[4*r+col]) > math32.Abs(a[4*pivot+col]) {
				pivot = r
			}
		}
		if a[4*pivot+col] == 0 {
			return f32.Mat4{}, false
		}
		if pivot != col {
			for c := range 4 {
				a[4*col+c], a[4*pivot+c] = a[4*pivot+c], a[4*col+c]
				inv[4*col+c], inv[4*pivot+c] = inv[4*pivot+c], inv[4*col+c]
			}
		}
		p := 1 / a[4*col+col]
		for c := range 4 {
			a[4*col+c] *= p
			inv[4*col+c] *= p
		}
		for r := range 4 {
			if r == col {
				continue
			}
			f := a[4*r+col]
			for c := range 4 {
				a[4*r+c] -= f * a[4*col+c]
				inv[4*r+c] -= f * inv[4*col+c]
			}
		}
	}
	return inv, true
}

// Transpose returns m transposed. Shaders read matrices column major, so
// matrices are transposed on upload.
func Transpose(m f32.Mat4) f32.Mat4 {
	var t f32.Mat4
	for r := range 4 {
		for c := range 4 {
			t[4*c+r] = m[4*r+c]
		}
	}
	return t
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of m. A
// singular matrix yields the zero matrix.
func NormalMatrix(m f32.Mat4) f32.Mat3 {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[4], m[5], m[6]
	g, h, i := m[8], m[9], m[10]

	// Cofactors of the 3x3; the inverse transpose is cofactor / det.
	A, B, C := e*i-f*h, -(d*i - f*g), d*h-e*g
	D, E, F := -(b*i - c*h), a*i-c*g, -(a*h - b*g)
	G, H, I := b*f-c*e, -(a*f - c*d), a*e-b*d

	det := a*A + b*B + c*C
	if det == 0 {
		return f32.Mat3{}
	}
	inv := 1 / det
	return f32.Mat3{
		A * inv, B * inv, C * inv,
		D * inv, E * inv, F * inv,
		G * inv, H * inv, I * inv,
	}
}

// TransformPoint applies m to p with w = 1.
func TransformPoint(m f32.Mat4, p f32.Vec3) f32.Vec3 {
	return f32.Vec3{
		m[0]*p[0] + m[1]*p[1] + m[2]*p[2] + m[3],
		m[4]*p[0] + m[5]*p[1] + m[6]*p[2] + m[7],
		m[8]*p[0] + m[9]*p[1] + m[10]*p[2] + m[11],
	}
}

// TransformNormal applies the 3x3 matrix n to v and normalizes the result.
func TransformNormal(n f32.Mat3, v f32.Vec3) f32.Vec3 {
	return Normalize(f32.Vec3{
		n[0]*v[0] + n[1]*v[1] + n[2]*v[2],
		n[3]*v[0] + n[4]*v[1] + n[5]*v[2],
		n[6]*v[0] + n[7]*v[1] + n[8]*v[2],
	})
}

// Vector helpers.

func Add(a, b f32.Vec3) f32.Vec3 { return f32.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func Sub(a, b f32.Vec3) f32.Vec3 { return f32.Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func ScaleVec(v f32.Vec3, s float32) f32.Vec3 { return f32.Vec3{v[0] * s, v[1] * s, v[2] * s} }

func Dot(a, b f32.Vec3) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func Cross(a, b f32.Vec3) f32.Vec3 {
	return f32.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Length(v f32.Vec3) float32 { return math32.Sqrt(Dot(v, v)) }

// Normalize returns v scaled to unit length, or v if it has none.
func Normalize(v f32.Vec3) f32.Vec3 {
	l := Length(v)
	if l == 0 {
		return v
	}
	return ScaleVec(v, 1/l)
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 { return deg * math32.Pi / 180 }
