package math3d

import (
	"math"

	"github.com/taigrr/scanline/pkg/errs"
)

// Mat3 is a 3x3 matrix stored in row-major order.
//
// Memory layout (indices):
// | 0 1 2 |
// | 3 4 5 |
// | 6 7 8 |
//
// Vectors are rows, so v' = v·M and the rows of M are the images of the
// unit axes. Products compose left to right: v·(A·B) applies A first.
type Mat3 [9]float64

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Diagonal returns a matrix with x, y, z on the diagonal.
func Diagonal(x, y, z float64) Mat3 {
	return Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, z,
	}
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

// Rotation composes pitch about X, yaw about Y and roll about Z as
// RotateX(pitch)·RotateY(yaw)·RotateZ(roll). The order is significant.
func Rotation(yaw, pitch, roll float64) Mat3 {
	return RotateX(pitch).Mul(RotateY(yaw)).Mul(RotateZ(roll))
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for row := range 3 {
		for col := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row*3+k] * b[k*3+col]
			}
			m[row*3+col] = sum
		}
	}
	return m
}

// MulVec transforms the row vector v: v·m.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0] + v.Y*m[3] + v.Z*m[6],
		v.X*m[1] + v.Y*m[4] + v.Z*m[7],
		v.X*m[2] + v.Y*m[5] + v.Z*m[8],
	}
}

// MulMat transforms v by m as a row vector: v·m.
func (a Vec3) MulMat(m Mat3) Vec3 {
	return m.MulVec(a)
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Get returns the element at (row, col).
func (m Mat3) Get(row, col int) float64 {
	return m[row*3+col]
}

// Set sets the element at (row, col).
func (m *Mat3) Set(row, col int, val float64) {
	m[row*3+col] = val
}

// Row returns row i as a vector.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// FromRows builds a matrix whose rows are r0, r1, r2.
func FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0.X, r0.Y, r0.Z,
		r1.X, r1.Y, r1.Z,
		r2.X, r2.Y, r2.Z,
	}
}

// Mat3FromRows builds a matrix from a dynamically sized row slice.
// Anything other than 3 rows of 3 values is a dimension mismatch.
func Mat3FromRows(rows [][]float64) (Mat3, error) {
	if len(rows) != 3 {
		return Mat3{}, errs.Mismatch("want 3 rows, got %d", len(rows))
	}
	var m Mat3
	for i, row := range rows {
		if len(row) != 3 {
			return Mat3{}, errs.Mismatch("row %d: want 3 columns, got %d", i, len(row))
		}
		copy(m[i*3:i*3+3], row)
	}
	return m, nil
}

// Vec3FromSlice converts a []float64 of length 3 to a Vec3.
func Vec3FromSlice(s []float64) (Vec3, error) {
	if len(s) != 3 {
		return Vec3{}, errs.Invalid("vector must be 3 dimensional, got %d components", len(s))
	}
	return Vec3{s[0], s[1], s[2]}, nil
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func (a Mat3) ApproxEqual(b Mat3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
