package math3d

import (
	"gonum.org/v1/gonum/mat"

	"github.com/taigrr/scanline/pkg/errs"
)

// Dense returns m as a gonum matrix.
func (m Mat3) Dense() *mat.Dense {
	data := make([]float64, 9)
	copy(data, m[:])
	return mat.NewDense(3, 3, data)
}

// VecDense returns a as a gonum column vector.
func (a Vec3) VecDense() *mat.VecDense {
	return mat.NewVecDense(3, a.Slice())
}

// Mat3FromDense converts any 3x3 gonum matrix to a Mat3.
func Mat3FromDense(d mat.Matrix) (Mat3, error) {
	r, c := d.Dims()
	if r != 3 || c != 3 {
		return Mat3{}, errs.Mismatch("want 3x3 matrix, got %dx%d", r, c)
	}
	var m Mat3
	for i := range 3 {
		for j := range 3 {
			m[i*3+j] = d.At(i, j)
		}
	}
	return m, nil
}

// Vec3FromVector converts a gonum vector of length 3 to a Vec3.
func Vec3FromVector(v mat.Vector) (Vec3, error) {
	if v.Len() != 3 {
		return Vec3{}, errs.Mismatch("want vector of length 3, got %d", v.Len())
	}
	return Vec3{v.AtVec(0), v.AtVec(1), v.AtVec(2)}, nil
}
