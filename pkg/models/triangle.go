// Package models provides the triangle and mesh data model for scanline,
// plus loaders for the supported mesh sources.
package models

import (
	"image/color"
	"iter"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

// TriangleSize is the fixed vertex count of a Triangle.
const TriangleSize = 3

// DefaultColor is the color of triangles whose source carries none.
var DefaultColor = color.RGBA{255, 255, 255, 255}

// Triangle is three vertices, wound clockwise as seen from the visible side
// on screen, with one flat color.
type Triangle struct {
	V     [TriangleSize]math3d.Vec3
	Color color.RGBA

	// Shading is the light intensity last applied to Color, 1 when unlit.
	Shading float64
}

// NewTriangle creates an unshaded triangle.
func NewTriangle(a, b, c math3d.Vec3, col color.RGBA) Triangle {
	return Triangle{
		V:       [TriangleSize]math3d.Vec3{a, b, c},
		Color:   col,
		Shading: 1,
	}
}

// Vertex returns vertex i.
func (t Triangle) Vertex(i int) (math3d.Vec3, error) {
	if i < 0 || i >= TriangleSize {
		return math3d.Vec3{}, errs.OutOfRange(i, TriangleSize)
	}
	return t.V[i], nil
}

// SetVertex replaces vertex i.
func (t *Triangle) SetVertex(i int, v math3d.Vec3) error {
	if i < 0 || i >= TriangleSize {
		return errs.OutOfRange(i, TriangleSize)
	}
	t.V[i] = v
	return nil
}

// SetVertexSlice replaces vertex i with a point given as a slice, which
// must hold exactly 3 coordinates.
func (t *Triangle) SetVertexSlice(i int, coords []float64) error {
	if i < 0 || i >= TriangleSize {
		return errs.OutOfRange(i, TriangleSize)
	}
	v, err := math3d.Vec3FromSlice(coords)
	if err != nil {
		return err
	}
	t.V[i] = v
	return nil
}

// SetColor replaces the triangle color. A nil color is rejected.
func (t *Triangle) SetColor(c color.Color) error {
	if c == nil {
		return errs.Invalid("triangle color is nil")
	}
	t.Color = color.RGBAModel.Convert(c).(color.RGBA)
	return nil
}

// Vertices iterates over the vertices in winding order.
func (t Triangle) Vertices() iter.Seq2[int, math3d.Vec3] {
	return func(yield func(int, math3d.Vec3) bool) {
		for i, v := range t.V {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Normal returns the unit surface normal (v1-v0) × (v2-v0).
func (t Triangle) Normal() math3d.Vec3 {
	e1 := t.V[1].Sub(t.V[0])
	e2 := t.V[2].Sub(t.V[0])
	return e1.Cross(e2).Normalize()
}

// Area returns the surface area.
func (t Triangle) Area() float64 {
	e1 := t.V[1].Sub(t.V[0])
	e2 := t.V[2].Sub(t.V[0])
	return e1.Cross(e2).Len() / 2
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() math3d.Vec3 {
	return t.V[0].Add(t.V[1]).Add(t.V[2]).Scale(1.0 / 3)
}

// Shaded returns a copy whose color channels are scaled by intensity,
// which must lie in [0, 1].
func (t Triangle) Shaded(intensity float64) (Triangle, error) {
	if !(intensity >= 0 && intensity <= 1) {
		return t, errs.Invalid("shading %v outside [0, 1]", intensity)
	}
	t.Color = color.RGBA{
		R: uint8(intensity * float64(t.Color.R)),
		G: uint8(intensity * float64(t.Color.G)),
		B: uint8(intensity * float64(t.Color.B)),
		A: t.Color.A,
	}
	t.Shading = intensity
	return t, nil
}

// Transform returns the triangle with every vertex mapped to v·m + offset.
func (t Triangle) Transform(m math3d.Mat3, offset math3d.Vec3) Triangle {
	for i := range t.V {
		t.V[i] = t.V[i].MulMat(m).Add(offset)
	}
	return t
}
