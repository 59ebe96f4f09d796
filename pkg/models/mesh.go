package models

import (
	"image/color"
	"iter"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

// Mesh is an ordered, immutable collection of triangles. It is safe to
// share across frames and goroutines once built.
type Mesh struct {
	name      string
	triangles []Triangle

	// Bounding box (calculated on construction)
	boundsMin math3d.Vec3
	boundsMax math3d.Vec3
}

// NewMesh creates a mesh holding a copy of tris in the given order.
func NewMesh(name string, tris ...Triangle) *Mesh {
	m := &Mesh{
		name:      name,
		triangles: make([]Triangle, len(tris)),
	}
	copy(m.triangles, tris)
	m.calculateBounds()
	return m
}

// checkFinite rejects triangles with a NaN or infinite vertex.
func checkFinite(tris []Triangle) error {
	for i, t := range tris {
		for j, v := range t.V {
			if !v.IsFinite() {
				return errs.Invalid("triangle %d vertex %d is not finite: %v", i, j, v)
			}
		}
	}
	return nil
}

func (m *Mesh) calculateBounds() {
	if len(m.triangles) == 0 {
		return
	}

	m.boundsMin = m.triangles[0].V[0]
	m.boundsMax = m.triangles[0].V[0]

	for _, t := range m.triangles {
		for _, v := range t.V {
			m.boundsMin = m.boundsMin.Min(v)
			m.boundsMax = m.boundsMax.Max(v)
		}
	}
}

// Name returns the name the mesh was loaded under.
func (m *Mesh) Name() string {
	return m.name
}

// Len returns the number of triangles.
func (m *Mesh) Len() int {
	return len(m.triangles)
}

// At returns triangle i.
func (m *Mesh) At(i int) (Triangle, error) {
	if i < 0 || i >= len(m.triangles) {
		return Triangle{}, errs.OutOfRange(i, len(m.triangles))
	}
	return m.triangles[i], nil
}

// All iterates over the triangles in insertion order. Triangles are
// yielded by value, so callers cannot mutate the mesh.
func (m *Mesh) All() iter.Seq2[int, Triangle] {
	return func(yield func(int, Triangle) bool) {
		for i, t := range m.triangles {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	return m.boundsMin, m.boundsMax
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.boundsMin.Add(m.boundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.boundsMax.Sub(m.boundsMin)
}

// Transformed returns a new mesh with every vertex mapped to v·mat + offset.
func (m *Mesh) Transformed(mat math3d.Mat3, offset math3d.Vec3) *Mesh {
	out := &Mesh{
		name:      m.name,
		triangles: make([]Triangle, len(m.triangles)),
	}
	for i, t := range m.triangles {
		out.triangles[i] = t.Transform(mat, offset)
	}
	out.calculateBounds()
	return out
}

// Fit returns a copy centered on the origin whose largest dimension is size.
// An empty or flat-to-a-point mesh is only recentered.
func (m *Mesh) Fit(size float64) *Mesh {
	s := m.Size()
	maxDim := max(s.X, s.Y, s.Z)
	scale := 1.0
	if maxDim > 0 {
		scale = size / maxDim
	}
	return m.Transformed(math3d.Diagonal(scale, scale, scale), m.Center().Scale(-scale))
}

// Recolored returns a copy with every triangle set to c.
func (m *Mesh) Recolored(c color.RGBA) *Mesh {
	out := NewMesh(m.name, m.triangles...)
	for i := range out.triangles {
		out.triangles[i].Color = c
	}
	return out
}
