package models

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/taigrr/scanline/pkg/math3d"
)

// LoadPLY reads a Stanford PLY file.
func LoadPLY(path string) (*Mesh, error) {
	m, err := fauxgl.LoadPLY(path)
	if err != nil {
		return nil, fmt.Errorf("read ply: %w", err)
	}
	mesh, err := fromFauxgl(filepath.Base(path), m)
	if err != nil {
		return nil, fmt.Errorf("read ply: %w", err)
	}
	return mesh, nil
}

// Load3DS reads an Autodesk 3DS file.
func Load3DS(path string) (*Mesh, error) {
	m, err := fauxgl.Load3DS(path)
	if err != nil {
		return nil, fmt.Errorf("read 3ds: %w", err)
	}
	mesh, err := fromFauxgl(filepath.Base(path), m)
	if err != nil {
		return nil, fmt.Errorf("read 3ds: %w", err)
	}
	return mesh, nil
}

func fromFauxgl(name string, m *fauxgl.Mesh) (*Mesh, error) {
	tris := make([]Triangle, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		tris = append(tris, NewTriangle(
			fauxglVec(t.V1.Position),
			fauxglVec(t.V2.Position),
			fauxglVec(t.V3.Position),
			fauxglColor(t.V1.Color, t.V2.Color, t.V3.Color),
		))
	}
	if err := checkFinite(tris); err != nil {
		return nil, err
	}
	return NewMesh(name, tris...), nil
}

func fauxglVec(v fauxgl.Vector) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}

// fauxglColor averages vertex colors. Files without vertex colors leave
// them transparent black, which maps to DefaultColor.
func fauxglColor(cs ...fauxgl.Color) color.RGBA {
	var r, g, b, a float64
	for _, c := range cs {
		r += c.R
		g += c.G
		b += c.B
		a += c.A
	}
	n := float64(len(cs))
	if a == 0 {
		return DefaultColor
	}
	return color.RGBA{
		R: unitToByte(r / n),
		G: unitToByte(g / n),
		B: unitToByte(b / n),
		A: unitToByte(a / n),
	}
}
