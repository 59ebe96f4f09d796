package models

import (
	"fmt"
	"path/filepath"

	"github.com/hschendel/stl"
	"github.com/taigrr/scanline/pkg/math3d"
)

// LoadSTL reads an ASCII or binary STL file. Facet normals in the file
// are ignored; winding determines facing.
func LoadSTL(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}

	tris := make([]Triangle, 0, len(solid.Triangles))
	for _, t := range solid.Triangles {
		var v [TriangleSize]math3d.Vec3
		for i, p := range t.Vertices {
			v[i] = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
		}
		tris = append(tris, NewTriangle(v[0], v[1], v[2], DefaultColor))
	}
	if err := checkFinite(tris); err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}

	return NewMesh(filepath.Base(path), tris...), nil
}
