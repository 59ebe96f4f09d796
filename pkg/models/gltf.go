package models

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

// LoadGLB loads a glTF file (.glb or .gltf) and flattens every triangle
// primitive into a single mesh. Node transforms are not applied.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var tris []Triangle
	for _, m := range doc.Meshes {
		tris, err = appendPrimitives(doc, m, tris)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if err := checkFinite(tris); err != nil {
		return nil, fmt.Errorf("read gltf: %w", err)
	}

	return NewMesh(filepath.Base(path), tris...), nil
}

// appendPrimitives converts the triangle primitives of m. glTF winds front
// faces counter-clockwise, which already gives an outward cross-product
// normal, so indices are used in order.
func appendPrimitives(doc *gltf.Document, m *gltf.Mesh, tris []Triangle) ([]Triangle, error) {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// lines, points, strips and fans are not rendered
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if posIdx >= len(doc.Accessors) {
			return nil, fmt.Errorf("position accessor: %w", errs.OutOfRange(posIdx, len(doc.Accessors)))
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var indices []uint32
		if prim.Indices != nil {
			if *prim.Indices >= len(doc.Accessors) {
				return nil, fmt.Errorf("index accessor: %w", errs.OutOfRange(*prim.Indices, len(doc.Accessors)))
			}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		col := materialColor(doc, prim.Material)
		vertex := func(i uint32) (math3d.Vec3, error) {
			if int(i) >= len(positions) {
				return math3d.Vec3{}, errs.OutOfRange(int(i), len(positions))
			}
			p := positions[i]
			return math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])), nil
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var v [TriangleSize]math3d.Vec3
			for j := range v {
				if v[j], err = vertex(indices[i+j]); err != nil {
					return nil, fmt.Errorf("face %d: %w", i/3, err)
				}
			}
			tris = append(tris, NewTriangle(v[0], v[1], v[2], col))
		}
	}

	return tris, nil
}

// materialColor returns the base color factor of the referenced material,
// or DefaultColor.
func materialColor(doc *gltf.Document, idx *int) color.RGBA {
	if idx == nil || *idx < 0 || *idx >= len(doc.Materials) {
		return DefaultColor
	}
	pbr := doc.Materials[*idx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return DefaultColor
	}
	c := pbr.BaseColorFactor
	return color.RGBA{
		R: unitToByte(c[0]),
		G: unitToByte(c[1]),
		B: unitToByte(c[2]),
		A: unitToByte(c[3]),
	}
}

func unitToByte(f float64) uint8 {
	return uint8(max(0, min(1, f))*255 + 0.5)
}
