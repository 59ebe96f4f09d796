package models

import (
	"path/filepath"
	"strings"

	"github.com/taigrr/scanline/pkg/errs"
)

// Load reads a mesh file, choosing the loader by extension.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj", ".txt":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	case ".stl":
		return LoadSTL(path)
	case ".ply":
		return LoadPLY(path)
	case ".3ds":
		return Load3DS(path)
	default:
		return nil, errs.Invalid("unsupported mesh format %q", ext)
	}
}

// Extensions lists the file extensions Load accepts.
func Extensions() []string {
	return []string{".obj", ".txt", ".glb", ".gltf", ".stl", ".ply", ".3ds"}
}
