package models

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/hschendel/stl"
	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

func TestLoadSTL(t *testing.T) {
	solid := &stl.Solid{
		Name: "tri",
		Triangles: []stl.Triangle{{
			Normal:   stl.Vec3{0, 0, 1},
			Vertices: [3]stl.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		}},
	}
	path := filepath.Join(t.TempDir(), "tri.stl")
	if err := solid.WriteFile(path); err != nil {
		t.Fatalf("write stl: %v", err)
	}

	mesh, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mesh.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", mesh.Len())
	}
	tri, _ := mesh.At(0)
	if tri.V[1] != math3d.V3(1, 0, 0) || tri.Color != DefaultColor {
		t.Errorf("triangle = %+v", tri)
	}
}

func TestLoadSTLNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	solid := &stl.Solid{
		Name: "bad",
		Triangles: []stl.Triangle{{
			Vertices: [3]stl.Vec3{{0, 0, 0}, {nan, 0, 0}, {0, 1, 0}},
		}},
	}
	path := filepath.Join(t.TempDir(), "bad.stl")
	if err := solid.WriteFile(path); err != nil {
		t.Fatalf("write stl: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestFromFauxglNonFinite(t *testing.T) {
	good := fauxgl.NewTriangleForPoints(fauxgl.V(0, 0, 0), fauxgl.V(1, 0, 0), fauxgl.V(0, 1, 0))
	bad := fauxgl.NewTriangleForPoints(fauxgl.V(0, 0, 0), fauxgl.V(math.Inf(1), 0, 0), fauxgl.V(0, 1, 0))

	if _, err := fromFauxgl("good", fauxgl.NewTriangleMesh([]*fauxgl.Triangle{good})); err != nil {
		t.Errorf("finite mesh: %v", err)
	}
	_, err := fromFauxgl("bad", fauxgl.NewTriangleMesh([]*fauxgl.Triangle{good, bad}))
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

const asciiPLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 2
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
3 0 1 2
3 0 2 3
`

func TestLoadPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(asciiPLY), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mesh.Len() != 2 {
		t.Errorf("Len() = %d, want 2", mesh.Len())
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("model.fbx"); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}
