package models

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

// LoadOBJ reads a Wavefront OBJ subset from path. See ParseOBJ.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	tris, err := parseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewMesh(filepath.Base(path), tris...), nil
}

// ParseOBJ reads the line-oriented mesh format: "v x y z" appends a vertex
// and "f a b c" appends a triangle from 1-based vertex indices. A face
// index may carry texture and normal references ("3/1/2"); only the vertex
// index is used. Extra fields, blank lines and every other statement are
// ignored. Triangles get DefaultColor.
//
// Errors are *errs.ParseError values carrying the offending line number.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	tris, err := parseOBJ(r)
	if err != nil {
		return nil, err
	}
	return NewMesh("obj", tris...), nil
}

func parseOBJ(r io.Reader) ([]Triangle, error) {
	var (
		verts []math3d.Vec3
		tris  []Triangle
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, &errs.ParseError{Line: line, Msg: fmt.Sprintf("vertex needs 3 coordinates, got %d", len(fields)-1)}
			}
			var c [3]float64
			for i := range c {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, &errs.ParseError{Line: line, Msg: "bad vertex coordinate", Err: err}
				}
				if math.IsNaN(f) || math.IsInf(f, 0) {
					return nil, &errs.ParseError{
						Line: line,
						Msg:  "non-finite vertex coordinate",
						Err:  errs.Invalid("coordinate %q is not finite", fields[i+1]),
					}
				}
				c[i] = f
			}
			verts = append(verts, math3d.V3(c[0], c[1], c[2]))

		case "f":
			if len(fields) < 4 {
				return nil, &errs.ParseError{Line: line, Msg: fmt.Sprintf("face needs 3 indices, got %d", len(fields)-1)}
			}
			var v [TriangleSize]math3d.Vec3
			for i := range v {
				idx, err := faceIndex(fields[i+1])
				if err != nil {
					return nil, &errs.ParseError{Line: line, Msg: "bad face index", Err: err}
				}
				if idx < 1 || idx > len(verts) {
					return nil, &errs.ParseError{
						Line: line,
						Msg:  fmt.Sprintf("face references vertex %d", idx),
						Err:  errs.OutOfRange(idx-1, len(verts)),
					}
				}
				v[i] = verts[idx-1]
			}
			tris = append(tris, NewTriangle(v[0], v[1], v[2], DefaultColor))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return tris, nil
}

// faceIndex returns the vertex part of a face token such as "7" or "7/2/5".
func faceIndex(tok string) (int, error) {
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		tok = tok[:i]
	}
	return strconv.Atoi(tok)
}
