package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

// ClipTriangle clips tri against plane and returns the 0, 1 or 2 triangles
// covering the part of tri inside the plane. Output triangles keep the
// input's color and shading.
func ClipTriangle(tri models.Triangle, plane Plane) []models.Triangle {
	return appendClipped(nil, tri, plane)
}

// appendClipped appends the clipped pieces of tri to dst.
//
// One vertex inside gives (in, X(in, out1), X(in, out2)). Two inside give
// (in1, in2, X1) and (X1, in2, X2) where Xi = X(ini, out).
func appendClipped(dst []models.Triangle, tri models.Triangle, plane Plane) []models.Triangle {
	var (
		in, out   [models.TriangleSize]math3d.Vec3
		nIn, nOut int
	)
	for _, v := range tri.V {
		if plane.Inside(v) {
			in[nIn] = v
			nIn++
		} else {
			out[nOut] = v
			nOut++
		}
	}

	switch nIn {
	case 3:
		return append(dst, tri)
	case 2:
		x1 := plane.Intersect(in[0], out[0])
		x2 := plane.Intersect(in[1], out[0])
		a, b := tri, tri
		a.V = [3]math3d.Vec3{in[0], in[1], x1}
		b.V = [3]math3d.Vec3{x1, in[1], x2}
		return append(dst, a, b)
	case 1:
		a := tri
		a.V = [3]math3d.Vec3{in[0], plane.Intersect(in[0], out[0]), plane.Intersect(in[0], out[1])}
		return append(dst, a)
	default:
		return dst
	}
}

// Clipper runs the screen-edge worklist. It reuses its scratch slices
// across calls and is not safe for concurrent use.
type Clipper struct {
	planes     [4]Plane
	work, next []models.Triangle
}

// NewClipper creates a clipper for a width×height viewport.
func NewClipper(width, height int) *Clipper {
	return &Clipper{planes: ScreenPlanes(width, height)}
}

// AppendClipped clips tri against the four screen planes in turn and
// appends the survivors to dst.
func (c *Clipper) AppendClipped(dst []models.Triangle, tri models.Triangle) []models.Triangle {
	c.work = append(c.work[:0], tri)
	for _, p := range c.planes {
		c.next = c.next[:0]
		for _, t := range c.work {
			c.next = appendClipped(c.next, t, p)
		}
		c.work, c.next = c.next, c.work
		if len(c.work) == 0 {
			return dst
		}
	}
	return append(dst, c.work...)
}

// ClipScreen clips tris to the width×height viewport.
func ClipScreen(tris []models.Triangle, width, height int) []models.Triangle {
	c := NewClipper(width, height)
	var out []models.Triangle
	for _, t := range tris {
		out = c.AppendClipped(out, t)
	}
	return out
}
