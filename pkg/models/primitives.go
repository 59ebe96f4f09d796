package models

import (
	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

// RectangularPrism builds a 12-triangle box whose minimum corner is
// (x, y, z). Faces are wound so their normals point outward.
func RectangularPrism(x, y, z, width, height, depth float64) (*Mesh, error) {
	if !(width > 0 && height > 0 && depth > 0) {
		return nil, errs.Invalid("prism dimensions %vx%vx%v must be positive", width, height, depth)
	}

	xFar, yFar, zFar := x+width, y+height, z+depth

	bl := math3d.V3(x, y, z)
	tl := math3d.V3(x, yFar, z)
	tr := math3d.V3(xFar, yFar, z)
	br := math3d.V3(xFar, y, z)

	blFar := math3d.V3(x, y, zFar)
	tlFar := math3d.V3(x, yFar, zFar)
	trFar := math3d.V3(xFar, yFar, zFar)
	brFar := math3d.V3(xFar, y, zFar)

	tri := func(a, b, c math3d.Vec3) Triangle {
		return NewTriangle(a, b, c, DefaultColor)
	}

	return NewMesh("prism",
		// front
		tri(bl, tl, tr),
		tri(tr, br, bl),
		// back
		tri(brFar, trFar, tlFar),
		tri(tlFar, blFar, brFar),
		// top
		tri(tl, tlFar, trFar),
		tri(trFar, tr, tl),
		// bottom
		tri(br, brFar, blFar),
		tri(blFar, bl, br),
		// right
		tri(br, tr, trFar),
		tri(trFar, brFar, br),
		// left
		tri(blFar, tlFar, tl),
		tri(tl, bl, blFar),
	), nil
}

// Cube builds a cube with the given edge length and minimum corner.
func Cube(x, y, z, length float64) (*Mesh, error) {
	m, err := RectangularPrism(x, y, z, length, length, length)
	if err != nil {
		return nil, err
	}
	m.name = "cube"
	return m, nil
}
