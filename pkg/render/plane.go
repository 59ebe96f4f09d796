package render

import (
	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

// Plane is a half-space boundary given by a point on the plane and a unit
// normal. Points on the normal's side are outside; points with a signed
// distance <= 0 are inside.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// NewPlane creates a plane, normalizing the normal.
func NewPlane(point, normal math3d.Vec3) (Plane, error) {
	if normal.LenSq() == 0 || !normal.IsFinite() {
		return Plane{}, errs.Invalid("plane normal %v must be finite and non-zero", normal)
	}
	if !point.IsFinite() {
		return Plane{}, errs.Invalid("plane point %v must be finite", point)
	}
	return Plane{Point: point, Normal: normal.Normalize()}, nil
}

// mustPlane is for planes built from constants.
func mustPlane(point, normal math3d.Vec3) Plane {
	p, err := NewPlane(point, normal)
	if err != nil {
		panic(err)
	}
	return p
}

// DistanceToPoint returns the signed distance from the plane to v.
// Positive = outside (same side as normal), zero or negative = inside.
func (p Plane) DistanceToPoint(v math3d.Vec3) float64 {
	return p.Normal.Dot(v.Sub(p.Point))
}

// Inside reports whether v lies on or behind the plane.
func (p Plane) Inside(v math3d.Vec3) bool {
	return p.DistanceToPoint(v) <= 0
}

// Intersect returns the point where the line through a and b meets the
// plane. It does not check that a and b straddle the plane; callers only
// pass edges with one inside and one outside endpoint.
func (p Plane) Intersect(a, b math3d.Vec3) math3d.Vec3 {
	pd := p.Normal.Dot(p.Point)
	ad := p.Normal.Dot(a)
	bd := p.Normal.Dot(b)
	t := (pd - ad) / (bd - ad)
	return a.Add(b.Sub(a).Scale(t))
}

// NearPlane returns the camera-space plane z = near, keeping z >= near.
func NearPlane(near float64) Plane {
	return mustPlane(math3d.V3(0, 0, near), math3d.V3(0, 0, -1))
}

// ScreenPlanes returns the top, bottom, left and right clip planes of a
// width×height pixel viewport.
func ScreenPlanes(width, height int) [4]Plane {
	w := float64(width - 1)
	h := float64(height - 1)
	return [4]Plane{
		mustPlane(math3d.V3(0, 0, 0), math3d.V3(0, -1, 0)),
		mustPlane(math3d.V3(0, h, 0), math3d.V3(0, 1, 0)),
		mustPlane(math3d.V3(0, 0, 0), math3d.V3(-1, 0, 0)),
		mustPlane(math3d.V3(w, 0, 0), math3d.V3(1, 0, 0)),
	}
}
