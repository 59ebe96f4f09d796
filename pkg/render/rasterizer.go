package render

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

// Rasterizer fills screen-space triangles into a framebuffer with a
// scanline algorithm and a flat per-triangle depth test.
type Rasterizer struct {
	fb *Framebuffer

	// PixelsWritten counts pixels that passed the depth test since Begin.
	PixelsWritten int
}

// NewRasterizer creates a rasterizer targeting fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// SetTarget switches the framebuffer being drawn to.
func (r *Rasterizer) SetTarget(fb *Framebuffer) {
	r.fb = fb
}

// Begin starts a frame: color is set to bg and depth to FarDepth.
func (r *Rasterizer) Begin(bg color.RGBA) {
	r.fb.Clear(bg)
	r.PixelsWritten = 0
}

// DrawTriangle fills a triangle whose vertices are in screen space (x
// right, y down, z depth). The triangle is split at its middle vertex into
// a flat-bottom upper half and a flat-top lower half. Rows are sampled at
// integer y, so a row on the shared middle edge belongs to the lower half.
// Every pixel takes the mean vertex depth and is written only if nearer.
func (r *Rasterizer) DrawTriangle(tri models.Triangle) {
	v := tri.V
	slices.SortStableFunc(v[:], func(a, b math3d.Vec3) int {
		return cmp.Compare(a.Y, b.Y)
	})
	v0, v1, v2 := v[0], v[1], v[2]
	if v2.Y == v0.Y || !(v2.Y-v0.Y < math.Inf(1)) {
		return
	}

	z := (v0.Z + v1.Z + v2.Z) / 3
	c := tri.Color
	bottom := float64(r.fb.Height - 1)

	// rows are clamped to the framebuffer before walking them
	if v1.Y > v0.Y {
		yEnd := math.Ceil(v1.Y) - 1
		if v2.Y == v1.Y {
			yEnd = math.Floor(v1.Y)
		}
		for y := max(math.Ceil(v0.Y), 0); y <= min(yEnd, bottom); y++ {
			r.span(int(y), edgeX(v0, v1, y), edgeX(v0, v2, y), z, c)
		}
	}

	if v2.Y > v1.Y {
		for y := max(math.Ceil(v1.Y), 0); y <= min(math.Floor(v2.Y), bottom); y++ {
			r.span(int(y), edgeX(v1, v2, y), edgeX(v0, v2, y), z, c)
		}
	}
}

// edgeX returns the x where the edge a→b crosses row y. a.Y != b.Y.
func edgeX(a, b math3d.Vec3, y float64) float64 {
	return a.X + (y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
}

func (r *Rasterizer) span(y int, xa, xb, z float64, c color.RGBA) {
	if y < 0 || y >= r.fb.Height {
		return
	}
	lo := max(math.Round(min(xa, xb)), 0)
	hi := min(math.Round(max(xa, xb)), float64(r.fb.Width-1))
	if !(lo <= hi) {
		return
	}
	for x := int(lo); x <= int(hi); x++ {
		if r.fb.Plot(x, y, z, c) {
			r.PixelsWritten++
		}
	}
}

// DrawWireframe outlines a screen-space triangle, ignoring depth.
func (r *Rasterizer) DrawWireframe(tri models.Triangle, c color.RGBA) {
	for i := range models.TriangleSize {
		a := tri.V[i]
		b := tri.V[(i+1)%models.TriangleSize]
		r.fb.DrawLine(
			int(math.Round(a.X)), int(math.Round(a.Y)),
			int(math.Round(b.X)), int(math.Round(b.Y)),
			c,
		)
	}
}
