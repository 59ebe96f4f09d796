package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

// Pipeline defaults.
const (
	DefaultFOV  = math.Pi / 2
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// DefaultLight is the direction light travels toward, before normalizing.
var DefaultLight = math3d.V3(1, 1, -1)

// Options configure a Pipeline.
type Options struct {
	Width, Height int

	FOV  float64 // Vertical field of view in radians
	Near float64 // Near clipping plane
	Far  float64 // Far clipping plane

	// LightDir is the directional light; surfaces whose normal points
	// along it are fully lit.
	LightDir math3d.Vec3

	// World is applied to every vertex as v·World + WorldOffset before
	// culling.
	World       math3d.Mat3
	WorldOffset math3d.Vec3

	Background color.RGBA

	// Wireframe outlines every final triangle in WireColor on top of the
	// filled frame.
	Wireframe bool
	WireColor color.RGBA
}

// DefaultOptions returns the standard options for a width×height viewport.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:      width,
		Height:     height,
		FOV:        DefaultFOV,
		Near:       DefaultNear,
		Far:        DefaultFar,
		LightDir:   DefaultLight,
		World:      math3d.Identity3(),
		Background: color.RGBA{0, 0, 0, 255},
		WireColor:  color.RGBA{0, 255, 0, 255},
	}
}

// Validate checks the options for values the pipeline cannot use.
func (o Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return errs.Invalid("viewport %dx%d must be positive", o.Width, o.Height)
	case !(o.FOV > 0 && o.FOV < math.Pi):
		return errs.Invalid("fov %v must be in (0, π)", o.FOV)
	case !(o.Near > 0):
		return errs.Invalid("near plane %v must be positive", o.Near)
	case !(o.Far > o.Near) || math.IsInf(o.Far, 1):
		return errs.Invalid("far plane %v must be finite and beyond near plane %v", o.Far, o.Near)
	case o.LightDir.LenSq() == 0 || !o.LightDir.IsFinite():
		return errs.Invalid("light direction %v must be finite and non-zero", o.LightDir)
	case o.World.Determinant() == 0:
		return errs.Invalid("world matrix is singular")
	case !o.WorldOffset.IsFinite():
		return errs.Invalid("world offset %v must be finite", o.WorldOffset)
	}
	return nil
}

// Stats are per-stage triangle counts of the last frame.
type Stats struct {
	Submitted int // triangles read from meshes
	Culled    int // back-facing triangles dropped
	Visible   int // triangles after the near clip
	Final     int // triangles after the screen clip, sent to the rasterizer
	Pixels    int // pixels that passed the depth test
}

// Pipeline turns meshes into frames. It owns its scratch buffers and two
// framebuffers, and is not safe for concurrent use.
type Pipeline struct {
	opts  Options
	light math3d.Vec3
	proj  math3d.Mat3
	near  Plane

	clipper *Clipper
	raster  *Rasterizer

	// per-frame candidate lists, truncated every frame
	visible, final []models.Triangle

	front, back *Framebuffer
	stats       Stats
}

// NewPipeline validates opts and allocates the frame buffers.
func NewPipeline(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		opts:  opts,
		light: opts.LightDir.Normalize(),
		near:  NearPlane(opts.Near),
	}
	if err := p.Resize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	return p, nil
}

// ProjectionMatrix returns diag(aspect·f, f, far/(far−near)) where
// f = 1/tan(fov/2) and aspect = height/width.
func ProjectionMatrix(width, height int, fov, near, far float64) math3d.Mat3 {
	f := 1 / math.Tan(fov/2)
	aspect := float64(height) / float64(width)
	return math3d.Diagonal(aspect*f, f, far/(far-near))
}

// Resize changes the viewport. The next frame is drawn at the new size.
func (p *Pipeline) Resize(width, height int) error {
	front, err := NewFramebuffer(width, height)
	if err != nil {
		return err
	}
	back, err := NewFramebuffer(width, height)
	if err != nil {
		return err
	}
	p.opts.Width, p.opts.Height = width, height
	p.front, p.back = front, back
	p.proj = ProjectionMatrix(width, height, p.opts.FOV, p.opts.Near, p.opts.Far)
	p.clipper = NewClipper(width, height)
	p.raster = NewRasterizer(p.back)
	p.front.Clear(p.opts.Background)
	return nil
}

// Options returns the options in effect.
func (p *Pipeline) Options() Options {
	return p.opts
}

// SetWireframe toggles the wireframe overlay.
func (p *Pipeline) SetWireframe(on bool) {
	p.opts.Wireframe = on
}

// Stats returns the counts of the last frame.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Frame returns the last completed frame.
func (p *Pipeline) Frame() *Framebuffer {
	return p.front
}

// Advance runs one tick: the camera applies in, the meshes are drawn from
// the new pose, and the completed frame is returned. On error the previous
// frame stays current.
func (p *Pipeline) Advance(cam *Camera, meshes []*models.Mesh, in Input) (*Framebuffer, error) {
	cam.Update(in)
	return p.Render(cam, meshes)
}

// Render draws meshes from the camera's current pose without moving it.
func (p *Pipeline) Render(cam *Camera, meshes []*models.Mesh) (*Framebuffer, error) {
	tris, err := p.Prepare(cam, meshes)
	if err != nil {
		return nil, err
	}

	p.raster.SetTarget(p.back)
	p.raster.Begin(p.opts.Background)
	for _, t := range tris {
		p.raster.DrawTriangle(t)
	}
	if p.opts.Wireframe {
		for _, t := range tris {
			p.raster.DrawWireframe(t, p.opts.WireColor)
		}
	}
	p.stats.Pixels = p.raster.PixelsWritten

	p.front, p.back = p.back, p.front
	return p.front, nil
}

// Prepare transforms, culls, shades, clips and projects every triangle
// and returns the screen-space triangles ready to rasterize. The returned
// slice is reused by the next call.
func (p *Pipeline) Prepare(cam *Camera, meshes []*models.Mesh) ([]models.Triangle, error) {
	p.stats = Stats{}
	p.visible = p.visible[:0]
	p.final = p.final[:0]

	camPos := cam.Position
	viewT := cam.ViewOrientation().Transpose()
	viewOffset := camPos.MulMat(viewT).Negate()

	for _, m := range meshes {
		for i, tri := range m.All() {
			p.stats.Submitted++

			world := tri.Transform(p.opts.World, p.opts.WorldOffset)
			n := world.Normal()
			if n.Dot(world.V[0].Sub(camPos)) >= 0 {
				p.stats.Culled++
				continue
			}

			shaded, err := world.Shaded(max(0, min(1, n.Dot(p.light))))
			if err != nil {
				return nil, fmt.Errorf("shade %s triangle %d: %w", m.Name(), i, err)
			}

			view := shaded.Transform(viewT, viewOffset)
			p.visible = appendClipped(p.visible, view, p.near)
		}
	}
	p.stats.Visible = len(p.visible)

	for i := range p.visible {
		t := &p.visible[i]
		for j, v := range t.V {
			s := p.project(v)
			if !s.IsFinite() {
				return nil, errs.Invalid("projected vertex %v of view-space %v is not finite", s, v)
			}
			t.V[j] = s
		}
		p.final = p.clipper.AppendClipped(p.final, *t)
	}
	p.stats.Final = len(p.final)

	return p.final, nil
}

// project maps a camera-space point in front of the near plane to screen
// space: x right, y down in pixels, z increasing with distance.
func (p *Pipeline) project(v math3d.Vec3) math3d.Vec3 {
	z := v.Z
	q := p.proj.Get(2, 2)
	s := v.MulMat(p.proj)
	s.Z = (z - p.opts.Near) * q
	ndc := s.Div(z)

	w := float64(p.opts.Width)
	h := float64(p.opts.Height)
	return math3d.V3((1-ndc.X)*w/2, (1-ndc.Y)*h/2, ndc.Z)
}
