package render

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

func testPipeline(t *testing.T, width, height int) *Pipeline {
	t.Helper()
	p, err := NewPipeline(DefaultOptions(width, height))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func unitCube(t *testing.T) *models.Mesh {
	t.Helper()
	m, err := models.Cube(-0.5, -0.5, -0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"negative height", func(o *Options) { o.Height = -4 }},
		{"zero fov", func(o *Options) { o.FOV = 0 }},
		{"fov of pi", func(o *Options) { o.FOV = math.Pi }},
		{"nan fov", func(o *Options) { o.FOV = math.NaN() }},
		{"zero near", func(o *Options) { o.Near = 0 }},
		{"far before near", func(o *Options) { o.Far = 0.05 }},
		{"infinite far", func(o *Options) { o.Far = math.Inf(1) }},
		{"zero light", func(o *Options) { o.LightDir = math3d.Vec3{} }},
		{"singular world", func(o *Options) { o.World = math3d.Mat3{} }},
		{"nan offset", func(o *Options) { o.WorldOffset = math3d.V3(0, math.NaN(), 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions(100, 100)
			tt.modify(&o)
			if _, err := NewPipeline(o); !errors.Is(err, errs.ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if err := DefaultOptions(1, 1).Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
}

func TestProjectionMatrix(t *testing.T) {
	m := ProjectionMatrix(200, 100, math.Pi/2, 0.1, 1000)
	want := math3d.Diagonal(0.5, 1, 1000/999.9)
	if !m.ApproxEqual(want, 1e-12) {
		t.Errorf("ProjectionMatrix = %v, want %v", m, want)
	}
}

func TestRenderCubeCentered(t *testing.T) {
	p := testPipeline(t, 100, 100)
	cam := newTestCamera(t, math3d.V3(0, 0, -5))

	fb, err := p.Render(cam, []*models.Mesh{unitCube(t)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	stats := p.Stats()
	if stats.Submitted != 12 || stats.Culled != 10 || stats.Visible != 2 || stats.Final != 2 {
		t.Errorf("stats = %+v, want 12 submitted, 10 culled, 2 visible, 2 final", stats)
	}
	if stats.Pixels == 0 || stats.Pixels != fb.Covered() {
		t.Errorf("pixels = %d, covered = %d", stats.Pixels, fb.Covered())
	}

	minX, minY, maxX, maxY := fb.Width, fb.Height, -1, -1
	for y := range fb.Height {
		for x := range fb.Width {
			if fb.GetDepth(x, y) == FarDepth {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}

	// the front face spans x, y in [44.4, 55.6]
	if minX < 44 || maxX > 56 || minY < 44 || maxY > 56 {
		t.Errorf("silhouette [%d..%d]x[%d..%d] outside [44..56]", minX, maxX, minY, maxY)
	}
	if minX+maxX != 100 || minY+maxY != 100 {
		t.Errorf("silhouette [%d..%d]x[%d..%d] not centered", minX, maxX, minY, maxY)
	}

	// front face normal (0, 0, -1) against light (1, 1, -1)/√3
	shade := uint8(255 / math.Sqrt(3))
	if got := fb.GetPixel(50, 50); got != (color.RGBA{shade, shade, shade, 255}) {
		t.Errorf("center pixel = %v, want gray %d", got, shade)
	}
	if got := fb.GetPixel(5, 5); got != p.Options().Background {
		t.Errorf("corner pixel = %v, want background", got)
	}
}

func TestRenderCulledNeverDrawn(t *testing.T) {
	a, b, c := math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(0, 1, 0)
	// normal +Z: faces away from every camera with z < 0
	away := models.NewMesh("away", models.NewTriangle(a, b, c, models.DefaultColor))
	toward := models.NewMesh("toward", models.NewTriangle(a, c, b, models.DefaultColor))

	origin := math3d.Zero3()
	tests := []struct {
		name string
		pos  math3d.Vec3
		pose func(*Camera)
	}{
		{"straight on", math3d.V3(0, 0, -5), func(*Camera) {}},
		{"rotated", math3d.V3(0, 0, -5), func(c *Camera) { c.SetRotation(0.3, -0.2, 0.5) }},
		{"rolled over", math3d.V3(0, 0, -0.5), func(c *Camera) { c.SetRotation(0, 0, math.Pi) }},
		{"looking back", math3d.V3(0, 0, -2), func(c *Camera) { c.SetRotation(math.Pi, 0, 0) }},
		{"above right", math3d.V3(3, 2, -4), func(c *Camera) { c.LookAt(origin) }},
		{"below left", math3d.V3(-2, -3, -1), func(c *Camera) { c.LookAt(origin) }},
		{"grazing", math3d.V3(5, 0, -0.01), func(c *Camera) { c.LookAt(origin) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPipeline(t, 50, 50)
			cam := newTestCamera(t, tt.pos)
			tt.pose(cam)

			fb, err := p.Render(cam, []*models.Mesh{away})
			if err != nil {
				t.Fatal(err)
			}
			if p.Stats().Culled != 1 || fb.Covered() != 0 {
				t.Errorf("stats = %+v, covered = %d; want culled and nothing drawn", p.Stats(), fb.Covered())
			}

			if _, err := p.Render(cam, []*models.Mesh{toward}); err != nil {
				t.Fatal(err)
			}
			if p.Stats().Culled != 0 {
				t.Errorf("front face culled: %+v", p.Stats())
			}
		})
	}
}

func TestRenderNearerMeshWins(t *testing.T) {
	quad := func(z float64, c color.RGBA) *models.Mesh {
		m, err := models.RectangularPrism(-1, -1, z, 2, 2, 0.01)
		if err != nil {
			t.Fatal(err)
		}
		return m.Recolored(c)
	}
	nearMesh := quad(0, red)
	farMesh := quad(1, blue)

	for _, order := range [][]*models.Mesh{{nearMesh, farMesh}, {farMesh, nearMesh}} {
		p := testPipeline(t, 60, 60)
		cam := newTestCamera(t, math3d.V3(0, 0, -5))
		fb, err := p.Render(cam, order)
		if err != nil {
			t.Fatal(err)
		}
		got := fb.GetPixel(30, 30)
		if got.R == 0 || got.B != 0 {
			t.Errorf("center pixel = %v, want shaded red", got)
		}
	}
}

func TestRenderNearClip(t *testing.T) {
	p := testPipeline(t, 40, 40)

	// front face is 0.05 ahead, inside the near distance
	cam := newTestCamera(t, math3d.V3(0, 0, -0.55))
	if _, err := p.Render(cam, []*models.Mesh{unitCube(t)}); err != nil {
		t.Fatal(err)
	}
	if p.Stats().Visible != 0 {
		t.Errorf("visible = %d, want the front face removed by the near plane", p.Stats().Visible)
	}
}

func TestRenderErrorKeepsPreviousFrame(t *testing.T) {
	p := testPipeline(t, 20, 20)
	cam := newTestCamera(t, math3d.V3(0, 0, -5))

	good, err := p.Render(cam, []*models.Mesh{unitCube(t)})
	if err != nil {
		t.Fatal(err)
	}
	covered := good.Covered()

	bad := models.NewMesh("bad", models.NewTriangle(
		math3d.V3(math.NaN(), 0, 0), math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), models.DefaultColor))
	if _, err := p.Render(cam, []*models.Mesh{bad}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	if p.Frame() != good || good.Covered() != covered {
		t.Error("failed frame replaced or modified the last good frame")
	}
}

func TestAdvanceMovesCamera(t *testing.T) {
	p := testPipeline(t, 20, 20)
	cam := newTestCamera(t, math3d.V3(0, 0, -5))

	if _, err := p.Advance(cam, nil, Input{MoveForward: true}); err != nil {
		t.Fatal(err)
	}
	if !vecNear(cam.Position, math3d.V3(0, 0, -4.75)) {
		t.Errorf("position = %v, want (0, 0, -4.75)", cam.Position)
	}
	if p.Stats().Submitted != 0 {
		t.Errorf("empty scene submitted %d triangles", p.Stats().Submitted)
	}
}

func TestWireframeOverlay(t *testing.T) {
	o := DefaultOptions(100, 100)
	o.Wireframe = true
	p, err := NewPipeline(o)
	if err != nil {
		t.Fatal(err)
	}
	cam := newTestCamera(t, math3d.V3(0, 0, -5))

	fb, err := p.Render(cam, []*models.Mesh{unitCube(t)})
	if err != nil {
		t.Fatal(err)
	}
	wires := 0
	for _, px := range fb.Pixels {
		if px == o.WireColor {
			wires++
		}
	}
	if wires == 0 {
		t.Error("wireframe overlay drew nothing")
	}
}

func TestResize(t *testing.T) {
	p := testPipeline(t, 20, 20)
	if err := p.Resize(30, 10); err != nil {
		t.Fatal(err)
	}
	cam := newTestCamera(t, math3d.V3(0, 0, -5))
	fb, err := p.Render(cam, []*models.Mesh{unitCube(t)})
	if err != nil {
		t.Fatal(err)
	}
	if fb.Width != 30 || fb.Height != 10 {
		t.Errorf("frame size = %dx%d, want 30x10", fb.Width, fb.Height)
	}
	if err := p.Resize(0, 10); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("Resize(0, 10) error = %v", err)
	}
}

func BenchmarkRenderCube(b *testing.B) {
	p, _ := NewPipeline(DefaultOptions(160, 96))
	cam, _ := NewCamera(math3d.V3(0, 0, -3), DefaultSpeeds())
	cube, _ := models.Cube(-0.5, -0.5, -0.5, 1)
	meshes := []*models.Mesh{cube}
	for b.Loop() {
		if _, err := p.Render(cam, meshes); err != nil {
			b.Fatal(err)
		}
	}
}
