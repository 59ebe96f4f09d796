package render

import (
	"image/color"
	"testing"
	"time"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
	bg   = color.RGBA{0, 0, 0, 255}
)

func createTestRasterizer(t *testing.T, width, height int) (*Rasterizer, *Framebuffer) {
	t.Helper()
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRasterizer(fb)
	r.Begin(bg)
	return r, fb
}

func screenTri(ax, ay, bx, by, cx, cy, z float64, c color.RGBA) models.Triangle {
	return models.NewTriangle(math3d.V3(ax, ay, z), math3d.V3(bx, by, z), math3d.V3(cx, cy, z), c)
}

func TestDrawTrianglePixelCount(t *testing.T) {
	tests := []struct {
		name string
		tri  models.Triangle
		want int
	}{
		// rows 0..4 hold 5, 4, 3, 2, 1 pixels
		{"flat top", screenTri(0, 0, 4, 0, 0, 4, 1, red), 15},
		// rows 0..4 hold 1, 2, 3, 4, 5 pixels
		{"flat bottom", screenTri(0, 0, 4, 4, 0, 4, 1, red), 15},
		{"horizontal line", screenTri(0, 3, 5, 3, 9, 3, 1, red), 0},
		{"single point", screenTri(2, 2, 2, 2, 2, 2, 1, red), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := createTestRasterizer(t, 10, 10)
			r.DrawTriangle(tt.tri)
			if got := fb.Covered(); got != tt.want {
				t.Errorf("covered = %d, want %d", got, tt.want)
			}
			if r.PixelsWritten != tt.want {
				t.Errorf("PixelsWritten = %d, want %d", r.PixelsWritten, tt.want)
			}
		})
	}
}

func TestDrawTriangleVertexOrderIrrelevant(t *testing.T) {
	a, b, c := math3d.V3(1, 1, 2), math3d.V3(8, 3, 2), math3d.V3(3, 9, 2)
	orders := [][3]math3d.Vec3{{a, b, c}, {b, c, a}, {c, a, b}, {a, c, b}, {b, a, c}, {c, b, a}}

	var first []color.RGBA
	for i, o := range orders {
		r, fb := createTestRasterizer(t, 10, 10)
		r.DrawTriangle(models.NewTriangle(o[0], o[1], o[2], red))
		if i == 0 {
			first = append([]color.RGBA(nil), fb.Pixels...)
			continue
		}
		for j := range first {
			if fb.Pixels[j] != first[j] {
				t.Fatalf("order %d differs at pixel %d", i, j)
			}
		}
	}
}

func TestDrawTriangleSplitCoversInterior(t *testing.T) {
	r, fb := createTestRasterizer(t, 12, 12)
	r.DrawTriangle(screenTri(1, 1, 10, 5, 4, 10, 1, red))

	for _, p := range [][2]int{{4, 5}, {5, 4}, {6, 6}, {4, 8}} {
		if fb.GetPixel(p[0], p[1]) != red {
			t.Errorf("interior pixel %v not filled", p)
		}
	}
	for _, p := range [][2]int{{0, 0}, {11, 11}, {10, 10}, {1, 10}} {
		if fb.GetPixel(p[0], p[1]) != bg {
			t.Errorf("exterior pixel %v filled", p)
		}
	}
}

func TestDepthTestNearerWins(t *testing.T) {
	near := screenTri(0, 0, 9, 0, 0, 9, 1, red)
	far := screenTri(0, 0, 9, 0, 0, 9, 2, blue)

	for _, order := range [][2]models.Triangle{{near, far}, {far, near}} {
		r, fb := createTestRasterizer(t, 10, 10)
		r.DrawTriangle(order[0])
		r.DrawTriangle(order[1])

		if got := fb.GetPixel(2, 2); got != red {
			t.Errorf("pixel = %v, want nearer red", got)
		}
		if got := fb.GetDepth(2, 2); got != 1 {
			t.Errorf("depth = %v, want 1", got)
		}
	}
}

func TestDepthIsFlatAverage(t *testing.T) {
	r, fb := createTestRasterizer(t, 10, 10)
	r.DrawTriangle(models.NewTriangle(
		math3d.V3(0, 0, 1), math3d.V3(9, 0, 2), math3d.V3(0, 9, 6), red))

	for _, p := range [][2]int{{0, 0}, {1, 1}, {3, 4}} {
		if d := fb.GetDepth(p[0], p[1]); d != 3 {
			t.Errorf("depth at %v = %v, want 3", p, d)
		}
	}
}

func TestDrawTriangleOutOfBounds(t *testing.T) {
	r, fb := createTestRasterizer(t, 10, 10)
	r.DrawTriangle(screenTri(-50, -50, 60, -40, 5, 80, 1, red))

	if fb.Covered() == 0 {
		t.Error("triangle covering the viewport drew nothing")
	}
	if fb.GetPixel(5, 5) != red {
		t.Error("center pixel not filled")
	}
}

func TestDrawTriangleHugeCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		tri   models.Triangle
		drawn bool
	}{
		{"far above", models.NewTriangle(math3d.V3(0, -1e300, 1), math3d.V3(4, 4, 1), math3d.V3(7, 7, 1), red), true},
		{"far below", models.NewTriangle(math3d.V3(1, 1, 1), math3d.V3(6, 2, 1), math3d.V3(3, 1e300, 1), red), true},
		{"tall and wide", models.NewTriangle(math3d.V3(-1e150, -1e150, 1), math3d.V3(1e150, 0, 1), math3d.V3(0, 1e150, 1), red), true},
		{"off screen", screenTri(-1e12, 1e12, 1e12, 1e12, 0, 2e12, 1, red), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := createTestRasterizer(t, 8, 8)
			done := make(chan struct{})
			go func() {
				r.DrawTriangle(tt.tri)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("DrawTriangle did not return")
			}
			if got := fb.Covered() > 0; got != tt.drawn {
				t.Errorf("covered = %d, want drawn %v", fb.Covered(), tt.drawn)
			}
		})
	}
}

func TestDrawWireframe(t *testing.T) {
	r, fb := createTestRasterizer(t, 10, 10)
	green := color.RGBA{0, 255, 0, 255}
	r.DrawWireframe(screenTri(1, 1, 8, 1, 1, 8, 1, red), green)

	for _, p := range [][2]int{{1, 1}, {8, 1}, {1, 8}, {4, 1}, {1, 4}} {
		if fb.GetPixel(p[0], p[1]) != green {
			t.Errorf("edge pixel %v not drawn", p)
		}
	}
	if fb.GetPixel(3, 3) != bg {
		t.Error("wireframe filled the interior")
	}
	if fb.Covered() != 0 {
		t.Error("wireframe wrote depth")
	}
}

func BenchmarkDrawTriangle(b *testing.B) {
	fb, _ := NewFramebuffer(200, 100)
	r := NewRasterizer(fb)
	tr := screenTri(3, 2, 190, 40, 60, 97, 1, red)
	for b.Loop() {
		r.Begin(bg)
		r.DrawTriangle(tr)
	}
}
