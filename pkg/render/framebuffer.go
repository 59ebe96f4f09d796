// Package render implements the scanline pipeline: camera, clipping,
// projection, rasterization, and presentation of the resulting pixels.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/taigrr/scanline/pkg/errs"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// FarDepth is the depth of a pixel nothing has been drawn to.
const FarDepth = math.MaxFloat64

// Framebuffer is a grid of pixels with a parallel depth buffer.
// In the terminal each cell shows two vertically stacked pixels, so a
// framebuffer for an R-row terminal is 2R pixels tall.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
	Depth  []float64    // Row-major depth, FarDepth when empty
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.Invalid("framebuffer size %dx%d must be positive", width, height)
	}
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.ClearDepth()
	return fb, nil
}

// Clear fills the color buffer with c and resets the depth buffer.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) > 0 {
		fb.Pixels[0] = c
		for i := 1; i < len(fb.Pixels); i *= 2 {
			copy(fb.Pixels[i:], fb.Pixels[:i])
		}
	}
	fb.ClearDepth()
}

// ClearDepth resets every depth cell to FarDepth.
func (fb *Framebuffer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(fb.Depth)
	if n == 0 {
		return
	}
	fb.Depth[0] = FarDepth
	for i := 1; i < n; i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// GetDepth returns the depth at (x, y), or FarDepth if out of bounds.
func (fb *Framebuffer) GetDepth(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return FarDepth
	}
	return fb.Depth[y*fb.Width+x]
}

// Plot writes c at (x, y) if z is strictly nearer than the stored depth.
// It reports whether the pixel was written.
func (fb *Framebuffer) Plot(x, y int, z float64, c color.RGBA) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	fb.Pixels[i] = c
	return true
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
// It ignores depth.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Covered counts pixels whose depth has been written.
func (fb *Framebuffer) Covered() int {
	n := 0
	for _, d := range fb.Depth {
		if d != FarDepth {
			n++
		}
	}
	return n
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		j := i * 4
		img.Pix[j] = p.R
		img.Pix[j+1] = p.G
		img.Pix[j+2] = p.B
		img.Pix[j+3] = p.A
	}
	return img
}

// Scaled returns the framebuffer as an image enlarged by an integer factor
// with nearest-neighbour sampling, which keeps pixel edges hard.
func (fb *Framebuffer) Scaled(factor int) (*image.RGBA, error) {
	if factor < 1 {
		return nil, errs.Invalid("scale factor %d must be at least 1", factor)
	}
	src := fb.ToImage()
	if factor == 1 {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*factor, fb.Height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// ImageFormats lists the extensions Save accepts.
func ImageFormats() []string {
	return []string{".png", ".bmp", ".tif", ".tiff", ".webp"}
}

// Save writes the framebuffer, scaled by factor, to path. The format
// follows the file extension.
func (fb *Framebuffer) Save(path string, factor int) error {
	img, err := fb.Scaled(factor)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var encode func(f *os.File) error
	switch ext {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
		}
	case ".webp":
		encode = func(f *os.File) error { return nativewebp.Encode(f, img, nil) }
	default:
		return errs.Invalid("unsupported image format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", ext, err)
	}
	return f.Close()
}
