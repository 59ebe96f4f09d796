package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each cell shows two pixels: ▀ with fg = top pixel and bg =
// bottom pixel, so the framebuffer should be twice the area's height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// FramebufferSize returns the pixel size that fills a cols×rows terminal.
func FramebufferSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Display is a cell screen that can flush its contents, such as
// *uv.Terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalPresenter shows frames on a terminal with an optional text
// overlay in the top-left corner.
type TerminalPresenter struct {
	scr Display

	// HUD returns the overlay lines for the frame being presented.
	HUD func() []string

	HUDStyle uv.Style
}

// NewTerminalPresenter creates a presenter drawing to scr.
func NewTerminalPresenter(scr Display) *TerminalPresenter {
	return &TerminalPresenter{
		scr: scr,
		HUDStyle: uv.Style{
			Fg: color.RGBA{255, 255, 255, 255},
			Bg: color.RGBA{0, 0, 0, 255},
		},
	}
}

// Present draws fb and the HUD, then flushes the screen.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	area := p.scr.Bounds()
	fb.Draw(p.scr, area)
	if p.HUD != nil {
		for i, line := range p.HUD() {
			p.drawText(area.Min.X, area.Min.Y+i, area, line)
		}
	}
	return p.scr.Display()
}

func (p *TerminalPresenter) drawText(x, y int, area uv.Rectangle, s string) {
	if y >= area.Max.Y {
		return
	}
	for _, r := range s {
		if x >= area.Max.X {
			return
		}
		p.scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: p.HUDStyle})
		x++
	}
}
