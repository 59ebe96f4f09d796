// scanline-window - desktop window viewer for the scanline renderer
//
// Shows the same software-rendered frames as the terminal viewer in an
// ebiten window. Controls follow the config key map; R glides home and
// X toggles the wireframe overlay.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/scanline/pkg/config"
	"github.com/taigrr/scanline/pkg/engine"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

var (
	configPath = flag.String("config", "", "JSON config file")
	targetFPS  = flag.Float64("fps", 0, "Target FPS (overrides config)")
	windowZoom = flag.Int("zoom", 3, "Window pixels per framebuffer pixel")
	fitSize    = flag.Float64("fit", 0, "Scale meshes so their largest side has this length")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scanline-window - Window viewer for the scanline renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scanline-window [options] <mesh>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "scanline"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(logger, flag.Args()); err != nil {
		logger.Error("exit", "err", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger, paths []string) error {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *targetFPS > 0 {
		cfg.FPS = *targetFPS
	}
	if *fitSize > 0 {
		cfg.FitSize = *fitSize
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	meshes := make([]*models.Mesh, 0, len(paths))
	for _, path := range paths {
		mesh, err := models.Load(path)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		if cfg.FitSize > 0 {
			mesh = mesh.Fit(cfg.FitSize)
		}
		meshes = append(meshes, mesh)
	}

	game, err := newGame(cfg, logger, meshes)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle("scanline - " + strings.Join(paths, ", "))
	ebiten.SetWindowSize(cfg.Width*max(*windowZoom, 1), cfg.Height*max(*windowZoom, 1))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(cfg.FPS + 0.5))

	if err := ebiten.RunGame(game); err != nil {
		return err
	}
	return nil
}

// binding pairs an ebiten key with the intent it drives.
type binding struct {
	key    ebiten.Key
	intent render.Intent
}

// Game adapts an engine.Loop to ebiten's Update/Draw cycle.
type Game struct {
	loop     *engine.Loop
	bindings []binding
	width    int
	height   int

	frame *ebiten.Image
	pix   []byte
}

func newGame(cfg config.Config, logger *log.Logger, meshes []*models.Mesh) (*Game, error) {
	km, err := cfg.KeyMap()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.PipelineOptions(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	pipeline, err := render.NewPipeline(opts)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	cam, err := cfg.NewCamera()
	if err != nil {
		return nil, err
	}

	g := &Game{
		width:  cfg.Width,
		height: cfg.Height,
		frame:  ebiten.NewImage(cfg.Width, cfg.Height),
	}
	// ebiten reports releases, so held keys need no timeout.
	g.loop, err = engine.NewLoop(pipeline, cam, meshes, engine.PresenterFunc(g.present), engine.Options{
		FrameRate: cfg.FPS,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	for _, name := range km.Keys() {
		key, ok := ebitenKey(name)
		if !ok {
			logger.Debug("key has no window equivalent", "key", name)
			continue
		}
		intent, _ := km.Lookup(name)
		g.bindings = append(g.bindings, binding{key, intent})
	}
	return g, nil
}

// keyAliases maps terminal key names to ebiten key names.
var keyAliases = map[string]string{
	"up":    "arrowup",
	"down":  "arrowdown",
	"left":  "arrowleft",
	"right": "arrowright",
	"esc":   "escape",
}

func ebitenKey(name string) (ebiten.Key, bool) {
	if alias, ok := keyAliases[name]; ok {
		name = alias
	}
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return k, true
}

func (g *Game) Update() error {
	input := g.loop.Input()
	now := time.Now()
	for _, b := range g.bindings {
		if inpututil.IsKeyJustPressed(b.key) {
			input.Press(b.intent, now)
		}
		if inpututil.IsKeyJustReleased(b.key) {
			input.Release(b.intent)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.loop.GoHome()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.loop.ToggleWireframe()
	}

	if err := g.loop.Tick(); err != nil {
		if errors.Is(err, engine.ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

// present copies a finished frame into the window texture.
func (g *Game) present(fb *render.Framebuffer) error {
	if fb.Width != g.width || fb.Height != g.height {
		return fmt.Errorf("frame is %dx%d, window expects %dx%d", fb.Width, fb.Height, g.width, g.height)
	}
	if len(g.pix) != 4*len(fb.Pixels) {
		g.pix = make([]byte, 4*len(fb.Pixels))
	}
	for i, c := range fb.Pixels {
		g.pix[4*i], g.pix[4*i+1], g.pix[4*i+2], g.pix[4*i+3] = c.R, c.G, c.B, c.A
	}
	g.frame.WritePixels(g.pix)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.frame, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
