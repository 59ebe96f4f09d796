package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/config"
	"github.com/taigrr/scanline/pkg/engine"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// frame rate bounds for the +/- keys
const (
	minFrameRate  = 1
	maxFrameRate  = 120
	frameRateStep = 5
)

func newViewCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view <mesh>...",
		Short: "View meshes in the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alternate screen owns stdout, so logs go to a file or nowhere.
			logger, closeLog, err := g.newLogger(io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			meshes, err := loadMeshes(cfg, logger, args)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), cfg, logger, meshes)
		},
	}
}

// viewer glues terminal events to the loop.
type viewer struct {
	term    *uv.Terminal
	loop    *engine.Loop
	keys    config.KeyMap
	logger  *log.Logger
	title   string
	fps     float64
	hideHUD atomic.Bool
}

func runView(ctx context.Context, cfg config.Config, logger *log.Logger, meshes []*models.Mesh) error {
	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	width, height := render.FramebufferSize(cols, rows)
	opts, err := cfg.PipelineOptions(width, height)
	if err != nil {
		return err
	}
	pipeline, err := render.NewPipeline(opts)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	cam, err := cfg.NewCamera()
	if err != nil {
		return err
	}

	presenter := render.NewTerminalPresenter(term)
	loop, err := engine.NewLoop(pipeline, cam, meshes, presenter, engine.Options{
		FrameRate:   cfg.FPS,
		HoldTimeout: cfg.HoldTimeout(),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	v := &viewer{
		term:   term,
		loop:   loop,
		keys:   keys,
		logger: logger,
		title:  meshTitle(meshes),
		fps:    cfg.FPS,
	}
	presenter.HUD = v.hud

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Warn("terminal shutdown", "err", err)
		}
	}()

	go v.handleEvents()

	return loop.Run(ctx)
}

func meshTitle(meshes []*models.Mesh) string {
	names := make([]string, len(meshes))
	for i, m := range meshes {
		names[i] = filepath.Base(m.Name())
	}
	return strings.Join(names, ", ")
}

// hud runs on the loop goroutine while a frame is presented.
func (v *viewer) hud() []string {
	if v.hideHUD.Load() {
		return nil
	}
	s := v.loop.Stats()
	pos := v.loop.Camera().Position
	return []string{
		fmt.Sprintf(" %s  %.0f FPS ", v.title, s.FPS),
		fmt.Sprintf(" %d/%d tris  %d dropped ", s.Render.Final, s.Render.Submitted, s.Dropped),
		fmt.Sprintf(" pos %.2f %.2f %.2f ", pos.X, pos.Y, pos.Z),
	}
}

func (v *viewer) handleEvents() {
	input := v.loop.Input()
	for ev := range v.term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			v.term.Erase()
			v.term.Resize(ev.Width, ev.Height)
			v.loop.Resize(render.FramebufferSize(ev.Width, ev.Height))

		case uv.KeyPressEvent:
			if intent, ok := v.lookup(ev.MatchString); ok {
				input.Press(intent, time.Now())
				continue
			}
			switch {
			case ev.MatchString("r"):
				v.loop.GoHome()
			case ev.MatchString("x"):
				v.loop.ToggleWireframe()
			case ev.MatchString("?", "shift+/"):
				v.hideHUD.Store(!v.hideHUD.Load())
			case ev.MatchString("+", "="):
				v.setFrameRate(v.fps + frameRateStep)
			case ev.MatchString("-", "_"):
				v.setFrameRate(v.fps - frameRateStep)
			}

		case uv.KeyReleaseEvent:
			if intent, ok := v.lookup(ev.MatchString); ok {
				input.Release(intent)
			}
		}
	}
}

// lookup finds the bound intent for a key event.
func (v *viewer) lookup(match func(...string) bool) (render.Intent, bool) {
	for _, key := range v.keys.Keys() {
		if match(key) {
			return v.keys.Lookup(key)
		}
	}
	return 0, false
}

func (v *viewer) setFrameRate(fps float64) {
	fps = max(minFrameRate, min(maxFrameRate, fps))
	if err := v.loop.SetFrameRate(fps); err != nil {
		v.logger.Warn("frame rate unchanged", "fps", fps, "err", err)
		return
	}
	v.fps = fps
}
