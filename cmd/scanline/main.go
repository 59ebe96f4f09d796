// scanline - software 3D renderer and terminal mesh viewer
//
// Renders triangle meshes (OBJ, glTF, STL, PLY, 3DS) with a flat-shaded
// scanline rasterizer, either live in the terminal or to an image file.
//
// Default controls (see config keys):
//
//	W/S         - Move forward/backward
//	A/D         - Strafe left/right
//	Space/C     - Fly up/down
//	Arrows      - Pan and look up/down
//	Q/E         - Tilt left/right
//	R           - Glide back to the start position
//	X           - Toggle wireframe overlay
//	+/-         - Raise/lower frame rate
//	?           - Toggle HUD
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/config"
	"github.com/taigrr/scanline/pkg/models"
)

var version = "dev"

// flags shared by every command; zero values mean "use the config".
type globalFlags struct {
	configPath string
	logFile    string
	debug      bool

	fps        float64
	fov        float64
	background string
	fit        float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "scanline",
		Short: "Software 3D renderer and terminal mesh viewer",
		Long: "scanline renders triangle meshes with a flat-shaded software rasterizer.\n" +
			"Supported mesh formats: " + fmt.Sprint(models.Extensions()),
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "JSON config file")
	pf.StringVar(&g.logFile, "log-file", "", "write logs to this file")
	pf.BoolVar(&g.debug, "debug", false, "enable debug logging")
	pf.Float64Var(&g.fps, "fps", 0, "target frames per second")
	pf.Float64Var(&g.fov, "fov", 0, "field of view in degrees")
	pf.StringVar(&g.background, "bg", "", "background color (R,G,B)")
	pf.Float64Var(&g.fit, "fit", 0, "scale meshes so their largest side has this length")

	root.AddCommand(
		newViewCmd(g),
		newRenderCmd(g),
		newInfoCmd(g),
		newBenchCmd(g),
	)
	return root
}

// newLogger logs to the --log-file if given, otherwise to fallback.
func (g *globalFlags) newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	w, closeFn := fallback, func() {}
	if g.logFile != "" {
		f, err := os.OpenFile(g.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "scanline",
	})
	if g.debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn, nil
}

// loadConfig reads --config (or the defaults) and applies flag overrides.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = g.fps
	}
	if flags.Changed("fov") {
		cfg.FOVDegrees = g.fov
	}
	if flags.Changed("bg") {
		cfg.Background = g.background
	}
	if flags.Changed("fit") {
		cfg.FitSize = g.fit
	}
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// loadMeshes loads every path, fitting each to cfg.FitSize when set.
func loadMeshes(cfg config.Config, logger *log.Logger, paths []string) ([]*models.Mesh, error) {
	meshes := make([]*models.Mesh, 0, len(paths))
	for _, path := range paths {
		mesh, err := models.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		if cfg.FitSize > 0 {
			mesh = mesh.Fit(cfg.FitSize)
		}
		logger.Debug("loaded mesh", "path", path, "triangles", mesh.Len())
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
