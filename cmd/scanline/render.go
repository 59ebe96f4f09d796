package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/config"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

func newRenderCmd(g *globalFlags) *cobra.Command {
	var (
		output    string
		scale     int
		wireframe bool
	)

	cmd := &cobra.Command{
		Use:   "render <mesh>...",
		Short: "Render one frame to an image file",
		Long:  fmt.Sprintf("Render one frame to an image file. Output formats: %v", render.ImageFormats()),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := g.newLogger(os.Stderr)
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

			pipeline, cam, err := newScene(cfg)
			if err != nil {
				return err
			}
			pipeline.SetWireframe(wireframe)

			fb, err := pipeline.Render(cam, meshes)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if err := fb.Save(output, scale); err != nil {
				return err
			}

			st := pipeline.Stats()
			logger.Info("wrote frame", "path", output,
				"width", fb.Width*scale, "height", fb.Height*scale,
				"triangles", st.Final, "pixels", st.Pixels)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "frame.png", "output image")
	f.IntVar(&scale, "scale", 1, "nearest-neighbour upscale factor")
	f.BoolVar(&wireframe, "wireframe", false, "draw triangle edges over the shading")
	addViewportFlags(cmd)
	return cmd
}

// addViewportFlags adds --width and --height, read by loadConfig.
func addViewportFlags(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().Int("width", def.Width, "image width in pixels")
	cmd.Flags().Int("height", def.Height, "image height in pixels")
}

// newScene builds a pipeline at the configured viewport and the camera.
func newScene(cfg config.Config) (*render.Pipeline, *render.Camera, error) {
	opts, err := cfg.PipelineOptions(cfg.Width, cfg.Height)
	if err != nil {
		return nil, nil, err
	}
	pipeline, err := render.NewPipeline(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("create pipeline: %w", err)
	}
	cam, err := cfg.NewCamera()
	if err != nil {
		return nil, nil, err
	}
	return pipeline, cam, nil
}

func newInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info <mesh>...",
		Short: "Print triangle counts and bounds",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := g.newLogger(os.Stderr)
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

			out := cmd.OutOrStdout()
			for i, m := range meshes {
				printInfo(out, args[i], m)
			}
			return nil
		},
	}
}

func printInfo(w io.Writer, path string, m *models.Mesh) {
	lo, hi := m.Bounds()
	size, center := m.Size(), m.Center()
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  triangles: %d\n", m.Len())
	fmt.Fprintf(w, "  min:       %8.3f %8.3f %8.3f\n", lo.X, lo.Y, lo.Z)
	fmt.Fprintf(w, "  max:       %8.3f %8.3f %8.3f\n", hi.X, hi.Y, hi.Z)
	fmt.Fprintf(w, "  size:      %8.3f %8.3f %8.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "  center:    %8.3f %8.3f %8.3f\n", center.X, center.Y, center.Z)
}
