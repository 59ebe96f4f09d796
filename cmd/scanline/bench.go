package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/render"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func newBenchCmd(g *globalFlags) *cobra.Command {
	var (
		frames   int
		spin     bool
		plotPath string
		bins     int
	)

	cmd := &cobra.Command{
		Use:   "bench <mesh>...",
		Short: "Time the pipeline over many frames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1, got %d", frames)
			}
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

			in := render.Input{TiltRight: spin}
			times := make([]float64, 0, frames)
			var dropped int
			for range frames {
				start := time.Now()
				if _, err := pipeline.Advance(cam, meshes, in); err != nil {
					dropped++
					logger.Debug("frame dropped", "err", err)
					continue
				}
				times = append(times, float64(time.Since(start).Microseconds())/1000)
			}
			if len(times) == 0 {
				return fmt.Errorf("all %d frames failed", frames)
			}

			mean, std := stat.MeanStdDev(times, nil)
			sorted := slices.Clone(times)
			slices.Sort(sorted)
			p50 := stat.Quantile(0.5, stat.Empirical, sorted, nil)
			p95 := stat.Quantile(0.95, stat.Empirical, sorted, nil)

			st := pipeline.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frames:    %d (%d dropped)\n", len(times), dropped)
			fmt.Fprintf(out, "viewport:  %dx%d\n", cfg.Width, cfg.Height)
			fmt.Fprintf(out, "triangles: %d submitted, %d visible, %d drawn\n", st.Submitted, st.Visible, st.Final)
			fmt.Fprintf(out, "mean:      %.3f ms (± %.3f)\n", mean, std)
			fmt.Fprintf(out, "p50/p95:   %.3f / %.3f ms\n", p50, p95)
			if mean > 0 {
				fmt.Fprintf(out, "rate:      %.1f frames/s\n", 1000/mean)
			}

			if plotPath != "" {
				if err := plotFrameTimes(plotPath, times, bins); err != nil {
					return err
				}
				logger.Info("wrote histogram", "path", plotPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&frames, "frames", "n", 300, "number of frames to render")
	f.BoolVar(&spin, "spin", true, "tilt the camera every frame")
	f.StringVar(&plotPath, "plot", "", "write a frame-time histogram (png, svg, pdf)")
	f.IntVar(&bins, "bins", 30, "histogram bins")
	addViewportFlags(cmd)
	return cmd
}

// plotFrameTimes saves a histogram of frame times in milliseconds.
func plotFrameTimes(path string, times []float64, bins int) error {
	p := plot.New()
	p.Title.Text = "Frame times"
	p.X.Label.Text = "ms"
	p.Y.Label.Text = "frames"

	h, err := plotter.NewHist(plotter.Values(times), max(bins, 1))
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
