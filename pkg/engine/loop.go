// Package engine drives the render pipeline at a fixed frame rate and
// bridges user input into it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// DefaultFrameRate is the tick rate of a new loop.
const DefaultFrameRate = 30.0

// DefaultGlideDuration is how long the camera takes to return home.
const DefaultGlideDuration = 600 * time.Millisecond

// ErrQuit is returned by Tick once the quit intent has been seen.
var ErrQuit = errors.New("engine: quit requested")

// Presenter shows completed frames.
type Presenter interface {
	Present(fb *render.Framebuffer) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(fb *render.Framebuffer) error

// Present calls f(fb).
func (f PresenterFunc) Present(fb *render.Framebuffer) error {
	return f(fb)
}

// Options configure a Loop.
type Options struct {
	FrameRate   float64       // ticks per second, DefaultFrameRate if zero
	HoldTimeout time.Duration // see InputState
	Logger      *log.Logger   // discards output if nil
}

// Stats summarize a running loop.
type Stats struct {
	Frames  uint64  // frames presented
	Dropped uint64  // frames abandoned after a pipeline error
	FPS     float64 // smoothed presentation rate
	Render  render.Stats
}

// Loop owns the per-tick cycle: snapshot input, advance the camera and
// pipeline, present. Tick runs on one goroutine at a time; Press, Release,
// SetFrameRate, Resize and GoHome may be called from any goroutine.
type Loop struct {
	pipeline  *render.Pipeline
	camera    *render.Camera
	meshes    []*models.Mesh
	presenter Presenter
	input     *InputState
	logger    *log.Logger

	home  Pose
	glide *Glide
	fps   *FPSMeter
	last  time.Time

	frames, dropped uint64

	mu         sync.Mutex
	period     time.Duration
	resize     *[2]int
	goHome     bool
	wireToggle bool
	cancel     context.CancelFunc
}

// NewLoop creates a loop rendering meshes through p from cam. The camera's
// pose at this point is its home pose.
func NewLoop(p *render.Pipeline, cam *render.Camera, meshes []*models.Mesh, pres Presenter, opts Options) (*Loop, error) {
	if p == nil || cam == nil || pres == nil {
		return nil, errs.Invalid("loop needs a pipeline, camera and presenter")
	}
	rate := opts.FrameRate
	if rate == 0 {
		rate = DefaultFrameRate
	}
	period, err := periodOf(rate)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Loop{
		pipeline:  p,
		camera:    cam,
		meshes:    meshes,
		presenter: pres,
		input:     NewInputState(opts.HoldTimeout),
		logger:    logger,
		home:      PoseOf(cam),
		fps:       NewFPSMeter(int(math.Round(rate))),
		period:    period,
	}, nil
}

func periodOf(fps float64) (time.Duration, error) {
	if !(fps > 0) || math.IsInf(fps, 1) {
		return 0, errs.Invalid("frame rate %v must be positive and finite", fps)
	}
	return max(time.Duration(float64(time.Second)/fps), time.Microsecond), nil
}

// Input returns the loop's input state for event handlers.
func (l *Loop) Input() *InputState {
	return l.input
}

// Camera returns the camera being driven.
func (l *Loop) Camera() *render.Camera {
	return l.camera
}

// SetFrameRate changes the tick rate. Run picks it up before its next
// wait.
func (l *Loop) SetFrameRate(fps float64) error {
	period, err := periodOf(fps)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.period = period
	l.mu.Unlock()
	l.logger.Info("frame rate changed", "fps", fps)
	return nil
}

// Period returns the current tick period.
func (l *Loop) Period() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.period
}

// Resize asks for a new viewport, applied at the start of the next tick.
func (l *Loop) Resize(width, height int) {
	l.mu.Lock()
	l.resize = &[2]int{width, height}
	l.mu.Unlock()
}

// GoHome starts easing the camera back to its home pose. Movement input
// is ignored until it arrives.
func (l *Loop) GoHome() {
	l.mu.Lock()
	l.goHome = true
	l.mu.Unlock()
}

// ToggleWireframe flips the wireframe overlay on the next tick.
func (l *Loop) ToggleWireframe() {
	l.mu.Lock()
	l.wireToggle = !l.wireToggle
	l.mu.Unlock()
}

// Stop ends a running Run.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Stats returns counters for the HUD. Call it from the tick goroutine or
// after Run returns.
func (l *Loop) Stats() Stats {
	return Stats{
		Frames:  l.frames,
		Dropped: l.dropped,
		FPS:     l.fps.FPS(),
		Render:  l.pipeline.Stats(),
	}
}

// Run ticks until ctx is done, Stop is called, the quit intent is seen or
// presenting fails. A slow tick delays the next one instead of queueing
// extra ticks.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.mu.Lock()
	l.cancel = cancel
	l.mu.Unlock()

	period := l.Period()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	l.logger.Debug("loop started", "period", period, "meshes", len(l.meshes))
	defer l.logger.Debug("loop stopped", "frames", l.frames, "dropped", l.dropped)

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := l.tick(now); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			if p := l.Period(); p != period {
				period = p
				ticker.Reset(period)
			}
		}
	}
}

// Tick runs one cycle now. The frame is presented only if every stage
// succeeded; a pipeline error drops the frame and is logged. Errors from
// the presenter, and ErrQuit, are returned.
func (l *Loop) Tick() error {
	return l.tick(time.Now())
}

func (l *Loop) tick(now time.Time) error {
	var dt time.Duration
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	l.last = now

	l.mu.Lock()
	resize, goHome, wire := l.resize, l.goHome, l.wireToggle
	l.resize, l.goHome, l.wireToggle = nil, false, false
	l.mu.Unlock()

	if resize != nil {
		if err := l.pipeline.Resize(resize[0], resize[1]); err != nil {
			l.logger.Warn("resize ignored", "width", resize[0], "height", resize[1], "err", err)
		}
	}
	if wire {
		l.pipeline.SetWireframe(!l.pipeline.Options().Wireframe)
	}

	in := l.input.Snapshot(now)
	if in.Quit {
		l.logger.Debug("quit requested")
		return ErrQuit
	}

	if goHome {
		l.glide = NewGlide(PoseOf(l.camera), l.home, DefaultGlideDuration)
	}
	if l.glide != nil {
		pose, done := l.glide.Step(dt)
		pose.Apply(l.camera)
		if done {
			l.glide = nil
		}
		in = render.Input{}
	}

	fb, err := l.pipeline.Advance(l.camera, l.meshes, in)
	if err != nil {
		l.dropped++
		l.logger.Warn("frame dropped", "err", err)
		return nil
	}

	if err := l.presenter.Present(fb); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	l.frames++
	l.fps.Tick(now)
	return nil
}
