package engine

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// FPSMeter smooths the instantaneous frame rate with a critically damped
// spring so the HUD reading does not jitter.
type FPSMeter struct {
	spring   harmonica.Spring
	value    float64
	velocity float64
	last     time.Time
}

// NewFPSMeter creates a meter tuned for a loop running near fps.
func NewFPSMeter(fps int) *FPSMeter {
	return &FPSMeter{
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 6.0, 1.0),
	}
}

// Tick records a frame completed at now and returns the smoothed rate.
func (m *FPSMeter) Tick(now time.Time) float64 {
	if !m.last.IsZero() {
		if dt := now.Sub(m.last).Seconds(); dt > 0 {
			m.value, m.velocity = m.spring.Update(m.value, m.velocity, 1/dt)
		}
	}
	m.last = now
	return m.value
}

// FPS returns the current smoothed rate.
func (m *FPSMeter) FPS() float64 {
	return m.value
}
