package engine

import (
	"math"
	"testing"
	"time"
)

func TestFPSMeterConverges(t *testing.T) {
	m := NewFPSMeter(100)
	now := t0
	if got := m.Tick(now); got != 0 {
		t.Errorf("first tick = %v, want 0", got)
	}
	for range 500 {
		now = now.Add(10 * time.Millisecond)
		m.Tick(now)
	}
	if got := m.FPS(); math.Abs(got-100) > 1 {
		t.Errorf("FPS() = %v, want about 100", got)
	}
}

func TestFPSMeterIgnoresZeroInterval(t *testing.T) {
	m := NewFPSMeter(30)
	m.Tick(t0)
	if got := m.Tick(t0); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("zero interval produced %v", got)
	}
}
