package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/taigrr/scanline/pkg/render"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestInputStatePressRelease(t *testing.T) {
	s := NewInputState(0)

	s.Press(render.MoveForward, t0)
	if in := s.Snapshot(t0); !in.MoveForward {
		t.Fatal("held key missing from snapshot")
	}
	if in := s.Snapshot(t0.Add(time.Hour)); !in.MoveForward {
		t.Error("key without timeout should stay held")
	}

	s.Release(render.MoveForward)
	if in := s.Snapshot(t0); in.MoveForward {
		t.Error("released key still held")
	}
}

func TestInputStateTap(t *testing.T) {
	s := NewInputState(0)

	s.Press(render.PanLeft, t0)
	s.Release(render.PanLeft)

	if in := s.Snapshot(t0); !in.PanLeft {
		t.Error("tap between snapshots was lost")
	}
	if in := s.Snapshot(t0); in.PanLeft {
		t.Error("tap reported twice")
	}
}

func TestInputStateHoldTimeout(t *testing.T) {
	s := NewInputState(100 * time.Millisecond)

	s.Press(render.MoveUp, t0)
	if !s.Snapshot(t0.Add(50 * time.Millisecond)).MoveUp {
		t.Fatal("key dropped before timeout")
	}

	// repeat extends the hold
	s.Press(render.MoveUp, t0.Add(90*time.Millisecond))
	if !s.Snapshot(t0.Add(150 * time.Millisecond)).MoveUp {
		t.Error("repeat did not extend hold")
	}

	if s.Snapshot(t0.Add(300 * time.Millisecond)).MoveUp {
		t.Error("key held past timeout")
	}
}

func TestInputStateTimeoutStillReportsOnce(t *testing.T) {
	s := NewInputState(10 * time.Millisecond)
	s.Press(render.TiltRight, t0)

	// first snapshot comes late but the press was never seen
	if !s.Snapshot(t0.Add(time.Second)).TiltRight {
		t.Error("unseen press lost to timeout")
	}
	if s.Snapshot(t0.Add(time.Second)).TiltRight {
		t.Error("expired key reported again")
	}
}

func TestInputStateReset(t *testing.T) {
	s := NewInputState(0)
	s.Press(render.PanDown, t0)
	s.Press(render.MoveLeft, t0)
	s.Reset()
	if in := s.Snapshot(t0); in.Rotating() || in.Moving() {
		t.Errorf("snapshot after Reset = %+v", in)
	}
}

func TestInputStateConcurrent(t *testing.T) {
	s := NewInputState(0)
	var wg sync.WaitGroup
	for _, i := range render.Intents() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.Press(i, t0)
				s.Release(i)
			}
		}()
	}
	for range 100 {
		s.Snapshot(t0)
	}
	wg.Wait()
}
