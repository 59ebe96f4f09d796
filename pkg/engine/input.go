package engine

import (
	"sync"
	"time"

	"github.com/taigrr/scanline/pkg/render"
)

type heldKey struct {
	at       time.Time // last press or repeat
	seen     bool      // included in at least one snapshot
	released bool
}

// InputState collects intents from an event goroutine and hands the tick
// goroutine one consistent snapshot per frame.
//
// A press that is released before the next snapshot still shows up in
// that snapshot once. Terminals that never report key releases can set a
// hold timeout: a key with no press or repeat within the timeout counts as
// released.
type InputState struct {
	mu      sync.Mutex
	held    map[render.Intent]*heldKey
	timeout time.Duration
}

// NewInputState creates an input state. A zero holdTimeout waits for
// explicit releases.
func NewInputState(holdTimeout time.Duration) *InputState {
	return &InputState{
		held:    make(map[render.Intent]*heldKey),
		timeout: holdTimeout,
	}
}

// Press records that intent i is held as of at. Key repeats call Press
// again to extend the hold.
func (s *InputState) Press(i render.Intent, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k, ok := s.held[i]; ok {
		k.at = at
		k.released = false
		return
	}
	s.held[i] = &heldKey{at: at}
}

// Release records that intent i is no longer held.
func (s *InputState) Release(i render.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.held[i]
	if !ok {
		return
	}
	if k.seen {
		delete(s.held, i)
		return
	}
	k.released = true
}

// Reset drops every held intent.
func (s *InputState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.held)
}

// Snapshot returns the intents held at now.
func (s *InputState) Snapshot(now time.Time) render.Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	var in render.Input
	for i, k := range s.held {
		expired := s.timeout > 0 && now.Sub(k.at) > s.timeout
		if k.seen && expired {
			delete(s.held, i)
			continue
		}
		in.Set(i, true)
		k.seen = true
		if k.released || expired {
			delete(s.held, i)
		}
	}
	return in
}
