package render

import "fmt"

// Intent is a discrete user action.
type Intent int

// Camera intents, plus quit.
const (
	MoveLeft Intent = iota
	MoveRight
	MoveUp
	MoveDown
	MoveForward
	MoveBackward
	PanLeft
	PanRight
	PanUp
	PanDown
	TiltLeft
	TiltRight
	IntentQuit

	numIntents
)

var intentNames = [...]string{
	MoveLeft:     "move_left",
	MoveRight:    "move_right",
	MoveUp:       "move_up",
	MoveDown:     "move_down",
	MoveForward:  "move_forward",
	MoveBackward: "move_backward",
	PanLeft:      "pan_left",
	PanRight:     "pan_right",
	PanUp:        "pan_up",
	PanDown:      "pan_down",
	TiltLeft:     "tilt_left",
	TiltRight:    "tilt_right",
	IntentQuit:   "quit",
}

func (i Intent) String() string {
	if i < 0 || i >= numIntents {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return intentNames[i]
}

// ParseIntent returns the intent with the given snake_case name.
func ParseIntent(name string) (Intent, bool) {
	for i, n := range intentNames {
		if n == name {
			return Intent(i), true
		}
	}
	return 0, false
}

// Intents lists every intent in declaration order.
func Intents() []Intent {
	out := make([]Intent, numIntents)
	for i := range out {
		out[i] = Intent(i)
	}
	return out
}

// Input is a snapshot of which intents are held for one tick.
type Input struct {
	MoveLeft, MoveRight       bool
	MoveUp, MoveDown          bool
	MoveForward, MoveBackward bool
	PanLeft, PanRight         bool
	PanUp, PanDown            bool
	TiltLeft, TiltRight       bool
	Quit                      bool
}

func (in *Input) field(i Intent) *bool {
	switch i {
	case MoveLeft:
		return &in.MoveLeft
	case MoveRight:
		return &in.MoveRight
	case MoveUp:
		return &in.MoveUp
	case MoveDown:
		return &in.MoveDown
	case MoveForward:
		return &in.MoveForward
	case MoveBackward:
		return &in.MoveBackward
	case PanLeft:
		return &in.PanLeft
	case PanRight:
		return &in.PanRight
	case PanUp:
		return &in.PanUp
	case PanDown:
		return &in.PanDown
	case TiltLeft:
		return &in.TiltLeft
	case TiltRight:
		return &in.TiltRight
	case IntentQuit:
		return &in.Quit
	}
	return nil
}

// Set turns intent i on or off. Unknown intents are ignored.
func (in *Input) Set(i Intent, on bool) {
	if f := in.field(i); f != nil {
		*f = on
	}
}

// Has reports whether intent i is on.
func (in Input) Has(i Intent) bool {
	f := in.field(i)
	return f != nil && *f
}

// Rotating reports whether any pan or tilt intent is on.
func (in Input) Rotating() bool {
	return in.PanLeft || in.PanRight || in.PanUp || in.PanDown || in.TiltLeft || in.TiltRight
}

// Moving reports whether any translation intent is on.
func (in Input) Moving() bool {
	return in.MoveLeft || in.MoveRight || in.MoveUp || in.MoveDown || in.MoveForward || in.MoveBackward
}
