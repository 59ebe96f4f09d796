package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
	"gonum.org/v1/gonum/floats/scalar"
)

func newTestCamera(t *testing.T, pos math3d.Vec3) *Camera {
	t.Helper()
	c, err := NewCamera(pos, DefaultSpeeds())
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	return c
}

func TestNewCameraValidation(t *testing.T) {
	tests := []struct {
		name   string
		pos    math3d.Vec3
		speeds Speeds
	}{
		{"negative move", math3d.Vec3{}, Speeds{Move: -1}},
		{"nan strafe", math3d.Vec3{}, Speeds{Strafe: math.NaN()}},
		{"inf rotation", math3d.Vec3{}, Speeds{Rotation: math.Inf(1)}},
		{"nan position", math3d.V3(math.NaN(), 0, 0), DefaultSpeeds()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCamera(tt.pos, tt.speeds); !errors.Is(err, errs.ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestCameraIdleUpdate(t *testing.T) {
	c := newTestCamera(t, math3d.V3(1, 2, 3))
	c.Update(Input{})
	if c.Position != math3d.V3(1, 2, 3) || c.Yaw != 0 || c.Pitch != 0 || c.Roll != 0 {
		t.Errorf("idle update moved camera: %+v", c)
	}
	if c.RotationMatrix() != math3d.Identity3() {
		t.Error("rotation should start as identity")
	}
}

func TestCameraTranslation(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want math3d.Vec3
	}{
		{"forward", Input{MoveForward: true}, math3d.V3(0, 0, 0.25)},
		{"backward", Input{MoveBackward: true}, math3d.V3(0, 0, -0.25)},
		{"up", Input{MoveUp: true}, math3d.V3(0, 0.25, 0)},
		{"down", Input{MoveDown: true}, math3d.V3(0, -0.25, 0)},
		{"left", Input{MoveLeft: true}, math3d.V3(0.25, 0, 0)},
		{"right", Input{MoveRight: true}, math3d.V3(-0.25, 0, 0)},
		{"opposing cancel", Input{MoveForward: true, MoveBackward: true}, math3d.V3(0, 0, 0)},
		{"combined", Input{MoveForward: true, MoveUp: true, MoveLeft: true}, math3d.V3(0.25, 0.25, 0.25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCamera(t, math3d.Vec3{})
			c.Update(tt.in)
			if !vecNear(c.Position, tt.want) {
				t.Errorf("position = %v, want %v", c.Position, tt.want)
			}
		})
	}
}

func TestCameraRotation(t *testing.T) {
	rs := DefaultRotationSpeed
	tests := []struct {
		name             string
		in               Input
		yaw, pitch, roll float64
	}{
		{"pan left", Input{PanLeft: true}, -rs, 0, 0},
		{"pan right", Input{PanRight: true}, rs, 0, 0},
		{"pan up", Input{PanUp: true}, 0, -rs, 0},
		{"pan down", Input{PanDown: true}, 0, rs, 0},
		{"tilt left", Input{TiltLeft: true}, 0, 0, -rs},
		{"tilt right", Input{TiltRight: true}, 0, 0, rs},
		{"opposing", Input{PanLeft: true, PanRight: true}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCamera(t, math3d.Vec3{})
			c.Update(tt.in)
			if c.Yaw != tt.yaw || c.Pitch != tt.pitch || c.Roll != tt.roll {
				t.Errorf("angles = (%v, %v, %v), want (%v, %v, %v)", c.Yaw, c.Pitch, c.Roll, tt.yaw, tt.pitch, tt.roll)
			}
			want := math3d.Rotation(tt.yaw, tt.pitch, tt.roll)
			if !c.RotationMatrix().ApproxEqual(want, eps) {
				t.Errorf("rotation = %v, want %v", c.RotationMatrix(), want)
			}
		})
	}
}

func TestCameraRotatesBeforeMoving(t *testing.T) {
	c := newTestCamera(t, math3d.Vec3{})
	c.Speeds.Rotation = math.Pi / 2

	c.Update(Input{PanRight: true, MoveForward: true})

	// yaw of 90° turns forward from +Z to -X
	if !vecNear(c.Forward(), math3d.V3(-1, 0, 0)) {
		t.Errorf("forward = %v, want (-1, 0, 0)", c.Forward())
	}
	if !vecNear(c.Position, math3d.V3(-0.25, 0, 0)) {
		t.Errorf("position = %v, want (-0.25, 0, 0)", c.Position)
	}
}

func TestCameraLookAt(t *testing.T) {
	c := newTestCamera(t, math3d.V3(1, 1, 1))
	c.Roll = 0.3
	target := math3d.V3(4, -3, 6)

	c.LookAt(target)

	want := target.Sub(c.Position).Normalize()
	if !vecNear(c.Forward(), want) {
		t.Errorf("forward = %v, want %v", c.Forward(), want)
	}
	if c.Roll != 0 {
		t.Errorf("roll = %v, want 0", c.Roll)
	}

	before := *c
	c.LookAt(c.Position)
	if c.Yaw != before.Yaw || c.Pitch != before.Pitch {
		t.Error("LookAt at own position changed orientation")
	}
}

func TestViewOrientation(t *testing.T) {
	c := newTestCamera(t, math3d.V3(3, -2, 7))
	c.SetRotation(0.7, -0.4, 1.1)

	v := c.ViewOrientation()
	if got := v.Mul(v.Transpose()); !got.ApproxEqual(math3d.Identity3(), 1e-12) {
		t.Errorf("V·Vᵀ = %v, want identity", got)
	}
	if !vecNear(v.Row(2), c.Forward()) {
		t.Errorf("third row = %v, want forward %v", v.Row(2), c.Forward())
	}

	// a point straight ahead lands on the view-space +Z axis
	vt := v.Transpose()
	ahead := c.Position.Add(c.Forward().Scale(4))
	view := ahead.MulMat(vt).Sub(c.Position.MulMat(vt))
	if !vecNear(view, math3d.V3(0, 0, 4)) {
		t.Errorf("view-space point = %v, want (0, 0, 4)", view)
	}
	if !scalar.EqualWithinAbs(c.Up().Dot(c.Forward()), 0, 1e-12) {
		t.Error("up and forward are not orthogonal")
	}
}
