package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
)

// Default camera speeds, in world units and radians per tick.
const (
	DefaultMoveSpeed     = 0.25
	DefaultStrafeSpeed   = 0.25
	DefaultFlySpeed      = 0.25
	DefaultRotationSpeed = math.Pi / 180
)

// Speeds are the per-tick camera motion rates.
type Speeds struct {
	Move     float64 // forward/backward
	Strafe   float64 // left/right
	Fly      float64 // up/down
	Rotation float64 // radians
}

// DefaultSpeeds returns the standard camera speeds.
func DefaultSpeeds() Speeds {
	return Speeds{
		Move:     DefaultMoveSpeed,
		Strafe:   DefaultStrafeSpeed,
		Fly:      DefaultFlySpeed,
		Rotation: DefaultRotationSpeed,
	}
}

func (s Speeds) validate() error {
	for _, v := range []float64{s.Move, s.Strafe, s.Fly, s.Rotation} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return errs.Invalid("camera speed %v must be finite and non-negative", v)
		}
	}
	return nil
}

// Camera is a free-flying viewpoint. Forward is +Z, up is +Y and the
// camera's right axis is +X, all rotated by Rotation(yaw, pitch, roll).
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Yaw   float64 // around Y (pan left/right)
	Pitch float64 // around X (pan up/down)
	Roll  float64 // around Z (tilt)

	Speeds Speeds

	rotation math3d.Mat3
}

// NewCamera creates a camera at pos facing +Z.
func NewCamera(pos math3d.Vec3, speeds Speeds) (*Camera, error) {
	if !pos.IsFinite() {
		return nil, errs.Invalid("camera position %v must be finite", pos)
	}
	if err := speeds.validate(); err != nil {
		return nil, err
	}
	return &Camera{
		Position: pos,
		Speeds:   speeds,
		rotation: math3d.Identity3(),
	}, nil
}

// SetPosition moves the camera to pos.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetRotation sets the orientation (yaw, pitch, roll in radians).
func (c *Camera) SetRotation(yaw, pitch, roll float64) {
	c.Yaw = yaw
	c.Pitch = pitch
	c.Roll = roll
	c.rotation = math3d.Rotation(yaw, pitch, roll)
}

// LookAt turns the camera toward target and clears roll. A target at the
// camera position leaves the orientation unchanged.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position)
	if dir.LenSq() == 0 {
		return
	}
	dir = dir.Normalize()

	// forward = (-cos(p)·sin(y), -sin(p), cos(p)·cos(y))
	pitch := math.Asin(max(-1, min(1, -dir.Y)))
	yaw := math.Atan2(-dir.X, dir.Z)
	c.SetRotation(yaw, pitch, 0)
}

// RotationMatrix returns Rotation(yaw, pitch, roll).
func (c *Camera) RotationMatrix() math3d.Mat3 {
	return c.rotation
}

// Forward returns the direction the camera looks.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.AxisForward.MulMat(c.rotation)
}

// Up returns the camera's up vector.
func (c *Camera) Up() math3d.Vec3 {
	return math3d.AxisUp.MulMat(c.rotation)
}

// Right returns the camera's right axis. With the screen mapping used by
// Pipeline it points to the viewer's left.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.AxisRight.MulMat(c.rotation)
}

// ViewOrientation returns the matrix with rows right, up and right×up.
func (c *Camera) ViewOrientation() math3d.Mat3 {
	right := c.Right()
	up := c.Up()
	return math3d.FromRows(right, up, right.Cross(up))
}

// Update applies one tick of input: rotation first, then translation
// along the freshly rotated axes. Opposing intents cancel.
func (c *Camera) Update(in Input) {
	if in.Rotating() {
		rs := c.Speeds.Rotation
		if in.PanLeft {
			c.Yaw -= rs
		}
		if in.PanRight {
			c.Yaw += rs
		}
		if in.PanUp {
			c.Pitch -= rs
		}
		if in.PanDown {
			c.Pitch += rs
		}
		if in.TiltLeft {
			c.Roll -= rs
		}
		if in.TiltRight {
			c.Roll += rs
		}
		c.rotation = math3d.Rotation(c.Yaw, c.Pitch, c.Roll)
	}

	if !in.Moving() {
		return
	}

	var forward, up, right float64
	if in.MoveForward {
		forward += c.Speeds.Move
	}
	if in.MoveBackward {
		forward -= c.Speeds.Move
	}
	if in.MoveUp {
		up += c.Speeds.Fly
	}
	if in.MoveDown {
		up -= c.Speeds.Fly
	}
	if in.MoveLeft {
		right += c.Speeds.Strafe
	}
	if in.MoveRight {
		right -= c.Speeds.Strafe
	}

	c.Position = c.Position.
		Add(c.Forward().Scale(forward)).
		Add(c.Up().Scale(up)).
		Add(c.Right().Scale(right))
}
