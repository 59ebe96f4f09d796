package engine

import (
	"math"
	"time"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Pose is a camera position and orientation.
type Pose struct {
	Position         math3d.Vec3
	Yaw, Pitch, Roll float64
}

// PoseOf returns the current pose of c.
func PoseOf(c *render.Camera) Pose {
	return Pose{Position: c.Position, Yaw: c.Yaw, Pitch: c.Pitch, Roll: c.Roll}
}

// Apply moves c to the pose.
func (p Pose) Apply(c *render.Camera) {
	c.SetPosition(p.Position)
	c.SetRotation(p.Yaw, p.Pitch, p.Roll)
}

// Glide eases a camera from one pose to another. Angles take the short
// way around.
type Glide struct {
	from, to Pose
	tween    *gween.Tween
}

// NewGlide creates a glide lasting d.
func NewGlide(from, to Pose, d time.Duration) *Glide {
	return &Glide{
		from:  from,
		to:    to,
		tween: gween.New(0, 1, float32(max(d.Seconds(), 1e-6)), ease.OutCubic),
	}
}

// Step advances the glide by dt and returns the pose to show and whether
// the glide has finished.
func (g *Glide) Step(dt time.Duration) (Pose, bool) {
	t, done := g.tween.Update(float32(dt.Seconds()))
	if done {
		return g.to, true
	}
	f := float64(t)
	return Pose{
		Position: g.from.Position.Lerp(g.to.Position, f),
		Yaw:      lerpAngle(g.from.Yaw, g.to.Yaw, f),
		Pitch:    lerpAngle(g.from.Pitch, g.to.Pitch, f),
		Roll:     lerpAngle(g.from.Roll, g.to.Roll, f),
	}, false
}

// lerpAngle interpolates from a toward b along the shorter arc.
func lerpAngle(a, b, t float64) float64 {
	d := math.Remainder(b-a, 2*math.Pi)
	return a + d*t
}
