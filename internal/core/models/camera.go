package models

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/helium/internal/core/input"
	"github.com/zeusync/helium/internal/core/render"
)

const (
	DefaultCameraSpeed float32 = 50
	DefaultAngleSpeed  float32 = 0.01
)

// Camera is a free-look perspective camera. Target is the view direction,
// not a point. Speed is in world units per second; AngleSpeed scales raw
// mouse deltas into radians.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	Aspect float32
	Fovy   float32
	Znear  float32
	Zfar   float32

	Speed      float32
	AngleSpeed float32

	dirty bool
}

func NewCamera(eye, target, up mgl32.Vec3, aspect, fovy, znear, zfar float32) Camera {
	return Camera{
		Eye:        eye,
		Target:     target,
		Up:         up,
		Aspect:     aspect,
		Fovy:       fovy,
		Znear:      znear,
		Zfar:       zfar,
		Speed:      DefaultCameraSpeed,
		AngleSpeed: DefaultAngleSpeed,
		dirty:      true,
	}
}

func (c Camera) right() (mgl32.Vec3, bool) {
	r := c.Target.Normalize().Cross(c.Up)
	if r.Len() < 1e-6 {
		return mgl32.Vec3{}, false
	}
	return r.Normalize(), true
}

func (c *Camera) turn(angle float32, axis mgl32.Vec3) {
	if angle == 0 {
		return
	}
	q := mgl32.QuatRotate(angle*c.AngleSpeed, axis)
	c.Target = q.Rotate(c.Target)
	c.dirty = true
}

// AddPitch tilts the view up or down by angle mouse units.
func (c *Camera) AddPitch(angle float32) {
	right, ok := c.right()
	if !ok {
		return
	}
	c.turn(angle, right)
}

// AddYaw turns the view around the up vector by angle mouse units.
func (c *Camera) AddYaw(angle float32) {
	if c.Up.Len() < 1e-6 {
		return
	}
	c.turn(angle, c.Up.Normalize())
}

// Move walks the eye along the view direction and strafes sideways for dt
// seconds.
func (c *Camera) Move(forward, backward, left, right bool, dt float32) {
	step := c.Speed * dt
	if step == 0 {
		return
	}
	dir := c.Target.Normalize()
	side, hasSide := c.right()

	var delta mgl32.Vec3
	if forward {
		delta = delta.Add(dir)
	}
	if backward {
		delta = delta.Sub(dir)
	}
	if hasSide && left {
		delta = delta.Sub(side)
	}
	if hasSide && right {
		delta = delta.Add(side)
	}
	if delta == (mgl32.Vec3{}) {
		return
	}
	c.Eye = c.Eye.Add(delta.Mul(step))
	c.dirty = true
}

// MoveTo places the eye, keeping the view direction.
func (c *Camera) MoveTo(eye mgl32.Vec3) {
	if eye != c.Eye {
		c.Eye = eye
		c.dirty = true
	}
}

func (c Camera) IsDirty() bool { return c.dirty }
func (c *Camera) MarkSynced()   { c.dirty = false }

func (c Camera) Params() render.CameraParams {
	return render.CameraParams{
		Eye:    c.Eye,
		Target: c.Target,
		Up:     c.Up,
		Aspect: c.Aspect,
		Fovy:   c.Fovy,
		Znear:  c.Znear,
		Zfar:   c.Zfar,
	}
}

// CameraController collects movement intents from input events. Mouse
// delta accumulates until the manager consumes it.
type CameraController struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Delta    mgl32.Vec2
}

func (c *CameraController) ProcessEvent(e input.Event) {
	switch e.Kind {
	case input.KindKey:
		switch e.Key {
		case input.KeyW:
			c.Forward = e.Pressed
		case input.KeyS:
			c.Backward = e.Pressed
		case input.KeyA:
			c.Left = e.Pressed
		case input.KeyD:
			c.Right = e.Pressed
		}
	case input.KindMouseMotion:
		c.Delta = c.Delta.Add(mgl32.Vec2{e.DX, e.DY})
	}
}

// Apply moves cam for dt seconds and turns it by the pending mouse delta,
// which is then cleared.
func (c *CameraController) Apply(cam *Camera, dt float32) {
	cam.Move(c.Forward, c.Backward, c.Left, c.Right, dt)
	cam.AddYaw(-c.Delta.X())
	cam.AddPitch(-c.Delta.Y())
	c.Delta = mgl32.Vec2{}
}
