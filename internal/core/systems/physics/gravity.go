package physics

import "github.com/go-gl/mathgl/mgl32"

// StandardGravity is the default downward acceleration in world units per
// second squared.
var StandardGravity = mgl32.Vec3{0, -9.8, 0}

// Gravity is a component that accumulates velocity under constant
// acceleration. The velocity is exported so collision response can read and
// overwrite it directly.
type Gravity struct {
	Velocity     mgl32.Vec3
	acceleration mgl32.Vec3
}

// NewGravity starts at rest.
func NewGravity(acceleration mgl32.Vec3) Gravity {
	return Gravity{acceleration: acceleration}
}

// Update adds acceleration*dt to the velocity. dt is in seconds.
func (g *Gravity) Update(dt float32) *Gravity {
	g.Velocity = g.Velocity.Add(g.acceleration.Mul(dt))
	return g
}

func (g *Gravity) SetGravity(acceleration mgl32.Vec3) *Gravity {
	g.acceleration = acceleration
	return g
}

func (g Gravity) Acceleration() mgl32.Vec3 { return g.acceleration }

// KillVelocity zeroes the velocity; acceleration is kept.
func (g *Gravity) KillVelocity() *Gravity {
	g.Velocity = mgl32.Vec3{}
	return g
}
