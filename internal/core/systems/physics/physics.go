package physics

import "github.com/go-gl/mathgl/mgl32"

// Integrate advances pos by the current velocity over dt seconds.
func (g Gravity) Integrate(pos mgl32.Vec3, dt float32) mgl32.Vec3 {
	return pos.Add(g.Velocity.Mul(dt))
}
