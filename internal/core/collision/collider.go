// Package collision implements the two collider shapes used by the
// simulation: a movable axis-aligned box and an immovable, arbitrarily
// oriented finite plane.
//
// The set of shapes is closed. Collider is sealed and pairwise tests dispatch
// with type switches, because the box/plane test needs geometry that the
// shared interface does not expose.
package collision

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used by every geometric comparison in the package.
const Epsilon float32 = 1e-5

// ErrDegeneratePlane is returned when a plane collider cannot produce a unit
// normal from its extents and orientation.
var ErrDegeneratePlane = errors.New("degenerate plane collider")

type Collider interface {
	Origin() mgl32.Vec3
	Width() float32
	Height() float32
	Length() float32

	// ContainsX reports whether the collider's X extent overlaps the interval
	// with positive depth. Y and Z are analogous.
	ContainsX(Interval) bool
	ContainsY(Interval) bool
	ContainsZ(Interval) bool

	// SetOrigin moves the collider. Stationary colliders ignore it.
	SetOrigin(mgl32.Vec3)

	// Snap pushes the collider out of other along every axis it penetrates.
	// Stationary colliders ignore it.
	Snap(other Collider)
	SnapX(other Collider)
	SnapY(other Collider)
	SnapZ(other Collider)

	// IsColliding reports contact between the two shapes. Touching counts.
	IsColliding(other Collider) bool
	// IsCollidingX reports penetration along X only. Touching does not count.
	IsCollidingX(other Collider) bool
	IsCollidingY(other Collider) bool
	IsCollidingZ(other Collider) bool

	sealed()
}

var (
	_ Collider = (*RectangleCollider)(nil)
	_ Collider = (*StationaryPlaneCollider)(nil)
)

// Axis selects one world axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

func extent(c Collider, a Axis) float32 {
	switch a {
	case AxisX:
		return c.Width()
	case AxisY:
		return c.Height()
	default:
		return c.Length()
	}
}

func contains(c Collider, a Axis, i Interval) bool {
	switch a {
	case AxisX:
		return c.ContainsX(i)
	case AxisY:
		return c.ContainsY(i)
	default:
		return c.ContainsZ(i)
	}
}
