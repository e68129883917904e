package collision

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// StationaryPlaneCollider is a finite rectangle of the given width (local X)
// and length (local Z), rotated by a fixed orientation and centered on origin.
// It never moves: SetOrigin and the Snap family are no-ops.
type StationaryPlaneCollider struct {
	width, length float32
	origin        mgl32.Vec3
	orientation   mgl32.Quat

	// corners are in world space and wind around the rectangle.
	corners [4]mgl32.Vec3
	normal  mgl32.Vec3
}

func NewStationaryPlaneCollider(width, length float32, origin mgl32.Vec3, orientation mgl32.Quat) (StationaryPlaneCollider, error) {
	if !positive(width) || !positive(length) {
		return StationaryPlaneCollider{}, fmt.Errorf("%w: extents %gx%g", ErrDegeneratePlane, width, length)
	}
	if !finite(origin[0]) || !finite(origin[1]) || !finite(origin[2]) {
		return StationaryPlaneCollider{}, fmt.Errorf("%w: origin %v", ErrDegeneratePlane, origin)
	}
	if l := orientation.Len(); !finite(l) || l < Epsilon {
		return StationaryPlaneCollider{}, fmt.Errorf("%w: orientation length %g", ErrDegeneratePlane, l)
	}
	orientation = orientation.Normalize()

	hw, hl := width/2, length/2
	local := [4]mgl32.Vec3{
		{-hw, 0, -hl},
		{hw, 0, -hl},
		{hw, 0, hl},
		{-hw, 0, hl},
	}

	p := StationaryPlaneCollider{
		width:       width,
		length:      length,
		origin:      origin,
		orientation: orientation,
	}
	for i, c := range local {
		p.corners[i] = origin.Add(orientation.Rotate(c))
	}

	n := p.corners[3].Sub(p.corners[0]).Cross(p.corners[1].Sub(p.corners[0]))
	if n.Len() < Epsilon {
		return StationaryPlaneCollider{}, fmt.Errorf("%w: corners do not span a plane", ErrDegeneratePlane)
	}
	p.normal = n.Normalize()

	return p, nil
}

func positive(f float32) bool {
	return finite(f) && f > 0
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func (p *StationaryPlaneCollider) sealed() {}

func (p *StationaryPlaneCollider) Origin() mgl32.Vec3 { return p.origin }
func (p *StationaryPlaneCollider) Width() float32     { return p.width }
func (p *StationaryPlaneCollider) Height() float32    { return 0 }
func (p *StationaryPlaneCollider) Length() float32    { return p.length }

func (p *StationaryPlaneCollider) Orientation() mgl32.Quat { return p.orientation }

// Normal is the unit normal; for an unrotated plane it points along +Y.
func (p *StationaryPlaneCollider) Normal() mgl32.Vec3 { return p.normal }

func (p *StationaryPlaneCollider) Corners() [4]mgl32.Vec3 { return p.corners }

func (p *StationaryPlaneCollider) bounds(a Axis) Interval {
	i := Interval{Min: p.corners[0][a], Max: p.corners[0][a]}
	for _, c := range p.corners[1:] {
		i.Min = min(i.Min, c[a])
		i.Max = max(i.Max, c[a])
	}
	return i
}

func (p *StationaryPlaneCollider) ContainsX(i Interval) bool { return p.bounds(AxisX).Penetrates(i) }
func (p *StationaryPlaneCollider) ContainsY(i Interval) bool { return p.bounds(AxisY).Penetrates(i) }
func (p *StationaryPlaneCollider) ContainsZ(i Interval) bool { return p.bounds(AxisZ).Penetrates(i) }

func (p *StationaryPlaneCollider) SetOrigin(mgl32.Vec3) {}

func (p *StationaryPlaneCollider) Snap(Collider)  {}
func (p *StationaryPlaneCollider) SnapX(Collider) {}
func (p *StationaryPlaneCollider) SnapY(Collider) {}
func (p *StationaryPlaneCollider) SnapZ(Collider) {}

// IsColliding is symmetric with RectangleCollider.IsColliding. Two stationary
// planes never collide.
func (p *StationaryPlaneCollider) IsColliding(other Collider) bool {
	switch o := other.(type) {
	case *RectangleCollider:
		return boxTouchesPlane(o, p)
	default:
		return false
	}
}

func (p *StationaryPlaneCollider) IsCollidingX(other Collider) bool {
	return other.ContainsX(p.bounds(AxisX))
}

func (p *StationaryPlaneCollider) IsCollidingY(other Collider) bool {
	return other.ContainsY(p.bounds(AxisY))
}

func (p *StationaryPlaneCollider) IsCollidingZ(other Collider) bool {
	return other.ContainsZ(p.bounds(AxisZ))
}

// SignedDistance is the distance from the plane's infinite extension to pt,
// positive on the side the normal points to.
func (p *StationaryPlaneCollider) SignedDistance(pt mgl32.Vec3) float32 {
	return pt.Sub(p.origin).Dot(p.normal)
}

// Project drops pt orthogonally onto the plane's infinite extension.
func (p *StationaryPlaneCollider) Project(pt mgl32.Vec3) mgl32.Vec3 {
	return pt.Sub(p.normal.Mul(p.SignedDistance(pt)))
}

// ContainsPoint reports whether a point already lying in the plane falls
// inside the finite rectangle. For each edge it takes the cross product of
// the vectors from the point to both edge ends and compares its direction
// with the normal; all four must agree. Points on an edge count as inside.
// This only holds for convex boundaries, which a rectangle always is.
func (p *StationaryPlaneCollider) ContainsPoint(pt mgl32.Vec3) bool {
	side := 0
	for i := range p.corners {
		a := p.corners[i].Sub(pt)
		b := p.corners[(i+1)%len(p.corners)].Sub(pt)
		s := a.Cross(b).Dot(p.normal)

		var cur int
		switch {
		case s > Epsilon:
			cur = 1
		case s < -Epsilon:
			cur = -1
		default:
			continue
		}
		if side == 0 {
			side = cur
		} else if side != cur {
			return false
		}
	}
	return true
}
