package collision

import "github.com/go-gl/mathgl/mgl32"

// RectangleCollider is a movable axis-aligned box. Width, height and length
// are full extents along X, Y and Z; origin is the center. The eight corner
// vertices are cached and rebuilt by every mutator.
type RectangleCollider struct {
	width, height, length float32
	origin                mgl32.Vec3
	vertices              [8]mgl32.Vec3
}

func NewRectangleCollider(width, height, length float32, origin mgl32.Vec3) RectangleCollider {
	r := RectangleCollider{
		width:  width,
		height: height,
		length: length,
		origin: origin,
	}
	r.rebuild()
	return r
}

func (r *RectangleCollider) sealed() {}

func (r *RectangleCollider) rebuild() {
	hw, hh, hl := r.width/2, r.height/2, r.length/2
	i := 0
	for _, dx := range [2]float32{-hw, hw} {
		for _, dy := range [2]float32{-hh, hh} {
			for _, dz := range [2]float32{-hl, hl} {
				r.vertices[i] = r.origin.Add(mgl32.Vec3{dx, dy, dz})
				i++
			}
		}
	}
}

func (r RectangleCollider) Origin() mgl32.Vec3 { return r.origin }
func (r RectangleCollider) Width() float32     { return r.width }
func (r RectangleCollider) Height() float32    { return r.height }
func (r RectangleCollider) Length() float32    { return r.length }

// Vertices returns the cached corners.
func (r RectangleCollider) Vertices() [8]mgl32.Vec3 { return r.vertices }

func (r *RectangleCollider) SetOrigin(origin mgl32.Vec3) {
	r.origin = origin
	r.rebuild()
}

// SetExtents resizes the box around its current origin.
func (r *RectangleCollider) SetExtents(width, height, length float32) {
	r.width, r.height, r.length = width, height, length
	r.rebuild()
}

func (r RectangleCollider) interval(a Axis) Interval {
	return Centered(r.origin[a], extent(&r, a))
}

func (r RectangleCollider) ContainsX(i Interval) bool { return r.interval(AxisX).Penetrates(i) }
func (r RectangleCollider) ContainsY(i Interval) bool { return r.interval(AxisY).Penetrates(i) }
func (r RectangleCollider) ContainsZ(i Interval) bool { return r.interval(AxisZ).Penetrates(i) }

func (r RectangleCollider) containsPoint(p mgl32.Vec3) bool {
	for a := AxisX; a <= AxisZ; a++ {
		if !r.interval(a).Touches(Interval{Min: p[a], Max: p[a]}) {
			return false
		}
	}
	return true
}

func (r *RectangleCollider) IsColliding(other Collider) bool {
	switch o := other.(type) {
	case *RectangleCollider:
		for a := AxisX; a <= AxisZ; a++ {
			if !r.interval(a).Touches(o.interval(a)) {
				return false
			}
		}
		return true
	case *StationaryPlaneCollider:
		return boxTouchesPlane(r, o)
	default:
		return false
	}
}

func (r *RectangleCollider) isCollidingAxis(other Collider, a Axis) bool {
	return contains(other, a, r.interval(a))
}

func (r *RectangleCollider) IsCollidingX(other Collider) bool { return r.isCollidingAxis(other, AxisX) }
func (r *RectangleCollider) IsCollidingY(other Collider) bool { return r.isCollidingAxis(other, AxisY) }
func (r *RectangleCollider) IsCollidingZ(other Collider) bool { return r.isCollidingAxis(other, AxisZ) }

// snapAxis moves the box to the face of other that lies on the side of its
// own origin. Equal origins give no preferred side and are left alone.
func (r *RectangleCollider) snapAxis(other Collider, a Axis) bool {
	if !r.isCollidingAxis(other, a) {
		return false
	}
	self, them := r.origin[a], other.Origin()[a]
	gap := extent(other, a)/2 + extent(r, a)/2
	switch {
	case self < them:
		r.origin[a] = them - gap
	case self > them:
		r.origin[a] = them + gap
	default:
		return false
	}
	return true
}

func (r *RectangleCollider) Snap(other Collider) {
	moved := false
	for a := AxisX; a <= AxisZ; a++ {
		if r.snapAxis(other, a) {
			moved = true
		}
	}
	if moved {
		r.rebuild()
	}
}

func (r *RectangleCollider) SnapX(other Collider) { r.snapOne(other, AxisX) }
func (r *RectangleCollider) SnapY(other Collider) { r.snapOne(other, AxisY) }
func (r *RectangleCollider) SnapZ(other Collider) { r.snapOne(other, AxisZ) }

func (r *RectangleCollider) snapOne(other Collider, a Axis) {
	if r.snapAxis(other, a) {
		r.rebuild()
	}
}
