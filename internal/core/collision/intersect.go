package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// boxTouchesPlane reports contact between a box and a finite plane.
//
// If every vertex is strictly on one side of the plane there is no contact.
// Otherwise each vertex is projected onto the plane and tested against the
// rectangle; any hit is a contact. A box that fully covers a small plane
// projects all its vertices outside it, so plane corners inside the box are
// checked as well. A strip narrower than the box has neither, so finally the
// plane's edges are clipped against the box.
func boxTouchesPlane(r *RectangleCollider, p *StationaryPlaneCollider) bool {
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range r.vertices {
		d := p.SignedDistance(v)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	if lo > Epsilon || hi < -Epsilon {
		return false
	}

	for _, v := range r.vertices {
		if p.ContainsPoint(p.Project(v)) {
			return true
		}
	}
	for i, c := range p.corners {
		if r.containsPoint(c) {
			return true
		}
		if segmentTouchesBox(r, c, p.corners[(i+1)%len(p.corners)]) {
			return true
		}
	}
	return false
}

// segmentTouchesBox is the slab test for the closed segment a-b.
func segmentTouchesBox(r *RectangleCollider, a, b mgl32.Vec3) bool {
	t0, t1 := float32(0), float32(1)
	for axis := AxisX; axis <= AxisZ; axis++ {
		slab := r.interval(axis)
		d := b[axis] - a[axis]
		if float32(math.Abs(float64(d))) < Epsilon {
			if a[axis] < slab.Min || a[axis] > slab.Max {
				return false
			}
			continue
		}
		u0, u1 := (slab.Min-a[axis])/d, (slab.Max-a[axis])/d
		if u0 > u1 {
			u0, u1 = u1, u0
		}
		t0, t1 = max(t0, u0), min(t1, u1)
		if t0 > t1 {
			return false
		}
	}
	return true
}
