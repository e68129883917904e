package collision

// Interval is a closed range on one axis.
type Interval struct {
	Min, Max float32
}

// Centered builds the interval of a shape with the given center and full size.
func Centered(center, size float32) Interval {
	half := size / 2
	return Interval{Min: center - half, Max: center + half}
}

func (i Interval) depth(o Interval) float32 {
	return min(i.Max, o.Max) - max(i.Min, o.Min)
}

// Touches reports overlap including shared end points.
func (i Interval) Touches(o Interval) bool {
	return i.depth(o) >= -Epsilon
}

// Penetrates reports overlap with positive depth. A zero-width interval (a
// plane seen edge-on) penetrates when it lies strictly inside the other one.
func (i Interval) Penetrates(o Interval) bool {
	d := i.depth(o)
	if d > Epsilon {
		return true
	}
	return d >= -Epsilon && (i.strictlyInside(o) || o.strictlyInside(i))
}

func (i Interval) strictlyInside(o Interval) bool {
	return o.Min+Epsilon < i.Min && i.Max < o.Max-Epsilon
}
