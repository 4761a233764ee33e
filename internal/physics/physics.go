// Package physics provides the geometry helpers used by the simulation.
package physics

import "math"

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

// Overlaps reports whether two rectangles share interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return SpansOverlap(r.X, r.X+r.W, o.X, o.X+o.W) &&
		SpansOverlap(r.Y, r.Y+r.H, o.Y, o.Y+o.H)
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return r.Y + r.H/2
}

// SpansOverlap reports whether the open intervals (a0, a1) and (b0, b1) intersect.
func SpansOverlap(a0, a1, b0, b1 float64) bool {
	return a0 < b1 && b0 < a1
}

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Sign returns -1, 0 or 1 according to the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// WrapAngle keeps an angle inside (-2π, 2π) while preserving its sign.
func WrapAngle(a float64) float64 {
	return math.Mod(a, 2*math.Pi)
}

// RotatePoint rotates (x, y) around (cx, cy) by angle radians.
func RotatePoint(x, y, cx, cy, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	dx := x - cx
	dy := y - cy
	return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
}
