// Package geom provides the planar geometry primitives used by the network
// synthesis pipeline.
//
// All coordinates are float64 pairs in a single projected, meter-scale
// coordinate reference system. The package never rounds or re-derives
// coordinates: a point that enters the pipeline keeps its exact bit pattern,
// which is what allows downstream stages to match endpoints by value.
// Point is a comparable struct and is used directly as a map key for
// coordinate-exact bookkeeping (degree counting, protected endpoints).
package geom

import "math"

// Point is an exact 2D coordinate. The zero value is the origin.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Segment is a straight two-point line.
type Segment struct {
	A Point
	B Point
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.A.Dist(s.B)
}

// IsDegenerate reports whether both endpoints coincide exactly.
// Projection onto a degenerate segment is undefined.
func (s Segment) IsDegenerate() bool {
	return s.A == s.B
}

// Translate returns the segment with both endpoints shifted by (dx, dy).
func (s Segment) Translate(dx, dy float64) Segment {
	return Segment{A: s.A.Add(dx, dy), B: s.B.Add(dx, dy)}
}

// Interpolate returns the point at parameter t along the segment,
// where t=0 is A and t=1 is B. The endpoints are returned by value,
// bit-exact, so callers comparing coordinates never see drift at t=0 or t=1.
func (s Segment) Interpolate(t float64) Point {
	if t <= 0 {
		return s.A
	}
	if t >= 1 {
		return s.B
	}
	return Point{
		X: s.A.X + t*(s.B.X-s.A.X),
		Y: s.A.Y + t*(s.B.Y-s.A.Y),
	}
}

// ClosestPoint returns the point on the segment nearest to p together with
// the clamped projection parameter t in [0, 1].
//
// ClosestPoint must not be called on a degenerate segment; callers check
// [Segment.IsDegenerate] first and treat that case as an input error.
func (s Segment) ClosestPoint(p Point) (Point, float64) {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y
	t := ((p.X-s.A.X)*dx + (p.Y-s.A.Y)*dy) / (dx*dx + dy*dy)
	switch {
	case t <= 0:
		return s.A, 0
	case t >= 1:
		return s.B, 1
	}
	return s.Interpolate(t), t
}

// DistTo returns the distance from p to the nearest point on the segment.
func (s Segment) DistTo(p Point) float64 {
	q, _ := s.ClosestPoint(p)
	return p.Dist(q)
}
