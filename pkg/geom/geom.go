package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Distance returns the euclidean distance between two 2D points.
func Distance(p, q v2.Vec) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Distance3 returns the euclidean distance between two 3D points.
func Distance3(p, q v3.Vec) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	dz := q.Z - p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Midpoint returns the midpoint of the segment ab.
func Midpoint(a, b v2.Vec) v2.Vec {
	return v2.Vec{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Lerp returns a + t*(b-a).
func Lerp(a, b v2.Vec, t float64) v2.Vec {
	return v2.Vec{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}

// ProjectParam returns the parameter t such that a + t*(b-a) is the
// orthogonal projection of p onto the infinite line through a and b.
// A degenerate segment (a == b) yields t = 0.
func ProjectParam(p, a, b v2.Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return 0
	}
	return ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / len2
}

// PerpDistance returns the perpendicular distance from p to the infinite
// line through a and b. A degenerate segment falls back to point distance.
func PerpDistance(p, a, b v2.Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return Distance(p, a)
	}
	// |cross(b-a, p-a)| / |b-a|
	return math.Abs(dx*(p.Y-a.Y)-dy*(p.X-a.X)) / length
}
