package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// PointOnSegment reports whether p lies on the segment ab: the
// perpendicular distance from p to the line through ab is below tol and
// p projects within the segment span, allowing an overshoot of tol past
// either endpoint.
func PointOnSegment(p, a, b v2.Vec, tol float64) bool {
	length := Distance(a, b)
	if length < tol {
		return Distance(p, a) < tol
	}
	if PerpDistance(p, a, b) >= tol {
		return false
	}
	t := ProjectParam(p, a, b)
	return t*length > -tol && t*length < length+tol
}

// PointOnSegmentInterior reports whether p lies on the segment ab
// strictly inside its span: like PointOnSegment, but the projection must
// fall at least tol away from both endpoints.
func PointOnSegmentInterior(p, a, b v2.Vec, tol float64) bool {
	length := Distance(a, b)
	if length < tol {
		return false
	}
	if PerpDistance(p, a, b) >= tol {
		return false
	}
	t := ProjectParam(p, a, b)
	return t*length > tol && t*length < length-tol
}

// CollinearOverlap reports whether the segments a1b1 and a2b2 lie on a
// common line within tol and share a span longer than tol. Parallel
// segments on offset lines do not overlap, and neither do collinear
// segments that merely touch end to end.
func CollinearOverlap(a1, b1, a2, b2 v2.Vec, tol float64) bool {
	d1x := b1.X - a1.X
	d1y := b1.Y - a1.Y
	d2x := b2.X - a2.X
	d2y := b2.Y - a2.Y
	len1 := math.Hypot(d1x, d1y)
	len2 := math.Hypot(d2x, d2y)
	if math.Abs(d1x*d2y-d1y*d2x) > tol*len1*len2 {
		return false
	}
	if PerpDistance(a2, a1, b1) >= tol {
		return false
	}

	// Shared extent along a1b1, in length units.
	u0 := ProjectParam(a2, a1, b1) * len1
	u1 := ProjectParam(b2, a1, b1) * len1
	if u0 > u1 {
		u0, u1 = u1, u0
	}
	return math.Min(len1, u1)-math.Max(0, u0) > tol
}

// SegmentIntersection computes the transversal crossing of the open
// segments a1b1 and a2b2. It returns the crossing point and true when the
// segments genuinely cross each other's interior; parallel, near-collinear
// (direction cross product below tol scaled by both lengths), touching,
// and non-crossing configurations return false.
//
// Endpoint contact is deliberately excluded: a segment that merely ends on
// another is an abutment candidate, not a crossing. A segment whose end
// pokes through the other by any positive amount does cross.
func SegmentIntersection(a1, b1, a2, b2 v2.Vec, tol float64) (v2.Vec, bool) {
	d1x := b1.X - a1.X
	d1y := b1.Y - a1.Y
	d2x := b2.X - a2.X
	d2y := b2.Y - a2.Y

	denom := d1x*d2y - d1y*d2x
	len1 := math.Hypot(d1x, d1y)
	len2 := math.Hypot(d2x, d2y)
	if math.Abs(denom) <= tol*len1*len2 {
		// Parallel or near-collinear, including collinear overlap.
		return v2.Vec{}, false
	}

	// Line 1 as a1*x + b1*y + c1 = 0; sign of the residual tells which
	// side of the line a point lies on. Both endpoints of the other
	// segment must lie strictly on opposite sides, and vice versa.
	r3 := d1y*(a2.X-a1.X) - d1x*(a2.Y-a1.Y)
	r4 := d1y*(b2.X-a1.X) - d1x*(b2.Y-a1.Y)
	if r3*r4 >= 0 {
		return v2.Vec{}, false
	}
	r1 := d2y*(a1.X-a2.X) - d2x*(a1.Y-a2.Y)
	r2 := d2y*(b1.X-a2.X) - d2x*(b1.Y-a2.Y)
	if r1*r2 >= 0 {
		return v2.Vec{}, false
	}

	t := ((a2.X-a1.X)*d2y - (a2.Y-a1.Y)*d2x) / denom
	return v2.Vec{X: a1.X + t*d1x, Y: a1.Y + t*d1y}, true
}
