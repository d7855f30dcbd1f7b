package fracture

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/kvernberg/fracnet/pkg/geom"
	"github.com/kvernberg/fracnet/pkg/trace"
)

// Disc is one fracture: a circular disc in the vertical plane through
// its source trace's chord. The center sits at the chord midpoint,
// offset Depth below the outcrop plane (z = 0), and the radius is chosen
// so the circle passes exactly through both chord endpoints. The normal
// is horizontal, perpendicular to the chord, and can therefore never be
// parallel to the outcrop normal.
//
// The reconciler mutates Radius and the center offset only; Normal and
// Trace never change after construction.
type Disc struct {
	Trace  trace.ID
	Center v3.Vec
	Normal v3.Vec
	Radius float64
	Depth  float64 // center offset below the outcrop plane, >= 0

	halfLen float64 // half the chord length, fixed at construction
}

// NewDisc extrudes a trace into a disc with the given out-of-plane
// center offset. The offset's sign is ignored: all discs extrude
// downward, into the subsurface.
func NewDisc(tr trace.Trace, h float64) Disc {
	h = math.Abs(h)
	length := tr.Length()
	mid := tr.Midpoint()
	dx := (tr.B.X - tr.A.X) / length
	dy := (tr.B.Y - tr.A.Y) / length

	return Disc{
		Trace:   tr.ID,
		Center:  v3.Vec{X: mid.X, Y: mid.Y, Z: -h},
		Normal:  v3.Vec{X: -dy, Y: dx, Z: 0},
		Radius:  math.Sqrt(length*length/4 + h*h),
		Depth:   h,
		halfLen: length / 2,
	}
}

// DiscFromDip extrudes a trace using an explicit dip angle. The offset
// follows h = (|pq|/2)*tan(dip - pi/2), so a dip of pi/2 maps to h = 0.
// Dip angles outside (0, pi) are rejected; exactly 0 or pi denotes an
// infinite fracture and is rejected too. Exactly pi/2 is a point contact
// in the outcrop plane: rejected unless allowPointContact is set, in
// which case the caller is expected to surface a warning.
func DiscFromDip(tr trace.Trace, dip float64, allowPointContact bool) (Disc, error) {
	if !(dip > 0 && dip < math.Pi) {
		return Disc{}, &ParameterError{
			Field:  "dipAngle",
			Reason: fmt.Sprintf("%g is outside (0, pi)", dip),
		}
	}
	if dip == math.Pi/2 {
		if !allowPointContact {
			return Disc{}, &ParameterError{
				Field:  "dipAngle",
				Reason: "pi/2 degenerates to a point contact in the outcrop plane",
			}
		}
		return NewDisc(tr, 0), nil
	}
	h := (tr.Length() / 2) * math.Abs(math.Tan(dip-math.Pi/2))
	return NewDisc(tr, h), nil
}

// SetDepth re-extrudes the disc to a new center offset, keeping the
// chord fixed: the center drops to the new depth and the radius is
// recomputed so the circle still passes through both chord endpoints.
func (d *Disc) SetDepth(h float64) {
	h = math.Abs(h)
	d.Depth = h
	d.Center.Z = -h
	d.Radius = math.Sqrt(d.halfLen*d.halfLen + h*h)
}

// chordDir returns the horizontal unit vector along the chord.
func (d Disc) chordDir() v2.Vec {
	return v2.Vec{X: d.Normal.Y, Y: -d.Normal.X}
}

// SliceOutcrop intersects the disc with the outcrop plane and returns
// the resulting chord endpoints. By construction these are the source
// trace's endpoints (up to ordering).
func (d Disc) SliceOutcrop() (v2.Vec, v2.Vec) {
	u := d.chordDir()
	half := d.halfLen
	p := v2.Vec{X: d.Center.X - half*u.X, Y: d.Center.Y - half*u.Y}
	q := v2.Vec{X: d.Center.X + half*u.X, Y: d.Center.Y + half*u.Y}
	return p, q
}

// ContainsPoint reports whether p lies on the disc: within tol of its
// plane and no farther than Radius+tol from its center.
func (d Disc) ContainsPoint(p v3.Vec, tol float64) bool {
	off := (p.X-d.Center.X)*d.Normal.X + (p.Y-d.Center.Y)*d.Normal.Y + (p.Z-d.Center.Z)*d.Normal.Z
	if math.Abs(off) > tol {
		return false
	}
	return geom.Distance3(p, d.Center) <= d.Radius+tol
}

// FarPoint returns the deepest point of the disc boundary on the
// vertical line through a chord endpoint: the circle meets that line at
// z = 0 and z = -2*Depth. This is the point a constraining disc must
// contain for an abutment to stay valid in 3D.
func (d Disc) FarPoint(end v2.Vec) v3.Vec {
	return v3.Vec{X: end.X, Y: end.Y, Z: -2 * d.Depth}
}
