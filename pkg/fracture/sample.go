package fracture

import (
	"math"
	"math/rand"
)

// Distribution draws dip angles for disc construction. Implementations
// must use only the supplied generator so that seeded runs reproduce
// bit-identical geometry.
type Distribution interface {
	SampleDip(rng *rand.Rand) float64
}

// degenerateDip reports whether a dip angle denotes an unsupported
// extrusion: 0 and pi are infinite fractures, pi/2 a point contact.
func degenerateDip(a float64) bool {
	return a == 0 || a == math.Pi/2 || a == math.Pi
}

// UniformDip samples dip angles uniformly from (Min, Max), re-drawing
// the degenerate values 0, pi/2 and pi. A zero value samples the full
// (0, pi) range.
type UniformDip struct {
	Min, Max float64
}

func (u UniformDip) SampleDip(rng *rand.Rand) float64 {
	lo, hi := u.Min, u.Max
	if lo == 0 && hi == 0 {
		hi = math.Pi
	}
	for i := 0; i < 64; i++ {
		a := lo + rng.Float64()*(hi-lo)
		if !degenerateDip(a) && a > 0 && a < math.Pi {
			return a
		}
	}
	// A range this hostile (e.g. Min == Max == pi/2) cannot produce a
	// valid draw; nudge off the degenerate value instead of spinning.
	return math.Nextafter(math.Pi/2, math.Pi)
}

// FixedDip always yields the same dip angle.
type FixedDip struct {
	Angle float64
}

func (f FixedDip) SampleDip(*rand.Rand) float64 {
	return f.Angle
}
