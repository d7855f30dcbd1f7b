package trace

import (
	"errors"
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/kvernberg/fracnet/pkg/geom"
)

// ID identifies a trace. IDs are indices into the input trace slice and
// index the relation arena directly.
type ID int

// Trace is one 2D fracture segment observed on the outcrop: an ordered
// pair of chord endpoints plus its identifier. The endpoints must be
// distinct beyond the classification tolerance.
type Trace struct {
	ID   ID
	A, B v2.Vec
}

// Length returns the chord length.
func (t Trace) Length() float64 {
	return geom.Distance(t.A, t.B)
}

// Midpoint returns the chord midpoint.
func (t Trace) Midpoint() v2.Vec {
	return geom.Midpoint(t.A, t.B)
}

// End returns endpoint 0 (A) or 1 (B).
func (t Trace) End(end int) v2.Vec {
	if end == 0 {
		return t.A
	}
	return t.B
}

// EndRelation classifies one endpoint of a trace.
type EndRelation int

const (
	Free     EndRelation = iota // endpoint touches nothing
	Crossing                    // transversal X-intersection with another trace
	Abutting                    // Y/T-termination into another trace's interior
)

func (r EndRelation) String() string {
	switch r {
	case Free:
		return "free"
	case Crossing:
		return "crossing"
	case Abutting:
		return "abutting"
	default:
		return "unknown"
	}
}

// Relation records the classification of a single trace endpoint. For
// Crossing, Other is the counterpart trace and At the interior crossing
// point. For Abutting, Other is the constraining trace and At the point
// on its span where this trace terminates. Crossing is symmetric (both
// traces record each other); Abutting is directional (only the
// terminated trace records the relation).
type Relation struct {
	Kind  EndRelation
	Other ID
	At    v2.Vec
}

// CrossingPair records one transversal crossing between two traces,
// with A < B.
type CrossingPair struct {
	A, B ID
	At   v2.Vec
}

// Abutment is one directional Y/T relation: Terminated ends on the
// interior of Constraining at point At. End is the terminated trace's
// endpoint index (0 or 1) involved in the relation.
type Abutment struct {
	Terminated   ID
	Constraining ID
	End          int
	At           v2.Vec
}

// Relations is the classification result: a per-endpoint relation arena
// plus the global crossing pair list. It is built once by Classify and
// read-only thereafter.
type Relations struct {
	ends      [][2]Relation
	Crossings []CrossingPair
}

// End returns the relation recorded for the given trace endpoint.
func (r *Relations) End(id ID, end int) Relation {
	return r.ends[id][end]
}

// Abutments returns every directional abutment relation, ordered by
// terminated trace id, then endpoint.
func (r *Relations) Abutments() []Abutment {
	var out []Abutment
	for id, pair := range r.ends {
		for end, rel := range pair {
			if rel.Kind == Abutting {
				out = append(out, Abutment{
					Terminated:   ID(id),
					Constraining: rel.Other,
					End:          end,
					At:           rel.At,
				})
			}
		}
	}
	return out
}

// CountKind returns how many endpoints carry the given relation kind.
func (r *Relations) CountKind(kind EndRelation) int {
	n := 0
	for _, pair := range r.ends {
		for _, rel := range pair {
			if rel.Kind == kind {
				n++
			}
		}
	}
	return n
}

// ErrDegenerateTrace marks a trace whose endpoints coincide within the
// classification tolerance.
var ErrDegenerateTrace = errors.New("trace endpoints coincide within tolerance")

// ErrCollinearOverlap marks a trace that shares a collinear span of
// positive length with another trace. Such a pair has no meaningful
// crossing or abutment; both traces are dropped.
var ErrCollinearOverlap = errors.New("collinear overlap with another trace")

// TraceError is a per-trace geometric failure. It is isolated: the
// affected trace is dropped and the rest of the batch still processes.
type TraceError struct {
	ID  ID
	Err error
}

func (e TraceError) Error() string {
	return fmt.Sprintf("trace %d: %v", e.ID, e.Err)
}

func (e TraceError) Unwrap() error {
	return e.Err
}
