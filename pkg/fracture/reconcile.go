package fracture

import (
	"math"
	"sort"

	"github.com/kvernberg/fracnet/pkg/trace"
)

// DefaultMaxPasses bounds the reconciliation fixed-point iteration.
const DefaultMaxPasses = 16

// Reconciler enlarges constraining discs so that every Y/T abutment
// recorded in 2D stays valid in 3D: the terminated disc's far point at
// the abutment must lie within the constraining disc.
//
// Abutment relations form a dependency graph (terminated before
// constraining: enlarging a disc moves its own far point, which its
// constrainer must then contain). The graph is expected to be a DAG and
// is processed in topological order, one enlargement per disc. Cycles
// are handled by a bounded fixed-point iteration and reported as a
// non-convergence warning rather than looping indefinitely.
type Reconciler struct {
	MaxPasses int                            // 0 means DefaultMaxPasses
	PolicyFor func(trace.ID) ReconcilePolicy // nil treats everything as PolicyEnlarge
}

func (r *Reconciler) policy(id trace.ID) ReconcilePolicy {
	if r.PolicyFor == nil {
		return PolicyEnlarge
	}
	return r.PolicyFor(id)
}

// requiredDepth returns the minimum center offset the constraining disc
// needs to contain the terminated disc's far point. Derived from the
// circle formula: the far point sits at depth 2*h_t on the vertical line
// through the abutment, at along-strike offset s from the constrainer's
// center, and containment s^2 + (2*h_t - h_c)^2 <= halfLen^2 + h_c^2 is
// linear in h_c.
func requiredDepth(term, cons *Disc, ab trace.Abutment) float64 {
	ht := term.Depth
	if ht == 0 {
		// Far point is in the outcrop plane, inside the constraining
		// chord already.
		return 0
	}
	dx := ab.At.X - cons.Center.X
	dy := ab.At.Y - cons.Center.Y
	s2 := dx*dx + dy*dy
	return (s2 + 4*ht*ht - cons.halfLen*cons.halfLen) / (4 * ht)
}

// enforce grows the constraining disc of one abutment if needed.
// Reports whether the disc changed.
func (r *Reconciler) enforce(discs []*Disc, ab trace.Abutment) bool {
	term := discs[ab.Terminated]
	cons := discs[ab.Constraining]
	if term == nil || cons == nil {
		return false // a failed trace on either side voids the relation
	}
	if r.policy(ab.Constraining) == PolicyFrozen {
		return false
	}
	req := requiredDepth(term, cons, ab)
	if req <= cons.Depth*(1+1e-12) {
		return false
	}
	cons.SetDepth(req)
	return true
}

// Reconcile processes every abutment, mutating the constraining discs in
// place. The discs slice is indexed by trace id; failed traces hold nil.
func (r *Reconciler) Reconcile(discs []*Disc, abuts []trace.Abutment) []Warning {
	if len(abuts) == 0 {
		return nil
	}
	maxPasses := r.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	// Kahn layering over the terminated -> constraining edges.
	indegree := make(map[trace.ID]int)
	outgoing := make(map[trace.ID][]trace.ID) // terminated -> constrainers
	byCons := make(map[trace.ID][]trace.Abutment)
	for _, ab := range abuts {
		if _, ok := indegree[ab.Terminated]; !ok {
			indegree[ab.Terminated] = 0
		}
		indegree[ab.Constraining]++
		outgoing[ab.Terminated] = append(outgoing[ab.Terminated], ab.Constraining)
		byCons[ab.Constraining] = append(byCons[ab.Constraining], ab)
	}

	var ready []trace.ID
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	processed := make(map[trace.ID]bool)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		processed[id] = true

		// Every disc this one must contain is final, so a single
		// enlargement settles it.
		for _, ab := range byCons[id] {
			r.enforce(discs, ab)
		}
		for _, cons := range outgoing[id] {
			indegree[cons]--
			if indegree[cons] == 0 {
				ready = append(ready, cons)
				sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
			}
		}
	}

	// Anything not processed sits on a cycle. Best effort: iterate the
	// whole relation set to a fixed point within the pass bound, then
	// report the cycle.
	var residue []trace.ID
	for id := range indegree {
		if !processed[id] {
			residue = append(residue, id)
		}
	}
	if len(residue) == 0 {
		return nil
	}
	sort.Slice(residue, func(i, j int) bool { return residue[i] < residue[j] })

	passes := 0
	for ; passes < maxPasses; passes++ {
		changed := false
		for _, ab := range abuts {
			if r.enforce(discs, ab) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return []Warning{nonConvergenceWarning(residue, passes)}
}

// Contained reports whether one abutment is geometrically valid in 3D:
// the terminated disc's far point lies within the constraining disc.
// Tolerance covers floating point only; after reconciliation the
// relation holds exactly up to rounding.
func Contained(discs []*Disc, ab trace.Abutment) bool {
	term := discs[ab.Terminated]
	cons := discs[ab.Constraining]
	if term == nil || cons == nil {
		return false
	}
	far := term.FarPoint(ab.At)
	dist := math.Hypot(math.Hypot(far.X-cons.Center.X, far.Y-cons.Center.Y), far.Z-cons.Center.Z)
	return dist <= cons.Radius*(1+1e-12)+1e-12
}
