package trace

import (
	"math"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/kvernberg/fracnet/pkg/geom"
)

// Classifier derives endpoint relations for a set of traces under a
// single tolerance. The tolerance is consumed uniformly by every
// predicate; any snapping applied upstream must have used a compatible
// value, which the classifier does not attempt to verify.
type Classifier struct {
	Tol     float64
	Workers int // pairwise crossing scan fan-out; <= 1 runs sequentially
}

// minPad keeps index rectangles valid when the tolerance is zero; the
// tolerance predicates themselves still consume Tol unclamped.
const minPad = 1e-12

func (c *Classifier) pad() float64 {
	if c.Tol > minPad {
		return c.Tol
	}
	return minPad
}

// treeItem adapts a trace to the R-tree's Spatial interface.
type treeItem struct {
	trace  Trace
	bounds rtreego.Rect
}

func (it *treeItem) Bounds() rtreego.Rect {
	return it.bounds
}

func traceBounds(t Trace, pad float64) rtreego.Rect {
	minX := math.Min(t.A.X, t.B.X) - pad
	minY := math.Min(t.A.Y, t.B.Y) - pad
	maxX := math.Max(t.A.X, t.B.X) + pad
	maxY := math.Max(t.A.Y, t.B.Y) + pad
	r, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{maxX - minX, maxY - minY})
	if err != nil {
		// Spans are strictly positive: pad is clamped to minPad.
		panic(err)
	}
	return r
}

func pointBounds(x, y, pad float64) rtreego.Rect {
	r, err := rtreego.NewRect(rtreego.Point{x - pad, y - pad}, []float64{2 * pad, 2 * pad})
	if err != nil {
		panic(err)
	}
	return r
}

// Classify runs the one-shot topology pass: crossings first, then
// abutments for endpoints the crossing scan left unresolved, so a
// configuration that qualifies as both under the tolerance resolves as
// Crossing. Degenerate traces — zero length, or collinearly overlapping
// another trace — are reported per-trace and excluded; the rest of the
// batch still classifies.
//
// Trace IDs must equal their index in the traces slice.
func (c *Classifier) Classify(traces []Trace) (*Relations, []TraceError) {
	rels := &Relations{ends: make([][2]Relation, len(traces))}

	var errs []TraceError
	valid := make([]bool, len(traces))
	for i, t := range traces {
		if t.Length() < c.Tol {
			errs = append(errs, TraceError{ID: t.ID, Err: ErrDegenerateTrace})
			continue
		}
		valid[i] = true
	}

	errs = append(errs, c.dropCollinearOverlaps(traces, valid)...)

	index := rtreego.NewTree(2, 2, 8)
	for i, t := range traces {
		if valid[i] {
			index.Insert(&treeItem{trace: t, bounds: traceBounds(t, c.pad())})
		}
	}

	pairs := c.scanCrossings(traces, valid, index)
	rels.Crossings = pairs
	for _, p := range pairs {
		c.markCrossing(rels, traces[p.A], p)
		c.markCrossing(rels, traces[p.B], p)
	}

	c.scanAbutments(traces, valid, index, rels)
	return rels, errs
}

// dropCollinearOverlaps fails every trace sharing a collinear span of
// positive length with another. Left in, such a pair would read as a
// mutual abutment (each endpoint inside the other's interior), a
// relation cycle the extrusion cannot honor. Both members are dropped.
func (c *Classifier) dropCollinearOverlaps(traces []Trace, valid []bool) []TraceError {
	index := rtreego.NewTree(2, 2, 8)
	for i, t := range traces {
		if valid[i] {
			index.Insert(&treeItem{trace: t, bounds: traceBounds(t, c.pad())})
		}
	}

	overlapping := make(map[ID]bool)
	for i, t := range traces {
		if !valid[i] {
			continue
		}
		for _, hit := range index.SearchIntersect(traceBounds(t, c.pad())) {
			o := hit.(*treeItem).trace
			if o.ID <= t.ID {
				continue
			}
			if geom.CollinearOverlap(t.A, t.B, o.A, o.B, c.Tol) {
				overlapping[t.ID] = true
				overlapping[o.ID] = true
			}
		}
	}

	ids := make([]ID, 0, len(overlapping))
	for id := range overlapping {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	errs := make([]TraceError, 0, len(ids))
	for _, id := range ids {
		valid[id] = false
		errs = append(errs, TraceError{ID: id, Err: ErrCollinearOverlap})
	}
	return errs
}

// scanCrossings tests every candidate trace pair for a transversal
// crossing. The scan is read-only over the trace set, so it fans out
// across workers with per-worker pair lists merged and sorted for a
// deterministic result.
func (c *Classifier) scanCrossings(traces []Trace, valid []bool, index *rtreego.Rtree) []CrossingPair {
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}

	scan := func(lo, hi int) []CrossingPair {
		var found []CrossingPair
		for i := lo; i < hi; i++ {
			if !valid[i] {
				continue
			}
			t := traces[i]
			for _, hit := range index.SearchIntersect(traceBounds(t, c.pad())) {
				o := hit.(*treeItem).trace
				if o.ID <= t.ID {
					continue // each unordered pair tested once
				}
				if at, ok := geom.SegmentIntersection(t.A, t.B, o.A, o.B, c.Tol); ok {
					found = append(found, CrossingPair{A: t.ID, B: o.ID, At: at})
				}
			}
		}
		return found
	}

	var pairs []CrossingPair
	if workers == 1 {
		pairs = scan(0, len(traces))
	} else {
		chunks := make([][]CrossingPair, workers)
		var wg sync.WaitGroup
		step := (len(traces) + workers - 1) / workers
		for w := 0; w < workers; w++ {
			lo := w * step
			hi := lo + step
			if hi > len(traces) {
				hi = len(traces)
			}
			wg.Add(1)
			go func(w, lo, hi int) {
				defer wg.Done()
				chunks[w] = scan(lo, hi)
			}(w, lo, hi)
		}
		wg.Wait()
		for _, ch := range chunks {
			pairs = append(pairs, ch...)
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// markCrossing records the crossing on any endpoint of t the crossing
// point falls on within tolerance. A crossing in the interior of both
// traces lives only in the pair list; endpoints it is nowhere near stay
// available for the abutment scan. An endpoint that barely pokes through
// the other trace is claimed here, which is what gives Crossing
// precedence over Abutting in the boundary case.
func (c *Classifier) markCrossing(rels *Relations, t Trace, p CrossingPair) {
	other := p.A
	if other == t.ID {
		other = p.B
	}
	for end := 0; end < 2; end++ {
		if geom.Distance(t.End(end), p.At) >= c.Tol {
			continue
		}
		if rels.ends[t.ID][end].Kind == Free {
			rels.ends[t.ID][end] = Relation{Kind: Crossing, Other: other, At: p.At}
		}
	}
}

// scanAbutments resolves the endpoints the crossing scan left free. An
// endpoint lying on another trace strictly inside its span terminates
// there; of several hosts within tolerance the nearest wins.
func (c *Classifier) scanAbutments(traces []Trace, valid []bool, index *rtreego.Rtree, rels *Relations) {
	for i, t := range traces {
		if !valid[i] {
			continue
		}
		for end := 0; end < 2; end++ {
			if rels.ends[t.ID][end].Kind != Free {
				continue
			}
			p := t.End(end)

			best := ID(-1)
			bestDist := math.Inf(1)
			for _, hit := range index.SearchIntersect(pointBounds(p.X, p.Y, c.pad())) {
				o := hit.(*treeItem).trace
				if o.ID == t.ID {
					continue
				}
				if !geom.PointOnSegmentInterior(p, o.A, o.B, c.Tol) {
					continue
				}
				d := geom.PerpDistance(p, o.A, o.B)
				if d < bestDist || (d == bestDist && o.ID < best) {
					best = o.ID
					bestDist = d
				}
			}
			if best >= 0 {
				o := traces[best]
				at := geom.Lerp(o.A, o.B, geom.ProjectParam(p, o.A, o.B))
				rels.ends[t.ID][end] = Relation{Kind: Abutting, Other: best, At: at}
			}
		}
	}
}
