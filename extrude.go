// Package fracnet converts a planar map of fracture traces observed on
// a 2D outcrop into a consistent 3D fracture network. Every trace
// becomes a bounded circular disc whose intersection with the outcrop
// plane reproduces the original trace, and abutment relations observed
// in 2D are kept geometrically valid in 3D by enlarging the
// constraining discs.
//
// The pipeline is a batch computation over a static input set:
// classification, disc construction, reconciliation, assembly. Ingestion
// of survey data, point snapping, visualization and mesh export are
// external collaborators; the sole artifact of this module is the
// fracture.Network value.
package fracnet

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/kvernberg/fracnet/pkg/fracture"
	"github.com/kvernberg/fracnet/pkg/trace"
)

// DefaultTolerance is the classification tolerance used when the caller
// does not supply one.
const DefaultTolerance = 1e-6

// Config controls one extrusion run. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Tolerance drives every classification predicate. It must match
	// whatever snapping tolerance was applied upstream; a mismatch is
	// not detected here, only documented.
	Tolerance float64

	// DipAngle, when set, extrudes every trace at this fixed dip.
	// When nil, dips are drawn from Distribution.
	DipAngle *float64

	// Distribution samples dip angles for traces without an explicit
	// DipAngle. Nil means uniform over (0, pi) excluding the
	// degenerate values.
	Distribution fracture.Distribution

	// EnsureRealisticCuts runs the reconciler so that terminated
	// fractures never extend beyond their constraining disc in 3D.
	// Disabling it keeps discs exactly as constructed.
	EnsureRealisticCuts bool

	// Families maps traces to named families; FamilyDefs defines them.
	// Unmapped traces use the default distribution.
	Families   map[trace.ID]string
	FamilyDefs []fracture.Family

	// Seed makes sampling reproducible. Nil seeds from the clock, so
	// unseeded runs intentionally differ from run to run.
	Seed *int64

	// Workers bounds the fan-out of the pairwise classification scan
	// and of disc construction. Zero or one runs sequentially.
	Workers int

	// MaxReconcilePasses bounds the reconciliation fixed point on
	// cyclic abutment chains. Zero means the package default.
	MaxReconcilePasses int

	// AllowPointContact tolerates a dip of exactly pi/2 (a point
	// contact in the outcrop plane) as a warning instead of an error.
	AllowPointContact bool
}

// DefaultConfig returns the documented defaults: small positive
// tolerance, sampled dips, realistic cuts on.
func DefaultConfig() Config {
	return Config{
		Tolerance:           DefaultTolerance,
		EnsureRealisticCuts: true,
	}
}

// Validate rejects a malformed configuration before any computation.
func (c Config) Validate() error {
	if c.Tolerance <= 0 {
		return &fracture.ParameterError{Field: "tolerance", Reason: "must be positive"}
	}
	if c.DipAngle != nil {
		a := *c.DipAngle
		if !(a > 0 && a < math.Pi) {
			return &fracture.ParameterError{Field: "dipAngle", Reason: "must lie in (0, pi)"}
		}
		if a == math.Pi/2 && !c.AllowPointContact {
			return &fracture.ParameterError{Field: "dipAngle", Reason: "pi/2 degenerates to a point contact in the outcrop plane"}
		}
	}
	if c.Workers < 0 {
		return &fracture.ParameterError{Field: "workers", Reason: "must not be negative"}
	}
	if c.MaxReconcilePasses < 0 {
		return &fracture.ParameterError{Field: "maxReconcilePasses", Reason: "must not be negative"}
	}
	return nil
}

// Result is the outcome of one extrusion run: the assembled network
// plus any advisory warnings raised along the way.
type Result struct {
	Network  *fracture.Network
	Warnings []fracture.Warning
}

// Extrude runs the full pipeline over a point set and edge list. Edges
// index into points; each edge is one trace. Configuration faults abort
// before computation; per-trace geometric failures are isolated and
// reported in the network, with the rest of the batch still processed.
func Extrude(points []v2.Vec, edges [][2]int, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	traces, err := tracesFromEdges(points, edges, cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	defDist := cfg.Distribution
	if defDist == nil {
		defDist = fracture.UniformDip{}
	}
	assigner, err := fracture.NewAssigner(
		fracture.Family{Name: "default", Dist: defDist},
		cfg.FamilyDefs, cfg.Families)
	if err != nil {
		return nil, err
	}

	classifier := &trace.Classifier{Tol: cfg.Tolerance, Workers: cfg.Workers}
	rels, failures := classifier.Classify(traces)
	failed := make(map[trace.ID]bool, len(failures))
	for _, f := range failures {
		failed[f.ID] = true
	}

	// Dips are drawn sequentially in trace order: with a fixed seed the
	// stream, and with it the whole geometry, is bit-identical between
	// runs regardless of worker count.
	rng := rand.New(rand.NewSource(seedFor(cfg)))
	dips := make([]float64, len(traces))
	var warnings []fracture.Warning
	for i := range traces {
		if failed[trace.ID(i)] {
			continue
		}
		if cfg.DipAngle != nil {
			dips[i] = *cfg.DipAngle
		} else {
			dips[i] = assigner.FamilyFor(trace.ID(i)).Dist.SampleDip(rng)
		}
		switch a := dips[i]; {
		case a == math.Pi/2 && cfg.AllowPointContact:
			warnings = append(warnings, fracture.PointContactWarning(trace.ID(i)))
		case !(a > 0 && a < math.Pi) || a == math.Pi/2:
			// A distribution violating its contract fails only the traces
			// it sampled for, the same way a degenerate trace would.
			failed[trace.ID(i)] = true
			failures = append(failures, trace.TraceError{ID: trace.ID(i), Err: fracture.ErrDegenerateDip})
		}
	}

	discs := buildDiscs(traces, dips, failed, cfg)

	if cfg.EnsureRealisticCuts {
		rec := &fracture.Reconciler{
			MaxPasses: cfg.MaxReconcilePasses,
			PolicyFor: func(id trace.ID) fracture.ReconcilePolicy {
				return assigner.FamilyFor(id).Policy
			},
		}
		warnings = append(warnings, rec.Reconcile(discs, rels.Abutments())...)
	}

	net, err := fracture.Assemble(discs, rels, failures)
	if err != nil {
		return nil, err
	}
	return &Result{Network: net, Warnings: warnings}, nil
}

func tracesFromEdges(points []v2.Vec, edges [][2]int, tol float64) ([]trace.Trace, error) {
	traces := make([]trace.Trace, len(edges))
	for i, e := range edges {
		for _, idx := range e {
			if idx < 0 || idx >= len(points) {
				return nil, &fracture.ParameterError{
					Field:  "edges",
					Reason: fmt.Sprintf("edge %d references point %d of %d", i, idx, len(points)),
				}
			}
		}
		if e[0] == e[1] {
			return nil, &fracture.ParameterError{
				Field:  "edges",
				Reason: fmt.Sprintf("edge %d joins point %d to itself", i, e[0]),
			}
		}
		traces[i] = trace.Trace{ID: trace.ID(i), A: points[e[0]], B: points[e[1]]}
	}
	return traces, nil
}

func seedFor(cfg Config) int64 {
	if cfg.Seed != nil {
		return *cfg.Seed
	}
	return time.Now().UnixNano()
}

// buildDiscs constructs one disc per surviving trace. Construction is
// independent per trace; the dips were drawn beforehand, so fanning out
// does not perturb determinism.
func buildDiscs(traces []trace.Trace, dips []float64, failed map[trace.ID]bool, cfg Config) []*fracture.Disc {
	discs := make([]*fracture.Disc, len(traces))
	build := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if failed[trace.ID(i)] {
				continue
			}
			d, err := fracture.DiscFromDip(traces[i], dips[i], cfg.AllowPointContact)
			if err != nil {
				// Every surviving dip was vetted in the sampling loop.
				panic(err)
			}
			discs[i] = &d
		}
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || len(traces) < 2 {
		build(0, len(traces))
		return discs
	}

	var wg sync.WaitGroup
	step := (len(traces) + workers - 1) / workers
	for lo := 0; lo < len(traces); lo += step {
		hi := lo + step
		if hi > len(traces) {
			hi = len(traces)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			build(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return discs
}
