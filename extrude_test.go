package fracnet

import (
	"errors"
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/kvernberg/fracnet/pkg/fracture"
	"github.com/kvernberg/fracnet/pkg/trace"
)

// The reference outcrop map from the survey notebook: A and B meet in a
// T at (1,0), B and C cross near (1,1), D stands alone at x=3.
func scenarioInput() ([]v2.Vec, [][2]int) {
	points := []v2.Vec{
		{X: 0, Y: 0}, {X: 2, Y: 0},
		{X: 1, Y: 0}, {X: 1, Y: 3},
		{X: 0, Y: 1}, {X: 2, Y: 1},
		{X: 3, Y: 0}, {X: 3, Y: 1},
	}
	edges := [][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}}
	return points, edges
}

func seededConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Seed = &seed
	return cfg
}

func TestExtrudeScenario(t *testing.T) {
	points, edges := scenarioInput()
	res, err := Extrude(points, edges, seededConfig(42))
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	net := res.Network

	if len(net.Discs) != 4 {
		t.Fatalf("discs = %d, want 4", len(net.Discs))
	}
	if len(net.Failures) != 0 {
		t.Fatalf("failures = %v, want none", net.Failures)
	}

	// B terminates into A at (1,0).
	rel := net.Relations.End(1, 0)
	if rel.Kind != trace.Abutting || rel.Other != 0 {
		t.Errorf("B end 0 = %+v, want abutting into A", rel)
	}

	// B and C cross near (1,1).
	if len(net.Relations.Crossings) != 1 {
		t.Fatalf("crossings = %d, want 1", len(net.Relations.Crossings))
	}
	cp := net.Relations.Crossings[0]
	if cp.A != 1 || cp.B != 2 {
		t.Errorf("crossing pair = (%d,%d), want (1,2)", cp.A, cp.B)
	}

	// D is free on both endpoints.
	if net.Relations.End(3, 0).Kind != trace.Free || net.Relations.End(3, 1).Kind != trace.Free {
		t.Error("D should be free on both endpoints")
	}
}

// Slicing every disc at the outcrop plane must reproduce its trace.
func TestExtrudeRoundTrip(t *testing.T) {
	points, edges := scenarioInput()
	res, err := Extrude(points, edges, seededConfig(7))
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	for _, d := range res.Network.Discs {
		wantA := points[edges[d.Trace][0]]
		wantB := points[edges[d.Trace][1]]
		p, q := d.SliceOutcrop()
		if math.Abs(p.X-wantA.X) > 1e-9 || math.Abs(p.Y-wantA.Y) > 1e-9 ||
			math.Abs(q.X-wantB.X) > 1e-9 || math.Abs(q.Y-wantB.Y) > 1e-9 {
			t.Errorf("trace %d: slice (%+v, %+v), want (%+v, %+v)", d.Trace, p, q, wantA, wantB)
		}
	}
}

// Crossing traces yield discs that intersect in 3D: the 2D crossing
// point, lifted to the outcrop plane, lies on both.
func TestExtrudeCrossingDiscsIntersect(t *testing.T) {
	points, edges := scenarioInput()
	res, err := Extrude(points, edges, seededConfig(11))
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	for _, cp := range res.Network.Relations.Crossings {
		at := v3.Vec{X: cp.At.X, Y: cp.At.Y, Z: 0}
		da, _ := res.Network.Disc(cp.A)
		db, _ := res.Network.Disc(cp.B)
		if !da.ContainsPoint(at, 1e-9) || !db.ContainsPoint(at, 1e-9) {
			t.Errorf("crossing %d/%d: lifted point not on both discs", cp.A, cp.B)
		}
	}
}

// With realistic cuts on, the terminated disc's far point lies within
// the constraining disc; switching them off can leave it protruding.
func TestExtrudeRealisticCuts(t *testing.T) {
	points, edges := scenarioInput()

	// dip pi/4: every disc's depth equals half its chord length, which
	// makes B (length 3) protrude past A (length 2) at the abutment.
	dip := math.Pi / 4

	check := func(ensure bool) bool {
		cfg := seededConfig(1)
		cfg.DipAngle = &dip
		cfg.EnsureRealisticCuts = ensure
		res, err := Extrude(points, edges, cfg)
		if err != nil {
			t.Fatalf("Extrude: %v", err)
		}
		ab := res.Network.Relations.Abutments()
		if len(ab) != 1 {
			t.Fatalf("abutments = %d, want 1", len(ab))
		}
		term, _ := res.Network.Disc(ab[0].Terminated)
		cons, _ := res.Network.Disc(ab[0].Constraining)
		return cons.ContainsPoint(term.FarPoint(ab[0].At), 1e-9)
	}

	if check(false) {
		t.Error("with cuts disabled the abutment should protrude at dip pi/4")
	}
	if !check(true) {
		t.Error("with cuts enabled the abutment must be contained")
	}
}

func TestExtrudeSeededDeterminism(t *testing.T) {
	points, edges := scenarioInput()

	r1, err := Extrude(points, edges, seededConfig(99))
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	r2, err := Extrude(points, edges, seededConfig(99))
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}

	for i := range r1.Network.Discs {
		a := r1.Network.Discs[i]
		b := r2.Network.Discs[i]
		if a != b {
			t.Errorf("disc %d differs between seeded runs:\n%+v\n%+v", i, a, b)
		}
	}

	// Worker count must not perturb seeded geometry.
	cfg := seededConfig(99)
	cfg.Workers = 4
	r3, err := Extrude(points, edges, cfg)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	for i := range r1.Network.Discs {
		if r1.Network.Discs[i] != r3.Network.Discs[i] {
			t.Errorf("disc %d differs under parallel construction", i)
		}
	}
}

func TestExtrudeUnseededVaries(t *testing.T) {
	points, edges := scenarioInput()
	cfg := DefaultConfig()

	r1, err := Extrude(points, edges, cfg)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	r2, err := Extrude(points, edges, cfg)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}

	same := true
	for i := range r1.Network.Discs {
		if r1.Network.Discs[i] != r2.Network.Discs[i] {
			same = false
		}
	}
	if same {
		t.Error("unseeded runs should produce different geometry")
	}
}

func TestExtrudeConfigValidation(t *testing.T) {
	points, edges := scenarioInput()

	assertParam := func(cfg Config) {
		t.Helper()
		_, err := Extrude(points, edges, cfg)
		if err == nil {
			t.Fatal("expected a parameter error")
		}
		var perr *fracture.ParameterError
		if !errors.As(err, &perr) {
			t.Fatalf("error = %v, want ParameterError", err)
		}
	}

	cfg := DefaultConfig()
	cfg.Tolerance = -1
	assertParam(cfg)

	for _, dip := range []float64{0, math.Pi / 2, math.Pi, -0.3, 7} {
		cfg = DefaultConfig()
		d := dip
		cfg.DipAngle = &d
		assertParam(cfg)
	}

	cfg = DefaultConfig()
	cfg.Families = map[trace.ID]string{0: "ghost"}
	assertParam(cfg)
}

func TestExtrudeBadEdges(t *testing.T) {
	points := []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}

	if _, err := Extrude(points, [][2]int{{0, 5}}, seededConfig(1)); err == nil {
		t.Error("out-of-range point index must be rejected")
	}
	if _, err := Extrude(points, [][2]int{{1, 1}}, seededConfig(1)); err == nil {
		t.Error("self-loop edge must be rejected")
	}
}

func TestExtrudePointContactWarning(t *testing.T) {
	points, edges := scenarioInput()
	cfg := seededConfig(1)
	dip := math.Pi / 2
	cfg.DipAngle = &dip
	cfg.AllowPointContact = true

	res, err := Extrude(points, edges, cfg)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected point-contact warnings")
	}
	if res.Warnings[0].Code != fracture.WarnPointContact {
		t.Errorf("warning code = %q, want %q", res.Warnings[0].Code, fracture.WarnPointContact)
	}
}

// A distribution that yields a non-extrudable dip fails only the traces
// it sampled for, mirroring degenerate-trace isolation.
func TestExtrudeDegenerateSampledDip(t *testing.T) {
	points, edges := scenarioInput()
	cfg := seededConfig(3)
	cfg.Distribution = fracture.FixedDip{Angle: math.Pi / 2}

	res, err := Extrude(points, edges, cfg)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	if len(res.Network.Discs) != 0 {
		t.Errorf("discs = %d, want 0", len(res.Network.Discs))
	}
	if len(res.Network.Failures) != len(edges) {
		t.Fatalf("failures = %d, want %d", len(res.Network.Failures), len(edges))
	}
	for _, f := range res.Network.Failures {
		if !errors.Is(f, fracture.ErrDegenerateDip) {
			t.Errorf("failure = %v, want ErrDegenerateDip", f)
		}
	}
}

func TestExtrudeIsolatesDegenerateTrace(t *testing.T) {
	points := []v2.Vec{
		{X: 0, Y: 0}, {X: 2, Y: 0},
		{X: 1, Y: 1}, {X: 1, Y: 1}, // coincident pair: a zero-length trace
		{X: 0, Y: 2}, {X: 2, Y: 2},
	}
	edges := [][2]int{{0, 1}, {2, 3}, {4, 5}}

	res, err := Extrude(points, edges, seededConfig(5))
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	if len(res.Network.Failures) != 1 || res.Network.Failures[0].ID != 1 {
		t.Fatalf("failures = %v, want trace 1", res.Network.Failures)
	}
	if !errors.Is(res.Network.Failures[0], trace.ErrDegenerateTrace) {
		t.Errorf("failure = %v, want ErrDegenerateTrace", res.Network.Failures[0])
	}
	if len(res.Network.Discs) != 2 {
		t.Errorf("discs = %d, want 2 (degenerate trace dropped)", len(res.Network.Discs))
	}
}

// Collinear-overlapping traces fail per-trace; without that, the pair
// would read as a mutual abutment and feed the reconciler a spurious
// cycle with its non-convergence warning.
func TestExtrudeIsolatesCollinearOverlap(t *testing.T) {
	points := []v2.Vec{
		{X: 0, Y: 0}, {X: 2, Y: 0},
		{X: 1, Y: 0}, {X: 3, Y: 0}, // shares (1,0)-(2,0) with trace 0
		{X: 0, Y: 2}, {X: 2, Y: 2},
	}
	edges := [][2]int{{0, 1}, {2, 3}, {4, 5}}

	res, err := Extrude(points, edges, seededConfig(5))
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	if len(res.Network.Failures) != 2 {
		t.Fatalf("failures = %v, want traces 0 and 1", res.Network.Failures)
	}
	for i, want := range []trace.ID{0, 1} {
		f := res.Network.Failures[i]
		if f.ID != want || !errors.Is(f, trace.ErrCollinearOverlap) {
			t.Errorf("failure %d = %v, want trace %d with ErrCollinearOverlap", i, f, want)
		}
	}
	if len(res.Network.Discs) != 1 {
		t.Errorf("discs = %d, want 1", len(res.Network.Discs))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", res.Warnings)
	}
}

// A trace free in 2D can still cross another disc in 3D once both are
// extruded deep enough. This is expected behavior, not a defect.
func TestExtrudeFreeTraceCrossesInThreeD(t *testing.T) {
	points, edges := scenarioInput()
	cfg := seededConfig(1)
	dip := 0.05 // nearly bedding-parallel: very deep discs
	cfg.DipAngle = &dip

	res, err := Extrude(points, edges, cfg)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	da, _ := res.Network.Disc(0) // A, plane y=0
	dd, _ := res.Network.Disc(3) // D, plane x=3, free in 2D

	// The planes meet along the vertical line x=3, y=0; at D's center
	// depth that line pierces both discs.
	p := v3.Vec{X: 3, Y: 0, Z: dd.Center.Z}
	if !da.ContainsPoint(p, 1e-9) || !dd.ContainsPoint(p, 1e-9) {
		t.Error("deep discs of A and D should overlap in 3D despite D being free in 2D")
	}
}
