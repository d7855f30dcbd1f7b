package fracture

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/kvernberg/fracnet/pkg/trace"
)

// Network is the final 3D fracture network: one disc per surviving
// trace plus the intersection relations recorded at classification.
// Assembled once and immutable for downstream consumers.
type Network struct {
	ID        uuid.UUID
	Discs     []Disc
	Relations *trace.Relations
	Failures  []trace.TraceError
}

// Assemble validates that every trace maps to exactly one disc (failed
// traces excepted) and freezes the result. The discs slice is indexed by
// trace id; failed traces hold nil.
func Assemble(discs []*Disc, rels *trace.Relations, failures []trace.TraceError) (*Network, error) {
	failed := lo.SliceToMap(failures, func(e trace.TraceError) (trace.ID, bool) {
		return e.ID, true
	})

	out := make([]Disc, 0, len(discs))
	for i, d := range discs {
		id := trace.ID(i)
		if d == nil {
			if !failed[id] {
				return nil, fmt.Errorf("assemble: trace %d has no fracture and no recorded failure", id)
			}
			continue
		}
		if failed[id] {
			return nil, fmt.Errorf("assemble: trace %d has both a fracture and a recorded failure", id)
		}
		if d.Trace != id {
			return nil, fmt.Errorf("assemble: disc at index %d claims trace %d", i, d.Trace)
		}
		out = append(out, *d)
	}

	return &Network{
		ID:        uuid.New(),
		Discs:     out,
		Relations: rels,
		Failures:  failures,
	}, nil
}

// Disc returns the fracture extruded from the given trace.
func (n *Network) Disc(id trace.ID) (Disc, bool) {
	for _, d := range n.Discs {
		if d.Trace == id {
			return d, true
		}
	}
	return Disc{}, false
}
