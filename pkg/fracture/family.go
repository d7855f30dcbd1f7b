package fracture

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/kvernberg/fracnet/pkg/trace"
)

// ReconcilePolicy controls how the reconciler treats a family's
// fractures when they constrain an abutment.
type ReconcilePolicy int

const (
	// PolicyEnlarge lets the reconciler grow the constraining disc
	// until the abutment is contained. The default.
	PolicyEnlarge ReconcilePolicy = iota
	// PolicyFrozen keeps the disc exactly as constructed.
	PolicyFrozen
)

func (p ReconcilePolicy) String() string {
	switch p {
	case PolicyEnlarge:
		return "enlarge"
	case PolicyFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Family groups traces that share a dip-angle distribution and a
// reconciliation policy.
type Family struct {
	Name   string
	Dist   Distribution
	Policy ReconcilePolicy
}

// Assigner maps traces to families. A trace belongs to at most one
// family; unassigned traces fall back to the default family. Pure
// lookup, no geometric computation.
type Assigner struct {
	def      Family
	families map[string]Family
	byTrace  map[trace.ID]string
}

// NewAssigner builds an assigner from a default family, the family
// definitions, and the trace-to-family mapping. A mapping that names an
// undefined family, or two families sharing a name, is a ParameterError.
func NewAssigner(def Family, defs []Family, mapping map[trace.ID]string) (*Assigner, error) {
	families := make(map[string]Family, len(defs))
	for _, f := range defs {
		if _, dup := families[f.Name]; dup {
			return nil, &ParameterError{
				Field:  "families",
				Reason: fmt.Sprintf("family %q defined twice", f.Name),
			}
		}
		families[f.Name] = f
	}
	for id, name := range mapping {
		if _, ok := families[name]; !ok {
			return nil, &ParameterError{
				Field:  "families",
				Reason: fmt.Sprintf("trace %d mapped to undefined family %q", id, name),
			}
		}
	}
	return &Assigner{def: def, families: families, byTrace: mapping}, nil
}

// FamilyFor returns the family a trace belongs to, or the default.
func (a *Assigner) FamilyFor(id trace.ID) Family {
	if name, ok := a.byTrace[id]; ok {
		return a.families[name]
	}
	return a.def
}

// Members returns the assigned traces grouped by family name, each
// group sorted by trace id.
func (a *Assigner) Members() map[string][]trace.ID {
	groups := lo.GroupBy(lo.Keys(a.byTrace), func(id trace.ID) string {
		return a.byTrace[id]
	})
	for _, ids := range groups {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return groups
}
