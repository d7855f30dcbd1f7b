package fracture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kvernberg/fracnet/pkg/trace"
)

// ErrDegenerateDip marks a trace whose sampled dip angle cannot be
// extruded: outside (0, pi), or exactly pi/2 when point contacts are
// not tolerated.
var ErrDegenerateDip = errors.New("degenerate dip angle")

// ParameterError is an invalid-configuration fault: out-of-range dip
// angle, negative tolerance, malformed family mapping, bad edge index.
// It is raised before any computation starts and aborts the whole run.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// Warning is an advisory condition attached to the result. Warnings
// never abort the run; a best-effort network is more useful than none.
type Warning struct {
	Code    string
	Message string
	Traces  []trace.ID
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// Warning codes.
const (
	WarnNonConvergence = "reconciliation-non-convergence"
	WarnPointContact   = "point-contact"
)

func nonConvergenceWarning(chain []trace.ID, passes int) Warning {
	ids := make([]string, len(chain))
	for i, id := range chain {
		ids[i] = strconv.Itoa(int(id))
	}
	return Warning{
		Code: WarnNonConvergence,
		Message: fmt.Sprintf("abutment chain [%s] did not stabilize after %d passes; last computed geometry kept",
			strings.Join(ids, " "), passes),
		Traces: chain,
	}
}

// PointContactWarning flags a tolerated dip of pi/2 on one trace.
func PointContactWarning(id trace.ID) Warning {
	return Warning{
		Code:    WarnPointContact,
		Message: fmt.Sprintf("trace %d: dip of pi/2 degenerates to a point contact in the outcrop plane", id),
		Traces:  []trace.ID{id},
	}
}
