// Package trace defines 2D fracture traces and classifies their endpoint
// topology. Each trace endpoint is either free, part of an X-crossing with
// another trace, or a Y/T-abutment terminating into the interior of
// another trace. Classification is a one-shot pass over a static trace
// set; the resulting relations are read-only afterwards.
package trace
