// Package geom provides tolerance-aware 2D geometric predicates for
// classifying fracture trace intersections. All predicates are total
// functions: ambiguous configurations resolve through the supplied
// tolerance, never through errors or panics.
package geom
