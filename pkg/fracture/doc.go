// Package fracture lifts classified 2D traces into a 3D disc network.
// Each trace becomes a circular disc in the vertical plane through its
// chord, sized so that slicing the disc at the outcrop plane reproduces
// the chord exactly. The reconciler then enlarges constraining discs so
// that every abutment observed in 2D stays geometrically valid in 3D.
package fracture
