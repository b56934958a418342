package kmc

import "github.com/katalvlaran/vkmc/lattice"

// AtomTracker maintains a stable identity per atom across vacancy hops, so
// a trajectory can report per-atom displacement (and its squared norm) for
// the tracer correlation factor test (spec.md §4.7 "Per-atom displacement
// bookkeeping", §6 "per-atom final displacements and their squared norms").
type AtomTracker struct {
	AtomID []int         // AtomID[site] = stable id of the atom currently at site
	Disp   [][3]float64  // Disp[atomID] = cumulative displacement
	nextID int
}

// NewAtomTracker assigns every initial site a fresh atom id, including the
// vacancy's own site (a vacancy is tracked like any other occupant so the
// bookkeeping below never special-cases it).
func NewAtomTracker(nsites int) *AtomTracker {
	t := &AtomTracker{AtomID: make([]int, nsites), Disp: make([][3]float64, nsites)}
	for i := range t.AtomID {
		t.AtomID[i] = i
	}
	t.nextID = nsites
	return t
}

// Swap records a vacancy hop from siteFrom to siteTo by lattice
// displacement dx: the vacancy's id moves to siteTo (the atom's former
// site), the atom's id moves to siteFrom (the vacancy's old site), and the
// atom is credited with -dx (spec.md §4.7: "the swap transfers the
// vacancy's id to the atom's former site and records -dx on the atom").
func (t *AtomTracker) Swap(siteFrom, siteTo int, dx lattice.Cell) {
	hoppedAtomID := t.AtomID[siteTo]
	t.AtomID[siteTo] = t.AtomID[siteFrom]
	t.AtomID[siteFrom] = hoppedAtomID

	d := t.Disp[hoppedAtomID]
	d[0] -= float64(dx[0])
	d[1] -= float64(dx[1])
	d[2] -= float64(dx[2])
	t.Disp[hoppedAtomID] = d
}

// SquaredNorm returns |Disp[atomID]|^2, the quantity the tracer
// correlation factor averages over (spec.md S3).
func (t *AtomTracker) SquaredNorm(atomID int) float64 {
	d := t.Disp[atomID]
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}
