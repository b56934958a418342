// Package expansion implements the vector expansion (C4): for a probed
// exit set of candidate jumps it accumulates the symmetric transport
// matrix W̄ and the response vector b̄ from the same off-site walk C1 uses
// for ΔE, but fed through the vector half of every interaction
// (spec.md §4.8).
package expansion

import (
	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/matrix"
	"github.com/katalvlaran/vkmc/state"
)

// Exit is one candidate jump in the exit set being expanded: a probed
// swap of (SiteA, SiteB) from species (A, B) with its already-computed
// KMC rate and lattice displacement.
type Exit struct {
	SiteA, SiteB int
	A, B         int
	Rate         float64
	Dx           [3]float64
	// VacancyObserved is true when the displacement b̄ tracks is the
	// vacancy's (Δx = +Dx); when false the hopping atom is tracked and
	// Δx = -Dx (spec.md §4.8: "+dx if observed species is the vacancy,
	// else -dx").
	VacancyObserved bool
}

// Result holds the two matrices the expansion produces.
type Result struct {
	Wbar *matrix.Dense // NVclus x NVclus, symmetric (spec.md §8 property 5)
	Bbar []float64     // NVclus
}

// Compute builds W̄ and b̄ over the given exit set, leaving st and off
// unchanged on return (every probe is reverted, spec.md §4.8 "Revert off
// after each probe jump").
func Compute(tbl *interaction.Tables, st *state.State, off *state.OffSite, nvclus int, exits []Exit) (*Result, error) {
	w, err := matrix.NewDense(nvclus, nvclus)
	if err != nil {
		return nil, err
	}
	b := make([]float64, nvclus)

	for _, ex := range exits {
		deltaLambda := probeDeltaLambda(tbl, off, ex.SiteA, ex.SiteB, ex.A, ex.B, nvclus)

		deltaX := ex.Dx
		if !ex.VacancyObserved {
			deltaX = [3]float64{-ex.Dx[0], -ex.Dx[1], -ex.Dx[2]}
		}

		for i := 0; i < nvclus; i++ {
			for j := 0; j < nvclus; j++ {
				dot := deltaLambda[i][0]*deltaLambda[j][0] + deltaLambda[i][1]*deltaLambda[j][1] + deltaLambda[i][2]*deltaLambda[j][2]
				if err := w.Add(i, j, ex.Rate*dot); err != nil {
					return nil, err
				}
			}
			b[i] += ex.Rate * (deltaLambda[i][0]*deltaX[0] + deltaLambda[i][1]*deltaX[1] + deltaLambda[i][2]*deltaX[2])
		}
	}

	return &Result{Wbar: w, Bbar: b}, nil
}

// probeDeltaLambda walks the same four interaction lists C1 uses for ΔE
// (spec.md §4.5), but accumulates each flipped interaction's vector
// entries into Δλ[vectorGroup] instead of energy, and reverts off to its
// original values before returning.
func probeDeltaLambda(tbl *interaction.Tables, off *state.OffSite, siteA, siteB, a, b, nvclus int) [][3]float64 {
	delta := make([][3]float64, nvclus)
	dense := tbl.AtSiteSpec

	turnOff := func(k int) {
		if off.Off[k] == 0 {
			for v := 0; v < tbl.NumVecs[k]; v++ {
				g := tbl.VecGroups[k][v]
				delta[g][0] -= tbl.Vecs[k][v][0]
				delta[g][1] -= tbl.Vecs[k][v][1]
				delta[g][2] -= tbl.Vecs[k][v][2]
			}
		}
		off.Off[k]++
	}
	turnOn := func(k int) {
		off.Off[k]--
		if off.Off[k] == 0 {
			for v := 0; v < tbl.NumVecs[k]; v++ {
				g := tbl.VecGroups[k][v]
				delta[g][0] += tbl.Vecs[k][v][0]
				delta[g][1] += tbl.Vecs[k][v][1]
				delta[g][2] += tbl.Vecs[k][v][2]
			}
		}
	}

	for _, k := range dense[siteA][a] {
		turnOff(k)
	}
	for _, k := range dense[siteB][b] {
		turnOff(k)
	}
	for _, k := range dense[siteA][b] {
		turnOn(k)
	}
	for _, k := range dense[siteB][a] {
		turnOn(k)
	}

	// Revert: undo every step of the forward walk above (decrement what it
	// incremented and increment what it decremented), so the shared off
	// vector ends as it began (spec.md §9 "Revert pattern instead of
	// copies").
	for _, k := range dense[siteA][a] {
		off.Off[k]--
	}
	for _, k := range dense[siteB][b] {
		off.Off[k]--
	}
	for _, k := range dense[siteA][b] {
		off.Off[k]++
	}
	for _, k := range dense[siteB][a] {
		off.Off[k]++
	}

	return delta
}
