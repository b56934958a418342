// Package state holds the mutable per-trajectory State (an assignment of a
// species to every site, with exactly one vacancy), the per-species location
// table that gives Metropolis swap selection O(1) candidate lookup, and the
// off-site counter (C1) that both the sweep engine (C2) and the KMC
// trajectory engine (C3) maintain incrementally.
package state

import (
	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

// State is the per-trajectory species assignment. Species[i] is the species
// label occupying site i; exactly one entry equals VacSpec (spec.md §3).
type State struct {
	Species []int
	VacSpec int
	VacSite int // cached location of the single vacancy
}

// New builds a State from an initial species assignment, validating the
// single-vacancy invariant.
func New(species []int, vacSpec int) (*State, error) {
	vacSite := -1
	for i, sp := range species {
		if sp == vacSpec {
			if vacSite != -1 {
				return nil, vkmcerr.NewInvariantViolation(vkmcerr.VacancyCountNotOne, "vacancy found at both site %d and %d", vacSite, i)
			}
			vacSite = i
		}
	}
	if vacSite == -1 {
		return nil, vkmcerr.NewInvariantViolation(vkmcerr.VacancyCountNotOne, "no vacancy found in initial state")
	}
	return &State{Species: append([]int(nil), species...), VacSpec: vacSpec, VacSite: vacSite}, nil
}

// Clone returns an independent deep copy of s.
func (s *State) Clone() *State {
	return &State{Species: append([]int(nil), s.Species...), VacSpec: s.VacSpec, VacSite: s.VacSite}
}

// CheckVacancyCount recomputes the vacancy count from scratch and returns an
// InvariantViolation unless it is exactly 1 (spec.md §8 property 1-adjacent
// guard). The sweep and KMC engines do not call it; it is available to
// callers and tests.
func (s *State) CheckVacancyCount() error {
	n := 0
	for _, sp := range s.Species {
		if sp == s.VacSpec {
			n++
		}
	}
	if n != 1 {
		return vkmcerr.NewInvariantViolation(vkmcerr.VacancyCountNotOne, "found %d vacancies, want 1", n)
	}
	return nil
}

// LocationTable is the O(1) per-species location arena (spec.md §9): for
// each species, the list of sites currently carrying it, plus the inverse
// index so a commit can remove a site from its old species' list in O(1).
type LocationTable struct {
	bySpecies    [][]int // bySpecies[species] = sites carrying it
	siteToLocIdx []int   // siteToLocIdx[site] = index of site within bySpecies[species(site)]
}

// BuildLocationTable constructs a LocationTable for the given state.
func BuildLocationTable(st *State, nspec int) *LocationTable {
	lt := &LocationTable{
		bySpecies:    make([][]int, nspec),
		siteToLocIdx: make([]int, len(st.Species)),
	}
	for site, sp := range st.Species {
		lt.siteToLocIdx[site] = len(lt.bySpecies[sp])
		lt.bySpecies[sp] = append(lt.bySpecies[sp], site)
	}
	return lt
}

// Sites returns the current sites carrying species sp.
func (lt *LocationTable) Sites(sp int) []int { return lt.bySpecies[sp] }

// Count returns how many sites currently carry species sp.
func (lt *LocationTable) Count(sp int) int { return len(lt.bySpecies[sp]) }

// Move relocates site from species "from" to species "to" (a swap commit),
// updating both the per-species list and the inverse index in O(1) via the
// classic swap-with-last-element removal pattern.
func (lt *LocationTable) Move(site, from, to int) {
	idx := lt.siteToLocIdx[site]
	list := lt.bySpecies[from]
	last := len(list) - 1
	list[idx] = list[last]
	lt.siteToLocIdx[list[idx]] = idx
	lt.bySpecies[from] = list[:last]

	lt.siteToLocIdx[site] = len(lt.bySpecies[to])
	lt.bySpecies[to] = append(lt.bySpecies[to], site)
}

// OffSite is the off-site counter (C1): off[k] is the number of (site,
// species) mismatches between the current state and interaction k. An
// interaction is "on" iff off[k] == 0.
type OffSite struct {
	Off    []int
	Energy float64
}

// Build computes the off-site vector from scratch in a single O(sum
// NumSites[k]) pass, and the running energy E = sum_k (off[k]==0)*Energy[k]
// (spec.md §4.5).
func Build(tbl *interaction.Tables, st *State) *OffSite {
	off := make([]int, len(tbl.NumSites))
	energy := 0.0
	for k := range tbl.NumSites {
		mismatch := 0
		for i, site := range tbl.SupSites[k] {
			if st.Species[site] != tbl.SpecOn[k][i] {
				mismatch++
			}
		}
		off[k] = mismatch
		if mismatch == 0 {
			energy += tbl.Energy[k]
		}
	}
	return &OffSite{Off: off, Energy: energy}
}

// Recount rebuilds off from scratch and compares it against o, returning an
// InvariantViolation if any entry differs — the debug-mode check spec.md
// §4.6 requires at every sweep boundary (testable property 1, spec.md §8).
func (o *OffSite) Recount(tbl *interaction.Tables, st *State) error {
	fresh := Build(tbl, st)
	for k := range o.Off {
		if o.Off[k] != fresh.Off[k] {
			return vkmcerr.NewInvariantViolation(vkmcerr.OffCountMismatchAfterSweep, "off[%d] = %d, recount = %d", k, o.Off[k], fresh.Off[k])
		}
	}
	return nil
}
