// Package kra implements the KRA expander (L7): for every symmetry-unique
// vacancy jump it catalogs the transition-state clusters that modulate the
// kinetically-resolved-activation barrier, translating them through the
// supercell the same way interaction.Build does for configurational
// clusters, and indexes the result by (finalSite, finalSpecies) the way the
// KMC trajectory engine (C3) needs at runtime (spec.md §4.4).
package kra

import (
	"github.com/katalvlaran/vkmc/cluster"
	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

// PointGroup is one symmetry-partitioned group of transition-state clusters
// contributing to a jump's barrier, each carrying its own KRA energy
// coefficient (spec.md §4.4).
type PointGroup struct {
	Clusters []cluster.DecoratedCluster
	Energies []float64 // parallel to Clusters
}

// JumpSpec is a symmetry-unique vacancy jump: the (basisA, basisB) pair and
// displacement dx it connects, plus its point-group-partitioned TS clusters
// (spec.md §6 "jump network").
type JumpSpec struct {
	BasisA, BasisB int
	Dx             lattice.Cell
	PointGroups    []PointGroup
}

// Tables holds the dense arrays L7 produces.
type Tables struct {
	Nspec int

	// FinSiteFinSpec maps (finalSite, finalSpecies) to a transition index;
	// -1 means "no jump lands on this (site, species)".
	FinSiteFinSpec [][]int // [Nsites][Nspec]

	NumPointGroups       []int       // numJumpPointGroups[transInd]
	NumTSInteractsInGrp  [][]int     // numTSInteractsInPtGroups[transInd][g]
	JumpInteracts        [][][]int   // JumpInteracts[transInd][g][i] -> TS interaction id
	Jump2KRAEng          [][][]float64 // Jump2KRAEng[transInd][g][i]

	// TS-interaction-side tables, parallel to interaction.Tables but for
	// the transition-state clusters (spec.md §4.4 "TS-side of §4.3").
	NumSitesTSInteracts []int
	TSInteractSites     [][]int
	TSInteractSpecs     [][]int

	KRASpecConstants []float64 // per spec.md §4.4, required KRASpecConstants[vacSpec] == 0
}

// Build runs L7 over every symmetry-unique jump. vacSpec identifies the
// vacancy species; kraConst carries the per-species KRA offset and must be
// zero at vacSpec (spec.md §4.4), checked as a BuildError.
func Build(l *lattice.Lattice, jumps []JumpSpec, nspec, vacSpec int, kraConst []float64) (*Tables, error) {
	if len(kraConst) != nspec {
		return nil, vkmcerr.NewBuildError(vkmcerr.SpeciesSitesLengthMismatch, "KRASpecConstants length %d != Nspec %d", len(kraConst), nspec)
	}
	if kraConst[vacSpec] != 0 {
		return nil, vkmcerr.NewBuildError(vkmcerr.VacSpecConstantNonzero, "KRASpecConstants[vacSpec=%d] = %g, must be 0", vacSpec, kraConst[vacSpec])
	}

	nsites := l.Nsites()
	t := &Tables{
		Nspec:            nspec,
		FinSiteFinSpec:   make([][]int, nsites),
		KRASpecConstants: append([]float64(nil), kraConst...),
	}
	for s := range t.FinSiteFinSpec {
		t.FinSiteFinSpec[s] = make([]int, nspec)
		for sigma := range t.FinSiteFinSpec[s] {
			t.FinSiteFinSpec[s][sigma] = -1
		}
	}

	tsSeen := make(map[string]int)

	for _, jump := range jumps {
		for rx := 0; rx < l.N; rx++ {
			for ry := 0; ry < l.N; ry++ {
				for rz := 0; rz < l.N; rz++ {
					shift := lattice.Cell{rx, ry, rz}
					finalSite := lattice.Site{Basis: jump.BasisB, R: lattice.Cell{shift[0] + jump.Dx[0], shift[1] + jump.Dx[1], shift[2] + jump.Dx[2]}}
					siteB := l.SiteIndex(finalSite)

					transInd := len(t.NumPointGroups)
					t.NumPointGroups = append(t.NumPointGroups, len(jump.PointGroups))

					var grpIDs [][]int
					var grpEngs [][]float64
					for _, pg := range jump.PointGroups {
						ids := make([]int, 0, len(pg.Clusters))
						engs := make([]float64, 0, len(pg.Clusters))
						for ci, c := range pg.Clusters {
							id, err := t.addTSInteraction(l, tsSeen, c, shift)
							if err != nil {
								return nil, err
							}
							ids = append(ids, id)
							engs = append(engs, pg.Energies[ci])
						}
						grpIDs = append(grpIDs, ids)
						grpEngs = append(grpEngs, engs)
					}
					t.JumpInteracts = append(t.JumpInteracts, grpIDs)
					t.Jump2KRAEng = append(t.Jump2KRAEng, grpEngs)

					counts := make([]int, len(jump.PointGroups))
					for i, ids := range grpIDs {
						counts[i] = len(ids)
					}
					t.NumTSInteractsInGrp = append(t.NumTSInteractsInGrp, counts)

					// The transition index depends only on the geometric
					// jump (siteA basis, siteB basis, dx), never on which
					// species makes the hop; FinSiteFinSpec is still keyed
					// by species (spec.md §4.4) to let a future jump network
					// with species-dependent TS partitions distinguish them,
					// so every species slot for this siteB is filled here.
					for sigma := 0; sigma < nspec; sigma++ {
						t.FinSiteFinSpec[siteB][sigma] = transInd
					}
				}
			}
		}
	}
	return t, nil
}

// TransInd returns the transition index for a hop landing on (finalSite,
// finalSpecies), or -1 if no symmetry-unique jump targets that site.
func (t *Tables) TransInd(finalSite, finalSpecies int) int {
	return t.FinSiteFinSpec[finalSite][finalSpecies]
}

func (t *Tables) addTSInteraction(l *lattice.Lattice, seen map[string]int, c cluster.DecoratedCluster, shift lattice.Cell) (int, error) {
	sites := make([]int, len(c.Pairs))
	specs := make([]int, len(c.Pairs))
	for i, p := range c.Pairs {
		translated := l.Translate(p.Site, shift)
		sites[i] = l.SiteIndex(translated)
		specs[i] = p.Species
	}
	sortTSEntries(sites, specs)

	key := tsKey(sites, specs)
	if id, dup := seen[key]; dup {
		return id, nil
	}

	id := len(t.NumSitesTSInteracts)
	seen[key] = id
	t.NumSitesTSInteracts = append(t.NumSitesTSInteracts, len(sites))
	t.TSInteractSites = append(t.TSInteractSites, sites)
	t.TSInteractSpecs = append(t.TSInteractSpecs, specs)
	return id, nil
}

func sortTSEntries(sites, specs []int) {
	for i := 1; i < len(sites); i++ {
		for j := i; j > 0 && sites[j] < sites[j-1]; j-- {
			sites[j], sites[j-1] = sites[j-1], sites[j]
			specs[j], specs[j-1] = specs[j-1], specs[j]
		}
	}
}

func tsKey(sites, specs []int) string {
	s := ""
	for i := range sites {
		s += itoa(sites[i]) + ":" + itoa(specs[i]) + "|"
	}
	return s
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
