// Package interaction implements the interaction-table builder (L6): it
// translates every DecoratedCluster through the supercell to produce
// interactions (ordered site-index tuples), and flattens the result into the
// dense int/float tables the runtime sampler indexes directly (spec.md
// §4.3).
package interaction

// Tables holds every dense array L6 produces. K is the total interaction
// count (len(NumSites)). Per spec.md §9, an interaction's vector-entry count
// (NumVecs) uses a 0 sentinel for "no vector" instead of the source's -1.
type Tables struct {
	// Per-interaction arrays, indexed by interaction id k in [0, K).
	NumSites  []int       // numSitesInteracts[k]
	SupSites  [][]int     // SupSitesInteracts[k][0:NumSites[k]], site indices
	SpecOn    [][]int     // SpecOnInteractSites[k][0:NumSites[k]], required species
	Energy    []float64   // Interaction2En[k]
	NumVecs   []int        // numVecsInteracts[k] in {0,1,2,3}
	Vecs      [][3][3]float64 // VecsInteracts[k][v][0:3], v in [0,NumVecs[k])
	VecGroups [][3]int     // VecGroupInteracts[k][v], vector-cluster group id

	// Per-(site, species) arrays.
	Nsites, Nspec int
	NumAtSiteSpec [][]int   // numInteractsSiteSpec[s][sigma]
	AtSiteSpec    [][][]int // SiteSpecInterArray[s][sigma], list of interaction ids
}

// MaxInteractions returns max_{s,sigma} |AtSiteSpec[s][sigma]|, the bound
// spec.md §4.3 uses to size the padded dense SiteSpecInterArray.
func (t *Tables) MaxInteractions() int {
	max := 0
	for _, row := range t.AtSiteSpec {
		for _, lst := range row {
			if len(lst) > max {
				max = len(lst)
			}
		}
	}
	return max
}

// DenseSiteSpec returns SiteSpecInterArray padded with -1 to MaxInteractions
// columns, the literal dense shape spec.md §4.3 specifies for the runtime.
func (t *Tables) DenseSiteSpec() [][][]int {
	maxI := t.MaxInteractions()
	out := make([][][]int, t.Nsites)
	for s := 0; s < t.Nsites; s++ {
		out[s] = make([][]int, t.Nspec)
		for sigma := 0; sigma < t.Nspec; sigma++ {
			row := make([]int, maxI)
			for i := range row {
				row[i] = -1
			}
			copy(row, t.AtSiteSpec[s][sigma])
			out[s][sigma] = row
		}
	}
	return out
}
