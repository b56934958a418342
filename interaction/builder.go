package interaction

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/katalvlaran/vkmc/cluster"
	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/vecbasis"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

// vecLookup maps a cluster member's canonical key to the ordered list of
// (group index, vector) pairs it carries in its orbit's vector basis.
type vecLookup map[string][]groupVec

type groupVec struct {
	Group int
	Vec   mgl64.Vec3
}

func buildVecLookup(basis vecbasis.OrbitBasis) vecLookup {
	lut := make(vecLookup)
	for g, group := range basis.Groups {
		for _, vc := range group {
			key := vc.Cluster.CanonicalKey()
			lut[key] = append(lut[key], groupVec{Group: g, Vec: vc.Vec})
		}
	}
	return lut
}

// Build runs L6: it translates every DecoratedCluster in every orbit by
// every lattice vector in [0,N)^3, assigns each resulting interaction a
// dense id, and fails fast (BuildError/DuplicateInteraction) if the same
// sorted site-index tuple is produced twice — spec.md §4.3's correctness
// guard against double-counting in the enumerator.
func Build(l *lattice.Lattice, orbits []cluster.DecoratedOrbit, bases []vecbasis.OrbitBasis, energy []float64, nspec int) (*Tables, error) {
	if len(orbits) != len(bases) || len(orbits) != len(energy) {
		return nil, vkmcerr.NewBuildError(vkmcerr.SpeciesSitesLengthMismatch, "orbits (%d), bases (%d), and energy (%d) must have equal length", len(orbits), len(bases), len(energy))
	}

	nsites := l.Nsites()
	t := &Tables{
		Nsites:        nsites,
		Nspec:         nspec,
		NumAtSiteSpec: make([][]int, nsites),
		AtSiteSpec:    make([][][]int, nsites),
	}
	for s := 0; s < nsites; s++ {
		t.NumAtSiteSpec[s] = make([]int, nspec)
		t.AtSiteSpec[s] = make([][]int, nspec)
	}

	seen := make(map[string]int)

	for oi, orbit := range orbits {
		lut := buildVecLookup(bases[oi])
		for _, c := range orbit {
			memberVecs := lut[c.CanonicalKey()]
			for rx := 0; rx < l.N; rx++ {
				for ry := 0; ry < l.N; ry++ {
					for rz := 0; rz < l.N; rz++ {
						shift := lattice.Cell{rx, ry, rz}
						if err := t.addInteraction(l, seen, c, shift, energy[oi], memberVecs); err != nil {
							return nil, err
						}
					}
				}
			}
		}
	}
	return t, nil
}

type interactionEntry struct {
	siteIdx int
	species int
}

func (t *Tables) addInteraction(l *lattice.Lattice, seen map[string]int, c cluster.DecoratedCluster, shift lattice.Cell, en float64, memberVecs []groupVec) error {
	entries := make([]interactionEntry, len(c.Pairs))
	for i, p := range c.Pairs {
		translated := l.Translate(p.Site, shift)
		entries[i] = interactionEntry{siteIdx: l.SiteIndex(translated), species: p.Species}
	}
	sortEntries(entries)

	key := interactionKey(entries)
	if _, dup := seen[key]; dup {
		return vkmcerr.NewBuildError(vkmcerr.DuplicateInteraction, "interaction %q already exists (double-count during translation)", key)
	}

	k := len(t.NumSites)
	seen[key] = k

	sites := make([]int, len(entries))
	specs := make([]int, len(entries))
	for i, e := range entries {
		sites[i] = e.siteIdx
		specs[i] = e.species
	}

	t.NumSites = append(t.NumSites, len(entries))
	t.SupSites = append(t.SupSites, sites)
	t.SpecOn = append(t.SpecOn, specs)
	t.Energy = append(t.Energy, en)

	numVecs := len(memberVecs)
	var vecs [3][3]float64
	var groups [3]int
	for i, gv := range memberVecs {
		if i >= 3 {
			break
		}
		vecs[i] = [3]float64{gv.Vec[0], gv.Vec[1], gv.Vec[2]}
		groups[i] = gv.Group
	}
	t.NumVecs = append(t.NumVecs, numVecs)
	t.Vecs = append(t.Vecs, vecs)
	t.VecGroups = append(t.VecGroups, groups)

	for _, e := range entries {
		t.AtSiteSpec[e.siteIdx][e.species] = append(t.AtSiteSpec[e.siteIdx][e.species], k)
		t.NumAtSiteSpec[e.siteIdx][e.species]++
	}
	return nil
}

func sortEntries(e []interactionEntry) {
	// Insertion sort: interaction orders are small (cluster sizes are
	// typically <= 6), so an O(n^2) sort avoids pulling in sort.Slice's
	// interface overhead on the hottest path of the compiler.
	for i := 1; i < len(e); i++ {
		for j := i; j > 0 && e[j].siteIdx < e[j-1].siteIdx; j-- {
			e[j], e[j-1] = e[j-1], e[j]
		}
	}
}

func interactionKey(e []interactionEntry) string {
	s := ""
	for _, entry := range e {
		s += fmt.Sprintf("%d:%d|", entry.siteIdx, entry.species)
	}
	return s
}
