// Package cluster implements the decorated-cluster layer: L3's geometric
// cluster-orbit input types and L4, the decorated-cluster enumerator.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/vkmc/lattice"
)

// GeomCluster is a geometric cluster: an ordered list of lattice sites with
// no species assignment yet (L3 input, already grouped by symmetry-group
// action on sites only).
type GeomCluster struct {
	Sites    []lattice.Site
	MaxOrder int // cluster order, i.e. len(Sites); kept explicit per spec.md §4.3/§4.4 table shapes
}

// Order returns the number of sites in the cluster.
func (c GeomCluster) Order() int { return len(c.Sites) }

// GeomOrbit is a list of geometrically-equivalent clusters under the space
// group's action on sites (L3 input).
type GeomOrbit []GeomCluster

// SiteSpecies pairs a lattice site with an assigned species label.
type SiteSpecies struct {
	Site    lattice.Site
	Species int
}

// DecoratedCluster is a canonicalised (site, species) assignment: the
// centroid of the cluster's sites has been translated to the origin unit
// cell (the "zero" policy, spec.md §3), and Pairs is kept sorted by site for
// hashing and for the interaction-table uniqueness guard (spec.md §4.3).
//
// Equality is by content: two DecoratedClusters are equal iff they carry an
// identical multiset of (site, species) pairs after canonicalisation.
type DecoratedCluster struct {
	Pairs []SiteSpecies
}

// Order returns the number of (site, species) pairs.
func (d DecoratedCluster) Order() int { return len(d.Pairs) }

// CanonicalKey returns an order-invariant string key for d, used both for
// map-based deduplication and as the uniqueness guard in L6. Pairs are
// sorted first (lexicographic on R, then Basis, then Species) so that two
// DecoratedClusters built from the same multiset in any order hash equal.
func (d DecoratedCluster) CanonicalKey() string {
	sorted := append([]SiteSpecies(nil), d.Pairs...)
	sort.Slice(sorted, func(i, j int) bool { return siteSpeciesLess(sorted[i], sorted[j]) })
	var b strings.Builder
	for _, p := range sorted {
		fmt.Fprintf(&b, "%d,%d,%d,%d,%d|", p.Site.R[0], p.Site.R[1], p.Site.R[2], p.Site.Basis, p.Species)
	}
	return b.String()
}

func siteSpeciesLess(a, b SiteSpecies) bool {
	if a.Site.R != b.Site.R {
		return cellLess(a.Site.R, b.Site.R)
	}
	if a.Site.Basis != b.Site.Basis {
		return a.Site.Basis < b.Site.Basis
	}
	return a.Species < b.Species
}

func cellLess(a, b lattice.Cell) bool {
	for d := 0; d < 3; d++ {
		if a[d] != b[d] {
			return a[d] < b[d]
		}
	}
	return false
}

// Sorted returns a copy of d with Pairs ordered canonically (by site, then
// species) — the order L6 relies on for the "sorted by siteIdx" interaction
// invariant (spec.md §3).
func (d DecoratedCluster) Sorted() DecoratedCluster {
	sorted := append([]SiteSpecies(nil), d.Pairs...)
	sort.Slice(sorted, func(i, j int) bool { return siteSpeciesLess(sorted[i], sorted[j]) })
	return DecoratedCluster{Pairs: sorted}
}

// countVac returns how many pairs in d are assigned vacSpec.
func (d DecoratedCluster) countVac(vacSpec int) int {
	n := 0
	for _, p := range d.Pairs {
		if p.Species == vacSpec {
			n++
		}
	}
	return n
}

// DecoratedOrbit is a symmetry orbit of DecoratedClusters: all members are
// related by some g in the space group and share one "orbit index" used to
// look up the orbit's energy coefficient and vector basis.
type DecoratedOrbit []DecoratedCluster

// OrigVacPolicy resolves the ambiguity spec.md §9 flags between the source's
// two parallel enumerators.
type OrigVacPolicy int

const (
	// AllClusters keeps every decoration regardless of whether the vacancy
	// appears in the cluster at all.
	AllClusters OrigVacPolicy = iota

	// VacancyAtOriginOnly rejects any decoration whose first site (in the
	// geometric cluster's original, pre-canonicalisation site order) is not
	// assigned vacSpec — the "origVac" input clusters described in
	// spec.md §4.1.
	VacancyAtOriginOnly
)
