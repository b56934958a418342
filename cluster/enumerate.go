package cluster

import (
	"sort"

	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/symmetry"
)

// floorDiv returns the Euclidean floor division of a by b (b > 0), unlike
// Go's built-in "/" which truncates toward zero; the centroid shift
// (spec.md §3 "integer division") must be floor division so that negative
// coordinates canonicalise consistently with positive ones.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// centroid computes the integer centroid R_c = (Σ siteR) div |cluster| of a
// GeomCluster's sites, per-axis floor division (spec.md §4.1).
func centroid(sites []lattice.Site) lattice.Cell {
	var sum lattice.Cell
	for _, s := range sites {
		sum[0] += s.R[0]
		sum[1] += s.R[1]
		sum[2] += s.R[2]
	}
	n := len(sites)
	return lattice.Cell{floorDiv(sum[0], n), floorDiv(sum[1], n), floorDiv(sum[2], n)}
}

// canonicalise subtracts the cluster's integer centroid from every site's
// cell coordinate, implementing the "zero" policy (spec.md §3): two
// translates of the same decoration become identical after this shift.
func canonicalise(pairs []SiteSpecies) DecoratedCluster {
	sites := make([]lattice.Site, len(pairs))
	for i, p := range pairs {
		sites[i] = p.Site
	}
	rc := centroid(sites)
	out := make([]SiteSpecies, len(pairs))
	for i, p := range pairs {
		out[i] = SiteSpecies{
			Site:    lattice.Site{Basis: p.Site.Basis, R: lattice.Cell{p.Site.R[0] - rc[0], p.Site.R[1] - rc[1], p.Site.R[2] - rc[2]}},
			Species: p.Species,
		}
	}
	return DecoratedCluster{Pairs: out}
}

// decorations enumerates every Nspec^order assignment of species to sites,
// in increasing lexicographic order over species indices, without any
// rejection — callers apply the vacancy-count and origVac filters.
func decorations(order, nspec int) [][]int {
	if order == 0 {
		return [][]int{{}}
	}
	total := 1
	for i := 0; i < order; i++ {
		total *= nspec
	}
	out := make([][]int, 0, total)
	cur := make([]int, order)
	var rec func(pos int)
	rec = func(pos int) {
		if pos == order {
			cp := append([]int(nil), cur...)
			out = append(out, cp)
			return
		}
		for s := 0; s < nspec; s++ {
			cur[pos] = s
			rec(pos + 1)
		}
	}
	rec(0)
	return out
}

// closeUnderGroup expands a canonical seed DecoratedCluster by every
// operation in g, re-canonicalising (centroid shift) and wrapping modulo N
// after each application, and returns the distinct members found — one
// DecoratedOrbit (spec.md §4.1 "expand the decoration under L2... collect
// distinct decorations into orbits").
func closeUnderGroup(l *lattice.Lattice, g *symmetry.Group, seed DecoratedCluster) DecoratedOrbit {
	seen := make(map[string]bool)
	var orbit DecoratedOrbit
	add := func(d DecoratedCluster) {
		d = d.Sorted()
		key := d.CanonicalKey()
		if !seen[key] {
			seen[key] = true
			orbit = append(orbit, d)
		}
	}
	add(seed)
	for _, op := range g.Ops {
		moved := make([]SiteSpecies, len(seed.Pairs))
		for i, p := range seed.Pairs {
			raw := symmetry.ApplySiteRaw(op, p.Site)
			moved[i] = SiteSpecies{Site: raw, Species: p.Species}
		}
		canon := canonicalise(moved)
		wrapped := make([]SiteSpecies, len(canon.Pairs))
		for i, p := range canon.Pairs {
			wrapped[i] = SiteSpecies{Site: lattice.Site{Basis: p.Site.Basis, R: l.Wrap(p.Site.R)}, Species: p.Species}
		}
		add(DecoratedCluster{Pairs: wrapped})
	}
	return orbit
}

// EnumerateDecorated runs L4 over every geometric orbit: it enumerates all
// species decorations of each orbit's representative cluster, rejects those
// with more than one vacancy, applies the origVac policy, canonicalises by
// centroid shift, and closes each surviving seed under the full symmetry
// group to produce the DecoratedOrbits. The returned orbits are sorted by a
// deterministic key (spec.md §4.1) so compilation is reproducible across
// runs and platforms.
func EnumerateDecorated(geomOrbits []GeomOrbit, l *lattice.Lattice, g *symmetry.Group, nspec, vacSpec int, policy OrigVacPolicy) ([]DecoratedOrbit, error) {
	var result []DecoratedOrbit
	globalSeen := make(map[string]bool)

	for _, go_ := range geomOrbits {
		if len(go_) == 0 {
			continue
		}
		rep := go_[0]
		for _, species := range decorations(rep.Order(), nspec) {
			if policy == VacancyAtOriginOnly && len(species) > 0 && species[0] != vacSpec {
				continue
			}
			pairs := make([]SiteSpecies, rep.Order())
			for i, sp := range species {
				pairs[i] = SiteSpecies{Site: rep.Sites[i], Species: sp}
			}
			dc := DecoratedCluster{Pairs: pairs}
			if dc.countVac(vacSpec) > 1 {
				continue
			}
			seed := canonicalise(dc.Pairs).Sorted()
			for i := range seed.Pairs {
				seed.Pairs[i].Site.R = l.Wrap(seed.Pairs[i].Site.R)
			}
			key := seed.CanonicalKey()
			if globalSeen[key] {
				continue
			}
			orbit := closeUnderGroup(l, g, seed)
			for _, member := range orbit {
				globalSeen[member.CanonicalKey()] = true
			}
			result = append(result, orbit)
		}
	}

	sort.Slice(result, func(i, j int) bool { return orbitLess(result[i], result[j]) })
	return result, nil
}

// orbitLess orders two DecoratedOrbits by the norm of their representative's
// last site cell coordinate, tie-broken lexicographically on the canonical
// representative's (site.R, site.basis, species) tuples (spec.md §4.1).
func orbitLess(a, b DecoratedOrbit) bool {
	na, nb := lastSiteNorm(a[0]), lastSiteNorm(b[0])
	if na != nb {
		return na < nb
	}
	ka, kb := a[0].CanonicalKey(), b[0].CanonicalKey()
	return ka < kb
}

func lastSiteNorm(d DecoratedCluster) int {
	if len(d.Pairs) == 0 {
		return 0
	}
	r := d.Pairs[len(d.Pairs)-1].Site.R
	return r[0]*r[0] + r[1]*r[1] + r[2]*r[2]
}
