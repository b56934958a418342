// Package vecbasis implements the vector basis builder (L5): for each
// decorated-cluster orbit it computes the subspace of R^3 fixed by the
// orbit representative's stabiliser (via a Reynolds-operator eigenproblem,
// reusing vkmc/matrix/ops.Eigen) and propagates one basis vector per
// dimension through the full symmetry group to produce the orbit's
// "vector clusters".
package vecbasis

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/katalvlaran/vkmc/cluster"
	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/matrix"
	"github.com/katalvlaran/vkmc/matrix/ops"
	"github.com/katalvlaran/vkmc/symmetry"
)

// eigenTol and eigenMaxIter bound the Jacobi sweep used for the 3x3
// Reynolds operator; 3x3 symmetric matrices converge in a handful of
// sweeps, so maxIter is generous without risking runaway compile times.
const (
	eigenTol     = 1e-9
	eigenMaxIter = 100
	unitEigenTol = 1e-6
)

// VectorCluster pairs a DecoratedCluster with a cartesian basis vector; all
// members sharing one VecGroup belong to the same basis dimension of one
// orbit (spec.md §4.2).
type VectorCluster struct {
	Cluster cluster.DecoratedCluster
	Vec     mgl64.Vec3
}

// OrbitBasis holds, for one DecoratedOrbit, the list of vector-cluster
// groups (one per fixed-subspace dimension, 0-3). An orbit with an empty
// 1-eigenspace (centrosymmetric with an inversion-odd basis) has len(Groups)
// == 0 and contributes no vector clusters (spec.md §9, standardised as the
// "length 0" variant of the two ambiguous source behaviours).
type OrbitBasis struct {
	Groups [][]VectorCluster
}

// stabiliser returns every g in grp.Ops under which applying-then-wrapping
// c0 reproduces c0 exactly (not merely some other orbit member).
func stabiliser(l *lattice.Lattice, grp *symmetry.Group, c0 cluster.DecoratedCluster) []symmetry.Op {
	key := sortedKey(c0)
	var stab []symmetry.Op
	for _, g := range grp.Ops {
		if sortedKey(applyCanonical(l, g, c0)) == key {
			stab = append(stab, g)
		}
	}
	return stab
}

// applyCanonical applies g to every site of d, wraps modulo N, and returns
// the resulting DecoratedCluster sorted into canonical pair order (same
// canonicalisation recipe as cluster.closeUnderGroup, without the centroid
// re-shift: stabiliser membership is about exact fixed-point symmetry, not
// about discovering new orbit translates).
func applyCanonical(l *lattice.Lattice, g symmetry.Op, d cluster.DecoratedCluster) cluster.DecoratedCluster {
	out := make([]cluster.SiteSpecies, len(d.Pairs))
	for i, p := range d.Pairs {
		moved := symmetry.ApplySite(l, g, p.Site)
		out[i] = cluster.SiteSpecies{Site: moved, Species: p.Species}
	}
	return cluster.DecoratedCluster{Pairs: out}.Sorted()
}

func sortedKey(d cluster.DecoratedCluster) string {
	return d.CanonicalKey()
}

// reynoldsOperator builds P = (1/|S|) * Σ_{g in S} Rot(g) as a 3x3 Dense
// matrix (spec.md §4.2).
func reynoldsOperator(stab []symmetry.Op) (*matrix.Dense, error) {
	p, err := matrix.NewDense(3, 3)
	if err != nil {
		return nil, err
	}
	for _, g := range stab {
		for col := 0; col < 3; col++ {
			for row := 0; row < 3; row++ {
				if err := p.Add(row, col, g.Rot[col*3+row]); err != nil {
					return nil, err
				}
			}
		}
	}
	inv := 1.0 / float64(len(stab))
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			v, _ := p.At(row, col)
			_ = p.Set(row, col, v*inv)
		}
	}
	return p, nil
}

// Build runs L5 over every DecoratedOrbit, returning one OrbitBasis per
// orbit in the same order.
func Build(l *lattice.Lattice, grp *symmetry.Group, orbits []cluster.DecoratedOrbit) ([]OrbitBasis, error) {
	result := make([]OrbitBasis, len(orbits))
	for oi, orbit := range orbits {
		c0 := orbit[0]
		stab := stabiliser(l, grp, c0)
		p, err := reynoldsOperator(stab)
		if err != nil {
			return nil, err
		}
		eigs, Q, err := ops.Eigen(p, eigenTol, eigenMaxIter)
		if err != nil {
			return nil, err
		}

		var groups [][]VectorCluster
		for col := 0; col < 3; col++ {
			if abs(eigs[col]-1.0) > unitEigenTol {
				continue
			}
			v0x, _ := Q.At(0, col)
			v0y, _ := Q.At(1, col)
			v0z, _ := Q.At(2, col)
			v0 := mgl64.Vec3{v0x, v0y, v0z}.Normalize()
			groups = append(groups, propagate(l, grp, c0, v0))
		}
		result[oi] = OrbitBasis{Groups: groups}
	}
	return result, nil
}

// propagate applies every g in grp to the seed (c0, v0), appending
// (g.c0, Rot(g).v0) whenever g.c0 is a cluster not already seen — spec.md
// §4.2's "apply every g ∈ L2; if g·c0 is new, append (g·c0, Rot(g)·v)".
func propagate(l *lattice.Lattice, grp *symmetry.Group, c0 cluster.DecoratedCluster, v0 mgl64.Vec3) []VectorCluster {
	seen := map[string]bool{sortedKey(c0): true}
	group := []VectorCluster{{Cluster: c0, Vec: v0}}
	for _, g := range grp.Ops {
		moved := applyCanonical(l, g, c0)
		key := sortedKey(moved)
		if seen[key] {
			continue
		}
		seen[key] = true
		group = append(group, VectorCluster{Cluster: moved, Vec: symmetry.ApplyVector(g, v0)})
	}
	return group
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
