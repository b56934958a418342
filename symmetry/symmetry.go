// Package symmetry implements the finite space-group primitive (L2): a
// symmetry operation is represented as plain data — a basis permutation, a
// 3x3 integer-valued rotation, and a cartesian translation — applied by pure
// functions, never as an object hierarchy (spec.md §9 "Group operations as
// data, not behaviour").
package symmetry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/katalvlaran/vkmc/lattice"
)

// Op is one element of a space group: a permutation of basis atoms, a
// cartesian rotation matrix, and a cartesian translation.
type Op struct {
	BasisPerm []int      // BasisPerm[i] = basis index site i's atom maps to
	Rot       mgl64.Mat3 // cartesian rotation/reflection
	Trans     mgl64.Vec3 // cartesian translation (fractional lattice units folded in by caller)
}

// Group is a finite set of symmetry operations closed under composition.
// vkmc takes Group as an input (§6): it is produced by symmetry-enumeration
// tooling external to this module.
type Group struct {
	Ops []Op
}

// New constructs a Group from a slice of operations. The identity operation
// need not be passed explicitly by callers that already include it; no
// closure check is performed here (that is the producer's responsibility,
// per spec.md §1's scoping of symmetry enumeration as "taken as a given
// input").
func New(ops []Op) *Group {
	return &Group{Ops: append([]Op(nil), ops...)}
}

// ApplySite maps a Site through g: the basis index is permuted and the
// integer cell coordinate is rotated by the integer part of g.Rot, then the
// cartesian translation (already expressed as an integer lattice shift by
// the caller) is added. l.Wrap folds the result back into [0, N).
func ApplySite(l *lattice.Lattice, g Op, s lattice.Site) lattice.Site {
	raw := ApplySiteRaw(g, s)
	return lattice.Site{Basis: raw.Basis, R: l.Wrap(raw.R)}
}

// ApplySiteRaw maps a Site through g without wrapping the resulting cell
// coordinate modulo N. L4's enumerator needs this unwrapped form: a cluster
// must be re-canonicalised (centroid shifted back to the origin cell) before
// it is safe to wrap, otherwise distinct translates of one orbit member can
// collide under Wrap and corrupt the centroid computation.
func ApplySiteRaw(g Op, s lattice.Site) lattice.Site {
	r := mgl64.Vec3{float64(s.R[0]), float64(s.R[1]), float64(s.R[2])}
	rr := g.Rot.Mul3x1(r).Add(g.Trans)
	newBasis := s.Basis
	if g.BasisPerm != nil {
		newBasis = g.BasisPerm[s.Basis]
	}
	return lattice.Site{Basis: newBasis, R: lattice.Cell{round(rr[0]), round(rr[1]), round(rr[2])}}
}

// ApplyVector rotates a cartesian vector by g (translation does not act on
// vectors, only on points).
func ApplyVector(g Op, v mgl64.Vec3) mgl64.Vec3 {
	return g.Rot.Mul3x1(v)
}

// Identity returns the group identity operation over nb basis atoms.
func Identity(nb int) Op {
	perm := make([]int, nb)
	for i := range perm {
		perm[i] = i
	}
	return Op{BasisPerm: perm, Rot: mgl64.Ident3(), Trans: mgl64.Vec3{}}
}

func round(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return -int(-x + 0.5)
}
