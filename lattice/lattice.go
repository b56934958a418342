// Package lattice implements the crystal/supercell primitive (L1): the
// lattice basis, a diagonal N·I supercell, the bijection between a
// (basis-atom, unit-cell) coordinate and a flat site index, and the
// mod-N translation operator every higher layer (L4-L7) builds on.
//
// Non-diagonal supercells are out of scope (spec.md §1 Non-goals); Lattice
// only ever represents an N·N·N repetition of the basis.
package lattice

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

// Cell is an integer unit-cell coordinate in [0, N)^3.
type Cell [3]int

// Site is a canonical (basis-atom, unit-cell) coordinate.
type Site struct {
	Basis int // index into Lattice.BasisCart, in [0, Nbasis)
	R     Cell
}

// Lattice holds the crystal basis and the diagonal supercell size N.
//
// Nsites = N^3 * Nbasis, and SiteIndex/IndexSite form a bijection between
// Site values and [0, Nsites).
type Lattice struct {
	N         int          // supercell repetition count (diagonal N·I)
	BasisCart []mgl64.Vec3 // cartesian position of each basis atom within a unit cell
	Cart      mgl64.Mat3   // lattice vectors as columns, cartesian units
}

// New builds a Lattice for supercell size N (must be >= 1) over the given
// basis positions and primitive cartesian lattice vectors (columns of cart).
func New(n int, basisCart []mgl64.Vec3, cart mgl64.Mat3) (*Lattice, error) {
	if n < 1 {
		return nil, vkmcerr.NewBuildError(vkmcerr.SupercellNondiagonalUnsupported, "supercell size N=%d must be >= 1", n)
	}
	if len(basisCart) == 0 {
		return nil, vkmcerr.NewBuildError(vkmcerr.SpeciesSitesLengthMismatch, "basis must contain at least one atom")
	}
	return &Lattice{N: n, BasisCart: basisCart, Cart: cart}, nil
}

// Nbasis returns the number of basis atoms per unit cell.
func (l *Lattice) Nbasis() int { return len(l.BasisCart) }

// Nsites returns the total number of sites, N^3 * Nbasis.
func (l *Lattice) Nsites() int { return l.N * l.N * l.N * l.Nbasis() }

// Wrap reduces a cell coordinate modulo N, element-wise, always returning a
// non-negative representative in [0, N).
func (l *Lattice) Wrap(c Cell) Cell {
	var out Cell
	for d := 0; d < 3; d++ {
		v := c[d] % l.N
		if v < 0 {
			v += l.N
		}
		out[d] = v
	}
	return out
}

// SiteIndex maps a canonical Site to its flat index in [0, Nsites).
// The cell coordinate is wrapped modulo N first, so callers may pass
// unwrapped translated coordinates directly.
func (l *Lattice) SiteIndex(s Site) int {
	r := l.Wrap(s.R)
	nb := l.Nbasis()
	return ((r[0]*l.N+r[1])*l.N+r[2])*nb + s.Basis
}

// IndexSite is the inverse of SiteIndex.
func (l *Lattice) IndexSite(idx int) (Site, error) {
	nb := l.Nbasis()
	total := l.Nsites()
	if idx < 0 || idx >= total {
		return Site{}, fmt.Errorf("lattice: index %d out of range [0,%d): %w", idx, total, vkmcerr.NewBuildError(vkmcerr.SpeciesSitesLengthMismatch, "site index out of range"))
	}
	basis := idx % nb
	rest := idx / nb
	z := rest % l.N
	rest /= l.N
	y := rest % l.N
	x := rest / l.N
	return Site{Basis: basis, R: Cell{x, y, z}}, nil
}

// Translate shifts a Site by a lattice-vector displacement dx (in unit-cell
// coordinates, same basis atom), wrapping modulo N. This is the "pure site
// permutation" spec.md §4.7 uses to recentre the vacancy at a fixed
// reference index.
func (l *Lattice) Translate(s Site, dx Cell) Site {
	return Site{Basis: s.Basis, R: l.Wrap(Cell{s.R[0] + dx[0], s.R[1] + dx[1], s.R[2] + dx[2]})}
}

// Cartesian returns the cartesian position of a Site, unwrapped (using the
// raw, possibly out-of-[0,N) cell coordinate the caller supplies), which is
// what L4's centroid computation and L2's group action need before the
// final mod-N wrap into a canonical Site.
func (l *Lattice) Cartesian(s Site) mgl64.Vec3 {
	frac := mgl64.Vec3{float64(s.R[0]), float64(s.R[1]), float64(s.R[2])}
	return l.Cart.Mul3x1(frac).Add(l.BasisCart[s.Basis])
}
