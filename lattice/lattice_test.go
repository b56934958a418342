package lattice

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func simpleCubicLattice(t *testing.T, n int) *Lattice {
	t.Helper()
	l, err := New(n, []mgl64.Vec3{{0, 0, 0}}, mgl64.Ident3())
	require.NoError(t, err)
	return l
}

func TestSiteIndexBijection(t *testing.T) {
	l := simpleCubicLattice(t, 4)
	require.Equal(t, 4*4*4, l.Nsites())

	seen := make(map[int]bool)
	for x := 0; x < l.N; x++ {
		for y := 0; y < l.N; y++ {
			for z := 0; z < l.N; z++ {
				s := Site{Basis: 0, R: Cell{x, y, z}}
				idx := l.SiteIndex(s)
				require.False(t, seen[idx], "index %d produced twice", idx)
				seen[idx] = true

				back, err := l.IndexSite(idx)
				require.NoError(t, err)
				require.Equal(t, s, back)
			}
		}
	}
	require.Len(t, seen, l.Nsites())
}

func TestWrapIsModN(t *testing.T) {
	l := simpleCubicLattice(t, 4)
	require.Equal(t, Cell{0, 1, 3}, l.Wrap(Cell{4, 1, -1}))
	require.Equal(t, Cell{3, 3, 3}, l.Wrap(Cell{-1, -1, -1}))
}

func TestTranslateWraps(t *testing.T) {
	l := simpleCubicLattice(t, 4)
	s := Site{Basis: 0, R: Cell{3, 3, 3}}
	moved := l.Translate(s, Cell{1, 1, 1})
	require.Equal(t, Cell{0, 0, 0}, moved.R)
}

func TestIndexSiteOutOfRange(t *testing.T) {
	l := simpleCubicLattice(t, 2)
	_, err := l.IndexSite(-1)
	require.Error(t, err)
	_, err = l.IndexSite(l.Nsites())
	require.Error(t, err)
}

func TestNewRejectsNonPositiveN(t *testing.T) {
	_, err := New(0, []mgl64.Vec3{{0, 0, 0}}, mgl64.Ident3())
	require.Error(t, err)
}
