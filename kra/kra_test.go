package kra

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/cluster"
	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

func kraLattice(t *testing.T, n int) *lattice.Lattice {
	t.Helper()
	l, err := lattice.New(n, []mgl64.Vec3{{0, 0, 0}}, mgl64.Ident3())
	require.NoError(t, err)
	return l
}

func TestBuild_RejectsNonzeroVacConstant(t *testing.T) {
	l := kraLattice(t, 2)
	_, err := Build(l, nil, 2, 1, []float64{0, 0.1})
	require.Error(t, err)
	be, ok := vkmcerr.AsBuildError(err)
	require.True(t, ok)
	require.Equal(t, vkmcerr.VacSpecConstantNonzero, be.Kind)
}

func TestBuild_SimpleJumpPopulatesTransInd(t *testing.T) {
	l := kraLattice(t, 2)
	jump := JumpSpec{
		BasisA: 0, BasisB: 0, Dx: lattice.Cell{1, 0, 0},
		PointGroups: []PointGroup{
			{
				Clusters: []cluster.DecoratedCluster{
					{Pairs: []cluster.SiteSpecies{{Site: lattice.Site{R: lattice.Cell{0, 0, 0}}, Species: 0}}},
				},
				Energies: []float64{0.2},
			},
		},
	}
	tbl, err := Build(l, []JumpSpec{jump}, 2, 1, []float64{0, 0})
	require.NoError(t, err)

	// Every translate of the jump should register a distinct transInd.
	require.Equal(t, l.Nsites(), len(tbl.NumPointGroups))
	for s := 0; s < l.Nsites(); s++ {
		for sigma := 0; sigma < 2; sigma++ {
			require.GreaterOrEqual(t, tbl.TransInd(s, sigma), 0)
		}
	}
	require.NotEmpty(t, tbl.TSInteractSites)
}
