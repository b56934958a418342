package interaction

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/cluster"
	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/vecbasis"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

func smallLattice(t *testing.T, n int) *lattice.Lattice {
	t.Helper()
	l, err := lattice.New(n, []mgl64.Vec3{{0, 0, 0}}, mgl64.Ident3())
	require.NoError(t, err)
	return l
}

func pointClusterOrbit(species int) cluster.DecoratedOrbit {
	return cluster.DecoratedOrbit{
		{Pairs: []cluster.SiteSpecies{{Site: lattice.Site{R: lattice.Cell{0, 0, 0}}, Species: species}}},
	}
}

func TestBuild_PointClusterCoversEverySite(t *testing.T) {
	l := smallLattice(t, 3)
	orbit := pointClusterOrbit(1)
	tbl, err := Build(l, []cluster.DecoratedOrbit{orbit}, []vecbasis.OrbitBasis{{}}, []float64{-0.5}, 2)
	require.NoError(t, err)

	require.Equal(t, l.Nsites(), len(tbl.NumSites))
	for k := range tbl.NumSites {
		require.Equal(t, 1, tbl.NumSites[k])
		require.Equal(t, -0.5, tbl.Energy[k])
		require.Equal(t, 0, tbl.NumVecs[k])
	}
	for s := 0; s < l.Nsites(); s++ {
		require.Len(t, tbl.AtSiteSpec[s][1], 1)
		require.Empty(t, tbl.AtSiteSpec[s][0])
	}
}

func TestBuild_DuplicateInteractionIsFatal(t *testing.T) {
	l := smallLattice(t, 3)
	orbit := pointClusterOrbit(1)
	// Feed the same orbit twice: every translate collides with itself.
	_, err := Build(l, []cluster.DecoratedOrbit{orbit, orbit}, []vecbasis.OrbitBasis{{}, {}}, []float64{0, 0}, 2)
	require.Error(t, err)
	be, ok := vkmcerr.AsBuildError(err)
	require.True(t, ok)
	require.Equal(t, vkmcerr.DuplicateInteraction, be.Kind)
}

func TestDenseSiteSpecPadding(t *testing.T) {
	l := smallLattice(t, 2)
	orbit := pointClusterOrbit(1)
	tbl, err := Build(l, []cluster.DecoratedOrbit{orbit}, []vecbasis.OrbitBasis{{}}, []float64{1}, 2)
	require.NoError(t, err)

	dense := tbl.DenseSiteSpec()
	require.Equal(t, l.Nsites(), len(dense))
	maxI := tbl.MaxInteractions()
	require.Equal(t, 1, maxI)
	for s := 0; s < l.Nsites(); s++ {
		require.Len(t, dense[s][1], maxI)
		require.Len(t, dense[s][0], maxI)
		require.Equal(t, -1, dense[s][0][0])
	}
}
