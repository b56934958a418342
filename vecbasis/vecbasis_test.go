package vecbasis

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/cluster"
	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/symmetry"
)

func simpleCubic(t *testing.T, n int) *lattice.Lattice {
	t.Helper()
	l, err := lattice.New(n, []mgl64.Vec3{{0, 0, 0}}, mgl64.Ident3())
	require.NoError(t, err)
	return l
}

// centrosymmetricGroup is {identity, inversion}: a point cluster's
// stabiliser under it has a 1-eigenspace of dimension 0 (every vector is
// sent to its negative by inversion, so no vector survives averaging).
func centrosymmetricGroup() *symmetry.Group {
	inv := mgl64.Mat3{-1, 0, 0, 0, -1, 0, 0, 0, -1}
	return symmetry.New([]symmetry.Op{
		symmetry.Identity(1),
		{BasisPerm: []int{0}, Rot: inv},
	})
}

func TestBuild_CentrosymmetricOrbitHasEmptyBasis(t *testing.T) {
	l := simpleCubic(t, 4)
	g := centrosymmetricGroup()

	orbit := cluster.DecoratedOrbit{
		{Pairs: []cluster.SiteSpecies{{Site: lattice.Site{R: lattice.Cell{0, 0, 0}}, Species: 1}}},
	}
	bases, err := Build(l, g, []cluster.DecoratedOrbit{orbit})
	require.NoError(t, err)
	require.Len(t, bases, 1)
	require.Empty(t, bases[0].Groups, "inversion-odd stabiliser must yield zero vector clusters")
}

func TestBuild_TrivialStabiliserYieldsFullBasis(t *testing.T) {
	l := simpleCubic(t, 4)
	g := symmetry.New([]symmetry.Op{symmetry.Identity(1)})

	orbit := cluster.DecoratedOrbit{
		{Pairs: []cluster.SiteSpecies{{Site: lattice.Site{R: lattice.Cell{0, 0, 0}}, Species: 1}}},
	}
	bases, err := Build(l, g, []cluster.DecoratedOrbit{orbit})
	require.NoError(t, err)
	require.Len(t, bases[0].Groups, 3, "trivial stabiliser fixes all of R^3")
	for _, grp := range bases[0].Groups {
		require.Len(t, grp, 1)
	}
}
