package expansion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/state"
)

func vectorTables() *interaction.Tables {
	// Two interactions spanning sites 0,1, each carrying a vector entry in
	// a distinct group, "on" iff site0=1 and site1=0.
	return &interaction.Tables{
		NumSites:  []int{1, 1},
		SupSites:  [][]int{{0}, {1}},
		SpecOn:    [][]int{{1}, {0}},
		Energy:    []float64{0, 0},
		NumVecs:   []int{1, 1},
		Vecs:      [][3][3]float64{{{1, 0, 0}}, {{0, 1, 0}}},
		VecGroups: [][3]int{{0}, {1}},
		Nsites:    2, Nspec: 2,
		NumAtSiteSpec: [][]int{{0, 1}, {1, 0}},
		AtSiteSpec:    [][][]int{{nil, {0}}, {{1}, nil}},
	}
}

func TestCompute_WbarIsSymmetricAndOffIsReverted(t *testing.T) {
	tbl := vectorTables()
	st, err := state.New([]int{1, 0, 2}, 2)
	require.NoError(t, err)
	off := state.Build(tbl, st)
	before := append([]int(nil), off.Off...)

	exits := []Exit{
		{SiteA: 0, SiteB: 1, A: 1, B: 0, Rate: 2.0, Dx: [3]float64{1, 0, 0}, VacancyObserved: true},
	}
	res, err := Compute(tbl, st, off, 2, exits)
	require.NoError(t, err)

	require.True(t, res.Wbar.Symmetric(1e-12))
	require.Equal(t, before, off.Off)
}
