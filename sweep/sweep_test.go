package sweep

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/state"
)

func twoSitePairTables() *interaction.Tables {
	// A single one-site interaction at site 0, "on" iff site 0 carries
	// species 1; this lets us force a deterministic accept/reject outcome.
	tbl := &interaction.Tables{
		NumSites: []int{1},
		SupSites: [][]int{{0}},
		SpecOn:   [][]int{{1}},
		Energy:   []float64{-1},
		Nsites:   3, Nspec: 2,
		NumAtSiteSpec: [][]int{{0, 1}, {0, 0}, {0, 0}},
		AtSiteSpec:    [][][]int{{nil, {0}}, {nil, nil}, {nil, nil}},
	}
	return tbl
}

func TestSweep_AcceptedTrialUpdatesStateAndLocationTable(t *testing.T) {
	tbl := twoSitePairTables()
	st, err := state.New([]int{1, 0, 2}, 2)
	require.NoError(t, err)
	off := state.Build(tbl, st)
	lt := state.BuildLocationTable(st, 3)

	eng, err := New(tbl, 3, 2, 10.0, WithRNG(rand.New(rand.NewSource(42))), WithDebugRecount(true))
	require.NoError(t, err)

	res, err := eng.Sweep(st, off, lt, 200)
	require.NoError(t, err)
	require.Equal(t, 200, res.Trials)
	require.NoError(t, off.Recount(tbl, st))
	for sp := 0; sp < 3; sp++ {
		for _, site := range lt.Sites(sp) {
			require.Equal(t, sp, st.Species[site])
		}
	}
}

func TestEngine_RejectsVacSpecOutOfRange(t *testing.T) {
	tbl := twoSitePairTables()
	_, err := New(tbl, 3, 7, 1.0)
	require.Error(t, err)
}

func TestProbeThenInverseLeavesOffUnchanged(t *testing.T) {
	tbl := twoSitePairTables()
	st, err := state.New([]int{1, 0, 2}, 2)
	require.NoError(t, err)
	off := state.Build(tbl, st)
	before := append([]int(nil), off.Off...)
	beforeE := off.Energy

	eng, err := New(tbl, 3, 2, 1.0)
	require.NoError(t, err)
	eng.probe(off, 0, 1, 1, 0)

	require.Equal(t, before, off.Off)
	require.Equal(t, beforeE, off.Energy)
}
