package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

func TestNew_FindsVacancy(t *testing.T) {
	st, err := New([]int{0, 1, 2, 1}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, st.VacSite)
}

func TestNew_RejectsMissingVacancy(t *testing.T) {
	_, err := New([]int{0, 1, 0, 1}, 2)
	require.Error(t, err)
	iv, ok := vkmcerr.AsInvariantViolation(err)
	require.True(t, ok)
	require.Equal(t, vkmcerr.VacancyCountNotOne, iv.Kind)
}

func TestNew_RejectsDuplicateVacancy(t *testing.T) {
	_, err := New([]int{2, 1, 2, 1}, 2)
	require.Error(t, err)
	iv, ok := vkmcerr.AsInvariantViolation(err)
	require.True(t, ok)
	require.Equal(t, vkmcerr.VacancyCountNotOne, iv.Kind)
}

func TestLocationTable_MoveKeepsListsConsistent(t *testing.T) {
	st, err := New([]int{0, 1, 2, 1}, 2)
	require.NoError(t, err)
	lt := BuildLocationTable(st, 3)

	require.Equal(t, []int{0}, lt.Sites(0))
	require.ElementsMatch(t, []int{1, 3}, lt.Sites(1))
	require.Equal(t, []int{2}, lt.Sites(2))

	lt.Move(2, 2, 0)
	require.Equal(t, 0, lt.Count(2))
	require.ElementsMatch(t, []int{0, 2}, lt.Sites(0))
}

func TestOffSite_BuildAndRecount(t *testing.T) {
	tbl := &interaction.Tables{
		NumSites: []int{1, 1},
		SupSites: [][]int{{0}, {1}},
		SpecOn:   [][]int{{1}, {0}},
		Energy:   []float64{-1, 2},
	}
	st, err := New([]int{1, 2, 0}, 2)
	require.NoError(t, err)

	off := Build(tbl, st)
	require.Equal(t, []int{0, 1}, off.Off)
	require.Equal(t, -1.0, off.Energy)
	require.NoError(t, off.Recount(tbl, st))

	st.Species[1] = 0
	err = off.Recount(tbl, st)
	require.Error(t, err)
	iv, ok := vkmcerr.AsInvariantViolation(err)
	require.True(t, ok)
	require.Equal(t, vkmcerr.OffCountMismatchAfterSweep, iv.Kind)
}
