package vkmcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildError_AsAndString(t *testing.T) {
	err := NewBuildError(DuplicateInteraction, "interaction %d already present", 7)
	be, ok := AsBuildError(err)
	require.True(t, ok)
	require.Equal(t, DuplicateInteraction, be.Kind)
	require.Contains(t, err.Error(), "duplicate_interaction_during_translation")
}

func TestInvariantViolation_DoesNotMatchBuildError(t *testing.T) {
	err := NewInvariantViolation(VacancyCountNotOne, "found %d vacancies", 2)
	_, ok := AsBuildError(err)
	require.False(t, ok)
	iv, ok := AsInvariantViolation(err)
	require.True(t, ok)
	require.Equal(t, VacancyCountNotOne, iv.Kind)
}

func TestOracleError(t *testing.T) {
	err := NewOracleError(OracleTimeout, "jump %d", 3)
	oe, ok := AsOracleError(err)
	require.True(t, ok)
	require.Equal(t, OracleTimeout, oe.Kind)
}

func TestAbsorbingIsNotAnError(t *testing.T) {
	require.True(t, IsAbsorbing(ErrAbsorbing))
	require.False(t, IsAbsorbing(errors.New("other")))
}
