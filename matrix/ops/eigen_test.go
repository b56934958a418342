package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/matrix"
)

// TestEigen_Identity checks that the identity matrix has eigenvalue 1 with
// multiplicity n, the case the Reynolds-operator stabiliser hits when a
// cluster's stabiliser is trivial.
func TestEigen_Identity(t *testing.T) {
	id, err := matrix.Identity(3)
	require.NoError(t, err)

	eigs, _, err := Eigen(id, 1e-9, 100)
	require.NoError(t, err)
	for _, v := range eigs {
		require.InDelta(t, 1.0, v, 1e-9)
	}
}

// TestEigen_Projection checks a rank-1 projector has eigenvalues {1, 0, 0},
// matching the shape of a Reynolds operator for a stabiliser that fixes
// exactly one cartesian direction.
func TestEigen_Projection(t *testing.T) {
	p, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	require.NoError(t, p.Set(0, 0, 1))

	eigs, _, err := Eigen(p, 1e-9, 100)
	require.NoError(t, err)

	ones, zeros := 0, 0
	for _, v := range eigs {
		switch {
		case v > 0.5:
			ones++
		default:
			zeros++
		}
	}
	require.Equal(t, 1, ones)
	require.Equal(t, 2, zeros)
}

func TestEigen_NonSquareRejected(t *testing.T) {
	d, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	_, _, err = Eigen(d, 1e-9, 10)
	require.ErrorIs(t, err, matrix.ErrMatrixDimensionMismatch)
}

func TestEigen_AsymmetricRejected(t *testing.T) {
	d, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, d.Set(0, 1, 1))
	require.NoError(t, d.Set(1, 0, -1))

	_, _, err = Eigen(d, 1e-9, 10)
	require.ErrorIs(t, err, ErrNotSymmetric)
}
