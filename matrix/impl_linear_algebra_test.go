package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/matrix"
)

func dense(t *testing.T, rows, cols int, vals ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(rows, cols)
	require.NoError(t, err)
	for idx, v := range vals {
		require.NoError(t, m.Set(idx/cols, idx%cols, v))
	}
	return m
}

func TestMul(t *testing.T) {
	a := dense(t, 2, 2, 1, 2, 3, 4)
	b := dense(t, 2, 2, 5, 6, 7, 8)

	res, err := matrix.Mul(a, b)
	require.NoError(t, err)

	// [1 2; 3 4] * [5 6; 7 8] = [19 22; 43 50]
	v, _ := res.At(0, 0)
	assert.Equal(t, 19.0, v)
	v, _ = res.At(0, 1)
	assert.Equal(t, 22.0, v)
	v, _ = res.At(1, 0)
	assert.Equal(t, 43.0, v)
	v, _ = res.At(1, 1)
	assert.Equal(t, 50.0, v)
}

func TestMul_DimensionMismatch(t *testing.T) {
	a := dense(t, 2, 3, 1, 2, 3, 4, 5, 6)
	b := dense(t, 2, 2, 1, 2, 3, 4)

	_, err := matrix.Mul(a, b)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMul_Rectangular(t *testing.T) {
	// Exercise a non-square product: a 1×3 row times a 3×2 matrix.
	a := dense(t, 1, 3, 1, 0, 2)
	b := dense(t, 3, 2, 1, 2, 3, 4, 5, 6)

	res, err := matrix.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows())
	assert.Equal(t, 2, res.Cols())

	v, _ := res.At(0, 0)
	assert.Equal(t, 11.0, v)
	v, _ = res.At(0, 1)
	assert.Equal(t, 14.0, v)
}

func TestMatVec(t *testing.T) {
	a := dense(t, 2, 3, 1, 0, 2, -1, 3, 1)
	x := []float64{2, 1, 0}

	y, err := matrix.MatVec(a, x)
	require.NoError(t, err)

	require.Len(t, y, 2)
	assert.Equal(t, 2.0, y[0]) // 1*2 + 0*1 + 2*0
	assert.Equal(t, 1.0, y[1]) // -1*2 + 3*1 + 1*0
}

func TestMatVec_LengthMismatch(t *testing.T) {
	a := dense(t, 2, 2, 1, 0, 0, 1)
	_, err := matrix.MatVec(a, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestEigen_DiagonalMatrix(t *testing.T) {
	a := dense(t, 3, 3, 2, 0, 0, 0, 5, 0, 0, 0, 9)

	eigs, q, err := matrix.Eigen(a, 1e-9, 100)
	require.NoError(t, err)
	require.NotNil(t, q)

	sorted := append([]float64{}, eigs...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	assert.InDelta(t, 2.0, sorted[0], 1e-6)
	assert.InDelta(t, 5.0, sorted[1], 1e-6)
	assert.InDelta(t, 9.0, sorted[2], 1e-6)
}

func TestEigen_SymmetricMatrix_ReconstructsOriginal(t *testing.T) {
	a := dense(t, 2, 2, 2, 1, 1, 2)

	eigs, q, err := matrix.Eigen(a, 1e-10, 200)
	require.NoError(t, err)

	// A = Q * diag(eigs) * Q^T must hold for a Jacobi decomposition.
	// Q^T is built by hand since transposition is not a kernel this
	// package carries.
	d, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, d.Set(0, 0, eigs[0]))
	require.NoError(t, d.Set(1, 1, eigs[1]))

	qt, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, aerr := q.At(i, j)
			require.NoError(t, aerr)
			require.NoError(t, qt.Set(j, i, v))
		}
	}

	qd, err := matrix.Mul(q, d)
	require.NoError(t, err)
	recon, err := matrix.Mul(qd, qt)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want, _ := a.At(i, j)
			got, _ := recon.At(i, j)
			assert.InDelta(t, want, got, 1e-6)
		}
	}
}

func TestEigen_CorrelationMatrixSpectrum(t *testing.T) {
	// A 2x2 correlation matrix with off-diagonal r has eigenvalues
	// 1+r and 1-r; near-collinear variants push one of them to zero,
	// the case the pseudo-inverse truncation exists for.
	const r = 0.95
	a := dense(t, 2, 2, 1, r, r, 1)

	eigs, _, err := matrix.Eigen(a, 1e-10, 200)
	require.NoError(t, err)

	lo, hi := eigs[0], eigs[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	assert.InDelta(t, 1-r, lo, 1e-9)
	assert.InDelta(t, 1+r, hi, 1e-9)
}

func TestEigen_RejectsAsymmetric(t *testing.T) {
	a := dense(t, 2, 2, 1, 2, 3, 4)

	_, _, err := matrix.Eigen(a, 1e-9, 50)
	assert.ErrorIs(t, err, matrix.ErrAsymmetry)
}
