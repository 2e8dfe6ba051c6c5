package susieinf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/matrix"
	"github.com/locusmap/statgen-core/susieinf"
)

func identity(t *testing.T, n int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, 1))
	}
	return m
}

func TestFit_SingleStrongSignalConverges(t *testing.T) {
	r := identity(t, 4)
	z := []float64{8.0, 0.1, -0.2, 0.05}

	res, err := susieinf.Fit(z, r, susieinf.Params{L: 1, MaxIter: 200}, nil)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	require.Len(t, res.Pip, 4)
	assert.Greater(t, res.Pip[0], res.Pip[1])
	assert.Greater(t, res.Pip[0], res.Pip[2])
	assert.Greater(t, res.Pip[0], res.Pip[3])

	require.Len(t, res.CredibleSets, 1)
	assert.Contains(t, res.CredibleSets[0], 0)
}

func TestFit_Deterministic(t *testing.T) {
	// Fixed input, fixed iteration order: every per-variant quantity
	// must be bit-identical across runs, for both variance estimators.
	r := identity(t, 4)
	z := []float64{5.0, 1.0, -0.5, 0.2}

	for _, estimator := range []susieinf.VarEstimator{susieinf.Moments, susieinf.MLE} {
		a, err := susieinf.Fit(z, r, susieinf.Params{L: 2, VarEstimator: estimator}, nil)
		require.NoError(t, err)
		b, err := susieinf.Fit(z, r, susieinf.Params{L: 2, VarEstimator: estimator}, nil)
		require.NoError(t, err)

		assert.Equal(t, a.LbfVariable, b.LbfVariable, "estimator %s", estimator)
		assert.Equal(t, a.Pip, b.Pip, "estimator %s", estimator)
		assert.Equal(t, a.CredibleSets, b.CredibleSets, "estimator %s", estimator)
	}
}

func TestFit_PipWithinUnitInterval(t *testing.T) {
	r := identity(t, 5)
	z := []float64{3.0, 2.5, 0.1, -1.0, 0.0}

	res, err := susieinf.Fit(z, r, susieinf.Params{}, nil)
	require.NoError(t, err)
	for i, pip := range res.Pip {
		assert.GreaterOrEqual(t, pip, 0.0, "pip[%d]", i)
		assert.LessOrEqual(t, pip, 1.0, "pip[%d]", i)
	}

	// Each per-effect credible set must reach the coverage threshold.
	for e, cs := range res.CredibleSets {
		var sum float64
		for _, v := range cs {
			sum += res.Alpha[e][v]
		}
		assert.GreaterOrEqual(t, sum, 0.95, "effect %d", e)
	}
}

func TestFit_RejectsDimensionMismatch(t *testing.T) {
	r := identity(t, 3)
	_, err := susieinf.Fit([]float64{1, 2}, r, susieinf.Params{}, nil)
	assert.ErrorIs(t, err, susieinf.ErrDimensionMismatch)
}

func TestFit_HonoursAbort(t *testing.T) {
	r := identity(t, 3)
	abort := make(chan struct{})
	close(abort)
	_, err := susieinf.Fit([]float64{1, 2, 3}, r, susieinf.Params{}, abort)
	assert.ErrorIs(t, err, susieinf.ErrCancelled)
}
