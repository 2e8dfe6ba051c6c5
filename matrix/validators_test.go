package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/matrix"
)

func TestValidateNotNil(t *testing.T) {
	assert.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)

	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	assert.NoError(t, matrix.ValidateNotNil(m))
}

func TestValidateSameShape(t *testing.T) {
	a, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	b, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	c, err := matrix.NewDense(3, 2)
	require.NoError(t, err)

	assert.NoError(t, matrix.ValidateSameShape(a, b))
	assert.ErrorIs(t, matrix.ValidateSameShape(a, c), matrix.ErrDimensionMismatch)
}

func TestValidateSquare(t *testing.T) {
	sq, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	rect, err := matrix.NewDense(3, 2)
	require.NoError(t, err)

	assert.NoError(t, matrix.ValidateSquare(sq))
	assert.ErrorIs(t, matrix.ValidateSquare(rect), matrix.ErrDimensionMismatch)
}

func TestValidateSymmetric(t *testing.T) {
	sym, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, sym.Set(0, 1, 3.0))
	require.NoError(t, sym.Set(1, 0, 3.0))
	assert.NoError(t, matrix.ValidateSymmetric(sym, 1e-9))

	asym, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, asym.Set(0, 1, 3.0))
	require.NoError(t, asym.Set(1, 0, -3.0))
	assert.ErrorIs(t, matrix.ValidateSymmetric(asym, 1e-9), matrix.ErrAsymmetry)
}

func TestValidateSymmetric_RejectsNonSquare(t *testing.T) {
	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, matrix.ValidateSymmetric(rect, 1e-9), matrix.ErrDimensionMismatch)
}

func TestValidateVecLen(t *testing.T) {
	assert.NoError(t, matrix.ValidateVecLen([]float64{1, 2, 3}, 3))
	assert.ErrorIs(t, matrix.ValidateVecLen([]float64{1, 2}, 3), matrix.ErrDimensionMismatch)
}
