// Package matrix provides core matrix operations validators to ensure
// matrices meet required shape constraints before computation.
package matrix

import (
	"fmt"
	"math"
)

// ValidateNotNil ensures the Matrix is non-nil.
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return fmt.Errorf("ValidateNotNil: %w", ErrNilMatrix)
	}
	return nil
}

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateSameShape checks that a and b have identical dimensions.
// Stage 1 (Validate): nil-checks via ValidateNotNil.
// Stage 2 (Prepare): retrieve dims.
// Stage 3 (Execute): compare rows and cols.
// Stage 4 (Finalize): return nil or wrapped ErrDimensionMismatch.
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	// Stage 1: Validate non-nil
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateSameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateSameShape", err)
	}

	// Stage 2: Prepare local dimension variables
	rowsA, colsA := a.Rows(), a.Cols() // number of rows and cols in a
	rowsB, colsB := b.Rows(), b.Cols() // number of rows and cols in b

	// Stage 3: Execute comparisons
	if rowsA != rowsB {
		return validatorErrorf(
			"ValidateSameShape",
			fmt.Errorf("row count mismatch %d != %d: %w", rowsA, rowsB, ErrDimensionMismatch),
		)
	}
	if colsA != colsB {
		return validatorErrorf(
			"ValidateSameShape",
			fmt.Errorf("column count mismatch %d != %d: %w", colsA, colsB, ErrDimensionMismatch),
		)
	}

	// Stage 4: OK
	return nil
}

// ValidateSquare checks that m is square (Rows == Cols).
// Stage 1 (Validate): nil-check via ValidateNotNil.
// Stage 2 (Prepare): retrieve dims.
// Stage 3 (Execute): compare rows vs cols.
// Stage 4 (Finalize): return nil or wrapped ErrDimensionMismatch.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	// Stage 1: Validate non-nil
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquare", err)
	}

	// Stage 2: Prepare local dimension variables
	r, c := m.Rows(), m.Cols()

	// Stage 3: Execute comparison
	if r != c {
		return validatorErrorf(
			"ValidateSquare",
			fmt.Errorf("%dx%d not square: %w", r, c, ErrDimensionMismatch),
		)
	}

	// Stage 4: OK
	return nil
}

// ValidateSymmetric checks that m is square and that |m[i][j]-m[j][i]| <= tol
// for every off-diagonal pair. Required before Eigen, since Jacobi rotation
// assumes a symmetric input and silently produces garbage otherwise.
// Stage 1 (Validate): nil-check and square-check.
// Stage 2 (Prepare): retrieve dimension.
// Stage 3 (Execute): scan upper triangle, compare against transpose entry.
// Stage 4 (Finalize): return nil or wrapped ErrAsymmetry.
// Complexity: O(n^2).
func ValidateSymmetric(m Matrix, tol float64) error {
	// Stage 1: Validate non-nil and square
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}

	// Stage 2: Prepare dimension
	n := m.Rows()

	// Stage 3: Execute pairwise comparison over the upper triangle
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			aij, err := m.At(i, j)
			if err != nil {
				return validatorErrorf("ValidateSymmetric", err)
			}
			aji, err := m.At(j, i)
			if err != nil {
				return validatorErrorf("ValidateSymmetric", err)
			}
			if math.Abs(aij-aji) > tol {
				return validatorErrorf(
					"ValidateSymmetric",
					fmt.Errorf("m[%d][%d]=%g != m[%d][%d]=%g (tol=%g): %w", i, j, aij, j, i, aji, tol, ErrAsymmetry),
				)
			}
		}
	}

	// Stage 4: OK
	return nil
}

// ValidateVecLen checks that x has exactly n elements.
// Stage 2 (Prepare): read len(x).
// Stage 3 (Execute): compare against n.
// Stage 4 (Finalize): return nil or wrapped ErrDimensionMismatch.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	// Stage 2: Prepare
	got := len(x)

	// Stage 3: Execute comparison
	if got != n {
		return validatorErrorf(
			"ValidateVecLen",
			fmt.Errorf("vector length %d != %d: %w", got, n, ErrDimensionMismatch),
		)
	}

	// Stage 4: OK
	return nil
}
