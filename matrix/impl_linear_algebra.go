// SPDX-License-Identifier: MIT
// Package matrix: the three dense linear-algebra kernels the statistical
// layers above are built on. Mul carries the pseudo-inverse post-condition
// check and MatVec the RAISS/SuSiE contractions; Eigen is the Jacobi
// decomposition behind the regularised symmetric pseudo-inverse.
//
// Purpose:
//   - Keep the numeric kernels in one file, behind the central validators.
//   - All kernels are deterministic: fixed loop and pivot order, no
//     randomised starts, so repeated runs on the same input are bit-equal.
//
// Notes:
//   - Every kernel accepts the Matrix interface but takes a flat fast path
//     when the operand is *Dense, which is the only case the callers in
//     this repository produce.
//   - Errors are plain sentinels wrapped once with the operation tag via
//     matrixErrorf; callers match with errors.Is.

package matrix

import (
	"fmt"
	"math"
)

// Operation name constants for unified error wrapping.
const (
	opMul    = "Mul"
	opMatVec = "MatVec"
	opEigen  = "Eigen"
)

// matrixErrorf wraps an underlying error with the given operation tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the matrix product a·b.
//
// Contract:
//   - a, b non-nil; a.Cols() == b.Rows().
//
// Complexity: Time O(r·k·c), Space O(r·c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if a.Cols() != b.Rows() {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	// Fast path: both operands *Dense, multiply over the flat row-major
	// slices in i-k-j order, skipping zero pivots. LD sub-blocks away
	// from the diagonal are mostly zero, so the skip is worthwhile.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for i := 0; i < aRows; i++ {
				rowA := i * aCols
				rowR := i * bCols
				for k := 0; k < aCols; k++ {
					av := da.data[rowA+k]
					if av == 0 {
						continue
					}
					rowB := k * bCols
					for j := 0; j < bCols; j++ {
						res.data[rowR+j] += av * db.data[rowB+j]
					}
				}
			}
			return res, nil
		}
	}

	// Generic path via the interface accessors.
	for i := 0; i < aRows; i++ {
		for j := 0; j < bCols; j++ {
			var acc float64
			for k := 0; k < aCols; k++ {
				av, _ := a.At(i, k)
				if av == 0 {
					continue
				}
				bv, _ := b.At(k, j)
				acc += av * bv
			}
			_ = res.Set(i, j, acc)
		}
	}

	return res, nil
}

// MatVec returns the matrix-vector product m·x as a fresh slice. This is
// the workhorse of the per-effect residual updates in SuSiE and of the
// mu = Σ_it · Σ_tt⁻¹ · z contraction in RAISS.
//
// Contract:
//   - m non-nil; len(x) == m.Cols().
//
// Complexity: Time O(r·c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	if d, ok := m.(*Dense); ok {
		for i := 0; i < d.r; i++ {
			base := i * d.c
			var acc float64
			for j := 0; j < d.c; j++ {
				if xv := x[j]; xv != 0 {
					acc += d.data[base+j] * xv
				}
			}
			y[i] = acc
		}
		return y, nil
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			mv, _ := m.At(i, j)
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// Eigen performs a Jacobi eigendecomposition of the symmetric matrix m,
// returning the eigenvalues and the orthogonal eigenvector matrix Q
// (eigenvectors in columns, paired with the eigenvalues by index). The
// symmetric pseudo-inverse truncates this spectrum; correlation matrices
// of tightly linked variants routinely have near-zero eigenvalues, which
// is exactly the case the truncation exists for.
//
// Contract:
//   - m non-nil, square, symmetric within tol.
//
// Determinism:
//   - The pivot scan walks the upper triangle in fixed i→j order and the
//     rotations are applied in a fixed sequence, so the decomposition is
//     reproducible bit-for-bit on the same input.
//
// Complexity: Time O(maxIter·n³), Space O(n²).
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, Matrix, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	n := m.Rows()
	a := m.Clone()
	q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for i := 0; i < n; i++ {
		_ = q.Set(i, i, 1.0)
	}

	ad, fast := a.(*Dense)

	var p, r int
	var maxOff float64
	for iter := 0; iter < maxIter; iter++ {
		// Pivot: the largest off-diagonal magnitude |A[p,r]|.
		maxOff = 0
		if fast {
			for i := 0; i < n; i++ {
				base := i * n
				for j := i + 1; j < n; j++ {
					if off := math.Abs(ad.data[base+j]); off > maxOff {
						maxOff, p, r = off, i, j
					}
				}
			}
		} else {
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					off, _ := a.At(i, j)
					if off = math.Abs(off); off > maxOff {
						maxOff, p, r = off, i, j
					}
				}
			}
		}

		if maxOff < tol {
			break
		}

		var app, arr, apr float64
		if fast {
			app = ad.data[p*n+p]
			arr = ad.data[r*n+r]
			apr = ad.data[p*n+r]
		} else {
			app, _ = a.At(p, p)
			arr, _ = a.At(r, r)
			apr, _ = a.At(p, r)
		}

		// Rotation angle zeroing A[p,r]:
		// θ = (arr−app)/(2·apr), t = sign(θ)/(|θ|+√(θ²+1)).
		theta := (arr - app) / (2 * apr)
		t := math.Copysign(1.0/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
		c := 1.0 / math.Sqrt(t*t+1)
		s := t * c

		// Apply the rotation to A, keeping it symmetric.
		if fast {
			for i := 0; i < n; i++ {
				if i == p || i == r {
					continue
				}
				aip := ad.data[i*n+p]
				air := ad.data[i*n+r]
				nip := c*aip - s*air
				nir := s*aip + c*air
				ad.data[i*n+p], ad.data[p*n+i] = nip, nip
				ad.data[i*n+r], ad.data[r*n+i] = nir, nir
			}
			ad.data[p*n+p] = c*c*app - 2*c*s*apr + s*s*arr
			ad.data[r*n+r] = s*s*app + 2*c*s*apr + c*c*arr
			ad.data[p*n+r], ad.data[r*n+p] = 0, 0
		} else {
			for i := 0; i < n; i++ {
				if i == p || i == r {
					continue
				}
				aip, _ := a.At(i, p)
				air, _ := a.At(i, r)
				_ = a.Set(i, p, c*aip-s*air)
				_ = a.Set(p, i, c*aip-s*air)
				_ = a.Set(i, r, s*aip+c*air)
				_ = a.Set(r, i, s*aip+c*air)
			}
			_ = a.Set(p, p, c*c*app-2*c*s*apr+s*s*arr)
			_ = a.Set(r, r, s*s*app+2*c*s*apr+c*c*arr)
			_ = a.Set(p, r, 0.0)
			_ = a.Set(r, p, 0.0)
		}

		// Accumulate the rotation into Q.
		for i := 0; i < n; i++ {
			qip, _ := q.At(i, p)
			qir, _ := q.At(i, r)
			_ = q.Set(i, p, c*qip-s*qir)
			_ = q.Set(i, r, s*qip+c*qir)
		}
	}

	// Recompute the off-diagonal maximum: hitting maxIter with rotations
	// still pending means the decomposition did not converge.
	maxOff = 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			off, _ := a.At(i, j)
			if v := math.Abs(off); v > maxOff {
				maxOff = v
			}
		}
	}
	if maxOff >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i := 0; i < n; i++ {
		v, _ := a.At(i, i)
		eigs[i] = v
	}

	return eigs, q, nil
}
