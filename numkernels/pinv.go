package numkernels

import (
	"fmt"
	"math"

	"github.com/locusmap/statgen-core/matrix"
)

// maxPinvRetries bounds the lam *= 1.1, rtol *= 1.1 retry loop.
const maxPinvRetries = 32

// eigenTol and eigenMaxIter configure the internal Jacobi convergence used
// by SymmetricPinv; they are independent of the caller-supplied rtol, which
// instead controls the eigenvalue-truncation threshold below.
const eigenTol = 1e-10
const eigenMaxIter = 200

// SymmetricPinv computes a regularised pseudo-inverse of a symmetric
// correlation-like matrix m. It adds lam to the diagonal (for a
// correlation matrix this gives a diagonal of 1+lam), eigendecomposes via
// matrix.Eigen, truncates eigenvalues
// below rtol*largest, and reconstructs the pseudo-inverse from the
// truncated eigenbasis. On eigendecomposition failure it retries with
// lam*1.1, rtol*1.1 up to maxPinvRetries times.
//
// The abort channel is checked at each retry boundary; a nil channel
// never aborts.
//
// Returns the pseudo-inverse, the allclose(M·M⁺·M, M) post-condition
// boolean (at relative tolerance 1e-5, infinity norm), and an error if the
// retry budget is exhausted or the run was aborted.
//
// Complexity: O(maxIter * n^3) dominated by the Jacobi sweep.
func SymmetricPinv(m *matrix.Dense, lam, rtol float64, abort <-chan struct{}) (*matrix.Dense, bool, error) {
	if m == nil {
		return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", matrix.ErrNilMatrix)
	}
	if err := matrix.ValidateSquare(m); err != nil {
		return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", err)
	}

	n := m.Rows()
	curLam, curRtol := lam, rtol

	for attempt := 0; attempt < maxPinvRetries; attempt++ {
		select {
		case <-abort:
			return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", ErrCancelled)
		default:
		}

		shifted, err := matrix.NewDense(n, n)
		if err != nil {
			return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", err)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v, _ := m.At(i, j)
				if i == j {
					v += curLam
				}
				if err := shifted.Set(i, j, v); err != nil {
					return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", err)
				}
			}
		}

		eigs, q, err := matrix.Eigen(shifted, eigenTol, eigenMaxIter)
		if err != nil {
			curLam *= 1.1
			curRtol *= 1.1
			continue
		}

		maxEig := 0.0
		for _, e := range eigs {
			if e > maxEig {
				maxEig = e
			}
		}
		threshold := curRtol * maxEig

		qd, ok := q.(*matrix.Dense)
		if !ok {
			return nil, false, fmt.Errorf("numkernels.SymmetricPinv: eigenvector matrix is not *matrix.Dense")
		}

		pinv, err := matrix.NewDense(n, n)
		if err != nil {
			return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", err)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var sum float64
				for k := 0; k < n; k++ {
					if eigs[k] <= threshold {
						continue
					}
					qik, _ := qd.At(i, k)
					qjk, _ := qd.At(j, k)
					sum += qik * qjk / eigs[k]
				}
				if err := pinv.Set(i, j, sum); err != nil {
					return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", err)
				}
			}
		}

		okPost := checkInversion(shifted, pinv)
		return pinv, okPost, nil
	}

	return nil, false, fmt.Errorf("numkernels.SymmetricPinv: %w", ErrPinvExhausted)
}

// checkInversion verifies ‖M - M·M⁺·M‖∞ / ‖M‖∞ < 1e-5.
func checkInversion(m, pinv *matrix.Dense) bool {
	const rtol = 1e-5

	mp, err := matrix.Mul(m, pinv)
	if err != nil {
		return false
	}
	mpm, err := matrix.Mul(mp, m)
	if err != nil {
		return false
	}

	n, c := m.Rows(), m.Cols()
	var maxDiff, maxM float64
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			mv, _ := m.At(i, j)
			rv, _ := mpm.At(i, j)
			d := math.Abs(mv - rv)
			if d > maxDiff {
				maxDiff = d
			}
			av := math.Abs(mv)
			if av > maxM {
				maxM = av
			}
		}
	}
	if maxM == 0 {
		return maxDiff < rtol
	}
	return maxDiff/maxM < rtol
}
