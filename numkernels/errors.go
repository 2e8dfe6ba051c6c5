// Package numkernels provides the small set of numeric primitives every
// higher-level kernel in this module builds on: a numerically stable
// log-sum-exp, standard normal tail probabilities (needed to convert
// p-values to/from z-scores), a regularised symmetric pseudo-inverse used by
// RAISS imputation, and the monotone window-rank sweep the clumper uses to
// collect each peak's locus window.
//
// The heavy lifting lives in the matrix package (matrix.Eigen, Dense);
// this package layers the statistics-specific behavior on top.
package numkernels

import "errors"

// ErrEmptyInput is returned by LogSumExp when given a zero-length slice.
var ErrEmptyInput = errors.New("numkernels: empty input")

// ErrPinvExhausted is returned by SymmetricPinv after the retry budget
// (lam *= 1.1, rtol *= 1.1, up to maxPinvRetries attempts) is exhausted
// without a converging eigendecomposition.
var ErrPinvExhausted = errors.New("numkernels: symmetric pinv exhausted retries")

// ErrCancelled is returned by SymmetricPinv when its abort channel fires
// before a retry completes.
var ErrCancelled = errors.New("numkernels: cancelled")
