// Package matrix provides the dense linear-algebra primitives that every
// numeric kernel in this module is built on: matrix and matrix-vector
// products and a symmetric Jacobi eigendecomposition.
//
// Dense is the sole concrete implementation; it stores elements in a
// flat row-major slice and enforces a NaN/Inf write policy so bad floats
// surface at the point of entry rather than three kernels downstream.
// The kernels in this package accept the Matrix interface; numkernels,
// raiss, and susieinf take and pass *Dense values.
package matrix
