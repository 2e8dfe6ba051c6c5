package susieinf

import "errors"

// ErrDimensionMismatch is returned when r is not n×n for z's length n.
var ErrDimensionMismatch = errors.New("susieinf: R must be n×n for len(z) == n")

// ErrCancelled is returned when abort fires before convergence.
var ErrCancelled = errors.New("susieinf: fit cancelled before convergence")
