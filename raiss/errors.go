package raiss

import "errors"

// ErrDimensionMismatch is returned when zt's length does not match
// sigmaTT's dimension, or sigmaIT's column count does not match it.
var ErrDimensionMismatch = errors.New("raiss: dimension mismatch between zt, sigmaTT and sigmaIT")
