package harmonise

import "errors"

// ErrInvalidRecord is returned when the record cannot be harmonised:
// pValue == 1, a derived beta of 0, a derived standard error of 0, or a
// NaN anywhere in the computation.
var ErrInvalidRecord = errors.New("harmonise: invalid record")
