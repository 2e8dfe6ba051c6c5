package coloc

import "errors"

// ErrNoOverlap is returned when pair.Rows is empty: there is no shared
// tag variant to colocalise over.
var ErrNoOverlap = errors.New("coloc: overlap pair has no shared tag variants")
