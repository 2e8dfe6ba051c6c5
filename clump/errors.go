package clump

import "errors"

// ErrUnsorted is returned when the input records are not sorted ascending
// by (chromosome, position), the ordering Clump requires.
var ErrUnsorted = errors.New("clump: records not sorted by (chromosome, position)")
