package credsetqc

import "errors"

// ErrNilStudyIndex is returned when QC is called with a nil study index,
// which would make every UNKNOWN_STUDY check trivially true.
var ErrNilStudyIndex = errors.New("credsetqc: study index must not be nil")
