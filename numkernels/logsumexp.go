package numkernels

import (
	"fmt"
	"math"
)

// LogSumExp computes log(Σ exp(v[i])) in a numerically stable way:
// max(v) + log(Σ exp(v[i] - max(v))). Stable for any finite real input;
// an empty slice is a recoverable Numerical error rather than a panic.
//
// Complexity: O(len(v)).
func LogSumExp(v []float64) (float64, error) {
	if len(v) == 0 {
		return 0, fmt.Errorf("numkernels.LogSumExp: %w", ErrEmptyInput)
	}

	maxV := v[0]
	for _, x := range v[1:] {
		if x > maxV {
			maxV = x
		}
	}
	if math.IsInf(maxV, -1) {
		// Every element is -Inf: the sum of exponentials is 0.
		return math.Inf(-1), nil
	}

	var sum float64
	for _, x := range v {
		sum += math.Exp(x - maxV)
	}

	return maxV + math.Log(sum), nil
}
