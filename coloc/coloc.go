package coloc

import (
	"fmt"
	"math"

	"github.com/locusmap/statgen-core/numkernels"
	"github.com/locusmap/statgen-core/studylocus"
)

// Default per-variant priors: causal in one study (1e-4 each side),
// shared causal variant (1e-5).
const (
	defaultPriorC1  float64 = 1e-4
	defaultPriorC2  float64 = 1e-4
	defaultPriorC12 float64 = 1e-5
)

// Priors configures Colocalise. A zero value is filled in with the
// documented defaults.
type Priors struct {
	PriorC1  float64
	PriorC2  float64
	PriorC12 float64
}

func (p Priors) withDefaults() Priors {
	if p.PriorC1 <= 0 {
		p.PriorC1 = defaultPriorC1
	}
	if p.PriorC2 <= 0 {
		p.PriorC2 = defaultPriorC2
	}
	if p.PriorC12 <= 0 {
		p.PriorC12 = defaultPriorC12
	}
	return p
}

// Colocalise computes the single-causal-variant COLOC posterior
// probabilities H0..H4 for pair. Missing per-variant logABF values are
// filled with 0 before summing.
func Colocalise(pair studylocus.OverlapPair, priors Priors) (studylocus.ColocResult, error) {
	if len(pair.Rows) == 0 {
		return studylocus.ColocResult{}, fmt.Errorf("coloc.Colocalise: %w", ErrNoOverlap)
	}
	priors = priors.withDefaults()

	left := make([]float64, len(pair.Rows))
	right := make([]float64, len(pair.Rows))
	sum := make([]float64, len(pair.Rows))
	for i, row := range pair.Rows {
		if row.LeftLogABF != nil {
			left[i] = *row.LeftLogABF
		}
		if row.RightLogABF != nil {
			right[i] = *row.RightLogABF
		}
		sum[i] = left[i] + right[i]
	}

	logsum1, err := numkernels.LogSumExp(left)
	if err != nil {
		return studylocus.ColocResult{}, fmt.Errorf("coloc.Colocalise: %w", err)
	}
	logsum2, err := numkernels.LogSumExp(right)
	if err != nil {
		return studylocus.ColocResult{}, fmt.Errorf("coloc.Colocalise: %w", err)
	}
	logsum12, err := numkernels.LogSumExp(sum)
	if err != nil {
		return studylocus.ColocResult{}, fmt.Errorf("coloc.Colocalise: %w", err)
	}

	sumlogsum := logsum1 + logsum2

	lH0 := 0.0
	lH1 := math.Log(priors.PriorC1) + logsum1
	lH2 := math.Log(priors.PriorC2) + logsum2
	lH4 := math.Log(priors.PriorC12) + logsum12

	// The H3 evidence exp(L1+L2) - exp(L12) vanishes exactly when the
	// overlap is a single shared variant (L1+L2 == L12). The reference
	// filters the term out of the sum for that case rather than failing
	// the pair, so the posterior mass is normalised over the remaining
	// hypotheses with h3 = 0.
	all := []float64{lH0, lH1, lH2, lH4}
	lH3 := math.Inf(-1)
	if sumlogsum != logsum12 {
		lH3 = math.Log(priors.PriorC1) + math.Log(priors.PriorC2) + logDiff(sumlogsum, logsum12)
		all = append(all, lH3)
	}

	logDenom, err := numkernels.LogSumExp(all)
	if err != nil {
		return studylocus.ColocResult{}, fmt.Errorf("coloc.Colocalise: %w", err)
	}

	h := make([]float64, 5)
	for i, l := range []float64{lH0, lH1, lH2, lH3, lH4} {
		h[i] = math.Exp(l - logDenom)
	}

	return studylocus.ColocResult{
		LeftStudyLocusID:  pair.LeftStudyLocusID,
		RightStudyLocusID: pair.RightStudyLocusID,
		ColocNVars:        len(pair.Rows),
		H0:                h[0],
		H1:                h[1],
		H2:                h[2],
		H3:                h[3],
		H4:                h[4],
		Log2H4H3:          math.Log2(h[4] / h[3]),
		Method:            "COLOC",
	}, nil
}

// logDiff computes max(a,b) + log(exp(a-max) - exp(b-max)), the stable
// form of log(exp(a) - exp(b)) used for the H3 log-evidence term.
func logDiff(a, b float64) float64 {
	m := math.Max(a, b)
	return m + math.Log(math.Exp(a-m)-math.Exp(b-m))
}

// ColocaliseECaviar computes the eCAVIAR colocalisation posterior
// probability (CLPP): the sum, over shared tag variants, of the product
// of each side's marginal posterior probability.
func ColocaliseECaviar(pair studylocus.OverlapPair) (studylocus.ColocResult, error) {
	if len(pair.Rows) == 0 {
		return studylocus.ColocResult{}, fmt.Errorf("coloc.ColocaliseECaviar: %w", ErrNoOverlap)
	}

	var clpp float64
	for _, row := range pair.Rows {
		var lpp, rpp float64
		if row.LeftPosteriorProbability != nil {
			lpp = *row.LeftPosteriorProbability
		}
		if row.RightPosteriorProbability != nil {
			rpp = *row.RightPosteriorProbability
		}
		clpp += lpp * rpp
	}

	return studylocus.ColocResult{
		LeftStudyLocusID:  pair.LeftStudyLocusID,
		RightStudyLocusID: pair.RightStudyLocusID,
		ColocNVars:        len(pair.Rows),
		CLPP:              clpp,
		Method:            "eCAVIAR",
	}, nil
}
