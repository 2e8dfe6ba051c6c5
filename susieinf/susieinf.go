package susieinf

import (
	"fmt"
	"math"
	"sort"

	"github.com/locusmap/statgen-core/matrix"
)

// VarEstimator selects how the per-effect prior variance is re-estimated
// each outer iteration.
type VarEstimator string

const (
	Moments VarEstimator = "moments"
	MLE     VarEstimator = "MLE"
)

// Default fitting parameters.
const (
	defaultL                   = 10
	defaultMaxIter             = 100
	defaultTol                 = 1e-3
	defaultCredibleSetCoverage = 0.95
)

// Params configures Fit. A zero value is filled in with the documented
// defaults.
type Params struct {
	L                   int
	VarEstimator        VarEstimator
	MaxIter             int
	Tol                 float64
	CredibleSetCoverage float64
}

func (p Params) withDefaults() Params {
	if p.L <= 0 {
		p.L = defaultL
	}
	if p.VarEstimator == "" {
		p.VarEstimator = Moments
	}
	if p.MaxIter <= 0 {
		p.MaxIter = defaultMaxIter
	}
	if p.Tol <= 0 {
		p.Tol = defaultTol
	}
	if p.CredibleSetCoverage <= 0 {
		p.CredibleSetCoverage = defaultCredibleSetCoverage
	}
	return p
}

// Result is the fitted SuSiE model: L×n posterior inclusion
// probabilities and log Bayes factors, the per-variant PIP, and one
// credible set of variant indices per effect.
type Result struct {
	Alpha        [][]float64
	Mu           [][]float64
	LbfVariable  [][]float64
	Pip          []float64
	CredibleSets [][]int
	Iterations   int
	Converged    bool
}

// Fit runs the iterative sum-of-single-effects regression against
// z-scores z and LD correlation matrix r, checking abort at each outer
// iteration boundary.
func Fit(z []float64, r *matrix.Dense, params Params, abort <-chan struct{}) (Result, error) {
	n := len(z)
	if err := matrix.ValidateNotNil(r); err != nil {
		return Result{}, fmt.Errorf("susieinf.Fit: %w", err)
	}
	if r.Rows() != n || r.Cols() != n {
		return Result{}, fmt.Errorf("susieinf.Fit: %w", ErrDimensionMismatch)
	}
	params = params.withDefaults()
	l := params.L

	alpha := make([][]float64, l)
	mu := make([][]float64, l)
	lbfVariable := make([][]float64, l)
	priorVar := make([]float64, l)
	initVar := sampleVariance(z)
	for e := 0; e < l; e++ {
		alpha[e] = uniform(n)
		mu[e] = make([]float64, n)
		lbfVariable[e] = make([]float64, n)
		priorVar[e] = initVar
	}

	iterations := 0
	converged := false

outer:
	for iter := 0; iter < params.MaxIter; iter++ {
		select {
		case <-abort:
			return Result{}, fmt.Errorf("susieinf.Fit: %w", ErrCancelled)
		default:
		}
		iterations = iter + 1

		maxAlphaDiff := 0.0
		maxVarDelta := 0.0

		for e := 0; e < l; e++ {
			residual, err := partialResidual(z, r, alpha, mu, e)
			if err != nil {
				return Result{}, fmt.Errorf("susieinf.Fit: %w", err)
			}

			newAlpha, newMu, newVar, lbf := singleEffectRegression(residual, r, priorVar[e])

			for j := 0; j < n; j++ {
				if d := math.Abs(newAlpha[j] - alpha[e][j]); d > maxAlphaDiff {
					maxAlphaDiff = d
				}
			}

			updatedVar := reestimateVariance(params.VarEstimator, newAlpha, newMu, newVar, priorVar[e])
			if d := math.Abs(updatedVar - priorVar[e]); d > maxVarDelta {
				maxVarDelta = d
			}

			alpha[e] = newAlpha
			mu[e] = newMu
			lbfVariable[e] = lbf
			priorVar[e] = updatedVar
		}

		if maxAlphaDiff < params.Tol && maxVarDelta < params.Tol {
			converged = true
			break outer
		}
	}

	pip := make([]float64, n)
	for j := 0; j < n; j++ {
		prodNotCausal := 1.0
		for e := 0; e < l; e++ {
			prodNotCausal *= 1 - alpha[e][j]
		}
		pip[j] = 1 - prodNotCausal
	}

	sets := make([][]int, l)
	for e := 0; e < l; e++ {
		sets[e] = credibleSet(alpha[e], params.CredibleSetCoverage)
	}

	return Result{
		Alpha:        alpha,
		Mu:           mu,
		LbfVariable:  lbfVariable,
		Pip:          pip,
		CredibleSets: sets,
		Iterations:   iterations,
		Converged:    converged,
	}, nil
}

// partialResidual subtracts R times the expected contribution of every
// effect other than skip from z, yielding the residual the skipped
// effect is refit against.
func partialResidual(z []float64, r *matrix.Dense, alpha, mu [][]float64, skip int) ([]float64, error) {
	n := len(z)
	combined := make([]float64, n)
	for e := range alpha {
		if e == skip {
			continue
		}
		for j := 0; j < n; j++ {
			combined[j] += alpha[e][j] * mu[e][j]
		}
	}

	rCombined, err := matrix.MatVec(r, combined)
	if err != nil {
		return nil, err
	}
	residual := make([]float64, n)
	for j := 0; j < n; j++ {
		residual[j] = z[j] - rCombined[j]
	}
	return residual, nil
}

// singleEffectRegression computes the per-variant log Bayes factor from
// residual and R's diagonal, the softmax posterior inclusion
// probabilities, and the posterior mean/variance of the single-effect
// coefficient, following a Wakefield approximate Bayes factor with prior
// variance priorVar.
func singleEffectRegression(residual []float64, r *matrix.Dense, priorVar float64) (alpha, mu, postVar, lbf []float64) {
	n := len(residual)
	lbf = make([]float64, n)
	mu = make([]float64, n)
	postVar = make([]float64, n)

	for j := 0; j < n; j++ {
		rjj, _ := r.At(j, j)
		if rjj <= 0 {
			rjj = 1
		}
		shrink := priorVar / (priorVar + rjj)
		lbf[j] = 0.5*math.Log(1-shrink) + 0.5*shrink*residual[j]*residual[j]
		mu[j] = shrink * residual[j]
		postVar[j] = shrink * rjj
	}
	alpha = softmax(lbf)
	return alpha, mu, postVar, lbf
}

// reestimateVariance updates the per-effect prior variance either by the
// method of moments (the posterior second moment of the effect) or by a
// single damped Newton step toward it, approximating the MLE update.
func reestimateVariance(estimator VarEstimator, alpha, mu, postVar []float64, current float64) float64 {
	var moment float64
	for j := range alpha {
		moment += alpha[j] * (mu[j]*mu[j] + postVar[j])
	}
	if moment < 0 {
		moment = 0
	}

	switch estimator {
	case MLE:
		const step = 0.5
		return current + step*(moment-current)
	default:
		return moment
	}
}

func softmax(v []float64) []float64 {
	n := len(v)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	maxV := v[0]
	for _, x := range v[1:] {
		if x > maxV {
			maxV = x
		}
	}
	var sum float64
	for i, x := range v {
		e := math.Exp(x - maxV)
		out[i] = e
		sum += e
	}
	if sum == 0 {
		return uniform(n)
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	v := 1.0 / float64(n)
	for i := range out {
		out[i] = v
	}
	return out
}

func sampleVariance(v []float64) float64 {
	if len(v) == 0 {
		return 1
	}
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	var sq float64
	for _, x := range v {
		d := x - mean
		sq += d * d
	}
	variance := sq / float64(len(v))
	if variance <= 0 {
		return 1
	}
	return variance
}

// credibleSet returns the smallest index set, ordered by descending
// alpha, whose summed alpha reaches coverage.
func credibleSet(alpha []float64, coverage float64) []int {
	idx := make([]int, len(alpha))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return alpha[idx[i]] > alpha[idx[j]] })

	var sum float64
	var set []int
	for _, j := range idx {
		set = append(set, j)
		sum += alpha[j]
		if sum >= coverage {
			break
		}
	}
	return set
}
