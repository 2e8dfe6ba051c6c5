package raiss

import (
	"errors"
	"fmt"
	"math"

	"github.com/locusmap/statgen-core/matrix"
	"github.com/locusmap/statgen-core/numkernels"
)

// Default regularisation parameters.
const (
	defaultLambda float64 = 0.01
	defaultRtol   float64 = 0.01
)

// Params configures Impute. A zero value is filled in with the documented
// defaults.
type Params struct {
	Lambda float64
	Rtol   float64
}

func (p Params) withDefaults() Params {
	if p.Lambda <= 0 {
		p.Lambda = defaultLambda
	}
	if p.Rtol <= 0 {
		p.Rtol = defaultRtol
	}
	return p
}

// Result is the per-unobserved-variant imputation outcome. Mu and R2 are
// nil when the underlying pseudo-inverse could not be computed within the
// retry budget.
type Result struct {
	Mu               []float64
	Var              []float64
	R2               []float64
	LdScore          []float64
	ConditionNumber  float64
	CorrectInversion bool
}

// Impute derives imputed z-scores at U unobserved positions from K
// observed z-scores zt, the K×K observed-observed LD matrix sigmaTT and
// the U×K unobserved-observed LD matrix sigmaIT. The abort channel is
// forwarded to the pseudo-inverse retry loop; a nil channel never
// aborts.
func Impute(zt []float64, sigmaTT, sigmaIT *matrix.Dense, params Params, abort <-chan struct{}) (Result, error) {
	if err := matrix.ValidateNotNil(sigmaTT); err != nil {
		return Result{}, fmt.Errorf("raiss.Impute: %w", err)
	}
	if err := matrix.ValidateNotNil(sigmaIT); err != nil {
		return Result{}, fmt.Errorf("raiss.Impute: %w", err)
	}
	k := sigmaTT.Rows()
	if len(zt) != k || sigmaIT.Cols() != k {
		return Result{}, fmt.Errorf("raiss.Impute: %w", ErrDimensionMismatch)
	}
	u := sigmaIT.Rows()
	params = params.withDefaults()

	sigmaTTInv, correctInversion, err := numkernels.SymmetricPinv(sigmaTT, params.Lambda, params.Rtol, abort)
	if err != nil {
		if errors.Is(err, numkernels.ErrCancelled) {
			return Result{}, fmt.Errorf("raiss.Impute: %w", err)
		}
		// Unrecoverable inversion degenerates to an empty result rather
		// than failing the batch.
		return Result{Mu: nil}, nil
	}

	mu, err := computeMu(sigmaIT, sigmaTTInv, zt)
	if err != nil {
		return Result{}, fmt.Errorf("raiss.Impute: %w", err)
	}

	varRaw, err := computeVar(sigmaIT, sigmaTTInv, params.Lambda)
	if err != nil {
		return Result{}, fmt.Errorf("raiss.Impute: %w", err)
	}

	r2 := make([]float64, u)
	adjustedMu := make([]float64, u)
	for i := 0; i < u; i++ {
		normed := varInBoundaries(varRaw[i], params.Lambda)
		r2i := 1 - normed/(1+params.Lambda)
		r2[i] = r2i
		if r2i <= 0 {
			adjustedMu[i] = 0
			continue
		}
		adjustedMu[i] = mu[i] / math.Sqrt(r2i)
	}

	ldScore := make([]float64, u)
	for i := 0; i < u; i++ {
		var sum float64
		for j := 0; j < k; j++ {
			v, _ := sigmaIT.At(i, j)
			sum += v * v
		}
		ldScore[i] = sum
	}

	return Result{
		Mu:               adjustedMu,
		Var:              varRaw,
		R2:               r2,
		LdScore:          ldScore,
		ConditionNumber:  conditionNumber(sigmaTT),
		CorrectInversion: correctInversion,
	}, nil
}

// computeMu is the two-stage contraction mu = sigmaIT . sigmaTTInv . zt.
func computeMu(sigmaIT, sigmaTTInv *matrix.Dense, zt []float64) ([]float64, error) {
	inner, err := matrix.MatVec(sigmaTTInv, zt)
	if err != nil {
		return nil, err
	}
	return matrix.MatVec(sigmaIT, inner)
}

// computeVar evaluates the per-row contraction
// sum_{j,k} sigmaIT[i,j] * sigmaTTInv[j,k] * sigmaIT[i,k] as a direct
// triple loop, returning (1+lam) minus it per row i.
func computeVar(sigmaIT, sigmaTTInv *matrix.Dense, lam float64) ([]float64, error) {
	u, k := sigmaIT.Rows(), sigmaIT.Cols()
	out := make([]float64, u)
	for i := 0; i < u; i++ {
		var sum float64
		for j := 0; j < k; j++ {
			sij, err := sigmaIT.At(i, j)
			if err != nil {
				return nil, err
			}
			for kk := 0; kk < k; kk++ {
				tjk, err := sigmaTTInv.At(j, kk)
				if err != nil {
					return nil, err
				}
				sik, err := sigmaIT.At(i, kk)
				if err != nil {
					return nil, err
				}
				sum += sij * tjk * sik
			}
		}
		out[i] = (1 + lam) - sum
	}
	return out, nil
}

// varInBoundaries clamps a raw variance estimate to [0, 1+lam], guarding
// against the small negative or over-large values that fall out of the
// truncated-eigenbasis reconstruction.
func varInBoundaries(v, lam float64) float64 {
	upper := 1 + lam
	if v < 0 {
		return 0
	}
	if v > upper {
		return upper
	}
	return v
}

// conditionNumber is max(eigs)/min(eigs) of sigmaTT's eigendecomposition,
// reported alongside CorrectInversion as a diagnostic of how ill-posed the
// observed LD block was.
func conditionNumber(sigmaTT *matrix.Dense) float64 {
	eigs, _, err := matrix.Eigen(sigmaTT, 1e-10, 200)
	if err != nil || len(eigs) == 0 {
		return math.Inf(1)
	}
	minEig, maxEig := eigs[0], eigs[0]
	for _, e := range eigs[1:] {
		if e < minEig {
			minEig = e
		}
		if e > maxEig {
			maxEig = e
		}
	}
	if minEig == 0 {
		return math.Inf(1)
	}
	return maxEig / minEig
}
