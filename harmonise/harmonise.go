package harmonise

import (
	"fmt"
	"math"
	"strings"

	"github.com/locusmap/statgen-core/numkernels"
	"github.com/locusmap/statgen-core/studylocus"
)

// z9590 is the 95% two-sided z critical value used for every confidence
// interval this package produces.
const z9590 = 1.96

// Input is one record to harmonise: the variant's alleles, the risk
// allele the effect was measured on, the raw effect size (interpreted as
// beta or odds-ratio depending on ConfidenceIntervalText), the free-text
// confidence-interval description, and the p-value split as
// mantissa/exponent per the SummaryRecord contract.
type Input struct {
	ReferenceAllele        string
	AlternateAllele        string
	RiskAllele             string
	EffectSize             float64
	ConfidenceIntervalText string
	PValueMantissa         float64
	PValueExponent         int
}

// Result is the harmonised effect: the resolved needs-harmonisation flag,
// the signed z-score, and either a beta+SE+CI or an odds-ratio+CI,
// whichever scale ConfidenceIntervalText indicated.
type Result struct {
	NeedsHarmonisation bool
	Z                  float64
	Beta               *float64
	StandardError      *float64
	BetaCILower        *float64
	BetaCIUpper        *float64
	OddsRatio          *float64
	OddsRatioCILower   *float64
	OddsRatioCIUpper   *float64
}

// Harmonise reconciles in.EffectSize against the reference allele and
// returns the harmonised effect, or ErrInvalidRecord if the record is not
// numerically usable.
func Harmonise(in Input) (Result, error) {
	ref := strings.ToUpper(in.ReferenceAllele)
	alt := strings.ToUpper(in.AlternateAllele)
	risk := strings.ToUpper(in.RiskAllele)

	needsHarmonisation := resolveNeedsHarmonisation(ref, alt, risk)

	p := in.PValueMantissa * math.Pow(10, float64(in.PValueExponent))
	if math.IsNaN(p) || p <= 0 || p == 1 {
		return Result{}, fmt.Errorf("harmonise.Harmonise: %w", ErrInvalidRecord)
	}

	containsIncrease := strings.Contains(in.ConfidenceIntervalText, "increase")
	containsDecrease := strings.Contains(in.ConfidenceIntervalText, "decrease")

	beta, isBetaScale := harmonizeBeta(in.EffectSize, containsIncrease, containsDecrease, needsHarmonisation)
	oddsRatio, isOrScale := harmonizeOddsRatio(in.EffectSize, containsIncrease, containsDecrease, needsHarmonisation)

	var signedBeta float64
	switch {
	case isBetaScale:
		signedBeta = beta
	case isOrScale:
		signedBeta = math.Log(oddsRatio)
	default:
		return Result{}, fmt.Errorf("harmonise.Harmonise: %w", ErrInvalidRecord)
	}
	if signedBeta == 0 || math.IsNaN(signedBeta) {
		return Result{}, fmt.Errorf("harmonise.Harmonise: %w", ErrInvalidRecord)
	}

	absZ := numkernels.NormalISF(p / 2)
	z := absZ
	if signedBeta < 0 {
		z = -absZ
	}
	if z == 0 || math.IsNaN(z) {
		return Result{}, fmt.Errorf("harmonise.Harmonise: %w", ErrInvalidRecord)
	}

	res := Result{NeedsHarmonisation: needsHarmonisation, Z: z}

	if isBetaScale {
		se := math.Abs(beta) / math.Abs(z)
		if se == 0 || math.IsNaN(se) {
			return Result{}, fmt.Errorf("harmonise.Harmonise: %w", ErrInvalidRecord)
		}
		lower := beta - z9590*se
		upper := beta + z9590*se
		res.Beta = &beta
		res.StandardError = &se
		res.BetaCILower = &lower
		res.BetaCIUpper = &upper
		return res, nil
	}

	logOR := math.Log(oddsRatio)
	orSE := math.Abs(logOR) / math.Abs(z)
	lower := math.Exp(logOR - z9590*orSE)
	upper := math.Exp(logOR + z9590*orSE)
	res.OddsRatio = &oddsRatio
	res.OddsRatioCILower = &lower
	res.OddsRatioCIUpper = &upper
	return res, nil
}

// resolveNeedsHarmonisation decides whether the reported effect targets
// the reference strand/allele and must be flipped: palindromic sites are
// never flipped (strand is ambiguous), otherwise a risk allele matching
// the reference or its reverse complement flips.
func resolveNeedsHarmonisation(ref, alt, risk string) bool {
	if studylocus.IsPalindromic(ref, alt) {
		return false
	}
	if risk == ref || risk == studylocus.ReverseComplement(ref) {
		return true
	}
	return false
}

// harmonizeBeta: the effect is on the beta scale only when the CI text
// names a direction; in that case it is flipped when the direction and
// the harmonisation flag disagree.
func harmonizeBeta(effectSize float64, containsIncrease, containsDecrease, needsHarmonisation bool) (beta float64, ok bool) {
	if !containsIncrease && !containsDecrease {
		return 0, false
	}
	beta = effectSize
	flip := (containsIncrease && needsHarmonisation) || (containsDecrease && !needsHarmonisation)
	if flip {
		beta = -beta
	}
	return beta, true
}

// harmonizeOddsRatio: the effect is on the odds-ratio scale only when
// the CI text names no direction, in which case it is replaced by its
// reciprocal when harmonisation is required.
func harmonizeOddsRatio(effectSize float64, containsIncrease, containsDecrease, needsHarmonisation bool) (oddsRatio float64, ok bool) {
	if containsIncrease || containsDecrease {
		return 0, false
	}
	oddsRatio = effectSize
	if needsHarmonisation {
		oddsRatio = 1 / oddsRatio
	}
	return oddsRatio, true
}
