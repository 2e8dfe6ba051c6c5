package studylocus

import "math"

// SummaryRecord is a single-variant association from a GWAS or QTL study.
// pValue = PValueMantissa * 10^PValueExponent, with PValueMantissa in
// [1,10) and PValueExponent <= 0, as canonicalised by the ingest layer.
type SummaryRecord struct {
	StudyID               string
	VariantID             string
	Chromosome            string
	Position              int64
	PValueMantissa        float64
	PValueExponent        int
	Beta                  float64
	StandardError         float64
	EffectAlleleFrequency *float64
	SampleSize            *int
}

// PValue reconstructs the p-value from its mantissa/exponent pair.
func (r SummaryRecord) PValue() float64 {
	return r.PValueMantissa * math.Pow(10, float64(r.PValueExponent))
}

// Valid reports whether the record carries usable numeric fields: p-value
// not exactly 1, a non-zero beta, a positive standard error, and no NaNs.
// Records failing this check are never selected as peaks by the clumper
// and are skipped by the finemap command.
func (r SummaryRecord) Valid() bool {
	if math.IsNaN(r.PValueMantissa) || math.IsNaN(r.Beta) || math.IsNaN(r.StandardError) {
		return false
	}
	if r.PValue() == 1 {
		return false
	}
	if r.Beta == 0 {
		return false
	}
	if r.StandardError <= 0 {
		return false
	}
	return true
}
