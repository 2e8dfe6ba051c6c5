package studylocus

// OverlapRow is one tag variant appearing in either of two overlapping
// StudyLocus entries, carrying whichever of logABF /
// posteriorProbability each side recorded. A nil pointer means that side
// did not report the variant.
type OverlapRow struct {
	TagVariantID              string
	LeftLogABF                *float64
	RightLogABF               *float64
	LeftPosteriorProbability  *float64
	RightPosteriorProbability *float64
}

// OverlapPair is the union of tag variants across two StudyLocus entries
// that share at least one, the input to both Coloc and ECaviar. Rows is
// empty when the two loci have no tag variant in common.
type OverlapPair struct {
	LeftStudyLocusID  uint64
	RightStudyLocusID uint64
	Chromosome        string
	Rows              []OverlapRow
}

// NewOverlapPair builds an OverlapPair from two StudyLocus entries. When
// at least one tag variant is shared, it emits one row per variant of
// the union (an outer join): left-only and right-only variants keep a
// nil pointer on the missing side, which downstream colocalisation
// treats as zero evidence. Without any shared variant, Rows stays empty
// and the pair does not colocalise.
func NewOverlapPair(left, right StudyLocus) OverlapPair {
	pair := OverlapPair{
		LeftStudyLocusID:  left.StudyLocusID,
		RightStudyLocusID: right.StudyLocusID,
		Chromosome:        left.Chromosome,
	}

	rightByVariant := make(map[string]TagVariant, len(right.Locus))
	for _, t := range right.Locus {
		rightByVariant[t.VariantID] = t
	}

	shared := false
	for _, t := range left.Locus {
		if _, ok := rightByVariant[t.VariantID]; ok {
			shared = true
			break
		}
	}
	if !shared {
		return pair
	}

	leftSeen := make(map[string]bool, len(left.Locus))
	for _, t := range left.Locus {
		leftSeen[t.VariantID] = true
		row := OverlapRow{
			TagVariantID:             t.VariantID,
			LeftLogABF:               ptr(t.LogABF),
			LeftPosteriorProbability: ptr(t.PosteriorProbability),
		}
		if r, ok := rightByVariant[t.VariantID]; ok {
			row.RightLogABF = ptr(r.LogABF)
			row.RightPosteriorProbability = ptr(r.PosteriorProbability)
		}
		pair.Rows = append(pair.Rows, row)
	}
	for _, t := range right.Locus {
		if leftSeen[t.VariantID] {
			continue
		}
		pair.Rows = append(pair.Rows, OverlapRow{
			TagVariantID:              t.VariantID,
			RightLogABF:               ptr(t.LogABF),
			RightPosteriorProbability: ptr(t.PosteriorProbability),
		})
	}

	return pair
}

func ptr(v float64) *float64 { return &v }

// ColocResult is the Bayesian colocalisation verdict for a pair of
// overlapping StudyLocus entries. Invariant: H0+H1+H2+H3+H4 sums to 1
// within 1e-9.
type ColocResult struct {
	LeftStudyLocusID  uint64  `json:"leftStudyLocusId"`
	RightStudyLocusID uint64  `json:"rightStudyLocusId"`
	ColocNVars        int     `json:"colocNVars"`
	H0                float64 `json:"h0"`
	H1                float64 `json:"h1"`
	H2                float64 `json:"h2"`
	H3                float64 `json:"h3"`
	H4                float64 `json:"h4"`
	CLPP              float64 `json:"clpp"`
	Log2H4H3          float64 `json:"log2h4h3"`
	Method            string  `json:"method"`
}
