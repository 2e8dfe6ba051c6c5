package studylocus

import "hash/fnv"

// QCFlag names a quality-control condition raised against a StudyLocus.
// Flags accumulate; CredibleSetQc never removes one once set.
type QCFlag string

const (
	MHCRegion             QCFlag = "MHC_REGION"
	UnsupportedChromosome QCFlag = "UNSUPPORTED_CHROMOSOME"
	UnknownStudy          QCFlag = "UNKNOWN_STUDY"
	SubsignificantFlag    QCFlag = "SUBSIGNIFICANT_FLAG"
	PipOutOfRange         QCFlag = "PIP_OUT_OF_RANGE"
	LowPurity             QCFlag = "LOW_PURITY"
	RedundantPicsTopHit   QCFlag = "REDUNDANT_PICS_TOP_HIT"
	ExplainedBySusie      QCFlag = "EXPLAINED_BY_SUSIE"
	LdPanelIncomplete     QCFlag = "LD_PANEL_INCOMPLETE"
	NumericFailure        QCFlag = "NUMERIC_FAILURE"
	// StrandAmbiguous is not raised by any check yet:
	// needs-harmonisation cannot fully detect a strand flip combined
	// with an allele swap, so the flag is reserved for a future
	// harmoniser enhancement.
	StrandAmbiguous QCFlag = "STRAND_AMBIGUOUS"
)

// Confidence is the decision-table verdict assigned to a StudyLocus by
// CredibleSetQc.
type Confidence string

const (
	ConfidenceHigh    Confidence = "HIGH"
	ConfidenceMedium  Confidence = "MEDIUM"
	ConfidenceLow     Confidence = "LOW"
	ConfidenceUnknown Confidence = "UNKNOWN"
)

// TagVariant is one member of a StudyLocus credible set: a variant within
// the locus window together with its fine-mapping or clumping annotation.
type TagVariant struct {
	VariantID            string  `json:"variantId"`
	PosteriorProbability float64 `json:"posteriorProbability"`
	LogABF               float64 `json:"logABF"`
	Beta                 float64 `json:"beta"`
	StandardError        float64 `json:"standardError"`
	R2Overall            float64 `json:"r2Overall"`
}

// StudyLocus is a detected independent association peak: a lead variant
// plus its credible set (Locus), accumulated QC flags and an assigned
// confidence tier.
type StudyLocus struct {
	StudyLocusID    uint64       `json:"studyLocusId"`
	StudyID         string       `json:"studyId"`
	LeadVariantID   string       `json:"leadVariantId"`
	Chromosome      string       `json:"chromosome"`
	Position        int64        `json:"position"`
	PValueMantissa  float64      `json:"pValueMantissa"`
	PValueExponent  int          `json:"pValueExponent"`
	Beta            *float64     `json:"beta,omitempty"`
	StandardError   *float64     `json:"standardError,omitempty"`
	Locus           []TagVariant `json:"locus,omitempty"`
	QualityControls []QCFlag     `json:"qualityControls,omitempty"`
	Confidence      Confidence   `json:"confidence,omitempty"`
}

// NewStudyLocusID derives the stable 64-bit studyLocusId from the study
// and lead variant identifiers via FNV-1a. The separator byte keeps
// ("ab","c") and ("a","bc") from colliding.
func NewStudyLocusID(studyID, leadVariantID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(studyID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(leadVariantID))
	return h.Sum64()
}

// PValue reconstructs the lead variant's p-value.
func (s StudyLocus) PValue() float64 {
	return SummaryRecord{PValueMantissa: s.PValueMantissa, PValueExponent: s.PValueExponent}.PValue()
}

// SumPosteriorProbability sums PosteriorProbability across Locus.
func (s StudyLocus) SumPosteriorProbability() float64 {
	var sum float64
	for _, t := range s.Locus {
		sum += t.PosteriorProbability
	}
	return sum
}

// HasFlag reports whether flag has already been raised on s.
func (s StudyLocus) HasFlag(flag QCFlag) bool {
	for _, f := range s.QualityControls {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag appends flag if not already present, preserving the
// accumulate-never-remove invariant.
func (s *StudyLocus) AddFlag(flag QCFlag) {
	if !s.HasFlag(flag) {
		s.QualityControls = append(s.QualityControls, flag)
	}
}
