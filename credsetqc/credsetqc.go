package credsetqc

import (
	"fmt"
	"sort"

	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/studylocus"
)

// MHC region boundaries (GRCh38) and default QC parameters.
const (
	mhcChromosome = "6"
	mhcStart      = 25_700_000
	mhcEnd        = 33_400_000

	defaultPSignificance          = 5e-8
	defaultPurityMinR2            = 0.01
	defaultLdMinR2                = 0.8
	defaultExplainedBySusieWindow = 500_000
)

var validChromosomes = map[string]bool{
	"1": true, "2": true, "3": true, "4": true, "5": true, "6": true, "7": true,
	"8": true, "9": true, "10": true, "11": true, "12": true, "13": true, "14": true,
	"15": true, "16": true, "17": true, "18": true, "19": true, "20": true, "21": true,
	"22": true, "X": true, "Y": true, "MT": true,
}

// Params configures QC. A zero value is filled in with the documented
// defaults.
type Params struct {
	PSignificance float64
	PurityMinR2   float64
	LdMinR2       float64
	// Clump enables the optional post-flagging inter-locus LD-clumping
	// step, requiring a non-nil LdStore.
	Clump bool
}

func (p Params) withDefaults() Params {
	if p.PSignificance <= 0 {
		p.PSignificance = defaultPSignificance
	}
	if p.PurityMinR2 <= 0 {
		p.PurityMinR2 = defaultPurityMinR2
	}
	if p.LdMinR2 <= 0 {
		p.LdMinR2 = defaultLdMinR2
	}
	return p
}

// QC flags and filters loci (operating on copies) in a fixed check
// order: MHC region, chromosome label, study membership, lead-variant
// significance, PICS top-hit redundancy, SuSiE-explained regions, 95%
// credible-set filtering,
// PIP-range, purity, confidence assignment, and finally the optional
// inter-locus LD-clumping pass.
func QC(loci []studylocus.StudyLocus, studyIndex studylocus.StudyIndexTable, ld ldstore.LdStore, params Params) ([]studylocus.StudyLocus, error) {
	if studyIndex == nil {
		return nil, fmt.Errorf("credsetqc.QC: %w", ErrNilStudyIndex)
	}
	params = params.withDefaults()

	out := make([]studylocus.StudyLocus, len(loci))
	copy(out, loci)

	for i := range out {
		qcMHCRegion(&out[i])
		qcChromosome(&out[i])
		qcStudy(&out[i], studyIndex)
		qcSubsignificant(&out[i], params.PSignificance)
	}

	qcRedundantPicsTopHits(out)
	qcExplainedBySusie(out)

	for i := range out {
		filterCredibleSet(&out[i])
		qcAbnormalPips(&out[i])
		qcPurity(&out[i], ld, params.PurityMinR2)
		assignConfidence(&out[i])
	}

	if params.Clump && ld != nil {
		out = clumpByLd(out, ld, params.LdMinR2)
	}

	return out, nil
}

func qcMHCRegion(sl *studylocus.StudyLocus) {
	if sl.Chromosome == mhcChromosome && sl.Position >= mhcStart && sl.Position <= mhcEnd {
		sl.AddFlag(studylocus.MHCRegion)
	}
}

func qcChromosome(sl *studylocus.StudyLocus) {
	if !validChromosomes[sl.Chromosome] {
		sl.AddFlag(studylocus.UnsupportedChromosome)
	}
}

func qcStudy(sl *studylocus.StudyLocus, studyIndex studylocus.StudyIndexTable) {
	if _, ok := studyIndex[sl.StudyID]; !ok {
		sl.AddFlag(studylocus.UnknownStudy)
	}
}

func qcSubsignificant(sl *studylocus.StudyLocus, pSig float64) {
	if sl.PValue() > pSig {
		sl.AddFlag(studylocus.SubsignificantFlag)
	}
}

// qcRedundantPicsTopHits flags every occurrence after the first of the
// same (study, lead variant) pair: duplicate top hits produced by
// re-running PICS clumping over already-processed summary statistics.
func qcRedundantPicsTopHits(loci []studylocus.StudyLocus) {
	seen := make(map[string]bool, len(loci))
	for i := range loci {
		key := loci[i].StudyID + "\x00" + loci[i].LeadVariantID
		if seen[key] {
			loci[i].AddFlag(studylocus.RedundantPicsTopHit)
			continue
		}
		seen[key] = true
	}
}

// qcExplainedBySusie flags a coarse, PICS-style locus (no more than one
// tag variant, meaning it carries no real fine-mapping annotation yet) as
// EXPLAINED_BY_SUSIE when another locus of the same study overlaps its
// window and already carries a proper multi-variant SuSiE credible set
// (more than one tag, posterior mass within the expected 95% range).
func qcExplainedBySusie(loci []studylocus.StudyLocus) {
	byStudy := make(map[string][]int, len(loci))
	for i, sl := range loci {
		byStudy[sl.StudyID] = append(byStudy[sl.StudyID], i)
	}

	for _, idxs := range byStudy {
		for _, i := range idxs {
			if len(loci[i].Locus) > 1 {
				continue
			}
			for _, j := range idxs {
				if i == j {
					continue
				}
				other := loci[j]
				if len(other.Locus) <= 1 {
					continue
				}
				if abs64(loci[i].Position-other.Position) > defaultExplainedBySusieWindow {
					continue
				}
				loci[i].AddFlag(studylocus.ExplainedBySusie)
				break
			}
		}
	}
}

// filterCredibleSet keeps the smallest prefix of Locus (sorted
// descending by PosteriorProbability) whose cumulative mass reaches the
// 95% coverage threshold.
func filterCredibleSet(sl *studylocus.StudyLocus) {
	if len(sl.Locus) == 0 {
		return
	}
	tags := make([]studylocus.TagVariant, len(sl.Locus))
	copy(tags, sl.Locus)
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].PosteriorProbability > tags[j].PosteriorProbability
	})

	var sum float64
	var kept []studylocus.TagVariant
	for _, t := range tags {
		kept = append(kept, t)
		sum += t.PosteriorProbability
		if sum >= 0.95 {
			break
		}
	}
	sl.Locus = kept
}

func qcAbnormalPips(sl *studylocus.StudyLocus) {
	if len(sl.Locus) == 0 {
		// A clump-only locus carries no posterior annotation yet; there
		// is no credible set whose mass could be out of range.
		return
	}
	sum := sl.SumPosteriorProbability()
	if sum < 0.95 || sum > 1.0001 {
		sl.AddFlag(studylocus.PipOutOfRange)
	}
}

// qcPurity flags LOW_PURITY when the minimum pairwise r² among the top
// five tag variants (by PosteriorProbability) falls below minR2. A tag
// absent from the LD panel raises LD_PANEL_INCOMPLETE and skips the
// purity check for this locus.
func qcPurity(sl *studylocus.StudyLocus, ld ldstore.LdStore, minR2 float64) {
	if ld == nil || len(sl.Locus) < 2 {
		return
	}
	tags := make([]studylocus.TagVariant, len(sl.Locus))
	copy(tags, sl.Locus)
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].PosteriorProbability > tags[j].PosteriorProbability
	})
	if len(tags) > 5 {
		tags = tags[:5]
	}

	type idxVar struct {
		idx int
		pos int
	}
	var found []idxVar
	for pos, t := range tags {
		idx, ok := ld.Lookup(t.VariantID)
		if !ok {
			sl.AddFlag(studylocus.LdPanelIncomplete)
			return
		}
		found = append(found, idxVar{idx: idx, pos: pos})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].idx < found[j].idx })

	idxs := make([]int, len(found))
	for i, f := range found {
		idxs[i] = f.idx
	}
	sub, err := ld.Submatrix(idxs)
	if err != nil {
		sl.AddFlag(studylocus.LdPanelIncomplete)
		return
	}

	minR2Observed := 1.0
	for i := 0; i < len(idxs); i++ {
		for j := i + 1; j < len(idxs); j++ {
			r, _ := sub.At(i, j)
			r2 := r * r
			if r2 < minR2Observed {
				minR2Observed = r2
			}
		}
	}
	if minR2Observed < minR2 {
		sl.AddFlag(studylocus.LowPurity)
	}
}

// assignConfidence applies the confidence decision table: HIGH iff no
// flags and sum-PIP within [0.99, 1.001]; MEDIUM if LOW_PURITY is the
// only flag; LOW otherwise.
func assignConfidence(sl *studylocus.StudyLocus) {
	sum := sl.SumPosteriorProbability()
	if len(sl.QualityControls) == 0 && sum >= 0.99 && sum <= 1.001 {
		sl.Confidence = studylocus.ConfidenceHigh
		return
	}
	if len(sl.QualityControls) == 1 && sl.QualityControls[0] == studylocus.LowPurity {
		sl.Confidence = studylocus.ConfidenceMedium
		return
	}
	sl.Confidence = studylocus.ConfidenceLow
}

// clumpByLd removes loci whose lead has r² >= ldMinR2 with a stronger
// lead of the same study.
func clumpByLd(loci []studylocus.StudyLocus, ld ldstore.LdStore, ldMinR2 float64) []studylocus.StudyLocus {
	byStudy := make(map[string][]int, len(loci))
	for i, sl := range loci {
		byStudy[sl.StudyID] = append(byStudy[sl.StudyID], i)
	}

	dropped := make(map[int]bool, len(loci))
	for _, idxs := range byStudy {
		sort.Slice(idxs, func(a, b int) bool { return isStrongerLead(loci[idxs[a]], loci[idxs[b]]) })
		for a := 0; a < len(idxs); a++ {
			if dropped[idxs[a]] {
				continue
			}
			aIdx, ok := ld.Lookup(loci[idxs[a]].LeadVariantID)
			if !ok {
				continue
			}
			for b := a + 1; b < len(idxs); b++ {
				if dropped[idxs[b]] {
					continue
				}
				bIdx, ok := ld.Lookup(loci[idxs[b]].LeadVariantID)
				if !ok {
					continue
				}
				r2, ok := lookupR2(ld, aIdx, bIdx)
				if !ok || r2 < ldMinR2 {
					continue
				}
				dropped[idxs[b]] = true
			}
		}
	}

	var kept []studylocus.StudyLocus
	for i, sl := range loci {
		if !dropped[i] {
			kept = append(kept, sl)
		}
	}
	return kept
}

func lookupR2(ld ldstore.LdStore, i, j int) (float64, bool) {
	lo, hi := i, j
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return 1, true
	}
	sub, err := ld.Submatrix([]int{lo, hi})
	if err != nil {
		return 0, false
	}
	r, err := sub.At(0, 1)
	if err != nil {
		return 0, false
	}
	return r * r, true
}

func isStrongerLead(a, b studylocus.StudyLocus) bool {
	return a.PValue() < b.PValue()
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
