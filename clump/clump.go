package clump

import (
	"fmt"

	"github.com/locusmap/statgen-core/numkernels"
	"github.com/locusmap/statgen-core/studylocus"
)

// Default clumping parameters: a 500 kb half-window, genome-wide
// significance, and the conventional baseline threshold for locus
// collection.
const (
	defaultWindowLength  int64   = 500_000
	defaultPSignificance float64 = 5e-8
	defaultPBaseline     float64 = 0.05
)

// Params configures Clump. A zero value is filled in with the documented
// defaults by Clump itself.
type Params struct {
	WindowLength      int64
	PSignificance     float64
	PBaseline         float64
	LocusWindowLength *int64
}

func (p Params) withDefaults() Params {
	if p.WindowLength <= 0 {
		p.WindowLength = defaultWindowLength
	}
	if p.PSignificance <= 0 {
		p.PSignificance = defaultPSignificance
	}
	if p.PBaseline <= 0 {
		p.PBaseline = defaultPBaseline
	}
	return p
}

// Clump detects independent association peaks in records, a single study's
// summary statistics sorted ascending by (chromosome, position). It returns
// one StudyLocus per detected peak.
func Clump(records []studylocus.SummaryRecord, params Params) ([]studylocus.StudyLocus, error) {
	if err := validateSorted(records); err != nil {
		return nil, fmt.Errorf("clump.Clump: %w", err)
	}
	params = params.withDefaults()

	var peaks []studylocus.StudyLocus
	for _, group := range groupByChromosome(records) {
		peaks = append(peaks, sweepChromosome(group, params)...)
	}
	return peaks, nil
}

// validateSorted checks that records are grouped into contiguous,
// internally position-ascending runs per chromosome, with no chromosome
// revisited after the sweep has moved on to another.
func validateSorted(records []studylocus.SummaryRecord) error {
	seen := make(map[string]bool, 24)
	for i, r := range records {
		if i == 0 {
			seen[r.Chromosome] = true
			continue
		}
		prev := records[i-1]
		if r.Chromosome == prev.Chromosome {
			if r.Position < prev.Position {
				return ErrUnsorted
			}
			continue
		}
		if seen[r.Chromosome] {
			return ErrUnsorted
		}
		seen[r.Chromosome] = true
	}
	return nil
}

func groupByChromosome(records []studylocus.SummaryRecord) [][]studylocus.SummaryRecord {
	var groups [][]studylocus.SummaryRecord
	start := 0
	for i := 1; i <= len(records); i++ {
		if i == len(records) || records[i].Chromosome != records[start].Chromosome {
			groups = append(groups, records[start:i])
			start = i
		}
	}
	return groups
}

// sweepChromosome runs the single left-to-right pass over one
// chromosome's records, already known to be position-sorted. Locus
// windows around each peak are resolved through one WindowRanks sweep
// over the chromosome instead of a rescan per peak.
func sweepChromosome(records []studylocus.SummaryRecord, params Params) []studylocus.StudyLocus {
	var sig []int
	for i, r := range records {
		if r.Valid() && r.PValue() <= params.PSignificance {
			sig = append(sig, i)
		}
	}
	if len(sig) == 0 {
		return nil
	}

	var starts, stops []int
	if params.LocusWindowLength != nil {
		positions := make([]int64, len(records))
		for i, r := range records {
			positions[i] = r.Position
		}
		starts, stops = numkernels.WindowRanks(positions, *params.LocusWindowLength)
	}

	var peaks []studylocus.StudyLocus
	best := sig[0]
	for _, cur := range sig[1:] {
		if records[cur].Position-records[best].Position > params.WindowLength {
			peaks = append(peaks, buildLocus(best, records, starts, stops, params))
			best = cur
			continue
		}
		if isStronger(records[cur], records[best]) {
			best = cur
		}
	}
	peaks = append(peaks, buildLocus(best, records, starts, stops, params))
	return peaks
}

// isStronger is the peak tie-break order: smaller p-value wins, then
// smaller position, then lexicographically smaller variant ID.
func isStronger(a, b studylocus.SummaryRecord) bool {
	pa, pb := a.PValue(), b.PValue()
	if pa != pb {
		return pa < pb
	}
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	return a.VariantID < b.VariantID
}

func buildLocus(peakIdx int, records []studylocus.SummaryRecord, starts, stops []int, params Params) studylocus.StudyLocus {
	peak := records[peakIdx]
	sl := studylocus.StudyLocus{
		StudyLocusID:   studylocus.NewStudyLocusID(peak.StudyID, peak.VariantID),
		StudyID:        peak.StudyID,
		LeadVariantID:  peak.VariantID,
		Chromosome:     peak.Chromosome,
		Position:       peak.Position,
		PValueMantissa: peak.PValueMantissa,
		PValueExponent: peak.PValueExponent,
	}
	if peak.Beta != 0 {
		beta := peak.Beta
		sl.Beta = &beta
	}
	if peak.StandardError > 0 {
		se := peak.StandardError
		sl.StandardError = &se
	}

	if params.LocusWindowLength == nil {
		return sl
	}
	for i := starts[peakIdx]; i <= stops[peakIdx]; i++ {
		r := records[i]
		if r.PValue() > params.PBaseline {
			continue
		}
		sl.Locus = append(sl.Locus, studylocus.TagVariant{
			VariantID:     r.VariantID,
			Beta:          r.Beta,
			StandardError: r.StandardError,
		})
	}
	return sl
}
