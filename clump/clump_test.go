package clump_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/clump"
	"github.com/locusmap/statgen-core/studylocus"
)

func rec(study, variant, chrom string, pos int64, mantissa float64, exponent int) studylocus.SummaryRecord {
	return studylocus.SummaryRecord{
		StudyID:        study,
		VariantID:      variant,
		Chromosome:     chrom,
		Position:       pos,
		PValueMantissa: mantissa,
		PValueExponent: exponent,
		Beta:           0.1,
		StandardError:  0.01,
	}
}

func TestClump_SinglePeak(t *testing.T) {
	records := []studylocus.SummaryRecord{
		rec("S1", "1_1000_A_G", "1", 1000, 1, -20),
		rec("S1", "1_50000_A_G", "1", 50_000, 9, -5),
		rec("S1", "1_400000_A_G", "1", 400_000, 5, -6),
	}

	loci, err := clump.Clump(records, clump.Params{})
	require.NoError(t, err)
	require.Len(t, loci, 1)
	assert.Equal(t, "1_1000_A_G", loci[0].LeadVariantID)
}

func TestClump_TwoDistantPeaks(t *testing.T) {
	records := []studylocus.SummaryRecord{
		rec("S1", "1_1000_A_G", "1", 1000, 1, -20),
		rec("S1", "1_900000_A_G", "1", 900_000, 1, -15),
	}

	loci, err := clump.Clump(records, clump.Params{})
	require.NoError(t, err)
	require.Len(t, loci, 2)
	assert.Equal(t, "1_1000_A_G", loci[0].LeadVariantID)
	assert.Equal(t, "1_900000_A_G", loci[1].LeadVariantID)
}

func TestClump_LocusWindowCollectsBaselineRecords(t *testing.T) {
	window := int64(100_000)
	records := []studylocus.SummaryRecord{
		rec("S1", "1_1000_A_G", "1", 1000, 1, -20),
		rec("S1", "1_2000_A_G", "1", 2000, 1, -2),
		rec("S1", "1_900000_A_G", "1", 900_000, 1, -1),
	}

	loci, err := clump.Clump(records, clump.Params{LocusWindowLength: &window})
	require.NoError(t, err)
	require.Len(t, loci, 1)
	require.Len(t, loci[0].Locus, 2)
}

func TestClump_Idempotent(t *testing.T) {
	// Re-clumping the peaks it emitted, with the same parameters, must
	// reproduce the same peak set.
	records := []studylocus.SummaryRecord{
		rec("S1", "1_1000_A_G", "1", 1000, 1, -20),
		rec("S1", "1_200000_A_G", "1", 200_000, 1, -12),
		rec("S1", "1_900000_A_G", "1", 900_000, 1, -15),
		rec("S1", "2_5000_C_T", "2", 5000, 3, -9),
	}

	first, err := clump.Clump(records, clump.Params{})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	var rerun []studylocus.SummaryRecord
	for _, sl := range first {
		r := studylocus.SummaryRecord{
			StudyID:        sl.StudyID,
			VariantID:      sl.LeadVariantID,
			Chromosome:     sl.Chromosome,
			Position:       sl.Position,
			PValueMantissa: sl.PValueMantissa,
			PValueExponent: sl.PValueExponent,
			Beta:           0.1,
			StandardError:  0.01,
		}
		rerun = append(rerun, r)
	}

	second, err := clump.Clump(rerun, clump.Params{})
	require.NoError(t, err)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].LeadVariantID, second[i].LeadVariantID)
	}
}

func TestClump_RejectsUnsortedInput(t *testing.T) {
	records := []studylocus.SummaryRecord{
		rec("S1", "1_2000_A_G", "1", 2000, 1, -20),
		rec("S1", "1_1000_A_G", "1", 1000, 1, -20),
	}
	_, err := clump.Clump(records, clump.Params{})
	assert.ErrorIs(t, err, clump.ErrUnsorted)
}
