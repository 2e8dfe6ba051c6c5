package credsetqc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/credsetqc"
	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/matrix"
	"github.com/locusmap/statgen-core/studylocus"
)

func buildLd(t *testing.T) *ldstore.Memory {
	t.Helper()
	entries := []studylocus.LdIndexEntry{
		{Chromosome: "1", Position: 1000, Ref: "A", Alt: "G", Idx: 0},
		{Chromosome: "1", Position: 1100, Ref: "A", Alt: "G", Idx: 1},
	}
	index := studylocus.NewLdVariantIndex(entries)
	data, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, data.Set(0, 0, 1))
	require.NoError(t, data.Set(1, 1, 1))
	require.NoError(t, data.Set(0, 1, 0.9))
	require.NoError(t, data.Set(1, 0, 0.9))
	return ldstore.NewMemory(index, data)
}

func TestQC_FlagsMHCRegion(t *testing.T) {
	loci := []studylocus.StudyLocus{
		{StudyID: "S1", LeadVariantID: "6_30000000_A_G", Chromosome: "6", Position: 30_000_000, PValueMantissa: 1, PValueExponent: -10},
	}
	studyIndex := studylocus.NewStudyIndexTable([]studylocus.StudyIndex{{StudyID: "S1"}})

	out, err := credsetqc.QC(loci, studyIndex, nil, credsetqc.Params{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].HasFlag(studylocus.MHCRegion))
}

func TestQC_FlagsUnknownStudy(t *testing.T) {
	loci := []studylocus.StudyLocus{
		{StudyID: "GHOST", LeadVariantID: "1_1000_A_G", Chromosome: "1", Position: 1000, PValueMantissa: 1, PValueExponent: -10},
	}
	studyIndex := studylocus.NewStudyIndexTable(nil)

	out, err := credsetqc.QC(loci, studyIndex, nil, credsetqc.Params{})
	require.NoError(t, err)
	assert.True(t, out[0].HasFlag(studylocus.UnknownStudy))
}

func TestQC_AssignsHighConfidenceWithNoFlags(t *testing.T) {
	loci := []studylocus.StudyLocus{
		{
			StudyID:        "S1",
			LeadVariantID:  "1_1000_A_G",
			Chromosome:     "1",
			Position:       1000,
			PValueMantissa: 1,
			PValueExponent: -10,
			Locus: []studylocus.TagVariant{
				{VariantID: "1_1000_A_G", PosteriorProbability: 0.7},
				{VariantID: "1_1100_A_G", PosteriorProbability: 0.3},
			},
		},
	}
	studyIndex := studylocus.NewStudyIndexTable([]studylocus.StudyIndex{{StudyID: "S1"}})
	ld := buildLd(t)

	out, err := credsetqc.QC(loci, studyIndex, ld, credsetqc.Params{})
	require.NoError(t, err)
	assert.Equal(t, studylocus.ConfidenceHigh, out[0].Confidence)
}

func TestQC_FlagsSubsignificantLead(t *testing.T) {
	loci := []studylocus.StudyLocus{
		{StudyID: "S1", LeadVariantID: "1_1000_A_G", Chromosome: "1", Position: 1000, PValueMantissa: 1, PValueExponent: -6},
	}
	studyIndex := studylocus.NewStudyIndexTable([]studylocus.StudyIndex{{StudyID: "S1"}})

	out, err := credsetqc.QC(loci, studyIndex, nil, credsetqc.Params{})
	require.NoError(t, err)
	assert.True(t, out[0].HasFlag(studylocus.SubsignificantFlag))
	assert.Equal(t, studylocus.ConfidenceLow, out[0].Confidence)
}

func TestQC_RejectsNilStudyIndex(t *testing.T) {
	_, err := credsetqc.QC(nil, nil, nil, credsetqc.Params{})
	assert.ErrorIs(t, err, credsetqc.ErrNilStudyIndex)
}
