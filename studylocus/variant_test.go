package studylocus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/locusmap/statgen-core/studylocus"
)

func TestVariantID_Canonical(t *testing.T) {
	v := studylocus.NewVariant("6", 32100000, "a", "t")
	assert.Equal(t, "6_32100000_A_T", v.ID())
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		allele string
		want   string
	}{
		{allele: "A", want: "T"},
		{allele: "T", want: "A"},
		{allele: "C", want: "G"},
		{allele: "G", want: "C"},
		{allele: "ACGT", want: "ACGT"},
		{allele: "AAC", want: "GTT"},
		{allele: "N", want: "N"},
		{allele: "ANC", want: "ANC"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, studylocus.ReverseComplement(tc.allele), "allele %q", tc.allele)
	}
}

func TestIsPalindromic(t *testing.T) {
	assert.True(t, studylocus.IsPalindromic("A", "T"))
	assert.True(t, studylocus.IsPalindromic("T", "A"))
	assert.True(t, studylocus.IsPalindromic("C", "G"))
	assert.False(t, studylocus.IsPalindromic("A", "C"))
	assert.False(t, studylocus.IsPalindromic("A", "G"))
	assert.True(t, studylocus.IsPalindromic("AT", "AT"))
}

func TestNewStudyLocusID_StableAndDistinct(t *testing.T) {
	a := studylocus.NewStudyLocusID("GCST001", "1_1000_A_G")
	b := studylocus.NewStudyLocusID("GCST001", "1_1000_A_G")
	c := studylocus.NewStudyLocusID("GCST002", "1_1000_A_G")
	d := studylocus.NewStudyLocusID("GCST001", "1_1001_A_G")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestStudyLocus_AddFlagAccumulates(t *testing.T) {
	var sl studylocus.StudyLocus
	sl.AddFlag(studylocus.MHCRegion)
	sl.AddFlag(studylocus.MHCRegion)
	sl.AddFlag(studylocus.LowPurity)

	assert.Equal(t, []studylocus.QCFlag{studylocus.MHCRegion, studylocus.LowPurity}, sl.QualityControls)
	assert.True(t, sl.HasFlag(studylocus.MHCRegion))
	assert.False(t, sl.HasFlag(studylocus.UnknownStudy))
}

func TestSummaryRecord_PValueAndValidity(t *testing.T) {
	rec := studylocus.SummaryRecord{
		PValueMantissa: 5,
		PValueExponent: -8,
		Beta:           0.2,
		StandardError:  0.05,
	}
	assert.InDelta(t, 5e-8, rec.PValue(), 1e-20)
	assert.True(t, rec.Valid())

	zeroBeta := rec
	zeroBeta.Beta = 0
	assert.False(t, zeroBeta.Valid())

	zeroSE := rec
	zeroSE.StandardError = 0
	assert.False(t, zeroSE.Valid())

	pOne := rec
	pOne.PValueMantissa = 1
	pOne.PValueExponent = 0
	assert.False(t, pOne.Valid())
}
