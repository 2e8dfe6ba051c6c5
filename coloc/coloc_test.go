package coloc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/coloc"
	"github.com/locusmap/statgen-core/studylocus"
)

func f(v float64) *float64 { return &v }

func TestColocalise_PosteriorsSumToOne(t *testing.T) {
	pair := studylocus.OverlapPair{
		LeftStudyLocusID:  1,
		RightStudyLocusID: 2,
		Chromosome:        "1",
		Rows: []studylocus.OverlapRow{
			{TagVariantID: "v1", LeftLogABF: f(5.0), RightLogABF: f(4.5)},
			{TagVariantID: "v2", LeftLogABF: f(0.2), RightLogABF: f(0.1)},
		},
	}

	res, err := coloc.Colocalise(pair, coloc.Priors{})
	require.NoError(t, err)
	assert.Equal(t, "COLOC", res.Method)
	assert.Equal(t, 2, res.ColocNVars)

	total := res.H0 + res.H1 + res.H2 + res.H3 + res.H4
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestColocalise_StrongSharedSignal(t *testing.T) {
	// One shared tag variant carrying strong evidence on both sides.
	// With the default priors the shared-causal hypothesis should take
	// essentially all the posterior mass.
	pair := studylocus.OverlapPair{
		LeftStudyLocusID:  1,
		RightStudyLocusID: 2,
		Chromosome:        "1",
		Rows: []studylocus.OverlapRow{
			{TagVariantID: "v1", LeftLogABF: f(10.3), RightLogABF: f(10.5)},
		},
	}

	res, err := coloc.Colocalise(pair, coloc.Priors{})
	require.NoError(t, err)

	assert.InDelta(t, 0.9993, res.H4, 1e-4)
	assert.Less(t, res.H0, 1e-3)
	assert.Less(t, res.H1, 1e-3)
	assert.Less(t, res.H2, 1e-3)
	assert.Less(t, res.H3, 1e-3)
	assert.InDelta(t, 1.0, res.H0+res.H1+res.H2+res.H3+res.H4, 1e-9)
}

func TestColocalise_OneSidedSignal(t *testing.T) {
	// Strong evidence on the left only: the left-only hypothesis should
	// dominate, with a minority of mass left on the shared hypothesis.
	pair := studylocus.OverlapPair{
		LeftStudyLocusID:  1,
		RightStudyLocusID: 2,
		Chromosome:        "1",
		Rows: []studylocus.OverlapRow{
			{TagVariantID: "v1", LeftLogABF: f(18.3), RightLogABF: f(0.01)},
		},
	}

	res, err := coloc.Colocalise(pair, coloc.Priors{})
	require.NoError(t, err)

	assert.InDelta(t, 0.908, res.H1, 1e-3)
	assert.InDelta(t, 0.092, res.H4, 1e-3)
	// Single shared variant: exp(L1+L2) == exp(L12), so no posterior
	// mass can land on distinct-causal-variants.
	assert.Equal(t, 0.0, res.H3)
	assert.InDelta(t, 1.0, res.H0+res.H1+res.H2+res.H3+res.H4, 1e-9)
}

func TestColocalise_PartialOverlapFillsMissingSideWithZero(t *testing.T) {
	// A union-of-credible-sets pair: one shared variant plus one variant
	// on each side only. Missing evidence counts as logABF 0, so the
	// one-sided rows still contribute to L1/L2.
	left := studylocus.StudyLocus{
		StudyLocusID: 1,
		Chromosome:   "1",
		Locus: []studylocus.TagVariant{
			{VariantID: "1_100_A_G", LogABF: 6.0},
			{VariantID: "1_200_C_T", LogABF: 4.0},
		},
	}
	right := studylocus.StudyLocus{
		StudyLocusID: 2,
		Chromosome:   "1",
		Locus: []studylocus.TagVariant{
			{VariantID: "1_100_A_G", LogABF: 5.5},
			{VariantID: "1_300_G_A", LogABF: 3.0},
		},
	}

	pair := studylocus.NewOverlapPair(left, right)
	require.Len(t, pair.Rows, 3)

	res, err := coloc.Colocalise(pair, coloc.Priors{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ColocNVars)
	assert.InDelta(t, 1.0, res.H0+res.H1+res.H2+res.H3+res.H4, 1e-9)

	// Dropping the one-sided rows instead would change the posteriors:
	// the shared-only pair must not give the same L1/L2 mass.
	sharedOnly := studylocus.OverlapPair{
		LeftStudyLocusID:  1,
		RightStudyLocusID: 2,
		Chromosome:        "1",
		Rows:              []studylocus.OverlapRow{pair.Rows[0]},
	}
	resShared, err := coloc.Colocalise(sharedOnly, coloc.Priors{})
	require.NoError(t, err)
	assert.Greater(t, math.Abs(resShared.H4-res.H4), 1e-6)
}

func TestColocalise_RejectsEmptyOverlap(t *testing.T) {
	_, err := coloc.Colocalise(studylocus.OverlapPair{}, coloc.Priors{})
	assert.ErrorIs(t, err, coloc.ErrNoOverlap)
}

func TestColocaliseECaviar_ClppIsSumOfProducts(t *testing.T) {
	pair := studylocus.OverlapPair{
		LeftStudyLocusID:  1,
		RightStudyLocusID: 2,
		Rows: []studylocus.OverlapRow{
			{TagVariantID: "v1", LeftPosteriorProbability: f(0.5), RightPosteriorProbability: f(0.4)},
			{TagVariantID: "v2", LeftPosteriorProbability: f(0.1), RightPosteriorProbability: f(0.2)},
		},
	}

	res, err := coloc.ColocaliseECaviar(pair)
	require.NoError(t, err)
	assert.Equal(t, "eCAVIAR", res.Method)
	assert.InDelta(t, 0.5*0.4+0.1*0.2, res.CLPP, 1e-9)
}

func TestColocaliseECaviar_ThreeSharedVariants(t *testing.T) {
	pair := studylocus.OverlapPair{
		LeftStudyLocusID:  1,
		RightStudyLocusID: 2,
		Rows: []studylocus.OverlapRow{
			{TagVariantID: "v1", LeftPosteriorProbability: f(0.5), RightPosteriorProbability: f(0.5)},
			{TagVariantID: "v2", LeftPosteriorProbability: f(0.4), RightPosteriorProbability: f(0.4)},
			{TagVariantID: "v3", LeftPosteriorProbability: f(0.1), RightPosteriorProbability: f(0.1)},
		},
	}

	res, err := coloc.ColocaliseECaviar(pair)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ColocNVars)
	assert.InDelta(t, 0.42, res.CLPP, 1e-9)
}
