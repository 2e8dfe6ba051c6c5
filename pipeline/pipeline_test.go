package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/pipeline"
	"github.com/locusmap/statgen-core/studylocus"
)

func rec(study, variant, chrom string, pos int64, mantissa float64, exponent int, beta, se float64) studylocus.SummaryRecord {
	return studylocus.SummaryRecord{
		StudyID:        study,
		VariantID:      variant,
		Chromosome:     chrom,
		Position:       pos,
		PValueMantissa: mantissa,
		PValueExponent: exponent,
		Beta:           beta,
		StandardError:  se,
	}
}

func TestProcessLocus_ProducesClumpedStudyLoci(t *testing.T) {
	records := []studylocus.SummaryRecord{
		rec("S1", "1_1000_A_G", "1", 1000, 1, -20, 0.3, 0.02),
		rec("S1", "1_50000_A_G", "1", 50_000, 9, -5, 0.1, 0.05),
	}
	studyIndex := studylocus.NewStudyIndexTable([]studylocus.StudyIndex{{StudyID: "S1"}})

	res, err := pipeline.ProcessLocus(context.Background(), records, nil, studyIndex, pipeline.Config{})
	require.NoError(t, err)
	require.Len(t, res.StudyLoci, 1)
	assert.Equal(t, "1_1000_A_G", res.StudyLoci[0].LeadVariantID)
	assert.False(t, res.Cancelled)
}

func TestProcessLocus_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []studylocus.SummaryRecord{
		rec("S1", "1_1000_A_G", "1", 1000, 1, -20, 0.3, 0.02),
	}
	studyIndex := studylocus.NewStudyIndexTable([]studylocus.StudyIndex{{StudyID: "S1"}})

	res, err := pipeline.ProcessLocus(ctx, records, nil, studyIndex, pipeline.Config{})
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
}

func TestProcessBatch_ReturnsOneResultPerLocus(t *testing.T) {
	studyIndex := studylocus.NewStudyIndexTable([]studylocus.StudyIndex{{StudyID: "S1"}})
	loci := [][]studylocus.SummaryRecord{
		{rec("S1", "1_1000_A_G", "1", 1000, 1, -20, 0.3, 0.02)},
		{rec("S1", "2_2000_A_G", "2", 2000, 1, -20, 0.2, 0.02)},
	}

	results := pipeline.ProcessBatch(context.Background(), loci, nil, studyIndex, pipeline.Config{}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "1_1000_A_G", results[0].StudyLoci[0].LeadVariantID)
	assert.Equal(t, "2_2000_A_G", results[1].StudyLoci[0].LeadVariantID)
}
