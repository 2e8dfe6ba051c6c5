package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/locusmap/statgen-core/clump"
	"github.com/locusmap/statgen-core/coloc"
	"github.com/locusmap/statgen-core/credsetqc"
	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/metrics"
	"github.com/locusmap/statgen-core/statgenerr"
	"github.com/locusmap/statgen-core/statgenlog"
	"github.com/locusmap/statgen-core/studylocus"
	"github.com/locusmap/statgen-core/susieinf"
)

// Config bundles every component's parameters for a single pipeline run.
type Config struct {
	Clump     clump.Params
	Susie     susieinf.Params
	QC        credsetqc.Params
	Coloc     coloc.Priors
	Metrics   *metrics.Recorder
	Log       *statgenlog.Logger
}

// LocusResult is ProcessLocus's output: the post clump/fine-map/QC
// StudyLoci for the input records, every pairwise colocalisation result
// among them, and whether the run was cut short by context cancellation.
type LocusResult struct {
	StudyLoci    []studylocus.StudyLocus
	ColocResults []studylocus.ColocResult
	Cancelled    bool
}

// ProcessLocus runs clump -> fine-map -> QC -> colocalise over records,
// a single study-or-window's worth of summary statistics, checking
// ctx.Done() at each step boundary and forwarding it as the abort signal
// to susieinf.Fit.
func ProcessLocus(ctx context.Context, records []studylocus.SummaryRecord, ld ldstore.LdStore, studyIndex studylocus.StudyIndexTable, cfg Config) (LocusResult, error) {
	if cfg.Metrics != nil {
		defer cfg.Metrics.Time()()
	}

	peaks, err := clump.Clump(records, cfg.Clump)
	if err != nil {
		return LocusResult{}, statgenerr.NewKindError(statgenerr.InputSchema, fmt.Errorf("pipeline.ProcessLocus: %w", err))
	}

	select {
	case <-ctx.Done():
		return LocusResult{StudyLoci: peaks, Cancelled: true}, nil
	default:
	}

	for i := range peaks {
		if err := fineMap(ctx, &peaks[i], ld, cfg); err != nil {
			if cfg.Log != nil {
				cfg.Log.Warn("fine-mapping skipped", "studyLocusId", peaks[i].StudyLocusID, "error", err.Error())
			}
			peaks[i].AddFlag(studylocus.NumericFailure)
			if cfg.Metrics != nil {
				cfg.Metrics.RecordNumericalFailure("susieinf")
			}
		}
	}

	select {
	case <-ctx.Done():
		return LocusResult{StudyLoci: peaks, Cancelled: true}, nil
	default:
	}

	qcd, err := credsetqc.QC(peaks, studyIndex, ld, cfg.QC)
	if err != nil {
		return LocusResult{}, statgenerr.NewKindError(statgenerr.Fatal, fmt.Errorf("pipeline.ProcessLocus: %w", err))
	}
	if cfg.Metrics != nil {
		for _, sl := range qcd {
			for _, flag := range sl.QualityControls {
				cfg.Metrics.RecordQcFlag(string(flag))
			}
		}
	}

	colocResults := colocaliseAll(qcd, cfg.Coloc)

	if cfg.Metrics != nil {
		cfg.Metrics.RecordLocusProcessed()
	}

	return LocusResult{StudyLoci: qcd, ColocResults: colocResults}, nil
}

// fineMap fits SuSiE-inf over peak's locus window (its tag variants'
// implied z-scores against the LD submatrix ld reports for them) and
// writes the resulting per-variant posterior inclusion probabilities
// back onto peak.Locus.
func fineMap(ctx context.Context, peak *studylocus.StudyLocus, ld ldstore.LdStore, cfg Config) error {
	if len(peak.Locus) < 2 || ld == nil {
		return nil
	}

	type tagIdx struct {
		tagPos int
		ldIdx  int
	}
	var resolved []tagIdx
	for i, t := range peak.Locus {
		idx, ok := ld.Lookup(t.VariantID)
		if !ok {
			peak.AddFlag(studylocus.LdPanelIncomplete)
			return nil
		}
		resolved = append(resolved, tagIdx{tagPos: i, ldIdx: idx})
	}
	sort.Slice(resolved, func(a, b int) bool { return resolved[a].ldIdx < resolved[b].ldIdx })

	ldIdxs := make([]int, len(resolved))
	z := make([]float64, len(resolved))
	for i, r := range resolved {
		ldIdxs[i] = r.ldIdx
		tag := peak.Locus[r.tagPos]
		if tag.StandardError > 0 {
			z[i] = tag.Beta / tag.StandardError
		}
	}

	r, err := ld.Submatrix(ldIdxs)
	if err != nil {
		return fmt.Errorf("fineMap: %w", err)
	}

	res, err := susieinf.Fit(z, r, cfg.Susie, ctx.Done())
	if err != nil {
		return fmt.Errorf("fineMap: %w", err)
	}

	for i, rr := range resolved {
		peak.Locus[rr.tagPos].PosteriorProbability = res.Pip[i]
	}
	return nil
}

// colocaliseAll runs Colocalise over every distinct pair among loci that
// overlap on the same chromosome and share at least one tag variant.
func colocaliseAll(loci []studylocus.StudyLocus, priors coloc.Priors) []studylocus.ColocResult {
	var results []studylocus.ColocResult
	for i := 0; i < len(loci); i++ {
		for j := i + 1; j < len(loci); j++ {
			if loci[i].Chromosome != loci[j].Chromosome {
				continue
			}
			pair := studylocus.NewOverlapPair(loci[i], loci[j])
			if len(pair.Rows) == 0 {
				continue
			}
			res, err := coloc.Colocalise(pair, priors)
			if err != nil {
				continue
			}
			results = append(results, res)
		}
	}
	return results
}

// ProcessBatch runs ProcessLocus over every entry of loci using a bounded
// pool of workers goroutines, returning one LocusResult per input in the
// same order. It is strictly an optional convenience: every kernel
// remains callable one-locus-at-a-time via ProcessLocus directly.
func ProcessBatch(ctx context.Context, loci [][]studylocus.SummaryRecord, ld ldstore.LdStore, studyIndex studylocus.StudyIndexTable, cfg Config, workers int) []LocusResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]LocusResult, len(loci))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := ProcessLocus(ctx, loci[i], ld, studyIndex, cfg)
				if err != nil {
					cancelled := false
					if ke := statgenerr.AsKindError(err); ke != nil {
						cancelled = ke.Kind == statgenerr.Cancelled
					}
					res = LocusResult{Cancelled: cancelled}
				}
				results[i] = res
			}
		}()
	}

	for i := range loci {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
