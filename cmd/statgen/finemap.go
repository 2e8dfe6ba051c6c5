package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/statgenerr"
	"github.com/locusmap/statgen-core/studylocus"
	"github.com/locusmap/statgen-core/susieinf"
)

var (
	finemapSumstats string
	finemapLd       string
	finemapOut      string
	finemapL        int
	finemapMethod   string
)

// finemapOutput is the credible-set artefact the finemap command writes:
// the fitted per-variant quantities in the same order as variantIds,
// plus one credible set (variant id list, descending alpha) per effect.
type finemapOutput struct {
	VariantIDs   []string    `json:"variantIds"`
	Pip          []float64   `json:"pip"`
	LbfVariable  [][]float64 `json:"lbfVariable"`
	CredibleSets [][]string  `json:"credibleSets"`
	Converged    bool        `json:"converged"`
	Iterations   int         `json:"iterations"`
}

func newFinemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finemap",
		Short: "Fine-map a locus with SuSiE-inf",
		Long: `Finemap reads one locus worth of summary statistics, derives
per-variant z-scores, extracts the matching LD sub-block from the panel
and fits the sum-of-single-effects model with an infinitesimal
background. Every variant in the input must be present in the panel;
a miss aborts with exit code 3.`,
		RunE: runFinemap,
	}

	cmd.Flags().StringVar(&finemapSumstats, "sumstats", "", "Summary statistics TSV for a single locus (required)")
	cmd.Flags().StringVar(&finemapLd, "ld", "", "SQLite LD panel (required)")
	cmd.Flags().StringVar(&finemapOut, "out", "", "Output credible-set JSON file (required)")
	cmd.Flags().IntVar(&finemapL, "L", 0, "Number of single effects (default from config)")
	cmd.Flags().StringVar(&finemapMethod, "method", "", "Residual variance estimator: moments|MLE (default from config)")
	cmd.MarkFlagRequired("sumstats")
	cmd.MarkFlagRequired("ld")
	cmd.MarkFlagRequired("out")

	return cmd
}

func susieParams() susieinf.Params {
	p := susieinf.Params{
		L:                   cfg.Susie.L,
		VarEstimator:        susieinf.VarEstimator(cfg.Susie.VarEstimator),
		MaxIter:             cfg.Susie.MaxIter,
		Tol:                 cfg.Susie.Tol,
		CredibleSetCoverage: cfg.Susie.CredibleSetCoverage,
	}
	if finemapL > 0 {
		p.L = finemapL
	}
	if finemapMethod != "" {
		p.VarEstimator = susieinf.VarEstimator(finemapMethod)
	}
	return p
}

func runFinemap(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	records, err := readSummaryRecords(finemapSumstats)
	if err != nil {
		return err
	}

	store, err := openLdStore(finemapLd)
	if err != nil {
		return err
	}
	defer store.Close()

	type resolved struct {
		rec   studylocus.SummaryRecord
		ldIdx int
	}
	rows := make([]resolved, 0, len(records))
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		idx, ok := store.Lookup(rec.VariantID)
		if !ok {
			return fmt.Errorf("finemap: %s: %w", rec.VariantID, ldstore.ErrVariantNotInPanel)
		}
		rows = append(rows, resolved{rec: rec, ldIdx: idx})
	}
	if len(rows) == 0 {
		return schemaErr(errors.New("finemap: no usable records in input"))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ldIdx < rows[j].ldIdx })

	idxs := make([]int, len(rows))
	z := make([]float64, len(rows))
	ids := make([]string, len(rows))
	for i, r := range rows {
		idxs[i] = r.ldIdx
		z[i] = r.rec.Beta / r.rec.StandardError
		ids[i] = r.rec.VariantID
	}

	r, err := store.Submatrix(idxs)
	if err != nil {
		return schemaErr(err)
	}

	res, err := susieinf.Fit(z, r, susieParams(), ctx.Done())
	if err != nil {
		if errors.Is(err, susieinf.ErrCancelled) {
			return statgenerr.NewKindError(statgenerr.Cancelled, err)
		}
		return statgenerr.NewKindError(statgenerr.Numerical, err)
	}

	out := finemapOutput{
		VariantIDs:   ids,
		Pip:          res.Pip,
		LbfVariable:  res.LbfVariable,
		Converged:    res.Converged,
		Iterations:   res.Iterations,
		CredibleSets: make([][]string, len(res.CredibleSets)),
	}
	for e, cs := range res.CredibleSets {
		members := make([]string, len(cs))
		for i, v := range cs {
			members[i] = ids[v]
		}
		out.CredibleSets[e] = members
	}

	log.Info("fine-mapping done", "variants", len(ids), "credibleSets", len(out.CredibleSets), "converged", res.Converged)
	return writeJSONLines(finemapOut, []finemapOutput{out})
}
