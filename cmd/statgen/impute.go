package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/numkernels"
	"github.com/locusmap/statgen-core/raiss"
	"github.com/locusmap/statgen-core/statgenerr"
)

var (
	imputeObserved string
	imputeLd       string
	imputeOut      string
	imputeLambda   float64
	imputeRtol     float64
)

// imputedVariant is one output row of the impute command.
type imputedVariant struct {
	VariantID        string  `json:"variantId"`
	Z                float64 `json:"z"`
	R2               float64 `json:"r2"`
	LdScore          float64 `json:"ldScore"`
	ConditionNumber  float64 `json:"conditionNumber"`
	CorrectInversion bool    `json:"correctInversion"`
}

func newImputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impute",
		Short: "Impute unobserved z-scores from the LD panel (RAISS)",
		Long: `Impute reads observed (variantId, z) pairs, treats every other
variant of the LD panel as unobserved, and estimates its z-score from
the observed ones through the regularised pseudo-inverse of the
observed-observed LD block. Unrecoverable pseudo-inversion maps onto
exit code 4.`,
		RunE: runImpute,
	}

	cmd.Flags().StringVar(&imputeObserved, "observed", "", "Observed (variantId, z) TSV (required)")
	cmd.Flags().StringVar(&imputeLd, "ld", "", "SQLite LD panel (required)")
	cmd.Flags().StringVar(&imputeOut, "out", "", "Output imputed-variant JSON-lines file (required)")
	cmd.Flags().Float64Var(&imputeLambda, "lambda", 0, "Diagonal regularisation (default from config)")
	cmd.Flags().Float64Var(&imputeRtol, "rtol", 0, "Eigenvalue truncation tolerance (default from config)")
	cmd.MarkFlagRequired("observed")
	cmd.MarkFlagRequired("ld")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runImpute(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	ids, z, err := readObservedZ(imputeObserved)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return schemaErr(errors.New("impute: no observed records in input"))
	}

	store, err := openLdStore(imputeLd)
	if err != nil {
		return err
	}
	defer store.Close()

	observedIdx := make(map[int]int, len(ids)) // panel idx -> position in z
	for i, id := range ids {
		idx, ok := store.Lookup(id)
		if !ok {
			return fmt.Errorf("impute: %s: %w", id, ldstore.ErrVariantNotInPanel)
		}
		observedIdx[idx] = i
	}

	// The union submatrix over observed and unobserved panel variants is
	// materialised once and sliced into the observed-observed and
	// unobserved-observed blocks.
	entries := store.Index().Entries()
	unionIdxs := make([]int, 0, len(entries))
	unobservedIDs := make(map[int]string, len(entries)-len(ids))
	for _, e := range entries {
		unionIdxs = append(unionIdxs, e.Idx)
		if _, ok := observedIdx[e.Idx]; !ok {
			unobservedIDs[e.Idx] = e.VariantID()
		}
	}
	if len(unobservedIDs) == 0 {
		log.Info("imputation done", "observed", len(ids), "imputed", 0)
		return writeJSONLines(imputeOut, []imputedVariant{})
	}
	sort.Ints(unionIdxs)

	full, err := store.Submatrix(unionIdxs)
	if err != nil {
		return schemaErr(err)
	}

	// Column order of both blocks follows the union's ordering of the
	// observed variants, with zt permuted to match.
	var obsPos, unobsPos []int
	for pos, idx := range unionIdxs {
		if _, ok := observedIdx[idx]; ok {
			obsPos = append(obsPos, pos)
		} else {
			unobsPos = append(unobsPos, pos)
		}
	}

	zt := make([]float64, len(obsPos))
	for j, pos := range obsPos {
		zt[j] = z[observedIdx[unionIdxs[pos]]]
	}

	sigmaTT, err := full.Induced(obsPos, obsPos)
	if err != nil {
		return statgenerr.NewKindError(statgenerr.Numerical, err)
	}
	sigmaIT, err := full.Induced(unobsPos, obsPos)
	if err != nil {
		return statgenerr.NewKindError(statgenerr.Numerical, err)
	}

	params := raiss.Params{Lambda: cfg.Raiss.Lambda, Rtol: cfg.Raiss.Rtol}
	if imputeLambda > 0 {
		params.Lambda = imputeLambda
	}
	if imputeRtol > 0 {
		params.Rtol = imputeRtol
	}

	res, err := raiss.Impute(zt, sigmaTT, sigmaIT, params, ctx.Done())
	if err != nil {
		if errors.Is(err, numkernels.ErrCancelled) {
			return statgenerr.NewKindError(statgenerr.Cancelled, err)
		}
		return statgenerr.NewKindError(statgenerr.Numerical, err)
	}
	if res.Mu == nil {
		return statgenerr.NewKindError(statgenerr.Numerical, errors.New("impute: pseudo-inverse unrecoverable"))
	}

	out := make([]imputedVariant, len(unobsPos))
	for i, pos := range unobsPos {
		out[i] = imputedVariant{
			VariantID:        unobservedIDs[unionIdxs[pos]],
			Z:                res.Mu[i],
			R2:               res.R2[i],
			LdScore:          res.LdScore[i],
			ConditionNumber:  res.ConditionNumber,
			CorrectInversion: res.CorrectInversion,
		}
	}

	log.Info("imputation done", "observed", len(ids), "imputed", len(out), "conditionNumber", res.ConditionNumber)
	return writeJSONLines(imputeOut, out)
}
