package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/locusmap/statgen-core/coloc"
	"github.com/locusmap/statgen-core/studylocus"
)

var (
	colocLeft   string
	colocRight  string
	colocOut    string
	colocP1     float64
	colocP2     float64
	colocP12    float64
	colocMethod string
)

func newColocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coloc",
		Short: "Colocalise overlapping credible sets (COLOC or eCAVIAR)",
		Long: `Coloc reads two StudyLocus JSON-lines files and, for every
cross pair sharing at least one tag variant on the same chromosome,
computes either the five COLOC posterior hypothesis probabilities from
the per-variant log Bayes factors, or the eCAVIAR colocalisation
posterior (CLPP) from the per-variant posterior probabilities.

Output is one ColocResult JSON document per overlapping pair.`,
		RunE: runColoc,
	}

	cmd.Flags().StringVar(&colocLeft, "left", "", "Left StudyLocus JSON-lines file (required)")
	cmd.Flags().StringVar(&colocRight, "right", "", "Right StudyLocus JSON-lines file (required)")
	cmd.Flags().StringVar(&colocOut, "out", "", "Output ColocResult JSON-lines file (required)")
	cmd.Flags().Float64Var(&colocP1, "p1", 0, "Prior: causal in left only (default 1e-4)")
	cmd.Flags().Float64Var(&colocP2, "p2", 0, "Prior: causal in right only (default 1e-4)")
	cmd.Flags().Float64Var(&colocP12, "p12", 0, "Prior: shared causal variant (default 1e-5)")
	cmd.Flags().StringVar(&colocMethod, "method", "COLOC", "Colocalisation method: COLOC|eCAVIAR")
	cmd.MarkFlagRequired("left")
	cmd.MarkFlagRequired("right")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runColoc(cmd *cobra.Command, args []string) error {
	left, err := readStudyLoci(colocLeft)
	if err != nil {
		return err
	}
	right, err := readStudyLoci(colocRight)
	if err != nil {
		return err
	}

	useECaviar := false
	switch strings.ToUpper(colocMethod) {
	case "COLOC":
	case "ECAVIAR":
		useECaviar = true
	default:
		return schemaErr(errors.New("coloc: --method must be COLOC or eCAVIAR"))
	}

	priors := coloc.Priors{PriorC1: colocP1, PriorC2: colocP2, PriorC12: colocP12}

	var results []studylocus.ColocResult
	pairs := 0
	for _, l := range left {
		for _, r := range right {
			if l.Chromosome != r.Chromosome {
				continue
			}
			pair := studylocus.NewOverlapPair(l, r)
			if len(pair.Rows) == 0 {
				continue
			}
			pairs++

			var res studylocus.ColocResult
			if useECaviar {
				res, err = coloc.ColocaliseECaviar(pair)
			} else {
				res, err = coloc.Colocalise(pair, priors)
			}
			if err != nil {
				log.Warn("colocalisation skipped",
					"left", pair.LeftStudyLocusID, "right", pair.RightStudyLocusID, "error", err.Error())
				continue
			}
			results = append(results, res)
		}
	}

	log.Info("colocalisation done", "pairs", pairs, "results", len(results))
	return writeJSONLines(colocOut, results)
}
