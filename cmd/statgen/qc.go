package main

import (
	"github.com/spf13/cobra"

	"github.com/locusmap/statgen-core/credsetqc"
	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/studylocus"
)

var (
	qcCredsets   string
	qcStudyIndex string
	qcLd         string
	qcOut        string
	qcInvalid    string
)

func newQcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Flag and filter credible sets",
		Long: `Qc reads StudyLocus JSON-lines credible sets and a StudyIndex
JSON-lines file, runs the full flagging pass (MHC region, chromosome,
study membership, PICS redundancy, SuSiE-explained, PIP range, purity)
and assigns each locus a confidence tier. With --ld set, purity is
evaluated against the panel; the inter-locus LD-clumping step runs only
when --ld is set and the config file sets qc.clump to true.

Unflagged loci go to --out; with --invalid set, flagged loci are
redirected there instead of being written alongside the clean ones.`,
		RunE: runQc,
	}

	cmd.Flags().StringVar(&qcCredsets, "credsets", "", "StudyLocus JSON-lines file (required)")
	cmd.Flags().StringVar(&qcStudyIndex, "study-index", "", "StudyIndex JSON-lines file (required)")
	cmd.Flags().StringVar(&qcLd, "ld", "", "SQLite LD panel (enables purity, and LD clumping when qc.clump is set)")
	cmd.Flags().StringVar(&qcOut, "out", "", "Output StudyLocus JSON-lines file (required)")
	cmd.Flags().StringVar(&qcInvalid, "invalid", "", "Sink for flagged loci (default: kept in --out)")
	cmd.MarkFlagRequired("credsets")
	cmd.MarkFlagRequired("study-index")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runQc(cmd *cobra.Command, args []string) error {
	loci, err := readStudyLoci(qcCredsets)
	if err != nil {
		return err
	}
	studyIndex, err := readStudyIndex(qcStudyIndex)
	if err != nil {
		return err
	}

	var ld ldstore.LdStore
	if qcLd != "" {
		store, err := openLdStore(qcLd)
		if err != nil {
			return err
		}
		defer store.Close()
		ld = store
	}

	params := credsetqc.Params{
		PSignificance: cfg.Qc.PSignificance,
		PurityMinR2:   cfg.Qc.PurityMinR2,
		LdMinR2:       cfg.Qc.LdMinR2,
		Clump:         cfg.Qc.Clump && ld != nil,
	}

	qcd, err := credsetqc.QC(loci, studyIndex, ld, params)
	if err != nil {
		return schemaErr(err)
	}

	if qcInvalid == "" {
		log.Info("qc done", "loci", len(qcd))
		return writeJSONLines(qcOut, qcd)
	}

	var valid, invalid []studylocus.StudyLocus
	for _, sl := range qcd {
		if len(sl.QualityControls) == 0 {
			valid = append(valid, sl)
		} else {
			invalid = append(invalid, sl)
		}
	}

	log.Info("qc done", "loci", len(qcd), "valid", len(valid), "invalid", len(invalid))
	if err := writeJSONLines(qcOut, valid); err != nil {
		return err
	}
	return writeJSONLines(qcInvalid, invalid)
}
