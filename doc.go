// Package statgencore is the root of the statgen-core module: a GWAS/QTL
// summary-statistics post-processing toolkit covering window-based peak
// clumping, LD lookups, effect harmonisation, RAISS z-score imputation,
// COLOC/eCAVIAR colocalisation, SuSiE-inf fine-mapping and credible-set QC.
//
// The module is organized as a set of small, independently testable
// packages under a common numeric backbone:
//
//	matrix/        — dense linear algebra primitives (Mul, MatVec, Jacobi eigen)
//	numkernels/     — log-sum-exp, normal tail probabilities, symmetric pinv
//	studylocus/     — shared data contract (Variant, StudyLocus, ColocResult, ...)
//	ldstore/        — read-only LD correlation matrix lookups (memory + sqlite)
//	harmonise/      — per-variant effect harmonisation
//	clump/          — window-based peak detection
//	raiss/          — z-score imputation
//	coloc/          — COLOC and eCAVIAR colocalisation
//	susieinf/       — SuSiE-inf fine-mapping
//	credsetqc/      — credible-set QC flags and confidence assignment
//	pipeline/       — per-locus orchestration (clump -> fine-map -> QC -> coloc)
//	statgenlog/     — structured logging
//	statgenconfig/  — YAML configuration loading
//	statgenerr/     — typed, recoverable/fatal error results
//	metrics/        — Prometheus counters and histograms
//	cmd/statgen/    — CLI entry point
//
// This package itself carries no exported surface; it exists only to give
// the module a root-level doc comment.
package statgencore
