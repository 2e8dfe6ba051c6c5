// Package coloc computes Bayesian colocalisation between two StudyLocus
// credible sets, via the single-causal-variant COLOC model and the
// multi-causal-variant eCAVIAR CLPP statistic.
//
// The COLOC posterior is computed entirely in log space: per-hypothesis
// log-evidences over numkernels.LogSumExp, with the H3 term evaluated in
// the numerically stable form max + log(exp(a-max) - exp(b-max)) and
// dropped outright when the two logsums coincide (the single shared
// variant case, where distinct causal variants are impossible).
package coloc
