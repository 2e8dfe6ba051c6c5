// Package susieinf fits a sum-of-single-effects (SuSiE) model against
// z-scores and an LD correlation matrix, producing per-effect posterior
// inclusion probabilities, a per-variant PIP, and per-effect credible
// sets.
//
// Each outer iteration residualises the z-scores against the other
// effects, recomputes per-variant Wakefield log Bayes factors, softmaxes
// them into the effect's inclusion posterior, and re-estimates the prior
// variance by method-of-moments or a one-step MLE. The loop is
// deterministic (fixed effect order, no randomised starts) and checks
// the abort channel at each outer iteration boundary.
package susieinf
