// Package credsetqc applies post-hoc quality-control filters to
// fine-mapped StudyLocus credible sets and assigns a confidence tier.
//
// Checks run in a fixed order: MHC region, chromosome label, study
// membership, lead-variant significance, PICS-redundancy, SuSiE-explained,
// 95% credible-set
// filtering, PIP-range, purity, confidence assignment, and finally the
// optional inter-locus LD-clumping pass against the reference panel.
// Flags accumulate and are never removed.
package credsetqc
