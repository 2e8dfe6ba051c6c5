// Package studylocus defines the shared data contract that every other
// component in this module reads or writes: Variant, SummaryRecord,
// StudyLocus, LdVariantIndex, OverlapPair, ColocResult and StudyIndex.
//
// These are plain Go structs with no behavior beyond constructors and a
// few derived accessors (canonical variant IDs, a stable StudyLocus
// hash, ancestry-to-population mapping). Variant and SummaryRecord are
// immutable once constructed; StudyLocus.Locus, QualityControls and
// Confidence are mutated only by the pipeline package (fine-mapping
// results and failure flags) and the credsetqc package.
package studylocus
