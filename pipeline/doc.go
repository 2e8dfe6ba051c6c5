// Package pipeline orchestrates one locus's flow through the core:
// clump -> fine-map -> QC -> colocalise. ProcessLocus is pure and
// synchronous; ProcessBatch is an additive convenience that drives
// ProcessLocus from a bounded worker pool for callers that want
// locus-level parallelism without writing the fan-out themselves.
package pipeline
