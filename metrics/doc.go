// Package metrics exposes the Prometheus counters and histograms the
// pipeline package records against: loci processed, QC flags raised,
// numerical kernel failures, and per-locus processing latency. A nil
// Recorder is a no-op, so library callers can skip metrics entirely.
package metrics
