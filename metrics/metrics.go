package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the counters and histogram pipeline.ProcessLocus
// instruments itself with. A nil *Recorder is safe to call every method
// on (all become no-ops), so callers that do not need metrics can pass
// nil instead of threading an interface through every signature.
type Recorder struct {
	lociProcessedTotal      prometheus.Counter
	qcFlagsTotal            *prometheus.CounterVec
	numericalFailuresTotal  *prometheus.CounterVec
	locusProcessingDuration prometheus.Histogram
}

// NewRecorder registers the four pipeline metrics against reg and
// returns a Recorder wired to them.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		lociProcessedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "loci_processed_total",
			Help: "Total number of loci run through ProcessLocus.",
		}),
		qcFlagsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qc_flags_total",
			Help: "Total number of quality-control flags raised, by flag name.",
		}, []string{"flag"}),
		numericalFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "numerical_failures_total",
			Help: "Total number of kernel numerical failures, by kernel name.",
		}, []string{"kernel"}),
		locusProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "locus_processing_duration_seconds",
			Help:    "Wall-clock time spent in ProcessLocus per locus.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordLocusProcessed increments the loci-processed counter.
func (r *Recorder) RecordLocusProcessed() {
	if r == nil {
		return
	}
	r.lociProcessedTotal.Inc()
}

// RecordQcFlag increments the qc-flags counter for flag.
func (r *Recorder) RecordQcFlag(flag string) {
	if r == nil {
		return
	}
	r.qcFlagsTotal.WithLabelValues(flag).Inc()
}

// RecordNumericalFailure increments the numerical-failures counter for
// kernel.
func (r *Recorder) RecordNumericalFailure(kernel string) {
	if r == nil {
		return
	}
	r.numericalFailuresTotal.WithLabelValues(kernel).Inc()
}

// Time starts a stopwatch against the locus-processing-duration
// histogram; the caller defers the returned function.
func (r *Recorder) Time() func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		r.locusProcessingDuration.Observe(time.Since(start).Seconds())
	}
}
