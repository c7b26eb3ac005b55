package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	processed       *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	classifications *prometheus.CounterVec
	duration        prometheus.Histogram
}

// NewMetrics builds the pipeline collectors and registers them when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scriptorium",
			Name:      "documents_processed_total",
			Help:      "Documents processed by terminal status.",
		}, []string{"status"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scriptorium",
			Name:      "rejections_total",
			Help:      "Rejected documents by reason.",
		}, []string{"reason"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scriptorium",
			Name:      "classifications_total",
			Help:      "Curated documents by period and genre.",
		}, []string{"period", "genre"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scriptorium",
			Name:      "document_seconds",
			Help:      "Per-document processing time.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.processed, m.rejections, m.classifications, m.duration)
	}
	return m
}

func (m *Metrics) observe(o Outcome, elapsed time.Duration) {
	m.processed.WithLabelValues(string(o.Status)).Inc()
	m.duration.Observe(elapsed.Seconds())

	switch o.Status {
	case StatusCurated:
		m.classifications.WithLabelValues(
			string(o.Classification.Period),
			string(o.Classification.Genre)).Inc()
	case StatusRejected:
		if o.Rejection != nil {
			m.rejections.WithLabelValues(string(o.Rejection.Reason)).Inc()
		}
	}
}
