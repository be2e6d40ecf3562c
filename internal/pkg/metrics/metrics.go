package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PreviewsTotal counts analyzed previews by resulting kind.
	PreviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txpreview_previews_total",
			Help: "Number of analyzed transaction previews by preview kind.",
		},
		[]string{"kind"},
	)

	// AnalysisErrors counts analysis calls that failed.
	AnalysisErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "txpreview_analysis_errors_total",
			Help: "Number of failed preview analysis calls.",
		},
	)

	// AnalysisDuration observes end-to-end analysis latency.
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "txpreview_analysis_duration_seconds",
			Help:    "Duration of preview analysis calls.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(PreviewsTotal, AnalysisErrors, AnalysisDuration)
}
