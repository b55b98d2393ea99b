package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	DocumentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inex",
			Name:      "documents_processed_total",
			Help:      "Total number of documents run through the pipeline",
		},
		[]string{"status"}, // "matched" / "unmatched" / "error"
	)

	TemplateMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inex",
			Name:      "template_matches_total",
			Help:      "Total number of best-match selections per template",
		},
		[]string{"template_id"},
	)

	FieldsExtractedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inex",
			Name:      "fields_extracted_total",
			Help:      "Total number of fields successfully extracted",
		},
	)

	RequiredFieldMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inex",
			Name:      "required_field_misses_total",
			Help:      "Total number of required fields no pattern matched",
		},
	)

	StageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inex",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"stage"}, // "match" / "extract" / "normalize"
	)
)

var registered bool

// Register registers pipeline metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	registered = true
	prometheus.MustRegister(
		DocumentsProcessedTotal,
		TemplateMatchesTotal,
		FieldsExtractedTotal,
		RequiredFieldMissesTotal,
		StageDurationSeconds,
	)
}
