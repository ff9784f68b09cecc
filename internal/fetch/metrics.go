package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the fetch engine.
type Metrics struct {
	Registry            *prometheus.Registry
	RequestsTotal       *prometheus.CounterVec
	RetriesTotal        *prometheus.CounterVec
	SkipsTotal          prometheus.Counter
	DownloadsTotal      *prometheus.CounterVec
	TranslationFailures prometheus.Counter
}

// NewMetrics constructs and registers all collectors on a dedicated
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagecoleman_requests_total",
			Help: "HTTP requests issued, by kind (page or image).",
		},
		[]string{"kind"},
	)
	retries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagecoleman_retries_total",
			Help: "Retry attempts scheduled, by kind.",
		},
		[]string{"kind"},
	)
	skips := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "imagecoleman_skips_total",
			Help: "Downloads skipped because a valid local copy existed.",
		},
	)
	downloads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagecoleman_downloads_total",
			Help: "Terminal download results, by status.",
		},
		[]string{"status"},
	)
	translationFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "imagecoleman_translation_failures_total",
			Help: "Translation calls that degraded to the source text.",
		},
	)

	registry.MustRegister(requests, retries, skips, downloads, translationFailures)

	return &Metrics{
		Registry:            registry,
		RequestsTotal:       requests,
		RetriesTotal:        retries,
		SkipsTotal:          skips,
		DownloadsTotal:      downloads,
		TranslationFailures: translationFailures,
	}
}

// IncRequest counts one issued request of the given kind.
func (m *Metrics) IncRequest(kind string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind).Inc()
}

// IncRetry counts one scheduled retry of the given kind.
func (m *Metrics) IncRetry(kind string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(kind).Inc()
}

// IncSkip counts one idempotent skip.
func (m *Metrics) IncSkip() {
	if m == nil {
		return
	}
	m.SkipsTotal.Inc()
}

// IncDownload counts one terminal download result.
func (m *Metrics) IncDownload(status string) {
	if m == nil {
		return
	}
	m.DownloadsTotal.WithLabelValues(status).Inc()
}

// IncTranslationFailure counts one degraded translation.
func (m *Metrics) IncTranslationFailure() {
	if m == nil {
		return
	}
	m.TranslationFailures.Inc()
}
