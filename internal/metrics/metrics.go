package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zotsearch_web_requests_total",
		Help: "Total number of HTTP requests to the web adapter",
	}, []string{"method", "path", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zotsearch_web_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	BackendSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zotsearch_backend_searches_total",
		Help: "Searches sent to the backend by outcome",
	}, []string{"outcome"})

	BackendSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zotsearch_backend_search_duration_seconds",
		Help:    "Round trip time of backend searches",
		Buckets: prometheus.DefBuckets,
	})

	DocumentsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zotsearch_documents_rendered_total",
		Help: "Result documents rendered by template kind",
	}, []string{"kind"})

	CoversTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zotsearch_covers_total",
		Help: "Cover prefetch results by status",
	}, []string{"status"})
)

// Backend search outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeStatus     = "status_error"
	OutcomeTransport  = "transport_error"
	OutcomeDecode     = "decode_error"
	OutcomeContract   = "contract_error"
	OutcomeSuperseded = "superseded"
)
