package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ticket classifier metrics
var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifier_classifications_total",
			Help: "Total number of ticket classifications by outcome",
		},
		[]string{"status", "priority"},
	)

	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_classifier_classification_duration_seconds",
			Help:    "End-to-end classification duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1min
		},
	)

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifier_llm_requests_total",
			Help: "Total number of chat completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticket_classifier_llm_request_duration_seconds",
			Help:    "Chat completion request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider", "model"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifier_llm_tokens_total",
			Help: "Total number of LLM tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: input/output
	)

	EmbeddingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifier_embedding_requests_total",
			Help: "Total number of embedding requests",
		},
		[]string{"status"}, // ok, error, cache_hit
	)

	RetrievedDocuments = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_classifier_retrieved_documents",
			Help:    "Number of historical tickets retrieved per query",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	RelevantEvidenceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifier_evidence_total",
			Help: "Classifications by evidence relevance",
		},
		[]string{"relevant"},
	)

	IndexedDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticket_classifier_indexed_documents",
			Help: "Number of documents in the knowledge collection",
		},
	)
)
