package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "arabic_reader"

	OutcomeLabel = "outcome"
	KindLabel    = "kind"
	OpLabel      = "op"

	Success = "success"
	Failure = "failure"
	Skipped = "skipped"

	Exact       = "exact"
	Approximate = "approximate"
	Unmatched   = "unmatched"
	Delimiter   = "delimiter"

	SearchKind     = "search"
	DuplicatesKind = "duplicates"

	AddOp    = "add"
	UpdateOp = "update"
	DeleteOp = "delete"
)

var (
	AnnotatedTokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotated_tokens_total",
		Help:      "Tokens classified by the annotator, by outcome",
	}, []string{OutcomeLabel})

	LookupRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookup_requests_total",
		Help:      "Aggregated search and duplicate requests",
	}, []string{KindLabel, OutcomeLabel})

	LexiconWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lexicon_writes_total",
		Help:      "Lexicon add, update and delete calls",
	}, []string{OpLabel, OutcomeLabel})

	ErrorNotifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "error_notifications_total",
		Help:      "Error notifications by delivery outcome",
	}, []string{OutcomeLabel})
)

// Register registers every reader metric to registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(AnnotatedTokens)
	registry.MustRegister(LookupRequests)
	registry.MustRegister(LexiconWrites)
	registry.MustRegister(ErrorNotifications)
}

// Handler serves the metrics gathered by registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
