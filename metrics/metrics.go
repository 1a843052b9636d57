// Package metrics exposes parser counters in the Prometheus format.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chartparse"

// Outcome labels for ParsesTotal.
const (
	OutcomeSpanned   = "spanned"
	OutcomeUnspanned = "unspanned"
	OutcomeEmpty     = "empty"
)

// Registry holds every chartparse collector. It is separate from the default
// registry so tests and embedders see only parser series.
var Registry = prometheus.NewRegistry()

var (
	ParsesTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parses_total",
		Help:      "Parses run, by final state.",
	}, []string{"outcome"})

	SentencesTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sentences_total",
		Help:      "Sentence nodes spanning the whole input.",
	})

	FragmentsTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fragments_total",
		Help:      "Fragments handed out by fragment recovery, gaps excluded.",
	})

	NodesCreatedTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nodes_created_total",
		Help:      "Chart nodes created, leaves included.",
	})

	BudgetStopsTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "budget_stops_total",
		Help:      "Parses cut short by their budget.",
	})

	ParsePasses = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "parse_passes",
		Help:      "Iteration passes per parse.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})

	ParseDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "parse_duration_seconds",
		Help:      "Wall time per parse.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)

// session counts sentences found since process start.
var session atomic.Int64

// Parse summarizes one finished parse.
type Parse struct {
	Outcome       string
	Sentences     int
	Fragments     int
	Nodes         int
	Passes        int
	BudgetStopped bool
	Duration      time.Duration
}

// ObserveParse records p in every collector.
func ObserveParse(p Parse) {
	ParsesTotal.WithLabelValues(p.Outcome).Inc()
	SentencesTotal.Add(float64(p.Sentences))
	FragmentsTotal.Add(float64(p.Fragments))
	NodesCreatedTotal.Add(float64(p.Nodes))
	if p.BudgetStopped {
		BudgetStopsTotal.Inc()
	}
	ParsePasses.Observe(float64(p.Passes))
	ParseDuration.Observe(p.Duration.Seconds())
	session.Add(int64(p.Sentences))
}

// SessionSentences returns the sentences found since process start.
func SessionSentences() int64 {
	return session.Load()
}

// Handler serves Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
