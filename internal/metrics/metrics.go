// Package metrics exposes Prometheus counters for the notifier pipeline.
// A custom registry keeps the /metrics output limited to what this process
// actually reports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	FetchAttempts = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "fxnotify",
		Name:      "fetch_attempts_total",
		Help:      "Feed fetch attempts, including retries.",
	})

	FetchFailures = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "fxnotify",
		Name:      "fetch_failures_total",
		Help:      "Feed fetches that ended without a usable document.",
	}, []string{"kind"}) // transient | terminal

	RecordsParsed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "fxnotify",
		Name:      "records_parsed_total",
		Help:      "Raw event records decoded from the feed.",
	})

	RecordsSkipped = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "fxnotify",
		Name:      "records_skipped_total",
		Help:      "Records excluded during classification.",
	}, []string{"reason"}) // past | fuzzy | filtered

	Deliveries = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "fxnotify",
		Name:      "deliveries_total",
		Help:      "Webhook delivery outcomes.",
	}, []string{"outcome"}) // ok | failed | skipped

	Runs = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "fxnotify",
		Name:      "runs_total",
		Help:      "Completed pipeline runs (startup and scheduled).",
	})
)

// Handler returns the /metrics HTTP handler for the status server.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
