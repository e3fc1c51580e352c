// Package metrics exposes Prometheus counters for the ingestion
// pipeline: upstream call outcomes, retries, and stale-cache serves.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder wraps the pipeline's counters. A nil Recorder is valid and
// records nothing, so wiring metrics stays optional.
type Recorder struct {
	upstream         *prom.CounterVec
	retries          prom.Counter
	retriesExhausted prom.Counter
	staleServed      prom.Counter
}

// NewRecorder constructs and registers the pipeline metrics.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		upstream: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "notionsite",
			Name:      "upstream_requests_total",
			Help:      "Upstream content API calls by operation and result",
		}, []string{"op", "result"}),
		retries: prom.NewCounter(prom.CounterOpts{
			Namespace: "notionsite",
			Name:      "upstream_retries_total",
			Help:      "Upstream fetch retries after transient failures",
		}),
		retriesExhausted: prom.NewCounter(prom.CounterOpts{
			Namespace: "notionsite",
			Name:      "upstream_retry_exhausted_total",
			Help:      "Fetches that failed every attempt with no stale fallback",
		}),
		staleServed: prom.NewCounter(prom.CounterOpts{
			Namespace: "notionsite",
			Name:      "stale_cache_served_total",
			Help:      "Documents served from the stale block-level cache",
		}),
	}
	reg.MustRegister(r.upstream, r.retries, r.retriesExhausted, r.staleServed)
	return r
}

// IncUpstream counts one upstream call by operation and result.
func (r *Recorder) IncUpstream(op, result string) {
	if r == nil {
		return
	}
	r.upstream.WithLabelValues(op, result).Inc()
}

// IncRetry counts one retry.
func (r *Recorder) IncRetry() {
	if r == nil {
		return
	}
	r.retries.Inc()
}

// IncRetryExhausted counts one fully failed fetch.
func (r *Recorder) IncRetryExhausted() {
	if r == nil {
		return
	}
	r.retriesExhausted.Inc()
}

// IncStaleServed counts one stale-cache serve.
func (r *Recorder) IncStaleServed() {
	if r == nil {
		return
	}
	r.staleServed.Inc()
}

// Handler returns the HTTP handler serving the registry.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
