// Package metrics owns the Prometheus collectors of the API.
// Collectors are registered on an injected Registerer so tests can use a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hike_planner"

// Consensus outcomes.
const (
	ConsensusNone    = "none"    // nothing reached the minimum support
	ConsensusPartial = "partial" // a weekend or a region, not both
	ConsensusReady   = "ready"   // itinerary generation is possible
)

// Metrics is the set of collectors the API records into.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	consensus      *prometheus.CounterVec
	generations    *prometheus.CounterVec
	generationTime prometheus.Histogram
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		consensus: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consensus_computations_total",
			Help:      "Consensus computations by outcome.",
		}, []string{"outcome"}),
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itinerary_generations_total",
			Help:      "Itinerary generation attempts by outcome.",
		}, []string{"outcome"}),
		generationTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "itinerary_generation_duration_seconds",
			Help:      "Time spent waiting for the text generator.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
	}
}

// ConsensusComputed records one consensus computation.
func (m *Metrics) ConsensusComputed(hasConsensus, canGenerate bool) {
	outcome := ConsensusNone
	switch {
	case canGenerate:
		outcome = ConsensusReady
	case hasConsensus:
		outcome = ConsensusPartial
	}
	m.consensus.WithLabelValues(outcome).Inc()
}

// ItineraryGenerated records one generation attempt under the outcome label
// the service reports (service.Generation*). elapsed is only observed
// when the generator was actually called (elapsed > 0).
func (m *Metrics) ItineraryGenerated(outcome string, elapsed time.Duration) {
	m.generations.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		m.generationTime.Observe(elapsed.Seconds())
	}
}

// Middleware records request count and latency labelled by the chi route
// pattern, so /trips/{token} stays one series regardless of the token.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
