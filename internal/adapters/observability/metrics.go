package observability

import (
	"github.com/rs/zerolog/log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "badash", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "badash", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "badash", Name: "external_requests_total", Help: "Outbound input fetches."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "badash", Name: "external_request_duration_seconds",
			Help:    "Outbound fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "badash", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|error
	)
	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "badash", Name: "pipeline_runs_total", Help: "Load/clean/join runs."},
		[]string{"outcome"}, // ok|load_error|data_error|error
	)
	PipelineLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "badash", Name: "pipeline_duration_seconds",
			Help:    "Load/clean/join duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	FilterEvaluations = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "badash", Name: "filter_evaluations_total", Help: "Filter cascade evaluations."},
	)
	FilteredRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "badash", Name: "filtered_rows",
			Help:    "Rows left after filtering.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
)

// Serve exposes /metrics on its own listener at addr; an empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(InitRegistry()))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

var (
	regOnce  sync.Once
	registry *prometheus.Registry
)

// InitRegistry returns the registry holding every collector above. Repeated
// calls return the same registry.
func InitRegistry() *prometheus.Registry {
	regOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents,
			PipelineRuns, PipelineLatency, FilterEvaluations, FilteredRows)
	})
	return registry
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del|error
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObservePipeline(outcome string, dur time.Duration) {
	PipelineRuns.WithLabelValues(outcome).Inc()
	PipelineLatency.Observe(dur.Seconds())
}

func ObserveFilter(rows int) {
	FilterEvaluations.Inc()
	FilteredRows.Observe(float64(rows))
}
