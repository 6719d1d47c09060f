package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeExtractionError = "extraction_error"
	OutcomeError           = "error"
	OutcomeCached          = "cached"
)

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	conversionsTotal     *prometheus.CounterVec
	conversionDuration   prometheus.Histogram
	transactionsPerFile  prometheus.Histogram
	parseWarningsPerFile prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ubextract",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ubextract",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ubextract",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
		},
	)
	conversionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ubextract",
			Subsystem: "conversion",
			Name:      "total",
			Help:      "Statement conversions by outcome.",
		},
		[]string{"outcome"},
	)
	conversionDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ubextract",
			Subsystem: "conversion",
			Name:      "duration_seconds",
			Help:      "Time spent extracting and parsing one statement.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	transactionsPerFile := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ubextract",
			Subsystem: "conversion",
			Name:      "transactions",
			Help:      "Transactions extracted per statement.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
	parseWarningsPerFile := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ubextract",
			Subsystem: "conversion",
			Name:      "parse_warnings",
			Help:      "Unrecognized lines per statement.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		conversionsTotal,
		conversionDuration,
		transactionsPerFile,
		parseWarningsPerFile,
	)

	return &Metrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		conversionsTotal:     conversionsTotal,
		conversionDuration:   conversionDuration,
		transactionsPerFile:  transactionsPerFile,
		parseWarningsPerFile: parseWarningsPerFile,
	}
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, duration and in-flight requests. Requests
// are labelled with the chi route pattern so ids in paths do not explode
// label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		route := routePattern(r)
		m.requestTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// RecordConversion records one finished conversion. Counts are observed only
// for conversions that produced a result.
func (m *Metrics) RecordConversion(outcome string, transactions, warnings int, duration time.Duration) {
	if m == nil {
		return
	}
	m.conversionsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	m.conversionDuration.Observe(duration.Seconds())
	m.transactionsPerFile.Observe(float64(transactions))
	m.parseWarningsPerFile.Observe(float64(warnings))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
