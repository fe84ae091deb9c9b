package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	interpretationsTotal  *prometheus.CounterVec
	extractionMethodTotal *prometheus.CounterVec
	routingTotal          *prometheus.CounterVec
	llmTokensTotal        *prometheus.CounterVec
	llmDuration           *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peinteles",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "peinteles",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "peinteles",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	interpretationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peinteles",
			Subsystem: "pipeline",
			Name:      "interpretations_total",
			Help:      "Total interpretation requests by tier and outcome.",
		},
		[]string{"service", "tier", "outcome"},
	)
	extractionMethodTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peinteles",
			Subsystem: "pipeline",
			Name:      "extraction_method_total",
			Help:      "Total extractions by winning method.",
		},
		[]string{"service", "method"},
	)
	routingTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peinteles",
			Subsystem: "pipeline",
			Name:      "routing_total",
			Help:      "Total quality-gate decisions by route.",
		},
		[]string{"service", "route"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peinteles",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Provider-reported token usage by direction.",
		},
		[]string{"service", "direction"},
	)
	llmDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "peinteles",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "End-to-end LLM call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "tier"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		interpretationsTotal,
		extractionMethodTotal,
		routingTotal,
		llmTokensTotal,
		llmDuration,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		interpretationsTotal:  interpretationsTotal,
		extractionMethodTotal: extractionMethodTotal,
		routingTotal:          routingTotal,
		llmTokensTotal:        llmTokensTotal,
		llmDuration:           llmDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func (m *HTTPServerMetrics) RecordInterpretation(service, tier, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.interpretationsTotal.WithLabelValues(service, tier, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordExtraction(service, method, route string) {
	if method != "" {
		m.extractionMethodTotal.WithLabelValues(service, method).Inc()
	}
	if route != "" {
		m.routingTotal.WithLabelValues(service, route).Inc()
	}
}

func (m *HTTPServerMetrics) RecordTokenUsage(service string, inputTokens, outputTokens int64) {
	if inputTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, "in").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, "out").Add(float64(outputTokens))
	}
}

func (m *HTTPServerMetrics) RecordLLMDuration(service, tier string, duration time.Duration) {
	m.llmDuration.WithLabelValues(service, tier).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
