package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector provides centralized Prometheus metrics for the
// risk service
type MetricsCollector struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Engine metrics
	assessmentsTotal   *prometheus.CounterVec
	assessmentDuration *prometheus.HistogramVec
	scenariosSimulated prometheus.Counter

	// System metrics
	serviceUptime prometheus.GaugeFunc
}

// NewMetricsCollector creates and registers all metrics
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()
	startTime := time.Now()

	mc := &MetricsCollector{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		assessmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risk_assessments_total",
				Help: "Completed risk assessments by output level",
			},
			[]string{"output_level"},
		),
		assessmentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "risk_assessment_duration_seconds",
				Help:    "End-to-end Monte Carlo engine latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"output_level"},
		),
		scenariosSimulated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "risk_scenarios_simulated_total",
				Help: "Total Monte Carlo scenarios evaluated",
			},
		),
		serviceUptime: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "service_uptime_seconds",
				Help: "Time since service start",
			},
			func() float64 { return time.Since(startTime).Seconds() },
		),
	}

	registry.MustRegister(
		mc.httpRequestsTotal,
		mc.httpRequestDuration,
		mc.assessmentsTotal,
		mc.assessmentDuration,
		mc.scenariosSimulated,
		mc.serviceUptime,
	)
	return mc
}

// ObserveRequest records one completed HTTP request
func (mc *MetricsCollector) ObserveRequest(method, endpoint string, statusCode int, duration time.Duration) {
	mc.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	mc.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveAssessment records one completed engine run; implements the
// assessment.Recorder interface
func (mc *MetricsCollector) ObserveAssessment(level string, scenarios int, duration time.Duration) {
	mc.assessmentsTotal.WithLabelValues(level).Inc()
	mc.assessmentDuration.WithLabelValues(level).Observe(duration.Seconds())
	mc.scenariosSimulated.Add(float64(scenarios))
}

// Handler exposes the registry in Prometheus text format
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}
