package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics exposed by the japicc report server
// and updated by the CLI's compare pipeline.
type Metrics struct {
	// HTTP metrics (report server)
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Archive ingestion
	IngestedArchivesTotal *prometheus.CounterVec
	IngestDuration        *prometheus.HistogramVec
	DisassembledClasses   *prometheus.CounterVec

	// Comparison pipeline
	ChecksTotal        *prometheus.CounterVec
	CheckDuration      *prometheus.HistogramVec
	ProblemsBySeverity *prometheus.CounterVec

	// Result cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Dump history store
	DumpStoreOperationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics against registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_http_requests_total",
				Help: "Total number of report-server HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "japicc_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "japicc_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		IngestedArchivesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_ingested_archives_total",
				Help: "Total number of archives ingested, by outcome",
			},
			[]string{"status"},
		),
		IngestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "japicc_ingest_duration_seconds",
				Help:    "Time spent extracting and disassembling one archive set",
				Buckets: []float64{.5, 1, 5, 15, 30, 60, 180, 600},
			},
			[]string{"version"},
		),
		DisassembledClasses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_disassembled_classes_total",
				Help: "Total number of class files disassembled",
			},
			[]string{"version"},
		),

		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_checks_total",
				Help: "Total number of compatibility checks run, by level and verdict",
			},
			[]string{"level", "verdict"},
		),
		CheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "japicc_check_duration_seconds",
				Help:    "Time spent running detection and classification, end to end",
				Buckets: []float64{.5, 1, 5, 15, 30, 60, 180, 600},
			},
			[]string{"level"},
		),
		ProblemsBySeverity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_problems_total",
				Help: "Total number of compatibility problems found, by severity",
			},
			[]string{"level", "severity"},
		),

		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_cache_hits_total",
				Help: "Total number of result cache hits",
			},
			[]string{"level"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_cache_misses_total",
				Help: "Total number of result cache misses",
			},
			[]string{"level"},
		),

		DumpStoreOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "japicc_dump_store_operations_total",
				Help: "Total number of dump-history store operations, by outcome",
			},
			[]string{"operation", "status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.IngestedArchivesTotal,
		m.IngestDuration,
		m.DisassembledClasses,
		m.ChecksTotal,
		m.CheckDuration,
		m.ProblemsBySeverity,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DumpStoreOperationsTotal,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint.
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
