// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchspot_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "launchspot_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchspot_resolutions_total",
			Help: "Visibility resolutions by data source and likelihood.",
		},
		[]string{"source", "likelihood"},
	)

	resolutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "launchspot_resolution_duration_seconds",
			Help:    "Time spent resolving one launch.",
			Buckets: prometheus.DefBuckets,
		},
	)

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "launchspot_cache_hits_total",
		Help: "Visibility cache hits.",
	})

	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "launchspot_cache_misses_total",
		Help: "Visibility cache misses.",
	})

	cacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "launchspot_cache_evictions_total",
		Help: "Visibility cache entries evicted by TTL or replacement.",
	})

	cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "launchspot_cache_entries",
		Help: "Current number of visibility cache entries.",
	})

	supplierFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchspot_supplier_failures_total",
			Help: "Collaborator fetch failures by supplier.",
		},
		[]string{"supplier"},
	)

	catalogAge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "launchspot_catalog_age_seconds",
		Help: "Age of the current launch dataset.",
	})

	catalogLaunches = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "launchspot_catalog_launches",
		Help: "Number of launches in the current dataset.",
	})
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		resolutionsTotal,
		resolutionDuration,
		cacheHits,
		cacheMisses,
		cacheEvictions,
		cacheEntries,
		supplierFailures,
		catalogAge,
		catalogLaunches,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordResolution records one completed visibility resolution.
func RecordResolution(source, likelihood string, d time.Duration) {
	resolutionsTotal.WithLabelValues(source, likelihood).Inc()
	resolutionDuration.Observe(d.Seconds())
}

// IncCacheHits increments the visibility cache hit counter.
func IncCacheHits() { cacheHits.Inc() }

// IncCacheMisses increments the visibility cache miss counter.
func IncCacheMisses() { cacheMisses.Inc() }

// AddCacheEvictions adds to the eviction counter.
func AddCacheEvictions(n int) { cacheEvictions.Add(float64(n)) }

// SetCacheEntries publishes the current cache size.
func SetCacheEntries(n int) { cacheEntries.Set(float64(n)) }

// IncSupplierFailure records a collaborator fetch failure.
func IncSupplierFailure(supplier string) {
	supplierFailures.WithLabelValues(supplier).Inc()
}

// SetCatalogAge publishes the current dataset age in seconds.
func SetCatalogAge(seconds float64) { catalogAge.Set(seconds) }

// SetCatalogLaunches publishes the current dataset size.
func SetCatalogLaunches(n int) { catalogLaunches.Set(float64(n)) }

// knownRoutes are the exact paths exported as label values. Anything else
// collapses to "other" so scanner noise cannot blow up label cardinality.
var knownRoutes = map[string]bool{
	"/":                   true,
	"/healthz":            true,
	"/readyz":             true,
	"/metrics":            true,
	"/api/v1/launches":    true,
	"/api/v1/visibility":  true,
	"/api/v1/cache/stats": true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	if strings.HasPrefix(path, "/api/v1/visibility/") {
		return "/api/v1/visibility/{id}"
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
